// Package file loads and saves dialog assets as single YAML or JSON files.
package file

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/nodedialog/pkg/adapters/asset"
	"github.com/aretw0/nodedialog/pkg/graph"
)

// Format is the encoding of an asset file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension. Unknown extensions are YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Store reads and writes one asset file.
type Store struct {
	Path string
}

// NewStore creates a Store for the given path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads the asset file and builds its graph.
func (s *Store) Load(opts ...graph.Option) (*graph.Graph, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset file: %w", err)
	}
	g, err := Decode(bytes.NewReader(data), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return g, nil
}

// Save writes the graph to the asset file, creating parent directories.
func (s *Store) Save(g *graph.Graph) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("failed to ensure asset directory: %w", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, g, FormatOf(s.Path)); err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write asset file: %w", err)
	}
	return nil
}

// Decode reads an asset in either format. JSON is read as YAML, which it is a subset of.
func Decode(r io.Reader, opts ...graph.Option) (*graph.Graph, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty asset")
		}
		return nil, fmt.Errorf("failed to parse asset: %w", err)
	}

	doc, err := asset.Decode(raw)
	if err != nil {
		return nil, err
	}
	return asset.Build(doc, opts...)
}

// Encode writes the graph in the given format.
func Encode(w io.Writer, g *graph.Graph, format Format) error {
	doc := asset.Export(g)

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to marshal asset: %w", err)
		}
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to marshal asset: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to marshal asset: %w", err)
		}
	}
	return nil
}

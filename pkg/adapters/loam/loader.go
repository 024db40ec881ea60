// Package loam loads dialog graphs from a directory of markdown documents,
// one node per file, through the Loam document store.
//
// A node file carries its wiring in frontmatter and its text in the body:
//
//	---
//	kind: choice
//	options:
//	  - label: Left
//	    to: left
//	---
//	Which way?
//
// The node named after the entry file (default "start") is authored first, so
// it is the root under the default root policy.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/nodedialog/pkg/adapters/asset"
	"github.com/aretw0/nodedialog/pkg/graph"
)

// DefaultEntry is the name of the node authored first.
const DefaultEntry = "start"

// Loader adapts a Loam repository to dialog graphs.
type Loader struct {
	Repo  *loam.TypedRepository[NodeMetadata]
	Entry string
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[NodeMetadata]) *Loader {
	return &Loader{
		Repo:  repo,
		Entry: DefaultEntry,
	}
}

// Open initializes a read-only Loam repository at path.
// Strict mode keeps numbers as json.Number across markdown, YAML and JSON files.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[NodeMetadata](repo)), nil
}

// Load reads every document and builds the graph.
func (l *Loader) Load(ctx context.Context, opts ...graph.Option) (*graph.Graph, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	specs := make([]asset.NodeSpec, 0, len(docs))

	for _, item := range docs {
		rawID := item.Data.ID
		if rawID == "" {
			rawID = item.ID
		}
		name := trimExtension(rawID)

		if existing, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: node '%s' is defined in both '%s' and '%s'", name, existing, item.ID)
		}
		seen[name] = item.ID

		doc, err := l.Repo.Get(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", item.ID, err)
		}
		specs = append(specs, doc.Data.spec(name, strings.TrimSpace(doc.Content)))
	}

	slices.SortStableFunc(specs, func(a, b asset.NodeSpec) int {
		switch {
		case a.Name == b.Name:
			return 0
		case a.Name == l.Entry:
			return -1
		case b.Name == l.Entry:
			return 1
		default:
			return strings.Compare(a.Name, b.Name)
		}
	})

	g, err := asset.Build(&asset.Document{Nodes: specs}, opts...)
	if err != nil {
		return nil, fmt.Errorf("loam build failed: %w", err)
	}
	return g, nil
}

// Save writes one document per node. The repository must not be read-only.
func (l *Loader) Save(ctx context.Context, g *graph.Graph) error {
	for _, spec := range asset.Export(g).Nodes {
		text := spec.Text
		if spec.Prompt != "" {
			text = spec.Prompt
		}
		spec.Prompt = ""

		err := l.Repo.Save(ctx, &loam.DocumentModel[NodeMetadata]{
			ID:      spec.Name,
			Content: text,
			Data:    metadataOf(spec),
		})
		if err != nil {
			return fmt.Errorf("loam save failed for %s: %w", spec.Name, err)
		}
	}
	return nil
}

// Watch reports the id of every changed node document until ctx is done.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- evt.ID:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

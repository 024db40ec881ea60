// Package localize resolves authored tokens into display text.
package localize

import (
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/nodedialog/pkg/ports"
)

// Identity returns every token unchanged. It is the default localizer.
type Identity struct{}

func (Identity) Localize(token string) string { return token }

// Catalog holds translated messages for several locales.
//
// The YAML form maps a BCP 47 tag to token/message pairs:
//
//	en:
//	  greet: "Hello, traveler."
//	pt-BR:
//	  greet: "Olá, viajante."
type Catalog struct {
	mu      sync.RWMutex
	builder *catalog.Builder
	tags    []language.Tag
	keys    map[language.Tag]map[string]bool
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		builder: catalog.NewBuilder(),
		keys:    make(map[language.Tag]map[string]bool),
	}
}

// Set adds or replaces a message.
func (c *Catalog) Set(locale, token, msg string) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("locale %q: %w", locale, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.builder.SetString(tag, token, msg); err != nil {
		return fmt.Errorf("locale %q token %q: %w", locale, token, err)
	}
	if _, ok := c.keys[tag]; !ok {
		c.keys[tag] = make(map[string]bool)
		c.tags = append(c.tags, tag)
	}
	c.keys[tag][token] = true
	return nil
}

// LoadYAML merges messages read from r.
func (c *Catalog) LoadYAML(r io.Reader) error {
	var doc map[string]map[string]string
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decode catalog: %w", err)
	}

	locales := make([]string, 0, len(doc))
	for locale := range doc {
		locales = append(locales, locale)
	}
	slices.Sort(locales)

	for _, locale := range locales {
		for token, msg := range doc[locale] {
			if err := c.Set(locale, token, msg); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadFile merges messages from a YAML file.
func (c *Catalog) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return c.LoadYAML(f)
}

// Locales returns the locales that have at least one message, in insertion order.
func (c *Catalog) Locales() []language.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.tags)
}

// Localizer returns a localizer for the closest supported locale.
// Several preferences may be given, most preferred first.
func (c *Catalog) Localizer(preferred ...string) (*Localizer, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.tags) == 0 {
		return nil, fmt.Errorf("catalog has no locales")
	}

	var want []language.Tag
	for _, p := range preferred {
		tag, err := language.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("locale %q: %w", p, err)
		}
		want = append(want, tag)
	}

	tag := c.tags[0]
	if len(want) > 0 {
		_, idx, _ := language.NewMatcher(c.tags).Match(want...)
		tag = c.tags[idx]
	}

	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(c.builder)),
		keys:    c.keys[tag],
		mu:      &c.mu,
	}, nil
}

// Localizer resolves tokens against one locale of a Catalog.
// Tokens without a message are returned verbatim.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
	keys    map[string]bool
	mu      *sync.RWMutex
}

// Tag returns the matched locale.
func (l *Localizer) Tag() language.Tag { return l.tag }

func (l *Localizer) Localize(token string) string {
	l.mu.RLock()
	known := l.keys[token]
	l.mu.RUnlock()

	if !known {
		return token
	}
	return l.printer.Sprintf(token)
}

var (
	_ ports.Localizer = Identity{}
	_ ports.Localizer = (*Localizer)(nil)
)

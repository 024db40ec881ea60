package asset

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/nodedialog/pkg/domain"
	"github.com/aretw0/nodedialog/pkg/graph"
)

// Decode converts loosely typed data, as produced by YAML, JSON or
// frontmatter parsers, into a Document.
func Decode(raw any) (*Document, error) {
	var doc Document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		ErrorUnused:      true,
		WeaklyTypedInput: false,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode asset: %w", err)
	}
	return &doc, nil
}

// Build creates a graph from a document. Nodes are added in document order,
// then connected by name. Every problem is reported, not only the first.
func Build(doc *Document, opts ...graph.Option) (*graph.Graph, error) {
	policy, err := graph.ParseRootPolicy(doc.RootPolicy)
	if err != nil {
		return nil, err
	}
	g := graph.New(append([]graph.Option{graph.WithRootPolicy(policy)}, opts...)...)

	var errs []error
	ids := make(map[string]domain.NodeID, len(doc.Nodes))

	for i, spec := range doc.Nodes {
		if spec.Name == "" {
			errs = append(errs, fmt.Errorf("nodes[%d]: missing name", i))
			continue
		}

		body, err := spec.body()
		if err != nil {
			errs = append(errs, fmt.Errorf("node %q: %w", spec.Name, err))
			continue
		}
		id, err := g.AddNode(spec.Name, body)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ids[spec.Name] = id

		vars, err := spec.vars()
		if err != nil {
			errs = append(errs, fmt.Errorf("node %q: %w", spec.Name, err))
		}
		if len(vars) > 0 {
			_ = g.SetVars(id, vars)
		}
		for _, b := range spec.OnEnter {
			_ = g.AddOnEnter(id, b.binding())
		}
		for _, b := range spec.OnExit {
			_ = g.AddOnExit(id, b.binding())
		}
	}

	for _, spec := range doc.Nodes {
		from, ok := ids[spec.Name]
		if !ok {
			continue
		}
		for _, opt := range spec.connections() {
			to, ok := ids[opt.To]
			if !ok {
				errs = append(errs, fmt.Errorf("node %q: connection to %q: %w", spec.Name, opt.To, domain.ErrNotFound))
				continue
			}
			if _, err := g.Connect(from, to, opt.Label); err != nil {
				errs = append(errs, fmt.Errorf("node %q: %w", spec.Name, err))
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return g, nil
}

func (s NodeSpec) body() (domain.Body, error) {
	switch domain.Kind(s.Kind) {
	case "", domain.KindStatement:
		if s.Prompt != "" {
			return nil, fmt.Errorf("statement has a prompt")
		}
		if len(s.Options) > 0 && s.Kind == "" {
			return domain.Choice{Prompt: s.Text}, nil
		}
		return domain.Statement{Text: s.Text}, nil
	case domain.KindChoice:
		prompt := s.Prompt
		if prompt == "" {
			prompt = s.Text
		}
		return domain.Choice{Prompt: prompt}, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", s.Kind)
	}
}

func (s NodeSpec) vars() (map[string]string, error) {
	if len(s.Vars) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(s.Vars))
	var errs []error
	for _, v := range s.Vars {
		if _, dup := out[v.Key]; dup {
			errs = append(errs, fmt.Errorf("%w: %q", domain.ErrDuplicateVar, v.Key))
			continue
		}
		out[v.Key] = v.Value
	}
	return out, errors.Join(errs...)
}

func (s NodeSpec) connections() []OptionSpec {
	out := make([]OptionSpec, 0, len(s.Options)+1)
	if s.Next != "" {
		out = append(out, OptionSpec{To: s.Next})
	}
	return append(out, s.Options...)
}

// Export converts a graph into a document. Vars are written sorted by key.
// Nodes without a name are named after their id.
func Export(g *graph.Graph) *Document {
	doc := &Document{}
	if g.RootPolicy() != graph.RootFirstAuthored {
		doc.RootPolicy = g.RootPolicy().String()
	}

	conns := make(map[domain.ConnectionID]domain.Connection)
	for _, c := range g.Connections() {
		conns[c.ID] = c
	}

	nodes := g.Nodes()
	names := make(map[domain.NodeID]string, len(nodes))
	for _, n := range nodes {
		names[n.ID] = n.Label()
	}

	for _, n := range nodes {
		spec := NodeSpec{Name: names[n.ID], Kind: string(n.Kind())}
		switch body := n.Body.(type) {
		case domain.Statement:
			spec.Text = body.Text
		case domain.Choice:
			spec.Prompt = body.Prompt
		}

		for _, cid := range n.Outgoing {
			c := conns[cid]
			spec.Options = append(spec.Options, OptionSpec{Label: c.Label, To: names[c.To]})
		}
		if n.Kind() == domain.KindStatement && len(spec.Options) == 1 && spec.Options[0].Label == "" {
			spec.Next = spec.Options[0].To
			spec.Options = nil
		}

		for _, k := range slices.Sorted(maps.Keys(n.Vars)) {
			spec.Vars = append(spec.Vars, VarSpec{Key: k, Value: n.Vars[k]})
		}
		for _, b := range n.OnEnter {
			spec.OnEnter = append(spec.OnEnter, bindingSpec(b))
		}
		for _, b := range n.OnExit {
			spec.OnExit = append(spec.OnExit, bindingSpec(b))
		}
		doc.Nodes = append(doc.Nodes, spec)
	}
	return doc
}

package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/nodedialog/pkg/domain"
	"github.com/aretw0/nodedialog/pkg/graph"
)

// Builder manages the graph construction.
// Nodes are authored in the order they are first added.
type Builder struct {
	nodes map[string]*NodeBuilder
	order []string
	opts  []graph.Option
}

// New creates a new graph builder.
func New(opts ...graph.Option) *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
		opts:  opts,
	}
}

// Add creates a new node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(name string) *NodeBuilder {
	if nb, ok := b.nodes[name]; ok {
		return nb
	}
	nb := &NodeBuilder{
		name: name,
		body: domain.Statement{},
	}
	b.nodes[name] = nb
	b.order = append(b.order, name)
	return nb
}

// Build compiles the graph. Targets that were never added are reported together.
func (b *Builder) Build() (*graph.Graph, error) {
	g := graph.New(b.opts...)
	ids := make(map[string]domain.NodeID, len(b.order))

	for _, name := range b.order {
		nb := b.nodes[name]
		id, err := g.AddNode(name, nb.body)
		if err != nil {
			return nil, fmt.Errorf("failed to add node %q: %w", name, err)
		}
		ids[name] = id

		if nb.vars != nil {
			_ = g.SetVars(id, nb.vars)
		}
		_ = g.AddOnEnter(id, nb.onEnter...)
		_ = g.AddOnExit(id, nb.onExit...)
	}

	var errs []error
	for _, name := range b.order {
		for _, edge := range b.nodes[name].edges {
			to, ok := ids[edge.to]
			if !ok {
				errs = append(errs, fmt.Errorf("node %q: target %q: %w", name, edge.to, domain.ErrNotFound))
				continue
			}
			if _, err := g.Connect(ids[name], to, edge.label); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return g, nil
}

package dsl

import "github.com/aretw0/nodedialog/pkg/domain"

type edge struct {
	label string
	to    string
}

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	name    string
	body    domain.Body
	edges   []edge
	vars    map[string]string
	onEnter []domain.EventBinding
	onExit  []domain.EventBinding
}

// Text makes the node a statement (soft step).
func (n *NodeBuilder) Text(text string) *NodeBuilder {
	n.body = domain.Statement{Text: text}
	return n
}

// Question makes the node a choice (hard step).
func (n *NodeBuilder) Question(prompt string) *NodeBuilder {
	n.body = domain.Choice{Prompt: prompt}
	return n
}

// Go adds an unlabeled connection to the target node.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	n.edges = append(n.edges, edge{to: target})
	return n
}

// Option adds a labeled connection to the target node.
func (n *NodeBuilder) Option(label, target string) *NodeBuilder {
	n.edges = append(n.edges, edge{label: label, to: target})
	return n
}

// Var sets a user variable. Later calls overwrite earlier ones.
func (n *NodeBuilder) Var(key, value string) *NodeBuilder {
	if n.vars == nil {
		n.vars = make(map[string]string)
	}
	n.vars[key] = value
	return n
}

// OnEnter appends bindings fired when the node is entered.
func (n *NodeBuilder) OnEnter(bindings ...domain.EventBinding) *NodeBuilder {
	n.onEnter = append(n.onEnter, bindings...)
	return n
}

// OnExit appends bindings fired when the node is left.
func (n *NodeBuilder) OnExit(bindings ...domain.EventBinding) *NodeBuilder {
	n.onExit = append(n.onExit, bindings...)
	return n
}

// Terminal removes every connection added so far.
func (n *NodeBuilder) Terminal() *NodeBuilder {
	n.edges = nil
	return n
}

// Package asset defines the authored form of a dialog graph shared by the
// file and loam loaders, and converts it to and from a *graph.Graph.
package asset

import (
	"github.com/aretw0/nodedialog/pkg/domain"
)

// Document is a whole dialog asset.
type Document struct {
	// RootPolicy is "first-authored" (default) or "no-incoming".
	RootPolicy string     `json:"root_policy,omitempty" yaml:"root_policy,omitempty" mapstructure:"root_policy"`
	Nodes      []NodeSpec `json:"nodes" yaml:"nodes" mapstructure:"nodes"`
}

// NodeSpec is one authored node. Connections reference other nodes by name.
type NodeSpec struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	// Kind is "statement" (default) or "choice".
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty" mapstructure:"kind"`

	Text   string `json:"text,omitempty" yaml:"text,omitempty" mapstructure:"text"`
	Prompt string `json:"prompt,omitempty" yaml:"prompt,omitempty" mapstructure:"prompt"`

	// Next is shorthand for a single unlabeled connection.
	Next    string       `json:"next,omitempty" yaml:"next,omitempty" mapstructure:"next"`
	Options []OptionSpec `json:"options,omitempty" yaml:"options,omitempty" mapstructure:"options"`

	// Vars is ordered; a key may appear once.
	Vars []VarSpec `json:"vars,omitempty" yaml:"vars,omitempty" mapstructure:"vars"`

	OnEnter []BindingSpec `json:"on_enter,omitempty" yaml:"on_enter,omitempty" mapstructure:"on_enter"`
	OnExit  []BindingSpec `json:"on_exit,omitempty" yaml:"on_exit,omitempty" mapstructure:"on_exit"`
}

// OptionSpec is a labeled connection.
type OptionSpec struct {
	Label string `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	To    string `json:"to" yaml:"to" mapstructure:"to"`
}

// VarSpec is one user variable.
type VarSpec struct {
	Key   string `json:"key" yaml:"key" mapstructure:"key"`
	Value string `json:"value" yaml:"value" mapstructure:"value"`
}

// BindingSpec is the authored form of an event binding.
// Bound bindings cannot be authored: their target only exists at runtime.
type BindingSpec struct {
	Key    string             `json:"key,omitempty" yaml:"key,omitempty" mapstructure:"key"`
	Kind   string             `json:"kind,omitempty" yaml:"kind,omitempty" mapstructure:"kind"`
	Type   string             `json:"type" yaml:"type" mapstructure:"type"`
	Method string             `json:"method" yaml:"method" mapstructure:"method"`
	Params []domain.Parameter `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
}

func (b BindingSpec) binding() domain.EventBinding {
	kind := domain.TargetKind(b.Kind)
	if kind == "" {
		kind = domain.TargetStatic
	}
	return domain.EventBinding{
		Key:    b.Key,
		Kind:   kind,
		Type:   b.Type,
		Method: b.Method,
		Params: b.Params,
	}
}

func bindingSpec(b domain.EventBinding) BindingSpec {
	return BindingSpec{
		Key:    b.Key,
		Kind:   string(b.Kind),
		Type:   b.Type,
		Method: b.Method,
		Params: b.Params,
	}
}

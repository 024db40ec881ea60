package loam

import (
	"github.com/aretw0/nodedialog/pkg/adapters/asset"
)

// NodeMetadata is the frontmatter of one dialog node document.
// The document body is the statement text or choice prompt.
type NodeMetadata struct {
	// ID overrides the file name as the node name.
	ID   string `json:"id,omitempty" mapstructure:"id"`
	Kind string `json:"kind,omitempty" mapstructure:"kind"`

	// Next (alias To) is the follow-up of a statement.
	Next    string             `json:"next,omitempty" mapstructure:"next"`
	To      string             `json:"to,omitempty" mapstructure:"to"`
	Options []asset.OptionSpec `json:"options,omitempty" mapstructure:"options"`

	Vars    []asset.VarSpec     `json:"vars,omitempty" mapstructure:"vars"`
	OnEnter []asset.BindingSpec `json:"on_enter,omitempty" mapstructure:"on_enter"`
	OnExit  []asset.BindingSpec `json:"on_exit,omitempty" mapstructure:"on_exit"`
}

func (m NodeMetadata) spec(name, content string) asset.NodeSpec {
	next := m.Next
	if next == "" {
		next = m.To
	}
	return asset.NodeSpec{
		Name:    name,
		Kind:    m.Kind,
		Text:    content,
		Next:    trimExtension(next),
		Options: m.options(),
		Vars:    m.Vars,
		OnEnter: m.OnEnter,
		OnExit:  m.OnExit,
	}
}

func (m NodeMetadata) options() []asset.OptionSpec {
	if len(m.Options) == 0 {
		return nil
	}
	out := make([]asset.OptionSpec, len(m.Options))
	for i, o := range m.Options {
		out[i] = asset.OptionSpec{Label: o.Label, To: trimExtension(o.To)}
	}
	return out
}

func metadataOf(spec asset.NodeSpec) NodeMetadata {
	return NodeMetadata{
		ID:      spec.Name,
		Kind:    spec.Kind,
		Next:    spec.Next,
		Options: spec.Options,
		Vars:    spec.Vars,
		OnEnter: spec.OnEnter,
		OnExit:  spec.OnExit,
	}
}

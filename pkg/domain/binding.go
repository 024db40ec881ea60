package domain

import "strings"

// TargetKind selects how an EventBinding finds its receiver.
type TargetKind string

const (
	// TargetStatic calls a function registered on a type name, without a receiver.
	TargetStatic TargetKind = "static"
	// TargetBound calls a method on the live instance captured in EventBinding.Target.
	TargetBound TargetKind = "bound"
	// TargetInjected calls a method on an instance supplied later through injection.
	TargetInjected TargetKind = "injected"
)

// ParamType tags the type of an authored literal parameter.
type ParamType string

const (
	ParamString ParamType = "string"
	ParamInt    ParamType = "int"
	ParamFloat  ParamType = "float"
	ParamBool   ParamType = "bool"
)

// Parameter is a typed literal argument captured at authoring time.
type Parameter struct {
	Type  ParamType `json:"type" yaml:"type" mapstructure:"type"`
	Value any       `json:"value" yaml:"value" mapstructure:"value"`
}

// Signature is the ordered list of parameter types of a callable.
type Signature []ParamType

func (s Signature) String() string {
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = string(p)
	}
	return strings.Join(parts, ",")
}

// Equal reports whether both signatures have the same types in the same order.
func (s Signature) Equal(other Signature) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// EventBinding is a serialized reference to a callable plus its literal arguments.
// Bindings are resolved on every invocation; nothing is cached.
type EventBinding struct {
	// Key identifies the binding on the injection surface.
	// When empty, InjectionKey falls back to "Type.Method".
	Key    string      `json:"key,omitempty" yaml:"key,omitempty" mapstructure:"key"`
	Kind   TargetKind  `json:"kind" yaml:"kind" mapstructure:"kind"`
	Type   string      `json:"type" yaml:"type" mapstructure:"type"`
	Method string      `json:"method" yaml:"method" mapstructure:"method"`
	Params []Parameter `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`

	// Target is the live receiver of a TargetBound binding. Never serialized.
	Target any `json:"-" yaml:"-" mapstructure:"-"`
}

// Signature returns the authored parameter types in order.
func (b EventBinding) Signature() Signature {
	sig := make(Signature, len(b.Params))
	for i, p := range b.Params {
		sig[i] = p.Type
	}
	return sig
}

// InjectionKey returns the key under which an injected target is stored.
// Keyless bindings to the same method share "Type.Method".
func (b EventBinding) InjectionKey() string {
	if b.Key != "" {
		return b.Key
	}
	return b.Type + "." + b.Method
}

// IsEmpty reports a binding with no type or method, which is a silent no-op.
func (b EventBinding) IsEmpty() bool {
	return b.Type == "" || b.Method == ""
}

func (b EventBinding) String() string {
	return b.Type + "." + b.Method + "(" + b.Signature().String() + ")"
}

func cloneBindings(src []EventBinding) []EventBinding {
	if src == nil {
		return nil
	}
	out := make([]EventBinding, len(src))
	for i, b := range src {
		out[i] = b
		out[i].Params = append([]Parameter(nil), b.Params...)
	}
	return out
}

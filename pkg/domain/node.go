package domain

import "maps"

// Kind names a node variant.
type Kind string

// Node variants. The set is closed: adding a kind means adding a Body type.
const (
	// KindStatement presents text and continues on its first outgoing connection (soft step).
	KindStatement Kind = "statement"
	// KindChoice presents a prompt and halts until the host picks a connection (hard step).
	KindChoice Kind = "choice"
)

// Body is the variant-specific payload of a Node.
// Only Statement and Choice implement it.
type Body interface {
	Kind() Kind
	// Token returns the text or localization token carried by the variant.
	Token() string
	isBody()
}

// Statement is a line of dialog delivered to the speaker without waiting.
type Statement struct {
	Text string `json:"text" yaml:"text"`
}

// Choice is a prompt that suspends traversal until one outgoing connection is chosen.
type Choice struct {
	Prompt string `json:"prompt" yaml:"prompt"`
}

func (Statement) Kind() Kind { return KindStatement }
func (s Statement) Token() string { return s.Text }
func (Statement) isBody() {}
func (Choice) Kind() Kind { return KindChoice }
func (c Choice) Token() string { return c.Prompt }
func (Choice) isBody() {}

// Node represents a unit of dialog in the graph.
type Node struct {
	ID NodeID `json:"id"`

	// Name is the authoring key. It is unique within a graph when set.
	Name string `json:"name,omitempty"`

	Body Body `json:"-"`

	// Outgoing lists connection ids in authored order.
	// Index 0 is the auto-follow target of a Statement.
	Outgoing []ConnectionID `json:"outgoing"`

	// Vars holds the authoring-time user variables exposed to the speaker.
	Vars map[string]string `json:"vars,omitempty"`

	OnEnter []EventBinding `json:"on_enter,omitempty"`
	OnExit  []EventBinding `json:"on_exit,omitempty"`
}

// Kind returns the variant of the node, or "" if the body is unset.
func (n Node) Kind() Kind {
	if n.Body == nil {
		return ""
	}
	return n.Body.Kind()
}

// Token returns the statement text or choice prompt.
func (n Node) Token() string {
	if n.Body == nil {
		return ""
	}
	return n.Body.Token()
}

// Label returns the name if set, the id otherwise.
func (n Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.String()
}

// Clone returns a deep copy safe to hand out to readers.
func (n Node) Clone() Node {
	out := n
	out.Outgoing = append([]ConnectionID(nil), n.Outgoing...)
	if n.Vars != nil {
		out.Vars = maps.Clone(n.Vars)
	}
	out.OnEnter = cloneBindings(n.OnEnter)
	out.OnExit = cloneBindings(n.OnExit)
	return out
}

// Connection is a directed, labeled edge between two nodes of the same graph.
// Cycles are legal.
type Connection struct {
	ID    ConnectionID `json:"id"`
	From  NodeID       `json:"from"`
	To    NodeID       `json:"to"`
	Label string       `json:"label,omitempty"`
}

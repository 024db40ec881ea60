package domain

// Status is the traversal state of one speaker.
type Status string

const (
	// StatusPresenting means the cursor rests on a node that Advance will present next.
	StatusPresenting Status = "presenting"
	// StatusAwaitingChoice means traversal is suspended until the pending choice is made.
	StatusAwaitingChoice Status = "awaiting_choice"
	// StatusEnded means the speaker has no traversal state; the next Advance starts at the root.
	StatusEnded Status = "ended"
)

// Cursor is a snapshot of a speaker's position in the graph.
type Cursor struct {
	Node   NodeID `json:"node"`
	Status Status `json:"status"`
}

// Option is one outgoing connection offered to the speaker at a Choice node.
type Option struct {
	Label      string       `json:"label"`
	Connection ConnectionID `json:"connection"`
}

// StepResult describes what a single Advance call did.
type StepResult struct {
	Speaker string `json:"speaker"`
	Node    NodeID `json:"node"`
	Kind    Kind   `json:"kind"`

	// Status is the speaker's state after the step.
	Status Status `json:"status"`

	// Next is the cursor after the step. Zero when the dialog ended or a choice is pending.
	Next NodeID `json:"next"`

	// Options holds the connections offered at a Choice node.
	Options []Option `json:"options,omitempty"`

	// DispatchErrors collects event binding failures. They never abort the step.
	DispatchErrors []error `json:"-"`
}

// Ended reports whether the step finished the conversation.
func (r *StepResult) Ended() bool {
	return r.Status == StatusEnded
}

// ChoiceResult describes a committed choice.
type ChoiceResult struct {
	Speaker    string       `json:"speaker"`
	From       NodeID       `json:"from"`
	Connection ConnectionID `json:"connection"`
	Next       NodeID       `json:"next"`

	DispatchErrors []error `json:"-"`
}

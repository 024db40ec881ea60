package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventNodeEnter EventType = "node_enter"
	EventNodeLeave EventType = "node_leave"
	EventDispatch  EventType = "dispatch"
	EventDialogEnd EventType = "dialog_end"
)

// Phase tells which binding list of a node is being fired.
type Phase string

const (
	PhaseEnter Phase = "on_enter"
	PhaseExit  Phase = "on_exit"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Speaker   string    `json:"speaker"`
}

// NodeEvent represents entry into or exit from a node.
type NodeEvent struct {
	EventBase
	NodeID   NodeID `json:"node_id"`
	NodeName string `json:"node_name,omitempty"`
	NodeKind Kind   `json:"node_kind"`
}

// DispatchEvent reports one binding invocation.
type DispatchEvent struct {
	EventBase
	NodeID  NodeID `json:"node_id"`
	Phase   Phase  `json:"phase"`
	Binding string `json:"binding"`
	Err     error  `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any of them may be nil.
type LifecycleHooks struct {
	OnNodeEnter func(context.Context, *NodeEvent)
	OnNodeLeave func(context.Context, *NodeEvent)
	OnDispatch  func(context.Context, *DispatchEvent)
	OnDialogEnd func(context.Context, *NodeEvent)
}

package domain

import (
	"errors"
	"fmt"
)

// Graph errors.
var (
	// ErrNotFound is returned when an id does not exist in the graph.
	ErrNotFound = errors.New("not found")

	// ErrGraphCorruption is returned by traversal when the graph references a missing node or connection.
	// The speaker's traversal is dropped; the next Advance restarts at the root.
	ErrGraphCorruption = errors.New("graph corruption")

	// ErrEmptyGraph is returned when a root is requested from a graph without nodes.
	ErrEmptyGraph = errors.New("graph has no nodes")

	// ErrAmbiguousRoot is returned when the root policy cannot single out one node.
	ErrAmbiguousRoot = errors.New("ambiguous root")

	// ErrEmptyChoice flags a choice node without outgoing connections, which could never be left.
	ErrEmptyChoice = errors.New("choice node has no outgoing connections")

	// ErrDuplicateName is returned when two nodes share an authoring name.
	ErrDuplicateName = errors.New("duplicate node name")

	// ErrMultipleOutgoing flags a statement with more than one outgoing connection.
	// Only the first one is ever followed.
	ErrMultipleOutgoing = errors.New("statement has more than one outgoing connection")

	// ErrUnreachable flags a node that no path from the root reaches.
	ErrUnreachable = errors.New("node unreachable from root")

	// ErrDuplicateVar is returned by loaders when a node declares the same variable twice.
	ErrDuplicateVar = errors.New("duplicate variable")

	// ErrInvalidBinding flags an event binding that can never be invoked as authored.
	ErrInvalidBinding = errors.New("invalid event binding")
)

// Traversal errors.
var (
	// ErrAlreadyAwaitingChoice is returned by Advance while the speaker has a pending choice.
	ErrAlreadyAwaitingChoice = errors.New("speaker is awaiting a choice")

	// ErrInvalidChoice is returned when a continuation is reused or given a connection that was not offered.
	ErrInvalidChoice = errors.New("invalid choice")
)

// Dispatch error classes. A *DispatchError unwraps to exactly one of them.
var (
	ErrTargetUnresolved  = errors.New("target unresolved")
	ErrMethodUnresolved  = errors.New("method unresolved")
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrNotInjected       = errors.New("not injected")
	ErrInvocationThrew   = errors.New("invocation threw")
)

// DispatchError reports a failed event binding invocation.
type DispatchError struct {
	Class   error  // One of the Err* dispatch classes
	Binding string // Binding description, e.g. "Door.Open(string)"
	Err     error  // Underlying cause, may be nil
}

func (e *DispatchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("dispatch %s: %v", e.Binding, e.Class)
	}
	return fmt.Sprintf("dispatch %s: %v: %v", e.Binding, e.Class, e.Err)
}

func (e *DispatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Class}
	}
	return []error{e.Class, e.Err}
}

// NewDispatchError builds a DispatchError for the given binding.
func NewDispatchError(class error, b EventBinding, cause error) *DispatchError {
	return &DispatchError{Class: class, Binding: b.String(), Err: cause}
}

package schema

import (
	"fmt"
	"strings"
)

// ValidationError represents a single value validation failure.
type ValidationError struct {
	Key    string // Field or parameter position, e.g. "params[1]"
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("%s: %s (got %T)", e.Key, e.Reason, e.Value)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// A single *ValidationError is returned as a one-element slice. Otherwise returns nil.
func ValidationErrors(err error) []error {
	switch e := err.(type) {
	case *AggregateError:
		return e.Errors
	case *ValidationError:
		return []error{e}
	}
	return nil
}

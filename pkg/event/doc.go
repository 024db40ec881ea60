// Package event resolves and invokes the event bindings attached to dialog nodes.
//
// Hosts populate a Registry with the callables a dialog may reference, keyed by
// type name, method name and parameter signature. A Dispatcher looks a binding
// up on every invocation, coerces its authored literals and calls it. Nothing
// is cached between calls, so registering or injecting a target takes effect
// on the next step.
package event

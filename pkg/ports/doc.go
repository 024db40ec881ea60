/*
Package ports defines the driven ports (interfaces) of the NodeDialog runtime.

These interfaces decouple the traversal engine from the graph storage, the
event dispatch mechanism and the host presentation layer.

# Key Interfaces

  - GraphStore: Read-only access to nodes and connections at runtime.
  - Speaker: Implemented by the host to receive statements and choices.
  - Localizer: Turns authored tokens into display text.
  - Dispatcher: Resolves and invokes EventBindings.
  - Container: Searched for a component when a binding target is injected.
*/
package ports

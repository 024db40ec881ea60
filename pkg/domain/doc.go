/*
Package domain contains the core data model of the NodeDialog runtime.

It defines the dialog graph entities (Nodes, Connections), the serialized event
bindings fired at node boundaries, and the traversal results returned to hosts.
This package is kept pure and free of I/O, following Hexagonal Architecture
principles.

# Key Entities

  - Node: A unit of dialog content. Its Body is either a Statement or a Choice.
  - Connection: A directed, labeled edge between two nodes.
  - EventBinding: A resolvable reference to a callable invoked on node enter/exit.
  - StepResult: What a single traversal step did for a speaker.

Node and connection identities are generational arena handles. A handle that
outlives the slot it pointed to never resolves to a different node.
*/
package domain

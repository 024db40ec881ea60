package ports

import "github.com/aretw0/nodedialog/pkg/domain"

// GraphStore is the runtime view of one character's dialog graph.
// Implementations must be safe for concurrent readers.
// Missing ids fail with an error wrapping domain.ErrNotFound.
type GraphStore interface {
	// Node returns a copy of the node with the given id.
	Node(id domain.NodeID) (domain.Node, error)

	// Connection returns the connection with the given id.
	Connection(id domain.ConnectionID) (domain.Connection, error)

	// Root returns the node where every fresh traversal starts.
	Root() (domain.NodeID, error)

	// Outgoing returns the node's outgoing connection ids in authored order.
	Outgoing(id domain.NodeID) ([]domain.ConnectionID, error)
}

// Inspectable is implemented by stores that can enumerate their content.
// Used by visualization and validation tools.
type Inspectable interface {
	Nodes() []domain.Node
	Connections() []domain.Connection
}

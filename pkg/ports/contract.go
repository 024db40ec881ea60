package ports

import (
	"testing"

	"github.com/aretw0/nodedialog/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunGraphStoreContract runs a suite of tests to verify that a GraphStore
// implementation adheres to the interface contract. The store must hold at
// least one node.
func RunGraphStoreContract(t *testing.T, store GraphStore) {
	t.Helper()

	root, err := store.Root()
	require.NoError(t, err, "Root should not fail on a non-empty graph")

	t.Run("Root resolves", func(t *testing.T) {
		node, err := store.Node(root)
		require.NoError(t, err)
		assert.Equal(t, root, node.ID)
		assert.NotEmpty(t, node.Kind(), "root node must have a body")
	})

	t.Run("Outgoing matches node", func(t *testing.T) {
		node, err := store.Node(root)
		require.NoError(t, err)

		out, err := store.Outgoing(root)
		require.NoError(t, err)
		assert.Equal(t, node.Outgoing, out)

		for _, cid := range out {
			conn, err := store.Connection(cid)
			require.NoError(t, err)
			assert.Equal(t, root, conn.From, "outgoing connection must start at its node")
			_, err = store.Node(conn.To)
			assert.NoError(t, err, "connection target must exist")
		}
	})

	t.Run("Copies are isolated", func(t *testing.T) {
		node, err := store.Node(root)
		require.NoError(t, err)
		node.Outgoing = append(node.Outgoing, domain.ConnectionID{Index: 999, Gen: 1})

		again, err := store.Node(root)
		require.NoError(t, err)
		assert.NotContains(t, again.Outgoing, domain.ConnectionID{Index: 999, Gen: 1})
	})

	t.Run("Unknown ids", func(t *testing.T) {
		_, err := store.Node(domain.NodeID{Index: 1 << 20, Gen: 1})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = store.Connection(domain.ConnectionID{Index: 1 << 20, Gen: 1})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = store.Outgoing(domain.NodeID{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

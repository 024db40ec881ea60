package graph_test

import (
	"testing"

	"github.com/aretw0/nodedialog/pkg/domain"
	"github.com/aretw0/nodedialog/pkg/graph"
	"github.com/aretw0/nodedialog/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) (*graph.Graph, domain.NodeID, domain.NodeID, domain.NodeID) {
	t.Helper()
	g := graph.New()
	a, err := g.AddStatement("a", "Hello")
	require.NoError(t, err)
	b, err := g.AddChoice("b", "Pick")
	require.NoError(t, err)
	c, err := g.AddStatement("c", "Bye")
	require.NoError(t, err)
	_, err = g.Connect(a, b, "")
	require.NoError(t, err)
	_, err = g.Connect(b, c, "Leave")
	require.NoError(t, err)
	return g, a, b, c
}

func TestGraph_Contract(t *testing.T) {
	g, _, _, _ := sample(t)
	ports.RunGraphStoreContract(t, g)
}

func TestGraph_AddAndRead(t *testing.T) {
	g, a, b, c := sample(t)

	root, err := g.Root()
	require.NoError(t, err)
	assert.Equal(t, a, root)

	node, err := g.Node(b)
	require.NoError(t, err)
	assert.Equal(t, domain.KindChoice, node.Kind())
	assert.Equal(t, "Pick", node.Token())
	require.Len(t, node.Outgoing, 1)

	conn, err := g.Connection(node.Outgoing[0])
	require.NoError(t, err)
	assert.Equal(t, b, conn.From)
	assert.Equal(t, c, conn.To)
	assert.Equal(t, "Leave", conn.Label)

	id, ok := g.Lookup("c")
	assert.True(t, ok)
	assert.Equal(t, c, id)
	assert.Equal(t, 3, g.Len())
}

func TestGraph_DuplicateName(t *testing.T) {
	g := graph.New()
	_, err := g.AddStatement("x", "one")
	require.NoError(t, err)

	_, err = g.AddStatement("x", "two")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	y, err := g.AddStatement("y", "three")
	require.NoError(t, err)
	assert.ErrorIs(t, g.Rename(y, "x"), domain.ErrDuplicateName)
	require.NoError(t, g.Rename(y, "z"))

	_, ok := g.Lookup("y")
	assert.False(t, ok)
	id, ok := g.Lookup("z")
	assert.True(t, ok)
	assert.Equal(t, y, id)
}

func TestGraph_ConnectUnknownNode(t *testing.T) {
	g := graph.New()
	a, err := g.AddStatement("", "a")
	require.NoError(t, err)

	_, err = g.Connect(a, domain.NodeID{Index: 9, Gen: 1}, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = g.Connect(domain.NodeID{}, a, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGraph_RemoveNodeCascades(t *testing.T) {
	g, a, b, c := sample(t)

	require.NoError(t, g.RemoveNode(b))

	_, err := g.Node(b)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err := g.Outgoing(a)
	require.NoError(t, err)
	assert.Empty(t, out, "connection into removed node must be gone")

	in, err := g.Incoming(c)
	require.NoError(t, err)
	assert.Empty(t, in, "connection out of removed node must be gone")
	assert.Empty(t, g.Connections())

	_, ok := g.Lookup("b")
	assert.False(t, ok)
}

func TestGraph_StaleIDAfterSlotReuse(t *testing.T) {
	g := graph.New()
	old, err := g.AddStatement("old", "x")
	require.NoError(t, err)
	require.NoError(t, g.RemoveNode(old))

	fresh, err := g.AddStatement("fresh", "y")
	require.NoError(t, err)
	assert.Equal(t, old.Index, fresh.Index, "slot is reused")
	assert.NotEqual(t, old, fresh)

	_, err = g.Node(old)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := g.Node(fresh)
	require.NoError(t, err)
	assert.Equal(t, "y", n.Token())
}

func TestGraph_RemoveConnection(t *testing.T) {
	g, a, _, _ := sample(t)
	out, err := g.Outgoing(a)
	require.NoError(t, err)
	require.Len(t, out, 1)

	require.NoError(t, g.RemoveConnection(out[0]))
	assert.ErrorIs(t, g.RemoveConnection(out[0]), domain.ErrNotFound)

	_, err = g.Connection(out[0])
	assert.ErrorIs(t, err, domain.ErrNotFound)
	out, err = g.Outgoing(a)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGraph_SetOutgoingOrder(t *testing.T) {
	g := graph.New()
	ask, _ := g.AddChoice("ask", "?")
	x, _ := g.AddStatement("x", "x")
	y, _ := g.AddStatement("y", "y")
	cx, _ := g.Connect(ask, x, "X")
	cy, _ := g.Connect(ask, y, "Y")

	require.NoError(t, g.SetOutgoingOrder(ask, []domain.ConnectionID{cy, cx}))
	out, err := g.Outgoing(ask)
	require.NoError(t, err)
	assert.Equal(t, []domain.ConnectionID{cy, cx}, out)

	assert.Error(t, g.SetOutgoingOrder(ask, []domain.ConnectionID{cy}))
}

func TestGraph_RootPolicy(t *testing.T) {
	t.Run("empty graph", func(t *testing.T) {
		_, err := graph.New().Root()
		assert.ErrorIs(t, err, domain.ErrEmptyGraph)
	})

	t.Run("first authored survives removal", func(t *testing.T) {
		g, a, b, _ := sample(t)
		require.NoError(t, g.RemoveNode(a))
		root, err := g.Root()
		require.NoError(t, err)
		assert.Equal(t, b, root)
	})

	t.Run("no incoming", func(t *testing.T) {
		g := graph.New(graph.WithRootPolicy(graph.RootNoIncoming))
		end, _ := g.AddStatement("end", "bye")
		start, _ := g.AddStatement("start", "hi")
		_, _ = g.Connect(start, end, "")

		root, err := g.Root()
		require.NoError(t, err)
		assert.Equal(t, start, root)
	})

	t.Run("no incoming is ambiguous", func(t *testing.T) {
		g := graph.New(graph.WithRootPolicy(graph.RootNoIncoming))
		_, _ = g.AddStatement("one", "1")
		_, _ = g.AddStatement("two", "2")
		_, err := g.Root()
		assert.ErrorIs(t, err, domain.ErrAmbiguousRoot)
	})

	t.Run("no incoming on a pure cycle", func(t *testing.T) {
		g := graph.New(graph.WithRootPolicy(graph.RootNoIncoming))
		a, _ := g.AddStatement("a", "a")
		_, _ = g.Connect(a, a, "")
		_, err := g.Root()
		assert.ErrorIs(t, err, domain.ErrAmbiguousRoot)
	})
}

func TestParseRootPolicy(t *testing.T) {
	p, err := graph.ParseRootPolicy("no-incoming")
	require.NoError(t, err)
	assert.Equal(t, graph.RootNoIncoming, p)
	assert.Equal(t, "no-incoming", p.String())

	p, err = graph.ParseRootPolicy("")
	require.NoError(t, err)
	assert.Equal(t, graph.RootFirstAuthored, p)

	_, err = graph.ParseRootPolicy("random")
	assert.Error(t, err)
}

func TestGraph_CopiesAreIsolated(t *testing.T) {
	g, a, _, _ := sample(t)
	require.NoError(t, g.SetVars(a, map[string]string{"mood": "happy"}))

	n, err := g.Node(a)
	require.NoError(t, err)
	n.Vars["mood"] = "sad"
	n.Outgoing = nil

	again, err := g.Node(a)
	require.NoError(t, err)
	assert.Equal(t, "happy", again.Vars["mood"])
	assert.Len(t, again.Outgoing, 1)
}

func TestGraph_Clone(t *testing.T) {
	g, a, b, _ := sample(t)
	cp := g.Clone()

	require.NoError(t, cp.RemoveNode(b))
	require.NoError(t, cp.SetBody(a, domain.Statement{Text: "Edited"}))

	n, err := g.Node(a)
	require.NoError(t, err)
	assert.Equal(t, "Hello", n.Token(), "original untouched")
	_, err = g.Node(b)
	assert.NoError(t, err)

	n, err = cp.Node(a)
	require.NoError(t, err)
	assert.Equal(t, "Edited", n.Token())
}

func TestGraph_Bindings(t *testing.T) {
	g, a, _, _ := sample(t)
	enter := domain.EventBinding{Kind: domain.TargetStatic, Type: "Audio", Method: "Play", Params: []domain.Parameter{{Type: domain.ParamString, Value: "chime"}}}
	exit := domain.EventBinding{Kind: domain.TargetInjected, Type: "Door", Method: "Close"}

	require.NoError(t, g.AddOnEnter(a, enter))
	require.NoError(t, g.AddOnExit(a, exit))

	n, err := g.Node(a)
	require.NoError(t, err)
	require.Len(t, n.OnEnter, 1)
	require.Len(t, n.OnExit, 1)
	assert.Equal(t, "Audio.Play(string)", n.OnEnter[0].String())
	assert.Equal(t, "Door.Close", n.OnExit[0].InjectionKey())
}

func TestGraph_EnumerationOrder(t *testing.T) {
	g, a, b, c := sample(t)
	nodes := g.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, []domain.NodeID{a, b, c}, []domain.NodeID{nodes[0].ID, nodes[1].ID, nodes[2].ID})

	conns := g.Connections()
	require.Len(t, conns, 2)
	assert.Equal(t, a, conns[0].From)
	assert.Equal(t, b, conns[1].From)
}

func TestGraph_SetText(t *testing.T) {
	g, a, b, _ := sample(t)
	require.NoError(t, g.SetText(a, "Howdy"))
	require.NoError(t, g.SetText(b, "Choose wisely"))

	n, _ := g.Node(a)
	assert.Equal(t, domain.KindStatement, n.Kind())
	assert.Equal(t, "Howdy", n.Token())

	n, _ = g.Node(b)
	assert.Equal(t, domain.KindChoice, n.Kind())
	assert.Equal(t, "Choose wisely", n.Token())

	assert.ErrorIs(t, g.SetText(domain.NodeID{}, "x"), domain.ErrNotFound)
}

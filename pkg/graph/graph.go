package graph

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/nodedialog/pkg/domain"
)

// RootPolicy decides which node starts every fresh traversal.
type RootPolicy int

const (
	// RootFirstAuthored picks the first live node in authoring order.
	RootFirstAuthored RootPolicy = iota
	// RootNoIncoming picks the single node without incoming connections.
	// Graphs with zero or several such nodes fail with domain.ErrAmbiguousRoot.
	RootNoIncoming
)

func (p RootPolicy) String() string {
	switch p {
	case RootFirstAuthored:
		return "first-authored"
	case RootNoIncoming:
		return "no-incoming"
	default:
		return fmt.Sprintf("RootPolicy(%d)", int(p))
	}
}

// ParseRootPolicy converts the text form of a RootPolicy.
func ParseRootPolicy(s string) (RootPolicy, error) {
	switch s {
	case "", "first-authored":
		return RootFirstAuthored, nil
	case "no-incoming":
		return RootNoIncoming, nil
	default:
		return 0, fmt.Errorf("unknown root policy %q", s)
	}
}

type nodeSlot struct {
	gen   uint32
	alive bool
	node  domain.Node
}

type connSlot struct {
	gen   uint32
	alive bool
	conn  domain.Connection
}

// Graph implements ports.GraphStore over an arena of nodes and connections.
// Safe for concurrent use.
type Graph struct {
	mu sync.RWMutex

	nodes []nodeSlot
	conns []connSlot

	freeNodes []uint32
	freeConns []uint32

	// order holds live node slot indexes in authoring order.
	order []uint32
	names map[string]domain.NodeID

	policy RootPolicy
}

// Option configures a Graph.
type Option func(*Graph)

// WithRootPolicy selects how Root picks the starting node.
func WithRootPolicy(p RootPolicy) Option {
	return func(g *Graph) {
		g.policy = p
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		names: make(map[string]domain.NodeID),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RootPolicy returns the policy used by Root.
func (g *Graph) RootPolicy() RootPolicy {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.policy
}

// --- Authoring surface ---

// AddStatement appends a statement node. Name may be empty.
func (g *Graph) AddStatement(name, text string) (domain.NodeID, error) {
	return g.AddNode(name, domain.Statement{Text: text})
}

// AddChoice appends a choice node. Name may be empty.
func (g *Graph) AddChoice(name, prompt string) (domain.NodeID, error) {
	return g.AddNode(name, domain.Choice{Prompt: prompt})
}

// AddNode appends a node with the given body.
func (g *Graph) AddNode(name string, body domain.Body) (domain.NodeID, error) {
	if body == nil {
		return domain.NodeID{}, fmt.Errorf("node %q: missing body", name)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if name != "" {
		if _, exists := g.names[name]; exists {
			return domain.NodeID{}, fmt.Errorf("%w: %q", domain.ErrDuplicateName, name)
		}
	}

	var idx uint32
	if n := len(g.freeNodes); n > 0 {
		idx = g.freeNodes[n-1]
		g.freeNodes = g.freeNodes[:n-1]
	} else {
		idx = uint32(len(g.nodes))
		g.nodes = append(g.nodes, nodeSlot{})
	}

	slot := &g.nodes[idx]
	slot.gen++
	slot.alive = true
	id := domain.NodeID{Index: idx, Gen: slot.gen}
	slot.node = domain.Node{
		ID:   id,
		Name: name,
		Body: body,
	}

	g.order = append(g.order, idx)
	if name != "" {
		g.names[name] = id
	}
	return id, nil
}

// Connect appends a connection from one node to another.
// The connection goes to the end of the source node's outgoing list.
func (g *Graph) Connect(from, to domain.NodeID, label string) (domain.ConnectionID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	src, err := g.nodeSlot(from)
	if err != nil {
		return domain.ConnectionID{}, fmt.Errorf("connect from: %w", err)
	}
	if _, err := g.nodeSlot(to); err != nil {
		return domain.ConnectionID{}, fmt.Errorf("connect to: %w", err)
	}

	var idx uint32
	if n := len(g.freeConns); n > 0 {
		idx = g.freeConns[n-1]
		g.freeConns = g.freeConns[:n-1]
	} else {
		idx = uint32(len(g.conns))
		g.conns = append(g.conns, connSlot{})
	}

	slot := &g.conns[idx]
	slot.gen++
	slot.alive = true
	id := domain.ConnectionID{Index: idx, Gen: slot.gen}
	slot.conn = domain.Connection{ID: id, From: from, To: to, Label: label}

	src.node.Outgoing = append(src.node.Outgoing, id)
	return id, nil
}

// RemoveConnection deletes a connection and detaches it from its source node.
func (g *Graph) RemoveConnection(id domain.ConnectionID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.removeConnection(id)
}

func (g *Graph) removeConnection(id domain.ConnectionID) error {
	slot, err := g.connSlot(id)
	if err != nil {
		return err
	}

	if src, err := g.nodeSlot(slot.conn.From); err == nil {
		src.node.Outgoing = slices.DeleteFunc(src.node.Outgoing, func(c domain.ConnectionID) bool {
			return c == id
		})
	}

	slot.alive = false
	slot.gen++
	slot.conn = domain.Connection{}
	g.freeConns = append(g.freeConns, id.Index)
	return nil
}

// RemoveNode deletes a node and every connection that starts or ends at it.
func (g *Graph) RemoveNode(id domain.NodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot, err := g.nodeSlot(id)
	if err != nil {
		return err
	}

	for i := range g.conns {
		c := &g.conns[i]
		if !c.alive || (c.conn.From != id && c.conn.To != id) {
			continue
		}
		if err := g.removeConnection(c.conn.ID); err != nil {
			return err
		}
	}

	if slot.node.Name != "" {
		delete(g.names, slot.node.Name)
	}
	g.order = slices.DeleteFunc(g.order, func(i uint32) bool { return i == id.Index })

	slot.alive = false
	slot.gen++
	slot.node = domain.Node{}
	g.freeNodes = append(g.freeNodes, id.Index)
	return nil
}

// Rename changes a node's authoring name.
func (g *Graph) Rename(id domain.NodeID, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot, err := g.nodeSlot(id)
	if err != nil {
		return err
	}
	if name != "" {
		if other, exists := g.names[name]; exists && other != id {
			return fmt.Errorf("%w: %q", domain.ErrDuplicateName, name)
		}
	}
	if slot.node.Name != "" {
		delete(g.names, slot.node.Name)
	}
	slot.node.Name = name
	if name != "" {
		g.names[name] = id
	}
	return nil
}

// SetBody replaces a node's variant payload.
func (g *Graph) SetBody(id domain.NodeID, body domain.Body) error {
	if body == nil {
		return fmt.Errorf("node %s: missing body", id)
	}
	return g.update(id, func(n *domain.Node) {
		n.Body = body
	})
}

// SetText replaces the statement text or choice prompt, keeping the variant.
func (g *Graph) SetText(id domain.NodeID, text string) error {
	return g.update(id, func(n *domain.Node) {
		switch n.Body.(type) {
		case domain.Choice:
			n.Body = domain.Choice{Prompt: text}
		default:
			n.Body = domain.Statement{Text: text}
		}
	})
}

// SetVars replaces a node's user variables.
func (g *Graph) SetVars(id domain.NodeID, vars map[string]string) error {
	return g.update(id, func(n *domain.Node) {
		n.Vars = maps.Clone(vars)
	})
}

// AddOnEnter appends bindings fired when the node is entered.
func (g *Graph) AddOnEnter(id domain.NodeID, bindings ...domain.EventBinding) error {
	return g.update(id, func(n *domain.Node) {
		n.OnEnter = append(n.OnEnter, bindings...)
	})
}

// AddOnExit appends bindings fired when the node is left.
func (g *Graph) AddOnExit(id domain.NodeID, bindings ...domain.EventBinding) error {
	return g.update(id, func(n *domain.Node) {
		n.OnExit = append(n.OnExit, bindings...)
	})
}

// SetOutgoingOrder reorders a node's outgoing connections.
// order must be a permutation of the current list.
func (g *Graph) SetOutgoingOrder(id domain.NodeID, order []domain.ConnectionID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot, err := g.nodeSlot(id)
	if err != nil {
		return err
	}

	current := slices.Clone(slot.node.Outgoing)
	want := slices.Clone(order)
	sortConns(current)
	sortConns(want)
	if !slices.Equal(current, want) {
		return fmt.Errorf("node %s: outgoing order is not a permutation of its connections", id)
	}

	slot.node.Outgoing = slices.Clone(order)
	return nil
}

func sortConns(ids []domain.ConnectionID) {
	slices.SortFunc(ids, func(a, b domain.ConnectionID) int {
		if a.Index != b.Index {
			return int(a.Index) - int(b.Index)
		}
		return int(a.Gen) - int(b.Gen)
	})
}

func (g *Graph) update(id domain.NodeID, fn func(*domain.Node)) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot, err := g.nodeSlot(id)
	if err != nil {
		return err
	}
	fn(&slot.node)
	return nil
}

// --- Runtime surface (ports.GraphStore) ---

// Node returns a copy of the node.
func (g *Graph) Node(id domain.NodeID) (domain.Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	slot, err := g.nodeSlot(id)
	if err != nil {
		return domain.Node{}, err
	}
	return slot.node.Clone(), nil
}

// Connection returns the connection.
func (g *Graph) Connection(id domain.ConnectionID) (domain.Connection, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	slot, err := g.connSlot(id)
	if err != nil {
		return domain.Connection{}, err
	}
	return slot.conn, nil
}

// Outgoing returns the node's outgoing connection ids in authored order.
func (g *Graph) Outgoing(id domain.NodeID) ([]domain.ConnectionID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	slot, err := g.nodeSlot(id)
	if err != nil {
		return nil, err
	}
	return slices.Clone(slot.node.Outgoing), nil
}

// Root returns the starting node according to the graph's RootPolicy.
func (g *Graph) Root() (domain.NodeID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.root()
}

func (g *Graph) root() (domain.NodeID, error) {
	if len(g.order) == 0 {
		return domain.NodeID{}, domain.ErrEmptyGraph
	}

	switch g.policy {
	case RootNoIncoming:
		incoming := make(map[domain.NodeID]bool)
		for _, c := range g.conns {
			if c.alive {
				incoming[c.conn.To] = true
			}
		}
		var candidates []domain.NodeID
		for _, idx := range g.order {
			id := g.nodes[idx].node.ID
			if !incoming[id] {
				candidates = append(candidates, id)
			}
		}
		if len(candidates) != 1 {
			return domain.NodeID{}, fmt.Errorf("%w: %d nodes without incoming connections", domain.ErrAmbiguousRoot, len(candidates))
		}
		return candidates[0], nil
	default:
		return g.nodes[g.order[0]].node.ID, nil
	}
}

// --- Enumeration ---

// Nodes returns copies of every live node in authoring order.
func (g *Graph) Nodes() []domain.Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]domain.Node, 0, len(g.order))
	for _, idx := range g.order {
		out = append(out, g.nodes[idx].node.Clone())
	}
	return out
}

// Connections returns every live connection ordered by source node, then outgoing index.
func (g *Graph) Connections() []domain.Connection {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []domain.Connection
	for _, idx := range g.order {
		for _, cid := range g.nodes[idx].node.Outgoing {
			if slot, err := g.connSlot(cid); err == nil {
				out = append(out, slot.conn)
			}
		}
	}
	return out
}

// Incoming returns the ids of connections that end at the node.
func (g *Graph) Incoming(id domain.NodeID) ([]domain.ConnectionID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, err := g.nodeSlot(id); err != nil {
		return nil, err
	}
	var out []domain.ConnectionID
	for _, c := range g.conns {
		if c.alive && c.conn.To == id {
			out = append(out, c.conn.ID)
		}
	}
	return out, nil
}

// Lookup finds a node by authoring name.
func (g *Graph) Lookup(name string) (domain.NodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.names[name]
	return id, ok
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// Clone returns an independent copy, ids included.
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := &Graph{
		nodes:     make([]nodeSlot, len(g.nodes)),
		conns:     slices.Clone(g.conns),
		freeNodes: slices.Clone(g.freeNodes),
		freeConns: slices.Clone(g.freeConns),
		order:     slices.Clone(g.order),
		names:     maps.Clone(g.names),
		policy:    g.policy,
	}
	for i, slot := range g.nodes {
		out.nodes[i] = slot
		out.nodes[i].node = slot.node.Clone()
	}
	return out
}

func (g *Graph) nodeSlot(id domain.NodeID) (*nodeSlot, error) {
	if id.IsZero() || int(id.Index) >= len(g.nodes) {
		return nil, fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}
	slot := &g.nodes[id.Index]
	if !slot.alive || slot.gen != id.Gen {
		return nil, fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}
	return slot, nil
}

func (g *Graph) connSlot(id domain.ConnectionID) (*connSlot, error) {
	if id.IsZero() || int(id.Index) >= len(g.conns) {
		return nil, fmt.Errorf("connection %s: %w", id, domain.ErrNotFound)
	}
	slot := &g.conns[id.Index]
	if !slot.alive || slot.gen != id.Gen {
		return nil, fmt.Errorf("connection %s: %w", id, domain.ErrNotFound)
	}
	return slot, nil
}

/*
Package graph is the Graph Store of the NodeDialog runtime.

A Graph is an arena of nodes and connections for one character. Every
cross-reference is stored as a generational id, never as a pointer, so cycles
in the dialog never become cycles in ownership. Removing a node bumps its slot
generation: ids that outlive the node fail with domain.ErrNotFound instead of
resolving to whatever reuses the slot.

The runtime reads a Graph through ports.GraphStore. Authoring tools mutate it
through the methods below, which keep the invariants intact (connections
always reference live nodes, removing a node removes every connection that
touches it). An editing session is simply a *Graph passed to the tool, usually
a Clone of the published one.

	g := graph.New()
	hello, _ := g.AddStatement("hello", "Hi there.")
	ask, _ := g.AddChoice("ask", "Need anything?")
	_, _ = g.Connect(hello, ask, "")
*/
package graph

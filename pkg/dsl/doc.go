/*
Package dsl provides a Go DSL for programmatically constructing dialog graphs.

It lets developers define branching conversations with a type-safe, fluent
builder instead of YAML or markdown assets. This is useful for generated
dialogs, unit tests and bindings whose target only exists at runtime.

Example usage:

	b := dsl.New()

	b.Add("start").
		Text("Welcome, traveler.").
		OnEnter(dsl.Static("Audio", "Play", dsl.String("door-creak"))).
		Go("ask")

	b.Add("ask").
		Question("Need a room?").
		Option("Yes", "room").
		Option("No", "bye")

	b.Add("room").Text("Upstairs, second door.")
	b.Add("bye").Text("Safe roads.")

	g, err := b.Build()
	// ... pass g to nodedialog.New("", nodedialog.WithGraph(g))
*/
package dsl

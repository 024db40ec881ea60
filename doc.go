/*
Package nodedialog is a branching-dialog runtime: a directed graph of dialog
nodes traversed one step at a time, pausing whenever a choice is required, and
firing host-registered callbacks when nodes are entered or left.

# Concept

A dialog is a graph of Statement and Choice nodes joined by labeled
connections. The engine keeps one cursor per speaker. Each Advance call
presents exactly one node to the speaker: a Statement is delivered and the
cursor moves on by itself, a Choice is delivered with its options and a one-shot
continuation, and the speaker resumes traversal by calling it.

Nodes carry event bindings: serialized references to callables with typed
literal parameters. The host registers the callables in an event.Registry at
startup; bindings are resolved on every invocation and failures are reported
without interrupting the dialog.

# Usage

	reg := event.NewRegistry()
	reg.Static("Audio", "Play", domain.Signature{domain.ParamString}, playSound)

	eng, err := nodedialog.New("./dialogs/innkeeper.yaml", nodedialog.WithRegistry(reg))
	if err != nil {
		log.Fatal(err)
	}

	res, err := eng.Advance(ctx, speaker)

Graphs load from a single YAML/JSON asset file or from a directory of
markdown documents (one node per file). They can also be built in code with
pkg/graph or the fluent pkg/dsl builder and passed in with WithGraph.
*/
package nodedialog

package asset_test

import (
	"testing"

	"github.com/aretw0/nodedialog/pkg/adapters/asset"
	"github.com/aretw0/nodedialog/pkg/domain"
	"github.com/aretw0/nodedialog/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawDoc() map[string]any {
	return map[string]any{
		"nodes": []any{
			map[string]any{
				"name": "greet",
				"text": "Hello",
				"next": "ask",
				"vars": []any{
					map[string]any{"key": "mood", "value": "calm"},
				},
				"on_enter": []any{
					map[string]any{
						"type":   "Audio",
						"method": "Play",
						"params": []any{map[string]any{"type": "string", "value": "chime"}},
					},
				},
			},
			map[string]any{
				"name":   "ask",
				"kind":   "choice",
				"prompt": "Where to?",
				"options": []any{
					map[string]any{"label": "Left", "to": "left"},
					map[string]any{"label": "Back", "to": "greet"},
				},
				"on_exit": []any{
					map[string]any{"kind": "injected", "type": "Door", "method": "Open"},
				},
			},
			map[string]any{"name": "left", "text": "Bye"},
		},
	}
}

func TestDecodeAndBuild(t *testing.T) {
	doc, err := asset.Decode(rawDoc())
	require.NoError(t, err)

	g, err := asset.Build(doc)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())

	greet, ok := g.Lookup("greet")
	require.True(t, ok)
	root, err := g.Root()
	require.NoError(t, err)
	assert.Equal(t, greet, root)

	n, err := g.Node(greet)
	require.NoError(t, err)
	assert.Equal(t, domain.KindStatement, n.Kind())
	assert.Equal(t, map[string]string{"mood": "calm"}, n.Vars)
	require.Len(t, n.OnEnter, 1)
	assert.Equal(t, domain.TargetStatic, n.OnEnter[0].Kind, "kind defaults to static")
	assert.Equal(t, "Audio.Play(string)", n.OnEnter[0].String())

	askID, _ := g.Lookup("ask")
	ask, err := g.Node(askID)
	require.NoError(t, err)
	assert.Equal(t, "Where to?", ask.Token())
	require.Len(t, ask.Outgoing, 2)
	back, err := g.Connection(ask.Outgoing[1])
	require.NoError(t, err)
	assert.Equal(t, "Back", back.Label)
	assert.Equal(t, greet, back.To)
	assert.Equal(t, domain.TargetInjected, ask.OnExit[0].Kind)

	assert.NoError(t, g.Validate().Err())
}

func TestDecode_RejectsUnknownKeys(t *testing.T) {
	_, err := asset.Decode(map[string]any{
		"nodes": []any{map[string]any{"name": "a", "txt": "typo"}},
	})
	assert.Error(t, err)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  asset.Document
		want error
	}{
		{
			name: "dangling target",
			doc:  asset.Document{Nodes: []asset.NodeSpec{{Name: "a", Next: "ghost"}}},
			want: domain.ErrNotFound,
		},
		{
			name: "duplicate name",
			doc:  asset.Document{Nodes: []asset.NodeSpec{{Name: "a"}, {Name: "a"}}},
			want: domain.ErrDuplicateName,
		},
		{
			name: "duplicate var",
			doc: asset.Document{Nodes: []asset.NodeSpec{{
				Name: "a",
				Vars: []asset.VarSpec{{Key: "k", Value: "1"}, {Key: "k", Value: "2"}},
			}}},
			want: domain.ErrDuplicateVar,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := asset.Build(&tt.doc)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		_, err := asset.Build(&asset.Document{Nodes: []asset.NodeSpec{{Name: "a", Kind: "monologue"}}})
		assert.ErrorContains(t, err, "unknown kind")
	})

	t.Run("unknown root policy", func(t *testing.T) {
		_, err := asset.Build(&asset.Document{RootPolicy: "random"})
		assert.Error(t, err)
	})
}

func TestBuild_OptionsImplyChoice(t *testing.T) {
	g, err := asset.Build(&asset.Document{Nodes: []asset.NodeSpec{
		{Name: "q", Text: "Ready?", Options: []asset.OptionSpec{{Label: "Yes", To: "end"}}},
		{Name: "end", Text: "Go"},
	}})
	require.NoError(t, err)

	id, _ := g.Lookup("q")
	n, _ := g.Node(id)
	assert.Equal(t, domain.KindChoice, n.Kind())
	assert.Equal(t, "Ready?", n.Token())
}

func TestExport_RoundTrip(t *testing.T) {
	doc, err := asset.Decode(rawDoc())
	require.NoError(t, err)
	g, err := asset.Build(doc, graph.WithRootPolicy(graph.RootFirstAuthored))
	require.NoError(t, err)

	out := asset.Export(g)
	require.Len(t, out.Nodes, 3)
	assert.Equal(t, "ask", out.Nodes[0].Next)
	assert.Equal(t, "statement", out.Nodes[0].Kind)
	assert.Equal(t, "choice", out.Nodes[1].Kind)
	assert.Equal(t, "Where to?", out.Nodes[1].Prompt)
	assert.Len(t, out.Nodes[1].Options, 2)

	again, err := asset.Build(out)
	require.NoError(t, err)
	assert.Equal(t, g.Len(), again.Len())
	assert.Len(t, again.Connections(), len(g.Connections()))
}

package file_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/nodedialog/pkg/adapters/file"
	"github.com/aretw0/nodedialog/pkg/domain"
	"github.com/aretw0/nodedialog/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tavernYAML = `
nodes:
  - name: greet
    text: Welcome to the tavern.
    next: order
    on_enter:
      - type: Audio
        method: Play
        params:
          - type: float
            value: 0.5
  - name: order
    kind: choice
    prompt: What will it be?
    options:
      - label: Ale
        to: ale
      - label: Nothing
        to: leave
  - name: ale
    text: Coming right up.
    vars:
      - key: price
        value: "3"
  - name: leave
    text: Suit yourself.
`

const tavernJSON = `{
  "root_policy": "no-incoming",
  "nodes": [
    {"name": "greet", "text": "Hi", "next": "bye",
     "on_exit": [{"type": "Score", "method": "Add", "params": [{"type": "int", "value": 2}]}]},
    {"name": "bye", "text": "Bye"}
  ]
}`

func TestDecode_YAML(t *testing.T) {
	g, err := file.Decode(strings.NewReader(tavernYAML))
	require.NoError(t, err)
	assert.Equal(t, 4, g.Len())

	report := g.Validate()
	assert.NoError(t, report.Err(), report.String())

	id, ok := g.Lookup("greet")
	require.True(t, ok)
	n, _ := g.Node(id)
	require.Len(t, n.OnEnter, 1)
	assert.Equal(t, 0.5, n.OnEnter[0].Params[0].Value)

	id, _ = g.Lookup("ale")
	n, _ = g.Node(id)
	assert.Equal(t, "3", n.Vars["price"])
}

func TestDecode_JSON(t *testing.T) {
	g, err := file.Decode(strings.NewReader(tavernJSON))
	require.NoError(t, err)
	assert.Equal(t, graph.RootNoIncoming, g.RootPolicy())

	id, _ := g.Lookup("greet")
	root, err := g.Root()
	require.NoError(t, err)
	assert.Equal(t, id, root)

	n, _ := g.Node(id)
	require.Len(t, n.OnExit, 1)
	assert.Equal(t, domain.ParamInt, n.OnExit[0].Params[0].Type)
	assert.NoError(t, g.Validate().Err())
}

func TestDecode_Errors(t *testing.T) {
	_, err := file.Decode(strings.NewReader(""))
	assert.Error(t, err)

	_, err = file.Decode(strings.NewReader("nodes: [unterminated"))
	assert.Error(t, err)

	_, err = file.Decode(strings.NewReader("nodes:\n  - name: a\n    next: nowhere\n"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveAndLoad(t *testing.T) {
	for _, name := range []string{"dialog.yaml", "dialog.json"} {
		t.Run(name, func(t *testing.T) {
			src, err := file.Decode(strings.NewReader(tavernYAML))
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "assets", name)
			store := file.NewStore(path)
			require.NoError(t, store.Save(src))

			_, err = os.Stat(path)
			require.NoError(t, err)

			loaded, err := store.Load()
			require.NoError(t, err)
			assert.Equal(t, src.Len(), loaded.Len())
			assert.Len(t, loaded.Connections(), len(src.Connections()))

			id, ok := loaded.Lookup("order")
			require.True(t, ok)
			n, _ := loaded.Node(id)
			assert.Equal(t, domain.KindChoice, n.Kind())
		})
	}
}

func TestStore_LoadMissing(t *testing.T) {
	_, err := file.NewStore(filepath.Join(t.TempDir(), "nope.yaml")).Load()
	assert.Error(t, err)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, file.FormatJSON, file.FormatOf("a/b.JSON"))
	assert.Equal(t, file.FormatYAML, file.FormatOf("a/b.yml"))
	assert.Equal(t, file.FormatYAML, file.FormatOf("a/b"))
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const innYAML = `
nodes:
  - name: start
    text: Evening.
    next: ask
  - name: ask
    kind: choice
    prompt: Room or meal?
    options:
      - label: Room
        to: room
      - label: Meal
        to: meal
  - name: room
    text: Upstairs.
  - name: meal
    text: Stew again.
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func writeInn(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inn.yaml")
	require.NoError(t, os.WriteFile(path, []byte(innYAML), 0644))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "nodedialog version "))
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "--file", writeInn(t))
	require.NoError(t, err)
	assert.Contains(t, out, "is valid (4 nodes)")
}

func TestGraphCommand(t *testing.T) {
	path := writeInn(t)

	out, err := execute(t, "graph", "--file", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `-- "Meal" -->`)

	out, err = execute(t, "graph", "--file", path, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: start")

	_, err = execute(t, "graph", "--file", path, "--format", "dot")
	assert.ErrorContains(t, err, `unknown format "dot"`)
}

package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer turns statement text into terminal output.
type Renderer func(string) (string, error)

// Plain returns text unchanged apart from a trailing newline.
func Plain(text string) (string, error) {
	return strings.TrimRight(text, "\n") + "\n", nil
}

// NewRenderer returns a Renderer that renders markdown using glamour.
// It falls back to Plain when the glamour renderer cannot be built.
func NewRenderer(wordWrap int) Renderer {
	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	}
	if wordWrap > 0 {
		opts = append(opts, glamour.WithWordWrap(wordWrap))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return Plain
	}
	return r.Render
}

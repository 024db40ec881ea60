package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/nodedialog/internal/presentation/tui"
	"github.com/aretw0/nodedialog/pkg/domain"
	"github.com/aretw0/nodedialog/pkg/ports"
)

// Console is a Speaker that prints to a terminal and keeps the pending choice
// until the run loop reads the user's pick.
type Console struct {
	id      string
	out     io.Writer
	profile termenv.Profile
	render  tui.Renderer
	showVar bool

	options []domain.Option
	choose  ports.ChooseFunc
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithRich enables colors and markdown rendering.
func WithRich(profile termenv.Profile, render tui.Renderer) ConsoleOption {
	return func(c *Console) {
		c.profile = profile
		c.render = render
	}
}

// WithVars prints each node's user variables before its text.
func WithVars() ConsoleOption {
	return func(c *Console) {
		c.showVar = true
	}
}

// NewConsole creates a plain console speaker.
func NewConsole(id string, out io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{
		id:      id,
		out:     out,
		profile: termenv.Ascii,
		render:  tui.Plain,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (c *Console) ID() string { return c.id }

func (c *Console) OnStatement(vars map[string]string, text string) {
	c.printVars(vars)
	out, err := c.render(text)
	if err != nil {
		out, _ = tui.Plain(text)
	}
	fmt.Fprint(c.out, out)
}

func (c *Console) OnChoice(vars map[string]string, prompt string, options []domain.Option, choose ports.ChooseFunc) {
	c.printVars(vars)
	fmt.Fprintln(c.out, tui.FormatPrompt(c.profile, prompt))
	for i, o := range options {
		fmt.Fprintln(c.out, tui.FormatOption(c.profile, i+1, o.Label))
	}
	c.options = options
	c.choose = choose
}

func (c *Console) printVars(vars map[string]string) {
	if !c.showVar || len(vars) == 0 {
		return
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + vars[k]
	}
	fmt.Fprintf(c.out, "[%s]\n", strings.Join(pairs, " "))
}

// Pending reports whether a choice is waiting for Pick.
func (c *Console) Pending() bool { return c.choose != nil }

// Pick resumes the pending choice with the n-th option, counted from 1.
func (c *Console) Pick(ctx context.Context, n int) (*domain.ChoiceResult, error) {
	if c.choose == nil {
		return nil, fmt.Errorf("no pending choice: %w", domain.ErrInvalidChoice)
	}
	if n < 1 || n > len(c.options) {
		return nil, fmt.Errorf("option %d out of range 1..%d: %w", n, len(c.options), domain.ErrInvalidChoice)
	}
	res, err := c.choose(ctx, c.options[n-1].Connection)
	if err != nil {
		return nil, err
	}
	c.choose, c.options = nil, nil
	return res, nil
}

// Forget drops the pending choice.
func (c *Console) Forget() {
	c.choose, c.options = nil, nil
}

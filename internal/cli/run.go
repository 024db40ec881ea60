package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/nodedialog"
	"github.com/aretw0/nodedialog/internal/logging"
	"github.com/aretw0/nodedialog/internal/presentation/tui"
	"github.com/aretw0/nodedialog/pkg/domain"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Path       string
	Locale     string
	Catalog    string
	LogLevel   string
	RootPolicy string
	Speaker    string
	Strict     bool
	Debug      bool
	Plain      bool // Disable colors and markdown even on a terminal
	ShowVars   bool
	MaxSteps   int // Zero means unlimited
}

// Execute handles the 'run' command logic on the process terminal.
func Execute(opts RunOptions) error {
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	rich := !opts.Plain && IsInteractive(os.Stdout)
	in := NewInterruptibleReader(os.Stdin, sigCtx.Done())

	node, err := Converse(sigCtx, opts, in, os.Stdout, rich)
	if sigCtx.Err() != nil && err == nil {
		err = sigCtx.Err()
	}
	logCompletion(os.Stdout, node, err, sigCtx.Signal())
	return handleExecutionError(err)
}

// Converse runs one conversation reading picks from in and writing to out.
// It returns the label of the last node presented.
func Converse(ctx context.Context, opts RunOptions, in io.Reader, out io.Writer, rich bool) (string, error) {
	level := logging.ResolveLevel(opts.LogLevel, "warn")
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger := logging.New(level)

	engine, err := NewEngine(opts, logger)
	if err != nil {
		return "", err
	}

	speakerID := opts.Speaker
	if speakerID == "" {
		speakerID = "console"
	}
	var consoleOpts []ConsoleOption
	if rich {
		profile := termenv.NewOutput(out).Profile
		tui.PrintBanner(out, profile, strings.TrimSpace(nodedialog.Version))
		consoleOpts = append(consoleOpts, WithRich(profile, tui.NewRenderer(80)))
	}
	if opts.ShowVars {
		consoleOpts = append(consoleOpts, WithVars())
	}
	console := NewConsole(speakerID, out, consoleOpts...)

	return converse(ctx, engine, console, bufio.NewScanner(in), out, opts.MaxSteps)
}

func converse(ctx context.Context, engine *nodedialog.Engine, console *Console, scanner *bufio.Scanner, out io.Writer, maxSteps int) (string, error) {
	last := ""
	for steps := 0; maxSteps == 0 || steps < maxSteps; steps++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}

		res, err := engine.Advance(ctx, console)
		if err != nil {
			return last, err
		}
		if node, err := engine.Graph().Node(res.Node); err == nil {
			last = node.Label()
		}
		if res.Ended() {
			return last, nil
		}
		if !console.Pending() {
			continue
		}

		if err := pick(ctx, console, scanner, out); err != nil {
			return last, err
		}
	}
	return last, fmt.Errorf("stopped after %d steps", maxSteps)
}

// pick reads lines until one selects a valid option.
func pick(ctx context.Context, console *Console, scanner *bufio.Scanner, out io.Writer) error {
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return io.EOF
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "q", "quit", "exit":
			console.Forget()
			return ErrQuit
		}

		n, err := strconv.Atoi(line)
		if err != nil {
			printSystemMessage(out, "Type the number of an option, or q to quit.")
			continue
		}
		if _, err := console.Pick(ctx, n); err != nil {
			if errors.Is(err, domain.ErrInvalidChoice) {
				printSystemMessage(out, "%v", err)
				continue
			}
			return err
		}
		return nil
	}
}

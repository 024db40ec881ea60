package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aretw0/nodedialog"
	"github.com/aretw0/nodedialog/internal/logging"
	loamAdapter "github.com/aretw0/nodedialog/pkg/adapters/loam"
	"github.com/aretw0/nodedialog/pkg/graph"
)

// ValidateOptions configures the validate command.
type ValidateOptions struct {
	Path       string
	RootPolicy string
	LogLevel   string
	Strict     bool
	Watch      bool
}

// ErrInvalidGraph is returned when validation reports at least one error.
var ErrInvalidGraph = errors.New("graph has validation errors")

// Validate loads and validates the graph once, printing the report to out.
func Validate(ctx context.Context, opts ValidateOptions, out io.Writer) error {
	policy, err := graph.ParseRootPolicy(opts.RootPolicy)
	if err != nil {
		return err
	}
	g, err := nodedialog.Load(ctx, opts.Path, graph.WithRootPolicy(policy))
	if err != nil {
		return err
	}

	var vopts []graph.ValidateOption
	if opts.Strict {
		vopts = append(vopts, graph.Strict())
	}
	report := g.Validate(vopts...)

	if len(report.Issues) == 0 {
		printSystemMessage(out, "'%s' is valid (%d nodes).", opts.Path, g.Len())
		return nil
	}
	fmt.Fprintln(out, report.String())
	if len(report.Errors()) > 0 {
		return ErrInvalidGraph
	}
	printSystemMessage(out, "'%s' is valid with %d warning(s).", opts.Path, len(report.Warnings()))
	return nil
}

// RunValidateWatch validates the directory, then again on every change until ctx is done.
func RunValidateWatch(ctx context.Context, opts ValidateOptions, out io.Writer) error {
	logger := logging.New(logging.ResolveLevel(opts.LogLevel, "info"))

	info, err := os.Stat(opts.Path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("--watch needs a node directory, %q is a file", opts.Path)
	}

	loader, err := loamAdapter.Open(opts.Path)
	if err != nil {
		return err
	}
	events, err := loader.Watch(ctx)
	if err != nil {
		return err
	}

	logger.Info("Starting Watcher", "path", opts.Path)
	for {
		if err := Validate(ctx, opts, out); err != nil && !errors.Is(err, ErrInvalidGraph) {
			logger.Error("Validation failed", "err", err)
		}
		printSystemMessage(out, "Waiting for changes...")

		select {
		case <-ctx.Done():
			return nil
		case id, ok := <-events:
			if !ok {
				return nil
			}
			printSystemMessage(out, "Change detected in '%s'.", id)
			// Delay slightly to ensure file system is stable
			time.Sleep(100 * time.Millisecond)
		}
	}
}

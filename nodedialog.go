package nodedialog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/nodedialog/internal/logging"
	"github.com/aretw0/nodedialog/internal/runtime"
	"github.com/aretw0/nodedialog/pkg/adapters/file"
	loamAdapter "github.com/aretw0/nodedialog/pkg/adapters/loam"
	"github.com/aretw0/nodedialog/pkg/domain"
	"github.com/aretw0/nodedialog/pkg/event"
	"github.com/aretw0/nodedialog/pkg/graph"
	"github.com/aretw0/nodedialog/pkg/localize"
	"github.com/aretw0/nodedialog/pkg/ports"
)

// Engine is the high-level entry point for the NodeDialog library.
// It owns a graph, the event dispatcher and the traversal runtime.
type Engine struct {
	runtime    *runtime.Engine
	graph      *graph.Graph
	registry   *event.Registry
	dispatcher *event.Dispatcher
	localizer  ports.Localizer
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	rootPolicy graph.RootPolicy
	strict     bool
	Name       string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithGraph uses an already built graph instead of loading one from a path.
func WithGraph(g *graph.Graph) Option {
	return func(e *Engine) {
		e.graph = g
	}
}

// WithRegistry sets the registry that event bindings resolve against.
func WithRegistry(r *event.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithLocalizer sets the localizer applied to every token before delivery.
func WithLocalizer(l ports.Localizer) Option {
	return func(e *Engine) {
		e.localizer = l
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRootPolicy selects how loaded graphs pick their root.
// It does not apply to graphs passed through WithGraph.
func WithRootPolicy(p graph.RootPolicy) Option {
	return func(e *Engine) {
		e.rootPolicy = p
	}
}

// WithStrictValidation makes validation warnings about statements with
// several outgoing connections fatal.
func WithStrictValidation() Option {
	return func(e *Engine) {
		e.strict = true
	}
}

// New initializes a new Engine.
// Path is a YAML/JSON asset file or a directory of markdown node documents.
// If WithGraph is provided, path can be empty and nothing is read.
// The graph is validated: errors abort, warnings are logged.
func New(path string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.graph == nil {
		if path == "" {
			return nil, fmt.Errorf("path is required when no graph is provided")
		}
		g, err := Load(context.Background(), path, graph.WithRootPolicy(eng.rootPolicy))
		if err != nil {
			return nil, err
		}
		eng.graph = g
	}
	if path != "" {
		eng.Name = filepath.Base(path)
		eng.logger = eng.logger.With("graph", eng.Name)
	}

	if err := eng.validate(); err != nil {
		return nil, err
	}

	if eng.registry == nil {
		eng.registry = event.NewRegistry()
	}
	if eng.localizer == nil {
		eng.localizer = localize.Identity{}
	}
	eng.dispatcher = event.NewDispatcher(eng.registry, event.WithLogger(eng.logger))

	eng.runtime = runtime.NewEngine(eng.graph,
		runtime.WithDispatcher(eng.dispatcher),
		runtime.WithLocalizer(eng.localizer),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)
	return eng, nil
}

func (e *Engine) validate() error {
	var vopts []graph.ValidateOption
	if e.strict {
		vopts = append(vopts, graph.Strict())
	}
	report := e.graph.Validate(vopts...)
	for _, w := range report.Warnings() {
		e.logger.Warn("graph validation", "node", w.NodeName, "issue", w.Err)
	}
	if err := report.Err(); err != nil {
		return fmt.Errorf("invalid graph: %w", err)
	}
	return nil
}

// Load reads a graph from an asset file or a loam directory.
func Load(ctx context.Context, path string, opts ...graph.Option) (*graph.Graph, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	if !info.IsDir() {
		return file.NewStore(path).Load(opts...)
	}

	loader, err := loamAdapter.Open(path)
	if err != nil {
		return nil, err
	}
	return loader.Load(ctx, opts...)
}

// Advance presents the speaker's next node. See runtime.Engine.Advance.
func (e *Engine) Advance(ctx context.Context, speaker ports.Speaker) (*domain.StepResult, error) {
	return e.runtime.Advance(ctx, speaker)
}

// Reset drops a speaker's traversal state.
func (e *Engine) Reset(speakerID string) bool {
	return e.runtime.Reset(speakerID)
}

// Cursor returns a speaker's position.
func (e *Engine) Cursor(speakerID string) (domain.Cursor, bool) {
	return e.runtime.Cursor(speakerID)
}

// Speakers lists the speakers with traversal state.
func (e *Engine) Speakers() []string {
	return e.runtime.Speakers()
}

// Inject supplies the target of an injected binding.
// Bindings without a Key share one target per Type.Method.
func (e *Engine) Inject(b domain.EventBinding, candidate any) error {
	return e.dispatcher.Inject(b, candidate)
}

// Graph returns the graph the engine traverses.
// Authoring changes are visible to the next step.
func (e *Engine) Graph() *graph.Graph {
	return e.graph
}

// Registry returns the registry event bindings resolve against.
func (e *Engine) Registry() *event.Registry {
	return e.registry
}

// Validate re-checks the graph, e.g. after authoring changes.
func (e *Engine) Validate(opts ...graph.ValidateOption) *graph.Report {
	return e.graph.Validate(opts...)
}

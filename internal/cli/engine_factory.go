package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/nodedialog"
	"github.com/aretw0/nodedialog/pkg/graph"
	"github.com/aretw0/nodedialog/pkg/localize"
	"github.com/aretw0/nodedialog/pkg/ports"
)

// NewEngine initializes a NodeDialog engine with standard CLI conventions.
// Extra options are applied last.
func NewEngine(opts RunOptions, logger *slog.Logger, extra ...nodedialog.Option) (*nodedialog.Engine, error) {
	policy, err := graph.ParseRootPolicy(opts.RootPolicy)
	if err != nil {
		return nil, err
	}

	engineOpts := []nodedialog.Option{
		nodedialog.WithLogger(logger),
		nodedialog.WithRootPolicy(policy),
	}
	if opts.Debug {
		engineOpts = append(engineOpts, nodedialog.WithLifecycleHooks(createDebugHooks(logger)))
	}
	if opts.Strict {
		engineOpts = append(engineOpts, nodedialog.WithStrictValidation())
	}

	localizer, err := createLocalizer(opts.Catalog, opts.Locale, logger)
	if err != nil {
		return nil, err
	}
	if localizer != nil {
		engineOpts = append(engineOpts, nodedialog.WithLocalizer(localizer))
	}

	engineOpts = append(engineOpts, extra...)

	engine, err := nodedialog.New(opts.Path, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// createLocalizer loads a message catalog. It returns nil when no catalog is configured.
func createLocalizer(catalogPath, locale string, logger *slog.Logger) (ports.Localizer, error) {
	if catalogPath == "" {
		return nil, nil
	}
	cat := localize.NewCatalog()
	if err := cat.LoadFile(catalogPath); err != nil {
		return nil, err
	}

	var preferred []string
	if locale != "" {
		preferred = append(preferred, locale)
	}
	l, err := cat.Localizer(preferred...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Catalog loaded", "path", catalogPath, "locale", l.Tag())
	return l, nil
}

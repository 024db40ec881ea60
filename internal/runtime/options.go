package runtime

import (
	"log/slog"

	"github.com/aretw0/nodedialog/pkg/domain"
	"github.com/aretw0/nodedialog/pkg/ports"
)

// Option configures the Engine.
type Option func(*Engine)

// WithDispatcher sets the resolver used for node event bindings.
func WithDispatcher(d ports.Dispatcher) Option {
	return func(e *Engine) {
		if d != nil {
			e.dispatcher = d
		}
	}
}

// WithLocalizer sets the localizer applied to statement text, choice prompts
// and option labels before they reach the speaker.
func WithLocalizer(l ports.Localizer) Option {
	return func(e *Engine) {
		if l != nil {
			e.localizer = l
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

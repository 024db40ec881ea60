package ports

import (
	"context"

	"github.com/aretw0/nodedialog/pkg/domain"
)

// ChooseFunc is the one-shot continuation handed to a Speaker at a Choice node.
// It must be called exactly once with one of the offered connection ids.
type ChooseFunc func(ctx context.Context, connection domain.ConnectionID) (*domain.ChoiceResult, error)

// Speaker is the host object that traverses a dialog graph.
// Calls are synchronous; a Speaker must not block inside them.
type Speaker interface {
	// ID identifies the speaker's traversal state.
	ID() string

	// OnStatement delivers a statement's user variables and localized text.
	OnStatement(vars map[string]string, text string)

	// OnChoice delivers a choice's user variables, localized prompt and options.
	// The speaker resumes traversal by calling choose, now or later.
	OnChoice(vars map[string]string, prompt string, options []domain.Option, choose ChooseFunc)
}

// Localizer resolves an authored token into display text.
type Localizer interface {
	Localize(token string) string
}

// LocalizerFunc adapts a function to the Localizer interface.
type LocalizerFunc func(token string) string

func (f LocalizerFunc) Localize(token string) string { return f(token) }

package ports

import (
	"context"

	"github.com/aretw0/nodedialog/pkg/domain"
)

// Dispatcher resolves an EventBinding against live targets and invokes it.
// Failures are returned as *domain.DispatchError.
type Dispatcher interface {
	ResolveAndInvoke(ctx context.Context, binding domain.EventBinding) error
}

// Container is searched for a component of a given type name when it is
// injected as the target of a binding, e.g. a scene object holding components.
type Container interface {
	Component(typeName string) (any, bool)
}

package event

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/aretw0/nodedialog/internal/logging"
	"github.com/aretw0/nodedialog/pkg/domain"
	"github.com/aretw0/nodedialog/pkg/ports"
	"github.com/aretw0/nodedialog/pkg/schema"
)

// Dispatcher implements ports.Dispatcher over a Registry and a table of
// injected targets.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger

	mu       sync.RWMutex
	injected map[string]any
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher. A nil registry starts empty.
func NewDispatcher(registry *Registry, opts ...DispatcherOption) *Dispatcher {
	if registry == nil {
		registry = NewRegistry()
	}
	d := &Dispatcher{
		registry: registry,
		logger:   logging.NewNop(),
		injected: make(map[string]any),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the registry the dispatcher resolves against.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Inject supplies the target of an injected binding, stored under
// b.InjectionKey(). When candidate is a ports.Container, the component named
// b.Type is taken from it. Re-injecting the same pointer is a no-op; any other
// value replaces the previous one. A nil candidate clears the injection.
//
// Bindings without a Key share the slot "Type.Method": injecting for one of
// them injects for every keyless binding to that method. Give a binding a Key
// to target it alone.
func (d *Dispatcher) Inject(b domain.EventBinding, candidate any) error {
	key := b.InjectionKey()

	if candidate == nil {
		d.mu.Lock()
		delete(d.injected, key)
		d.mu.Unlock()
		return nil
	}

	if c, ok := candidate.(ports.Container); ok {
		component, found := c.Component(b.Type)
		if !found || component == nil {
			return domain.NewDispatchError(domain.ErrTargetUnresolved, b,
				fmt.Errorf("container has no %q component", b.Type))
		}
		candidate = component
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.injected[key]; ok && samePointer(prev, candidate) {
		return nil
	}
	d.injected[key] = candidate
	d.logger.Debug("target injected", "key", key, "type", fmt.Sprintf("%T", candidate))
	return nil
}

// Injected returns the target stored under key.
func (d *Dispatcher) Injected(key string) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.injected[key]
	return v, ok
}

func samePointer(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() != reflect.Pointer || vb.Kind() != reflect.Pointer {
		return false
	}
	return va.Type() == vb.Type() && va.Pointer() == vb.Pointer()
}

// ResolveAndInvoke resolves the binding and calls it at most once.
// Bindings without a type or method are ignored. Every failure is a
// *domain.DispatchError; panics raised by the callable are recovered.
func (d *Dispatcher) ResolveAndInvoke(ctx context.Context, b domain.EventBinding) (err error) {
	if b.IsEmpty() {
		return nil
	}

	var receiver any
	switch b.Kind {
	case domain.TargetStatic:
	case domain.TargetBound:
		if b.Target == nil {
			return domain.NewDispatchError(domain.ErrTargetUnresolved, b, fmt.Errorf("bound binding has no target"))
		}
		receiver = b.Target
	case domain.TargetInjected:
		v, ok := d.Injected(b.InjectionKey())
		if !ok {
			return domain.NewDispatchError(domain.ErrNotInjected, b, fmt.Errorf("nothing injected under %q", b.InjectionKey()))
		}
		receiver = v
	default:
		return domain.NewDispatchError(domain.ErrTargetUnresolved, b, fmt.Errorf("unknown target kind %q", b.Kind))
	}

	e, err := d.registry.lookup(b, b.Kind == domain.TargetStatic)
	if err != nil {
		return err
	}
	if e.accepts != nil && !e.accepts(receiver) {
		return domain.NewDispatchError(domain.ErrTargetUnresolved, b,
			fmt.Errorf("target %T cannot receive %s", receiver, e.Entry))
	}

	args, err := coerce(b)
	if err != nil {
		return domain.NewDispatchError(domain.ErrSignatureMismatch, b, err)
	}

	defer func() {
		if r := recover(); r != nil {
			err = domain.NewDispatchError(domain.ErrInvocationThrew, b, fmt.Errorf("panic: %v", r))
		}
	}()

	if e.static != nil {
		err = e.static(ctx, args)
	} else {
		err = e.method(ctx, receiver, args)
	}
	if err != nil {
		return domain.NewDispatchError(domain.ErrInvocationThrew, b, err)
	}
	return nil
}

func coerce(b domain.EventBinding) (Args, error) {
	typeNames := make([]string, len(b.Params))
	values := make([]any, len(b.Params))
	for i, p := range b.Params {
		typeNames[i] = string(p.Type)
		values[i] = p.Value
	}
	out, err := schema.CoerceList(typeNames, values)
	if err != nil {
		return nil, err
	}
	return Args(out), nil
}

var _ ports.Dispatcher = (*Dispatcher)(nil)

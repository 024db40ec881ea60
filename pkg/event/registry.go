package event

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/nodedialog/pkg/domain"
)

// StaticFunc is a callable without a receiver.
type StaticFunc func(ctx context.Context, args Args) error

// MethodFunc is a callable invoked on a live receiver.
type MethodFunc func(ctx context.Context, receiver any, args Args) error

// Entry describes a registered callable.
type Entry struct {
	Type      string
	Method    string
	Signature domain.Signature
	Static    bool
}

func (e Entry) String() string {
	return e.Type + "." + e.Method + "(" + e.Signature.String() + ")"
}

type entry struct {
	Entry
	static  StaticFunc
	method  MethodFunc
	accepts func(any) bool
}

// Registry maps (type, method, signature) to callables.
// Registering the same key twice overwrites the previous callable.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
	}
}

func key(typ, method string, sig domain.Signature) string {
	return typ + "." + method + "(" + sig.String() + ")"
}

// Static registers a function bound to a type name, called without a receiver.
func (r *Registry) Static(typ, method string, sig domain.Signature, fn StaticFunc) {
	r.put(&entry{
		Entry:  Entry{Type: typ, Method: method, Signature: slices.Clone(sig), Static: true},
		static: fn,
	})
}

// Method registers an instance method. The receiver is passed as is.
func (r *Registry) Method(typ, method string, sig domain.Signature, fn MethodFunc) {
	r.put(&entry{
		Entry:  Entry{Type: typ, Method: method, Signature: slices.Clone(sig)},
		method: fn,
	})
}

// Bind registers an instance method whose receiver must be a T.
// Targets of another type resolve as domain.ErrTargetUnresolved.
func Bind[T any](r *Registry, typ, method string, sig domain.Signature, fn func(ctx context.Context, receiver T, args Args) error) {
	r.put(&entry{
		Entry: Entry{Type: typ, Method: method, Signature: slices.Clone(sig)},
		method: func(ctx context.Context, receiver any, args Args) error {
			return fn(ctx, receiver.(T), args)
		},
		accepts: func(v any) bool {
			_, ok := v.(T)
			return ok
		},
	})
}

func (r *Registry) put(e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key(e.Type, e.Method, e.Signature)] = e
}

// Methods lists the callables registered on a type, sorted by method name
// then signature. Editors use it to offer a picker.
func (r *Registry) Methods(typ string) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Entry
	for _, e := range r.entries {
		if e.Type == typ {
			out = append(out, e.Entry)
		}
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := strings.Compare(a.Method, b.Method); c != 0 {
			return c
		}
		return strings.Compare(a.Signature.String(), b.Signature.String())
	})
	return out
}

// Types lists every type name with at least one registered callable.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, e := range r.entries {
		if !seen[e.Type] {
			seen[e.Type] = true
			out = append(out, e.Type)
		}
	}
	slices.Sort(out)
	return out
}

// lookup resolves a binding to a callable. Failures are *domain.DispatchError:
// a type with no entries of the requested kind is ErrTargetUnresolved on every
// target kind, a known type without the method is ErrMethodUnresolved.
func (r *Registry) lookup(b domain.EventBinding, static bool) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sig := b.Signature()
	if e, ok := r.entries[key(b.Type, b.Method, sig)]; ok && e.Static == static {
		return e, nil
	}

	var typeKnown, methodKnown bool
	var sigs []string
	for _, e := range r.entries {
		if e.Type != b.Type || e.Static != static {
			continue
		}
		typeKnown = true
		if e.Method == b.Method {
			methodKnown = true
			sigs = append(sigs, "("+e.Signature.String()+")")
		}
	}

	switch {
	case methodKnown:
		slices.Sort(sigs)
		return nil, domain.NewDispatchError(domain.ErrSignatureMismatch, b,
			fmt.Errorf("registered as %s", strings.Join(sigs, " ")))
	case typeKnown:
		kind := "instance"
		if static {
			kind = "static"
		}
		return nil, domain.NewDispatchError(domain.ErrMethodUnresolved, b,
			fmt.Errorf("no %s method %q on %q", kind, b.Method, b.Type))
	default:
		kind := "instance"
		if static {
			kind = "static"
		}
		return nil, domain.NewDispatchError(domain.ErrTargetUnresolved, b,
			fmt.Errorf("no %s type %q", kind, b.Type))
	}
}

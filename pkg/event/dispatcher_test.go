package event_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/nodedialog/pkg/domain"
	"github.com/aretw0/nodedialog/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type door struct {
	opened []string
	locked bool
}

type scene struct {
	components map[string]any
}

func (s *scene) Component(typeName string) (any, bool) {
	c, ok := s.components[typeName]
	return c, ok
}

func newRegistry(t *testing.T) (*event.Registry, *[]string) {
	t.Helper()
	var calls []string

	r := event.NewRegistry()
	r.Static("Audio", "Play", domain.Signature{domain.ParamString, domain.ParamFloat}, func(ctx context.Context, args event.Args) error {
		calls = append(calls, "play:"+args.String(0))
		return nil
	})
	r.Static("Audio", "Fail", nil, func(ctx context.Context, args event.Args) error {
		return errors.New("speaker blown")
	})
	r.Static("Audio", "Crash", nil, func(ctx context.Context, args event.Args) error {
		panic("boom")
	})
	event.Bind(r, "Door", "Open", domain.Signature{domain.ParamString}, func(ctx context.Context, d *door, args event.Args) error {
		if d.locked {
			return errors.New("locked")
		}
		d.opened = append(d.opened, args.String(0))
		return nil
	})
	return r, &calls
}

func static(typ, method string, params ...domain.Parameter) domain.EventBinding {
	return domain.EventBinding{Kind: domain.TargetStatic, Type: typ, Method: method, Params: params}
}

func str(v string) domain.Parameter { return domain.Parameter{Type: domain.ParamString, Value: v} }

func TestDispatcher_Static(t *testing.T) {
	r, calls := newRegistry(t)
	d := event.NewDispatcher(r)

	err := d.ResolveAndInvoke(context.Background(), static("Audio", "Play", str("chime"), domain.Parameter{Type: domain.ParamFloat, Value: 1}))
	require.NoError(t, err)
	assert.Equal(t, []string{"play:chime"}, *calls)
}

func TestDispatcher_Classification(t *testing.T) {
	r, _ := newRegistry(t)
	d := event.NewDispatcher(r)

	tests := []struct {
		name    string
		binding domain.EventBinding
		class   error
	}{
		{"unknown type", static("Nope", "Play"), domain.ErrTargetUnresolved},
		{"unknown method", static("Audio", "Stop"), domain.ErrMethodUnresolved},
		{"wrong arity", static("Audio", "Play", str("chime")), domain.ErrSignatureMismatch},
		{"wrong param type", static("Audio", "Play", str("chime"), str("loud")), domain.ErrSignatureMismatch},
		{"bad literal", static("Audio", "Play", str("chime"), domain.Parameter{Type: domain.ParamFloat, Value: "loud"}), domain.ErrSignatureMismatch},
		{"callable error", static("Audio", "Fail"), domain.ErrInvocationThrew},
		{"callable panic", static("Audio", "Crash"), domain.ErrInvocationThrew},
		{"bound without target", domain.EventBinding{Kind: domain.TargetBound, Type: "Door", Method: "Open", Params: []domain.Parameter{str("x")}}, domain.ErrTargetUnresolved},
		{"bound wrong receiver", domain.EventBinding{Kind: domain.TargetBound, Type: "Door", Method: "Open", Params: []domain.Parameter{str("x")}, Target: "not a door"}, domain.ErrTargetUnresolved},
		{"instance method called statically", static("Door", "Open", str("x")), domain.ErrTargetUnresolved},
		{"bound unknown type", domain.EventBinding{Kind: domain.TargetBound, Type: "Chest", Method: "Open", Target: &door{}}, domain.ErrTargetUnresolved},
		{"unknown instance method", domain.EventBinding{Kind: domain.TargetBound, Type: "Door", Method: "Kick", Target: &door{}}, domain.ErrMethodUnresolved},
		{"not injected", domain.EventBinding{Kind: domain.TargetInjected, Type: "Door", Method: "Open", Params: []domain.Parameter{str("x")}}, domain.ErrNotInjected},
		{"unknown kind", domain.EventBinding{Kind: "psychic", Type: "Door", Method: "Open"}, domain.ErrTargetUnresolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.ResolveAndInvoke(context.Background(), tt.binding)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.class)

			var de *domain.DispatchError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.class, de.Class)
		})
	}
}

func TestDispatcher_EmptyBindingIsNoop(t *testing.T) {
	d := event.NewDispatcher(nil)
	assert.NoError(t, d.ResolveAndInvoke(context.Background(), domain.EventBinding{}))
	assert.NoError(t, d.ResolveAndInvoke(context.Background(), domain.EventBinding{Kind: domain.TargetStatic, Type: "Audio"}))
}

func TestDispatcher_Bound(t *testing.T) {
	r, _ := newRegistry(t)
	d := event.NewDispatcher(r)
	target := &door{}

	b := domain.EventBinding{Kind: domain.TargetBound, Type: "Door", Method: "Open", Params: []domain.Parameter{str("north")}, Target: target}
	require.NoError(t, d.ResolveAndInvoke(context.Background(), b))
	assert.Equal(t, []string{"north"}, target.opened)

	target.locked = true
	err := d.ResolveAndInvoke(context.Background(), b)
	assert.ErrorIs(t, err, domain.ErrInvocationThrew)
	assert.ErrorContains(t, err, "locked")
}

func TestDispatcher_Inject(t *testing.T) {
	r, _ := newRegistry(t)
	d := event.NewDispatcher(r)
	b := domain.EventBinding{Kind: domain.TargetInjected, Type: "Door", Method: "Open", Params: []domain.Parameter{str("east")}}

	assert.ErrorIs(t, d.ResolveAndInvoke(context.Background(), b), domain.ErrNotInjected)

	first := &door{}
	require.NoError(t, d.Inject(b, first))
	require.NoError(t, d.ResolveAndInvoke(context.Background(), b))
	assert.Equal(t, []string{"east"}, first.opened)

	t.Run("last write wins", func(t *testing.T) {
		second := &door{}
		require.NoError(t, d.Inject(b, second))
		require.NoError(t, d.ResolveAndInvoke(context.Background(), b))
		assert.Len(t, first.opened, 1)
		assert.Equal(t, []string{"east"}, second.opened)
	})

	t.Run("same pointer is a no-op", func(t *testing.T) {
		current, ok := d.Injected(b.InjectionKey())
		require.True(t, ok)
		require.NoError(t, d.Inject(b, current))
		again, _ := d.Injected(b.InjectionKey())
		assert.Same(t, current, again)
	})

	t.Run("container", func(t *testing.T) {
		fromScene := &door{}
		require.NoError(t, d.Inject(b, &scene{components: map[string]any{"Door": fromScene}}))
		require.NoError(t, d.ResolveAndInvoke(context.Background(), b))
		assert.Equal(t, []string{"east"}, fromScene.opened)
	})

	t.Run("container without component", func(t *testing.T) {
		err := d.Inject(b, &scene{})
		assert.ErrorIs(t, err, domain.ErrTargetUnresolved)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, d.Inject(b, nil))
		assert.ErrorIs(t, d.ResolveAndInvoke(context.Background(), b), domain.ErrNotInjected)
	})
}

func TestDispatcher_InjectionKey(t *testing.T) {
	r, _ := newRegistry(t)
	d := event.NewDispatcher(r)

	left := domain.EventBinding{Key: "left", Kind: domain.TargetInjected, Type: "Door", Method: "Open", Params: []domain.Parameter{str("l")}}
	right := domain.EventBinding{Key: "right", Kind: domain.TargetInjected, Type: "Door", Method: "Open", Params: []domain.Parameter{str("r")}}

	l, rd := &door{}, &door{}
	require.NoError(t, d.Inject(left, l))
	require.NoError(t, d.Inject(right, rd))
	require.NoError(t, d.ResolveAndInvoke(context.Background(), left))
	require.NoError(t, d.ResolveAndInvoke(context.Background(), right))

	assert.Equal(t, []string{"l"}, l.opened)
	assert.Equal(t, []string{"r"}, rd.opened)
}

func TestDispatcher_NoCaching(t *testing.T) {
	r := event.NewRegistry()
	d := event.NewDispatcher(r)
	b := static("Late", "Hook")

	assert.ErrorIs(t, d.ResolveAndInvoke(context.Background(), b), domain.ErrTargetUnresolved)

	called := 0
	r.Static("Late", "Hook", nil, func(ctx context.Context, args event.Args) error {
		called++
		return nil
	})
	require.NoError(t, d.ResolveAndInvoke(context.Background(), b))
	assert.Equal(t, 1, called)
}

func TestDispatcher_CoercesDecodedNumbers(t *testing.T) {
	r := event.NewRegistry()
	var got []any
	r.Static("Score", "Add", domain.Signature{domain.ParamInt, domain.ParamFloat, domain.ParamBool}, func(ctx context.Context, args event.Args) error {
		got = []any{args.Int(0), args.Float(1), args.Bool(2)}
		return nil
	})
	d := event.NewDispatcher(r)

	// JSON decoding yields float64 for every number.
	b := static("Score", "Add",
		domain.Parameter{Type: domain.ParamInt, Value: 10.0},
		domain.Parameter{Type: domain.ParamFloat, Value: 2},
		domain.Parameter{Type: domain.ParamBool, Value: true},
	)
	require.NoError(t, d.ResolveAndInvoke(context.Background(), b))
	assert.Equal(t, []any{10, 2.0, true}, got)
}

func TestDispatcher_OutOfRangeIntIsNotInvoked(t *testing.T) {
	r := event.NewRegistry()
	var got []int
	r.Static("Purse", "Add", domain.Signature{domain.ParamInt}, func(ctx context.Context, args event.Args) error {
		got = append(got, args.Int(0))
		return nil
	})
	d := event.NewDispatcher(r)

	err := d.ResolveAndInvoke(context.Background(), static("Purse", "Add", domain.Parameter{Type: domain.ParamInt, Value: 1e30}))
	assert.ErrorIs(t, err, domain.ErrSignatureMismatch)
	assert.Empty(t, got)

	require.NoError(t, d.ResolveAndInvoke(context.Background(), static("Purse", "Add", domain.Parameter{Type: domain.ParamInt, Value: float64(12)})))
	assert.Equal(t, []int{12}, got)
}

func TestDispatcher_KeylessBindingsShareTarget(t *testing.T) {
	r, _ := newRegistry(t)
	d := event.NewDispatcher(r)

	north := domain.EventBinding{Kind: domain.TargetInjected, Type: "Door", Method: "Open", Params: []domain.Parameter{str("north")}}
	south := domain.EventBinding{Kind: domain.TargetInjected, Type: "Door", Method: "Open", Params: []domain.Parameter{str("south")}}
	assert.Equal(t, north.InjectionKey(), south.InjectionKey())

	shared := &door{}
	require.NoError(t, d.Inject(north, shared))
	require.NoError(t, d.ResolveAndInvoke(context.Background(), south))
	assert.Equal(t, []string{"south"}, shared.opened)
}

func TestDispatcher_InjectedUnknownType(t *testing.T) {
	r, _ := newRegistry(t)
	d := event.NewDispatcher(r)

	b := domain.EventBinding{Kind: domain.TargetInjected, Type: "Chest", Method: "Open"}
	require.NoError(t, d.Inject(b, &door{}))
	assert.ErrorIs(t, d.ResolveAndInvoke(context.Background(), b), domain.ErrTargetUnresolved)
}

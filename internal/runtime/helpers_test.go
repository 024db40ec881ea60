package runtime_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/nodedialog/pkg/domain"
	"github.com/aretw0/nodedialog/pkg/event"
	"github.com/aretw0/nodedialog/pkg/ports"
)

// recorder is a speaker that logs every callback into a shared trace.
type recorder struct {
	id      string
	trace   *[]string
	vars    map[string]string
	options []domain.Option
	choose  ports.ChooseFunc

	// onChoice, when set, runs inside OnChoice.
	onChoice func(options []domain.Option, choose ports.ChooseFunc)
}

func newRecorder(id string, trace *[]string) *recorder {
	return &recorder{id: id, trace: trace}
}

func (r *recorder) ID() string { return r.id }

func (r *recorder) OnStatement(vars map[string]string, text string) {
	r.vars = vars
	*r.trace = append(*r.trace, "say:"+text)
}

func (r *recorder) OnChoice(vars map[string]string, prompt string, options []domain.Option, choose ports.ChooseFunc) {
	r.vars = vars
	r.options = options
	r.choose = choose
	*r.trace = append(*r.trace, "ask:"+prompt)
	if r.onChoice != nil {
		r.onChoice(options, choose)
	}
}

// traceRegistry registers a static "Trace.Mark(string)" callable appending to trace.
func traceRegistry(trace *[]string) *event.Registry {
	r := event.NewRegistry()
	r.Static("Trace", "Mark", domain.Signature{domain.ParamString}, func(ctx context.Context, args event.Args) error {
		*trace = append(*trace, "event:"+args.String(0))
		return nil
	})
	return r
}

func mark(label string) domain.EventBinding {
	return domain.EventBinding{
		Kind:   domain.TargetStatic,
		Type:   "Trace",
		Method: "Mark",
		Params: []domain.Parameter{{Type: domain.ParamString, Value: label}},
	}
}

// marks attaches enter/exit markers named after the node.
type binder interface {
	AddOnEnter(domain.NodeID, ...domain.EventBinding) error
	AddOnExit(domain.NodeID, ...domain.EventBinding) error
}

func marks(t *testing.T, g binder, id domain.NodeID, name string) {
	t.Helper()
	if err := g.AddOnEnter(id, mark(fmt.Sprintf("%s.on_enter", name))); err != nil {
		t.Fatal(err)
	}
	if err := g.AddOnExit(id, mark(fmt.Sprintf("%s.on_exit", name))); err != nil {
		t.Fatal(err)
	}
}

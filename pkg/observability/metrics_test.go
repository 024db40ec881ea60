package observability_test

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nodedialog/internal/runtime"
	"github.com/aretw0/nodedialog/pkg/domain"
	"github.com/aretw0/nodedialog/pkg/dsl"
	"github.com/aretw0/nodedialog/pkg/observability"
	"github.com/aretw0/nodedialog/pkg/ports"
)

type silent struct{}

func (silent) ID() string { return "s" }

func (silent) OnStatement(map[string]string, string) {}

func (silent) OnChoice(map[string]string, string, []domain.Option, ports.ChooseFunc) {}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	b := dsl.New()
	b.Add("hello").Text("Hi").OnEnter(dsl.Static("Nope", "Call")).Go("bye")
	b.Add("bye").Text("Bye")
	g, err := b.Build()
	require.NoError(t, err)

	e := runtime.NewEngine(g, runtime.WithLifecycleHooks(m.Hooks(nil)))
	for i := 0; i < 2; i++ {
		_, err := e.Advance(context.Background(), silent{})
		require.NoError(t, err)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.NodeVisits.WithLabelValues("hello", "statement")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NodeVisits.WithLabelValues("bye", "statement")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DialogsEnded))

	expected := `
# HELP nodedialog_dispatch_total Event binding invocations by outcome
# TYPE nodedialog_dispatch_total counter
nodedialog_dispatch_total{outcome="target_unresolved",phase="on_enter"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "nodedialog_dispatch_total"))
}

func TestOutcome(t *testing.T) {
	b := domain.EventBinding{Type: "T", Method: "M"}
	assert.Equal(t, "ok", observability.Outcome(nil))
	assert.Equal(t, "not_injected", observability.Outcome(domain.NewDispatchError(domain.ErrNotInjected, b, nil)))
	assert.Equal(t, "invocation_threw", observability.Outcome(domain.NewDispatchError(domain.ErrInvocationThrew, b, assert.AnError)))
	assert.Equal(t, "error", observability.Outcome(assert.AnError))
}

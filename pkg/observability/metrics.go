package observability

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/nodedialog/pkg/domain"
)

// Metrics holds the dialog collectors.
type Metrics struct {
	NodeVisits   *prometheus.CounterVec
	Dispatches   *prometheus.CounterVec
	DialogsEnded prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		NodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nodedialog_node_visits_total",
				Help: "Total number of node visits",
			},
			[]string{"node", "kind"},
		),
		Dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nodedialog_dispatch_total",
				Help: "Event binding invocations by outcome",
			},
			[]string{"phase", "outcome"},
		),
		DialogsEnded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "nodedialog_dialogs_ended_total",
				Help: "Conversations that reached a statement without outgoing connections",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.NodeVisits, m.Dispatches, m.DialogsEnded)
	}
	return m
}

// Hooks returns lifecycle hooks recording into m. A nil logger disables logging.
func (m *Metrics) Hooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			m.NodeVisits.WithLabelValues(nodeLabel(e), string(e.NodeKind)).Inc()
			if logger != nil {
				logger.Info("node_enter", "speaker", e.Speaker, "node", nodeLabel(e), "kind", e.NodeKind)
			}
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			if logger != nil {
				logger.Info("node_leave", "speaker", e.Speaker, "node", nodeLabel(e))
			}
		},
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			outcome := Outcome(e.Err)
			m.Dispatches.WithLabelValues(string(e.Phase), outcome).Inc()
			if logger != nil && e.Err != nil {
				logger.Warn("dispatch", "speaker", e.Speaker, "binding", e.Binding, "outcome", outcome, "error", e.Err)
			}
		},
		OnDialogEnd: func(ctx context.Context, e *domain.NodeEvent) {
			m.DialogsEnded.Inc()
			if logger != nil {
				logger.Info("dialog_end", "speaker", e.Speaker, "node", nodeLabel(e))
			}
		},
	}
}

func nodeLabel(e *domain.NodeEvent) string {
	if e.NodeName != "" {
		return e.NodeName
	}
	return e.NodeID.String()
}

var outcomes = []struct {
	err   error
	label string
}{
	{domain.ErrTargetUnresolved, "target_unresolved"},
	{domain.ErrMethodUnresolved, "method_unresolved"},
	{domain.ErrSignatureMismatch, "signature_mismatch"},
	{domain.ErrNotInjected, "not_injected"},
	{domain.ErrInvocationThrew, "invocation_threw"},
}

// Outcome maps a dispatch error to a metric label.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	for _, o := range outcomes {
		if errors.Is(err, o.err) {
			return o.label
		}
	}
	return "error"
}

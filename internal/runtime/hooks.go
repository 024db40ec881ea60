package runtime

import (
	"context"
	"time"

	"github.com/aretw0/nodedialog/pkg/domain"
)

func (e *Engine) nodeEvent(typ domain.EventType, speaker string, node *domain.Node) *domain.NodeEvent {
	return &domain.NodeEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      typ,
			Speaker:   speaker,
		},
		NodeID:   node.ID,
		NodeName: node.Name,
		NodeKind: node.Kind(),
	}
}

func (e *Engine) emitNodeEnter(ctx context.Context, speaker string, node *domain.Node) {
	if e.hooks.OnNodeEnter != nil {
		e.hooks.OnNodeEnter(ctx, e.nodeEvent(domain.EventNodeEnter, speaker, node))
	}
}

func (e *Engine) emitNodeLeave(ctx context.Context, speaker string, node *domain.Node) {
	if e.hooks.OnNodeLeave != nil {
		e.hooks.OnNodeLeave(ctx, e.nodeEvent(domain.EventNodeLeave, speaker, node))
	}
}

func (e *Engine) emitDialogEnd(ctx context.Context, speaker string, node *domain.Node) {
	if e.hooks.OnDialogEnd != nil {
		e.hooks.OnDialogEnd(ctx, e.nodeEvent(domain.EventDialogEnd, speaker, node))
	}
}

func (e *Engine) emitDispatch(ctx context.Context, speaker string, node *domain.Node, phase domain.Phase, b domain.EventBinding, err error) {
	if e.hooks.OnDispatch == nil {
		return
	}
	e.hooks.OnDispatch(ctx, &domain.DispatchEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventDispatch,
			Speaker:   speaker,
		},
		NodeID:  node.ID,
		Phase:   phase,
		Binding: b.String(),
		Err:     err,
	})
}

// fire invokes a node's bindings for one phase, in order. Failures are
// collected and never stop the remaining bindings.
func (e *Engine) fire(ctx context.Context, speaker string, node *domain.Node, phase domain.Phase) []error {
	bindings := node.OnEnter
	if phase == domain.PhaseExit {
		bindings = node.OnExit
	}

	var errs []error
	for _, b := range bindings {
		if b.IsEmpty() {
			continue
		}
		err := e.dispatcher.ResolveAndInvoke(ctx, b)
		if err != nil {
			e.logger.Warn("event binding failed",
				"speaker", speaker,
				"node", node.Label(),
				"phase", phase,
				"binding", b.String(),
				"error", err)
			errs = append(errs, err)
		}
		e.emitDispatch(ctx, speaker, node, phase, b, err)
	}
	return errs
}

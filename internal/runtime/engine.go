package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/nodedialog/internal/logging"
	"github.com/aretw0/nodedialog/pkg/domain"
	"github.com/aretw0/nodedialog/pkg/event"
	"github.com/aretw0/nodedialog/pkg/localize"
	"github.com/aretw0/nodedialog/pkg/ports"
)

// Engine advances speakers through a dialog graph.
//
// It keeps one traversal state per speaker id. The state lock is never held
// while bindings, hooks or the speaker run, so a speaker may resume a choice
// from inside OnChoice.
type Engine struct {
	store      ports.GraphStore
	dispatcher ports.Dispatcher
	localizer  ports.Localizer
	logger     *slog.Logger
	hooks      domain.LifecycleHooks

	mu       sync.Mutex
	speakers map[string]*traversal
}

type traversal struct {
	node    domain.NodeID
	status  domain.Status
	pending *pendingChoice
}

// pendingChoice is the suspended half of a Choice step.
// A continuation is valid only while its pendingChoice is the speaker's current one.
type pendingChoice struct {
	node    domain.Node
	options []domain.Option
	used    bool
}

func (p *pendingChoice) offers(id domain.ConnectionID) bool {
	return slices.ContainsFunc(p.options, func(o domain.Option) bool {
		return o.Connection == id
	})
}

// NewEngine creates an engine reading from store.
func NewEngine(store ports.GraphStore, opts ...Option) *Engine {
	e := &Engine{
		store:      store,
		dispatcher: event.NewDispatcher(nil),
		localizer:  localize.Identity{},
		logger:     logging.NewNop(),
		speakers:   make(map[string]*traversal),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Advance presents the speaker's current node, or the root on first contact.
//
// A Statement is delivered and the cursor moves to its first outgoing
// connection, or the traversal state is dropped when there is none. A Choice is
// delivered with a one-shot continuation and the speaker waits for it; a
// Choice with no outgoing connections ends the dialog instead.
// Binding failures are reported in the result and never abort the step.
func (e *Engine) Advance(ctx context.Context, speaker ports.Speaker) (*domain.StepResult, error) {
	id := speaker.ID()

	e.mu.Lock()
	st, known := e.speakers[id]
	var cursor domain.NodeID
	if known {
		if st.status == domain.StatusAwaitingChoice {
			e.mu.Unlock()
			return nil, fmt.Errorf("advance %q: %w", id, domain.ErrAlreadyAwaitingChoice)
		}
		cursor = st.node
	}
	e.mu.Unlock()

	if !known {
		root, err := e.store.Root()
		if err != nil {
			return nil, fmt.Errorf("advance %q: %w", id, err)
		}
		cursor = root
	}

	node, err := e.store.Node(cursor)
	if err != nil {
		return nil, e.corrupted(id, err)
	}

	e.logger.Debug("advance", "speaker", id, "node", node.Label(), "kind", node.Kind())
	e.emitNodeEnter(ctx, id, &node)

	res := &domain.StepResult{
		Speaker: id,
		Node:    node.ID,
		Kind:    node.Kind(),
	}
	res.DispatchErrors = e.fire(ctx, id, &node, domain.PhaseEnter)

	switch node.Body.(type) {
	case domain.Statement:
		return e.presentStatement(ctx, speaker, &node, res)
	case domain.Choice:
		return e.presentChoice(ctx, speaker, &node, res)
	default:
		return nil, e.corrupted(id, fmt.Errorf("node %s has no body", node.ID))
	}
}

func (e *Engine) presentStatement(ctx context.Context, speaker ports.Speaker, node *domain.Node, res *domain.StepResult) (*domain.StepResult, error) {
	id := res.Speaker

	speaker.OnStatement(maps.Clone(node.Vars), e.localizer.Localize(node.Token()))
	res.DispatchErrors = append(res.DispatchErrors, e.fire(ctx, id, node, domain.PhaseExit)...)
	e.emitNodeLeave(ctx, id, node)

	if len(node.Outgoing) == 0 {
		e.mu.Lock()
		delete(e.speakers, id)
		e.mu.Unlock()

		res.Status = domain.StatusEnded
		e.logger.Debug("dialog ended", "speaker", id, "node", node.Label())
		e.emitDialogEnd(ctx, id, node)
		return res, nil
	}

	conn, err := e.store.Connection(node.Outgoing[0])
	if err != nil {
		return nil, e.corrupted(id, err)
	}

	e.mu.Lock()
	e.speakers[id] = &traversal{node: conn.To, status: domain.StatusPresenting}
	e.mu.Unlock()

	res.Status = domain.StatusPresenting
	res.Next = conn.To
	return res, nil
}

func (e *Engine) presentChoice(ctx context.Context, speaker ports.Speaker, node *domain.Node, res *domain.StepResult) (*domain.StepResult, error) {
	id := res.Speaker

	options := make([]domain.Option, 0, len(node.Outgoing))
	for _, cid := range node.Outgoing {
		conn, err := e.store.Connection(cid)
		if err != nil {
			return nil, e.corrupted(id, err)
		}
		options = append(options, domain.Option{
			Label:      e.localizer.Localize(conn.Label),
			Connection: cid,
		})
	}
	if len(options) == 0 {
		// Nothing can be chosen, so the dialog ends here.
		e.logger.Warn("choice without options, dialog ended", "speaker", id, "node", node.Label())
		res.DispatchErrors = append(res.DispatchErrors, e.fire(ctx, id, node, domain.PhaseExit)...)
		e.emitNodeLeave(ctx, id, node)

		e.mu.Lock()
		delete(e.speakers, id)
		e.mu.Unlock()

		res.Status = domain.StatusEnded
		e.emitDialogEnd(ctx, id, node)
		return res, nil
	}

	pending := &pendingChoice{node: *node, options: options}
	e.mu.Lock()
	e.speakers[id] = &traversal{node: node.ID, status: domain.StatusAwaitingChoice, pending: pending}
	e.mu.Unlock()

	res.Status = domain.StatusAwaitingChoice
	res.Options = slices.Clone(options)

	speaker.OnChoice(maps.Clone(node.Vars), e.localizer.Localize(node.Token()), slices.Clone(options), e.continuation(id, pending))

	// The speaker may already have chosen from inside OnChoice.
	if cur, ok := e.Cursor(id); ok && cur.Status == domain.StatusPresenting {
		res.Status = domain.StatusPresenting
		res.Next = cur.Node
	}
	return res, nil
}

// continuation builds the one-shot choose function for a pending choice.
func (e *Engine) continuation(id string, pending *pendingChoice) ports.ChooseFunc {
	return func(ctx context.Context, cid domain.ConnectionID) (*domain.ChoiceResult, error) {
		e.mu.Lock()
		st, ok := e.speakers[id]
		switch {
		case !ok || st.pending != pending || pending.used:
			e.mu.Unlock()
			return nil, fmt.Errorf("choose %s for %q: choice is no longer pending: %w", cid, id, domain.ErrInvalidChoice)
		case !pending.offers(cid):
			e.mu.Unlock()
			return nil, fmt.Errorf("choose %s for %q: connection was not offered: %w", cid, id, domain.ErrInvalidChoice)
		}
		pending.used = true
		e.mu.Unlock()

		conn, err := e.store.Connection(cid)
		if err != nil {
			return nil, e.corrupted(id, err)
		}

		node := &pending.node
		res := &domain.ChoiceResult{
			Speaker:    id,
			From:       node.ID,
			Connection: cid,
			Next:       conn.To,
		}
		res.DispatchErrors = e.fire(ctx, id, node, domain.PhaseExit)
		e.emitNodeLeave(ctx, id, node)

		e.mu.Lock()
		if st, ok := e.speakers[id]; ok && st.pending == pending {
			e.speakers[id] = &traversal{node: conn.To, status: domain.StatusPresenting}
		}
		e.mu.Unlock()

		e.logger.Debug("choice made", "speaker", id, "node", node.Label(), "connection", cid, "next", conn.To)
		return res, nil
	}
}

// corrupted drops the speaker's traversal so the next Advance restarts at the root.
func (e *Engine) corrupted(id string, cause error) error {
	e.mu.Lock()
	delete(e.speakers, id)
	e.mu.Unlock()

	e.logger.Error("graph corruption, traversal dropped", "speaker", id, "error", cause)
	return fmt.Errorf("speaker %q: %w: %w", id, domain.ErrGraphCorruption, cause)
}

// Reset drops a speaker's traversal state, discarding any pending choice.
// It reports whether there was state to drop.
func (e *Engine) Reset(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.speakers[id]
	delete(e.speakers, id)
	return ok
}

// Cursor returns the speaker's position. ok is false when the speaker has no
// traversal state.
func (e *Engine) Cursor(id string) (domain.Cursor, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.speakers[id]
	if !ok {
		return domain.Cursor{Status: domain.StatusEnded}, false
	}
	return domain.Cursor{Node: st.node, Status: st.status}, true
}

// Speakers returns the ids of speakers with traversal state, sorted.
func (e *Engine) Speakers() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.speakers))
	for id := range e.speakers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

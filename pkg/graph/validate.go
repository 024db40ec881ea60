package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/nodedialog/pkg/domain"
	"github.com/aretw0/nodedialog/pkg/schema"
)

// Severity grades a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single finding of Validate.
type Issue struct {
	Severity Severity
	Node     domain.NodeID
	NodeName string
	Err      error
}

func (i Issue) Error() string {
	where := i.Node.String()
	if i.NodeName != "" {
		where = fmt.Sprintf("%s (%s)", i.NodeName, i.Node)
	}
	if i.Node.IsZero() {
		return fmt.Sprintf("[%s] %v", i.Severity, i.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", i.Severity, where, i.Err)
}

func (i Issue) Unwrap() error { return i.Err }

// Report collects validation issues.
type Report struct {
	Issues []Issue
}

// Errors returns issues with SeverityError.
func (r *Report) Errors() []Issue { return r.filter(SeverityError) }

// Warnings returns issues with SeverityWarning.
func (r *Report) Warnings() []Issue { return r.filter(SeverityWarning) }

func (r *Report) filter(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

// Err joins the error issues, or returns nil when there are none.
func (r *Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, len(errs))
	for i, issue := range errs {
		joined[i] = issue
	}
	return errors.Join(joined...)
}

func (r *Report) String() string {
	lines := make([]string, len(r.Issues))
	for i, issue := range r.Issues {
		lines[i] = issue.Error()
	}
	return strings.Join(lines, "\n")
}

type validateConfig struct {
	strict bool
}

// ValidateOption tunes Validate.
type ValidateOption func(*validateConfig)

// Strict turns statements with several outgoing connections into errors.
func Strict() ValidateOption {
	return func(c *validateConfig) {
		c.strict = true
	}
}

// Validate checks the graph for authoring mistakes that traversal would
// otherwise hit at runtime. It never mutates the graph.
func (g *Graph) Validate(opts ...ValidateOption) *Report {
	cfg := validateConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	r := &Report{}
	add := func(sev Severity, n *domain.Node, err error) {
		issue := Issue{Severity: sev, Err: err}
		if n != nil {
			issue.Node = n.ID
			issue.NodeName = n.Name
		}
		r.Issues = append(r.Issues, issue)
	}

	root, err := g.root()
	if err != nil {
		add(SeverityError, nil, err)
		if errors.Is(err, domain.ErrEmptyGraph) {
			return r
		}
	}

	for _, idx := range g.order {
		n := &g.nodes[idx].node

		for _, cid := range n.Outgoing {
			slot, err := g.connSlot(cid)
			if err != nil {
				add(SeverityError, n, fmt.Errorf("%w: %v", domain.ErrGraphCorruption, err))
				continue
			}
			if _, err := g.nodeSlot(slot.conn.To); err != nil {
				add(SeverityError, n, fmt.Errorf("%w: connection %s: %v", domain.ErrGraphCorruption, cid, err))
			}
		}

		switch n.Kind() {
		case domain.KindChoice:
			if len(n.Outgoing) == 0 {
				add(SeverityError, n, domain.ErrEmptyChoice)
			}
		case domain.KindStatement:
			if len(n.Outgoing) > 1 {
				sev := SeverityWarning
				if cfg.strict {
					sev = SeverityError
				}
				add(sev, n, fmt.Errorf("%w (%d)", domain.ErrMultipleOutgoing, len(n.Outgoing)))
			}
		}

		for _, b := range n.OnEnter {
			if err := checkBinding(b); err != nil {
				add(SeverityError, n, fmt.Errorf("%s: %w", domain.PhaseEnter, err))
			}
		}
		for _, b := range n.OnExit {
			if err := checkBinding(b); err != nil {
				add(SeverityError, n, fmt.Errorf("%s: %w", domain.PhaseExit, err))
			}
		}
	}

	if !root.IsZero() {
		reached := g.reachable(root)
		for _, idx := range g.order {
			n := &g.nodes[idx].node
			if !reached[n.ID] {
				add(SeverityWarning, n, domain.ErrUnreachable)
			}
		}
	}

	return r
}

func (g *Graph) reachable(root domain.NodeID) map[domain.NodeID]bool {
	seen := map[domain.NodeID]bool{root: true}
	queue := []domain.NodeID{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		slot, err := g.nodeSlot(id)
		if err != nil {
			continue
		}
		for _, cid := range slot.node.Outgoing {
			c, err := g.connSlot(cid)
			if err != nil || seen[c.conn.To] {
				continue
			}
			seen[c.conn.To] = true
			queue = append(queue, c.conn.To)
		}
	}
	return seen
}

// checkBinding reports bindings that cannot succeed whatever is registered.
// Empty bindings are valid no-ops.
func checkBinding(b domain.EventBinding) error {
	if b.IsEmpty() {
		return nil
	}

	switch b.Kind {
	case domain.TargetStatic, domain.TargetInjected:
	case domain.TargetBound:
		if b.Target == nil {
			return fmt.Errorf("%w: %s: bound binding without target", domain.ErrInvalidBinding, b)
		}
	default:
		return fmt.Errorf("%w: %s: unknown target kind %q", domain.ErrInvalidBinding, b, b.Kind)
	}

	typeNames := make([]string, len(b.Params))
	values := make([]any, len(b.Params))
	for i, p := range b.Params {
		typeNames[i] = string(p.Type)
		values[i] = p.Value
	}
	if _, err := schema.CoerceList(typeNames, values); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidBinding, b, err)
	}
	return nil
}

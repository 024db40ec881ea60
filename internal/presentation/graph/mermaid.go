package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/nodedialog/pkg/domain"
	"github.com/aretw0/nodedialog/pkg/ports"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []domain.NodeID
	CurrentNode  domain.NodeID
}

// GenerateMermaid produces a Mermaid flowchart for a dialog graph.
// It applies semantic styling:
// - Root: ((Circle))
// - Choice: [/Parallelogram/]
// - Statement: [Rectangle]
// Outgoing connections of a statement past the first are never followed
// at runtime and are drawn dotted.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(store ports.Inspectable, root domain.NodeID, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	conns := make(map[domain.ConnectionID]domain.Connection)
	for _, c := range store.Connections() {
		conns[c.ID] = c
	}

	for _, node := range store.Nodes() {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.ID == root:
			opener, closer = "((", "))"
		case node.Kind() == domain.KindChoice:
			opener, closer = "[/", "/]"
		}

		label := escapeLabel(node.Label())
		for _, b := range node.OnEnter {
			if !b.IsEmpty() {
				label += " <br/> ⚡ " + escapeLabel(b.String())
			}
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		for i, cid := range node.Outgoing {
			conn, ok := conns[cid]
			if !ok {
				continue
			}
			safeTo := sanitizeMermaidID(conn.To)

			dead := node.Kind() == domain.KindStatement && i > 0
			arrow := "-->"
			if dead {
				arrow = "-.->"
			}
			if conn.Label != "" {
				arrow = fmt.Sprintf("-- \"%s\" -->", escapeLabel(conn.Label))
				if dead {
					arrow = fmt.Sprintf("-. \"%s\" .->", escapeLabel(conn.Label))
				}
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, safeTo)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[domain.NodeID]bool)
		for _, id := range overlay.VisitedNodes {
			if !visited[id] && !id.IsZero() {
				visited[id] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", sanitizeMermaidID(id))
			}
		}

		if !overlay.CurrentNode.IsZero() {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id domain.NodeID) string {
	return strings.ReplaceAll(id.String(), ".", "_")
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/parley/pkg/domain"
)

// GraphOverlay contains playback state to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// labelLimit is the number of text runes shown inside a node.
const labelLimit = 32

// GenerateMermaid produces a Mermaid flowchart for a dialogue graph.
// It applies semantic styling:
// - Start node: ((Circle))
// - Node with choices: {{Hexagon}}
// - Default: [Rectangle]
// Choices become labeled edges, NextID a plain edge. Edges to missing nodes
// are dotted and the missing target is styled as such. Unset targets are
// not drawn. It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(g *domain.Graph, startNode string, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	seen := make(map[string]bool)
	missing := make(map[string]bool)

	for _, node := range g.Nodes {
		// The first node with an id is the one links resolve to.
		if seen[node.ID] {
			continue
		}
		seen[node.ID] = true

		safeID := sanitizeMermaidID(node.ID)
		opener, closer := "[", "]"
		switch {
		case node.ID == startNode:
			opener, closer = "((", "))"
		case len(node.Choices) > 0:
			opener, closer = "{{", "}}"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, nodeLabel(node), closer)

		for _, c := range node.Choices {
			if !c.HasTarget() {
				continue
			}
			label := escapeMermaid(c.Text)
			if _, ok := g.FindNode(c.TargetNodeID); ok {
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, label, sanitizeMermaidID(c.TargetNodeID))
			} else {
				missing[c.TargetNodeID] = true
				fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", safeID, label, sanitizeMermaidID(c.TargetNodeID))
			}
		}

		if len(node.Choices) == 0 && node.NextID != "" {
			arrow := "-->"
			if _, ok := g.FindNode(node.NextID); !ok {
				missing[node.NextID] = true
				arrow = "-.->"
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, sanitizeMermaidID(node.NextID))
		}
	}

	if len(missing) > 0 {
		sb.WriteString("\n    classDef missing stroke-dasharray: 5 5,color:#999;\n")
		for _, n := range g.Nodes {
			for _, id := range linkTargets(n) {
				if missing[id] {
					fmt.Fprintf(&sb, "    class %s missing;\n", sanitizeMermaidID(id))
					delete(missing, id)
				}
			}
		}
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

// linkTargets lists the ids a node links to, in drawing order.
func linkTargets(n *domain.Node) []string {
	var ids []string
	for _, c := range n.Choices {
		if c.HasTarget() {
			ids = append(ids, c.TargetNodeID)
		}
	}
	if len(n.Choices) == 0 && n.NextID != "" {
		ids = append(ids, n.NextID)
	}
	return ids
}

func nodeLabel(n *domain.Node) string {
	text := strings.Join(strings.Fields(n.Text), " ")
	if runes := []rune(text); len(runes) > labelLimit {
		text = string(runes[:labelLimit-1]) + "…"
	}
	if text == "" {
		return escapeMermaid(n.ID)
	}
	return escapeMermaid(n.ID) + " <br/> " + escapeMermaid(text)
}

func escapeMermaid(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	if s == "" {
		return "_"
	}
	return s
}

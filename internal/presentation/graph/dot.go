package graph

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/aretw0/parley/pkg/domain"
)

// ToDOT converts a dialogue graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Nodes keep their editor positions as pinned coordinates, so a layout
// engine such as neato reproduces the canvas. Edges to missing nodes are
// dashed.
func ToDOT(g *domain.Graph, startNode string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	seen := make(map[string]bool)
	for _, n := range g.Nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true

		attrs := []string{
			fmt.Sprintf("label=%q", dotLabel(n)),
			// Graphviz points are 1/72 inch and grow upwards.
			fmt.Sprintf("pos=\"%.0f,%.0f!\"", n.Rect.X, 0 - n.Rect.Y),
		}
		if n.ID == startNode {
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range g.Nodes {
		for _, c := range n.Choices {
			if !c.HasTarget() {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", n.ID, c.TargetNodeID, edgeAttrs(g, c.TargetNodeID, c.Text))
		}
		if len(n.Choices) == 0 && n.NextID != "" {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", n.ID, n.NextID, edgeAttrs(g, n.NextID, ""))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(n *domain.Node) string {
	text := strings.Join(strings.Fields(n.Text), " ")
	if runes := []rune(text); len(runes) > labelLimit {
		text = string(runes[:labelLimit-1]) + "…"
	}
	if text == "" {
		return n.ID
	}
	return n.ID + "\n" + text
}

func edgeAttrs(g *domain.Graph, target, label string) string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if _, ok := g.FindNode(target); !ok {
		attrs = append(attrs, "style=dashed", "color=grey")
	}
	return strings.Join(attrs, ", ")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

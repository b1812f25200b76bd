package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/parley/internal/presentation/graph"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []*domain.Node
		start    string
		contains []string
		excludes []string
	}{
		{
			name:  "Node Shapes",
			start: "1",
			nodes: []*domain.Node{
				{ID: "1", Text: "Hello"},
				{ID: "ask", Text: "Well?", Choices: []domain.Choice{{Text: "Yes"}}},
				{ID: "plain"},
			},
			contains: []string{
				`1(("1 <br/> Hello"))`,
				`ask{{"ask <br/> Well?"}}`,
				`plain["plain"]`,
			},
		},
		{
			name: "ID Sanitization",
			nodes: []*domain.Node{
				{ID: "path/to/file.md"},
				{ID: "hyphen-ated"},
			},
			contains: []string{
				`path_to_file_md["path/to/file.md"]`,
				`hyphen_ated["hyphen-ated"]`,
			},
		},
		{
			name: "Choice Edges",
			nodes: []*domain.Node{
				{ID: "A", Choices: []domain.Choice{
					{Text: `say "yes"`, TargetNodeID: "B"},
					{Text: "unset"},
					{Text: "lost", TargetNodeID: "gone"},
				}},
				{ID: "B", NextID: "A"},
			},
			contains: []string{
				`A -- "say 'yes'" --> B`,
				`A -. "lost" .-> gone`,
				"B --> A",
				"class gone missing;",
			},
			excludes: []string{`"unset"`},
		},
		{
			name: "NextID Ignored With Choices",
			nodes: []*domain.Node{
				{ID: "A", NextID: "B", Choices: []domain.Choice{{Text: "go", TargetNodeID: "B"}}},
				{ID: "B"},
			},
			excludes: []string{"A --> B"},
		},
		{
			name: "Long Text Truncated",
			nodes: []*domain.Node{
				{ID: "long", Text: strings.Repeat("word ", 20)},
			},
			contains: []string{"…"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(domain.NewGraph(tt.nodes...), tt.start, nil)
			assert.True(t, strings.HasPrefix(got, "graph TD\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestGenerateMermaid_DuplicateIDsDrawnOnce(t *testing.T) {
	g := domain.NewGraph(&domain.Node{ID: "x", Text: "first"}, &domain.Node{ID: "x", Text: "second"})

	got := graph.GenerateMermaid(g, "", nil)
	assert.Contains(t, got, "first")
	assert.NotContains(t, got, "second")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	g := domain.NewGraph(&domain.Node{ID: "1", NextID: "2"}, &domain.Node{ID: "2"})

	got := graph.GenerateMermaid(g, "1", &graph.GraphOverlay{
		VisitedNodes: []string{"1", "2", "1"},
		CurrentNode:  "2",
	})
	assert.Equal(t, 1, strings.Count(got, "class 1 visited;"))
	assert.Contains(t, got, "class 2 current;")
}

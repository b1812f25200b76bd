package domain_test

import (
	"testing"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_AddNode_Defaults(t *testing.T) {
	g := domain.NewGraph()
	n := g.AddNode(domain.DefaultNodeRect)

	assert.NotEmpty(t, n.ID)
	assert.Equal(t, domain.DefaultNodeText, n.Text)
	assert.Empty(t, n.NextID)
	assert.NotNil(t, n.Choices)
	assert.Empty(t, n.Choices)
	assert.Equal(t, domain.Rect{X: 10, Y: 10, Width: 200, Height: 100}, n.Rect)
	assert.Equal(t, 1, g.Len())
}

func TestGraph_AddNode_UniqueIDs(t *testing.T) {
	g := domain.NewGraph()
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		n := g.AddNode(domain.DefaultNodeRect)
		_, dup := seen[n.ID]
		require.False(t, dup, "duplicate id %q after %d additions", n.ID, i)
		seen[n.ID] = struct{}{}
	}
	assert.Equal(t, 10000, g.Len())
}

func TestGraph_FindNode(t *testing.T) {
	first := &domain.Node{ID: "dup", Text: "first"}
	second := &domain.Node{ID: "dup", Text: "second"}
	g := domain.NewGraph(first, second)

	n, ok := g.FindNode("dup")
	require.True(t, ok)
	assert.Same(t, first, n, "first match in insertion order wins")

	n, ok = g.FindNode("missing")
	assert.False(t, ok)
	assert.Nil(t, n)
}

func TestGraph_RemoveNode(t *testing.T) {
	a := &domain.Node{ID: "a", Choices: []domain.Choice{{Text: "to b", TargetNodeID: "b"}}}
	b := &domain.Node{ID: "b"}
	g := domain.NewGraph(a, b)

	assert.True(t, g.RemoveNode("b"))
	assert.False(t, g.RemoveNode("b"))
	assert.Equal(t, 1, g.Len())

	// The dangling reference is tolerated and simply fails to resolve.
	_, ok := g.FindNode(a.Choices[0].TargetNodeID)
	assert.False(t, ok)
}

func TestGraph_NodeAt_FirstMatch(t *testing.T) {
	a := &domain.Node{ID: "a", Rect: domain.Rect{X: 0, Y: 0, Width: 200, Height: 100}}
	b := &domain.Node{ID: "b", Rect: domain.Rect{X: 50, Y: 50, Width: 200, Height: 100}}
	g := domain.NewGraph(a, b)

	n, ok := g.NodeAt(domain.Point{X: 60, Y: 60})
	require.True(t, ok)
	assert.Equal(t, "a", n.ID)

	n, ok = g.NodeAt(domain.Point{X: 220, Y: 120})
	require.True(t, ok)
	assert.Equal(t, "b", n.ID)

	_, ok = g.NodeAt(domain.Point{X: 500, Y: 500})
	assert.False(t, ok)
}

func TestGraph_Translate_PreservesRelativePositions(t *testing.T) {
	a := &domain.Node{ID: "a", Rect: domain.Rect{X: 10, Y: 20, Width: 200, Height: 100}}
	b := &domain.Node{ID: "b", Rect: domain.Rect{X: 300, Y: -40, Width: 150, Height: 80}}
	g := domain.NewGraph(a, b)
	before := b.Rect.Position().Sub(a.Rect.Position())

	g.Translate(domain.Point{X: -35.5, Y: 12})

	assert.Equal(t, domain.Rect{X: -25.5, Y: 32, Width: 200, Height: 100}, a.Rect)
	assert.Equal(t, domain.Rect{X: 264.5, Y: -28, Width: 150, Height: 80}, b.Rect)
	assert.Equal(t, before, b.Rect.Position().Sub(a.Rect.Position()))
}

func TestGraph_CloneIsDeep(t *testing.T) {
	g := domain.NewGraph(&domain.Node{ID: "1", Choices: []domain.Choice{{Text: "x", TargetNodeID: "2"}}})
	c := g.Clone()

	c.Nodes[0].Text = "changed"
	c.Nodes[0].Choices[0].Text = "changed"

	assert.Empty(t, g.Nodes[0].Text)
	assert.Equal(t, "x", g.Nodes[0].Choices[0].Text)
}

func TestGraph_Normalize(t *testing.T) {
	g := &domain.Graph{Nodes: []*domain.Node{{ID: "1"}, nil, {ID: "2"}}}
	g.Normalize()

	require.Len(t, g.Nodes, 2)
	for _, n := range g.Nodes {
		assert.NotNil(t, n.Choices)
	}

	empty := &domain.Graph{}
	empty.Normalize()
	assert.NotNil(t, empty.Nodes)
}

package editor_test

import (
	"testing"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCanvas struct {
	calls []string
	nodes []editor.NodeView
	conns []editor.Connection
}

func (c *recordingCanvas) DrawNode(v editor.NodeView) {
	c.calls = append(c.calls, "node:"+v.Node.ID)
	c.nodes = append(c.nodes, v)
}

func (c *recordingCanvas) DrawConnection(conn editor.Connection) {
	c.calls = append(c.calls, "conn")
	c.conns = append(c.conns, conn)
}

func TestChoiceCurve_Geometry(t *testing.T) {
	source := domain.Rect{X: 10, Y: 10, Width: 200, Height: 100}
	target := domain.Rect{X: 300, Y: 40, Width: 120, Height: 60}

	c := editor.ChoiceCurve(source, 0, target)
	assert.Equal(t, domain.Point{X: 162.5, Y: 90}, c.Start)
	assert.Equal(t, domain.Point{X: 212.5, Y: 90}, c.StartTangent)
	assert.Equal(t, domain.Point{X: 250, Y: 70}, c.EndTangent)
	assert.Equal(t, domain.Point{X: 300, Y: 70}, c.End)

	// Each further row sits one row height lower.
	c2 := editor.ChoiceCurve(source, 2, target)
	assert.Equal(t, domain.Point{X: 162.5, Y: 130}, c2.Start)
	assert.Equal(t, c.End, c2.End)
}

func TestLayout_Rects(t *testing.T) {
	r := domain.Rect{X: 0, Y: 0, Width: 200, Height: 100}

	assert.Equal(t, domain.Rect{X: 190, Y: 90, Width: 10, Height: 10}, editor.ResizeHandle(r))
	assert.Equal(t, domain.Rect{X: 0, Y: 90, Width: 200, Height: 20}, editor.ChoiceRow(r, 1))
	assert.Equal(t, domain.Rect{X: 115, Y: 70, Width: 75, Height: 20}, editor.RemoveButton(r, 0))
}

func TestConnections_SkipUnsetAndDangling(t *testing.T) {
	a := box("a", 10, 10, 200, 100)
	a.Choices = []domain.Choice{
		{Text: "to b", TargetNodeID: "b"},
		{Text: "unset"},
		{Text: "dangling", TargetNodeID: "ghost"},
		{Text: "self", TargetNodeID: "a"},
	}
	b := box("b", 300, 40, 120, 60)
	s, _ := newSession(t, a, b)

	conns := s.Connections()
	require.Len(t, conns, 2)

	ha, _ := s.HandleOf(a)
	hb, _ := s.HandleOf(b)
	assert.Equal(t, ha, conns[0].From)
	assert.Equal(t, 0, conns[0].Choice)
	assert.Equal(t, hb, conns[0].To)
	assert.Equal(t, 3, conns[1].Choice)
	assert.Equal(t, ha, conns[1].To)
}

func TestConnections_DuplicateIdsResolveToFirst(t *testing.T) {
	a := box("a", 0, 0, 200, 100)
	a.Choices = []domain.Choice{{Text: "go", TargetNodeID: "dup"}}
	first := box("dup", 300, 0, 200, 100)
	second := box("dup", 600, 0, 200, 100)
	s, _ := newSession(t, a, first, second)

	conns := s.Connections()
	require.Len(t, conns, 1)
	h, _ := s.HandleOf(first)
	assert.Equal(t, h, conns[0].To)
}

func TestDraw_NodesBeforeConnections(t *testing.T) {
	a := box("a", 10, 10, 200, 100)
	a.Choices = []domain.Choice{{Text: "go", TargetNodeID: "b"}}
	b := box("b", 300, 40, 120, 60)
	s, _ := newSession(t, a, b)

	var c recordingCanvas
	s.Draw(&c)

	assert.Equal(t, []string{"node:a", "node:b", "conn"}, c.calls)
	assert.Equal(t, editor.ResizeHandle(a.Rect), c.nodes[0].ResizeHandle)
}

func TestViews_FlagFocusAndActive(t *testing.T) {
	a := box("a", 10, 10, 200, 100)
	b := box("b", 300, 10, 200, 100)
	s, _ := newSession(t, a, b)

	s.HandlePointer(editor.Down(editor.ButtonPrimary, 20, 20))
	views := s.Views()
	require.Len(t, views, 2)
	assert.True(t, views[0].Focused)
	assert.True(t, views[0].Active)
	assert.False(t, views[1].Focused)

	s.HandlePointer(editor.Up(editor.ButtonPrimary, 20, 20))
	views = s.Views()
	assert.True(t, views[0].Focused)
	assert.False(t, views[0].Active)
}

func TestViews_AreSnapshots(t *testing.T) {
	a := box("a", 10, 10, 200, 100)
	s, _ := newSession(t, a)

	v := s.Views()[0]
	v.Node.Text = "changed"
	assert.Empty(t, a.Text)
}

package editor

import "github.com/aretw0/parley/pkg/domain"

// NodeView is everything a host needs to draw one node window.
type NodeView struct {
	Handle       Handle
	Node         domain.Node
	ResizeHandle domain.Rect
	Focused      bool
	// Active is set while the node is being dragged or resized.
	Active bool
}

// Connection is a drawn link from a choice row to the node it targets.
type Connection struct {
	From   Handle
	Choice int
	To     Handle
	Curve  domain.Bezier
}

// Canvas is the host's drawing surface.
type Canvas interface {
	DrawNode(view NodeView)
	DrawConnection(conn Connection)
}

// Views returns one NodeView per node in graph order.
func (s *Session) Views() []NodeView {
	views := make([]NodeView, 0, len(s.graph.Nodes))
	for _, n := range s.graph.Nodes {
		h := s.handleOf(n)
		views = append(views, NodeView{
			Handle:       h,
			Node:         *n,
			ResizeHandle: ResizeHandle(n.Rect),
			Focused:      h == s.focus,
			Active:       n == s.selected || n == s.resizing,
		})
	}
	return views
}

// Connections returns a curve for every choice whose target resolves.
// Unset and dangling targets are skipped.
func (s *Session) Connections() []Connection {
	var conns []Connection
	for _, n := range s.graph.Nodes {
		for i, c := range n.Choices {
			if !c.HasTarget() {
				continue
			}
			target, ok := s.graph.FindNode(c.TargetNodeID)
			if !ok {
				continue
			}
			conns = append(conns, Connection{
				From:   s.handleOf(n),
				Choice: i,
				To:     s.handleOf(target),
				Curve:  ChoiceCurve(n.Rect, i, target.Rect),
			})
		}
	}
	return conns
}

// Draw emits every node, then every connection, onto c.
func (s *Session) Draw(c Canvas) {
	for _, v := range s.Views() {
		c.DrawNode(v)
	}
	for _, conn := range s.Connections() {
		c.DrawConnection(conn)
	}
}

package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/domain"
)

// ErrUnknownHandle is returned when a handle does not name a node of the session.
var ErrUnknownHandle = errors.New("unknown node handle")

// Handle is a stable identity for a node within one Session. Handles are
// never reused and do not depend on the node's position in the graph.
// The zero Handle names no node.
type Handle uint64

// Session is one open editor over a graph.
type Session struct {
	graph   *domain.Graph
	handles map[*domain.Node]Handle
	next    Handle

	// focus is the last node clicked; it outlives pointer-up so keyboard
	// commands have a target.
	focus Handle

	// Pointer interaction state, cleared on pointer-up.
	selected *domain.Node
	offset   domain.Point
	resizing *domain.Node
	panning  bool
	panStart domain.Point
	panned   domain.Point

	repaint func()
	logger  *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithRepaint registers the callback the session calls after every change
// that needs a redraw.
func WithRepaint(fn func()) Option {
	return func(s *Session) {
		s.repaint = fn
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession opens an editor over graph. A nil graph starts empty.
func NewSession(graph *domain.Graph, opts ...Option) *Session {
	s := &Session{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Replace(graph)
	return s
}

// Replace swaps the edited graph wholesale, dropping interaction state and
// issuing fresh handles.
func (s *Session) Replace(graph *domain.Graph) {
	if graph == nil {
		graph = domain.NewGraph()
	}
	graph.Normalize()

	s.graph = graph
	s.handles = make(map[*domain.Node]Handle, len(graph.Nodes))
	for _, n := range graph.Nodes {
		s.handleOf(n)
	}
	s.focus = 0
	s.Reset()
	s.requestRepaint()
}

// Graph returns the edited graph. Callers must not retain node pointers across
// a Replace.
func (s *Session) Graph() *domain.Graph {
	return s.graph
}

// Mode reports the current interaction state.
func (s *Session) Mode() Mode {
	switch {
	case s.resizing != nil:
		return ModeResizingNode
	case s.selected != nil:
		return ModeDraggingNode
	case s.panning:
		return ModePanningCanvas
	default:
		return ModeIdle
	}
}

// Reset drops any in-flight drag, resize or pan. Hosts call it when they lose
// pointer capture (e.g. focus loss) and will not deliver the matching up event.
func (s *Session) Reset() {
	s.selected = nil
	s.offset = domain.Point{}
	s.resizing = nil
	s.panning = false
	s.panStart = domain.Point{}
}

// PanOffset returns the total canvas translation applied by panning.
func (s *Session) PanOffset() domain.Point {
	return s.panned
}

// handleOf returns the node's handle, issuing one on first sight.
func (s *Session) handleOf(n *domain.Node) Handle {
	if h, ok := s.handles[n]; ok {
		return h
	}
	s.next++
	s.handles[n] = s.next
	return s.next
}

// HandleOf returns the handle of a node in the edited graph.
func (s *Session) HandleOf(n *domain.Node) (Handle, bool) {
	h, ok := s.handles[n]
	return h, ok
}

// Lookup resolves a handle to its node.
func (s *Session) Lookup(h Handle) (*domain.Node, bool) {
	if h == 0 {
		return nil, false
	}
	for n, nh := range s.handles {
		if nh == h {
			return n, true
		}
	}
	return nil, false
}

func (s *Session) mustLookup(h Handle) (*domain.Node, error) {
	n, ok := s.Lookup(h)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	return n, nil
}

// Handles lists node handles in graph order.
func (s *Session) Handles() []Handle {
	out := make([]Handle, 0, len(s.graph.Nodes))
	for _, n := range s.graph.Nodes {
		out = append(out, s.handleOf(n))
	}
	return out
}

// NodeAt hit-tests p against node rectangles, first match in graph order.
func (s *Session) NodeAt(p domain.Point) (Handle, bool) {
	n, ok := s.graph.NodeAt(p)
	if !ok {
		return 0, false
	}
	return s.handleOf(n), true
}

// Focused returns the last node clicked, if it still exists.
func (s *Session) Focused() (Handle, bool) {
	if _, ok := s.Lookup(s.focus); !ok {
		return 0, false
	}
	return s.focus, true
}

// Focus sets the focused node; the zero handle clears focus.
func (s *Session) Focus(h Handle) error {
	if h != 0 {
		if _, err := s.mustLookup(h); err != nil {
			return err
		}
	}
	s.focus = h
	s.requestRepaint()
	return nil
}

// AddNode appends a node with a fresh id at the default position.
func (s *Session) AddNode() Handle {
	n := s.graph.AddNode(domain.DefaultNodeRect)
	h := s.handleOf(n)
	s.logger.Debug("node added", "handle", h, "node_id", n.ID)
	s.requestRepaint()
	return h
}

// RemoveNode deletes a node. Choices pointing at it are left dangling.
func (s *Session) RemoveNode(h Handle) error {
	n, err := s.mustLookup(h)
	if err != nil {
		return err
	}
	s.graph.Remove(n)
	delete(s.handles, n)
	if s.selected == n {
		s.selected = nil
	}
	if s.resizing == n {
		s.resizing = nil
	}
	if s.focus == h {
		s.focus = 0
	}
	s.logger.Debug("node removed", "handle", h, "node_id", n.ID)
	s.requestRepaint()
	return nil
}

// SetText replaces a node's text.
func (s *Session) SetText(h Handle, text string) error {
	n, err := s.mustLookup(h)
	if err != nil {
		return err
	}
	n.Text = text
	s.requestRepaint()
	return nil
}

// SetID renames a node. References to the old id are not rewritten.
func (s *Session) SetID(h Handle, id string) error {
	n, err := s.mustLookup(h)
	if err != nil {
		return err
	}
	n.ID = id
	s.requestRepaint()
	return nil
}

// SetNextID sets the node followed when the node has no choices.
func (s *Session) SetNextID(h Handle, id string) error {
	n, err := s.mustLookup(h)
	if err != nil {
		return err
	}
	n.NextID = id
	s.requestRepaint()
	return nil
}

// AddChoice appends a placeholder choice to a node and returns its index.
func (s *Session) AddChoice(h Handle) (int, error) {
	n, err := s.mustLookup(h)
	if err != nil {
		return 0, err
	}
	n.AddChoice()
	s.requestRepaint()
	return len(n.Choices) - 1, nil
}

// RemoveChoice removes choice i from a node.
func (s *Session) RemoveChoice(h Handle, i int) error {
	n, err := s.mustLookup(h)
	if err != nil {
		return err
	}
	if err := n.RemoveChoice(i); err != nil {
		return err
	}
	s.requestRepaint()
	return nil
}

// SetChoice replaces the label and target of choice i.
func (s *Session) SetChoice(h Handle, i int, text, targetID string) error {
	n, err := s.mustLookup(h)
	if err != nil {
		return err
	}
	if _, err := n.Choice(i); err != nil {
		return err
	}
	n.Choices[i] = domain.Choice{Text: text, TargetNodeID: targetID}
	s.requestRepaint()
	return nil
}

func (s *Session) requestRepaint() {
	if s.repaint != nil {
		s.repaint()
	}
}

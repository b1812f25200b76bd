package domain

import "github.com/google/uuid"

// DefaultNodeRect is where the editor places a freshly added node.
var DefaultNodeRect = Rect{X: 10, Y: 10, Width: 200, Height: 100}

// Graph is the ordered collection of nodes forming a dialogue.
// Order is insertion order. Node IDs should be unique, but this is not
// enforced: lookups resolve to the first match.
type Graph struct {
	Nodes []*Node `json:"nodes" yaml:"nodes"`
}

// NewGraph returns an empty graph.
func NewGraph(nodes ...*Node) *Graph {
	g := &Graph{Nodes: make([]*Node, 0, len(nodes))}
	g.Nodes = append(g.Nodes, nodes...)
	return g
}

// AddNode appends a node with a freshly generated id, the default text and
// the given rectangle.
func (g *Graph) AddNode(rect Rect) *Node {
	n := &Node{
		ID:      uuid.NewString(),
		Text:    DefaultNodeText,
		Choices: []Choice{},
		Rect:    rect,
	}
	g.Nodes = append(g.Nodes, n)
	return n
}

// FindNode returns the first node whose id equals id.
func (g *Graph) FindNode(id string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// RemoveNode deletes the first node with the given id.
// Choices elsewhere that target it are left dangling.
func (g *Graph) RemoveNode(id string) bool {
	for i, n := range g.Nodes {
		if n.ID == id {
			g.Nodes = append(g.Nodes[:i], g.Nodes[i+1:]...)
			return true
		}
	}
	return false
}

// Remove deletes the given node by identity rather than id.
func (g *Graph) Remove(node *Node) bool {
	for i, n := range g.Nodes {
		if n == node {
			g.Nodes = append(g.Nodes[:i], g.Nodes[i+1:]...)
			return true
		}
	}
	return false
}

// NodeAt returns the first node, in order, whose rectangle contains p.
func (g *Graph) NodeAt(p Point) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.Rect.Contains(p) {
			return n, true
		}
	}
	return nil, false
}

// Translate shifts every node by d.
func (g *Graph) Translate(d Point) {
	for _, n := range g.Nodes {
		n.Rect = n.Rect.Translate(d)
	}
}

// Normalize replaces nil slices with empty ones and drops nil nodes so that
// the graph encodes the same way regardless of how it was built.
func (g *Graph) Normalize() {
	if g.Nodes == nil {
		g.Nodes = []*Node{}
	}
	kept := g.Nodes[:0]
	for _, n := range g.Nodes {
		if n == nil {
			continue
		}
		if n.Choices == nil {
			n.Choices = []Choice{}
		}
		kept = append(kept, n)
	}
	g.Nodes = kept
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{Nodes: make([]*Node, 0, len(g.Nodes))}
	for _, n := range g.Nodes {
		if n == nil {
			continue
		}
		c.Nodes = append(c.Nodes, n.Clone())
	}
	return c
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.Nodes)
}

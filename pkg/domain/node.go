package domain

import (
	"fmt"
	"math"
)

const (
	// MinNodeWidth is the smallest width a resize can produce.
	MinNodeWidth = 100
	// MinNodeHeight is the smallest height a resize can produce.
	MinNodeHeight = 50

	// DefaultNodeText is the text of a freshly added node.
	DefaultNodeText = "New Node"
	// DefaultChoiceText is the label of a freshly added choice.
	DefaultChoiceText = "New Choice"
)

// Choice is a labeled branch from its owning Node to another Node.
// An empty TargetNodeID means the target is unset.
type Choice struct {
	Text         string `json:"text" yaml:"text"`
	TargetNodeID string `json:"targetNodeId" yaml:"targetNodeId"`
}

// HasTarget reports whether the choice points somewhere.
func (c Choice) HasTarget() bool {
	return c.TargetNodeID != ""
}

// Node is a unit of dialogue content.
// NextID is followed when the node has no choices.
type Node struct {
	ID      string   `json:"id" yaml:"id"`
	Text    string   `json:"text" yaml:"text"`
	NextID  string   `json:"nextId" yaml:"nextId"`
	Choices []Choice `json:"choices" yaml:"choices"`
	Rect    Rect     `json:"rect" yaml:"rect"`
}

// AddChoice appends a placeholder choice with no target and returns it.
// The pointer is valid until the next change to the choice list.
func (n *Node) AddChoice() *Choice {
	n.Choices = append(n.Choices, Choice{Text: DefaultChoiceText})
	return &n.Choices[len(n.Choices)-1]
}

// RemoveChoice removes the choice at index, keeping the order of the rest.
func (n *Node) RemoveChoice(index int) error {
	if index < 0 || index >= len(n.Choices) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrChoiceOutOfRange, index, len(n.Choices))
	}
	n.Choices = append(n.Choices[:index], n.Choices[index+1:]...)
	return nil
}

// Choice returns the choice at index.
func (n *Node) Choice(index int) (Choice, error) {
	if index < 0 || index >= len(n.Choices) {
		return Choice{}, fmt.Errorf("%w: %d not in [0, %d)", ErrChoiceOutOfRange, index, len(n.Choices))
	}
	return n.Choices[index], nil
}

// Resize sets the node's size so that its bottom-right corner follows p.
// The top-left corner never moves and the size never drops below
// MinNodeWidth x MinNodeHeight.
func (n *Node) Resize(p Point) {
	n.Rect.Width = math.Max(MinNodeWidth, p.X-n.Rect.X)
	n.Rect.Height = math.Max(MinNodeHeight, p.Y-n.Rect.Y)
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := *n
	c.Choices = make([]Choice, len(n.Choices))
	copy(c.Choices, n.Choices)
	return &c
}

package player

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/domain"
)

// DefaultContinueHint is appended to every displayed node text.
const DefaultContinueHint = "(click to continue)"

// DefaultStartNode is where playback begins when the host names no node.
const DefaultStartNode = "1"

// Engine plays one dialogue. It is not safe for concurrent use.
type Engine struct {
	graph     *domain.Graph
	presenter Presenter
	current   *domain.Node
	state     *domain.PlaybackState

	hint   string
	hooks  domain.PlaybackHooks
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHooks registers observability hooks. Repeated calls chain.
func WithHooks(hooks domain.PlaybackHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithContinueHint replaces the hint appended to displayed text.
func WithContinueHint(hint string) EngineOption {
	return func(e *Engine) {
		e.hint = hint
	}
}

// New creates an idle engine over a copy of graph. A nil presenter discards
// output; hosts can still read View.
func New(graph *domain.Graph, presenter Presenter, opts ...EngineOption) *Engine {
	if graph == nil {
		graph = domain.NewGraph()
	}
	if presenter == nil {
		presenter = discard{}
	}
	e := &Engine{
		graph:     graph.Clone(),
		presenter: presenter,
		state:     domain.NewPlaybackState(),
		hint:      DefaultContinueHint,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start jumps to the node with the given id and displays it.
// If no such node exists playback ends and the returned error wraps
// domain.ErrNodeNotFound.
func (e *Engine) Start(id string) error {
	e.state.History = append(e.state.History, id)
	e.state.CurrentNodeID = id
	e.state.AwaitingChoice = false

	node, ok := e.graph.FindNode(id)
	if !ok {
		e.current = nil
		e.state.Status = domain.StatusEnded
		e.presenter.ClearChoices()
		e.logger.Info("playback ended", "node_id", id)
		if e.hooks.OnEnd != nil {
			e.hooks.OnEnd(&domain.NodeEvent{EventBase: e.event(domain.EventEnd), NodeID: id})
		}
		return fmt.Errorf("start %q: %w", id, domain.ErrNodeNotFound)
	}

	e.current = node
	e.state.Status = domain.StatusDisplaying
	e.logger.Debug("node entered", "node_id", id)
	if e.hooks.OnNodeEnter != nil {
		e.hooks.OnNodeEnter(&domain.NodeEvent{EventBase: e.event(domain.EventNodeEnter), NodeID: id})
	}
	e.Display()
	return nil
}

// Display presents the current node's text and clears any presented choices.
func (e *Engine) Display() {
	if e.current == nil {
		return
	}
	e.presenter.ShowText(e.text())
	e.presenter.ClearChoices()
}

// OnContinue handles a click on the dialogue text. A node without choices
// follows its next id, or stalls if it has none. A node with choices gets
// them presented.
func (e *Engine) OnContinue() error {
	switch e.state.Status {
	case domain.StatusIdle:
		return ErrNotStarted
	case domain.StatusEnded:
		return nil
	}

	n := e.current
	if len(n.Choices) == 0 {
		if n.NextID == "" {
			e.logger.Debug("playback stalled", "node_id", n.ID)
			return nil
		}
		return e.Start(n.NextID)
	}

	e.state.AwaitingChoice = true
	e.presenter.ShowChoices(e.options())
	return nil
}

// OnChoose follows choice index of the current node. An index outside the
// node's choices returns an error wrapping domain.ErrChoiceOutOfRange and
// leaves the engine untouched.
func (e *Engine) OnChoose(index int) error {
	switch e.state.Status {
	case domain.StatusIdle:
		return ErrNotStarted
	case domain.StatusEnded:
		return domain.ErrPlaybackEnded
	}

	c, err := e.current.Choice(index)
	if err != nil {
		return fmt.Errorf("choose on %q: %w", e.current.ID, err)
	}

	e.logger.Debug("choice made", "node_id", e.current.ID, "index", index, "target", c.TargetNodeID)
	if e.hooks.OnChoose != nil {
		e.hooks.OnChoose(&domain.ChoiceEvent{
			EventBase: e.event(domain.EventChoose),
			NodeID:    e.current.ID,
			Index:     index,
			Label:     c.Text,
			TargetID:  c.TargetNodeID,
		})
	}
	return e.Start(c.TargetNodeID)
}

// Status reports where playback stands.
func (e *Engine) Status() domain.PlaybackStatus {
	return e.state.Status
}

// Current returns the displayed node.
func (e *Engine) Current() (*domain.Node, bool) {
	return e.current, e.current != nil
}

// Snapshot returns a copy of the playback state.
func (e *Engine) Snapshot() *domain.PlaybackState {
	return e.state.Snapshot()
}

// Restore resumes from a snapshot and presents it again. If the snapshot's
// current node no longer exists, playback is ended and the returned error
// wraps domain.ErrNodeNotFound.
func (e *Engine) Restore(state *domain.PlaybackState) error {
	if state == nil {
		return errors.New("restore playback: nil state")
	}
	e.state = state.Snapshot()
	if e.state.History == nil {
		e.state.History = []string{}
	}
	e.current = nil

	switch e.state.Status {
	case domain.StatusDisplaying:
		node, ok := e.graph.FindNode(e.state.CurrentNodeID)
		if !ok {
			e.state.Status = domain.StatusEnded
			e.state.AwaitingChoice = false
			e.presenter.ClearChoices()
			return fmt.Errorf("restore %q: %w", e.state.CurrentNodeID, domain.ErrNodeNotFound)
		}
		e.current = node
		e.Display()
		if e.state.AwaitingChoice {
			e.presenter.ShowChoices(e.options())
		}
	case domain.StatusIdle, domain.StatusEnded:
		e.state.AwaitingChoice = false
	default:
		return fmt.Errorf("restore playback: unknown status %q", e.state.Status)
	}
	return nil
}

// View describes what the reader currently sees.
type View struct {
	SessionID string                `json:"session_id,omitempty"`
	NodeID    string                `json:"node_id"`
	Status    domain.PlaybackStatus `json:"status"`
	Text      string                `json:"text"`
	Choices   []Option              `json:"choices"`
	History   []string              `json:"history"`
}

// View returns the engine's current output without touching the presenter.
func (e *Engine) View() View {
	v := View{
		NodeID:  e.state.CurrentNodeID,
		Status:  e.state.Status,
		Choices: []Option{},
		History: append([]string{}, e.state.History...),
	}
	if e.current != nil {
		v.Text = e.text()
		if e.state.AwaitingChoice {
			v.Choices = e.options()
		}
	}
	return v
}

func (e *Engine) text() string {
	if e.hint == "" {
		return e.current.Text
	}
	return e.current.Text + "\n\n" + e.hint
}

func (e *Engine) options() []Option {
	opts := make([]Option, len(e.current.Choices))
	for i, c := range e.current.Choices {
		opts[i] = Option{Index: i, Label: c.Text}
	}
	return opts
}

func (e *Engine) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t}
}

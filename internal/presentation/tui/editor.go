package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/editor"
	"github.com/aretw0/parley/pkg/ports"
)

var (
	colorCyan = lipgloss.Color("36")
	colorDim  = lipgloss.Color("240")
	colorRed  = lipgloss.Color("167")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	helpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	promptStyle = lipgloss.NewStyle().Bold(true)
)

// chromeRows is the number of terminal rows above the canvas.
const chromeRows = 1

// field is the node property being edited from the prompt line.
type field int

const (
	fieldNone field = iota
	fieldText
	fieldID
	fieldNext
	fieldChoiceText
	fieldChoiceTarget
)

func (f field) String() string {
	switch f {
	case fieldText:
		return "text"
	case fieldID:
		return "id"
	case fieldNext:
		return "next"
	case fieldChoiceText:
		return "choice label"
	case fieldChoiceTarget:
		return "choice target"
	default:
		return ""
	}
}

// PathDialog answers the editor's file prompts with a fixed path.
type PathDialog struct {
	Path string
}

func (d PathDialog) SavePath(suggested string) (string, bool) {
	if d.Path == "" {
		return suggested, suggested != ""
	}
	return d.Path, true
}

func (d PathDialog) OpenPath() (string, bool) {
	return d.Path, d.Path != ""
}

// status is shared by every copy of the Model. revision counts repaints;
// saved is the revision last written or loaded.
type status struct {
	revision int
	saved    int
}

// Model is the bubbletea host of an editor session: it forwards mouse
// gestures as pointer events, maps keys to node commands and draws the
// session onto a Grid.
type Model struct {
	workbench *editor.Workbench
	session   *editor.Session
	status    *status
	logger    *slog.Logger

	width, height int

	// pressed is the button of the gesture in progress; terminals do not
	// always report it on release.
	pressed editor.Button
	down    bool

	editing field
	input   string
	message string
	failed  bool
}

// Option configures the Model.
type Option func(*Model)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewModel opens an editor over graph that saves and loads path through store.
func NewModel(store ports.GraphStore, path string, graph *domain.Graph, opts ...Option) Model {
	m := Model{
		status: &status{},
		logger: logging.NewNop(),
		width:  80,
		height: 24,
	}
	for _, opt := range opts {
		opt(&m)
	}

	st := m.status
	m.workbench = editor.NewWorkbench(store, PathDialog{Path: path},
		editor.WithGraph(graph),
		editor.WithWorkbenchLogger(m.logger),
		editor.WithSessionOptions(editor.WithRepaint(func() { st.revision++ })),
	)
	m.session = m.workbench.Open()
	st.saved = st.revision
	return m
}

// Graph returns the graph being edited.
func (m Model) Graph() *domain.Graph {
	return m.workbench.Graph()
}

// Modified reports whether the graph changed since it was last saved or loaded.
func (m Model) Modified() bool {
	return m.status.revision != m.status.saved
}

func (m Model) Init() tea.Cmd {
	return nil
}

// fileMsg carries the result of store I/O back to the event loop. graph is
// set by a load; revision is the revision a save wrote.
type fileMsg struct {
	op       string
	path     string
	graph    *domain.Graph
	revision int
	err      error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.MouseMsg:
		m = m.mouse(msg)
	case tea.KeyMsg:
		if m.editing != fieldNone {
			return m.editKey(msg), nil
		}
		return m.key(msg)
	case fileMsg:
		if msg.err != nil {
			m.message, m.failed = fmt.Sprintf("%s failed: %v", msg.op, msg.err), true
			break
		}
		if msg.graph != nil {
			m.workbench.Apply(msg.graph)
			m.down = false
			msg.revision = m.status.revision
		}
		m.status.saved = msg.revision
		m.message, m.failed = fmt.Sprintf("%s %s (%d nodes)", msg.op, msg.path, m.Graph().Len()), false
	}
	return m, nil
}

func (m Model) mouse(msg tea.MouseMsg) Model {
	cell := Cell{Col: msg.X, Row: msg.Y - chromeRows}
	pos := cell.Center()

	switch msg.Action {
	case tea.MouseActionPress:
		b, ok := buttonOf(msg.Button)
		if !ok || m.down {
			return m
		}
		if p, ok := m.grid().HandleAt(cell); ok {
			pos = p
		}
		m.pressed, m.down = b, true
		m.session.HandlePointer(editor.PointerEvent{Kind: editor.PointerDown, Button: b, Pos: pos})
	case tea.MouseActionMotion:
		if m.down {
			m.session.HandlePointer(editor.PointerEvent{Kind: editor.PointerDrag, Button: m.pressed, Pos: pos})
		}
	case tea.MouseActionRelease:
		if m.down {
			m.down = false
			m.session.HandlePointer(editor.PointerEvent{Kind: editor.PointerUp, Button: m.pressed, Pos: pos})
		}
	}
	return m
}

func buttonOf(b tea.MouseButton) (editor.Button, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return editor.ButtonPrimary, true
	case tea.MouseButtonRight:
		return editor.ButtonSecondary, true
	case tea.MouseButtonMiddle:
		return editor.ButtonMiddle, true
	default:
		return 0, false
	}
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message, m.failed = "", false

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "ctrl+s":
		return m, m.save()
	case "ctrl+o":
		return m, m.load()
	case "esc":
		m.session.Reset()
		m.down = false
		return m, nil
	case "n":
		h := m.session.AddNode()
		m.report(m.session.Focus(h))
		return m, nil
	}

	h, ok := m.session.Focused()
	if !ok {
		return m, nil
	}
	n, _ := m.session.Lookup(h)

	switch msg.String() {
	case "x", "delete":
		m.report(m.session.RemoveNode(h))
	case "c":
		_, err := m.session.AddChoice(h)
		m.report(err)
	case "d":
		if len(n.Choices) > 0 {
			m.report(m.session.RemoveChoice(h, len(n.Choices)-1))
		}
	case "e":
		m = m.startEdit(fieldText, n.Text)
	case "i":
		m = m.startEdit(fieldID, n.ID)
	case ">":
		m = m.startEdit(fieldNext, n.NextID)
	case "l", "t":
		if len(n.Choices) == 0 {
			m.message, m.failed = "node has no choices", true
			break
		}
		last := n.Choices[len(n.Choices)-1]
		if msg.String() == "l" {
			m = m.startEdit(fieldChoiceText, last.Text)
		} else {
			m = m.startEdit(fieldChoiceTarget, last.TargetNodeID)
		}
	}
	return m, nil
}

func (m Model) startEdit(f field, value string) Model {
	m.editing, m.input = f, value
	return m
}

func (m Model) editKey(msg tea.KeyMsg) Model {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing, m.input = fieldNone, ""
	case tea.KeyEnter:
		m.report(m.commit())
		m.editing, m.input = fieldNone, ""
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m
}

// commit writes the prompt line into the focused node.
func (m Model) commit() error {
	h, ok := m.session.Focused()
	if !ok {
		return errors.New("no node focused")
	}
	n, err := m.lookup(h)
	if err != nil {
		return err
	}

	switch m.editing {
	case fieldText:
		return m.session.SetText(h, m.input)
	case fieldID:
		return m.session.SetID(h, strings.TrimSpace(m.input))
	case fieldNext:
		return m.session.SetNextID(h, strings.TrimSpace(m.input))
	case fieldChoiceText, fieldChoiceTarget:
		i := len(n.Choices) - 1
		c, err := n.Choice(i)
		if err != nil {
			return err
		}
		if m.editing == fieldChoiceText {
			c.Text = m.input
		} else {
			c.TargetNodeID = strings.TrimSpace(m.input)
		}
		return m.session.SetChoice(h, i, c.Text, c.TargetNodeID)
	}
	return nil
}

func (m Model) lookup(h editor.Handle) (*domain.Node, error) {
	n, ok := m.session.Lookup(h)
	if !ok {
		return nil, editor.ErrUnknownHandle
	}
	return n, nil
}

// report shows err on the status line.
func (m *Model) report(err error) {
	if err != nil {
		m.message, m.failed = err.Error(), true
		m.logger.Warn("editor command failed", "err", err)
	}
}

// save writes a clone of the graph from a command goroutine. The session is
// only touched on the event loop.
func (m Model) save() tea.Cmd {
	wb, snapshot, rev := m.workbench, m.Graph().Clone(), m.status.revision
	return func() tea.Msg {
		path, err := wb.SaveGraph(context.Background(), snapshot)
		return fileMsg{op: "saved", path: path, revision: rev, err: fileErr(err)}
	}
}

// load reads the graph from a command goroutine; Update applies it.
func (m Model) load() tea.Cmd {
	wb := m.workbench
	return func() tea.Msg {
		path, g, err := wb.Fetch(context.Background())
		return fileMsg{op: "loaded", path: path, graph: g, err: fileErr(err)}
	}
}

func fileErr(err error) error {
	if errors.Is(err, domain.ErrNoPathSelected) {
		return errors.New("no file path configured")
	}
	return err
}

// grid draws the session onto a canvas the size of the terminal body.
func (m Model) grid() *Grid {
	g := NewGrid(m.width, m.height-chromeRows-2)
	m.session.Draw(g)
	return g
}

func (m Model) View() string {
	var b strings.Builder

	title := "parley editor"
	if m.Modified() {
		title += " ●"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString(helpStyle.Render(fmt.Sprintf("  %d nodes  mode: %s", m.Graph().Len(), m.session.Mode())))
	b.WriteString("\n")

	b.WriteString(m.grid().String())
	b.WriteString("\n")

	switch {
	case m.editing != fieldNone:
		b.WriteString(promptStyle.Render(m.editing.String()+": ") + m.input + "▏")
	case m.failed:
		b.WriteString(errorStyle.Render(m.message))
	case m.message != "":
		b.WriteString(helpStyle.Render(m.message))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("n node  x delete  c/d choice  e text  i id  > next  l/t label/target  ctrl+s save  ctrl+o open  q quit"))
	return b.String()
}

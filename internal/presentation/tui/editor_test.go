package tui_test

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/parley/internal/presentation/tui"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/domain"
)

func send(t *testing.T, m tui.Model, msg tea.Msg) (tui.Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(tui.Model)
	require.True(t, ok)
	return model, cmd
}

func keys(t *testing.T, m tui.Model, s string) tui.Model {
	t.Helper()
	for _, r := range s {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func mouse(t *testing.T, m tui.Model, action tea.MouseAction, x, y int) tui.Model {
	t.Helper()
	m, _ = send(t, m, tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
	return m
}

func TestModel_AddDragResize(t *testing.T) {
	m := tui.NewModel(memory.NewGraphStore(), "dialogue.json", nil)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m = keys(t, m, "n")
	require.Equal(t, 1, m.Graph().Len())
	assert.True(t, m.Modified())
	n := m.Graph().Nodes[0]
	assert.Equal(t, domain.DefaultNodeRect, n.Rect)

	// Screen row 2 is canvas row 1; cell centers are (55, 30) and (155, 70).
	m = mouse(t, m, tea.MouseActionPress, 5, 2)
	m = mouse(t, m, tea.MouseActionMotion, 15, 4)
	m = mouse(t, m, tea.MouseActionRelease, 15, 4)
	assert.Equal(t, domain.Point{X: 110, Y: 50}, n.Rect.Position())

	// The bottom-right corner cell is the resize handle.
	m = mouse(t, m, tea.MouseActionPress, 30, 8)
	m = mouse(t, m, tea.MouseActionMotion, 40, 10)
	_ = mouse(t, m, tea.MouseActionRelease, 40, 10)
	assert.Equal(t, 295.0, n.Rect.Width)
	assert.Equal(t, 140.0, n.Rect.Height)
	assert.Equal(t, domain.Point{X: 110, Y: 50}, n.Rect.Position())
}

func TestModel_EditFields(t *testing.T) {
	g := domain.NewGraph(&domain.Node{ID: "1", Text: "Hi", Rect: domain.DefaultNodeRect})
	m := tui.NewModel(memory.NewGraphStore(), "", g)

	// Commands need a focused node.
	m = keys(t, m, "e")
	assert.NotContains(t, m.View(), "text: ")

	m = mouse(t, m, tea.MouseActionPress, 5, 2)
	m = mouse(t, m, tea.MouseActionRelease, 5, 2)

	m = keys(t, m, "e")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = keys(t, m, "ey")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Hey", g.Nodes[0].Text)

	m = keys(t, m, "ct")
	m = keys(t, m, "2")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, g.Nodes[0].Choices, 1)
	assert.Equal(t, domain.Choice{Text: domain.DefaultChoiceText, TargetNodeID: "2"}, g.Nodes[0].Choices[0])

	// Escape abandons an edit.
	m = keys(t, m, ">")
	m = keys(t, m, "zzz")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, g.Nodes[0].NextID)

	m = keys(t, m, "d")
	assert.Empty(t, g.Nodes[0].Choices)

	_ = keys(t, m, "x")
	assert.Zero(t, g.Len())
}

func TestModel_SaveAndLoad(t *testing.T) {
	store := memory.NewGraphStore()
	ctx := context.Background()
	m := tui.NewModel(store, "dialogue.json", nil)
	m = keys(t, m, "n")

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	m, _ = send(t, m, cmd())
	assert.False(t, m.Modified())
	assert.Contains(t, m.View(), "saved dialogue.json (1 nodes)")

	saved, err := store.Load(ctx, "dialogue.json")
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Len())

	require.NoError(t, store.Save(ctx, "dialogue.json", domain.NewGraph(
		&domain.Node{ID: "a"}, &domain.Node{ID: "b"},
	)))
	m, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	m, _ = send(t, m, cmd())
	assert.Equal(t, 2, m.Graph().Len())
}

func TestModel_FileCommandsLeaveSessionToEventLoop(t *testing.T) {
	ctx := context.Background()
	store := memory.NewGraphStore()
	var nodes []*domain.Node
	for i := 0; i < 50; i++ {
		nodes = append(nodes, &domain.Node{ID: fmt.Sprint(i), Rect: domain.DefaultNodeRect.Translate(domain.Point{X: float64(i * 20)})})
	}
	require.NoError(t, store.Save(ctx, "dialogue.json", domain.NewGraph(nodes...)))

	m := tui.NewModel(store, "dialogue.json", domain.NewGraph(&domain.Node{ID: "local", Rect: domain.DefaultNodeRect}))
	for _, k := range []tea.KeyType{tea.KeyCtrlO, tea.KeyCtrlS} {
		var cmd tea.Cmd
		m, cmd = send(t, m, tea.KeyMsg{Type: k})
		require.NotNil(t, cmd)

		done := make(chan tea.Msg)
		go func() { done <- cmd() }()

		var msg tea.Msg
		for msg == nil {
			_ = m.View()
			m = keys(t, m, "n")
			select {
			case msg = <-done:
			default:
			}
		}
		m, _ = send(t, m, msg)
		assert.NotContains(t, m.View(), "failed")
	}
	assert.GreaterOrEqual(t, m.Graph().Len(), 50)
}

func TestModel_EditDuringSaveStaysModified(t *testing.T) {
	m := tui.NewModel(memory.NewGraphStore(), "dialogue.json", nil)
	m = keys(t, m, "n")

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = keys(t, m, "n")
	m, _ = send(t, m, cmd())
	assert.True(t, m.Modified())
	assert.Contains(t, m.View(), "saved dialogue.json")
}

func TestModel_SaveWithoutPathSuggestsDefault(t *testing.T) {
	store := memory.NewGraphStore()
	m := tui.NewModel(store, "", nil)

	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	m, _ = send(t, m, cmd())
	assert.Contains(t, m.View(), "loaded failed: no file path configured")

	_, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	_, _ = send(t, m, cmd())
	_, err := store.Load(context.Background(), "dialogue.json")
	assert.NoError(t, err)
}

func TestModel_Quit(t *testing.T) {
	m := tui.NewModel(memory.NewGraphStore(), "", nil)

	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_View(t *testing.T) {
	g := domain.NewGraph(&domain.Node{ID: "greeting", Text: "Hello", Rect: domain.DefaultNodeRect})
	m := tui.NewModel(memory.NewGraphStore(), "", g)

	v := m.View()
	assert.Contains(t, v, "parley editor")
	assert.Contains(t, v, "1 nodes")
	assert.Contains(t, v, "greeting")
	assert.Contains(t, v, "mode: idle")
}

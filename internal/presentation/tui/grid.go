package tui

import (
	"math"
	"strings"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/editor"
)

// Canvas units covered by one terminal cell. Cells are about twice as tall
// as they are wide.
const (
	CellWidth  = 10
	CellHeight = 20
)

// Cell is a column/row position on the terminal grid.
type Cell struct {
	Col, Row int
}

// CellAt returns the cell containing canvas point p.
func CellAt(p domain.Point) Cell {
	return Cell{
		Col: int(math.Floor(p.X / CellWidth)),
		Row: int(math.Floor(p.Y / CellHeight)),
	}
}

// Center returns the canvas point at the middle of the cell.
func (c Cell) Center() domain.Point {
	return domain.Point{
		X: float64(c.Col)*CellWidth + CellWidth/2,
		Y: float64(c.Row)*CellHeight + CellHeight/2,
	}
}

type border struct {
	tl, tr, bl, br, h, v rune
}

var (
	plainBorder  = border{'┌', '┐', '└', '┘', '─', '│'}
	focusBorder  = border{'╔', '╗', '╚', '╝', '═', '║'}
	activeBorder = border{'┏', '┓', '┗', '┛', '━', '┃'}
)

// Grid is an editor.Canvas that rasterizes node windows and connection
// curves onto terminal cells.
type Grid struct {
	cols, rows int
	cells      [][]rune

	// handles maps the cell drawn as a node's resize handle to the
	// handle's center, so clicks on it land inside the handle.
	handles map[Cell]domain.Point
}

// NewGrid returns an empty grid of the given size.
func NewGrid(cols, rows int) *Grid {
	cols, rows = max(cols, 1), max(rows, 1)
	g := &Grid{
		cols:    cols,
		rows:    rows,
		cells:   make([][]rune, rows),
		handles: make(map[Cell]domain.Point),
	}
	for i := range g.cells {
		g.cells[i] = []rune(strings.Repeat(" ", cols))
	}
	return g
}

func (g *Grid) set(c Cell, r rune) {
	if c.Row < 0 || c.Row >= g.rows || c.Col < 0 || c.Col >= g.cols {
		return
	}
	g.cells[c.Row][c.Col] = r
}

func (g *Grid) at(c Cell) rune {
	if c.Row < 0 || c.Row >= g.rows || c.Col < 0 || c.Col >= g.cols {
		return 0
	}
	return g.cells[c.Row][c.Col]
}

// text writes s from c, stopping before column limit.
func (g *Grid) text(c Cell, s string, limit int) {
	for _, r := range s {
		if c.Col >= limit {
			return
		}
		g.set(c, r)
		c.Col++
	}
}

// bounds returns the first and last cells covered by r.
func bounds(r domain.Rect) (Cell, Cell) {
	tl := CellAt(r.Position())
	br := Cell{
		Col: int(math.Ceil((r.X+r.Width)/CellWidth)) - 1,
		Row: int(math.Ceil((r.Y+r.Height)/CellHeight)) - 1,
	}
	br.Col = max(br.Col, tl.Col+1)
	br.Row = max(br.Row, tl.Row+1)
	return tl, br
}

// DrawNode draws a node window: its id in the top border, its text, one line
// per choice and the resize handle in the bottom-right corner.
func (g *Grid) DrawNode(view editor.NodeView) {
	n := view.Node
	tl, br := bounds(n.Rect)

	b := plainBorder
	switch {
	case view.Active:
		b = activeBorder
	case view.Focused:
		b = focusBorder
	}

	for col := tl.Col; col <= br.Col; col++ {
		for row := tl.Row; row <= br.Row; row++ {
			g.set(Cell{col, row}, ' ')
		}
		g.set(Cell{col, tl.Row}, b.h)
		g.set(Cell{col, br.Row}, b.h)
	}
	for row := tl.Row; row <= br.Row; row++ {
		g.set(Cell{tl.Col, row}, b.v)
		g.set(Cell{br.Col, row}, b.v)
	}
	g.set(tl, b.tl)
	g.set(Cell{br.Col, tl.Row}, b.tr)
	g.set(Cell{tl.Col, br.Row}, b.bl)
	g.set(br, '◢')
	g.handles[br] = view.ResizeHandle.Center()

	g.text(Cell{tl.Col + 2, tl.Row}, " "+n.ID+" ", br.Col-1)
	if tl.Row+1 < br.Row {
		g.text(Cell{tl.Col + 1, tl.Row + 1}, strings.Join(strings.Fields(n.Text), " "), br.Col)
	}

	for i, c := range n.Choices {
		row := CellAt(editor.ChoiceRow(n.Rect, i).Position()).Row
		if row <= tl.Row+1 || row >= br.Row {
			continue
		}
		line := "› " + c.Text
		if c.HasTarget() {
			line += " → " + c.TargetNodeID
		}
		g.text(Cell{tl.Col + 1, row}, line, br.Col)
	}
}

// DrawConnection traces the curve through blank cells, so node windows
// drawn earlier stay legible.
func (g *Grid) DrawConnection(conn editor.Connection) {
	steps := curveSteps(conn.Curve)
	last := Cell{-1, -1}
	for i := 0; i <= steps; i++ {
		c := CellAt(conn.Curve.At(float64(i) / float64(steps)))
		if c == last {
			continue
		}
		last = c
		if g.at(c) == ' ' {
			g.set(c, '·')
		}
	}
	end := CellAt(conn.Curve.End)
	end.Col--
	if g.at(end) == ' ' || g.at(end) == '·' {
		g.set(end, '▸')
	}
}

func curveSteps(b domain.Bezier) int {
	d := b.End.Sub(b.Start)
	length := math.Abs(d.X)/CellWidth + math.Abs(d.Y)/CellHeight
	return max(16, int(length)*4)
}

// HandleAt returns the resize handle drawn at c, if any.
func (g *Grid) HandleAt(c Cell) (domain.Point, bool) {
	p, ok := g.handles[c]
	return p, ok
}

// String returns the grid rows with trailing blanks trimmed.
func (g *Grid) String() string {
	lines := make([]string, g.rows)
	for i, row := range g.cells {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}

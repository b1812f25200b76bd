package editor

import "github.com/aretw0/parley/pkg/domain"

// Node body layout, in canvas units.
const (
	// HandleSize is the side of the square resize handle at a node's bottom-right corner.
	HandleSize = 10
	// HeaderHeight is the space above the first choice row (title and text area).
	HeaderHeight = 70
	// RowHeight is the height of one choice row.
	RowHeight = 20
	// RemoveButtonInset is the distance from the node's right edge to a row's remove button.
	RemoveButtonInset = 85
	// RemoveButtonWidth is the width of a row's remove button.
	RemoveButtonWidth = 75
	// TangentLength is the length of the horizontal handles of connection curves.
	TangentLength = 50
)

// ResizeHandle returns the resize handle of a node rectangle.
func ResizeHandle(r domain.Rect) domain.Rect {
	return domain.Rect{
		X:      r.X + r.Width - HandleSize,
		Y:      r.Y + r.Height - HandleSize,
		Width:  HandleSize,
		Height: HandleSize,
	}
}

// ChoiceRow returns the row occupied by choice i inside a node rectangle.
func ChoiceRow(r domain.Rect, i int) domain.Rect {
	return domain.Rect{
		X:      r.X,
		Y:      r.Y + HeaderHeight + float64(i)*RowHeight,
		Width:  r.Width,
		Height: RowHeight,
	}
}

// RemoveButton returns the remove button of choice row i.
func RemoveButton(r domain.Rect, i int) domain.Rect {
	row := ChoiceRow(r, i)
	return domain.Rect{
		X:      r.X + r.Width - RemoveButtonInset,
		Y:      row.Y,
		Width:  RemoveButtonWidth,
		Height: RowHeight,
	}
}

// ChoiceCurve returns the connection from choice i of the source rectangle to
// the left edge of the target rectangle. The curve leaves the center of the
// row's remove button heading right and enters the target heading right.
func ChoiceCurve(source domain.Rect, i int, target domain.Rect) domain.Bezier {
	start := RemoveButton(source, i).Center()
	end := domain.Point{X: target.X, Y: target.Y + target.Height/2}
	return domain.Bezier{
		Start:        start,
		StartTangent: start.Add(domain.Point{X: TangentLength}),
		EndTangent:   end.Add(domain.Point{X: -TangentLength}),
		End:          end,
	}
}

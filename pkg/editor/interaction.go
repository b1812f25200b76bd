package editor

import "github.com/aretw0/parley/pkg/domain"

// HandlePointer advances the interaction state machine by one event.
// Events that do not apply to the current state are ignored.
func (s *Session) HandlePointer(ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		s.pointerDown(ev)
	case PointerDrag:
		s.pointerDrag(ev)
	case PointerUp:
		s.pointerUp(ev)
	}
}

func (s *Session) pointerDown(ev PointerEvent) {
	if s.Mode() != ModeIdle {
		return
	}

	switch ev.Button {
	case ButtonPrimary:
		n, ok := s.graph.NodeAt(ev.Pos)
		if !ok {
			if s.focus != 0 {
				s.focus = 0
				s.requestRepaint()
			}
			return
		}
		s.focus = s.handleOf(n)
		if ResizeHandle(n.Rect).Contains(ev.Pos) {
			s.resizing = n
			s.logger.Debug("resize start", "node_id", n.ID)
		} else {
			s.selected = n
			s.offset = n.Rect.Position().Sub(ev.Pos)
			s.logger.Debug("drag start", "node_id", n.ID)
		}
		s.requestRepaint()

	case ButtonSecondary:
		s.panning = true
		s.panStart = ev.Pos
		s.requestRepaint()
	}
}

func (s *Session) pointerDrag(ev PointerEvent) {
	switch {
	case s.resizing != nil:
		// Any button keeps resizing until released.
		s.resizing.Resize(ev.Pos)
		s.requestRepaint()

	case s.selected != nil && ev.Button == ButtonPrimary:
		s.selected.Rect = s.selected.Rect.MoveTo(ev.Pos.Add(s.offset))
		s.requestRepaint()

	case s.panning && ev.Button == ButtonSecondary:
		delta := ev.Pos.Sub(s.panStart)
		s.graph.Translate(delta)
		s.panned = s.panned.Add(delta)
		s.panStart = ev.Pos
		s.requestRepaint()
	}
}

func (s *Session) pointerUp(ev PointerEvent) {
	changed := false

	if s.resizing != nil {
		s.resizing = nil
		changed = true
	}
	if ev.Button == ButtonPrimary && s.selected != nil {
		s.selected = nil
		s.offset = domain.Point{}
		changed = true
	}
	if ev.Button == ButtonSecondary && s.panning {
		s.panning = false
		changed = true
	}

	if changed {
		s.requestRepaint()
	}
}

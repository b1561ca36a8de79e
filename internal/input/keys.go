package input

import (
	"golang.org/x/mobile/event/key"

	"github.com/example/roiview/internal/viewport"
)

// HandleKey applies a key press. Editing and view keys are handled here;
// anything that needs the host comes back as an Action.
func (m *Machine) HandleKey(e key.Event, vp *viewport.State) Action {
	if e.Direction == key.DirRelease {
		return ActionNone
	}
	ctrl := e.Modifiers&key.ModControl != 0
	shift := e.Modifiers&key.ModShift != 0

	switch e.Code {
	case key.CodeEscape:
		return ActionQuit
	case key.CodeDeleteBackspace:
		if m.store.RemoveLast(m.mode.Kind()) {
			return ActionRedraw
		}
		return ActionNone
	case key.CodeDeleteForward:
		m.store.ClearAll(m.mode.Kind())
		m.phase = PhaseIdle
		return ActionRedraw
	}

	if ctrl {
		switch e.Code {
		case key.CodeZ:
			if m.store.UndoLastPolygonPoint() {
				return ActionRedraw
			}
			return ActionNone
		case key.CodeC:
			if shift {
				return ActionCopyFrame
			}
			return ActionCopyGeometry
		}
		return ActionNone
	}

	switch e.Rune {
	case 'r', 'R':
		*vp = viewport.Reset(*vp)
		m.log.Debug("view reset")
		return ActionRedraw
	case 'q', 'Q':
		return ActionQuit
	case '1':
		m.SetMode(ModeRectangle)
		return ActionRedraw
	case '2':
		m.SetMode(ModeLine)
		return ActionRedraw
	case '3':
		m.SetMode(ModePolygon)
		return ActionRedraw
	case 'a', 'A':
		return ActionToggleAnimation
	case 'f', 'F':
		return ActionFitView
	case '[':
		return ActionPrevImage
	case ']':
		return ActionNextImage
	}
	return ActionNone
}

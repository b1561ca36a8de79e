// Package input turns pointer and keyboard events into annotation and
// viewport changes.
package input

import (
	"fmt"
	"strings"

	"github.com/example/roiview/internal/annotation"
)

// Mode is the active drawing tool. Exactly one mode is active at a time.
type Mode int

const (
	ModeRectangle Mode = iota
	ModeLine
	ModePolygon
)

func (m Mode) String() string {
	switch m {
	case ModeRectangle:
		return "rect"
	case ModeLine:
		return "line"
	case ModePolygon:
		return "polygon"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Kind returns the shape collection the mode edits.
func (m Mode) Kind() annotation.Kind {
	switch m {
	case ModeLine:
		return annotation.KindLine
	case ModePolygon:
		return annotation.KindPolygon
	}
	return annotation.KindRect
}

// ParseMode accepts a mode or shape kind name.
func ParseMode(s string) (Mode, error) {
	k, err := annotation.ParseKind(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return ModeRectangle, fmt.Errorf("unknown drawing mode %q", s)
	}
	return ModeFor(k), nil
}

// ModeFor returns the mode that draws kind.
func ModeFor(k annotation.Kind) Mode {
	switch k {
	case annotation.KindLine:
		return ModeLine
	case annotation.KindPolygon:
		return ModePolygon
	}
	return ModeRectangle
}

// Phase is the button state of the machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDraggingRect
	PhaseDraggingLine
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDraggingRect:
		return "dragging-rect"
	case PhaseDraggingLine:
		return "dragging-line"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Action is a request the machine cannot satisfy itself and hands back to
// the host.
type Action int

const (
	ActionNone Action = iota
	ActionRedraw
	ActionQuit
	ActionCopyGeometry
	ActionCopyFrame
	ActionPrevImage
	ActionNextImage
	ActionToggleAnimation
	ActionFitView
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionRedraw:
		return "redraw"
	case ActionQuit:
		return "quit"
	case ActionCopyGeometry:
		return "copy-geometry"
	case ActionCopyFrame:
		return "copy-frame"
	case ActionPrevImage:
		return "prev-image"
	case ActionNextImage:
		return "next-image"
	case ActionToggleAnimation:
		return "toggle-animation"
	case ActionFitView:
		return "fit-view"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

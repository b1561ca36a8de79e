package input

import (
	"image"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/roiview/internal/annotation"
	"github.com/example/roiview/internal/viewport"
)

// DefaultDoubleClick is the longest gap between two right presses that
// still counts as a double click.
const DefaultDoubleClick = 400 * time.Millisecond

// doubleClickSlop is how far, in device pixels, the pointer may move
// between the two presses of a double click.
const doubleClickSlop = 4

// Preview is the transient shape following a drag. It is never stored.
type Preview struct {
	Active bool
	Kind   annotation.Kind
	Rect   annotation.Rect
	Line   annotation.Line
}

// Pointer is the last known pointer position.
type Pointer struct {
	Device   image.Point
	Original image.Point
	// Inside is false when the pointer is off the image.
	Inside bool
	Known  bool
}

// Result describes what an event changed.
type Result struct {
	Redraw     bool
	Committed  bool
	ViewMoved  bool
	Selections annotation.SelectionChanges
}

// Option configures a Machine.
type Option func(*Machine)

// WithDoubleClick sets the right double click window.
func WithDoubleClick(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.doubleClick = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithLogger sets the logger for transition diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Machine) { m.log = l }
}

// WithMode sets the starting drawing mode.
func WithMode(mode Mode) Option {
	return func(m *Machine) { m.mode = mode }
}

// Machine is the pointer state machine. It owns no geometry; shapes go to
// the store and zoom or pan changes go to the viewport state passed to
// Handle.
type Machine struct {
	store  *annotation.Store
	limits viewport.Limits

	mode   Mode
	phase  Phase
	anchor image.Point

	pointer Pointer

	panning   bool
	panStart  image.Point
	panOrigin image.Point

	lastRight   time.Time
	lastRightAt image.Point
	doubleClick time.Duration
	now         func() time.Time

	log logrus.FieldLogger
}

// New returns a machine editing store in rectangle mode.
func New(store *annotation.Store, limits viewport.Limits, opts ...Option) *Machine {
	m := &Machine{
		store:       store,
		limits:      limits,
		doubleClick: DefaultDoubleClick,
		now:         time.Now,
		log:         logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Mode returns the active drawing mode.
func (m *Machine) Mode() Mode { return m.mode }

// Phase returns the current button phase.
func (m *Machine) Phase() Phase { return m.phase }

// SetMode switches the drawing tool and abandons any drag in progress.
func (m *Machine) SetMode(mode Mode) {
	if mode == m.mode {
		return
	}
	m.log.WithFields(logrus.Fields{"from": m.mode, "to": mode}).Debug("drawing mode changed")
	m.mode = mode
	m.phase = PhaseIdle
}

// Pointer returns the last pointer position.
func (m *Machine) Pointer() Pointer { return m.pointer }

// SetPointer overrides the recorded pointer, for restoring saved state.
func (m *Machine) SetPointer(p Pointer) { m.pointer = p }

// Panning reports whether a middle button drag is in progress.
func (m *Machine) Panning() bool { return m.panning }

// Preview returns the shape being dragged, if any.
func (m *Machine) Preview() Preview {
	switch m.phase {
	case PhaseDraggingRect:
		return Preview{Active: true, Kind: annotation.KindRect, Rect: annotation.RectFromCorners(m.anchor, m.pointer.Original)}
	case PhaseDraggingLine:
		return Preview{Active: true, Kind: annotation.KindLine, Line: annotation.LineBetween(m.anchor, m.pointer.Original)}
	}
	return Preview{}
}

// effective returns vp with its pan clamped, which is what the screen
// shows. Pointer mapping uses it so clicks land where the user sees.
func effective(vp viewport.State, img image.Point) viewport.State {
	vp.Pan = viewport.ClampPan(vp, img)
	return vp
}

func (m *Machine) track(dev image.Point, vp viewport.State, img image.Point) {
	eff := effective(vp, img)
	canvas := dev.Add(eff.Pan)
	scaled := viewport.ScaledSize(img, eff.Zoom)
	m.pointer = Pointer{
		Device:   dev,
		Original: viewport.ViewToOriginal(dev, eff, img),
		Inside: dev.X >= 0 && dev.Y >= 0 && canvas.X < scaled.X && canvas.Y < scaled.Y &&
			(vp.View.X <= 0 || dev.X < vp.View.X) && (vp.View.Y <= 0 || dev.Y < vp.View.Y),
		Known: true,
	}
}

// Handle applies one pointer event. vp is updated in place for zoom and
// pan gestures; img is the size of the image being annotated.
func (m *Machine) Handle(e mouse.Event, vp *viewport.State, img image.Point) Result {
	dev := image.Pt(int(e.X), int(e.Y))
	prev := m.pointer
	m.track(dev, *vp, img)

	var res Result
	switch {
	case isWheel(e.Button):
		res = m.wheel(e, vp, img)
	case e.Button == mouse.ButtonMiddle || (m.panning && e.Direction == mouse.DirNone):
		res = m.pan(e, dev, vp, img)
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		res = m.leftPress()
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		res = m.leftRelease()
	case e.Button == mouse.ButtonRight && e.Direction == mouse.DirPress:
		res = m.rightPress(dev)
	case e.Direction == mouse.DirNone:
		res.Redraw = m.phase != PhaseIdle || m.mode == ModePolygon || prev != m.pointer
	}

	res.Selections = m.store.ValidateSelections()
	if res.Selections.Any {
		m.log.WithField("changes", res.Selections).Debug("cleared stale selection")
		res.Redraw = true
	}
	return res
}

func isWheel(b mouse.Button) bool {
	return b == mouse.ButtonWheelUp || b == mouse.ButtonWheelDown
}

func (m *Machine) wheel(e mouse.Event, vp *viewport.State, img image.Point) Result {
	if e.Direction == mouse.DirRelease {
		return Result{}
	}
	steps := 1
	if e.Button == mouse.ButtonWheelDown {
		steps = -1
	}
	fast := e.Modifiers&key.ModControl != 0
	before := vp.Zoom
	*vp = viewport.ApplyZoom(effective(*vp, img), m.limits, steps, fast, m.pointer.Device, img)
	m.track(m.pointer.Device, *vp, img)
	m.log.WithFields(logrus.Fields{"zoom": vp.Zoom, "fast": fast}).Debug("zoom")
	return Result{Redraw: true, ViewMoved: vp.Zoom != before}
}

func (m *Machine) pan(e mouse.Event, dev image.Point, vp *viewport.State, img image.Point) Result {
	switch e.Direction {
	case mouse.DirPress:
		m.panning = true
		m.panStart = dev
		m.panOrigin = viewport.ClampPan(*vp, img)
		return Result{}
	case mouse.DirRelease:
		if !m.panning {
			return Result{}
		}
		m.panning = false
		vp.Pan = viewport.ClampPan(*vp, img)
		m.track(dev, *vp, img)
		return Result{Redraw: true, ViewMoved: true}
	}
	if !m.panning {
		return Result{}
	}
	*vp = viewport.ApplyPan(*vp, dev.Sub(m.panStart), m.panOrigin)
	m.track(dev, *vp, img)
	return Result{Redraw: true, ViewMoved: true}
}

func (m *Machine) leftPress() Result {
	p := m.pointer.Original
	switch m.mode {
	case ModePolygon:
		closed := m.store.AddPolygonPoint(p)
		if closed {
			m.log.WithField("count", m.store.Count(annotation.KindPolygon)).Debug("polygon closed")
		}
		return Result{Redraw: true, Committed: closed}
	case ModeLine:
		m.phase = PhaseDraggingLine
	default:
		m.phase = PhaseDraggingRect
	}
	m.anchor = p
	return Result{Redraw: true}
}

func (m *Machine) leftRelease() Result {
	p := m.pointer.Original
	var ok bool
	switch m.phase {
	case PhaseDraggingRect:
		r := annotation.RectFromCorners(m.anchor, p)
		if ok = m.store.CommitRect(r); ok {
			m.log.WithField("rect", r).Debug("rect committed")
		}
	case PhaseDraggingLine:
		l := annotation.LineBetween(m.anchor, p)
		if ok = m.store.CommitLine(l); ok {
			m.log.WithField("line", l).Debug("line committed")
		}
	default:
		return Result{}
	}
	m.phase = PhaseIdle
	return Result{Redraw: true, Committed: ok}
}

func (m *Machine) rightPress(dev image.Point) Result {
	now := m.now()
	d := dev.Sub(m.lastRightAt)
	double := !m.lastRight.IsZero() && now.Sub(m.lastRight) <= m.doubleClick &&
		abs(d.X) <= doubleClickSlop && abs(d.Y) <= doubleClickSlop
	if double {
		m.lastRight = time.Time{}
		kind := m.mode.Kind()
		m.store.ClearAll(kind)
		m.log.WithField("kind", kind).Debug("cleared collection")
		return Result{Redraw: true}
	}
	m.lastRight = now
	m.lastRightAt = dev

	switch m.mode {
	case ModePolygon:
		closed := m.store.ClosePolygon()
		return Result{Redraw: closed, Committed: closed}
	case ModeLine:
		return Result{Redraw: m.store.RemoveLast(annotation.KindLine)}
	}
	return Result{Redraw: m.store.RemoveLast(annotation.KindRect)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Package viewer is the annotation engine's host-facing surface. It wires
// the shape store, viewport, pointer state machine, selection pulse and
// compositor together behind a small set of entry points.
//
// A Viewer is not safe for concurrent use. Hosts drive it from a single
// event loop: OnPointerEvent and OnKey for input, OnFrameTick once per
// displayed frame.
package viewer

import (
	"image"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/roiview/internal/annotation"
	"github.com/example/roiview/internal/compositor"
	"github.com/example/roiview/internal/input"
	"github.com/example/roiview/internal/viewport"
)

// DefaultViewSize is the viewport used until the host reports one.
var DefaultViewSize = image.Pt(800, 800)

// Stepper is implemented by sources whose selector can be moved from the
// keyboard.
type Stepper interface {
	Step(delta int) bool
}

// State is the restorable view state.
type State struct {
	Zoom    float64
	Pan     image.Point
	Pointer image.Point
}

type settings struct {
	source      ImageSource
	log         logrus.FieldLogger
	limits      viewport.Limits
	thresholds  annotation.Thresholds
	styles      annotation.StyleTable
	animation   annotation.AnimationConfig
	view        image.Point
	mode        input.Mode
	doubleClick time.Duration
	clock       func() time.Time
	render      compositor.Options
	fitOnOpen   bool
}

// Option configures a Viewer.
type Option func(*settings)

// WithSource sets the image source. Without one the viewer shows the
// placeholder.
func WithSource(src ImageSource) Option {
	return func(s *settings) { s.source = src }
}

// WithLogger sets the diagnostics sink.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *settings) { s.log = l }
}

// WithLimits sets the zoom limits and wheel steps.
func WithLimits(l viewport.Limits) Option {
	return func(s *settings) { s.limits = l }
}

// WithThresholds sets the polygon close distance and minimum line length.
func WithThresholds(t annotation.Thresholds) Option {
	return func(s *settings) { s.thresholds = t }
}

// WithStyles sets the shape palette.
func WithStyles(t annotation.StyleTable) Option {
	return func(s *settings) { s.styles = t }
}

// WithAnimation sets the selection pulse.
func WithAnimation(a annotation.AnimationConfig) Option {
	return func(s *settings) { s.animation = a }
}

// WithViewSize sets the initial viewport size.
func WithViewSize(p image.Point) Option {
	return func(s *settings) { s.view = p }
}

// WithMode sets the initial drawing mode.
func WithMode(m input.Mode) Option {
	return func(s *settings) { s.mode = m }
}

// WithDoubleClick sets the right double click window.
func WithDoubleClick(d time.Duration) Option {
	return func(s *settings) { s.doubleClick = d }
}

// WithClock replaces time.Now for double click detection.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.clock = now }
}

// WithRenderOptions sets compositor colours and fonts.
func WithRenderOptions(o compositor.Options) Option {
	return func(s *settings) { s.render = o }
}

// WithFitOnOpen zooms each newly shown image to fit the viewport.
func WithFitOnOpen(on bool) Option {
	return func(s *settings) { s.fitOnOpen = on }
}

// Viewer owns all geometry and view state for one session.
type Viewer struct {
	source  ImageSource
	store   *annotation.Store
	anim    *annotation.Animator
	machine *input.Machine
	comp    *compositor.Compositor
	limits  viewport.Limits
	vp      viewport.State
	log     logrus.FieldLogger

	fitOnOpen bool
	shown     int
	shownName string
}

// New builds a viewer from opts.
func New(opts ...Option) *Viewer {
	s := settings{
		log:        logrus.StandardLogger(),
		limits:     viewport.DefaultLimits(),
		thresholds: annotation.DefaultThresholds(),
		styles:     annotation.DefaultStyles(),
		animation:  annotation.DefaultAnimation(),
		view:       DefaultViewSize,
		render:     compositor.DefaultOptions(),
	}
	for _, o := range opts {
		o(&s)
	}
	store := annotation.NewStore(s.thresholds, s.styles)
	mopts := []input.Option{input.WithLogger(s.log), input.WithMode(s.mode)}
	if s.doubleClick > 0 {
		mopts = append(mopts, input.WithDoubleClick(s.doubleClick))
	}
	if s.clock != nil {
		mopts = append(mopts, input.WithClock(s.clock))
	}
	v := &Viewer{
		source:    s.source,
		store:     store,
		anim:      annotation.NewAnimator(s.animation, s.styles),
		machine:   input.New(store, s.limits, mopts...),
		comp:      compositor.New(s.render),
		limits:    s.limits,
		vp:        viewport.New(s.view),
		log:       s.log,
		fitOnOpen: s.fitOnOpen,
		shown:     -1,
	}
	v.syncImage()
	return v
}

// image returns the active image and its size.
func (v *Viewer) image() (image.Image, string, image.Point) {
	if v.source == nil {
		return nil, "", image.Point{}
	}
	img, name := v.source.CurrentImage()
	if img == nil {
		return nil, name, image.Point{}
	}
	return img, name, img.Bounds().Size()
}

// syncImage notices when the host switched images and adapts the view.
// Shapes are kept across images.
func (v *Viewer) syncImage() {
	if v.source == nil {
		return
	}
	idx := v.source.CurrentIndex()
	img, name, size := v.image()
	if idx == v.shown && name == v.shownName {
		return
	}
	v.shown, v.shownName = idx, name
	if v.fitOnOpen && img != nil {
		v.vp.Zoom = viewport.FitZoom(size, v.vp.View, v.limits)
		v.vp.Pan = image.Point{}
	}
	v.vp.Pan = viewport.ClampPan(v.vp, size)
	v.log.WithFields(logrus.Fields{"index": idx, "name": name, "size": size, "zoom": v.vp.Zoom}).Info("showing image")
}

func (v *Viewer) validate(op string) {
	if ch := v.store.ValidateSelections(); ch.Any {
		v.log.WithFields(logrus.Fields{"op": op, "rect": ch.Rect, "line": ch.Line, "polygon": ch.Polygon}).Debug("cleared stale selection")
	}
}

// DrawnRects returns a copy of the committed rectangles.
func (v *Viewer) DrawnRects() []annotation.Rect { return v.store.Rects() }

// DrawnLines returns a copy of the committed lines.
func (v *Viewer) DrawnLines() []annotation.Line { return v.store.Lines() }

// DrawnPolygons returns a copy of the committed polygons.
func (v *Viewer) DrawnPolygons() []annotation.Polygon { return v.store.Polygons() }

// CurrentPolygon returns a copy of the polygon under construction.
func (v *Viewer) CurrentPolygon() annotation.Polygon { return v.store.CurrentPolygon() }

// SetDrawingMode switches the drawing tool.
func (v *Viewer) SetDrawingMode(m input.Mode) { v.machine.SetMode(m) }

// DrawingMode returns the active drawing tool.
func (v *Viewer) DrawingMode() input.Mode { return v.machine.Mode() }

// UndoLastPolygonPoint drops the newest vertex of the polygon under
// construction.
func (v *Viewer) UndoLastPolygonPoint() bool {
	ok := v.store.UndoLastPolygonPoint()
	v.validate("undo-point")
	return ok
}

// ClearLast removes the newest shape of kind.
func (v *Viewer) ClearLast(kind annotation.Kind) bool {
	ok := v.store.RemoveLast(kind)
	v.validate("clear-last")
	return ok
}

// ClearAll removes every shape of kind.
func (v *Viewer) ClearAll(kind annotation.Kind) {
	v.store.ClearAll(kind)
	v.validate("clear-all")
}

// ClearEverything removes every shape of every kind.
func (v *Viewer) ClearEverything() {
	v.store.ClearEverything()
	v.validate("clear-everything")
}

// Select marks shape idx of kind as selected, as an analysis panel would.
func (v *Viewer) Select(kind annotation.Kind, idx int) bool {
	return v.store.Select(kind, idx)
}

// Selected returns the selection for kind.
func (v *Viewer) Selected(kind annotation.Kind) (int, bool) {
	v.validate("selected")
	return v.store.Selected(kind)
}

// SelectionInfo returns the selection and count per kind.
func (v *Viewer) SelectionInfo() map[annotation.Kind]annotation.SelectionInfo {
	v.validate("selection-info")
	return v.store.SelectionInfo()
}

// Snapshot returns a copy of every shape and selection.
func (v *Viewer) Snapshot() annotation.Snapshot { return v.store.Snapshot() }

// Summary formats every committed shape as text.
func (v *Viewer) Summary() string { return v.store.Summary() }

// OnPointerEvent feeds one pointer event to the state machine.
func (v *Viewer) OnPointerEvent(e mouse.Event) input.Result {
	v.syncImage()
	_, _, size := v.image()
	return v.machine.Handle(e, &v.vp, size)
}

// OnKey feeds one key event. Actions the viewer can satisfy itself are
// applied and reported as ActionRedraw; the rest are returned for the
// host.
func (v *Viewer) OnKey(e key.Event) input.Action {
	v.syncImage()
	a := v.machine.HandleKey(e, &v.vp)
	switch a {
	case input.ActionToggleAnimation:
		v.SetAnimationEnabled(!v.anim.Enabled())
		v.log.WithField("enabled", v.anim.Enabled()).Debug("selection pulse toggled")
		return input.ActionRedraw
	case input.ActionFitView:
		v.FitView()
		v.log.WithField("zoom", v.vp.Zoom).Debug("view fitted")
		return input.ActionRedraw
	case input.ActionPrevImage, input.ActionNextImage:
		st, ok := v.source.(Stepper)
		if !ok {
			return input.ActionNone
		}
		delta := 1
		if a == input.ActionPrevImage {
			delta = -1
		}
		if !st.Step(delta) {
			return input.ActionNone
		}
		v.syncImage()
		return input.ActionRedraw
	}
	v.validate("key")
	return a
}

// Tick picks up an image the host switched to and advances the selection
// pulse by one frame.
func (v *Viewer) Tick() {
	v.syncImage()
	v.validate("tick")
	v.anim.Tick()
}

// OnFrameTick advances the pulse and renders the frame.
func (v *Viewer) OnFrameTick() *image.RGBA {
	v.Tick()
	return v.Render()
}

// Frame captures a detached copy of everything needed to render. It
// changes nothing; image switches are picked up by the event and tick
// handlers.
func (v *Viewer) Frame() compositor.Frame {
	img, name, _ := v.image()
	return compositor.Frame{
		Image:   img,
		Name:    name,
		View:    v.vp,
		Shapes:  v.store.Snapshot(),
		Pulse:   v.anim.Snapshot(),
		Mode:    v.machine.Mode(),
		Preview: v.machine.Preview(),
		Pointer: v.machine.Pointer(),
	}
}

// Render composes the current frame into a new image.
func (v *Viewer) Render() *image.RGBA {
	return v.comp.Render(v.Frame())
}

// RenderInto composes the current frame into dst.
func (v *Viewer) RenderInto(dst *image.RGBA) {
	v.comp.RenderInto(dst, v.Frame())
}

// PixelReadout describes the pixel under the pointer.
func (v *Viewer) PixelReadout() string {
	img, _, _ := v.image()
	return compositor.PixelReadout(img, v.machine.Pointer())
}

// State returns the zoom, pan and pointer position.
func (v *Viewer) State() State {
	return State{Zoom: v.vp.Zoom, Pan: v.vp.Pan, Pointer: v.machine.Pointer().Original}
}

// SetState restores a state returned by State. Zoom is clamped to the
// limits.
func (v *Viewer) SetState(s State) {
	v.vp.Zoom = v.limits.Clamp(s.Zoom)
	v.vp.Pan = s.Pan
	_, _, size := v.image()
	p := input.Pointer{Original: s.Pointer, Known: true}
	if size.X > 0 {
		p.Original.X = min(max(p.Original.X, 0), size.X-1)
		p.Original.Y = min(max(p.Original.Y, 0), size.Y-1)
		p.Device = viewport.OriginalToView(p.Original, v.vp, size)
		p.Inside = true
	}
	v.machine.SetPointer(p)
}

// ResetView returns to zoom 1 with no pan.
func (v *Viewer) ResetView() {
	v.vp = viewport.Reset(v.vp)
}

// FitView zooms the current image to fit the viewport.
func (v *Viewer) FitView() {
	_, _, size := v.image()
	v.vp.Zoom = viewport.FitZoom(size, v.vp.View, v.limits)
	v.vp.Pan = image.Point{}
}

// SetViewSize records a new viewport size, typically after a resize.
func (v *Viewer) SetViewSize(p image.Point) {
	if p.X <= 0 || p.Y <= 0 || p == v.vp.View {
		return
	}
	v.vp.View = p
	v.log.WithField("size", p).Debug("viewport resized")
}

// SetAnimationEnabled turns the selection pulse on or off.
func (v *Viewer) SetAnimationEnabled(on bool) { v.anim.SetEnabled(on) }

// Animating reports whether frame ticks change the picture.
func (v *Viewer) Animating() bool {
	return v.anim.Enabled() && v.store.HasSelections()
}

// ImageName returns the display name of the current image.
func (v *Viewer) ImageName() string {
	_, name, _ := v.image()
	return name
}

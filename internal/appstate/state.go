// Package appstate hosts a viewer in a shiny window: it pumps pointer and
// key events into the engine, paints frames on demand and ticks the
// selection pulse.
package appstate

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/roiview/internal/clipboard"
	"github.com/example/roiview/internal/input"
	"github.com/example/roiview/internal/notify"
	"github.com/example/roiview/internal/viewer"
)

// ProgramTitle prefixes every window title.
const ProgramTitle = "roiview"

// DefaultTick is the frame tick period used when none is configured.
const DefaultTick = 30 * time.Millisecond

// tickEvent is sent by the ticker goroutine into the window's event queue.
type tickEvent struct{}

// AppState holds the window configuration and the engine it drives.
type AppState struct {
	Viewer *viewer.Viewer
	Size   image.Point
	Tick   time.Duration

	log        logrus.FieldLogger
	notifier   *notify.Notifier
	writeText  func(string) error
	writeImage func(image.Image) error

	// paintPending coalesces redraw requests into one paint event.
	paintPending bool

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithViewer sets the engine shown in the window.
func WithViewer(v *viewer.Viewer) Option { return func(a *AppState) { a.Viewer = v } }

// WithSize sets the initial window size.
func WithSize(p image.Point) Option { return func(a *AppState) { a.Size = p } }

// WithTick sets the frame tick period.
func WithTick(d time.Duration) Option { return func(a *AppState) { a.Tick = d } }

// WithLogger sets the diagnostics sink.
func WithLogger(l logrus.FieldLogger) Option { return func(a *AppState) { a.log = l } }

// WithNotifier sets the notifier used after clipboard copies.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithClipboard replaces the clipboard writers.
func WithClipboard(text func(string) error, img func(image.Image) error) Option {
	return func(a *AppState) {
		a.writeText = text
		a.writeImage = img
	}
}

// WithOnClose registers a callback invoked once when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState applying the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		Size:       viewer.DefaultViewSize,
		Tick:       DefaultTick,
		log:        logrus.StandardLogger(),
		writeText:  clipboard.WriteText,
		writeImage: func(img image.Image) error { return clipboard.WriteImage(img) },
	}
	for _, o := range opts {
		o(a)
	}
	if a.Viewer == nil {
		a.Viewer = viewer.New(viewer.WithLogger(a.log), viewer.WithViewSize(a.Size))
	}
	if a.Tick <= 0 {
		a.Tick = DefaultTick
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Title returns the window title for the current image.
func (a *AppState) Title() string {
	if name := a.Viewer.ImageName(); name != "" {
		return fmt.Sprintf("%s - %s", ProgramTitle, name)
	}
	return ProgramTitle
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main runs the event loop on s until the window closes or the user quits.
func (a *AppState) Main(s screen.Screen) {
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: a.Size.X, Height: a.Size.Y, Title: a.Title()})
	if err != nil {
		a.log.WithError(err).Error("new window")
		return
	}
	defer w.Release()
	defer a.notifyClose()

	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(a.Tick)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				w.Send(tickEvent{})
			case <-done:
				return
			}
		}
	}()

	a.Viewer.SetViewSize(a.Size)
	redraw := func() {
		if !a.paintPending {
			a.paintPending = true
			w.Send(paint.Event{})
		}
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			a.Size = e.Size()
			a.Viewer.SetViewSize(a.Size)
			redraw()
		case paint.Event:
			a.paintPending = false
			a.drawFrame(s, w)
		case tickEvent:
			if a.Viewer.Animating() {
				a.Viewer.Tick()
				redraw()
			}
		case mouse.Event:
			if res := a.Viewer.OnPointerEvent(e); res.Redraw || res.ViewMoved {
				redraw()
			}
		case key.Event:
			quit, changed := a.handleAction(a.Viewer.OnKey(e))
			if quit {
				return
			}
			if changed {
				redraw()
			}
		case error:
			a.log.WithError(e).Warn("window event")
		}
	}
}

func (a *AppState) drawFrame(s screen.Screen, w screen.Window) {
	if a.Size.X <= 0 || a.Size.Y <= 0 {
		return
	}
	b, err := s.NewBuffer(a.Size)
	if err != nil {
		a.log.WithError(err).Error("new buffer")
		return
	}
	defer b.Release()

	a.Viewer.RenderInto(b.RGBA())
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// handleAction performs the host side of a key action and reports whether
// the loop should stop and whether the window needs repainting.
func (a *AppState) handleAction(act input.Action) (quit, redraw bool) {
	switch act {
	case input.ActionQuit:
		a.log.Debug("quit requested")
		return true, false
	case input.ActionRedraw:
		return false, true
	case input.ActionCopyGeometry:
		summary := a.Viewer.Summary()
		if summary == "" {
			a.log.Info("nothing to copy")
			return false, false
		}
		if err := a.writeText(summary); err != nil {
			a.log.WithError(err).Warn("copy geometry")
			return false, false
		}
		a.log.WithField("bytes", len(summary)).Info("geometry copied")
		a.notifier.Copy("geometry", nil)
	case input.ActionCopyFrame:
		frame := a.Viewer.Render()
		if err := a.writeImage(frame); err != nil {
			a.log.WithError(err).Warn("copy frame")
			return false, false
		}
		a.log.WithField("size", frame.Bounds().Size()).Info("frame copied")
		a.notifier.Copy("frame", frame)
	}
	return false, false
}

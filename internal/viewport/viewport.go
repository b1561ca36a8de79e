// Package viewport maps points between device pixels, the zoomed canvas and
// the original image.
//
// Three spaces are involved. Device space is the window the user sees.
// Scaled-canvas space is the whole image after zooming; Pan is the
// scaled-canvas coordinate of the device origin. Original space is the
// source image's own pixel grid.
package viewport

import (
	"image"
	"math"
)

// epsilon guards divisions by the zoom ratio.
const epsilon = 1e-6

// Limits bounds the zoom ratio and sets the wheel step factors.
type Limits struct {
	MinZoom  float64
	MaxZoom  float64
	Step     float64
	FastStep float64
}

// DefaultLimits returns the limits used when no configuration overrides them.
func DefaultLimits() Limits {
	return Limits{MinZoom: 0.1, MaxZoom: 10, Step: 1.15, FastStep: 1.40}
}

// Clamp keeps z inside [MinZoom, MaxZoom].
func (l Limits) Clamp(z float64) float64 {
	if l.MaxZoom > 0 && z > l.MaxZoom {
		z = l.MaxZoom
	}
	if z < l.MinZoom {
		z = l.MinZoom
	}
	if z < epsilon {
		z = epsilon
	}
	return z
}

// State is the zoom and scroll position of a viewport.
type State struct {
	Zoom float64
	// Pan is the scaled-canvas point shown at the device origin.
	Pan image.Point
	// View is the device size of the viewport.
	View image.Point
}

// New returns a state at zoom 1 with no pan.
func New(view image.Point) State {
	return State{Zoom: 1, View: view}
}

func (s State) ratio() float64 {
	return math.Max(s.Zoom, epsilon)
}

// Reset returns s at zoom 1 with no pan.
func Reset(s State) State {
	s.Zoom = 1
	s.Pan = image.Point{}
	return s
}

// ScaledSize returns the dimensions of img after zooming. A non-empty image
// never scales below one pixel on either axis.
func ScaledSize(img image.Point, zoom float64) image.Point {
	if img.X <= 0 || img.Y <= 0 {
		return image.Point{}
	}
	r := math.Max(zoom, epsilon)
	w := int(float64(img.X) * r)
	h := int(float64(img.Y) * r)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return image.Pt(w, h)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sourceIndex is the nearest-neighbour rule along one axis: the original
// index sampled at the centre of canvas pixel c when n original pixels are
// stretched over size canvas pixels. It matches x/image/draw.NearestNeighbor.
func sourceIndex(c, n, size int) int {
	if c < 0 || size <= 0 {
		return 0
	}
	if c >= size {
		return n - 1
	}
	return clampInt((2*c+1)*n/(2*size), 0, n-1)
}

// edgeIndex is the first canvas pixel whose sourceIndex is at least p.
func edgeIndex(p, n, size int) int {
	if p <= 0 || n <= 0 {
		return p
	}
	return ceilDiv(2*p*size-n, 2*n)
}

func ceilDiv(a, b int) int {
	if a >= 0 {
		return (a + b - 1) / b
	}
	return -(-a / b)
}

// ViewToOriginal maps a device point to the original pixel under it. The
// device point is clamped to the viewport and the result to the image, so
// the mapping is total. An empty image maps everything to (0,0).
func ViewToOriginal(dev image.Point, s State, img image.Point) image.Point {
	if img.X <= 0 || img.Y <= 0 {
		return image.Point{}
	}
	if s.View.X > 0 {
		dev.X = clampInt(dev.X, 0, s.View.X-1)
	}
	if s.View.Y > 0 {
		dev.Y = clampInt(dev.Y, 0, s.View.Y-1)
	}
	scaled := ScaledSize(img, s.Zoom)
	return image.Pt(
		sourceIndex(dev.X+s.Pan.X, img.X, scaled.X),
		sourceIndex(dev.Y+s.Pan.Y, img.Y, scaled.Y),
	)
}

// OriginalToView maps the centre of an original pixel to device space. The
// result may lie outside the viewport.
func OriginalToView(p image.Point, s State, img image.Point) image.Point {
	lo := OriginalEdge(p, s, img)
	hi := OriginalEdge(p.Add(image.Pt(1, 1)), s, img)
	return image.Pt((lo.X+hi.X)/2, (lo.Y+hi.Y)/2)
}

// OriginalEdge maps the top-left corner of an original pixel to device
// space: the first device pixel that ViewToOriginal assigns to it. Shapes
// are stroked along these edges so they line up with the scaled pixels.
func OriginalEdge(p image.Point, s State, img image.Point) image.Point {
	if img.X <= 0 || img.Y <= 0 {
		r := s.ratio()
		return image.Pt(int(math.Floor(float64(p.X)*r))-s.Pan.X, int(math.Floor(float64(p.Y)*r))-s.Pan.Y)
	}
	scaled := ScaledSize(img, s.Zoom)
	return image.Pt(
		edgeIndex(p.X, img.X, scaled.X)-s.Pan.X,
		edgeIndex(p.Y, img.Y, scaled.Y)-s.Pan.Y,
	)
}

// ApplyZoom applies steps wheel notches (positive zooms in) and keeps the
// original pixel under anchor fixed on screen. fast selects the larger step.
func ApplyZoom(s State, l Limits, steps int, fast bool, anchor image.Point, img image.Point) State {
	if steps == 0 {
		return s
	}
	ox, oy := anchorOriginal(anchor, s, img)
	factor := l.Step
	if fast {
		factor = l.FastStep
	}
	if factor <= 1 {
		factor = DefaultLimits().Step
	}
	z := s.ratio()
	for i := 0; i < abs(steps); i++ {
		if steps > 0 {
			z *= factor
		} else {
			z /= factor
		}
		z = l.Clamp(z)
	}
	s.Zoom = z
	if img.X <= 0 || img.Y <= 0 {
		s.Pan = image.Pt(int(math.Round(ox*z))-anchor.X, int(math.Round(oy*z))-anchor.Y)
		return s
	}
	scaled := ScaledSize(img, z)
	sx := float64(scaled.X) / float64(img.X)
	sy := float64(scaled.Y) / float64(img.Y)
	s.Pan = image.Pt(
		int(math.Round(ox*sx-0.5))-anchor.X,
		int(math.Round(oy*sy-0.5))-anchor.Y,
	)
	return s
}

// anchorOriginal is ViewToOriginal without flooring, so repeated zooms
// around the same anchor do not drift by a pixel each step.
func anchorOriginal(dev image.Point, s State, img image.Point) (float64, float64) {
	if img.X <= 0 || img.Y <= 0 {
		return 0, 0
	}
	scaled := ScaledSize(img, s.Zoom)
	x := (float64(dev.X+s.Pan.X) + 0.5) * float64(img.X) / float64(scaled.X)
	y := (float64(dev.Y+s.Pan.Y) + 0.5) * float64(img.Y) / float64(scaled.Y)
	return math.Min(math.Max(x, 0), float64(img.X)), math.Min(math.Max(y, 0), float64(img.Y))
}

// ApplyPan scrolls the canvas by the device delta since the drag started.
// The pan is not clamped here; ClampPan absorbs overscroll when rendering.
func ApplyPan(s State, delta image.Point, panAtStart image.Point) State {
	s.Pan = panAtStart.Sub(delta)
	return s
}

// ClampPan returns the pan clamped into the scrollable range for img.
func ClampPan(s State, img image.Point) image.Point {
	scaled := ScaledSize(img, s.Zoom)
	maxX := scaled.X - s.View.X
	maxY := scaled.Y - s.View.Y
	if maxX < 0 {
		maxX = 0
	}
	if maxY < 0 {
		maxY = 0
	}
	return image.Pt(clampInt(s.Pan.X, 0, maxX), clampInt(s.Pan.Y, 0, maxY))
}

// FitZoom returns the largest zoom that shows the whole image inside view,
// clamped to l.
func FitZoom(img, view image.Point, l Limits) float64 {
	if img.X <= 0 || img.Y <= 0 || view.X <= 0 || view.Y <= 0 {
		return l.Clamp(1)
	}
	zx := float64(view.X) / float64(img.X)
	zy := float64(view.Y) / float64(img.Y)
	return l.Clamp(math.Min(zx, zy))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

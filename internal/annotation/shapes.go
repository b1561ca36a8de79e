// Package annotation holds the shapes a user draws over an image, the
// selection for each shape kind and the pulse animation for the selection.
package annotation

import (
	"fmt"
	"image"
	"math"
)

// Kind identifies one of the three shape collections.
type Kind int

const (
	KindRect Kind = iota
	KindLine
	KindPolygon
	kindCount
)

// Kinds lists every shape kind in paint order.
var Kinds = [...]Kind{KindRect, KindLine, KindPolygon}

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindLine:
		return "line"
	case KindPolygon:
		return "polygon"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind accepts the names returned by Kind.String plus a few aliases.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "rect", "rectangle", "roi":
		return KindRect, nil
	case "line", "segment":
		return KindLine, nil
	case "polygon", "poly":
		return KindPolygon, nil
	}
	return 0, fmt.Errorf("unknown shape kind %q", s)
}

// Rect is an axis-aligned rectangle in original-image pixels.
type Rect struct {
	X, Y, W, H int
}

// RectFromCorners builds the rectangle spanned by two drag corners.
func RectFromCorners(a, b image.Point) Rect {
	x, y := min(a.X, b.X), min(a.Y, b.Y)
	return Rect{X: x, Y: y, W: max(a.X, b.X) - x, H: max(a.Y, b.Y) - y}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Min returns the top-left corner.
func (r Rect) Min() image.Point { return image.Pt(r.X, r.Y) }

// Max returns the bottom-right corner.
func (r Rect) Max() image.Point { return image.Pt(r.X+r.W, r.Y+r.H) }

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d) %dx%d", r.X, r.Y, r.W, r.H)
}

// Line is a segment between two original-image pixels.
type Line struct {
	X1, Y1, X2, Y2 int
}

// LineBetween returns the segment from a to b.
func LineBetween(a, b image.Point) Line {
	return Line{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y}
}

// Start returns the first endpoint.
func (l Line) Start() image.Point { return image.Pt(l.X1, l.Y1) }

// End returns the second endpoint.
func (l Line) End() image.Point { return image.Pt(l.X2, l.Y2) }

// Length returns the Euclidean length of l.
func (l Line) Length() float64 {
	return math.Hypot(float64(l.X2-l.X1), float64(l.Y2-l.Y1))
}

func (l Line) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", l.X1, l.Y1, l.X2, l.Y2)
}

// Polygon is a closed ring of vertices. Committed polygons have at least
// three points.
type Polygon []image.Point

// Clone returns a copy that shares no storage with p.
func (p Polygon) Clone() Polygon {
	if p == nil {
		return nil
	}
	out := make(Polygon, len(p))
	copy(out, p)
	return out
}

// Bounds returns the smallest rectangle containing every vertex.
func (p Polygon) Bounds() image.Rectangle {
	if len(p) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: p[0], Max: p[0]}
	for _, v := range p[1:] {
		r.Min.X = min(r.Min.X, v.X)
		r.Min.Y = min(r.Min.Y, v.Y)
		r.Max.X = max(r.Max.X, v.X)
		r.Max.Y = max(r.Max.Y, v.Y)
	}
	return r
}

func distance(a, b image.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

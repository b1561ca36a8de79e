package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dy := -r; dy <= thick-1-r; dy++ {
		for dx := -r; dx <= thick-1-r; dx++ {
			img.Set(x+dx, y+dy, col)
		}
	}
}

// strokeLine draws a Bresenham line with a square brush. When dash is
// positive the stroke alternates between col and alt every dash pixels.
func strokeLine(img *image.RGBA, a, b image.Point, col, alt color.Color, thick, dash int) {
	if thick < 1 {
		thick = 1
	}
	// skip segments that cannot touch the image
	reach := img.Bounds().Inset(-thick)
	seg := image.Rectangle{Min: a, Max: b}.Canon()
	seg.Max = seg.Max.Add(image.Pt(1, 1))
	if !seg.Overlaps(reach) {
		return
	}
	x0, y0, x1, y1 := a.X, a.Y, b.X, b.Y
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for n := 0; ; n++ {
		c := col
		if dash > 0 && (n/dash)%2 == 1 {
			c = alt
		}
		if c != nil {
			setThickPixel(img, x0, y0, thick, c)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func drawLine(img *image.RGBA, a, b image.Point, col color.Color, thick int) {
	strokeLine(img, a, b, col, col, thick, 0)
}

func drawRect(img *image.RGBA, r image.Rectangle, col color.Color, thick int) {
	drawLine(img, r.Min, image.Pt(r.Max.X, r.Min.Y), col, thick)
	drawLine(img, image.Pt(r.Max.X, r.Min.Y), r.Max, col, thick)
	drawLine(img, r.Max, image.Pt(r.Min.X, r.Max.Y), col, thick)
	drawLine(img, image.Pt(r.Min.X, r.Max.Y), r.Min, col, thick)
}

func drawDashedRect(img *image.RGBA, r image.Rectangle, dash int, c1, c2 color.Color) {
	corners := []image.Point{r.Min, {r.Max.X, r.Min.Y}, r.Max, {r.Min.X, r.Max.Y}}
	for i, p := range corners {
		strokeLine(img, p, corners[(i+1)%4], c1, c2, 1, dash)
	}
}

func drawPolyline(img *image.RGBA, pts []image.Point, closed bool, col color.Color, thick int) {
	for i := 1; i < len(pts); i++ {
		drawLine(img, pts[i-1], pts[i], col, thick)
	}
	if closed && len(pts) > 2 {
		drawLine(img, pts[len(pts)-1], pts[0], col, thick)
	}
}

func drawCircle(img *image.RGBA, c image.Point, r int, col color.Color) {
	x, y := r, 0
	err := 1 - r
	for x >= y {
		for _, p := range [...]image.Point{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}} {
			img.Set(c.X+p.X, c.Y+p.Y, col)
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2 * (y - x + 1)
		}
	}
}

func drawFilledCircle(img *image.RGBA, c image.Point, r int, col color.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				img.Set(c.X+dx, c.Y+dy, col)
			}
		}
	}
}

// withAlpha returns col at the given opacity, ready for draw.Over.
func withAlpha(col color.RGBA, alpha float64) color.NRGBA {
	a := math.Round(math.Min(math.Max(alpha, 0), 1) * 255)
	return color.NRGBA{R: col.R, G: col.G, B: col.B, A: uint8(a)}
}

// blendRect fills r with col at alpha over whatever is already there.
func blendRect(img *image.RGBA, r image.Rectangle, col color.RGBA, alpha float64) {
	r = r.Canon().Intersect(img.Bounds())
	if r.Empty() || alpha <= 0 {
		return
	}
	draw.Draw(img, r, image.NewUniform(withAlpha(col, alpha)), image.Point{}, draw.Over)
}

// blendPolygon fills the polygon pts with col at alpha using an
// anti-aliased coverage mask.
func blendPolygon(img *image.RGBA, pts []image.Point, col color.RGBA, alpha float64) {
	if len(pts) < 3 || alpha <= 0 {
		return
	}
	b := img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	pt := func(p image.Point) (float32, float32) {
		return float32(p.X - b.Min.X), float32(p.Y - b.Min.Y)
	}
	z.MoveTo(pt(pts[0]))
	for _, p := range pts[1:] {
		z.LineTo(pt(p))
	}
	z.ClosePath()
	z.DrawOp = draw.Over
	z.Draw(img, b, image.NewUniform(withAlpha(col, alpha)), image.Point{})
}

// offsetSegment returns a, b shifted dist pixels along the segment's normal.
func offsetSegment(a, b image.Point, dist float64) (image.Point, image.Point) {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	length := math.Max(1, math.Hypot(dx, dy))
	px, py := -dy/length*dist, dx/length*dist
	off := image.Pt(int(px), int(py))
	return a.Add(off), b.Add(off)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

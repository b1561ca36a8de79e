// Package render draws overlay text that stays legible on any image by
// painting a soft blurred halo behind each glyph.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// HaloOptions configures the glow painted behind overlay text.
type HaloOptions struct {
	// Spread grows the glyph mask before blurring.
	Spread int
	// Radius is the blur radius applied after spreading.
	Radius  int
	Color   color.RGBA
	Opacity float64
}

// DefaultHaloOptions returns a dark two pixel glow.
func DefaultHaloOptions() HaloOptions {
	return HaloOptions{Spread: 1, Radius: 2, Color: color.RGBA{A: 255}, Opacity: 0.85}
}

func (o HaloOptions) pad() int {
	return max(o.Spread, 0) + max(o.Radius, 0)
}

// Halo returns the glow mask for mask. The result is padded by
// Spread+Radius on every side, so its bounds contain mask's bounds.
func Halo(mask *image.Alpha, opts HaloOptions) *image.Alpha {
	if mask == nil || mask.Bounds().Empty() {
		return image.NewAlpha(image.Rectangle{})
	}
	pad := opts.pad()
	out := image.NewAlpha(mask.Bounds().Inset(-pad))
	draw.Draw(out, mask.Bounds(), mask, mask.Bounds().Min, draw.Src)
	if opts.Spread > 0 {
		out = dilate(out, opts.Spread)
	}
	out = blurAlpha(out, opts.Radius)
	opacity := min(max(opts.Opacity, 0), 1)
	if opacity < 1 {
		for i, a := range out.Pix {
			out.Pix[i] = uint8(float64(a)*opacity + 0.5)
		}
	}
	return out
}

// DrawText paints s on dst with its baseline starting at dot, over a halo
// built from opts. It returns the rectangle touched, halo included.
func DrawText(dst draw.Image, face font.Face, s string, dot image.Point, fg color.Color, opts HaloOptions) image.Rectangle {
	if s == "" {
		return image.Rectangle{}
	}
	bounds, _ := font.BoundString(face, s)
	glyphs := image.Rect(
		bounds.Min.X.Floor(), bounds.Min.Y.Floor(),
		bounds.Max.X.Ceil(), bounds.Max.Y.Ceil(),
	).Add(dot)
	if glyphs.Empty() {
		return image.Rectangle{}
	}
	mask := image.NewAlpha(glyphs)
	d := &font.Drawer{Dst: mask, Src: image.Opaque, Face: face, Dot: fixed.P(dot.X, dot.Y)}
	d.DrawString(s)

	touched := glyphs
	if opts.Opacity > 0 {
		halo := Halo(mask, opts)
		draw.DrawMask(dst, halo.Bounds(), image.NewUniform(opts.Color), image.Point{}, halo, halo.Bounds().Min, draw.Over)
		touched = halo.Bounds()
	}
	draw.DrawMask(dst, glyphs, image.NewUniform(fg), image.Point{}, mask, glyphs.Min, draw.Over)
	return touched.Intersect(dst.Bounds())
}

// dilate grows every covered pixel into a square of the given radius.
// imaging has no morphological filters, so this is a plain max filter.
func dilate(src *image.Alpha, radius int) *image.Alpha {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := image.NewAlpha(b)
	out := image.NewAlpha(b)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for x := 0; x < w; x++ {
			var m uint8
			for k := max(x-radius, 0); k <= min(x+radius, w-1); k++ {
				m = max(m, row[k])
			}
			tmp.Pix[y*tmp.Stride+x] = m
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			var m uint8
			for k := max(y-radius, 0); k <= min(y+radius, h-1); k++ {
				m = max(m, tmp.Pix[k*tmp.Stride+x])
			}
			out.Pix[y*out.Stride+x] = m
		}
	}
	return out
}

// blurAlpha softens src with a Gaussian of sigma radius/2, which fades out
// about radius pixels past the edge of the mask.
func blurAlpha(src *image.Alpha, radius int) *image.Alpha {
	b := src.Bounds()
	out := image.NewAlpha(b)
	if radius <= 0 {
		draw.Draw(out, b, src, b.Min, draw.Src)
		return out
	}
	blurred := imaging.Blur(src, float64(radius)/2)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Pix[y*out.Stride+x] = blurred.Pix[y*blurred.Stride+x*4+3]
		}
	}
	return out
}

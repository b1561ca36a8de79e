// Package compositor paints one viewer frame: the zoomed and panned image,
// every annotation with its selection highlight, drag previews and the
// readout overlay.
package compositor

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/roiview/internal/annotation"
	"github.com/example/roiview/internal/input"
	"github.com/example/roiview/internal/render"
	"github.com/example/roiview/internal/viewport"
)

// Frame is everything a render needs. It holds copies, so rendering never
// observes or changes engine state.
type Frame struct {
	Image   image.Image
	Name    string
	View    viewport.State
	Shapes  annotation.Snapshot
	Pulse   annotation.Pulse
	Mode    input.Mode
	Preview input.Preview
	Pointer input.Pointer
}

// Options controls colours and fonts.
type Options struct {
	Background  color.RGBA
	Placeholder color.RGBA
	HUDText     color.RGBA
	Halo        render.HaloOptions
	LabelFace   font.Face
	HUDFace     font.Face
	// HideHUD suppresses the name and readout text.
	HideHUD bool
}

// DefaultOptions returns black canvas, gray placeholder and white HUD text.
func DefaultOptions() Options {
	return Options{
		Background:  color.RGBA{0, 0, 0, 255},
		Placeholder: color.RGBA{50, 50, 50, 255},
		HUDText:     color.RGBA{255, 255, 255, 255},
		Halo:        render.DefaultHaloOptions(),
		LabelFace:   basicfont.Face7x13,
		HUDFace:     hudFace,
	}
}

// Compositor renders frames. It is stateless apart from its options and
// may be shared.
type Compositor struct {
	opts Options
}

// New returns a compositor using opts. Zero fonts fall back to defaults.
func New(opts Options) *Compositor {
	def := DefaultOptions()
	if opts.LabelFace == nil {
		opts.LabelFace = def.LabelFace
	}
	if opts.HUDFace == nil {
		opts.HUDFace = def.HUDFace
	}
	return &Compositor{opts: opts}
}

var (
	previewRect    = color.RGBA{0, 255, 0, 255}
	previewAlt     = color.RGBA{0, 90, 0, 255}
	previewLine    = color.RGBA{0, 255, 255, 255}
	previewCaption = color.RGBA{255, 255, 0, 255}
	draftEdge      = color.RGBA{0, 255, 255, 255}
	draftVertex    = color.RGBA{255, 255, 0, 255}
	draftClosing   = color.RGBA{255, 255, 0, 255}
)

// Render returns a new image of the viewport size holding f.
func (c *Compositor) Render(f Frame) *image.RGBA {
	size := f.View.View
	if size.X <= 0 || size.Y <= 0 {
		size = image.Pt(320, 240)
		if f.Image != nil && !f.Image.Bounds().Empty() {
			size = viewport.ScaledSize(f.Image.Bounds().Size(), f.View.Zoom)
		}
	}
	dst := image.NewRGBA(image.Rectangle{Max: size})
	c.RenderInto(dst, f)
	return dst
}

// RenderInto paints f onto dst, replacing its contents.
func (c *Compositor) RenderInto(dst *image.RGBA, f Frame) {
	if f.Image == nil || f.Image.Bounds().Empty() {
		c.placeholder(dst)
		return
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c.opts.Background), image.Point{}, draw.Src)

	src := f.Image
	imgSize := src.Bounds().Size()
	vp := f.View
	if vp.View.X <= 0 || vp.View.Y <= 0 {
		vp.View = dst.Bounds().Size()
	}
	vp.Pan = viewport.ClampPan(vp, imgSize)

	scaled := viewport.ScaledSize(imgSize, vp.Zoom)
	canvas := image.Rectangle{Max: scaled}.Sub(vp.Pan).Add(dst.Bounds().Min)
	xdraw.NearestNeighbor.Scale(dst, canvas, src, src.Bounds(), draw.Src, nil)

	p := painter{dst: dst, vp: vp, img: imgSize, origin: dst.Bounds().Min, face: c.opts.LabelFace, pulse: f.Pulse}
	p.rects(f.Shapes)
	p.lines(f.Shapes)
	p.polygons(f.Shapes)
	p.preview(f.Preview)
	if f.Mode == input.ModePolygon {
		p.draft(f.Shapes.Current, f.Pointer)
	}

	if !c.opts.HideHUD {
		c.hud(dst, f, vp)
	}
}

func (c *Compositor) placeholder(dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c.opts.Placeholder), image.Point{}, draw.Src)
	if c.opts.HideHUD {
		return
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c.opts.HUDText), Face: c.opts.HUDFace}
	d.Dot = fixed.P(dst.Bounds().Min.X+50, dst.Bounds().Min.Y+50)
	d.DrawString("No images loaded")
}

// painter maps original coordinates into dst for one frame.
type painter struct {
	dst    *image.RGBA
	vp     viewport.State
	img    image.Point
	origin image.Point
	face   font.Face
	pulse  annotation.Pulse
}

// edge maps the top-left corner of an original pixel.
func (p painter) edge(pt image.Point) image.Point {
	return viewport.OriginalEdge(pt, p.vp, p.img).Add(p.origin)
}

// centre maps the middle of an original pixel.
func (p painter) centre(pt image.Point) image.Point {
	return viewport.OriginalToView(pt, p.vp, p.img).Add(p.origin)
}

func (p painter) rectBounds(r annotation.Rect) image.Rectangle {
	return image.Rectangle{Min: p.edge(r.Min()), Max: p.edge(r.Max())}
}

func (p painter) label(s string, at image.Point, col color.Color) {
	d := &font.Drawer{Dst: p.dst, Src: image.NewUniform(col), Face: p.face, Dot: fixed.P(at.X, at.Y)}
	d.DrawString(s)
}

// captionY puts a caption above y, or below it when too close to the top.
func (p painter) captionY(y, above, below int) int {
	if y-above > p.origin.Y+10 {
		return y - above
	}
	return y + below
}

func (p painter) rects(sn annotation.Snapshot) {
	for i, r := range sn.Rects {
		if r.Empty() {
			continue
		}
		st := sn.StyleFor(annotation.KindRect, i)
		vr := p.rectBounds(r)
		if st.Selected {
			blendRect(p.dst, vr, st.Color, p.pulse.AlphaFor(annotation.KindRect, true))
		}
		drawRect(p.dst, vr, st.Color, st.Thickness)
		if st.Selected {
			drawRect(p.dst, vr.Inset(-2-st.Thickness/2), st.Color, 1)
		}
		p.label(fmt.Sprintf("R%d: %s", i+1, r), image.Pt(vr.Min.X, p.captionY(vr.Min.Y, 7, 20)), st.Label)
	}
}

func (p painter) lines(sn annotation.Snapshot) {
	for i, l := range sn.Lines {
		st := sn.StyleFor(annotation.KindLine, i)
		a, b := p.centre(l.Start()), p.centre(l.End())
		drawLine(p.dst, a, b, st.Color, st.Thickness)
		if st.Selected {
			drawFilledCircle(p.dst, a, st.Marker, st.Color)
			drawFilledCircle(p.dst, b, st.Marker, st.Color)
			pa, pb := offsetSegment(a, b, float64(3+st.Thickness/2))
			drawLine(p.dst, pa, pb, st.Color, 1)
		}
		p.label(fmt.Sprintf("L%d: %s", i+1, l), image.Pt(a.X+5, p.captionY(a.Y, 5, 15)), st.Label)
	}
}

func (p painter) polygons(sn annotation.Snapshot) {
	for i, poly := range sn.Polygons {
		if len(poly) < 2 {
			continue
		}
		st := sn.StyleFor(annotation.KindPolygon, i)
		pts := make([]image.Point, len(poly))
		for j, v := range poly {
			pts[j] = p.centre(v)
		}
		if st.Selected {
			blendPolygon(p.dst, pts, st.Color, p.pulse.AlphaFor(annotation.KindPolygon, true))
		}
		drawPolyline(p.dst, pts, true, st.Color, st.Thickness)
		if st.Selected {
			for _, v := range pts {
				drawFilledCircle(p.dst, v, st.Marker, st.Color)
			}
		}
		p.label(fmt.Sprintf("Polygon %d: %d points", i+1, len(poly)), image.Pt(pts[0].X, p.captionY(pts[0].Y, 10, 20)), st.Label)
	}
}

func (p painter) preview(pv input.Preview) {
	if !pv.Active {
		return
	}
	switch pv.Kind {
	case annotation.KindRect:
		if pv.Rect.Empty() {
			return
		}
		vr := p.rectBounds(pv.Rect)
		drawDashedRect(p.dst, vr, 4, previewRect, previewAlt)
		p.label(pv.Rect.String(), image.Pt(vr.Min.X, p.captionY(vr.Min.Y, 5, 15)), previewCaption)
	case annotation.KindLine:
		a, b := p.centre(pv.Line.Start()), p.centre(pv.Line.End())
		drawLine(p.dst, a, b, previewLine, 2)
		p.label(pv.Line.String(), image.Pt(a.X, a.Y-10), previewLine)
	}
}

// draft paints the polygon under construction: its open edges, a hollow
// marker per vertex, a guide to the pointer and a closing guide back to
// the first vertex.
func (p painter) draft(cur annotation.Polygon, ptr input.Pointer) {
	if len(cur) == 0 {
		return
	}
	pts := make([]image.Point, len(cur))
	for i, v := range cur {
		pts[i] = p.centre(v)
	}
	drawPolyline(p.dst, pts, false, draftEdge, 1)
	for _, v := range pts {
		drawCircle(p.dst, v, 5, draftVertex)
	}
	last := pts[len(pts)-1]
	if ptr.Known {
		drawLine(p.dst, last, p.centre(ptr.Original), draftEdge, 1)
	}
	if len(pts) > 1 {
		drawLine(p.dst, last, pts[0], draftClosing, 1)
	}
}

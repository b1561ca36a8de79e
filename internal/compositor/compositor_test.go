package compositor

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/example/roiview/internal/annotation"
	"github.com/example/roiview/internal/input"
	"github.com/example/roiview/internal/viewport"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func quiet() *Compositor {
	opts := DefaultOptions()
	opts.HideHUD = true
	return New(opts)
}

func frameFor(img image.Image, store *annotation.Store, view image.Point) Frame {
	anim := annotation.NewAnimator(annotation.DefaultAnimation(), annotation.DefaultStyles())
	return Frame{
		Image:  img,
		View:   viewport.State{Zoom: 1, View: view},
		Shapes: store.Snapshot(),
		Pulse:  anim.Snapshot(),
	}
}

func newStore() *annotation.Store {
	return annotation.NewStore(annotation.DefaultThresholds(), annotation.DefaultStyles())
}

func TestPlaceholder(t *testing.T) {
	c := New(DefaultOptions())
	for _, img := range []image.Image{nil, image.NewRGBA(image.Rectangle{})} {
		out := c.Render(Frame{Image: img, View: viewport.State{Zoom: 1, View: image.Pt(120, 80)}})
		if !out.Bounds().Eq(image.Rect(0, 0, 120, 80)) {
			t.Fatalf("bounds %v", out.Bounds())
		}
		if got := out.RGBAAt(5, 5); got != (color.RGBA{50, 50, 50, 255}) {
			t.Fatalf("placeholder pixel %v", got)
		}
		var text bool
		for _, p := range out.Pix {
			if p > 50 {
				text = true
				break
			}
		}
		if !text {
			t.Fatalf("placeholder message missing")
		}
	}
}

func TestNearestNeighbourZoom(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	cols := map[image.Point]color.RGBA{
		{0, 0}: {255, 0, 0, 255},
		{1, 0}: {0, 255, 0, 255},
		{0, 1}: {0, 0, 255, 255},
		{1, 1}: {255, 255, 255, 255},
	}
	for p, c := range cols {
		src.SetRGBA(p.X, p.Y, c)
	}
	f := frameFor(src, newStore(), image.Pt(20, 20))
	f.View.Zoom = 10
	out := quiet().Render(f)
	for p, c := range cols {
		for _, d := range []image.Point{{0, 0}, {9, 9}, {4, 7}} {
			at := p.Mul(10).Add(d)
			if got := out.RGBAAt(at.X, at.Y); got != c {
				t.Fatalf("pixel %v = %v, want %v", at, got, c)
			}
		}
	}
}

func TestPanIsClamped(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	src.SetRGBA(5, 5, red)
	f := frameFor(src, newStore(), image.Pt(10, 10))
	f.View.Zoom = 2
	f.View.Pan = image.Pt(1000, 1000)
	out := quiet().Render(f)
	if got := out.RGBAAt(0, 0); got != red {
		t.Fatalf("expected clamped pan to show pixel (5,5) at origin, got %v", got)
	}
}

func TestRectOutlineAndSelection(t *testing.T) {
	store := newStore()
	store.CommitRect(annotation.Rect{X: 10, Y: 40, W: 30, H: 30})
	store.ClearSelections()
	out := quiet().Render(frameFor(solid(100, 100, black), store, image.Pt(100, 100)))
	if got := out.RGBAAt(10, 55); got != red {
		t.Fatalf("edge pixel %v, want red", got)
	}
	if got := out.RGBAAt(25, 55); got != black {
		t.Fatalf("unselected interior %v, want black", got)
	}

	store.Select(annotation.KindRect, 0)
	out = quiet().Render(frameFor(solid(100, 100, black), store, image.Pt(100, 100)))
	if got := out.RGBAAt(10, 55); got != green {
		t.Fatalf("selected edge %v, want green", got)
	}
	in := out.RGBAAt(25, 55)
	if in.R != 0 || in.G == 0 || in.G > 60 {
		t.Fatalf("selected interior %v, want a faint green wash", in)
	}
	if got := out.RGBAAt(7, 55); got != green {
		t.Fatalf("outset outline missing, got %v", got)
	}
}

func TestLineAndPolygon(t *testing.T) {
	store := newStore()
	store.CommitLine(annotation.Line{X1: 10, Y1: 80, X2: 90, Y2: 80})
	for _, p := range []image.Point{{20, 20}, {60, 20}, {60, 60}, {20, 60}} {
		store.AddPolygonPoint(p)
	}
	store.ClosePolygon()
	store.Select(annotation.KindLine, -1)

	out := quiet().Render(frameFor(solid(100, 100, black), store, image.Pt(100, 100)))
	if got := out.RGBAAt(50, 80); got != (color.RGBA{255, 0, 255, 255}) {
		t.Fatalf("line pixel %v, want magenta", got)
	}
	if got := out.RGBAAt(40, 20); got != green {
		t.Fatalf("selected polygon edge %v, want green", got)
	}
	in := out.RGBAAt(40, 45)
	if in.G == 0 || in.R != 0 {
		t.Fatalf("polygon interior %v, want green wash", in)
	}
}

func TestDraftOnlyInPolygonMode(t *testing.T) {
	store := newStore()
	store.AddPolygonPoint(image.Pt(10, 50))
	store.AddPolygonPoint(image.Pt(90, 50))
	f := frameFor(solid(100, 100, black), store, image.Pt(100, 100))

	f.Mode = input.ModeRectangle
	if got := quiet().Render(f).RGBAAt(50, 50); got != black {
		t.Fatalf("draft drawn outside polygon mode: %v", got)
	}
	f.Mode = input.ModePolygon
	if got := quiet().Render(f).RGBAAt(50, 50); got == black {
		t.Fatalf("draft edge missing in polygon mode")
	}
}

func TestPreviewRect(t *testing.T) {
	f := frameFor(solid(100, 100, black), newStore(), image.Pt(100, 100))
	f.Preview = input.Preview{Active: true, Kind: annotation.KindRect, Rect: annotation.Rect{X: 20, Y: 40, W: 40, H: 40}}
	out := quiet().Render(f)
	if got := out.RGBAAt(20, 41); got.G == 0 {
		t.Fatalf("preview edge missing: %v", got)
	}
}

func TestRenderIsPure(t *testing.T) {
	store := newStore()
	store.CommitRect(annotation.Rect{X: 5, Y: 30, W: 20, H: 20})
	f := frameFor(solid(64, 64, color.RGBA{10, 20, 30, 255}), store, image.Pt(64, 64))
	f.Pointer = input.Pointer{Known: true, Inside: true, Original: image.Pt(3, 3)}
	before := store.Snapshot()
	c := New(DefaultOptions())
	a, b := c.Render(f), c.Render(f)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("two renders of one frame differ")
	}
	if after := store.Snapshot(); len(after.Rects) != len(before.Rects) || after.Rects[0] != before.Rects[0] {
		t.Fatalf("render changed the store")
	}
}

func TestPixelReadout(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	gray.Pix[5] = 77
	rgb := solid(4, 4, color.RGBA{1, 2, 3, 255})
	cases := []struct {
		name string
		img  image.Image
		ptr  input.Pointer
		want string
	}{
		{"gray", gray, input.Pointer{Known: true, Inside: true, Original: image.Pt(1, 1)}, "Gray:77"},
		{"rgb", rgb, input.Pointer{Known: true, Inside: true, Original: image.Pt(2, 2)}, "RGB:(1,2,3)"},
		{"outside", rgb, input.Pointer{Known: true, Inside: false}, "Out of Bounds"},
		{"unknown", rgb, input.Pointer{}, "Out of Bounds"},
		{"nil", nil, input.Pointer{Known: true, Inside: true}, "Out of Bounds"},
	}
	for _, c := range cases {
		if got := PixelReadout(c.img, c.ptr); got != c.want {
			t.Errorf("%s: got %q want %q", c.name, got, c.want)
		}
	}
}

func TestFractionalZoomMatchesPointer(t *testing.T) {
	size := image.Pt(13, 9)
	src := image.NewRGBA(image.Rectangle{Max: size})
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			src.SetRGBA(x, y, color.RGBA{uint8(x * 19), uint8(y * 27), 0, 255})
		}
	}
	for _, zoom := range []float64{0.87, 1.15, 1.3225, 1.5, 2.3} {
		f := frameFor(src, newStore(), image.Pt(20, 12))
		f.View.Zoom = zoom
		f.View.Pan = image.Pt(3, 2)
		out := quiet().Render(f)

		vp := f.View
		vp.Pan = viewport.ClampPan(vp, size)
		scaled := viewport.ScaledSize(size, zoom)
		for dy := 0; dy < vp.View.Y && dy+vp.Pan.Y < scaled.Y; dy++ {
			for dx := 0; dx < vp.View.X && dx+vp.Pan.X < scaled.X; dx++ {
				o := viewport.ViewToOriginal(image.Pt(dx, dy), vp, size)
				if got, want := out.RGBAAt(dx, dy), src.RGBAAt(o.X, o.Y); got != want {
					t.Fatalf("zoom %v: device (%d,%d) shows %v, pointer maps to %v (%v)", zoom, dx, dy, got, o, want)
				}
			}
		}
	}
}

package compositor

import (
	"fmt"
	"image"
	"image/color"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/example/roiview/internal/input"
	"github.com/example/roiview/internal/render"
	"github.com/example/roiview/internal/viewport"
)

var hudFace font.Face = basicfont.Face7x13

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		logrus.WithError(err).Warn("parse HUD font, using fixed face")
		return
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 14, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		logrus.WithError(err).Warn("HUD font face, using fixed face")
		return
	}
	hudFace = face
}

// hudLineHeight is the distance between readout baselines.
const hudLineHeight = 20

func (c *Compositor) hud(dst *image.RGBA, f Frame, vp viewport.State) {
	b := dst.Bounds()
	text := func(s string, at image.Point) {
		render.DrawText(dst, c.opts.HUDFace, s, at, c.opts.HUDText, c.opts.Halo)
	}
	if f.Name != "" {
		text(f.Name, image.Pt(b.Min.X+10, b.Min.Y+20))
	}

	coords := "-"
	if f.Pointer.Known {
		coords = fmt.Sprintf("(%d,%d)", f.Pointer.Original.X, f.Pointer.Original.Y)
	}
	lines := []string{
		PixelReadout(f.Image, f.Pointer),
		"Coords:" + coords,
		fmt.Sprintf("Zoom:%.2f", vp.Zoom),
		modeLine(f),
	}
	y := b.Max.Y - 10
	for _, s := range lines {
		// never let the stack climb past the name line
		text(s, image.Pt(b.Min.X+10, max(y, b.Min.Y+35)))
		y -= hudLineHeight
	}
}

func modeLine(f Frame) string {
	s := "Mode:" + f.Mode.String()
	if f.Mode == input.ModePolygon && len(f.Shapes.Current) > 0 {
		s += fmt.Sprintf(" (%d pts)", len(f.Shapes.Current))
	}
	return s
}

// PixelReadout describes the source pixel under the pointer: "Gray:v" for
// single channel images, "RGB:(r,g,b)" otherwise, and "Out of Bounds" when
// the pointer is off the image.
func PixelReadout(img image.Image, ptr input.Pointer) string {
	if img == nil || !ptr.Known || !ptr.Inside {
		return "Out of Bounds"
	}
	b := img.Bounds()
	pt := ptr.Original.Add(b.Min)
	if !pt.In(b) {
		return "Out of Bounds"
	}
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		g := color.GrayModel.Convert(img.At(pt.X, pt.Y)).(color.Gray)
		return fmt.Sprintf("Gray:%d", g.Y)
	}
	c := color.NRGBAModel.Convert(img.At(pt.X, pt.Y)).(color.NRGBA)
	return fmt.Sprintf("RGB:(%d,%d,%d)", c.R, c.G, c.B)
}

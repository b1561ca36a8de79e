package clipboard

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestPNGRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.SetRGBA(1, 1, color.RGBA{10, 200, 30, 255})
	data, err := encodePNG(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := decodeImage(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("bounds %v", img.Bounds())
	}
	if got := img.NRGBAAt(1, 1); got != (color.NRGBA{10, 200, 30, 255}) {
		t.Fatalf("pixel %v", got)
	}
}

func TestDecodeEmpty(t *testing.T) {
	if _, err := decodeImage(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("got %v, want ErrEmpty", err)
	}
	if _, err := decodeImage([]byte("not an image")); err == nil {
		t.Fatalf("garbage decoded")
	}
}

// Package clipboard moves annotation geometry and rendered frames to and
// from the system clipboard. Images travel as PNG.
package clipboard

import (
	"bytes"
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// ErrEmpty is returned when the clipboard holds no data of the requested
// format.
var ErrEmpty = errors.New("clipboard does not contain the requested data")

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeImage decodes clipboard bytes into an NRGBA image so callers see
// one pixel layout regardless of what the source application pasted.
func decodeImage(data []byte) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return imaging.Clone(img), nil
}

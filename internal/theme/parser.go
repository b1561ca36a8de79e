package theme

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/example/roiview/internal/config"
)

// Parse reads a theme definition from an io.Reader.
// The format is one "Key: colour" pair per line. Colours use the config
// syntax: a name, #rgb, #rrggbb or #rrggbbaa.
func Parse(r io.Reader) (*Theme, error) {
	t := Default() // Start with defaults
	scanner := bufio.NewScanner(r)
	haloSet := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		var dst *color.RGBA
		switch key {
		case "name":
			t.Name = value
			continue
		case "background":
			dst = &t.Background
		case "placeholder":
			dst = &t.Placeholder
		case "text":
			dst = &t.Text
		case "halo":
			dst = &t.Halo
			haloSet = true
		default:
			continue // Unknown field, ignore for forward compatibility
		}
		col, err := config.ParseColor(value)
		if err != nil {
			return nil, fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		*dst = col
	}

	if !haloSet {
		t.Halo = Contrast(t.Text)
	}
	return t, scanner.Err()
}

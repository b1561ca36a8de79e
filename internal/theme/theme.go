// Package theme holds the canvas palette: the colours behind and around the
// image rather than the annotation colours, which live in the config styles.
package theme

import (
	"image/color"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/example/roiview/internal/compositor"
)

// Theme defines the colours the compositor uses outside the shapes.
type Theme struct {
	Name string

	Background  color.RGBA // Canvas behind a zoomed-out image
	Placeholder color.RGBA // Fill when no image is loaded
	Text        color.RGBA // HUD and placeholder text
	Halo        color.RGBA // Outline behind HUD text
}

// Default returns the hardcoded default dark canvas (fallback).
func Default() *Theme {
	return &Theme{
		Name:        "default",
		Background:  color.RGBA{0, 0, 0, 255},
		Placeholder: color.RGBA{50, 50, 50, 255},
		Text:        color.RGBA{255, 255, 255, 255},
		Halo:        color.RGBA{0, 0, 0, 255},
	}
}

var builtin = map[string]func() *Theme{
	"default": Default,
	"light": func() *Theme {
		return &Theme{
			Name:        "light",
			Background:  color.RGBA{220, 220, 220, 255},
			Placeholder: color.RGBA{200, 200, 200, 255},
			Text:        color.RGBA{0, 0, 0, 255},
			Halo:        color.RGBA{255, 255, 255, 255},
		}
	},
	"high_contrast": func() *Theme {
		return &Theme{
			Name:        "high_contrast",
			Background:  color.RGBA{0, 0, 0, 255},
			Placeholder: color.RGBA{0, 0, 0, 255},
			Text:        color.RGBA{255, 255, 0, 255},
			Halo:        color.RGBA{0, 0, 0, 255},
		}
	},
}

// Builtin lists the names of the compiled-in themes.
func Builtin() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Apply copies the theme colours into o.
func (t *Theme) Apply(o compositor.Options) compositor.Options {
	o.Background = t.Background
	o.Placeholder = t.Placeholder
	o.HUDText = t.Text
	o.Halo.Color = t.Halo
	return o
}

// Contrast returns black for light colours and white for dark ones, judged
// by CIE L*.
func Contrast(c color.RGBA) color.RGBA {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return color.RGBA{0, 0, 0, 255}
	}
	if l, _, _ := cf.Lab(); l > 0.5 {
		return color.RGBA{0, 0, 0, 255}
	}
	return color.RGBA{255, 255, 255, 255}
}

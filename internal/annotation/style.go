package annotation

import "image/color"

// Style is the palette entry for one shape kind.
type Style struct {
	Normal   color.RGBA
	Selected color.RGBA
	// Label colours the caption of the selected shape. Other captions use
	// the shape colour.
	Label color.RGBA
	// Thickness is the stroke width in device pixels for unselected shapes.
	Thickness int
	// Alpha is the resting fill opacity. Lines are never filled.
	Alpha float64
	// MarkerRadius sizes line endpoints and polygon vertices when selected.
	MarkerRadius int
}

// StyleTable maps every kind to its palette entry.
type StyleTable map[Kind]Style

// ShapeStyle is the resolved style for one shape.
type ShapeStyle struct {
	Color     color.RGBA
	Label     color.RGBA
	Thickness int
	Alpha     float64
	Marker    int
	Selected  bool
}

var (
	green   = color.RGBA{0, 255, 0, 255}
	red     = color.RGBA{255, 0, 0, 255}
	magenta = color.RGBA{255, 0, 255, 255}
	yellow  = color.RGBA{255, 255, 0, 255}
	cyan    = color.RGBA{0, 255, 255, 255}
)

// DefaultStyles returns the built-in palette.
func DefaultStyles() StyleTable {
	return StyleTable{
		KindRect:    {Normal: red, Selected: green, Label: cyan, Thickness: 2, Alpha: 0.20},
		KindLine:    {Normal: magenta, Selected: green, Label: cyan, Thickness: 2, MarkerRadius: 5},
		KindPolygon: {Normal: yellow, Selected: green, Label: cyan, Thickness: 2, Alpha: 0.15, MarkerRadius: 4},
	}
}

// Clone returns a copy of t with every kind present. Missing kinds take
// the default entry.
func (t StyleTable) Clone() StyleTable {
	out := DefaultStyles()
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Resolve picks the selected or normal entry for kind.
func (t StyleTable) Resolve(kind Kind, selected bool) ShapeStyle {
	st, ok := t[kind]
	if !ok {
		st = DefaultStyles()[kind]
	}
	thickness := max(st.Thickness, 1)
	out := ShapeStyle{
		Color:     st.Normal,
		Label:     st.Normal,
		Thickness: thickness,
		Alpha:     st.Alpha,
		Marker:    st.MarkerRadius,
	}
	if selected {
		out.Color = st.Selected
		out.Label = st.Label
		out.Thickness = thickness + 1
		out.Selected = true
	}
	return out
}

package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/example/roiview/internal/annotation"
)

// Parse reads configuration from an io.Reader. Missing keys keep their
// defaults and unknown keys are ignored.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentKind annotation.Kind
	var inStyle bool

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			inStyle = false
			if name, ok := strings.CutPrefix(currentSection, "style."); ok {
				k, err := annotation.ParseKind(name)
				if err != nil {
					return nil, fmt.Errorf("section [%s]: %w", currentSection, err)
				}
				currentKind, inStyle = k, true
			}
			continue
		}

		// Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case inStyle:
			st := cfg.Styles[currentKind]
			err = setStyleField(&st, key, value)
			cfg.Styles[currentKind] = st
		case currentSection == "viewport":
			err = setViewportField(&cfg.Viewport, key, value)
		case currentSection == "annotation":
			err = setAnnotationField(&cfg.Annotation, key, value)
		case currentSection == "animation":
			err = setAnimationField(&cfg.Animation, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func parseInt(key, value string, dst *int) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	*dst = n
	return nil
}

func parseFloat(key, value string, dst *float64) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	*dst = f
	return nil
}

func parseBool(key, value string, dst *bool) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setViewportField(v *Viewport, key, value string) error {
	switch key {
	case "screen_width":
		return parseInt(key, value, &v.ScreenWidth)
	case "screen_height":
		return parseInt(key, value, &v.ScreenHeight)
	case "min_zoom":
		return parseFloat(key, value, &v.MinZoom)
	case "max_zoom":
		return parseFloat(key, value, &v.MaxZoom)
	case "zoom_step":
		return parseFloat(key, value, &v.ZoomStep)
	case "fast_zoom_step":
		return parseFloat(key, value, &v.FastZoomStep)
	case "fit_on_open":
		return parseBool(key, value, &v.FitOnOpen)
	case "theme":
		v.Theme = value
	}
	return nil
}

func setAnnotationField(a *Annotation, key, value string) error {
	switch key {
	case "close_distance":
		return parseFloat(key, value, &a.CloseDistance)
	case "min_line_length":
		return parseFloat(key, value, &a.MinLineLength)
	case "double_click_ms":
		return parseInt(key, value, &a.DoubleClickMS)
	}
	return nil
}

func setAnimationField(a *Animation, key, value string) error {
	switch key {
	case "enabled":
		return parseBool(key, value, &a.Enabled)
	case "pulse_max":
		return parseInt(key, value, &a.PulseMax)
	case "pulse_speed":
		return parseInt(key, value, &a.PulseSpeed)
	case "min_alpha":
		return parseFloat(key, value, &a.MinAlpha)
	case "max_alpha":
		return parseFloat(key, value, &a.MaxAlpha)
	case "tick_ms":
		return parseInt(key, value, &a.TickMS)
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	switch key {
	case "copy":
		return parseBool(key, value, &n.Copy)
	}
	return nil
}

func setStyleField(st *annotation.Style, key, value string) error {
	var dst *color.RGBA
	switch key {
	case "normal":
		dst = &st.Normal
	case "selected":
		dst = &st.Selected
	case "label":
		dst = &st.Label
	case "thickness":
		return parseInt(key, value, &st.Thickness)
	case "alpha":
		return parseFloat(key, value, &st.Alpha)
	case "marker_radius":
		return parseInt(key, value, &st.MarkerRadius)
	default:
		return nil
	}
	col, err := ParseColor(value)
	if err != nil {
		return fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	*dst = col
	return nil
}

// ParseColor accepts an SVG colour name, #rgb, #rrggbb or #rrggbbaa.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}
	alpha := uint8(255)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("alpha in %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alpha}, nil
}

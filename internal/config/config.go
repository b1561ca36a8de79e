package config

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/example/roiview/internal/annotation"
	"github.com/example/roiview/internal/viewport"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// Viewport holds window and zoom settings.
type Viewport struct {
	ScreenWidth  int
	ScreenHeight int
	MinZoom      float64
	MaxZoom      float64
	ZoomStep     float64
	FastZoomStep float64
	FitOnOpen    bool
	// Theme names the canvas palette; empty means the built-in default.
	Theme string
}

// Annotation holds gesture tolerances.
type Annotation struct {
	CloseDistance float64
	MinLineLength float64
	DoubleClickMS int
}

// Animation holds the selection pulse settings.
type Animation struct {
	Enabled    bool
	PulseMax   int
	PulseSpeed int
	MinAlpha   float64
	MaxAlpha   float64
	TickMS     int
}

// Notify holds notification settings.
type Notify struct {
	Copy bool
}

// Config holds the application configuration.
type Config struct {
	Viewport   Viewport
	Annotation Annotation
	Animation  Animation
	Notify     Notify
	Styles     annotation.StyleTable
}

// New creates a new Config with defaults.
func New() *Config {
	lim := viewport.DefaultLimits()
	th := annotation.DefaultThresholds()
	an := annotation.DefaultAnimation()
	return &Config{
		Viewport: Viewport{
			ScreenWidth:  800,
			ScreenHeight: 800,
			MinZoom:      lim.MinZoom,
			MaxZoom:      lim.MaxZoom,
			ZoomStep:     lim.Step,
			FastZoomStep: lim.FastStep,
		},
		Annotation: Annotation{
			CloseDistance: th.CloseDistance,
			MinLineLength: th.MinLineLength,
			DoubleClickMS: 400,
		},
		Animation: Animation{
			Enabled:    an.Enabled,
			PulseMax:   an.PulseMax,
			PulseSpeed: an.Speed,
			MinAlpha:   an.MinAlpha,
			MaxAlpha:   an.MaxAlpha,
			TickMS:     30,
		},
		Styles: annotation.DefaultStyles(),
	}
}

// Validate reports the first setting that the viewer cannot run with.
func (c *Config) Validate() error {
	v := c.Viewport
	switch {
	case v.ScreenWidth <= 0 || v.ScreenHeight <= 0:
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalid, v.ScreenWidth, v.ScreenHeight)
	case v.MinZoom <= 0 || v.MaxZoom <= 0:
		return fmt.Errorf("%w: zoom bounds must be positive", ErrInvalid)
	case v.MinZoom > v.MaxZoom:
		return fmt.Errorf("%w: min_zoom %v above max_zoom %v", ErrInvalid, v.MinZoom, v.MaxZoom)
	case v.ZoomStep <= 1 || v.FastZoomStep <= 1:
		return fmt.Errorf("%w: zoom steps must be above 1", ErrInvalid)
	}
	a := c.Animation
	switch {
	case a.PulseMax <= 0:
		return fmt.Errorf("%w: pulse_max must be positive", ErrInvalid)
	case a.PulseSpeed <= 0:
		return fmt.Errorf("%w: pulse_speed must be positive", ErrInvalid)
	case a.MinAlpha < 0 || a.MaxAlpha > 1 || a.MinAlpha > a.MaxAlpha:
		return fmt.Errorf("%w: alpha range [%v,%v]", ErrInvalid, a.MinAlpha, a.MaxAlpha)
	case a.TickMS <= 0:
		return fmt.Errorf("%w: tick_ms must be positive", ErrInvalid)
	}
	if c.Annotation.CloseDistance < 0 || c.Annotation.MinLineLength < 0 {
		return fmt.Errorf("%w: negative annotation threshold", ErrInvalid)
	}
	for k, st := range c.Styles {
		if st.Alpha < 0 || st.Alpha > 1 {
			return fmt.Errorf("%w: style.%s alpha %v", ErrInvalid, k, st.Alpha)
		}
	}
	return nil
}

// Limits returns the zoom limits.
func (c *Config) Limits() viewport.Limits {
	v := c.Viewport
	return viewport.Limits{MinZoom: v.MinZoom, MaxZoom: v.MaxZoom, Step: v.ZoomStep, FastStep: v.FastZoomStep}
}

// Thresholds returns the gesture tolerances.
func (c *Config) Thresholds() annotation.Thresholds {
	return annotation.Thresholds{CloseDistance: c.Annotation.CloseDistance, MinLineLength: c.Annotation.MinLineLength}
}

// AnimationConfig returns the selection pulse settings.
func (c *Config) AnimationConfig() annotation.AnimationConfig {
	a := c.Animation
	return annotation.AnimationConfig{Enabled: a.Enabled, PulseMax: a.PulseMax, Speed: a.PulseSpeed, MinAlpha: a.MinAlpha, MaxAlpha: a.MaxAlpha}
}

// DoubleClick returns the right double click window.
func (c *Config) DoubleClick() time.Duration {
	return time.Duration(c.Annotation.DoubleClickMS) * time.Millisecond
}

// TickInterval returns the frame tick period.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Animation.TickMS) * time.Millisecond
}

// ScreenSize returns the initial window size.
func (c *Config) ScreenSize() image.Point {
	return image.Pt(c.Viewport.ScreenWidth, c.Viewport.ScreenHeight)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	v := c.Viewport
	sb.WriteString("[viewport]\n")
	fmt.Fprintf(&sb, "screen_width = %d\n", v.ScreenWidth)
	fmt.Fprintf(&sb, "screen_height = %d\n", v.ScreenHeight)
	fmt.Fprintf(&sb, "min_zoom = %v\n", v.MinZoom)
	fmt.Fprintf(&sb, "max_zoom = %v\n", v.MaxZoom)
	fmt.Fprintf(&sb, "zoom_step = %v\n", v.ZoomStep)
	fmt.Fprintf(&sb, "fast_zoom_step = %v\n", v.FastZoomStep)
	fmt.Fprintf(&sb, "fit_on_open = %v\n", v.FitOnOpen)
	if v.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", v.Theme)
	}
	sb.WriteString("\n")

	a := c.Annotation
	sb.WriteString("[annotation]\n")
	fmt.Fprintf(&sb, "close_distance = %v\n", a.CloseDistance)
	fmt.Fprintf(&sb, "min_line_length = %v\n", a.MinLineLength)
	fmt.Fprintf(&sb, "double_click_ms = %d\n", a.DoubleClickMS)
	sb.WriteString("\n")

	an := c.Animation
	sb.WriteString("[animation]\n")
	fmt.Fprintf(&sb, "enabled = %v\n", an.Enabled)
	fmt.Fprintf(&sb, "pulse_max = %d\n", an.PulseMax)
	fmt.Fprintf(&sb, "pulse_speed = %d\n", an.PulseSpeed)
	fmt.Fprintf(&sb, "min_alpha = %v\n", an.MinAlpha)
	fmt.Fprintf(&sb, "max_alpha = %v\n", an.MaxAlpha)
	fmt.Fprintf(&sb, "tick_ms = %d\n", an.TickMS)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Kinds in declaration order for deterministic output
	styles := c.Styles.Clone()
	for _, k := range annotation.Kinds {
		st := styles[k]
		fmt.Fprintf(&sb, "[style.%s]\n", k)
		fmt.Fprintf(&sb, "normal = %s\n", toHex(st.Normal))
		fmt.Fprintf(&sb, "selected = %s\n", toHex(st.Selected))
		fmt.Fprintf(&sb, "label = %s\n", toHex(st.Label))
		fmt.Fprintf(&sb, "thickness = %d\n", st.Thickness)
		fmt.Fprintf(&sb, "alpha = %v\n", st.Alpha)
		fmt.Fprintf(&sb, "marker_radius = %d\n", st.MarkerRadius)
		sb.WriteString("\n")
	}

	return sb.String()
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
		return cf.Hex()
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

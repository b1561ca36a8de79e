package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/roiview/internal/annotation"
)

func TestParse(t *testing.T) {
	input := `
# window
[viewport]
screen_width = 1024
screen_height: 768
max_zoom = 16
fit_on_open = true

[annotation]
close_distance = 12.5
double_click_ms = 250

[animation]
enabled = false
pulse_max = 20

[notify]
copy = true

[style.rect]
normal = "orange"
selected = #0f0
label = #11223344
thickness = 3
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Viewport.ScreenWidth != 1024 || cfg.Viewport.ScreenHeight != 768 {
		t.Errorf("screen = %dx%d", cfg.Viewport.ScreenWidth, cfg.Viewport.ScreenHeight)
	}
	if cfg.Viewport.MaxZoom != 16 || cfg.Viewport.MinZoom != 0.1 {
		t.Errorf("zoom bounds = %v..%v", cfg.Viewport.MinZoom, cfg.Viewport.MaxZoom)
	}
	if !cfg.Viewport.FitOnOpen {
		t.Error("Expected fit_on_open to be true")
	}
	if cfg.Annotation.CloseDistance != 12.5 || cfg.Annotation.MinLineLength != 5 {
		t.Errorf("annotation = %+v", cfg.Annotation)
	}
	if cfg.DoubleClick() != 250*time.Millisecond {
		t.Errorf("double click = %v", cfg.DoubleClick())
	}
	if cfg.Animation.Enabled || cfg.Animation.PulseMax != 20 {
		t.Errorf("animation = %+v", cfg.Animation)
	}
	if !cfg.Notify.Copy {
		t.Error("Expected notify.copy to be true")
	}

	rect := cfg.Styles[annotation.KindRect]
	if rect.Normal != (color.RGBA{255, 165, 0, 255}) {
		t.Errorf("normal = %v", rect.Normal)
	}
	if rect.Selected != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("selected = %v", rect.Selected)
	}
	if rect.Label != (color.RGBA{0x11, 0x22, 0x33, 0x44}) {
		t.Errorf("label = %v", rect.Label)
	}
	if rect.Thickness != 3 || rect.Alpha != 0.2 {
		t.Errorf("rect style = %+v", rect)
	}
	if cfg.Styles[annotation.KindLine] != annotation.DefaultStyles()[annotation.KindLine] {
		t.Errorf("line style changed without a section")
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"bad int":    "[viewport]\nscreen_width = wide\n",
		"bad bool":   "[notify]\ncopy = maybe\n",
		"bad color":  "[style.line]\nnormal = #12\n",
		"bad name":   "[style.line]\nnormal = notacolor\n",
		"bad kind":   "[style.circle]\nnormal = red\n",
		"bad float":  "[annotation]\nclose_distance = far\n",
		"bad alpha8": "[style.rect]\nlabel = #112233zz\n",
	}
	for name, input := range cases {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `[viewport]
min_zoom = 0.25
zoom_step = 1.2
theme = light

[animation]
pulse_speed = 3
max_alpha = 0.6

[notify]
copy = true

[style.polygon]
normal = #123456
alpha = 0.3
marker_radius = 6
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	// 4. Compare
	if cfg.Viewport != cfg2.Viewport {
		t.Errorf("Viewport mismatch: %+v vs %+v", cfg.Viewport, cfg2.Viewport)
	}
	if cfg.Annotation != cfg2.Annotation {
		t.Errorf("Annotation mismatch: %+v vs %+v", cfg.Annotation, cfg2.Annotation)
	}
	if cfg.Animation != cfg2.Animation {
		t.Errorf("Animation mismatch: %+v vs %+v", cfg.Animation, cfg2.Animation)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	for _, k := range annotation.Kinds {
		if cfg.Styles[k] != cfg2.Styles[k] {
			t.Errorf("style %s mismatch: %+v vs %+v", k, cfg.Styles[k], cfg2.Styles[k])
		}
	}
}

func TestValidate(t *testing.T) {
	if err := New().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	cases := map[string]func(*Config){
		"zero min zoom":  func(c *Config) { c.Viewport.MinZoom = 0 },
		"inverted zoom":  func(c *Config) { c.Viewport.MinZoom, c.Viewport.MaxZoom = 5, 2 },
		"flat step":      func(c *Config) { c.Viewport.ZoomStep = 1 },
		"no pulse":       func(c *Config) { c.Animation.PulseMax = 0 },
		"alpha above 1":  func(c *Config) { c.Animation.MaxAlpha = 1.5 },
		"alpha inverted": func(c *Config) { c.Animation.MinAlpha = 0.5; c.Animation.MaxAlpha = 0.2 },
		"style alpha": func(c *Config) {
			st := c.Styles[annotation.KindRect]
			st.Alpha = -1
			c.Styles[annotation.KindRect] = st
		},
		"empty screen": func(c *Config) { c.Viewport.ScreenWidth = 0 },
	}
	for name, mutate := range cases {
		cfg := New()
		mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: got %v, want ErrInvalid", name, err)
		}
	}
}

func TestConversions(t *testing.T) {
	cfg := New()
	cfg.Viewport.MaxZoom = 4
	cfg.Animation.PulseSpeed = 2
	if l := cfg.Limits(); l.MaxZoom != 4 || l.Step != 1.15 {
		t.Errorf("limits = %+v", l)
	}
	if a := cfg.AnimationConfig(); a.Speed != 2 || !a.Enabled {
		t.Errorf("animation = %+v", a)
	}
	if th := cfg.Thresholds(); th != annotation.DefaultThresholds() {
		t.Errorf("thresholds = %+v", th)
	}
	if cfg.TickInterval() != 30*time.Millisecond {
		t.Errorf("tick = %v", cfg.TickInterval())
	}
}

func TestLoaderPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())

	l := NewLoader("v1.0.0", "")
	if p := l.GetConfigPath(); p != "" {
		t.Fatalf("unexpected config path %q", p)
	}
	cfg, err := l.Load()
	if err != nil || cfg.Viewport.ScreenWidth != 800 {
		t.Fatalf("defaults not returned: %v", err)
	}

	cfg.Notify.Copy = true
	saved, err := l.Save(cfg)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if want := filepath.Join(home, ".config", "roiview", "config.rc"); saved != want {
		t.Fatalf("saved to %q, want %q", saved, want)
	}
	if got, err := l.Load(); err != nil || !got.Notify.Copy {
		t.Fatalf("reload: %+v, %v", got, err)
	}

	if err := os.WriteFile(".roiviewrc", []byte("[viewport]\nscreen_width = 640\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, _ := NewLoader("dev", "").Load(); got.Viewport.ScreenWidth != 640 {
		t.Errorf("dev build ignored .roiviewrc")
	}
	if got, _ := l.Load(); got.Viewport.ScreenWidth != 800 {
		t.Errorf("release build read .roiviewrc")
	}

	override := filepath.Join(t.TempDir(), "custom.rc")
	if err := os.WriteFile(override, []byte("[viewport]\nmin_zoom = 3\nmax_zoom = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader("dev", override).Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("invalid override loaded: %v", err)
	}
}

// chdir is the pre-Go-1.24 equivalent of t.Chdir: it switches the working
// directory for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/example/roiview/internal/appstate"
	"github.com/example/roiview/internal/clipboard"
	"github.com/example/roiview/internal/compositor"
	"github.com/example/roiview/internal/input"
	"github.com/example/roiview/internal/theme"
	"github.com/example/roiview/internal/viewer"
)

type viewCmd struct {
	r             *root
	fs            *flag.FlagSet
	fit           bool
	fromClipboard bool
	mode          input.Mode
	themeName     string
	files         []string

	readClipboard func() (*image.NRGBA, error)
	show          func(*appstate.AppState)
}

func (v *viewCmd) Program() string { return v.r.subcommand("view") }

func (v *viewCmd) FlagSet() *flag.FlagSet { return v.fs }

func parseViewCmd(args []string, r *root) (*viewCmd, error) {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	v := &viewCmd{
		r:             r,
		fs:            fs,
		readClipboard: clipboard.ReadImage,
		show:          (*appstate.AppState).Run,
	}
	fs.Usage = usageFunc(v)
	fs.BoolVar(&v.fit, "fit", r.config.Viewport.FitOnOpen, "zoom each image to fit the window")
	fs.BoolVar(&v.fromClipboard, "clipboard", false, "also open the image on the clipboard")
	modeName := fs.String("mode", "rect", "initial drawing mode: rect, line or polygon")
	fs.StringVar(&v.themeName, "theme", "", "canvas theme name or file (default, light, high_contrast)")
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: v}
	}
	mode, err := input.ParseMode(*modeName)
	if err != nil {
		return nil, err
	}
	v.mode = mode
	v.files = fs.Args()
	return v, nil
}

// loadImages decodes every file, honouring EXIF orientation, and appends
// the clipboard image when requested.
func (v *viewCmd) loadImages() (*viewer.ImageList, error) {
	list := viewer.NewImageList()
	for _, path := range v.files {
		img, err := imaging.Open(path, imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		img = keepGray(img, singleChannel(path))
		list.Add(filepath.Base(path), img)
		v.r.log.WithFields(logrus.Fields{"path": path, "size": img.Bounds().Size()}).Debug("image loaded")
	}
	if v.fromClipboard {
		img, err := v.readClipboard()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		list.Add("clipboard", img)
	}
	return list, nil
}

// singleChannel reports whether the file at path decodes to a grey image.
func singleChannel(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return false
	}
	return cfg.ColorModel == color.GrayModel || cfg.ColorModel == color.Gray16Model
}

// keepGray converts img back to *image.Gray when the source was grey but
// decoding or EXIF rotation produced a colour image, so the pixel readout
// still reports a single value.
func keepGray(img image.Image, gray bool) image.Image {
	if !gray {
		return img
	}
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return img
	}
	g := image.NewGray(img.Bounds())
	draw.Draw(g, g.Bounds(), img, img.Bounds().Min, draw.Src)
	return g
}

// canvasTheme resolves the theme. Precedence: -theme, ROIVIEW_THEME,
// config, built-in default. An unknown name falls back to the default.
func (v *viewCmd) canvasTheme() *theme.Theme {
	name := v.themeName
	if name == "" {
		name = os.Getenv("ROIVIEW_THEME")
	}
	if name == "" {
		name = v.r.config.Viewport.Theme
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		v.r.log.WithError(err).WithField("theme", name).Warn("using default theme")
		return theme.Default()
	}
	return t
}

func (v *viewCmd) newState(list *viewer.ImageList) *appstate.AppState {
	cfg := v.r.config
	vw := viewer.New(
		viewer.WithSource(list),
		viewer.WithLogger(v.r.log),
		viewer.WithLimits(cfg.Limits()),
		viewer.WithThresholds(cfg.Thresholds()),
		viewer.WithStyles(cfg.Styles),
		viewer.WithAnimation(cfg.AnimationConfig()),
		viewer.WithDoubleClick(cfg.DoubleClick()),
		viewer.WithViewSize(cfg.ScreenSize()),
		viewer.WithMode(v.mode),
		viewer.WithFitOnOpen(v.fit),
		viewer.WithRenderOptions(v.canvasTheme().Apply(compositor.DefaultOptions())),
	)
	return appstate.New(
		appstate.WithViewer(vw),
		appstate.WithSize(cfg.ScreenSize()),
		appstate.WithTick(cfg.TickInterval()),
		appstate.WithLogger(v.r.log),
		appstate.WithNotifier(v.r.notifier),
		appstate.WithOnClose(func() {
			v.r.log.WithField("shapes", vw.Summary()).Debug("window closed")
		}),
	)
}

func (v *viewCmd) Run() error {
	list, err := v.loadImages()
	if err != nil {
		return err
	}
	v.r.log.WithFields(logrus.Fields{"images": list.Len(), "mode": v.mode}).Info("opening viewer")
	v.show(v.newState(list))
	return nil
}

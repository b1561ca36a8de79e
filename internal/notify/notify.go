// Package notify raises desktop notifications when the viewer copies
// geometry or a frame to the clipboard.
package notify

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/example/roiview/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventCopy emits a notification when data is copied to the clipboard.
	EventCopy Event = "copy"
)

// previewSize bounds the icon attached to frame notifications.
const previewSize = 128

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]string
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title:  "roiview",
		Events: map[Event]string{EventCopy: "Copied %s to clipboard"},
	}
}

// LoadPreferences reads overrides from ROIVIEW_NOTIFY_* environment
// variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("ROIVIEW_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	if v := strings.TrimSpace(os.Getenv("ROIVIEW_NOTIFY_COPY_TEXT")); v != "" {
		prefs.Events[EventCopy] = v
	}
	return prefs
}

// Sender delivers one notification.
type Sender func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    Sender
	log     logrus.FieldLogger
}

// New creates a new Notifier using the provided preferences. Every event
// starts disabled.
func New(prefs Preferences, log logrus.FieldLogger) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]string, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool), send: platform.Notify, log: log}
}

// SetSender replaces the platform delivery function.
func (n *Notifier) SetSender(s Sender) { n.send = s }

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Copy reports a clipboard copy. img, when set, is attached as a preview
// icon.
func (n *Notifier) Copy(detail string, img image.Image) {
	if !n.enabledFor(EventCopy) {
		return
	}
	opts := platform.Options{}
	if img != nil {
		path, cleanup, err := createPreview(img)
		if err != nil {
			n.log.WithError(err).Warn("notification preview")
		} else {
			defer cleanup(n.log)
			opts.IconPath = path
		}
	}
	n.dispatch(EventCopy, detail, opts)
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.prefs.Events[event])
	if template == "" {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "annotations"
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		n.log.WithError(err).WithField("event", event).Warn("notification failed")
	}
}

func createPreview(img image.Image) (string, func(logrus.FieldLogger), error) {
	f, err := os.CreateTemp("", "roiview-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	thumb := imaging.Fit(img, previewSize, previewSize, imaging.Box)
	if err := imaging.Encode(f, thumb, imaging.PNG); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func(log logrus.FieldLogger) {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.WithError(err).Warn("remove preview")
		}
	}
	return path, cleanup, nil
}

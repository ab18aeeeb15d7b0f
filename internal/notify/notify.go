// Package notify raises desktop notifications after an export is written or
// copied to the clipboard.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventExport fires when an annotated image is written to disk.
	EventExport Event = "export"
	// EventCopy fires when an annotated image is copied to the clipboard.
	EventCopy Event = "copy"
)

// AppName is reported to the notification daemon.
const AppName = "polyanno"

// Preferences describes the notification title and per-event body templates.
type Preferences struct {
	Title     string
	Templates map[Event]string
}

// DefaultPreferences returns the built-in notification text.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "polyanno",
		Templates: map[Event]string{
			EventExport: "Exported %s",
			EventCopy:   "Copied %s to clipboard",
		},
	}
}

// LoadPreferences applies POLYANNO_NOTIFY_* environment overrides to the
// defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("POLYANNO_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for key, event := range map[string]Event{
		"POLYANNO_NOTIFY_EXPORT_TEXT": EventExport,
		"POLYANNO_NOTIFY_COPY_TEXT":   EventCopy,
	} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Templates[event] = v
		}
	}
	return prefs
}

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath optionally points at an image shown with the notification.
	IconPath string
}

// Sender delivers a single notification.
type Sender func(title, body string, opts Options) error

// Notifier sends notifications for the events that have been enabled.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    Sender
}

// New creates a Notifier with every event disabled.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Templates: make(map[Event]string, len(prefs.Templates))}
	for k, v := range prefs.Templates {
		cloned.Templates[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool), send: desktopNotify}
}

// WithSender replaces the platform sender.
func (n *Notifier) WithSender(s Sender) *Notifier {
	n.send = s
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Enabled reports whether event will produce a notification.
func (n *Notifier) Enabled(event Event) bool {
	return n != nil && n.enabled[event]
}

// Export announces a written file. PNG files double as the notification icon.
func (n *Notifier) Export(path string) {
	if !n.Enabled(EventExport) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := Options{}
	if abs, err := filepath.Abs(detail); err == nil {
		detail = abs
		if strings.EqualFold(filepath.Ext(abs), ".png") {
			if _, err := os.Stat(abs); err == nil {
				opts.IconPath = abs
			}
		}
	}
	n.dispatch(EventExport, detail, opts)
}

// Copy announces a clipboard copy, previewing img when given.
func (n *Notifier) Copy(detail string, img image.Image) {
	if !n.Enabled(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	opts := Options{}
	if img != nil {
		path, cleanup, err := createPreview(img)
		if err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCopy, detail, opts)
}

func (n *Notifier) dispatch(event Event, detail string, opts Options) {
	template := strings.TrimSpace(n.prefs.Templates[event])
	if template == "" || n.send == nil {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "polyanno-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}

package appstate

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/polyanno/internal/clipboard"
	"github.com/example/polyanno/internal/editor"
	"github.com/example/polyanno/internal/notify"
	"github.com/example/polyanno/internal/output"
	"github.com/example/polyanno/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

const messageDuration = 2 * time.Second

// AppState hosts an editor session in a native window.
type AppState struct {
	Session *editor.Session
	Output  string
	Format  output.Format
	Title   string

	notifier *notify.Notifier
	theme    *theme.Theme

	onClose   func()
	closeOnce sync.Once
	jobs      sync.WaitGroup
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithSession sets the editor session driven by the window.
func WithSession(s *editor.Session) Option { return func(a *AppState) { a.Session = s } }

// WithOutput sets the file written by the save shortcut. An empty format is
// derived from the file extension.
func WithOutput(path string, f output.Format) Option {
	return func(a *AppState) { a.Output, a.Format = path, f }
}

// WithNotifier sets the desktop notifier used after save and copy.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithTheme sets the status bar colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.theme = t } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{Title: "polyanno"}
	for _, o := range opts {
		o(a)
	}
	if a.theme == nil {
		a.theme = theme.Default()
	}
	return a
}

// statusEvent carries the outcome of background work back to the event loop.
type statusEvent struct{ text string }

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) Main(s screen.Screen) {
	if a.Session == nil {
		log.Print("no editor session")
		return
	}
	width, height := initialSize(a.Session.Image())
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.Title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.jobs.Wait()
	defer a.notifyClose()

	a.Session.Resize(width, canvasHeight(height))

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	var message string
	var messageUntil time.Time
	post := func(text string) { w.Send(statusEvent{text: text}) }

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case statusEvent:
			message = e.text
			messageUntil = time.Now().Add(messageDuration)
			log.Print(message)
			w.Send(paint.Event{})
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			a.Session.Resize(width, canvasHeight(height))
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := a.paintState(width, height, message, messageUntil)
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if int(e.Y) >= canvasHeight(height) && e.Direction == mouse.DirPress {
				continue
			}
			a.Session.HandleMouse(e)
			w.Send(paint.Event{})
		case key.Event:
			switch actionFor(e) {
			case actionSave:
				a.save(post)
			case actionCopy:
				a.copyImage(post)
			case actionCopyList:
				a.copyList(post)
			case actionQuit:
				return
			default:
				if a.Session.HandleKey(e) {
					w.Send(paint.Event{})
				}
			}
		case error:
			log.Printf("window: %v", e)
		}
	}
}

func (a *AppState) paintState(width, height int, message string, until time.Time) paintState {
	return paintState{
		width:        width,
		height:       height,
		scene:        a.Session.Scene(),
		opts:         a.Session.ViewOptions(),
		theme:        a.theme,
		state:        a.Session.State(),
		polygons:     len(a.Session.Polygons()),
		zoom:         a.Session.Transform().Scale,
		fill:         a.Session.FillColor(),
		message:      message,
		messageUntil: until,
	}
}

// save rasterizes on the event loop and writes the file in the background.
func (a *AppState) save(post func(string)) {
	if a.Output == "" {
		post("no output file configured")
		return
	}
	img := a.Session.Rasterize()
	if img == nil {
		post("nothing to save")
		return
	}
	a.jobs.Add(1)
	go func() {
		defer a.jobs.Done()
		path, err := output.WriteFile(a.Output, img, a.Format)
		if err != nil {
			post(fmt.Sprintf("save: %v", err))
			return
		}
		a.notifier.Export(path)
		post(fmt.Sprintf("saved %s", path))
	}()
}

func (a *AppState) copyImage(post func(string)) {
	img := a.Session.Rasterize()
	if img == nil {
		post("nothing to copy")
		return
	}
	a.jobs.Add(1)
	go func() {
		defer a.jobs.Done()
		if err := clipboard.WriteImage(img); err != nil {
			post(fmt.Sprintf("copy: %v", err))
			return
		}
		a.notifier.Copy("annotated image", img)
		post("image copied to clipboard")
	}()
}

func (a *AppState) copyList(post func(string)) {
	polys := a.Session.Polygons()
	if len(polys) == 0 {
		post("no polygons to copy")
		return
	}
	if err := clipboard.WriteText(DescribePolygons(polys)); err != nil {
		post(fmt.Sprintf("copy: %v", err))
		return
	}
	a.notifier.Copy(fmt.Sprintf("%d polygons", len(polys)), nil)
	post(fmt.Sprintf("copied %d polygons", len(polys)))
}

const (
	maxWindowWidth  = 1600
	maxWindowHeight = 1000
	minWindowWidth  = 320
	minWindowHeight = 240
)

// initialSize fits the window to the image, bounded to a sensible range.
func initialSize(img image.Image) (int, int) {
	w, h := 800, 600
	if img != nil {
		b := img.Bounds()
		w, h = b.Dx(), b.Dy()+statusHeight
	}
	return clampInt(w, minWindowWidth, maxWindowWidth), clampInt(h, minWindowHeight, maxWindowHeight)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

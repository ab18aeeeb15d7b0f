package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/polyanno/internal/config"
	"github.com/example/polyanno/internal/editor"
	"github.com/example/polyanno/internal/notify"
	"github.com/example/polyanno/internal/prefs"
	"github.com/example/polyanno/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs           *flag.FlagSet
	program      string
	notifier     *notify.Notifier
	config       *config.Config
	exportAlerts bool
	copyAlerts   bool
	themeName    string
	prefsPath    string
	activeTheme  *theme.Theme
	stdin        io.Reader
	stdout       io.Writer
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func (r *root) subprogram(name string) string {
	return strings.TrimSpace(r.program + " " + name)
}

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("polyanno", flag.ExitOnError),
		program:  "polyanno",
		notifier: notify.New(notify.LoadPreferences()),
		config:   cfg,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
	}
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after writing an export")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark, high_contrast or a file path)")
	r.fs.StringVar(&r.prefsPath, "prefs", prefs.DefaultPath(), "preferences file remembering the fill colour")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventExport, r.exportAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "script":
		cmd, err = parseScriptCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("POLYANNO_THEME")
	}
	if name == "" && r.config != nil {
		name = r.config.Theme
	}
	loader := theme.NewLoader()
	if r.config != nil {
		loader.Custom = r.config.Themes
	}
	t, err := loader.Load(name)
	if err != nil {
		if name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

// newSession builds an editor session from config, theme and the persisted
// fill colour. Later sources win: default, config file, preferences.
func (r *root) newSession() *editor.Session {
	fill := editor.DefaultFill
	cfg := r.config
	if cfg == nil {
		cfg = config.New()
	}
	if cfg.FillColor != "" {
		if c, err := theme.ParseFill(cfg.FillColor); err == nil {
			fill = c
		} else {
			fmt.Fprintf(os.Stderr, "warning: fill_color %q: %v\n", cfg.FillColor, err)
		}
	}
	if r.prefsPath != "" {
		p, err := prefs.Load(r.prefsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		} else if c, ok := p.Fill(); ok {
			fill = c
		}
	}
	t := r.activeTheme
	if t == nil {
		t = theme.Default()
	}
	return editor.New(
		editor.WithConfig(cfg.Editor),
		editor.WithTheme(t),
		editor.WithFill(fill),
		editor.WithFillListener(r.saveFill),
	)
}

func (r *root) saveFill(c color.RGBA) {
	if r.prefsPath == "" {
		return
	}
	p, err := prefs.Load(r.prefsPath)
	if err != nil {
		log.Printf("prefs: %v", err)
		p = prefs.Prefs{}
	}
	p.SetFill(c)
	if err := prefs.Save(r.prefsPath, p); err != nil {
		log.Printf("save prefs: %v", err)
	}
}

// defaultOutput places name under the configured save directory.
func (r *root) defaultOutput(name string) string {
	if r.config != nil && r.config.SaveDir != "" {
		return filepath.Join(expandHome(r.config.SaveDir), name)
	}
	return name
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

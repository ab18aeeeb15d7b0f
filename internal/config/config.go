package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/example/polyanno/internal/editor"
	"github.com/example/polyanno/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Export bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	// FillColor is the default polygon fill as #RRGGBB or #RRGGBBAA. It is
	// overridden by the preferences file once the user picks a colour.
	FillColor string
	Editor    editor.Config
	Notify    Notify
	Themes    map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Editor: editor.DefaultConfig(),
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.FillColor != "" {
		fmt.Fprintf(&sb, "fill_color = %s\n", c.FillColor)
	}
	sb.WriteString("\n")

	e := c.Editor
	sb.WriteString("[editor]\n")
	fmt.Fprintf(&sb, "close_threshold = %s\n", formatFloat(e.CloseThreshold))
	fmt.Fprintf(&sb, "insert_threshold = %s\n", formatFloat(e.InsertThreshold))
	fmt.Fprintf(&sb, "hit_radius = %s\n", formatFloat(e.HitRadius))
	fmt.Fprintf(&sb, "zoom_factor = %s\n", formatFloat(e.ZoomFactor))
	fmt.Fprintf(&sb, "margin = %s\n", formatFloat(e.Margin))
	fmt.Fprintf(&sb, "unselected_opacity = %s\n", formatFloat(e.UnselectedOpacity))
	fmt.Fprintf(&sb, "history_limit = %d\n", e.HistoryLimit)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

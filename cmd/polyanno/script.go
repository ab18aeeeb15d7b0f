package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/polyanno/internal/appstate"
	"github.com/example/polyanno/internal/editor"
	"github.com/example/polyanno/internal/geom"
	"github.com/example/polyanno/internal/notify"
	"github.com/example/polyanno/internal/output"
	"github.com/example/polyanno/internal/viewport"
)

// exprList collects repeated -e flags.
type exprList []string

func (l *exprList) String() string { return strings.Join(*l, "; ") }

func (l *exprList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// scriptCmd drives an editor session from text commands.
type scriptCmd struct {
	src    imageSource
	output string
	format string
	exprs  exprList
	*root
	fs *flag.FlagSet
}

func (s *scriptCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func (s *scriptCmd) Program() string {
	return s.root.subprogram("script")
}

func parseScriptCmd(args []string, r *root) (*scriptCmd, error) {
	fs := flag.NewFlagSet("script", flag.ExitOnError)
	s := &scriptCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	addSourceFlags(fs, &s.src)
	fs.StringVar(&s.output, "output", "", "file written by the export command")
	fs.StringVar(&s.format, "format", "", "output format: png, jpeg or pdf (default from the output extension)")
	fs.Var(&s.exprs, "e", "command to run; may be repeated")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: s, msg: fmt.Sprintf("unexpected arguments: %v", fs.Args())}
	}
	if err := s.src.validate(); err != nil {
		return nil, &UsageError{of: s, msg: err.Error()}
	}
	return s, nil
}

func (s *scriptCmd) Run() error {
	var format output.Format
	if s.format != "" {
		f, err := output.ParseFormat(s.format)
		if err != nil {
			return err
		}
		format = f
	}
	img, _, err := s.src.load()
	if err != nil {
		return err
	}
	sr := newScriptRunner(s.root.newSession(), img, s.root.stdout)
	sr.output, sr.format, sr.notifier = s.output, format, s.root.notifier

	if len(s.exprs) > 0 {
		for i, line := range s.exprs {
			if err := sr.exec(line); err != nil {
				return fmt.Errorf("-e #%d: %w", i+1, err)
			}
		}
		return nil
	}
	return sr.run(s.root.stdin)
}

var errUnknownCommand = errors.New("unknown command")

// scriptRunner feeds parsed command lines to a session as synthetic input
// events.
type scriptRunner struct {
	session  *editor.Session
	out      io.Writer
	output   string
	format   output.Format
	notifier *notify.Notifier
}

// newScriptRunner loads img and starts with an identity view, so screen and
// image coordinates agree until resize or zoom changes the view.
func newScriptRunner(session *editor.Session, img image.Image, out io.Writer) *scriptRunner {
	session.SetImage(img)
	if img != nil {
		b := img.Bounds()
		session.Resize(b.Dx(), b.Dy())
	}
	session.SetTransform(viewport.Identity())
	return &scriptRunner{session: session, out: out}
}

func (sr *scriptRunner) run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		if err := sr.exec(scanner.Text()); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return scanner.Err()
}

func (sr *scriptRunner) exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	args, err := shellwords.Parse(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	name, rest := strings.ToLower(args[0]), args[1:]
	switch name {
	case "click":
		x, y, flags, err := pointArgs(name, rest)
		if err != nil {
			return err
		}
		mods := modifiers(flags)
		sr.mouse(x, y, mouse.ButtonLeft, mouse.DirPress, mods)
		sr.mouse(x, y, mouse.ButtonLeft, mouse.DirRelease, mods)
	case "rclick":
		x, y, _, err := pointArgs(name, rest)
		if err != nil {
			return err
		}
		sr.mouse(x, y, mouse.ButtonRight, mouse.DirPress, 0)
		sr.mouse(x, y, mouse.ButtonRight, mouse.DirRelease, 0)
	case "press", "release":
		x, y, flags, err := pointArgs(name, rest)
		if err != nil {
			return err
		}
		dir := mouse.DirPress
		if name == "release" {
			dir = mouse.DirRelease
		}
		sr.mouse(x, y, button(flags), dir, modifiers(flags))
	case "move":
		x, y, _, err := pointArgs(name, rest)
		if err != nil {
			return err
		}
		sr.mouse(x, y, mouse.ButtonNone, mouse.DirNone, 0)
	case "drag":
		if len(rest) < 4 {
			return fmt.Errorf("drag: want X1 Y1 X2 Y2")
		}
		x1, y1, _, err := pointArgs(name, rest[:2])
		if err != nil {
			return err
		}
		x2, y2, flags, err := pointArgs(name, rest[2:])
		if err != nil {
			return err
		}
		b := button(flags)
		sr.mouse(x1, y1, b, mouse.DirPress, 0)
		sr.mouse(x2, y2, mouse.ButtonNone, mouse.DirNone, 0)
		sr.mouse(x2, y2, b, mouse.DirRelease, 0)
	case "wheel":
		if len(rest) < 3 {
			return fmt.Errorf("wheel: want X Y up|down")
		}
		x, y, flags, err := pointArgs(name, rest)
		if err != nil {
			return err
		}
		var b mouse.Button
		switch strings.ToLower(rest[2]) {
		case "up":
			b = mouse.ButtonWheelUp
		case "down":
			b = mouse.ButtonWheelDown
		default:
			return fmt.Errorf("wheel: direction %q", rest[2])
		}
		sr.mouse(x, y, b, mouse.DirStep, modifiers(flags))
	case "key":
		return sr.key(rest)
	case "poly":
		return sr.poly(rest)
	case "fill":
		if len(rest) != 1 {
			return fmt.Errorf("fill: want COLOR")
		}
		c, err := parseColor(rest[0])
		if err != nil {
			return err
		}
		sr.session.SetFillColor(c)
		if sel := sr.session.Selection(); !sel.Empty() {
			sr.session.SetPolygonFill(sel.PolygonID, c)
		}
	case "resize":
		if len(rest) != 2 {
			return fmt.Errorf("resize: want W H")
		}
		w, err1 := strconv.Atoi(rest[0])
		h, err2 := strconv.Atoi(rest[1])
		if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
			return fmt.Errorf("resize: invalid size %q %q", rest[0], rest[1])
		}
		sr.session.Resize(w, h)
	case "undo":
		sr.session.Undo()
	case "redo":
		sr.session.Redo()
	case "clear":
		sr.session.ClearAll()
	case "list":
		fmt.Fprint(sr.out, appstate.DescribePolygons(sr.session.Polygons()))
	case "state":
		sel := sr.session.Selection()
		fmt.Fprintf(sr.out, "%s", sr.session.State())
		if !sel.Empty() {
			fmt.Fprintf(sr.out, " %s", sel.PolygonID)
			if sel.PointIndex >= 0 {
				fmt.Fprintf(sr.out, " point %d", sel.PointIndex)
			}
		}
		fmt.Fprintln(sr.out)
	case "export":
		path := sr.output
		if len(rest) > 0 {
			path = rest[0]
		}
		return sr.export(path)
	default:
		return fmt.Errorf("%q: %w", args[0], errUnknownCommand)
	}
	return nil
}

func (sr *scriptRunner) mouse(x, y float64, b mouse.Button, dir mouse.Direction, mods key.Modifiers) {
	sr.session.HandleMouse(mouse.Event{X: float32(x), Y: float32(y), Button: b, Direction: dir, Modifiers: mods})
}

var keyNames = map[string]key.Code{
	"enter":     key.CodeReturnEnter,
	"return":    key.CodeReturnEnter,
	"escape":    key.CodeEscape,
	"esc":       key.CodeEscape,
	"backspace": key.CodeDeleteBackspace,
	"delete":    key.CodeDeleteForward,
	"tab":       key.CodeTab,
	"left":      key.CodeLeftArrow,
	"right":     key.CodeRightArrow,
	"up":        key.CodeUpArrow,
	"down":      key.CodeDownArrow,
}

var keyRunes = map[string]rune{
	"plus":  '+',
	"minus": '-',
}

func (sr *scriptRunner) key(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("key: want NAME")
	}
	name := strings.ToLower(args[0])
	e := key.Event{Direction: key.DirPress, Modifiers: modifiers(args[1:])}
	for _, f := range args[1:] {
		if strings.EqualFold(f, "release") {
			e.Direction = key.DirRelease
		}
	}
	if code, ok := keyNames[name]; ok {
		e.Code = code
	} else if r, ok := keyRunes[name]; ok {
		e.Rune = r
	} else if rs := []rune(args[0]); len(rs) == 1 {
		e.Rune = rs[0]
	} else {
		return fmt.Errorf("key %q: %w", args[0], errUnknownCommand)
	}
	sr.session.HandleKey(e)
	return nil
}

// poly draws a polygon through image coordinates and closes it.
func (sr *scriptRunner) poly(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("poly: want at least 3 X,Y points")
	}
	if sr.session.State() == editor.Drawing {
		return fmt.Errorf("poly: a polygon is already being drawn")
	}
	t := sr.session.Transform()
	pts := make([]geom.Point, 0, len(args))
	for _, a := range args {
		p, err := parsePoint(a)
		if err != nil {
			return fmt.Errorf("poly: %w", err)
		}
		pts = append(pts, p)
	}
	for i, p := range pts {
		x, y := t.ContentToScreen(p)
		sr.mouse(x, y, mouse.ButtonLeft, mouse.DirPress, 0)
		sr.mouse(x, y, mouse.ButtonLeft, mouse.DirRelease, 0)
		if i == 0 && sr.session.State() != editor.Drawing {
			return fmt.Errorf("poly: cannot start at %g,%g", p.X, p.Y)
		}
	}
	if !sr.session.ClosePolygon() {
		sr.session.Abandon()
		return fmt.Errorf("poly: polygon could not be drawn")
	}
	return nil
}

func (sr *scriptRunner) export(path string) error {
	if path == "" {
		return fmt.Errorf("export: no output path; use -output or export PATH")
	}
	img := sr.session.Rasterize()
	if img == nil {
		return fmt.Errorf("export: no base image")
	}
	written, err := output.WriteFile(path, img, sr.format)
	if err != nil {
		return err
	}
	sr.notifier.Export(written)
	fmt.Fprintf(sr.out, "saved %s\n", written)
	return nil
}

func parsePoint(s string) (geom.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Point{}, fmt.Errorf("point %q: want X,Y", s)
	}
	x, err1 := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, err2 := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err1 != nil || err2 != nil {
		return geom.Point{}, fmt.Errorf("point %q: want X,Y", s)
	}
	return geom.Pt(x, y), nil
}

// pointArgs parses the leading X Y pair and returns the remaining words.
func pointArgs(cmd string, args []string) (float64, float64, []string, error) {
	if len(args) < 2 {
		return 0, 0, nil, fmt.Errorf("%s: want X Y", cmd)
	}
	x, err1 := strconv.ParseFloat(args[0], 64)
	y, err2 := strconv.ParseFloat(args[1], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, nil, fmt.Errorf("%s: invalid coordinates %q %q", cmd, args[0], args[1])
	}
	return x, y, args[2:], nil
}

func modifiers(flags []string) key.Modifiers {
	var m key.Modifiers
	for _, f := range flags {
		switch strings.ToLower(f) {
		case "shift":
			m |= key.ModShift
		case "ctrl", "control":
			m |= key.ModControl
		case "alt":
			m |= key.ModAlt
		case "meta", "cmd":
			m |= key.ModMeta
		}
	}
	return m
}

func button(flags []string) mouse.Button {
	for _, f := range flags {
		switch strings.ToLower(f) {
		case "right":
			return mouse.ButtonRight
		case "middle":
			return mouse.ButtonMiddle
		}
	}
	return mouse.ButtonLeft
}

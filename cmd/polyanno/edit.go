package main

import (
	"flag"
	"fmt"

	"github.com/example/polyanno/internal/appstate"
	"github.com/example/polyanno/internal/output"
)

// editCmd opens the editor window on a base image.
type editCmd struct {
	src    imageSource
	output string
	format string
	*root
	fs *flag.FlagSet
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func (e *editCmd) Program() string {
	return e.root.subprogram("edit")
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	addSourceFlags(fs, &e.src)
	fs.StringVar(&e.output, "output", "", "file written by ctrl+s (default annotated.png in save_dir)")
	fs.StringVar(&e.format, "format", "", "output format: png, jpeg or pdf (default from the output extension)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: e, msg: fmt.Sprintf("unexpected arguments: %v", fs.Args())}
	}
	if err := e.src.validate(); err != nil {
		return nil, &UsageError{of: e, msg: err.Error()}
	}
	return e, nil
}

func addSourceFlags(fs *flag.FlagSet, src *imageSource) {
	fs.StringVar(&src.file, "file", "", "base image file")
	fs.BoolVar(&src.fromClipboard, "from-clipboard", false, "read the base image from the clipboard")
	fs.StringVar(&src.capture, "capture", "", "capture the base image; only \"screen\" is supported")
	fs.StringVar(&src.display, "display", "", "monitor to capture: primary, an index or part of its name")
}

func (e *editCmd) outputFormat() (output.Format, error) {
	if e.format == "" {
		return "", nil
	}
	return output.ParseFormat(e.format)
}

func (e *editCmd) Run() error {
	format, err := e.outputFormat()
	if err != nil {
		return err
	}
	img, label, err := e.src.load()
	if err != nil {
		return err
	}
	out := e.output
	if out == "" {
		out = e.root.defaultOutput("annotated.png")
		if format != "" && format != output.PNG {
			out = e.root.defaultOutput("annotated." + string(format))
		}
	}
	session := e.root.newSession()
	session.SetImage(img)
	st := appstate.New(
		appstate.WithSession(session),
		appstate.WithOutput(out, format),
		appstate.WithNotifier(e.root.notifier),
		appstate.WithTheme(e.root.activeTheme),
		appstate.WithTitle(fmt.Sprintf("polyanno - %s", label)),
	)
	st.Run()
	return nil
}

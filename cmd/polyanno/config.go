package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/polyanno/internal/config"
	"github.com/example/polyanno/internal/prefs"
	"github.com/example/polyanno/internal/theme"
)

type configCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *configCmd) Program() string {
	return c.root.subprogram("config")
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		fmt.Fprint(c.root.stdout, c.root.config.String())
		return nil
	case "save":
		return c.runSave()
	case "fill":
		if len(args) != 2 {
			return &UsageError{of: c, msg: "config fill needs exactly one colour"}
		}
		return c.runFill(args[1])
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func (c *configCmd) runSave() error {
	path := config.NewLoader(version, configPathOverride).GetConfigPath()
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return fmt.Errorf("failed to determine config path")
	}
	if err := config.Save(c.root.config, path); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}

func (c *configCmd) runFill(spec string) error {
	col, err := parseColor(spec)
	if err != nil {
		return err
	}
	if c.root.prefsPath == "" {
		return fmt.Errorf("no preferences file")
	}
	p, err := prefs.Load(c.root.prefsPath)
	if err != nil {
		return err
	}
	p.SetFill(col)
	if err := prefs.Save(c.root.prefsPath, p); err != nil {
		return err
	}
	fmt.Fprintf(c.root.stdout, "default fill set to %s\n", theme.FillHex(col))
	return nil
}

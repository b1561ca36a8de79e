package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/roiview/internal/config"
)

type configCmd struct {
	r  *root
	fs *flag.FlagSet
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	c := &configCmd{r: r, fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *configCmd) Program() string { return c.r.subcommand("config") }

func (c *configCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		_, err := fmt.Fprint(c.r.stdout, c.r.config.String())
		return err
	case "save":
		return c.runSave()
	case "path":
		path := c.r.loader.GetConfigPath()
		if path == "" {
			path = c.savePath()
		}
		_, err := fmt.Fprintln(c.r.stdout, path)
		return err
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

// savePath is where save writes: the file in use when there is one,
// otherwise the -config path or the per-user location.
func (c *configCmd) savePath() string {
	if p := c.r.loader.GetConfigPath(); p != "" {
		return p
	}
	if c.r.loader.OverridePath != "" {
		return c.r.loader.OverridePath
	}
	return config.UserConfigPath()
}

func (c *configCmd) runSave() error {
	loader := config.NewLoader(version, c.savePath())
	path, err := loader.Save(c.r.config)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	c.r.log.WithField("path", path).Info("configuration saved")
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}

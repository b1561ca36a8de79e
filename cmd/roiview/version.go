package main

import (
	"flag"
	"fmt"
)

type versionCmd struct {
	r  *root
	fs *flag.FlagSet
}

func parseVersionCmd(args []string, r *root) (*versionCmd, error) {
	v := &versionCmd{r: r, fs: flag.NewFlagSet("version", flag.ContinueOnError)}
	v.fs.Usage = usageFunc(v)
	if err := v.fs.Parse(args); err != nil {
		return nil, &UsageError{of: v}
	}
	return v, nil
}

func (v *versionCmd) Program() string { return v.r.subcommand("version") }

func (v *versionCmd) FlagSet() *flag.FlagSet { return v.fs }

func (v *versionCmd) Run() error {
	line := fmt.Sprintf("%s version %s", v.r.program, version)
	if commit != "" {
		line += " (" + commit
		if date != "" {
			line += ", " + date
		}
		line += ")"
	}
	_, err := fmt.Fprintln(v.r.stdout, line)
	return err
}

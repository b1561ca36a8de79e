package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/roiview/internal/config"
	"github.com/example/roiview/internal/notify"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs         *flag.FlagSet
	program    string
	stdout     io.Writer
	config     *config.Config
	loader     *config.Loader
	log        *logrus.Logger
	notifier   *notify.Notifier
	configPath string
	copyAlerts bool
	debug      bool
	logJSON    bool
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	r := &root{
		fs:      flag.NewFlagSet("roiview", flag.ContinueOnError),
		program: "roiview",
		stdout:  os.Stdout,
	}
	r.fs.StringVar(&r.configPath, "config", configPathOverride, "configuration file to read")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", false, "show a desktop notification after copying to the clipboard (default from config)")
	r.fs.BoolVar(&r.debug, "debug", false, "enable debug logging")
	r.fs.BoolVar(&r.logJSON, "log-json", false, "write logs as JSON")
	r.fs.SetOutput(io.Discard)
	r.fs.Usage = usageFunc(r)
	return r
}

// initLogger builds the process logger. Logs go to stderr so stdout stays
// clean for config and version output.
func initLogger(debug, asJSON bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	if asJSON {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logger.Debug("debug logging enabled")
	return logger
}

// flagSet reports whether name was given on the command line.
func flagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func (r *root) setup() error {
	r.log = initLogger(r.debug, r.logJSON)
	r.loader = config.NewLoader(version, r.configPath)
	cfg, err := r.loader.Load()
	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return fmt.Errorf("config %s: %w", r.loader.GetConfigPath(), err)
		}
		r.log.WithError(err).Warn("failed to load config, using defaults")
		cfg = config.New()
	}
	r.config = cfg
	if !flagSet(r.fs, "notify-copy") {
		r.copyAlerts = cfg.Notify.Copy
	}
	r.notifier = notify.New(notify.LoadPreferences(), r.log)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	return nil
}

func (r *root) subcommand(name string) string {
	return strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return &UsageError{of: r}
		}
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if err := r.setup(); err != nil {
		return err
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "view":
		cmd, err = parseViewCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd, err = parseVersionCmd(subArgs, r)
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
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

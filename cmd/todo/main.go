package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/idilsaglam/tada/internal/cli"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	// Root flags (apply to every subcommand); parsing stops at the subcommand.
	fs := pflag.NewFlagSet("todo", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(os.Stderr)
	fs.Usage = cli.PrintHelp
	config.RegisterFlags(fs)
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		ui.Fail(err.Error())
		ui.Hint("run `todo --help` for usage")
		return 2
	}

	cfg, err := config.Load(fs)
	if err != nil {
		ui.Fail("config: " + err.Error())
		return 2
	}
	ui.SetTheme(cfg.Theme)
	if cfg.NoColor {
		ui.SetColorForcing(false, true)
	}

	// Hand the remaining args to the CLI runner; a bare `todo` on a
	// terminal opens the interactive list.
	args := fs.Args()
	if len(args) == 0 {
		if !ui.IsTTY() {
			cli.PrintHelp()
			return 2
		}
		args = []string{"tui"}
	}

	// The TUI owns the terminal, so logs only go somewhere if a file is set.
	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			ui.Fail(err.Error())
			return 1
		}
		defer f.Close()
		logOut = f
	} else if args[0] == "tui" {
		logOut = io.Discard
	}
	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	opts.Format = cfg.LogFormat
	opts.ReportTimestamp = cfg.LogFile != ""
	logger := logging.New(logOut, opts)

	slot, err := cli.OpenStorage(cfg)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	defer func() {
		if err := slot.Close(); err != nil {
			logger.Error("closing storage", "err", err)
		}
	}()
	logger.Debug("storage opened", "backend", cfg.Backend, "data_dir", cfg.DataDir)

	code := cli.Run(args, cli.Options{
		Group:           cfg.Group,
		DefaultPriority: cfg.DefaultPriority,
		Store:           store.New(slot, store.WithLogger(logger)),
		Logger:          logger,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	return code
}

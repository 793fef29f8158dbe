package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/idilsaglam/coolsave/internal/api"
	"github.com/idilsaglam/coolsave/internal/cli"
	"github.com/idilsaglam/coolsave/internal/config"
	"github.com/idilsaglam/coolsave/internal/logging"
	"github.com/idilsaglam/coolsave/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	configPath := flag.String("config", "", "YAML config file (default ~/.coolsave/config.yaml)")
	apiURL := flag.String("api-url", "", "backend base URL")
	theme := flag.String("theme", "", "color theme: classic, neon or mono")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn or error")
	forceColor := flag.Bool("color", false, "force colored output")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Usage = func() { cli.PrintHelp(os.Stderr) }
	flag.Parse()

	cfg, err := config.Load(config.Overrides{
		ConfigPath: *configPath,
		APIURL:     *apiURL,
		Theme:      *theme,
		LogLevel:   *logLevel,
	})
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		os.Exit(2)
	}
	ui.SetTheme(cfg.Theme)
	ui.SetColorForcing(*forceColor, *noColor || os.Getenv("NO_COLOR") != "")

	log, closeLog, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		ui.Fail(os.Stderr, "log: "+err.Error())
		os.Exit(1)
	}

	client, err := api.New(cfg.APIURL, api.WithTimeout(cfg.Timeout), api.WithLogger(log))
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		os.Exit(2)
	}

	// Hand the remaining args to the CLI runner; a bare invocation on a
	// terminal opens the interactive app.
	args := flag.Args()
	if len(args) == 0 && ui.IsTTY() {
		args = []string{"tui"}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, args, cli.Options{
		Backend:    client,
		Config:     cfg,
		ConfigPath: *configPath,
		Logger:     log,
	})
	stop()
	_ = closeLog()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bem/internal/core/app"
	"bem/internal/core/config"
	"bem/internal/engine/bem"
	"bem/internal/ui/server"
)

type options struct {
	configPath string
	manifest   string
	format     string
	element    string
	external   string
	list       string
	listSet    bool
	check      bool
	serve      bool
	verbose    bool
	version    bool
	args       []string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	flags := flag.NewFlagSet("bem", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: bem [flags] <block> [modifier...]")
		flags.PrintDefaults()
	}

	opts := &options{}
	flags.StringVar(&opts.configPath, "config", config.DefaultPath, "Path to config file")
	flags.StringVar(&opts.manifest, "manifest", "", "Path to class manifest (overrides config)")
	flags.StringVar(&opts.format, "format", "", "Manifest format: json or toml (default: by extension)")
	flags.StringVar(&opts.element, "element", "", "Resolve block__element instead of the block")
	flags.StringVar(&opts.external, "external", "", "External class name prepended to the result")
	flags.StringVar(&opts.list, "list", "", "List mapping keys matching a glob pattern (\"*\" for all)")
	flags.BoolVar(&opts.check, "check", false, "Validate every element and modifier key of the block")
	flags.BoolVar(&opts.serve, "serve", false, "Serve resolution over HTTP")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	flags.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	flags.Visit(func(f *flag.Flag) {
		if f.Name == "list" {
			opts.listSet = true
		}
	})
	opts.args = flags.Args()
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "bem v%s\n", VERSION)
		return 0
	}

	logLevel := slog.LevelWarn
	if opts.verbose || opts.serve {
		logLevel = slog.LevelInfo
	}
	if opts.verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel})))

	cfg, err := loadConfig(opts)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to load class manifest", "error", err)
		return 1
	}
	defer a.Close()

	switch {
	case opts.listSet:
		return listKeys(a, opts.list, stdout)
	case opts.serve:
		return serve(a, cfg)
	}

	if len(opts.args) == 0 {
		fmt.Fprintln(stderr, "a block name is required: bem [flags] <block> [modifier...]")
		return 2
	}
	block := opts.args[0]

	if opts.check {
		return check(a, block, stdout, stderr)
	}

	modifiers := bem.Mods(opts.args[1:]...)
	var out string
	if opts.element != "" {
		out, err = a.Registry.Element(block, opts.element, opts.external, modifiers...)
	} else {
		out, err = a.Registry.Block(block, opts.external, modifiers...)
	}
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	fmt.Fprintln(stdout, out)
	return 0
}

// loadConfig reads the config file and layers the -manifest and -format flags
// over it before validating. A missing config file is tolerated when -manifest
// is given.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Read(opts.configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || opts.manifest == "" {
			return nil, err
		}
		cfg = config.DefaultConfig()
		config.ApplyEnvOverrides(cfg)
	}
	if opts.manifest != "" {
		cfg.Manifest.Path = opts.manifest
	}
	if opts.format != "" {
		cfg.Manifest.Format = opts.format
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func listKeys(a *app.App, pattern string, stdout io.Writer) int {
	if pattern == "*" {
		pattern = ""
	}
	keys, err := a.Registry.Keys(pattern)
	if err != nil {
		slog.Error("failed to list keys", "error", err)
		return 1
	}
	for _, key := range keys {
		fmt.Fprintf(stdout, "%s\t%s\n", key, a.Registry.Mapping()[key])
	}
	return 0
}

func check(a *app.App, block string, stdout, stderr io.Writer) int {
	errs := a.Registry.Check(block)
	for _, err := range errs {
		fmt.Fprintln(stderr, err.Error())
	}
	if len(errs) > 0 {
		return 1
	}
	fmt.Fprintf(stdout, "%s: ok\n", block)
	return 0
}

func serve(a *app.App, cfg *config.Config) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Manifest.Watch {
		if err := a.StartWatcher(ctx); err != nil {
			slog.Error("failed to start manifest watcher", "error", err)
			return 1
		}
	}

	srv := server.New(cfg.Server.Addr, a)
	if err := srv.Start(ctx); err != nil {
		slog.Error("failed to start server", "error", err)
		return 1
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		return 1
	}
	return 0
}

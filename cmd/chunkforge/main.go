// Package main is the entry point for chunkforge, the chunk-chain level generator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/samdwyer/chunkforge/internal/config"
	"github.com/samdwyer/chunkforge/internal/ctxlog"
	"github.com/samdwyer/chunkforge/internal/generate"
	"github.com/samdwyer/chunkforge/internal/materialize"
	"github.com/samdwyer/chunkforge/internal/preview"
	"github.com/samdwyer/chunkforge/internal/rules"
	"github.com/samdwyer/chunkforge/internal/telemetry"
	"github.com/samdwyer/chunkforge/internal/ui"
)

// ExitError carries the process exit code for a failure.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		slog.Debug(".env file not loaded", "error", err)
	}

	ctx := context.Background()

	if telemetry.ConfigureHoneycombEnv(os.Getenv, os.Setenv) {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			slog.Warn("telemetry setup failed, continuing without observability", "error", err)
		} else {
			defer func() {
				if err := shutdown(ctx); err != nil {
					slog.Error("telemetry shutdown failed", "error", err)
				}
			}()
		}
	}

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options are the parsed command line.
type options struct {
	configPath  string
	rulesPath   string
	sample      string
	listSamples bool
	preview     bool
	scene       string
	async       bool
}

// run parses args, generates one level and writes it to out. Logs go to errOut.
func run(ctx context.Context, out, errOut io.Writer, args []string) error {
	fs := flag.NewFlagSet("chunkforge", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprint(errOut, `
chunkforge - stitch pre-authored chunks into a random connected level.

Usage:
  chunkforge [options] [RULE_FILE]

Options:
`)
		fs.PrintDefaults()
	}

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "Path to a YAML config file (default $"+config.EnvConfigPath+").")
	fs.StringVar(&opts.rulesPath, "rules", "", "Path to a level rule file.")
	fs.StringVar(&opts.sample, "sample", "", "Name of a bundled rule file to use instead of -rules.")
	fs.BoolVar(&opts.listSamples, "list-samples", false, "List bundled rule files and exit.")
	fs.BoolVar(&opts.preview, "preview", false, "Open an interactive terminal minimap instead of printing.")
	fs.StringVar(&opts.scene, "scene", "", "Scene to load first; defaults to one named after the level.")
	fs.BoolVar(&opts.async, "async", false, "Mark the manifest for asynchronous scene loading.")
	seed := fs.Int64("seed", 0, "Random seed; 0 picks one from the clock.")
	output := fs.String("output", "", "Output format: 'text' or 'json'.")
	maxChunks := fs.Int("max-chunks", 0, "Chunks the runtime can hold at once, entrance and exit included.")
	scale := fs.Float64("scale", 0, "World units per grid step.")
	strict := fs.Bool("strict", false, "Fail when the chain comes out short or without an exit.")
	split := fs.Bool("split", false, "Name one sub-scene per chunk in the manifest.")
	logLevel := fs.String("log-level", "", "Logging level: 'debug', 'info', 'warn', 'error'.")
	logFormat := fs.String("log-format", "", "Log output format: 'text' or 'json'.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return &ExitError{Code: 2, Message: err.Error()}
	}

	if opts.listSamples {
		for _, name := range rules.SampleNames() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	if opts.rulesPath == "" && fs.NArg() > 0 {
		opts.rulesPath = fs.Arg(0)
	}
	if opts.rulesPath == "" && opts.sample == "" {
		fs.Usage()
		return &ExitError{Code: 2, Message: "a rule file or -sample is required"}
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	// Flags given explicitly win over the file and the environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = *seed
		case "output":
			cfg.Output = *output
		case "max-chunks":
			cfg.MaxConcurrentChunks = *maxChunks
		case "scale":
			cfg.ChunkScale = *scale
		case "strict":
			cfg.Strict = *strict
		case "split":
			cfg.SplitSubScenes = *split
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		}
	})
	if err := cfg.Validate(); err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	logger := ctxlog.New(errOut, cfg.LogFormat, cfg.LogLevel)
	ctx = ctxlog.WithLogger(ctx, logger)

	req := generate.NewRequest(cfg.ResolveSeed())
	req.RulePath = opts.rulesPath
	req.Sample = opts.sample
	req.SceneToLoad = opts.scene
	req.Async = opts.async

	if opts.preview {
		screen, err := ui.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to open terminal: %w", err)
		}
		return preview.New(screen, generate.New(cfg, nil), req).Run(ctx)
	}

	sink, err := materialize.New(cfg.Output, out)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	_, err = generate.New(cfg, sink).Run(ctx, req)
	return err
}

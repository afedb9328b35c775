// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"gwasdb/internal/cli"
	"gwasdb/internal/cmdutil"
	"gwasdb/internal/config"
	"gwasdb/internal/logger"
	"gwasdb/internal/pipeline"
	"gwasdb/internal/store"
	"gwasdb/internal/version"
	"gwasdb/internal/writers"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

// flushOut flushes buffered stdout; a closed pipe downstream is not an error.
func flushOut(outw *bufio.Writer, stderr io.Writer, code int) int {
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return code
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return ExitRuntime
	}
	return code
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	fs := cli.NewFlagSet("gwasdb")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		fs.SetOutput(outw)
		if errors.Is(err, flag.ErrHelp) {
			fs.Usage()
			return flushOut(outw, stderr, ExitOK)
		}
		cmdutil.Errorf(stderr, "%v", err)
		fs.Usage()
		return flushOut(outw, stderr, ExitUsage)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "gwasdb version %s\n", version.Version)
		return flushOut(outw, stderr, ExitOK)
	}

	cfg := config.Default()
	if opts.ConfigFile != "" {
		if err := cfg.Load(opts.ConfigFile); err != nil {
			cmdutil.Errorf(stderr, "%v", err)
			return ExitUsage
		}
	}
	opts.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		return ExitUsage
	}

	runID := uuid.NewString()
	log, closer, err := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogPath(),
		RunID:  runID,
	})
	if err != nil {
		cmdutil.Errorf(stderr, "open log: %v", err)
		return ExitRuntime
	}
	defer func() { _ = closer.Close() }()

	code := run(parent, cfg, runID, opts.Quiet, log, outw, stderr)
	return flushOut(outw, stderr, code)
}

func run(ctx context.Context, cfg config.Config, runID string, quiet bool, log *logger.Logger, stdout, stderr io.Writer) int {
	log.Info().
		Str("root", cfg.Root).
		Str("target", cfg.Target).
		Str("out_dir", cfg.OutDir).
		Int("default_n", cfg.DefaultN).
		Msg("run started")

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fail(log, stderr, err)
	}

	var sink pipeline.Sink
	if cfg.DB != "" {
		st, err := store.Open(ctx, cfg.DB)
		if err != nil {
			return fail(log, stderr, err)
		}
		defer func() { _ = st.Close() }()
		if err := st.Migrate(ctx); err != nil {
			return fail(log, stderr, err)
		}
		sink = st
	}

	runner := pipeline.New(pipeline.Config{
		Root:    cfg.Root,
		Target:  cfg.Target,
		OutDir:  cfg.OutDir,
		Schemas: cfg.Schemas(),
		RunID:   runID,
	}, sink, logger.Named(log, "pipeline"))

	rep, runErr := runner.Run(ctx)

	for _, f := range rep.Files {
		for _, rj := range f.Rejections {
			cmdutil.Warnf(stderr, quiet, "%v", rj)
		}
	}
	// the report covers whatever was processed, even when the run stopped early
	if err := writers.IgnoreBrokenPipe(writers.WriteReport(cfg.Report, stdout, rep)); err != nil {
		return fail(log, stderr, err)
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			log.Warn().Msg("run cancelled")
			return ExitCanceled
		}
		return fail(log, stderr, runErr)
	}
	outs, rejs := rep.Totals()
	log.Info().Int("files", len(rep.Files)).Int("outputs", outs).Int("rejections", rejs).Msg("run finished")
	return ExitOK
}

func fail(log *logger.Logger, stderr io.Writer, err error) int {
	log.Error().Err(err).Msg("run failed")
	cmdutil.Errorf(stderr, "%v", err)
	return ExitRuntime
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// Package logger builds the run logger: zerolog writing to the log file,
// with opinionated defaults
package logger

import (
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the logger
type Options struct {
	Level     string
	Format    string // console | json
	File      string // appended to; empty means Writer
	Writer    io.Writer
	RunID     string
	Component string
}

// Logger is the project-wide logging type
type Logger = zerolog.Logger

// Nop discards everything; handy in tests
func Nop() *Logger {
	l := zerolog.Nop()
	return &l
}

// New opens the log file (if any) and returns the logger plus a closer for the file
func New(opt Options) (*Logger, io.Closer, error) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.File != "" {
		if err := os.MkdirAll(filepath.Dir(opt.File), 0o755); err != nil {
			return nil, nil, err
		}
		fh, err := os.OpenFile(opt.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w, closer = fh, fh
	}
	if strings.ToLower(opt.Format) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}

	ctx := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		ctx = ctx.Str("go_version", bi.GoVersion)
	}
	if opt.RunID != "" {
		ctx = ctx.Str("run_id", opt.RunID)
	}
	if opt.Component != "" {
		ctx = ctx.Str("component", opt.Component)
	}
	log := ctx.Logger()
	return &log, closer, nil
}

// Named returns a child logger with a component field
func Named(l *Logger, component string) *Logger {
	if component == "" {
		return l
	}
	ll := l.With().Str("component", component).Logger()
	return &ll
}

// parseLevel supports string-only levels
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.DebugLevel
	}
}

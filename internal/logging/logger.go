// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the zerolog logger shared by the CLI and the stages.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/dataset-review/pkg/types"
)

// New creates a logger from cfg. Unknown outputs fall back to stderr so that
// report text on stdout stays clean.
func New(cfg types.LoggingConfig) zerolog.Logger {
	var out io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		out = os.Stdout
	default:
		out = os.Stderr
	}
	return NewWithWriter(cfg, out)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(cfg types.LoggingConfig, w io.Writer) zerolog.Logger {
	if strings.EqualFold(cfg.Format, "console") || strings.EqualFold(cfg.Format, "pretty") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// WithRun adds run-scoped fields to a logger.
func WithRun(logger zerolog.Logger, runID int64, input string) zerolog.Logger {
	return logger.With().
		Int64("run_id", runID).
		Str("input", input).
		Logger()
}

// WithPaper adds paper-scoped fields to a logger.
func WithPaper(logger zerolog.Logger, paperID, line int) zerolog.Logger {
	return logger.With().
		Int("paper_id", paperID).
		Int("row", line).
		Logger()
}

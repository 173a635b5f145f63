// Package logging configures the process-wide slog logger. Diagnostics
// always go to stderr so they never interleave with a report on stdout.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init creates and sets the package-level default slog logger.
// When reportIsStdout is true, uses JSONHandler on stderr so diagnostics are
// machine-separable from the report. Otherwise uses TextHandler.
func Init(reportIsStdout bool, level slog.Level) {
	slog.SetDefault(New(os.Stderr, reportIsStdout, level))
}

// New builds a logger writing to w, JSON-encoded when json is set.
func New(w io.Writer, json bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

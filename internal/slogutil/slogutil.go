package slogutil

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a logger in the given format: "json" uses the standard JSON
// handler, anything else the custom text handler.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(NewHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewLogger creates a text logger at the given level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewFileLogger creates a logger that appends to a file, creating it when
// missing. The caller owns the returned file handle.
func NewFileLogger(path string, level slog.Level) (*slog.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return NewLogger(f, level), f, nil
}

// NewDiscardLogger creates a logger that discards all output. Useful for
// tests or when logging should be completely suppressed.
func NewDiscardLogger() *slog.Logger {
	return slog.New(NewHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(100)}))
}

// LevelFromString converts a string to a slog.Level.
// Supports: debug, info, warn, error (case-insensitive).
// Returns slog.LevelInfo for unrecognized strings.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromVerbosity converts CLI verbosity flags to a slog.Level.
// - quiet=true: returns a level that suppresses all logs
// - verbosity=0: warn (default for CLI)
// - verbosity=1: info
// - verbosity>=2: debug
func LevelFromVerbosity(verbosity int, quiet bool) slog.Level {
	if quiet {
		return slog.Level(100)
	}
	switch verbosity {
	case 0:
		return slog.LevelWarn
	case 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Package logging configures the process-wide slog logger.
//
// Logs are JSON, carry the module name and version, and include source
// locations at debug level. The interactive UI owns the terminal, so the
// usual destination is a file; see Open.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// EnvLevel names the environment variable consulted when no level is given.
const EnvLevel = "LOG_LEVEL"

// ParseLevel maps a case-insensitive level name to a slog.Level.
// Unknown or empty names yield info.
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

// NewStructuredLogger returns a JSON logger writing to w.
func NewStructuredLogger(w io.Writer, module, version, level string) *slog.Logger {
	lvl := ParseLevel(level)
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	})
	return slog.New(h).With("module", module, "version", version)
}

// Open resolves a log destination: "-" is stderr, "" discards, anything
// else is a file opened for append (parent directories are created).
// The returned close func is always safe to call.
func Open(path string) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch path {
	case "-":
		return os.Stderr, noop, nil
	case "":
		return io.Discard, noop, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, noop, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, noop, fmt.Errorf("open log file: %w", err)
	}
	return f, f.Close, nil
}

// SetDefault installs a structured logger writing to path as the slog
// default. When level is empty LOG_LEVEL is used.
func SetDefault(path, module, version, level string) (func() error, error) {
	if level == "" {
		level = os.Getenv(EnvLevel)
	}
	w, closeFn, err := Open(path)
	if err != nil {
		return closeFn, err
	}
	slog.SetDefault(NewStructuredLogger(w, module, version, level))
	return closeFn, nil
}

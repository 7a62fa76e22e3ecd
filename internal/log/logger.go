// Package log builds the structured loggers used by odbcconv: a console
// handler, a SQLite trace of conversion diagnostics, and an optional ring
// buffer of recent lines.
package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Config holds all logging configuration.
type Config struct {
	Mode   string `yaml:"mode"`   // "console", "trace"
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "text", "json" (console only)

	// Trace-specific
	DBPath        string `yaml:"db_path"`        // Path to the trace database
	RetentionDays int    `yaml:"retention_days"` // Delete rows older than this

	BufferLines int `yaml:"buffer_lines"` // In-memory buffer size (0 to disable)
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Mode:          "console",
		Level:         "info",
		Format:        "text",
		DBPath:        "odbcconv-trace.db",
		RetentionDays: 7,
		BufferLines:   0,
	}
}

// ParseLevel converts a string level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// NewConsoleHandler creates a handler that writes to w.
// Format can be "text" or "json".
func NewConsoleHandler(w io.Writer, cfg *Config, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Logger is a slog.Logger together with the resources behind its handler.
type Logger struct {
	*slog.Logger

	recent *RingBuffer
	closer io.Closer
}

// New builds a logger for cfg. Console output goes to w.
func New(cfg *Config, w io.Writer) (*Logger, error) {
	level := ParseLevel(cfg.Level)
	l := &Logger{}

	var handler slog.Handler
	switch cfg.Mode {
	case "trace":
		h, err := NewTraceHandler(cfg, level)
		if err != nil {
			return nil, err
		}
		l.closer = h
		handler = h
	case "console", "":
		handler = NewConsoleHandler(w, cfg, level)
	default:
		return nil, fmt.Errorf("unknown log mode %q", cfg.Mode)
	}

	if cfg.BufferLines > 0 {
		l.recent = NewRingBuffer(cfg.BufferLines)
		handler = NewBufferHandler(handler, l.recent, level)
	}
	l.Logger = slog.New(handler)
	return l, nil
}

// Recent returns the last n buffered lines, oldest first, or nil when the
// buffer is disabled.
func (l *Logger) Recent(n int) []string {
	if l.recent == nil {
		return nil
	}
	return l.recent.Lines(n)
}

// Close releases the trace database, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	if err != nil {
		return errors.Join(errors.New("close logger"), err)
	}
	return nil
}

package log

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Mode != "console" {
		t.Errorf("expected mode 'console', got %q", cfg.Mode)
	}
	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "text" {
		t.Errorf("expected format 'text', got %q", cfg.Format)
	}
	if cfg.RetentionDays != 7 {
		t.Errorf("expected RetentionDays 7, got %d", cfg.RetentionDays)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestConsoleHandler(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{"text", []string{"conversion warning", "sqlstate=01004"}},
		{"json", []string{`"msg":"conversion warning"`, `"sqlstate":"01004"`}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewConsoleHandler(&buf, &Config{Format: tt.format}, slog.LevelInfo))
			logger.Debug("filtered")
			logger.Info("conversion warning", "sqlstate", "01004")

			out := buf.String()
			if strings.Contains(out, "filtered") {
				t.Errorf("debug line should be filtered at info level: %q", out)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("expected output to contain %q, got %q", w, out)
				}
			}
		})
	}
}

func TestNew_Console(t *testing.T) {
	var out bytes.Buffer
	l, err := New(&Config{Mode: "console", Level: "debug", BufferLines: 10}, &out)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	l.Debug("conversion failed", "sqlstate", "22003")

	if !strings.Contains(out.String(), "sqlstate=22003") {
		t.Errorf("expected console output, got %q", out.String())
	}
	lines := l.Recent(10)
	if len(lines) != 1 || !strings.Contains(lines[0], "conversion failed") {
		t.Errorf("expected one buffered line, got %q", lines)
	}
}

func TestNew_BufferDisabled(t *testing.T) {
	l, err := New(&Config{Mode: "console"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if lines := l.Recent(10); lines != nil {
		t.Errorf("expected nil when buffer disabled, got %q", lines)
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestNew_Trace(t *testing.T) {
	cfg := &Config{Mode: "trace", Level: "debug", DBPath: filepath.Join(t.TempDir(), "trace.db")}
	l, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("hello")
	if err := l.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestNew_UnknownMode(t *testing.T) {
	if _, err := New(&Config{Mode: "file"}, nil); err == nil {
		t.Error("expected error for unknown mode")
	}
}

package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestBufferHandler_StoresLines(t *testing.T) {
	buf := NewRingBuffer(10)
	logger := slog.New(NewBufferHandler(nil, buf, slog.LevelInfo)) // nil wrapped handler is valid

	logger.Debug("below level")
	logger.Info("conversion warning", "sqlstate", "01S07")

	lines := buf.Lines(10)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if strings.Contains(lines[0], "time=") {
		t.Errorf("buffered lines carry no timestamp: %q", lines[0])
	}
	if !strings.Contains(lines[0], "sqlstate=01S07") {
		t.Errorf("expected attribute in line, got %q", lines[0])
	}
}

func TestBufferHandler_Scope(t *testing.T) {
	buf := NewRingBuffer(10)
	logger := slog.New(NewBufferHandler(nil, buf, slog.LevelDebug))

	logger.With("direction", "fetch").WithGroup("col").Info("bound", "ctype", "SLONG")

	lines := buf.Lines(1)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "direction=fetch") || !strings.Contains(lines[0], "col.ctype=SLONG") {
		t.Errorf("unexpected line %q", lines[0])
	}
}

func TestBufferHandler_ForwardsToWrapped(t *testing.T) {
	buf := NewRingBuffer(10)
	var output bytes.Buffer
	wrapped := slog.NewTextHandler(&output, nil)
	logger := slog.New(NewBufferHandler(wrapped, buf, slog.LevelInfo))

	logger.Info("forwarded message")

	if buf.Len() != 1 {
		t.Fatalf("expected 1 line in buffer, got %d", buf.Len())
	}
	if !strings.Contains(output.String(), "forwarded message") {
		t.Error("expected wrapped handler to receive log")
	}
}

func TestRingBuffer_Capacity(t *testing.T) {
	buf := NewRingBuffer(3)

	buf.Add("line1")
	buf.Add("line2")
	buf.Add("line3")
	buf.Add("line4") // evicts line1

	lines := buf.Lines(10)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "line2" {
		t.Errorf("expected oldest line to be 'line2', got %q", lines[0])
	}
	if lines[2] != "line4" {
		t.Errorf("expected newest line to be 'line4', got %q", lines[2])
	}
}

func TestRingBuffer_LinesLimit(t *testing.T) {
	buf := NewRingBuffer(10)
	for _, l := range []string{"a", "b", "c", "d", "e"} {
		buf.Add(l)
	}

	lines := buf.Lines(3)
	if strings.Join(lines, "") != "cde" {
		t.Fatalf("expected last three lines, got %q", lines)
	}
}

func TestRingBuffer_Empty(t *testing.T) {
	buf := NewRingBuffer(10)
	if lines := buf.Lines(10); len(lines) != 0 {
		t.Fatalf("expected 0 lines from empty buffer, got %d", len(lines))
	}
	if buf.Len() != 0 {
		t.Errorf("expected length 0, got %d", buf.Len())
	}
}

func TestRingBuffer_DefaultCapacity(t *testing.T) {
	if c := NewRingBuffer(0).Cap(); c != 500 {
		t.Errorf("expected default capacity 500, got %d", c)
	}
	if c := NewRingBuffer(-1).Cap(); c != 500 {
		t.Errorf("expected default capacity 500, got %d", c)
	}
}

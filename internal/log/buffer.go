package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
)

// RingBuffer is a thread-safe circular buffer for log lines.
type RingBuffer struct {
	mu    sync.RWMutex
	lines []string
	head  int // next write position
	count int
}

// NewRingBuffer creates a ring buffer with the given capacity.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 500
	}
	return &RingBuffer{lines: make([]string, capacity)}
}

// Add appends a line, evicting the oldest when full.
func (rb *RingBuffer) Add(line string) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.lines[rb.head] = line
	rb.head = (rb.head + 1) % len(rb.lines)
	rb.count = min(rb.count+1, len(rb.lines))
}

// Lines returns the last n lines, oldest first.
func (rb *RingBuffer) Lines(n int) []string {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	n = max(0, min(n, rb.count))
	out := make([]string, n)
	start := rb.head - n + len(rb.lines)
	for i := range out {
		out[i] = rb.lines[(start+i)%len(rb.lines)]
	}
	return out
}

// Len returns the number of lines held.
func (rb *RingBuffer) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.count
}

// Cap returns the buffer capacity.
func (rb *RingBuffer) Cap() int {
	return len(rb.lines)
}

// BufferHandler records each line in a ring buffer and forwards it to
// another handler.
type BufferHandler struct {
	wrapped slog.Handler
	buffer  *RingBuffer
	level   slog.Level
	// scope replays WithAttrs and WithGroup calls onto the line formatter.
	scope []func(slog.Handler) slog.Handler
}

// NewBufferHandler creates a handler that keeps records at or above level.
// wrapped may be nil.
func NewBufferHandler(wrapped slog.Handler, buffer *RingBuffer, level slog.Level) *BufferHandler {
	return &BufferHandler{wrapped: wrapped, buffer: buffer, level: level}
}

// Enabled reports whether either the buffer or the wrapped handler wants level.
func (h *BufferHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level || (h.wrapped != nil && h.wrapped.Enabled(ctx, level))
}

// Handle stores the record as one text line and forwards it.
func (h *BufferHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.level {
		var buf bytes.Buffer
		var th slog.Handler = slog.NewTextHandler(&buf, &slog.HandlerOptions{
			Level:       slog.LevelDebug,
			ReplaceAttr: dropTime,
		})
		for _, apply := range h.scope {
			th = apply(th)
		}
		if err := th.Handle(ctx, r); err == nil {
			h.buffer.Add(strings.TrimSuffix(buf.String(), "\n"))
		}
	}

	if h.wrapped != nil && h.wrapped.Enabled(ctx, r.Level) {
		return h.wrapped.Handle(ctx, r)
	}
	return nil
}

func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

// WithAttrs returns a new handler with the given attributes.
func (h *BufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.with(func(th slog.Handler) slog.Handler { return th.WithAttrs(attrs) })
	if h.wrapped != nil {
		c.wrapped = h.wrapped.WithAttrs(attrs)
	}
	return c
}

// WithGroup returns a new handler with the given group.
func (h *BufferHandler) WithGroup(name string) slog.Handler {
	c := h.with(func(th slog.Handler) slog.Handler { return th.WithGroup(name) })
	if h.wrapped != nil {
		c.wrapped = h.wrapped.WithGroup(name)
	}
	return c
}

func (h *BufferHandler) with(apply func(slog.Handler) slog.Handler) *BufferHandler {
	c := *h
	c.scope = append(append([]func(slog.Handler) slog.Handler{}, h.scope...), apply)
	return &c
}

// Package sqlbuf provides the growable buffer that store conversions append
// SQL literal text to.
package sqlbuf

import (
	"github.com/markb/odbcconv/internal/sqlstate"
)

const minGrow = 1024

// Buffer accumulates literal text. The zero value is ready to use and has no
// size limit. Writes that would take the buffer past its limit fail with
// HY001 and leave the contents unchanged.
type Buffer struct {
	buf   []byte
	limit int
}

// New returns a buffer that refuses to grow beyond limit bytes. A limit of
// zero or less means unlimited.
func New(limit int) *Buffer {
	return &Buffer{limit: limit}
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int { return len(b.buf) }

// Bytes returns the accumulated text. The slice is valid until the next write.
func (b *Buffer) Bytes() []byte { return b.buf }

func (b *Buffer) String() string { return string(b.buf) }

// Reset empties the buffer but keeps its memory.
func (b *Buffer) Reset() { b.buf = b.buf[:0] }

// Truncate discards all but the first n bytes. Store uses it to roll back a
// value that failed halfway through.
func (b *Buffer) Truncate(n int) {
	if n >= 0 && n < len(b.buf) {
		b.buf = b.buf[:n]
	}
}

func (b *Buffer) grow(n int) error {
	need := len(b.buf) + n
	if b.limit > 0 && need > b.limit {
		return sqlstate.New(sqlstate.OutOfMemory, "literal buffer limit %d exceeded", b.limit)
	}
	if need <= cap(b.buf) {
		return nil
	}
	size := max(2*cap(b.buf), need, minGrow)
	if b.limit > 0 {
		size = min(size, b.limit)
	}
	nb := make([]byte, len(b.buf), size)
	copy(nb, b.buf)
	b.buf = nb
	return nil
}

// WriteString appends s.
func (b *Buffer) WriteString(s string) error {
	if err := b.grow(len(s)); err != nil {
		return err
	}
	b.buf = append(b.buf, s...)
	return nil
}

// Write appends p. It implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.grow(len(p)); err != nil {
		return 0, err
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// WriteByte appends c.
func (b *Buffer) WriteByte(c byte) error {
	if err := b.grow(1); err != nil {
		return err
	}
	b.buf = append(b.buf, c)
	return nil
}

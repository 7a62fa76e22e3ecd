// Package convert moves values between the server's text representation and
// host buffers. Fetch decodes wire text and encodes it into a bound column;
// Store decodes a bound parameter and appends it to a statement as a SQL
// literal. Both directions meet in a small set of canonical values.
package convert

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/markb/odbcconv/internal/observability"
	"github.com/markb/odbcconv/internal/sqlbuf"
	"github.com/markb/odbcconv/internal/sqlstate"
	"github.com/markb/odbcconv/internal/types"
)

const (
	// DefaultWideStageBytes is the narrow staging size used when a
	// non-text value is fetched into a wide character buffer.
	DefaultWideStageBytes = 511

	// DefaultMaxLiteralBytes caps a statement buffer built by Store.
	DefaultMaxLiteralBytes = 64 << 20
)

// Options configures an Engine.
type Options struct {
	Logger          *slog.Logger
	Metrics         *observability.Metrics
	WideStageBytes  int
	MaxLiteralBytes int
	// Now supplies the current date for TIME to TIMESTAMP conversions.
	Now func() time.Time
}

// Engine runs conversions. It holds no per-statement state and is safe for
// concurrent use as long as each Column or Param is used by one caller.
type Engine struct {
	logger   *slog.Logger
	metrics  *observability.Metrics
	stage    int
	maxBytes int
	now      func() time.Time
}

// New returns an Engine. Zero options take their defaults.
func New(opts Options) *Engine {
	e := &Engine{
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		stage:    opts.WideStageBytes,
		maxBytes: opts.MaxLiteralBytes,
		now:      opts.Now,
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.stage <= 0 {
		e.stage = DefaultWideStageBytes
	}
	if e.maxBytes <= 0 {
		e.maxBytes = DefaultMaxLiteralBytes
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// NewBuffer returns a statement buffer limited to the configured size.
func (e *Engine) NewBuffer() *sqlbuf.Buffer {
	return sqlbuf.New(e.maxBytes)
}

// Fetch converts one wire value into col. A nil data slice is SQL NULL.
// Warnings come back in the Result; a hard error leaves col.Buffer in an
// unspecified state and col.Delivered unchanged.
func (e *Engine) Fetch(col *Column, data []byte) (Result, error) {
	ctype := col.CType.Resolve(col.SQLType, col.Unsigned)
	res, err := e.fetch(col, ctype, data)
	e.observe("fetch", col.SQLType, ctype, res, err)
	return res, err
}

func (e *Engine) fetch(col *Column, ctype types.CType, data []byte) (Result, error) {
	if data == nil {
		if !col.Indicator {
			return Result{}, sqlstate.New(sqlstate.NullIndicatorRequired, "")
		}
		return Result{Status: Null, Length: NullData}, nil
	}
	v, err := decodeWire(col.SQLType, data)
	if err != nil {
		return Result{}, err
	}
	return e.encodeHost(col, ctype, v)
}

// Store appends p to w as a SQL literal. On error nothing is appended.
func (e *Engine) Store(p *Param, w *sqlbuf.Buffer) (Result, error) {
	ctype := p.CType.Resolve(p.SQLType, p.Unsigned)
	start := w.Len()
	res, err := e.store(p, ctype, w)
	if err != nil {
		w.Truncate(start)
	} else {
		res.Length = w.Len() - start
		e.metrics.RecordLiteralSize(context.Background(), res.Length)
	}
	e.observe("store", p.SQLType, ctype, res, err)
	return res, err
}

func (e *Engine) store(p *Param, ctype types.CType, w *sqlbuf.Buffer) (Result, error) {
	if p.Length == NullData {
		return Result{Status: Success}, w.WriteString("NULL")
	}
	if p.Value == nil {
		return Result{}, sqlstate.New(sqlstate.CountFieldIncorrect, "no value bound")
	}
	v, err := decodeHost(p, ctype)
	if err != nil {
		return Result{}, err
	}
	return e.encodeLiteral(p, ctype, v, w)
}

// observe logs and counts the outcome of one conversion.
func (e *Engine) observe(direction string, sql types.SQLType, c types.CType, res Result, err error) {
	ctx := context.Background()
	e.metrics.RecordConversion(ctx, direction, sql.String(), c.String())

	attrs := []any{
		slog.String("direction", direction),
		slog.String("sql_type", sql.String()),
		slog.String("c_type", c.String()),
	}
	if err != nil {
		code := sqlstate.CodeOf(err)
		e.metrics.RecordError(ctx, direction, string(code))
		var d *sqlstate.Diagnostic
		if !errors.As(err, &d) {
			e.logger.Error("conversion failed", append(attrs, slog.String("error", err.Error()))...)
			return
		}
		e.logger.Debug("conversion failed", append(attrs, slog.String("sqlstate", string(code)), slog.String("error", err.Error()))...)
		return
	}
	for _, w := range res.Warnings {
		e.metrics.RecordWarning(ctx, direction, string(w.Code))
		e.logger.Debug("conversion warning", append(attrs, slog.String("sqlstate", string(w.Code)), slog.String("detail", w.Error()))...)
	}
}

package convert

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/markb/odbcconv/internal/datetime"
	"github.com/markb/odbcconv/internal/interval"
	"github.com/markb/odbcconv/internal/numeric"
	"github.com/markb/odbcconv/internal/sqlbuf"
	"github.com/markb/odbcconv/internal/sqlstate"
	"github.com/markb/odbcconv/internal/types"
)

// encodeLiteral appends v to w as a literal of the parameter's SQL type.
func (e *Engine) encodeLiteral(p *Param, ctype types.CType, v value, w *sqlbuf.Buffer) (Result, error) {
	t := p.SQLType
	switch {
	case t.IsInterval():
		return storeInterval(p, v, w)
	case t.IsBinary():
		return storeBinary(ctype, v, w)
	}

	switch t {
	case types.SQLTypeDate:
		return storeDate(v, w)
	case types.SQLTypeTime:
		return storeTime(v, w)
	case types.SQLTypeTimestamp:
		return e.storeTimestamp(v, w)
	case types.SQLBit, types.SQLTinyint, types.SQLSmallint, types.SQLInteger,
		types.SQLBigint, types.SQLDecimal, types.SQLNumeric:
		return storeExact(p, v, w)
	case types.SQLReal, types.SQLFloat, types.SQLDouble:
		return storeApprox(v, w)
	case types.SQLGUID:
		return storeGUID(v, w)
	}
	if t.IsCharacter() {
		return storeChar(p, v, w)
	}
	return Result{}, sqlstate.New(sqlstate.RestrictedType, "cannot store into %s", t)
}

// quote appends s as a single quoted string. Control bytes are written as
// three digit octal escapes and a NUL ends the text.
func quote(w *sqlbuf.Buffer, s []byte) error {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '\'')
loop:
	for _, c := range s {
		switch {
		case c == 0:
			break loop
		case c == '\\':
			out = append(out, '\\', '\\')
		case c == '\'':
			out = append(out, '\\', '\'')
		case c < 0x20:
			out = fmt.Appendf(out, "\\%03o", c)
		default:
			out = append(out, c)
		}
	}
	out = append(out, '\'')
	_, err := w.Write(out)
	return err
}

func intervalSign(iv interval.Interval) string {
	if iv.Negative {
		return "-"
	}
	return ""
}

func storeChar(p *Param, v value, w *sqlbuf.Buffer) (Result, error) {
	var s string
	switch v.kind {
	case kindText, kindBytes:
		return Result{}, quote(w, v.raw)
	case kindBit:
		s = "false"
		if !v.dec.IsZero() {
			s = "true"
		}
	case kindDecimal:
		s = v.dec.String()
	case kindFloat:
		s, _ = numeric.FormatFloat(v.flt, 'g', 1)
	case kindDate:
		s = v.date.String()
	case kindTime:
		s = v.time.String()
	case kindTimestamp:
		s = v.ts.String()
	case kindInterval:
		s = intervalSign(v.iv) + interval.Body(v.iv, v.unit, p.IntervalPrecision)
	case kindGUID:
		s = v.guid.String()
	default:
		return Result{}, sqlstate.New(sqlstate.RestrictedType, "cannot store %s as text", v.kind)
	}
	return Result{}, quote(w, []byte(s))
}

func storeBinary(ctype types.CType, v value, w *sqlbuf.Buffer) (Result, error) {
	if ctype != types.CChar && ctype != types.CBinary {
		return Result{}, sqlstate.New(sqlstate.RestrictedType, "cannot store %s as binary", ctype)
	}
	return Result{}, w.WriteString("blob '" + strings.ToUpper(hex.EncodeToString(v.raw)) + "'")
}

func badText(s string, what string) error {
	return sqlstate.New(sqlstate.InvalidCharValue, "%q is not a %s", s, what)
}

func storeDate(v value, w *sqlbuf.Buffer) (Result, error) {
	var (
		res Result
		d   datetime.Date
	)
	switch v.kind {
	case kindText:
		s := string(v.raw)
		if ts, _, ok := datetime.ParseTimestamp(s); ok {
			d = ts.Date
			if !ts.IsMidnight() {
				res.warn(sqlstate.DatetimeOverflow, "time of day discarded")
			}
		} else if d, ok = datetime.ParseDate(s); !ok {
			return Result{}, badText(s, "date")
		}
	case kindDate:
		d = v.date
	case kindTimestamp:
		d = v.ts.Date
		if !v.ts.IsMidnight() {
			res.warn(sqlstate.DatetimeOverflow, "time of day discarded")
		}
	default:
		return Result{}, sqlstate.New(sqlstate.RestrictedType, "cannot store %s as DATE", v.kind)
	}
	return res, w.WriteString(datetime.DateLiteral(d))
}

func storeTime(v value, w *sqlbuf.Buffer) (Result, error) {
	var (
		res Result
		t   datetime.Time
	)
	switch v.kind {
	case kindText:
		s := string(v.raw)
		if ts, lost, ok := datetime.ParseTimestamp(s); ok {
			t = ts.Time
			if lost || ts.Fraction != 0 {
				res.warn(sqlstate.DatetimeOverflow, "fractional seconds discarded")
			}
		} else if tm, lost, ok := datetime.ParseTime(s); ok {
			t = tm
			if lost {
				res.warn(sqlstate.DatetimeOverflow, "fractional seconds discarded")
			}
		} else {
			return Result{}, badText(s, "time")
		}
	case kindTime:
		t = v.time
	case kindTimestamp:
		t = v.ts.Time
		if v.ts.Fraction != 0 {
			res.warn(sqlstate.DatetimeOverflow, "fractional seconds discarded")
		}
	default:
		return Result{}, sqlstate.New(sqlstate.RestrictedType, "cannot store %s as TIME", v.kind)
	}
	return res, w.WriteString(datetime.TimeLiteral(t))
}

func (e *Engine) storeTimestamp(v value, w *sqlbuf.Buffer) (Result, error) {
	var (
		res Result
		ts  datetime.Timestamp
	)
	today := datetime.FromTime(e.now()).Date
	switch v.kind {
	case kindText:
		s := string(v.raw)
		var lost, ok bool
		if ts, lost, ok = datetime.ParseTimestamp(s); ok {
			if lost {
				res.warn(sqlstate.DatetimeOverflow, "fraction beyond nanoseconds discarded")
			}
			break
		}
		if d, ok := datetime.ParseDate(s); ok {
			ts = d.At(datetime.Time{})
			break
		}
		t, lost, ok := datetime.ParseTime(s)
		if !ok {
			return Result{}, badText(s, "timestamp")
		}
		ts = today.At(t)
		if lost {
			res.warn(sqlstate.DatetimeOverflow, "fractional seconds discarded")
		}
	case kindTimestamp:
		ts = v.ts
	case kindDate:
		ts = v.date.At(datetime.Time{})
	case kindTime:
		ts = today.At(v.time)
	default:
		return Result{}, sqlstate.New(sqlstate.RestrictedType, "cannot store %s as TIMESTAMP", v.kind)
	}
	return res, w.WriteString(datetime.TimestampLiteral(ts))
}

func storeInterval(p *Param, v value, w *sqlbuf.Buffer) (Result, error) {
	unit, _ := interval.FromSQLType(p.SQLType)

	var iv interval.Interval
	switch {
	case v.kind == kindText:
		s := string(v.raw)
		if d, outcome := numeric.Parse(s); outcome != numeric.Invalid {
			var ok bool
			if iv, ok = interval.FromDecimal(d, unit); !ok {
				return Result{}, sqlstate.New(sqlstate.IntervalFieldOverflow, "%q does not fit %s", s, unit)
			}
			break
		}
		parsed, err := interval.ParseLiteral(s)
		if err != nil || parsed.Unit.IsYearMonth() != unit.IsYearMonth() {
			return Result{}, badText(s, "INTERVAL "+unit.String())
		}
		iv = parsed.Interval
	case v.isNumeric():
		var ok bool
		if iv, ok = interval.FromDecimal(v.dec, unit); !ok {
			return Result{}, sqlstate.New(sqlstate.IntervalFieldOverflow, "%s does not fit %s", v.dec, unit)
		}
	case v.kind == kindInterval && v.unit.IsYearMonth() == unit.IsYearMonth():
		iv = v.iv
	default:
		return Result{}, sqlstate.New(sqlstate.RestrictedType, "cannot store %s as INTERVAL %s", v.kind, unit)
	}

	var res Result
	if iv.Drops(unit) {
		res.warn(sqlstate.FractionalTruncation, "fields below %s discarded", unit)
	}
	return res, w.WriteString(interval.Literal(iv, unit))
}

// integerBits is the width of each exact integer SQL type.
var integerBits = map[types.SQLType]int{
	types.SQLTinyint:  8,
	types.SQLSmallint: 16,
	types.SQLInteger:  32,
	types.SQLBigint:   64,
}

func storeExact(p *Param, v value, w *sqlbuf.Buffer) (Result, error) {
	var (
		res Result
		d   numeric.Decimal
	)
	switch {
	case v.isNumeric():
		d = v.dec
	case v.kind == kindFloat:
		if math.IsNaN(v.flt) || math.IsInf(v.flt, 0) {
			return Result{}, sqlstate.New(sqlstate.NumericOutOfRange, "%g", v.flt)
		}
		d, _ = numeric.Parse(strconv.FormatFloat(v.flt, 'g', -1, 64))
	case v.kind == kindText:
		s := string(v.raw)
		var outcome numeric.Outcome
		if d, outcome = numeric.Parse(s); outcome == numeric.Invalid {
			return Result{}, badText(s, "number")
		} else if outcome == numeric.Overflow {
			res.warn(sqlstate.FractionalTruncation, "digits beyond 64 bits dropped")
		}
	case v.kind == kindInterval:
		var lost bool
		if d, lost = v.iv.Count(v.unit); lost {
			res.warn(sqlstate.FractionalTruncation, "interval fields dropped")
		}
	default:
		return Result{}, sqlstate.New(sqlstate.RestrictedType, "cannot store %s as %s", v.kind, p.SQLType)
	}

	if p.SQLType == types.SQLBit {
		r, lost, ok := d.Rescale(0)
		if !ok || r.Val > 1 || (r.Negative && r.Val != 0) {
			return Result{}, sqlstate.New(sqlstate.NumericOutOfRange, "%s is not a boolean", d)
		}
		if lost {
			res.warn(sqlstate.StringTruncation, "%s truncated to %d", d, r.Val)
		}
		if r.Val == 1 {
			return res, w.WriteString("true")
		}
		return res, w.WriteString("false")
	}

	scale := 0
	if p.SQLType == types.SQLDecimal || p.SQLType == types.SQLNumeric {
		scale = p.DecimalDigits
	}
	r, lost, ok := d.Rescale(scale)
	if !ok {
		return Result{}, sqlstate.New(sqlstate.NumericOutOfRange, "%s at scale %d", d, scale)
	}
	if bits, ok := integerBits[p.SQLType]; ok && !fitsInteger(r, bits, p.Unsigned) {
		return Result{}, sqlstate.New(sqlstate.NumericOutOfRange, "%s does not fit %s", r, p.SQLType)
	}
	if lost {
		res.warn(sqlstate.FractionalTruncation, "%s rounded to scale %d", d, scale)
	}
	return res, w.WriteString(r.String())
}

// fitsInteger reports whether the scale zero value d fits an integer of the
// given width.
func fitsInteger(d numeric.Decimal, bits int, unsigned bool) bool {
	if unsigned {
		return (!d.Negative || d.Val == 0) && (bits == 64 || d.Val <= uint64(1)<<bits-1)
	}
	limit := uint64(1) << (bits - 1)
	return d.Val < limit || (d.Val == limit && d.Negative)
}

func storeApprox(v value, w *sqlbuf.Buffer) (Result, error) {
	var f float64
	switch {
	case v.kind == kindFloat:
		f = v.flt
	case v.isNumeric():
		f = v.dec.Float64()
	case v.kind == kindText:
		var ok bool
		if f, ok = numeric.ParseFloat(string(v.raw)); !ok {
			return Result{}, badText(string(v.raw), "number")
		}
	default:
		return Result{}, sqlstate.New(sqlstate.RestrictedType, "cannot store %s as a float", v.kind)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Result{}, sqlstate.New(sqlstate.NumericOutOfRange, "%g", f)
	}
	s, _ := numeric.FormatFloat(f, 'e', 1)
	return Result{}, w.WriteString(s)
}

func storeGUID(v value, w *sqlbuf.Buffer) (Result, error) {
	var u uuid.UUID
	switch v.kind {
	case kindGUID:
		u = v.guid
	case kindText:
		s := strings.TrimSpace(string(v.raw))
		var err error
		if len(s) != 36 {
			return Result{}, badText(s, "GUID")
		}
		if u, err = uuid.Parse(s); err != nil {
			return Result{}, badText(s, "GUID")
		}
	default:
		return Result{}, sqlstate.New(sqlstate.RestrictedType, "cannot store %s as GUID", v.kind)
	}
	return Result{}, w.WriteString("'" + u.String() + "'")
}

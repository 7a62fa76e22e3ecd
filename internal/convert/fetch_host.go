package convert

import (
	"encoding/hex"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/markb/odbcconv/internal/datetime"
	"github.com/markb/odbcconv/internal/hostbuf"
	"github.com/markb/odbcconv/internal/interval"
	"github.com/markb/odbcconv/internal/numeric"
	"github.com/markb/odbcconv/internal/sqlstate"
	"github.com/markb/odbcconv/internal/types"
)

// encodeHost writes v into the column buffer as ctype.
func (e *Engine) encodeHost(col *Column, ctype types.CType, v value) (Result, error) {
	switch ctype {
	case types.CChar:
		return e.fetchChar(col, v, false)
	case types.CWChar:
		return e.fetchChar(col, v, true)
	case types.CBinary:
		return fetchBinary(col, v)
	case types.CBit:
		return fetchBit(col, v)
	case types.CNumeric:
		return fetchNumeric(col, v)
	case types.CFloat, types.CDouble:
		return fetchFloat(col, ctype, v)
	case types.CTypeDate:
		return fetchDate(col, v)
	case types.CTypeTime:
		return fetchTime(col, v)
	case types.CTypeTimestamp:
		return e.fetchTimestamp(col, v)
	case types.CGUID:
		return fetchGUID(col, v)
	}
	if ctype.IsInterval() {
		return fetchInterval(col, ctype, v)
	}
	if bits, signed, ok := ctype.IntegerBits(); ok {
		return fetchInt(col, ctype, v, bits, signed)
	}
	return Result{}, sqlstate.New(sqlstate.InvalidAppBufferType, "unsupported host type %s", ctype)
}

// target returns the first size bytes of the column buffer. Fixed size
// targets ignore BufferLength. A nil result means only the length is wanted.
func (c *Column) target(size int) ([]byte, error) {
	if c.Buffer == nil {
		return nil, nil
	}
	if len(c.Buffer) < size {
		return nil, sqlstate.New(sqlstate.InvalidBufferLength, "buffer holds %d of %d bytes", len(c.Buffer), size)
	}
	return c.Buffer[:size], nil
}

func restricted(v value, target types.CType) error {
	return sqlstate.New(sqlstate.RestrictedType, "cannot convert %s to %s", v.kind, target)
}

// exact returns v as a decimal. Text and float sources are reparsed; inexact
// is set when digits were already dropped while parsing.
func exact(v value, target types.CType) (d numeric.Decimal, inexact bool, err error) {
	switch {
	case v.isNumeric():
		return v.dec, v.overflow, nil
	case v.kind == kindFloat:
		d, outcome := numeric.FromFloat(v.flt)
		if outcome == numeric.Invalid {
			return d, false, sqlstate.New(sqlstate.NumericOutOfRange, "%g", v.flt)
		}
		return d, outcome == numeric.Overflow, nil
	case v.kind == kindText:
		s := string(v.raw)
		d, outcome := numeric.Parse(s)
		if outcome == numeric.Invalid {
			return d, false, sqlstate.New(sqlstate.InvalidCharValue, "%q is not a number", s)
		}
		return d, outcome == numeric.Overflow, nil
	case v.kind == kindInterval:
		d, lost := v.iv.Count(v.unit)
		return d, lost, nil
	}
	return numeric.Decimal{}, false, restricted(v, target)
}

func fetchInt(col *Column, ctype types.CType, v value, bits int, signed bool) (Result, error) {
	d, inexact, err := exact(v, ctype)
	if err != nil {
		return Result{}, err
	}
	r, lost, ok := d.Rescale(0)
	if !ok {
		return Result{}, sqlstate.New(sqlstate.NumericOutOfRange, "%s", d)
	}

	if signed {
		limit := uint64(1) << (bits - 1)
		if r.Val > limit || (r.Val == limit && !r.Negative) {
			return Result{}, sqlstate.New(sqlstate.NumericOutOfRange, "%s does not fit %d bits", d, bits)
		}
	} else {
		if r.Negative && r.Val != 0 {
			return Result{}, sqlstate.New(sqlstate.NumericOutOfRange, "%s is negative", d)
		}
		if bits < 64 && r.Val > uint64(1)<<bits-1 {
			return Result{}, sqlstate.New(sqlstate.NumericOutOfRange, "%s does not fit %d bits", d, bits)
		}
	}

	res := Result{Length: bits / 8}
	if lost || inexact {
		res.warn(sqlstate.FractionalTruncation, "%s", d)
	}
	buf, err := col.target(bits / 8)
	if buf == nil {
		return res, err
	}
	u := r.Val
	if r.Negative {
		u = -u
	}
	hostbuf.PutUint(buf, bits, u)
	return res, nil
}

func fetchBit(col *Column, v value) (Result, error) {
	var (
		bit  uint64
		frac bool
	)
	switch {
	case v.kind == kindFloat || v.kind == kindText:
		f := v.flt
		if v.kind == kindText {
			var ok bool
			if f, ok = numeric.ParseFloat(string(v.raw)); !ok {
				return Result{}, sqlstate.New(sqlstate.InvalidCharValue, "%q is not a number", v.raw)
			}
		}
		if !(f >= 0 && f < 2) {
			return Result{}, sqlstate.New(sqlstate.NumericOutOfRange, "%g is not a bit", f)
		}
		if f >= 1 {
			bit = 1
		}
		frac = f != 0 && f != 1
	case v.isNumeric():
		r, lost, ok := v.dec.Rescale(0)
		if !ok || r.Val > 1 || (r.Negative && (r.Val != 0 || lost)) {
			return Result{}, sqlstate.New(sqlstate.NumericOutOfRange, "%s is not a bit", v.dec)
		}
		bit, frac = r.Val, lost
	default:
		return Result{}, restricted(v, types.CBit)
	}

	res := Result{Length: 1}
	if frac {
		res.warn(sqlstate.FractionalTruncation, "bit %d", bit)
	}
	buf, err := col.target(1)
	if buf != nil {
		buf[0] = byte(bit)
	}
	return res, err
}

func fetchNumeric(col *Column, v value) (Result, error) {
	d, inexact, err := exact(v, types.CNumeric)
	if err != nil {
		return Result{}, err
	}

	lost := inexact
	if col.Precision > 0 && col.Precision < 20 {
		scale := int(d.Scale)
		for d.Val >= numeric.Pow10(col.Precision) {
			lost = lost || d.Val%10 != 0
			d.Val /= 10
			scale--
		}
		if scale < math.MinInt8 {
			return Result{}, sqlstate.New(sqlstate.NumericOutOfRange, "value exceeds precision %d", col.Precision)
		}
		d.Scale = int8(scale)
	}
	r, dropped, ok := d.Rescale(col.Scale)
	if !ok {
		return Result{}, sqlstate.New(sqlstate.NumericOutOfRange, "%s at scale %d", d, col.Scale)
	}

	res := Result{Length: hostbuf.NumericSize}
	if lost || dropped {
		res.warn(sqlstate.FractionalTruncation, "%s", r)
	}
	buf, err := col.target(hostbuf.NumericSize)
	if buf == nil {
		return res, err
	}
	hostbuf.PutNumeric(buf, hostbuf.Numeric{
		Precision: uint8(col.Precision),
		Scale:     int8(col.Scale),
		Negative:  r.Negative && r.Val != 0,
		Lo:        r.Val,
	})
	return res, nil
}

// approx returns v as a float.
func approx(v value, target types.CType) (float64, error) {
	switch {
	case v.kind == kindFloat:
		return v.flt, nil
	case v.isNumeric():
		return v.dec.Float64(), nil
	case v.kind == kindText:
		f, ok := numeric.ParseFloat(string(v.raw))
		if !ok {
			return 0, sqlstate.New(sqlstate.InvalidCharValue, "%q is not a number", v.raw)
		}
		return f, nil
	case v.kind == kindInterval:
		d, _ := v.iv.Count(v.unit)
		return d.Float64(), nil
	}
	return 0, restricted(v, target)
}

func fetchFloat(col *Column, ctype types.CType, v value) (Result, error) {
	f, err := approx(v, ctype)
	if err != nil {
		return Result{}, err
	}
	size := 8
	if ctype == types.CFloat {
		if f < -math.MaxFloat32 || f > math.MaxFloat32 {
			return Result{}, sqlstate.New(sqlstate.NumericOutOfRange, "%g does not fit a REAL", f)
		}
		size = 4
	}

	res := Result{Length: size}
	buf, err := col.target(size)
	if buf == nil {
		return res, err
	}
	if size == 4 {
		hostbuf.PutFloat32(buf, float32(f))
	} else {
		hostbuf.PutFloat64(buf, f)
	}
	return res, nil
}

func badCalendar(s []byte, what string) error {
	return sqlstate.New(sqlstate.InvalidCharValue, "%q is not a %s", s, what)
}

func fetchDate(col *Column, v value) (Result, error) {
	var (
		d    datetime.Date
		frac bool
	)
	switch v.kind {
	case kindText:
		s := string(v.raw)
		if ts, lost, ok := datetime.ParseTimestamp(s); ok {
			d, frac = ts.Date, lost || !ts.IsMidnight()
		} else if d, ok = datetime.ParseDate(s); !ok {
			return Result{}, badCalendar(v.raw, "date")
		}
	case kindDate:
		d = v.date
	case kindTimestamp:
		d, frac = v.ts.Date, !v.ts.IsMidnight()
	default:
		return Result{}, restricted(v, types.CTypeDate)
	}

	res := Result{Length: hostbuf.DateSize}
	if frac {
		res.warn(sqlstate.FractionalTruncation, "time of day dropped")
	}
	buf, err := col.target(hostbuf.DateSize)
	if buf != nil {
		hostbuf.PutDate(buf, d)
	}
	return res, err
}

func fetchTime(col *Column, v value) (Result, error) {
	var (
		t    datetime.Time
		frac bool
	)
	switch v.kind {
	case kindText:
		s := string(v.raw)
		if ts, lost, ok := datetime.ParseTimestamp(s); ok {
			t, frac = ts.Time, lost || ts.Fraction != 0
		} else if t, frac, ok = datetime.ParseTime(s); !ok {
			return Result{}, badCalendar(v.raw, "time")
		}
	case kindTime:
		t = v.time
	case kindTimestamp:
		t, frac = v.ts.Time, v.ts.Fraction != 0
	default:
		return Result{}, restricted(v, types.CTypeTime)
	}

	res := Result{Length: hostbuf.TimeSize}
	if frac {
		res.warn(sqlstate.FractionalTruncation, "fractional seconds dropped")
	}
	buf, err := col.target(hostbuf.TimeSize)
	if buf != nil {
		hostbuf.PutTime(buf, t)
	}
	return res, err
}

func (e *Engine) fetchTimestamp(col *Column, v value) (Result, error) {
	today := datetime.FromTime(e.now()).Date

	var (
		ts   datetime.Timestamp
		frac bool
	)
	switch v.kind {
	case kindText:
		s := string(v.raw)
		var ok bool
		if ts, frac, ok = datetime.ParseTimestamp(s); ok {
			break
		}
		if t, lost, ok := datetime.ParseTime(s); ok {
			ts, frac = today.At(t), lost
			break
		}
		d, ok := datetime.ParseDate(s)
		if !ok {
			return Result{}, badCalendar(v.raw, "timestamp")
		}
		ts = d.At(datetime.Time{})
	case kindTimestamp:
		ts = v.ts
	case kindDate:
		ts = v.date.At(datetime.Time{})
	case kindTime:
		ts = today.At(v.time)
	default:
		return Result{}, restricted(v, types.CTypeTimestamp)
	}

	res := Result{Length: hostbuf.TimestampSize}
	if frac {
		res.warn(sqlstate.FractionalTruncation, "fraction beyond nanoseconds dropped")
	}
	buf, err := col.target(hostbuf.TimestampSize)
	if buf != nil {
		hostbuf.PutTimestamp(buf, ts)
	}
	return res, err
}

func fetchInterval(col *Column, ctype types.CType, v value) (Result, error) {
	unit, _ := interval.FromCType(ctype)

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
		p, err := interval.ParseLiteral(s)
		if err != nil {
			return Result{}, sqlstate.New(sqlstate.InvalidCharValue, "%q: %v", s, err)
		}
		if p.Unit.IsYearMonth() != unit.IsYearMonth() {
			return Result{}, restricted(v, ctype)
		}
		iv = p.Interval
	case v.isNumeric():
		var ok bool
		if iv, ok = interval.FromDecimal(v.dec, unit); !ok {
			return Result{}, sqlstate.New(sqlstate.IntervalFieldOverflow, "%s does not fit %s", v.dec, unit)
		}
	case v.kind == kindInterval && v.unit.IsYearMonth() == unit.IsYearMonth():
		iv = v.iv
	default:
		return Result{}, restricted(v, ctype)
	}

	lead := iv.Leading(unit)
	if col.IntervalPrecision > 0 && col.IntervalPrecision < 20 && lead >= numeric.Pow10(col.IntervalPrecision) {
		return Result{}, sqlstate.New(sqlstate.IntervalFieldOverflow, "leading field %d exceeds %d digits", lead, col.IntervalPrecision)
	}
	if lead > math.MaxUint32 {
		return Result{}, sqlstate.New(sqlstate.IntervalFieldOverflow, "leading field %d", lead)
	}

	res := Result{Length: hostbuf.IntervalSize}
	if iv.Drops(unit) {
		res.warn(sqlstate.FractionalTruncation, "fields below %s dropped", unit)
	}
	var frac uint32
	if unit.HasSeconds() {
		var lost bool
		frac, lost = interval.ScaleFraction(iv.Fraction, col.Precision)
		if lost {
			res.warn(sqlstate.FractionalTruncation, "fraction cut to %d digits", col.Precision)
		}
	}

	buf, err := col.target(hostbuf.IntervalSize)
	if buf == nil {
		return res, err
	}
	f := iv.Fields(unit)
	hostbuf.PutInterval(buf, hostbuf.Interval{
		Type:     uint32(unit),
		Negative: iv.Negative,
		Year:     uint32(f[0]),
		Month:    uint32(f[1]),
		Day:      uint32(f[2]),
		Hour:     uint32(f[3]),
		Minute:   uint32(f[4]),
		Second:   uint32(f[5]),
		Fraction: frac,
	})
	return res, nil
}

func fetchGUID(col *Column, v value) (Result, error) {
	s := strings.TrimSpace(string(v.raw))
	if v.kind != kindText || len(s) != 36 {
		return Result{}, restricted(v, types.CGUID)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return Result{}, restricted(v, types.CGUID)
	}

	res := Result{Length: hostbuf.GUIDSize}
	buf, err := col.target(hostbuf.GUIDSize)
	if buf != nil {
		hostbuf.PutGUID(buf, u)
	}
	return res, err
}

// fetchBinary delivers hex wire data decoded, or text sources as raw bytes,
// in chunks without a terminator.
func fetchBinary(col *Column, v value) (Result, error) {
	var src []byte
	switch v.kind {
	case kindHex:
		var err error
		if src, err = hex.DecodeString(string(v.raw)); err != nil {
			return Result{}, sqlstate.New(sqlstate.GeneralError, "bad binary data: %v", err)
		}
	case kindText:
		src = v.raw
	default:
		return Result{}, restricted(v, types.CBinary)
	}

	rest, ok := col.remaining(src)
	if !ok {
		return Result{Status: NoData}, nil
	}
	res := Result{Length: len(rest)}
	if col.Buffer == nil {
		return res, nil
	}
	buflen, err := col.bufLen()
	if err != nil {
		return Result{}, err
	}
	n := copy(col.Buffer[:buflen], rest)
	col.Delivered += n
	if n < len(rest) {
		res.warn(sqlstate.RightTruncation, "%d of %d bytes", n, len(rest))
	}
	return res, nil
}

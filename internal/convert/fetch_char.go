package convert

import (
	"math"
	"strconv"
	"strings"

	"github.com/markb/odbcconv/internal/interval"
	"github.com/markb/odbcconv/internal/numeric"
	"github.com/markb/odbcconv/internal/sqlstate"
)

// piece is a rendered value split at the point where it may be cut. head
// and tail must be delivered whole; mid may be shortened.
type piece struct {
	head, mid, tail string
}

func (p piece) String() string {
	return p.head + p.mid + p.tail
}

// fit lays p into buflen bytes, one of which is reserved for the NUL
// terminator. A value whose head and tail do not fit is out of range.
func (p piece) fit(buflen int) (out string, truncated bool, err error) {
	full := p.String()
	if len(full) < buflen {
		return full, false, nil
	}
	room := buflen - 1 - len(p.head) - len(p.tail)
	if room < 0 {
		return "", false, sqlstate.New(sqlstate.NumericOutOfRange, "%q needs %d bytes", full, len(full)+1)
	}
	mid := p.mid[:room]
	if mid == "." {
		mid = ""
	}
	return p.head + mid + p.tail, true, nil
}

// split returns s as a piece that may lose digits after its decimal point.
func split(s string) piece {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return piece{head: s[:i], mid: s[i:]}
	}
	return piece{head: s}
}

// render formats a non-text value for a narrow buffer of buflen bytes.
// full is the length of the untruncated rendering.
func render(v value, buflen int) (text string, full int, truncated bool, err error) {
	var p piece
	switch v.kind {
	case kindDecimal:
		if v.overflow {
			p = split(strings.TrimSpace(string(v.raw)))
		} else {
			p = split(v.dec.String())
		}
	case kindFloat:
		return renderFloat(v.flt, buflen)
	case kindDate:
		p = piece{head: v.date.String()}
	case kindTime:
		p = piece{head: v.time.String()}
	case kindTimestamp:
		p = piece{head: v.ts.Base(), mid: v.ts.FractionText()}
	case kindInterval:
		p = intervalPiece(v.iv, v.unit)
	case kindGUID:
		p = piece{head: v.guid.String()}
	default:
		return "", 0, false, sqlstate.New(sqlstate.RestrictedType, "cannot render %s", v.kind)
	}
	text, truncated, err = p.fit(buflen)
	return text, len(p.String()), truncated, err
}

// intervalPiece renders iv the way the server prints interval literals:
// INTERVAL -'1 02:03:04.5' DAY TO SECOND. Only the fraction may be cut.
func intervalPiece(iv interval.Interval, unit interval.Unit) piece {
	sign := ""
	if iv.Negative {
		sign = "-"
	}
	frac := ""
	if unit.HasSeconds() {
		frac = interval.FractionText(iv)
	}
	body := strings.TrimSuffix(interval.Body(iv, unit, 0), frac)
	return piece{
		head: "INTERVAL " + sign + "'" + body,
		mid:  frac,
		tail: "' " + unit.String(),
	}
}

// minFloatDigits is the lowest precision a float is ever shortened to.
const minFloatDigits = 4

// renderFloat prints f with the fewest digits that read back exactly. When
// that does not fit, precision is given up one digit at a time down to
// minFloatDigits.
func renderFloat(f float64, buflen int) (text string, full int, truncated bool, err error) {
	s, prec := numeric.FormatFloat(f, 'g', minFloatDigits)
	if len(s) < buflen {
		return s, len(s), false, nil
	}
	for p := prec - 1; p >= minFloatDigits; p-- {
		if t := strconv.FormatFloat(f, 'g', p, 64); len(t) < buflen {
			return t, len(s), true, nil
		}
	}
	return "", len(s), false, sqlstate.New(sqlstate.NumericOutOfRange, "%s needs %d bytes", s, len(s)+1)
}

// remaining returns the part of src not yet delivered. ok is false once a
// previous call has returned all of it.
func (c *Column) remaining(src []byte) (rest []byte, ok bool) {
	if c.Delivered > len(src) || (c.Delivered == len(src) && c.Delivered != 0) {
		return nil, false
	}
	return src[c.Delivered:], true
}

// fetchChar delivers v as narrow or wide text. Text sources are returned in
// chunks across calls; other values are rendered whole on every call.
func (e *Engine) fetchChar(col *Column, v value, wideOut bool) (Result, error) {
	if v.kind == kindText || v.kind == kindHex {
		return fetchText(col, v.raw, wideOut)
	}

	if col.Buffer == nil {
		_, full, _, err := render(v, math.MaxInt)
		if err != nil {
			return Result{}, err
		}
		if wideOut {
			full *= 2
		}
		return Result{Length: full}, nil
	}
	buflen, err := col.bufLen()
	if err != nil {
		return Result{}, err
	}

	var res Result
	if !wideOut {
		text, full, truncated, err := render(v, buflen)
		if err != nil {
			return Result{}, err
		}
		res.Length = full
		n := copy(col.Buffer[:buflen], text)
		if n < buflen {
			col.Buffer[n] = 0
		}
		if truncated {
			res.warn(sqlstate.RightTruncation, "%d of %d bytes", len(text), full)
		}
		return res, nil
	}

	text, full, truncated, err := render(v, e.stage)
	if err != nil {
		return Result{}, err
	}
	consumed, _ := putWide(col.Buffer[:buflen], []byte(text))
	res.Length = full * 2
	if truncated || consumed < len(text) {
		res.warn(sqlstate.RightTruncation, "%d of %d characters", consumed, full)
	}
	return res, nil
}

// fetchText copies the undelivered part of src and advances the cursor by
// what was copied.
func fetchText(col *Column, src []byte, wideOut bool) (Result, error) {
	rest, ok := col.remaining(src)
	if !ok {
		return Result{Status: NoData, Length: 0}, nil
	}
	if col.Buffer == nil {
		if wideOut {
			_, full := putWide(nil, rest)
			return Result{Length: full}, nil
		}
		return Result{Length: len(rest)}, nil
	}
	buflen, err := col.bufLen()
	if err != nil {
		return Result{}, err
	}

	var res Result
	var n int
	if wideOut {
		n, res.Length = putWide(col.Buffer[:buflen], rest)
	} else {
		res.Length = len(rest)
		if buflen > 0 {
			n = copy(col.Buffer[:buflen-1], rest)
			col.Buffer[n] = 0
		}
	}
	col.Delivered += n
	if n < len(rest) {
		res.warn(sqlstate.RightTruncation, "%d of %d bytes", n, len(rest))
	}
	return res, nil
}

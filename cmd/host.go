package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"golang.org/x/text/encoding/unicode"

	"github.com/markb/odbcconv/internal/convert"
	"github.com/markb/odbcconv/internal/hostbuf"
	"github.com/markb/odbcconv/internal/numeric"
	"github.com/markb/odbcconv/internal/types"
)

var wideText = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// written returns the part of buf filled by a fetch that returned res.
func written(ctype types.CType, buf []byte, res convert.Result) []byte {
	if res.Status == convert.Null || res.Status == convert.NoData || buf == nil {
		return nil
	}
	n := res.Length
	switch ctype {
	case types.CChar:
		n = terminated(buf, 1)
	case types.CWChar:
		n = terminated(buf, 2)
	}
	return buf[:min(n, len(buf))]
}

// terminated returns the length of buf through its first NUL of the given
// unit size.
func terminated(buf []byte, unit int) int {
	for i := 0; i+unit <= len(buf); i += unit {
		zero := true
		for _, c := range buf[i : i+unit] {
			zero = zero && c == 0
		}
		if zero {
			return i + unit
		}
	}
	return len(buf)
}

// describeHost renders host bytes of type ctype for display.
func describeHost(ctype types.CType, b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if bits, signed, ok := ctype.IntegerBits(); ok {
		if signed {
			neg, mag, _ := hostbuf.Int(b, bits)
			d := numeric.FromUint(mag)
			d.Negative = neg && mag != 0
			return d.String()
		}
		u, _ := hostbuf.Uint(b, bits)
		return strconv.FormatUint(u, 10)
	}

	switch ctype {
	case types.CChar:
		return strconv.Quote(string(b[:len(b)-1]))
	case types.CWChar:
		if len(b) < 2 {
			return `""`
		}
		s, err := wideText.NewDecoder().Bytes(b[:len(b)-2])
		if err != nil {
			return "?"
		}
		return strconv.Quote(string(s))
	case types.CBinary:
		return hex.EncodeToString(b)
	case types.CBit:
		return strconv.Itoa(int(b[0]))
	case types.CFloat:
		f, _ := hostbuf.Float32(b)
		return strconv.FormatFloat(float64(f), 'g', -1, 32)
	case types.CDouble:
		f, _ := hostbuf.Float64(b)
		return strconv.FormatFloat(f, 'g', -1, 64)
	case types.CNumeric:
		n, _ := hostbuf.ReadNumeric(b)
		if n.Hi != 0 {
			return fmt.Sprintf("hi=%d lo=%d scale=%d", n.Hi, n.Lo, n.Scale)
		}
		d := numeric.Decimal{Val: n.Lo, Scale: n.Scale, Negative: n.Negative}
		return fmt.Sprintf("%s (precision %d)", d, n.Precision)
	case types.CTypeDate:
		d, _ := hostbuf.Date(b)
		return d.String()
	case types.CTypeTime:
		t, _ := hostbuf.Time(b)
		return t.String()
	case types.CTypeTimestamp:
		ts, _ := hostbuf.Timestamp(b)
		return ts.String()
	case types.CGUID:
		u, _ := hostbuf.GUID(b)
		return u.String()
	}

	if ctype.IsInterval() {
		iv, _ := hostbuf.ReadInterval(b)
		sign := "+"
		if iv.Negative {
			sign = "-"
		}
		if ctype.IsYearMonth() {
			return fmt.Sprintf("%s%d-%d", sign, iv.Year, iv.Month)
		}
		return fmt.Sprintf("%s%d %d:%d:%d fraction=%d", sign, iv.Day, iv.Hour, iv.Minute, iv.Second, iv.Fraction)
	}
	return hex.EncodeToString(b)
}

// Package hostbuf reads and writes the fixed little-endian layouts of the
// host structures a caller binds: the integer widths, floats, and the DATE,
// TIME, TIMESTAMP, NUMERIC, INTERVAL and GUID structs.
package hostbuf

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"

	"github.com/markb/odbcconv/internal/datetime"
)

// Struct sizes in bytes.
const (
	DateSize      = 6
	TimeSize      = 6
	TimestampSize = 16
	NumericSize   = 19
	IntervalSize  = 28
	GUIDSize      = 16

	// MaxNumericLen is the byte length of the NUMERIC struct magnitude.
	MaxNumericLen = 16
)

var le = binary.LittleEndian

// PutUint writes the low bits of v as a little-endian integer of the given
// width. It reports false when b is too short.
func PutUint(b []byte, bits int, v uint64) bool {
	n := bits / 8
	if len(b) < n {
		return false
	}
	switch n {
	case 1:
		b[0] = byte(v)
	case 2:
		le.PutUint16(b, uint16(v))
	case 4:
		le.PutUint32(b, uint32(v))
	case 8:
		le.PutUint64(b, v)
	default:
		return false
	}
	return true
}

// Uint reads a little-endian integer of the given width.
func Uint(b []byte, bits int) (uint64, bool) {
	n := bits / 8
	if len(b) < n {
		return 0, false
	}
	switch n {
	case 1:
		return uint64(b[0]), true
	case 2:
		return uint64(le.Uint16(b)), true
	case 4:
		return uint64(le.Uint32(b)), true
	case 8:
		return le.Uint64(b), true
	}
	return 0, false
}

// Int reads a signed little-endian integer of the given width and returns
// its sign and magnitude.
func Int(b []byte, bits int) (negative bool, mag uint64, ok bool) {
	u, ok := Uint(b, bits)
	if !ok {
		return false, 0, false
	}
	shift := 64 - bits
	v := int64(u<<shift) >> shift
	if v < 0 {
		return true, uint64(-(v + 1)) + 1, true
	}
	return false, uint64(v), true
}

// PutFloat32 writes f as an IEEE single.
func PutFloat32(b []byte, f float32) bool {
	return PutUint(b, 32, uint64(math.Float32bits(f)))
}

// PutFloat64 writes f as an IEEE double.
func PutFloat64(b []byte, f float64) bool {
	return PutUint(b, 64, math.Float64bits(f))
}

// Float32 reads an IEEE single.
func Float32(b []byte) (float32, bool) {
	u, ok := Uint(b, 32)
	return math.Float32frombits(uint32(u)), ok
}

// Float64 reads an IEEE double.
func Float64(b []byte) (float64, bool) {
	u, ok := Uint(b, 64)
	return math.Float64frombits(u), ok
}

// PutDate writes a DATE_STRUCT.
func PutDate(b []byte, d datetime.Date) bool {
	if len(b) < DateSize {
		return false
	}
	le.PutUint16(b[0:], uint16(int16(d.Year)))
	le.PutUint16(b[2:], uint16(d.Month))
	le.PutUint16(b[4:], uint16(d.Day))
	return true
}

// Date reads a DATE_STRUCT.
func Date(b []byte) (datetime.Date, bool) {
	if len(b) < DateSize {
		return datetime.Date{}, false
	}
	return datetime.Date{
		Year:  int(int16(le.Uint16(b[0:]))),
		Month: int(le.Uint16(b[2:])),
		Day:   int(le.Uint16(b[4:])),
	}, true
}

// PutTime writes a TIME_STRUCT.
func PutTime(b []byte, t datetime.Time) bool {
	if len(b) < TimeSize {
		return false
	}
	le.PutUint16(b[0:], uint16(t.Hour))
	le.PutUint16(b[2:], uint16(t.Minute))
	le.PutUint16(b[4:], uint16(t.Second))
	return true
}

// Time reads a TIME_STRUCT.
func Time(b []byte) (datetime.Time, bool) {
	if len(b) < TimeSize {
		return datetime.Time{}, false
	}
	return datetime.Time{
		Hour:   int(le.Uint16(b[0:])),
		Minute: int(le.Uint16(b[2:])),
		Second: int(le.Uint16(b[4:])),
	}, true
}

// PutTimestamp writes a TIMESTAMP_STRUCT. The fraction is in nanoseconds.
func PutTimestamp(b []byte, ts datetime.Timestamp) bool {
	if len(b) < TimestampSize {
		return false
	}
	PutDate(b, ts.Date)
	PutTime(b[6:], ts.Time)
	le.PutUint32(b[12:], ts.Fraction)
	return true
}

// Timestamp reads a TIMESTAMP_STRUCT.
func Timestamp(b []byte) (datetime.Timestamp, bool) {
	if len(b) < TimestampSize {
		return datetime.Timestamp{}, false
	}
	d, _ := Date(b)
	t, _ := Time(b[6:])
	return datetime.Timestamp{Date: d, Time: t, Fraction: le.Uint32(b[12:])}, true
}

// Numeric mirrors SQL_NUMERIC_STRUCT. The magnitude is 128 bits split into
// Lo and Hi.
type Numeric struct {
	Precision uint8
	Scale     int8
	Negative  bool
	Lo, Hi    uint64
}

// PutNumeric writes a SQL_NUMERIC_STRUCT. The sign byte is 1 for positive.
func PutNumeric(b []byte, n Numeric) bool {
	if len(b) < NumericSize {
		return false
	}
	b[0] = n.Precision
	b[1] = byte(n.Scale)
	b[2] = 1
	if n.Negative {
		b[2] = 0
	}
	le.PutUint64(b[3:], n.Lo)
	le.PutUint64(b[11:], n.Hi)
	return true
}

// ReadNumeric reads a SQL_NUMERIC_STRUCT.
func ReadNumeric(b []byte) (Numeric, bool) {
	if len(b) < NumericSize {
		return Numeric{}, false
	}
	return Numeric{
		Precision: b[0],
		Scale:     int8(b[1]),
		Negative:  b[2] == 0,
		Lo:        le.Uint64(b[3:]),
		Hi:        le.Uint64(b[11:]),
	}, true
}

// Interval mirrors SQL_INTERVAL_STRUCT. Type holds the interval code minus
// 100, Fraction is scaled by the bound fractional precision.
type Interval struct {
	Type     uint32
	Negative bool

	Year, Month uint32

	Day, Hour, Minute, Second, Fraction uint32
}

// yearMonth reports whether the union holds the year_month member.
func (iv Interval) yearMonth() bool {
	return iv.Type == 1 || iv.Type == 2 || iv.Type == 7
}

// PutInterval writes a SQL_INTERVAL_STRUCT.
func PutInterval(b []byte, iv Interval) bool {
	if len(b) < IntervalSize {
		return false
	}
	clear(b[:IntervalSize])
	le.PutUint32(b[0:], iv.Type)
	if iv.Negative {
		le.PutUint16(b[4:], 1)
	}
	if iv.yearMonth() {
		le.PutUint32(b[8:], iv.Year)
		le.PutUint32(b[12:], iv.Month)
		return true
	}
	le.PutUint32(b[8:], iv.Day)
	le.PutUint32(b[12:], iv.Hour)
	le.PutUint32(b[16:], iv.Minute)
	le.PutUint32(b[20:], iv.Second)
	le.PutUint32(b[24:], iv.Fraction)
	return true
}

// ReadInterval reads a SQL_INTERVAL_STRUCT.
func ReadInterval(b []byte) (Interval, bool) {
	if len(b) < IntervalSize {
		return Interval{}, false
	}
	iv := Interval{
		Type:     le.Uint32(b[0:]),
		Negative: le.Uint16(b[4:]) != 0,
	}
	if iv.yearMonth() {
		iv.Year = le.Uint32(b[8:])
		iv.Month = le.Uint32(b[12:])
		return iv, true
	}
	iv.Day = le.Uint32(b[8:])
	iv.Hour = le.Uint32(b[12:])
	iv.Minute = le.Uint32(b[16:])
	iv.Second = le.Uint32(b[20:])
	iv.Fraction = le.Uint32(b[24:])
	return iv, true
}

// PutGUID writes u as an SQLGUID: Data1, Data2 and Data3 little-endian,
// Data4 in text order.
func PutGUID(b []byte, u uuid.UUID) bool {
	if len(b) < GUIDSize {
		return false
	}
	b[0], b[1], b[2], b[3] = u[3], u[2], u[1], u[0]
	b[4], b[5] = u[5], u[4]
	b[6], b[7] = u[7], u[6]
	copy(b[8:16], u[8:])
	return true
}

// GUID reads an SQLGUID back into text byte order.
func GUID(b []byte) (uuid.UUID, bool) {
	var u uuid.UUID
	if len(b) < GUIDSize {
		return u, false
	}
	u[0], u[1], u[2], u[3] = b[3], b[2], b[1], b[0]
	u[4], u[5] = b[5], b[4]
	u[6], u[7] = b[7], b[6]
	copy(u[8:], b[8:16])
	return u, true
}

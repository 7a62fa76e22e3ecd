// Package numeric implements the fixed-point decimal model and the numeric
// text parsers shared by the fetch and store directions.
package numeric

import (
	"math"
	"strconv"
	"strings"
)

// maxMul10 is the largest magnitude that can be multiplied by ten without
// overflowing a uint64. A boundary magnitude can still take digits up to '5'.
const maxMul10 = math.MaxUint64 / 10

// Decimal is a fixed-point number: Val units of 10^-Scale, with Precision
// significant digits. A negative Scale means trailing zeros were dropped.
type Decimal struct {
	Val       uint64
	Precision uint8
	Scale     int8
	Negative  bool
}

// FromInt returns the decimal for v at scale 0.
func FromInt(v int64) Decimal {
	if v < 0 {
		// -MinInt64 overflows int64 but not uint64
		return FromUint(uint64(-(v + 1)) + 1).Neg()
	}
	return FromUint(uint64(v))
}

// FromUint returns the decimal for v at scale 0.
func FromUint(v uint64) Decimal {
	return Decimal{Val: v, Precision: uint8(digitCount(v))}
}

// FromFloat converts f through its shortest round-trip text form.
func FromFloat(f float64) (Decimal, Outcome) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Decimal{}, Invalid
	}
	return Parse(strconv.FormatFloat(f, 'g', -1, 64))
}

// Neg returns d with the sign flipped.
func (d Decimal) Neg() Decimal {
	d.Negative = !d.Negative
	return d
}

// IsZero reports whether the magnitude is zero.
func (d Decimal) IsZero() bool {
	return d.Val == 0
}

// String renders d as plain decimal text at its own scale.
func (d Decimal) String() string {
	var b strings.Builder
	if d.Negative {
		b.WriteByte('-')
	}
	digits := strconv.FormatUint(d.Val, 10)
	switch {
	case d.Scale <= 0:
		b.WriteString(digits)
		if d.Val != 0 {
			b.WriteString(strings.Repeat("0", int(-d.Scale)))
		}
	default:
		scale := int(d.Scale)
		if len(digits) <= scale {
			digits = strings.Repeat("0", scale-len(digits)+1) + digits
		}
		b.WriteString(digits[:len(digits)-scale])
		b.WriteByte('.')
		b.WriteString(digits[len(digits)-scale:])
	}
	return b.String()
}

// Split returns the integer part and the fractional digits of d. frac holds
// the fraction as an integer with Scale digits. ok is false when a negative
// scale pushes the integer part past 64 bits.
func (d Decimal) Split() (whole, frac uint64, ok bool) {
	if d.Scale <= 0 {
		whole = d.Val
		for i := 0; i < int(-d.Scale); i++ {
			if whole > maxMul10 {
				return 0, 0, false
			}
			whole *= 10
		}
		return whole, 0, true
	}
	f, ok := pow10(int(d.Scale))
	if !ok {
		return 0, d.Val, true
	}
	return d.Val / f, d.Val % f, true
}

// Rescale returns d expressed with the given scale. Digits below the new scale
// are dropped and reported through lost. ok is false when the magnitude does
// not fit in 64 bits at the new scale.
func (d Decimal) Rescale(scale int) (r Decimal, lost bool, ok bool) {
	r = d
	cur := int(d.Scale)
	for cur < scale {
		if r.Val > maxMul10 {
			return d, false, false
		}
		r.Val *= 10
		cur++
	}
	for cur > scale {
		if r.Val%10 != 0 {
			lost = true
		}
		r.Val /= 10
		cur--
	}
	if cur < math.MinInt8 || cur > math.MaxInt8 {
		return d, false, false
	}
	r.Scale = int8(cur)
	r.Precision = uint8(min(digitCount(r.Val), math.MaxUint8))
	return r, lost, true
}

// Float64 returns the nearest float to d.
func (d Decimal) Float64() float64 {
	// a range error still yields ±Inf
	f, _ := strconv.ParseFloat(d.String(), 64)
	return f
}

func digitCount(v uint64) int {
	n := 1
	for v >= 10 {
		v /= 10
		n++
	}
	return n
}

func pow10(n int) (uint64, bool) {
	f := uint64(1)
	for i := 0; i < n; i++ {
		if f > maxMul10 {
			return 0, false
		}
		f *= 10
	}
	return f, true
}

// Pow10 returns 10^n for 0 <= n <= 19.
func Pow10(n int) uint64 {
	f, _ := pow10(n)
	return f
}

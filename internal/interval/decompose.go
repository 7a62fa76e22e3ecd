package interval

import (
	"math"
	"math/bits"

	"github.com/markb/odbcconv/internal/numeric"
)

// FromDecimal decomposes a count expressed in the finest field of unit.
// A YEAR count is taken in years, a MONTH or YEAR TO MONTH count in months,
// and a day-second count in the unit's finest field. Fractions of a month are
// dropped; fractions of a second keep up to nine digits. ok is false when the
// value does not fit.
func FromDecimal(d numeric.Decimal, unit Unit) (Interval, bool) {
	if !unit.Valid() {
		return Interval{}, false
	}
	if unit.IsYearMonth() {
		mul := uint64(1)
		if unit.trail() == fYear {
			mul = 12
		}
		scaled, ok := mulDecimal(d, mul)
		if !ok {
			return Interval{}, false
		}
		months, _, ok := scaled.Split()
		if !ok {
			return Interval{}, false
		}
		return FromMonths(d.Negative, months), true
	}

	scaled, ok := mulDecimal(d, fieldSeconds[unit.trail()])
	if !ok {
		return Interval{}, false
	}
	seconds, frac, ok := scaled.Split()
	if !ok || seconds/86400 > math.MaxUint32 {
		return Interval{}, false
	}
	digits := 0
	var ns uint32
	if scaled.Scale > 0 {
		digits = int(scaled.Scale)
		// keep the most significant nine digits
		for digits > 9 {
			frac /= 10
			digits--
		}
		ns = uint32(frac) * uint32(math.Pow10(9-digits))
	}
	return FromSeconds(d.Negative, seconds, ns, digits), true
}

func mulDecimal(d numeric.Decimal, m uint64) (numeric.Decimal, bool) {
	hi, lo := bits.Mul64(d.Val, m)
	if hi != 0 {
		return d, false
	}
	d.Val = lo
	return d, true
}

// Count recomposes iv into a count of the finest field of unit, the inverse
// of FromDecimal. lost reports dropped finer fields.
func (iv Interval) Count(unit Unit) (d numeric.Decimal, lost bool) {
	lost = iv.Drops(unit)
	var whole uint64
	if unit.IsYearMonth() {
		whole = iv.TotalMonths()
		if unit.trail() == fYear {
			whole = iv.Year
		}
	} else {
		whole = iv.TotalSeconds() / fieldSeconds[unit.trail()]
	}
	d = numeric.FromUint(whole)
	d.Negative = iv.Negative
	if unit.HasSeconds() && iv.Fraction != 0 {
		digits := iv.Digits
		if digits <= 0 || digits > 9 {
			digits = 9
		}
		frac, dropped := ScaleFraction(iv.Fraction, digits)
		lost = lost || dropped
		hi, lo := bits.Mul64(whole, numeric.Pow10(digits))
		if hi == 0 && lo+uint64(frac) >= lo {
			d = numeric.FromUint(lo + uint64(frac))
			d.Scale = int8(digits)
			d.Negative = iv.Negative
		} else {
			lost = true
		}
	}
	return d, lost
}

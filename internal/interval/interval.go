// Package interval decomposes numeric counts into year-month and day-second
// intervals, parses interval literals and renders them back.
package interval

import (
	"math"

	"github.com/markb/odbcconv/internal/types"
)

// Unit is the granularity of an interval, from YEAR through MINUTE TO SECOND.
// Its value is the interval type code minus 100.
type Unit uint8

const (
	Year Unit = iota + 1
	Month
	Day
	Hour
	Minute
	Second
	YearToMonth
	DayToHour
	DayToMinute
	DayToSecond
	HourToMinute
	HourToSecond
	MinuteToSecond
)

// field is one component of an interval value.
type field uint8

const (
	fYear field = iota
	fMonth
	fDay
	fHour
	fMinute
	fSecond
)

var fieldNames = [...]string{"YEAR", "MONTH", "DAY", "HOUR", "MINUTE", "SECOND"}

// fieldSeconds is the length of one unit of each day-second field.
var fieldSeconds = [...]uint64{fDay: 86400, fHour: 3600, fMinute: 60, fSecond: 1}

var unitFields = map[Unit][2]field{
	Year:           {fYear, fYear},
	Month:          {fMonth, fMonth},
	Day:            {fDay, fDay},
	Hour:           {fHour, fHour},
	Minute:         {fMinute, fMinute},
	Second:         {fSecond, fSecond},
	YearToMonth:    {fYear, fMonth},
	DayToHour:      {fDay, fHour},
	DayToMinute:    {fDay, fMinute},
	DayToSecond:    {fDay, fSecond},
	HourToMinute:   {fHour, fMinute},
	HourToSecond:   {fHour, fSecond},
	MinuteToSecond: {fMinute, fSecond},
}

func unitFor(lead, trail field) (Unit, bool) {
	for u, f := range unitFields {
		if f[0] == lead && f[1] == trail {
			return u, true
		}
	}
	return 0, false
}

// FromSQLType returns the unit of an interval SQL type.
func FromSQLType(t types.SQLType) (Unit, bool) {
	if !t.IsInterval() {
		return 0, false
	}
	return Unit(t - 100), true
}

// FromCType returns the unit of an interval host type.
func FromCType(t types.CType) (Unit, bool) {
	if !t.IsInterval() {
		return 0, false
	}
	return Unit(t - 100), true
}

// Valid reports whether u is one of the thirteen units.
func (u Unit) Valid() bool {
	return u >= Year && u <= MinuteToSecond
}

func (u Unit) lead() field  { return unitFields[u][0] }
func (u Unit) trail() field { return unitFields[u][1] }

// IsYearMonth reports whether u belongs to the year-month family.
func (u Unit) IsYearMonth() bool {
	return u == Year || u == Month || u == YearToMonth
}

// HasSeconds reports whether the finest field of u is SECOND.
func (u Unit) HasSeconds() bool {
	return u.Valid() && u.trail() == fSecond
}

func (u Unit) String() string {
	if !u.Valid() {
		return "UNKNOWN"
	}
	lead, trail := u.lead(), u.trail()
	if lead == trail {
		return fieldNames[lead]
	}
	return fieldNames[lead] + " TO " + fieldNames[trail]
}

// Kind tags which half of an Interval is populated.
type Kind uint8

const (
	YearMonthKind Kind = iota + 1
	DaySecondKind
)

// Interval is a signed duration. A year-month value uses Year and Month, a
// day-second value uses Day through Fraction. Fields below the leading one
// are always normalized (Month < 12, Hour < 24, Minute and Second < 60).
// Fraction is in nanoseconds; Digits is how many fractional digits the value
// actually carries.
type Interval struct {
	Kind     Kind
	Negative bool

	Year  uint64
	Month uint64

	Day      uint64
	Hour     uint64
	Minute   uint64
	Second   uint64
	Fraction uint32
	Digits   int
}

// FromMonths builds a normalized year-month interval.
func FromMonths(negative bool, months uint64) Interval {
	return Interval{
		Kind:     YearMonthKind,
		Negative: negative,
		Year:     months / 12,
		Month:    months % 12,
	}
}

// FromSeconds builds a normalized day-second interval.
func FromSeconds(negative bool, seconds uint64, fraction uint32, digits int) Interval {
	return Interval{
		Kind:     DaySecondKind,
		Negative: negative,
		Day:      seconds / 86400,
		Hour:     seconds / 3600 % 24,
		Minute:   seconds / 60 % 60,
		Second:   seconds % 60,
		Fraction: fraction,
		Digits:   digits,
	}
}

// TotalMonths returns the whole value of a year-month interval in months.
func (iv Interval) TotalMonths() uint64 {
	return iv.Year*12 + iv.Month
}

// TotalSeconds returns the whole seconds of a day-second interval.
func (iv Interval) TotalSeconds() uint64 {
	return ((iv.Day*24+iv.Hour)*60+iv.Minute)*60 + iv.Second
}

// Leading returns the value of the leading field of unit, absorbing every
// coarser field. For HOUR TO MINUTE that is 24*Day + Hour.
func (iv Interval) Leading(unit Unit) uint64 {
	switch unit.lead() {
	case fYear:
		return iv.Year
	case fMonth:
		return iv.TotalMonths()
	case fDay:
		return iv.Day
	case fHour:
		return iv.Day*24 + iv.Hour
	case fMinute:
		return (iv.Day*24+iv.Hour)*60 + iv.Minute
	default:
		return iv.TotalSeconds()
	}
}

// Drops reports whether representing iv as unit discards nonzero fields
// finer than the unit's last field.
func (iv Interval) Drops(unit Unit) bool {
	switch unit.trail() {
	case fYear:
		return iv.Month != 0
	case fMonth:
		return false
	case fDay:
		return iv.Hour != 0 || iv.Minute != 0 || iv.Second != 0 || iv.Fraction != 0
	case fHour:
		return iv.Minute != 0 || iv.Second != 0 || iv.Fraction != 0
	case fMinute:
		return iv.Second != 0 || iv.Fraction != 0
	}
	return false
}

// ScaleFraction expresses the nanosecond fraction with digits decimal
// digits. lost is set when nonzero digits had to be dropped.
func ScaleFraction(ns uint32, digits int) (frac uint32, lost bool) {
	digits = max(0, min(digits, 9))
	div := uint32(math.Pow10(9 - digits))
	return ns / div, ns%div != 0
}

// Nanoseconds converts a fraction with digits decimal digits to nanoseconds.
// ok is false when frac has more than digits digits.
func Nanoseconds(frac uint32, digits int) (uint32, bool) {
	digits = max(0, min(digits, 9))
	if uint64(frac) >= uint64(math.Pow10(digits)) {
		return 0, false
	}
	return frac * uint32(math.Pow10(9-digits)), true
}

// Fields returns the year, month, day, hour, minute and second values of iv
// as laid out for unit. The leading field absorbs every coarser field and
// fields outside the unit are zero.
func (iv Interval) Fields(unit Unit) [6]uint64 {
	var out [6]uint64
	if !unit.Valid() {
		return out
	}
	lead, trail := unit.lead(), unit.trail()
	out[lead] = iv.Leading(unit)
	for f := lead + 1; f <= trail; f++ {
		switch f {
		case fMonth:
			out[f] = iv.Month
		case fHour:
			out[f] = iv.Hour
		case fMinute:
			out[f] = iv.Minute
		case fSecond:
			out[f] = iv.Second
		}
	}
	return out
}

// FromFields builds a normalized interval from the year through second
// values of a host structure. Only the fields that belong to unit are read.
// fraction is in nanoseconds with digits significant digits.
func FromFields(unit Unit, negative bool, fields [6]uint64, fraction uint32, digits int) (Interval, bool) {
	if !unit.Valid() {
		return Interval{}, false
	}
	var v [6]uint64
	for f := unit.lead(); f <= unit.trail(); f++ {
		v[f] = fields[f]
	}
	if unit.IsYearMonth() {
		return FromMonths(negative, v[fYear]*12+v[fMonth]), true
	}
	seconds := ((v[fDay]*24+v[fHour])*60+v[fMinute])*60 + v[fSecond]
	if !unit.HasSeconds() {
		fraction, digits = 0, 0
	}
	return FromSeconds(negative, seconds, fraction, digits), true
}

// Package datetime holds the calendar values exchanged between the wire text
// form and host buffers, with their parsers and formatters.
package datetime

import (
	"fmt"
	"strings"
	"time"
)

// MaxSecond is the largest accepted seconds field. Values above 59 are
// tolerated as leap seconds.
const MaxSecond = 61

// FractionDigits is the number of digits carried by a nanosecond fraction.
const FractionDigits = 9

var monthDays = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in month of year, or 0 for a bad month.
func DaysIn(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && !IsLeap(year) {
		return 28
	}
	return monthDays[month]
}

// Date is a calendar date.
type Date struct {
	Year, Month, Day int
}

// Time is a time of day.
type Time struct {
	Hour, Minute, Second int
}

// Timestamp is a date and time with a fraction in nanoseconds.
type Timestamp struct {
	Date
	Time
	Fraction uint32
}

// Valid reports whether the day exists in the calendar.
func (d Date) Valid() bool {
	return d.Year >= 0 && d.Day >= 1 && d.Day <= DaysIn(d.Year, d.Month)
}

// Valid reports whether each field is in range.
func (t Time) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 &&
		t.Minute >= 0 && t.Minute <= 59 &&
		t.Second >= 0 && t.Second <= MaxSecond
}

// Valid reports whether both parts are valid and the fraction is below one second.
func (ts Timestamp) Valid() bool {
	return ts.Date.Valid() && ts.Time.Valid() && ts.Fraction < 1e9
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// IsMidnight reports whether all time fields are zero.
func (ts Timestamp) IsMidnight() bool {
	return ts.Hour == 0 && ts.Minute == 0 && ts.Second == 0 && ts.Fraction == 0
}

// Base renders the timestamp without its fraction.
func (ts Timestamp) Base() string {
	return ts.Date.String() + " " + ts.Time.String()
}

// FractionText renders the fraction with trailing zeros removed and a
// leading point, or "" when the fraction is zero.
func (ts Timestamp) FractionText() string {
	if ts.Fraction == 0 {
		return ""
	}
	s := strings.TrimRight(fmt.Sprintf("%09d", ts.Fraction), "0")
	return "." + s
}

func (ts Timestamp) String() string {
	return ts.Base() + ts.FractionText()
}

// At combines d with a time of day.
func (d Date) At(t Time) Timestamp {
	return Timestamp{Date: d, Time: t}
}

// FromTime converts a time.Time in its own location.
func FromTime(t time.Time) Timestamp {
	return Timestamp{
		Date:     Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()},
		Time:     Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()},
		Fraction: uint32(t.Nanosecond()),
	}
}

// Literal forms used on the store side. The year is not zero padded.

// DateLiteral renders d as a DATE literal.
func DateLiteral(d Date) string {
	return fmt.Sprintf("DATE '%d-%02d-%02d'", d.Year, d.Month, d.Day)
}

// TimeLiteral renders t as a TIME literal.
func TimeLiteral(t Time) string {
	return fmt.Sprintf("TIME '%d:%02d:%02d'", t.Hour, t.Minute, t.Second)
}

// TimestampLiteral renders ts as a TIMESTAMP literal with all nine fraction
// digits when the fraction is nonzero.
func TimestampLiteral(ts Timestamp) string {
	s := fmt.Sprintf("TIMESTAMP '%d-%02d-%02d %02d:%02d:%02d",
		ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second)
	if ts.Fraction != 0 {
		s += fmt.Sprintf(".%09d", ts.Fraction)
	}
	return s + "'"
}

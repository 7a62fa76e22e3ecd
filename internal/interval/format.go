package interval

import (
	"fmt"
	"strings"
)

// Body renders the quoted part of an interval literal for unit, without
// sign or quotes. The leading field is zero padded to width digits and the
// subordinate fields to two. A fraction is appended only when nonzero.
func Body(iv Interval, unit Unit, width int) string {
	if !unit.Valid() {
		return ""
	}
	lead, trail := unit.lead(), unit.trail()

	var b strings.Builder
	fmt.Fprintf(&b, "%0*d", width, iv.Leading(unit))
	for f := lead + 1; f <= trail; f++ {
		switch f {
		case fMonth:
			fmt.Fprintf(&b, "-%02d", iv.Month)
		case fHour:
			fmt.Fprintf(&b, " %02d", iv.Hour)
		case fMinute:
			fmt.Fprintf(&b, ":%02d", iv.Minute)
		case fSecond:
			fmt.Fprintf(&b, ":%02d", iv.Second)
		}
	}
	if trail == fSecond {
		b.WriteString(FractionText(iv))
	}
	return b.String()
}

// FractionText renders the fraction of iv with its own digit count, or with
// trailing zeros trimmed when the count is unknown. Zero renders as "".
func FractionText(iv Interval) string {
	if iv.Fraction == 0 {
		return ""
	}
	if iv.Digits <= 0 || iv.Digits > 9 {
		return "." + strings.TrimRight(fmt.Sprintf("%09d", iv.Fraction), "0")
	}
	frac, _ := ScaleFraction(iv.Fraction, iv.Digits)
	return fmt.Sprintf(".%0*d", iv.Digits, frac)
}

// Literal renders iv as an INTERVAL literal for unit, for example
// INTERVAL -'1 02:03:04.5' DAY TO SECOND.
func Literal(iv Interval, unit Unit) string {
	sign := ""
	if iv.Negative {
		sign = "-"
	}
	return "INTERVAL " + sign + "'" + Body(iv, unit, 0) + "' " + unit.String()
}

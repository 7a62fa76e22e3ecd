package datetime

import "strings"

// scanner walks a literal byte by byte. Every method leaves the position
// unchanged when it fails.
type scanner struct {
	s string
	i int
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func (sc *scanner) skipSpace() {
	for sc.i < len(sc.s) && isSpace(sc.s[sc.i]) {
		sc.i++
	}
}

func (sc *scanner) peek() byte {
	if sc.i < len(sc.s) {
		return sc.s[sc.i]
	}
	return 0
}

func (sc *scanner) accept(c byte) bool {
	if sc.peek() == c && sc.i < len(sc.s) {
		sc.i++
		return true
	}
	return false
}

// keyword matches word case-insensitively.
func (sc *scanner) keyword(word string) bool {
	if len(sc.s)-sc.i >= len(word) && strings.EqualFold(sc.s[sc.i:sc.i+len(word)], word) {
		sc.i += len(word)
		return true
	}
	return false
}

// number reads an unsigned decimal of at most maxDigits digits.
func (sc *scanner) number(maxDigits int) (int, bool) {
	start := sc.i
	n := 0
	for sc.i < len(sc.s) && sc.s[sc.i] >= '0' && sc.s[sc.i] <= '9' {
		if sc.i-start == maxDigits {
			sc.i = start
			return 0, false
		}
		n = n*10 + int(sc.s[sc.i]-'0')
		sc.i++
	}
	if sc.i == start {
		return 0, false
	}
	return n, true
}

func (sc *scanner) end() bool {
	sc.skipSpace()
	return sc.i == len(sc.s)
}

// escape consumes "{tag '" and reports whether the escape form is used.
// ok is false when an opening brace is present but the tag does not match.
func (sc *scanner) escape(tag string) (escaped, ok bool) {
	sc.skipSpace()
	if !sc.accept('{') {
		return false, true
	}
	sc.skipSpace()
	if !sc.keyword(tag) {
		return true, false
	}
	sc.skipSpace()
	if !sc.accept('\'') {
		return true, false
	}
	return true, true
}

// closeEscape consumes "'}" after an escaped literal.
func (sc *scanner) closeEscape() bool {
	if !sc.accept('\'') {
		return false
	}
	sc.skipSpace()
	return sc.accept('}')
}

func (sc *scanner) date() (Date, bool) {
	var d Date
	var ok bool
	if d.Year, ok = sc.number(5); !ok || d.Year > 32767 {
		return d, false
	}
	if !sc.accept('-') {
		return d, false
	}
	if d.Month, ok = sc.number(2); !ok || !sc.accept('-') {
		return d, false
	}
	if d.Day, ok = sc.number(2); !ok {
		return d, false
	}
	return d, d.Valid()
}

func (sc *scanner) clock() (Time, bool) {
	var t Time
	var ok bool
	if t.Hour, ok = sc.number(2); !ok || !sc.accept(':') {
		return t, false
	}
	if t.Minute, ok = sc.number(2); !ok || !sc.accept(':') {
		return t, false
	}
	if t.Second, ok = sc.number(2); !ok {
		return t, false
	}
	return t, t.Valid()
}

// fraction reads ".digits" into nanoseconds. lost is true when a nonzero
// digit beyond nanosecond resolution was dropped.
func (sc *scanner) fraction() (frac uint32, digits int, lost bool) {
	if !sc.accept('.') {
		return 0, 0, false
	}
	n := uint32(1e9)
	for sc.i < len(sc.s) && sc.s[sc.i] >= '0' && sc.s[sc.i] <= '9' {
		n /= 10
		if n == 0 {
			lost = lost || sc.s[sc.i] != '0'
		} else {
			frac += uint32(sc.s[sc.i]-'0') * n
		}
		digits++
		sc.i++
	}
	return frac, digits, lost
}

// zone validates and discards a "+hh:mm" or "-hh:mm" suffix.
func (sc *scanner) zone() bool {
	save := sc.i
	sc.skipSpace()
	if c := sc.peek(); c != '+' && c != '-' {
		sc.i = save
		return true
	}
	sc.i++
	h, ok := sc.number(2)
	if !ok || h > 23 || !sc.accept(':') {
		return false
	}
	m, ok := sc.number(2)
	return ok && m <= 59
}

// ParseDate parses "YYYY-MM-DD" or "{d 'YYYY-MM-DD'}".
func ParseDate(s string) (Date, bool) {
	sc := &scanner{s: s}
	escaped, ok := sc.escape("d")
	if !ok {
		return Date{}, false
	}
	sc.skipSpace()
	d, ok := sc.date()
	if !ok {
		return Date{}, false
	}
	if escaped && !sc.closeEscape() {
		return Date{}, false
	}
	if !sc.end() {
		return Date{}, false
	}
	return d, true
}

// ParseTime parses "HH:MM:SS" or "{t 'HH:MM:SS'}". A fractional seconds
// suffix is accepted and dropped, which sets lost. A zone suffix is checked
// and ignored.
func ParseTime(s string) (t Time, lost bool, ok bool) {
	sc := &scanner{s: s}
	escaped, ok := sc.escape("t")
	if !ok {
		return Time{}, false, false
	}
	sc.skipSpace()
	if t, ok = sc.clock(); !ok {
		return Time{}, false, false
	}
	frac, digits, dropped := sc.fraction()
	if digits == 0 && sc.s[sc.i-1] == '.' {
		return Time{}, false, false
	}
	lost = frac != 0 || dropped
	if !sc.zone() {
		return Time{}, false, false
	}
	if escaped && !sc.closeEscape() {
		return Time{}, false, false
	}
	if !sc.end() {
		return Time{}, false, false
	}
	return t, lost, true
}

// ParseTimestamp parses "YYYY-MM-DD HH:MM:SS[.fffffffff]" or the
// "{ts '...'}" form. Fraction digits beyond nanoseconds set lost.
func ParseTimestamp(s string) (ts Timestamp, lost bool, ok bool) {
	sc := &scanner{s: s}
	escaped, ok := sc.escape("ts")
	if !ok {
		return Timestamp{}, false, false
	}
	sc.skipSpace()
	if ts.Date, ok = sc.date(); !ok {
		return Timestamp{}, false, false
	}
	if !isSpace(sc.peek()) {
		return Timestamp{}, false, false
	}
	sc.skipSpace()
	if ts.Time, ok = sc.clock(); !ok {
		return Timestamp{}, false, false
	}
	var digits int
	ts.Fraction, digits, lost = sc.fraction()
	if digits == 0 && sc.s[sc.i-1] == '.' {
		return Timestamp{}, false, false
	}
	if !sc.zone() {
		return Timestamp{}, false, false
	}
	if escaped && !sc.closeEscape() {
		return Timestamp{}, false, false
	}
	if !sc.end() {
		return Timestamp{}, false, false
	}
	return ts, lost, true
}

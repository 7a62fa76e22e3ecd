package interval

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strings"
)

// Default precisions applied when a literal does not declare its own.
const (
	DefaultLeadingPrecision = 2
	DefaultSecondPrecision  = 6
)

var (
	// ErrSyntax is returned for text that is not an interval literal.
	ErrSyntax = errors.New("invalid interval literal")
	// ErrField is returned when a subordinate field is out of range.
	ErrField = errors.New("interval field out of range")
	// ErrPrecision is returned when a field has more digits than declared.
	ErrPrecision = errors.New("interval precision exceeded")
)

// Parsed is the result of ParseLiteral.
type Parsed struct {
	Interval
	Unit             Unit
	LeadingPrecision int
	SecondPrecision  int
}

type lexer struct {
	s string
	i int
}

func (l *lexer) space() {
	for l.i < len(l.s) && (l.s[l.i] == ' ' || l.s[l.i] == '\t') {
		l.i++
	}
}

func (l *lexer) accept(c byte) bool {
	if l.i < len(l.s) && l.s[l.i] == c {
		l.i++
		return true
	}
	return false
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

// word matches a keyword case-insensitively on a word boundary.
func (l *lexer) word(w string) bool {
	end := l.i + len(w)
	if end > len(l.s) || !strings.EqualFold(l.s[l.i:end], w) {
		return false
	}
	if end < len(l.s) && isLetter(l.s[end]) {
		return false
	}
	l.i = end
	return true
}

func (l *lexer) field() (field, bool) {
	for f, name := range fieldNames {
		if l.word(name) {
			return field(f), true
		}
	}
	return 0, false
}

// digits reads a run of decimal digits. n is the number of digits read.
func (l *lexer) digits() (v uint64, n int, overflow bool) {
	for l.i < len(l.s) && l.s[l.i] >= '0' && l.s[l.i] <= '9' {
		d := uint64(l.s[l.i] - '0')
		if v > (math.MaxUint64-d)/10 {
			overflow = true
		}
		v = v*10 + d
		n++
		l.i++
	}
	return v, n, overflow
}

func (l *lexer) precision() (int, bool) {
	l.space()
	v, n, overflow := l.digits()
	if n == 0 || overflow || v > 64 {
		return 0, false
	}
	l.space()
	return int(v), true
}

// ParseLiteral parses
//
//	INTERVAL [-] '<fields>' <UNIT>[(p[,q])] [TO <UNIT>[(q)]]
//
// where p bounds the digits of the leading field and q the fractional
// seconds digits.
func ParseLiteral(s string) (Parsed, error) {
	l := &lexer{s: s}
	l.space()
	if !l.word("INTERVAL") {
		return Parsed{}, fmt.Errorf("%w: missing INTERVAL keyword", ErrSyntax)
	}
	l.space()
	negative := false
	if l.accept('-') {
		negative = true
	} else {
		l.accept('+')
	}
	l.space()
	if !l.accept('\'') {
		return Parsed{}, fmt.Errorf("%w: missing opening quote", ErrSyntax)
	}
	end := strings.IndexByte(s[l.i:], '\'')
	if end < 0 {
		return Parsed{}, fmt.Errorf("%w: missing closing quote", ErrSyntax)
	}
	body := s[l.i : l.i+end]
	l.i += end + 1
	l.space()

	p := Parsed{
		LeadingPrecision: DefaultLeadingPrecision,
		SecondPrecision:  DefaultSecondPrecision,
	}
	lead, ok := l.field()
	if !ok {
		return Parsed{}, fmt.Errorf("%w: missing unit", ErrSyntax)
	}
	if l.accept('(') {
		if p.LeadingPrecision, ok = l.precision(); !ok {
			return Parsed{}, fmt.Errorf("%w: bad precision", ErrSyntax)
		}
		if lead == fSecond && l.accept(',') {
			if p.SecondPrecision, ok = l.precision(); !ok {
				return Parsed{}, fmt.Errorf("%w: bad seconds precision", ErrSyntax)
			}
		}
		if !l.accept(')') {
			return Parsed{}, fmt.Errorf("%w: unclosed precision", ErrSyntax)
		}
	}
	trail := lead
	l.space()
	if l.word("TO") {
		l.space()
		if trail, ok = l.field(); !ok || trail <= lead {
			return Parsed{}, fmt.Errorf("%w: bad TO unit", ErrSyntax)
		}
		if trail == fSecond && l.accept('(') {
			if p.SecondPrecision, ok = l.precision(); !ok || !l.accept(')') {
				return Parsed{}, fmt.Errorf("%w: bad seconds precision", ErrSyntax)
			}
		}
	}
	l.space()
	if l.i != len(s) {
		return Parsed{}, fmt.Errorf("%w: trailing text %q", ErrSyntax, s[l.i:])
	}
	if p.Unit, ok = unitFor(lead, trail); !ok {
		return Parsed{}, fmt.Errorf("%w: %s TO %s", ErrSyntax, fieldNames[lead], fieldNames[trail])
	}

	iv, err := parseBody(body, p.Unit, p.LeadingPrecision, p.SecondPrecision)
	if err != nil {
		return Parsed{}, err
	}
	iv.Negative = negative
	p.Interval = iv
	return p, nil
}

// parseBody reads the quoted field list of a literal of the given unit.
func parseBody(body string, unit Unit, leadPrec, secPrec int) (Interval, error) {
	l := &lexer{s: body}
	l.space()
	if l.i < len(body) && (body[l.i] == '-' || body[l.i] == '+') {
		return Interval{}, fmt.Errorf("%w: sign inside quotes", ErrSyntax)
	}
	lead, trail := unit.lead(), unit.trail()

	var vals [6]uint64
	for f := lead; f <= trail; f++ {
		if f != lead {
			switch {
			case f == fHour && lead == fDay:
				if l.i >= len(body) || body[l.i] != ' ' {
					return Interval{}, fmt.Errorf("%w: expected space before hours", ErrSyntax)
				}
				l.space()
			case f == fMonth:
				if !l.accept('-') {
					return Interval{}, fmt.Errorf("%w: expected '-' before months", ErrSyntax)
				}
			default:
				if !l.accept(':') {
					return Interval{}, fmt.Errorf("%w: expected ':' before %s", ErrSyntax, strings.ToLower(fieldNames[f]))
				}
			}
		}
		v, n, overflow := l.digits()
		if n == 0 || overflow {
			return Interval{}, fmt.Errorf("%w: bad %s field", ErrSyntax, strings.ToLower(fieldNames[f]))
		}
		if f == lead {
			if n > leadPrec {
				return Interval{}, fmt.Errorf("%w: %d leading digits, precision %d", ErrPrecision, n, leadPrec)
			}
		} else if n > 2 || v >= subordinateLimit(f) {
			return Interval{}, fmt.Errorf("%w: %s %d", ErrField, strings.ToLower(fieldNames[f]), v)
		}
		vals[f] = v
	}

	var frac uint32
	digits := 0
	if trail == fSecond && l.accept('.') {
		start := l.i
		for l.i < len(body) && body[l.i] >= '0' && body[l.i] <= '9' {
			if l.i-start < 9 {
				frac = frac*10 + uint32(body[l.i]-'0')
			}
			l.i++
		}
		n := l.i - start
		if n == 0 {
			return Interval{}, fmt.Errorf("%w: empty fraction", ErrSyntax)
		}
		if n > secPrec {
			return Interval{}, fmt.Errorf("%w: %d fraction digits, precision %d", ErrPrecision, n, secPrec)
		}
		digits = min(n, 9)
		frac *= uint32(math.Pow10(9 - digits))
	}
	l.space()
	if l.i != len(body) {
		return Interval{}, fmt.Errorf("%w: unexpected %q", ErrSyntax, body[l.i:])
	}

	if unit.IsYearMonth() {
		months := vals[fMonth]
		if lead == fYear {
			hi, lo := bits.Mul64(vals[fYear], 12)
			if hi != 0 || lo+months < lo {
				return Interval{}, fmt.Errorf("%w: too many years", ErrField)
			}
			months += lo
		}
		return FromMonths(false, months), nil
	}

	var seconds uint64
	for f := lead; f <= trail; f++ {
		hi, lo := bits.Mul64(vals[f], fieldSeconds[f])
		if hi != 0 || seconds+lo < seconds {
			return Interval{}, fmt.Errorf("%w: value too large", ErrField)
		}
		seconds += lo
	}
	return FromSeconds(false, seconds, frac, digits), nil
}

func subordinateLimit(f field) uint64 {
	switch f {
	case fMonth:
		return 12
	case fHour:
		return 24
	default:
		return 60
	}
}

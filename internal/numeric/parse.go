package numeric

import (
	"math"
	"strconv"
	"strings"
)

// Outcome classifies the result of Parse.
type Outcome int

const (
	// Invalid means the text is not a number.
	Invalid Outcome = iota
	// OK means every digit was kept.
	OK
	// Overflow means digits beyond 64 bits were dropped. The scale still
	// reflects the dropped integer digits so the order of magnitude is right.
	Overflow
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case Overflow:
		return "overflow"
	default:
		return "invalid"
	}
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

// Parse reads decimal or scientific notation text into a Decimal.
//
// Leading and trailing blanks are allowed. An exponent shifts the scale and
// the result is then normalized toward scale zero while the magnitude fits.
func Parse(s string) (Decimal, Outcome) {
	var d Decimal
	i := 0
	for i < len(s) && isBlank(s[i]) {
		i++
	}
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		d.Negative = s[i] == '-'
		i++
	}

	var (
		scale     int
		precision int
		fraction  bool
		overflow  bool
		digits    bool
	)
	for ; i < len(s); i++ {
		c := s[i]
		if c == 'e' || c == 'E' || isBlank(c) {
			break
		}
		if c == '.' {
			if fraction {
				return Decimal{}, Invalid
			}
			fraction = true
			continue
		}
		if c < '0' || c > '9' {
			return Decimal{}, Invalid
		}
		digits = true
		n := uint64(c - '0')
		if overflow || d.Val > maxMul10 || (d.Val == maxMul10 && n > 5) {
			overflow = true
			if !fraction {
				scale--
			}
			continue
		}
		precision++
		if fraction {
			scale++
		}
		d.Val = d.Val*10 + n
	}
	if !digits {
		return Decimal{}, Invalid
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		for j < len(s) && !isBlank(s[j]) {
			j++
		}
		exp, err := strconv.ParseInt(s[i+1:j], 10, 16)
		if err != nil {
			return Decimal{}, Invalid
		}
		scale -= int(exp)
		i = j

		for scale > 0 && d.Val%10 == 0 {
			if d.Val == 0 {
				scale = 0
				break
			}
			d.Val /= 10
			scale--
			precision--
		}
		for scale < 0 && d.Val <= maxMul10 {
			d.Val *= 10
			scale++
			precision++
		}
	}

	if strings.TrimLeft(s[i:], " \t") != "" {
		return Decimal{}, Invalid
	}
	if scale < math.MinInt8 || scale > math.MaxInt8 {
		return Decimal{}, Invalid
	}
	d.Scale = int8(scale)
	d.Precision = uint8(max(0, min(precision, math.MaxUint8)))
	if overflow {
		return d, Overflow
	}
	return d, OK
}

// ParseFloat parses all of s as a float64. Surrounding white space is
// ignored; any other trailing text or a range error fails.
func ParseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatFloat returns the shortest rendering of f, using verb 'g' or 'e',
// whose precision is at least minPrec and that parses back to exactly f.
// The second result is the precision used.
func FormatFloat(f float64, verb byte, minPrec int) (string, int) {
	for p := minPrec; p < 17; p++ {
		s := strconv.FormatFloat(f, verb, p, 64)
		if back, err := strconv.ParseFloat(s, 64); err == nil && back == f {
			return s, p
		}
	}
	return strconv.FormatFloat(f, verb, 17, 64), 17
}

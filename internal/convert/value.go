package convert

import (
	"github.com/google/uuid"

	"github.com/markb/odbcconv/internal/datetime"
	"github.com/markb/odbcconv/internal/interval"
	"github.com/markb/odbcconv/internal/numeric"
)

// kind tags which member of value is populated.
type kind uint8

const (
	kindText kind = iota + 1
	kindHex
	kindBytes
	kindDecimal
	kindBit
	kindFloat
	kindDate
	kindTime
	kindTimestamp
	kindInterval
	kindGUID
)

var kindNames = map[kind]string{
	kindText:      "text",
	kindHex:       "hex",
	kindBytes:     "bytes",
	kindDecimal:   "decimal",
	kindBit:       "bit",
	kindFloat:     "float",
	kindDate:      "date",
	kindTime:      "time",
	kindTimestamp: "timestamp",
	kindInterval:  "interval",
	kindGUID:      "guid",
}

func (k kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// value is the canonical form passed from a decode stage to an encode stage.
// raw always holds the source text or bytes when there was one, so encoders
// can reparse it for a different target.
type value struct {
	kind kind
	raw  []byte

	dec      numeric.Decimal
	overflow bool
	flt      float64

	date datetime.Date
	time datetime.Time
	ts   datetime.Timestamp

	iv   interval.Interval
	unit interval.Unit

	guid uuid.UUID
}

// isText reports whether v carries text that encoders may parse.
func (v value) isText() bool {
	return v.kind == kindText || v.kind == kindBytes
}

// isNumeric reports whether v is an exact number.
func (v value) isNumeric() bool {
	return v.kind == kindDecimal || v.kind == kindBit
}

func textValue(b []byte) value {
	return value{kind: kindText, raw: b}
}

func decimalValue(d numeric.Decimal) value {
	return value{kind: kindDecimal, dec: d}
}

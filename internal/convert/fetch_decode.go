package convert

import (
	"strings"

	"github.com/markb/odbcconv/internal/datetime"
	"github.com/markb/odbcconv/internal/interval"
	"github.com/markb/odbcconv/internal/numeric"
	"github.com/markb/odbcconv/internal/sqlstate"
	"github.com/markb/odbcconv/internal/types"
)

func invalidCast(t types.SQLType, s string) error {
	return sqlstate.New(sqlstate.InvalidCharValue, "%q is not a valid %s", s, t)
}

// decodeWire turns server text for a column of type t into a canonical
// value. Types without a richer form stay text.
func decodeWire(t types.SQLType, data []byte) (value, error) {
	s := string(data)
	if t.IsInterval() {
		return decodeWireInterval(t, s, data)
	}

	switch t {
	case types.SQLDecimal, types.SQLNumeric, types.SQLBigint, types.SQLInteger,
		types.SQLSmallint, types.SQLTinyint:
		d, outcome := numeric.Parse(s)
		if outcome == numeric.Invalid {
			return value{}, invalidCast(t, s)
		}
		v := decimalValue(d)
		v.raw = data
		v.overflow = outcome == numeric.Overflow
		return v, nil

	case types.SQLReal, types.SQLFloat, types.SQLDouble:
		f, ok := numeric.ParseFloat(s)
		if !ok {
			return value{}, invalidCast(t, s)
		}
		return value{kind: kindFloat, raw: data, flt: f}, nil

	case types.SQLBit:
		b, ok := parseBool(s)
		if !ok {
			return value{}, invalidCast(t, s)
		}
		v := decimalValue(numeric.FromUint(b))
		v.raw = data
		return v, nil

	case types.SQLTypeDate:
		d, ok := datetime.ParseDate(s)
		if !ok {
			return value{}, invalidCast(t, s)
		}
		return value{kind: kindDate, raw: data, date: d}, nil

	case types.SQLTypeTime:
		tm, _, ok := datetime.ParseTime(s)
		if !ok {
			return value{}, invalidCast(t, s)
		}
		return value{kind: kindTime, raw: data, time: tm}, nil

	case types.SQLTypeTimestamp:
		ts, _, ok := datetime.ParseTimestamp(s)
		if !ok {
			return value{}, invalidCast(t, s)
		}
		return value{kind: kindTimestamp, raw: data, ts: ts}, nil

	case types.SQLBinary, types.SQLVarbinary, types.SQLLongVarbinary:
		return value{kind: kindHex, raw: data}, nil
	}
	return textValue(data), nil
}

// decodeWireInterval reads an interval column. The server sends a count of
// months for the year-month types and a count of seconds for the rest; a
// full INTERVAL literal is accepted as well.
func decodeWireInterval(t types.SQLType, s string, data []byte) (value, error) {
	unit, _ := interval.FromSQLType(t)

	d, outcome := numeric.Parse(s)
	if outcome == numeric.Invalid {
		p, err := interval.ParseLiteral(s)
		if err != nil || p.Unit.IsYearMonth() != unit.IsYearMonth() {
			return value{}, invalidCast(t, s)
		}
		return value{kind: kindInterval, raw: data, iv: p.Interval, unit: unit}, nil
	}

	count := interval.Second
	if unit.IsYearMonth() {
		count = interval.Month
	}
	iv, ok := interval.FromDecimal(d, count)
	if !ok {
		return value{}, sqlstate.New(sqlstate.IntervalFieldOverflow, "%q does not fit %s", s, t)
	}
	return value{kind: kindInterval, raw: data, iv: iv, unit: unit, dec: d}, nil
}

// parseBool accepts true or false in any case, surrounded by blanks.
func parseBool(s string) (uint64, bool) {
	switch strings.ToLower(strings.Trim(s, " \t\r\n")) {
	case "true":
		return 1, true
	case "false":
		return 0, true
	}
	return 0, false
}

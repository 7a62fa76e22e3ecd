// Package types defines the SQL and host (C) type codes understood by the conversion engine.
package types

import (
	"sort"
	"strings"
)

// SQLType is a server-side SQL data type code.
type SQLType int16

const (
	SQLUnknown       SQLType = 0
	SQLChar          SQLType = 1
	SQLNumeric       SQLType = 2
	SQLDecimal       SQLType = 3
	SQLInteger       SQLType = 4
	SQLSmallint      SQLType = 5
	SQLFloat         SQLType = 6
	SQLReal          SQLType = 7
	SQLDouble        SQLType = 8
	SQLVarchar       SQLType = 12
	SQLTypeDate      SQLType = 91
	SQLTypeTime      SQLType = 92
	SQLTypeTimestamp SQLType = 93
	SQLLongVarchar   SQLType = -1
	SQLBinary        SQLType = -2
	SQLVarbinary     SQLType = -3
	SQLLongVarbinary SQLType = -4
	SQLBigint        SQLType = -5
	SQLTinyint       SQLType = -6
	SQLBit           SQLType = -7
	SQLWChar         SQLType = -8
	SQLWVarchar      SQLType = -9
	SQLWLongVarchar  SQLType = -10
	SQLGUID          SQLType = -11

	SQLIntervalYear           SQLType = 101
	SQLIntervalMonth          SQLType = 102
	SQLIntervalDay            SQLType = 103
	SQLIntervalHour           SQLType = 104
	SQLIntervalMinute         SQLType = 105
	SQLIntervalSecond         SQLType = 106
	SQLIntervalYearToMonth    SQLType = 107
	SQLIntervalDayToHour      SQLType = 108
	SQLIntervalDayToMinute    SQLType = 109
	SQLIntervalDayToSecond    SQLType = 110
	SQLIntervalHourToMinute   SQLType = 111
	SQLIntervalHourToSecond   SQLType = 112
	SQLIntervalMinuteToSecond SQLType = 113
)

// CType is a host buffer type code.
type CType int16

const (
	CChar          CType = 1
	CNumeric       CType = 2
	CLong          CType = 4
	CShort         CType = 5
	CFloat         CType = 7
	CDouble        CType = 8
	CDefault       CType = 99
	CTypeDate      CType = 91
	CTypeTime      CType = 92
	CTypeTimestamp CType = 93
	CBinary        CType = -2
	CTinyint       CType = -6
	CBit           CType = -7
	CWChar         CType = -8
	CGUID          CType = -11
	CSLong         CType = CLong - 20
	CSShort        CType = CShort - 20
	CSTinyint      CType = CTinyint - 20
	CSBigint       CType = -5 - 20
	CULong         CType = CLong - 22
	CUShort        CType = CShort - 22
	CUTinyint      CType = CTinyint - 22
	CUBigint       CType = -5 - 22

	CIntervalYear           CType = 101
	CIntervalMonth          CType = 102
	CIntervalDay            CType = 103
	CIntervalHour           CType = 104
	CIntervalMinute         CType = 105
	CIntervalSecond         CType = 106
	CIntervalYearToMonth    CType = 107
	CIntervalDayToHour      CType = 108
	CIntervalDayToMinute    CType = 109
	CIntervalDayToSecond    CType = 110
	CIntervalHourToMinute   CType = 111
	CIntervalHourToSecond   CType = 112
	CIntervalMinuteToSecond CType = 113
)

var sqlNames = map[SQLType]string{
	SQLChar:                   "CHAR",
	SQLNumeric:                "NUMERIC",
	SQLDecimal:                "DECIMAL",
	SQLInteger:                "INTEGER",
	SQLSmallint:               "SMALLINT",
	SQLFloat:                  "FLOAT",
	SQLReal:                   "REAL",
	SQLDouble:                 "DOUBLE",
	SQLVarchar:                "VARCHAR",
	SQLTypeDate:               "DATE",
	SQLTypeTime:               "TIME",
	SQLTypeTimestamp:          "TIMESTAMP",
	SQLLongVarchar:            "LONGVARCHAR",
	SQLBinary:                 "BINARY",
	SQLVarbinary:              "VARBINARY",
	SQLLongVarbinary:          "LONGVARBINARY",
	SQLBigint:                 "BIGINT",
	SQLTinyint:                "TINYINT",
	SQLBit:                    "BIT",
	SQLWChar:                  "WCHAR",
	SQLWVarchar:               "WVARCHAR",
	SQLWLongVarchar:           "WLONGVARCHAR",
	SQLGUID:                   "GUID",
	SQLIntervalYear:           "INTERVAL YEAR",
	SQLIntervalMonth:          "INTERVAL MONTH",
	SQLIntervalDay:            "INTERVAL DAY",
	SQLIntervalHour:           "INTERVAL HOUR",
	SQLIntervalMinute:         "INTERVAL MINUTE",
	SQLIntervalSecond:         "INTERVAL SECOND",
	SQLIntervalYearToMonth:    "INTERVAL YEAR TO MONTH",
	SQLIntervalDayToHour:      "INTERVAL DAY TO HOUR",
	SQLIntervalDayToMinute:    "INTERVAL DAY TO MINUTE",
	SQLIntervalDayToSecond:    "INTERVAL DAY TO SECOND",
	SQLIntervalHourToMinute:   "INTERVAL HOUR TO MINUTE",
	SQLIntervalHourToSecond:   "INTERVAL HOUR TO SECOND",
	SQLIntervalMinuteToSecond: "INTERVAL MINUTE TO SECOND",
}

var cNames = map[CType]string{
	CChar:                   "CHAR",
	CNumeric:                "NUMERIC",
	CLong:                   "LONG",
	CShort:                  "SHORT",
	CFloat:                  "FLOAT",
	CDouble:                 "DOUBLE",
	CDefault:                "DEFAULT",
	CTypeDate:               "DATE",
	CTypeTime:               "TIME",
	CTypeTimestamp:          "TIMESTAMP",
	CBinary:                 "BINARY",
	CTinyint:                "TINYINT",
	CBit:                    "BIT",
	CWChar:                  "WCHAR",
	CGUID:                   "GUID",
	CSLong:                  "SLONG",
	CSShort:                 "SSHORT",
	CSTinyint:               "STINYINT",
	CSBigint:                "SBIGINT",
	CULong:                  "ULONG",
	CUShort:                 "USHORT",
	CUTinyint:               "UTINYINT",
	CUBigint:                "UBIGINT",
	CIntervalYear:           "INTERVAL YEAR",
	CIntervalMonth:          "INTERVAL MONTH",
	CIntervalDay:            "INTERVAL DAY",
	CIntervalHour:           "INTERVAL HOUR",
	CIntervalMinute:         "INTERVAL MINUTE",
	CIntervalSecond:         "INTERVAL SECOND",
	CIntervalYearToMonth:    "INTERVAL YEAR TO MONTH",
	CIntervalDayToHour:      "INTERVAL DAY TO HOUR",
	CIntervalDayToMinute:    "INTERVAL DAY TO MINUTE",
	CIntervalDayToSecond:    "INTERVAL DAY TO SECOND",
	CIntervalHourToMinute:   "INTERVAL HOUR TO MINUTE",
	CIntervalHourToSecond:   "INTERVAL HOUR TO SECOND",
	CIntervalMinuteToSecond: "INTERVAL MINUTE TO SECOND",
}

func (t SQLType) String() string {
	if n, ok := sqlNames[t]; ok {
		return n
	}
	return "UNKNOWN"
}

func (t CType) String() string {
	if n, ok := cNames[t]; ok {
		return n
	}
	return "UNKNOWN"
}

// ParseSQLType looks up a SQL type by name. Underscores and case are ignored,
// so "interval_day_to_second" resolves.
func ParseSQLType(name string) (SQLType, bool) {
	n := normalize(name)
	for t, s := range sqlNames {
		if s == n {
			return t, true
		}
	}
	return SQLUnknown, false
}

// ParseCType looks up a host type by name.
func ParseCType(name string) (CType, bool) {
	n := normalize(name)
	for t, s := range cNames {
		if s == n {
			return t, true
		}
	}
	return 0, false
}

func normalize(name string) string {
	n := strings.ToUpper(strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == ' '
	}), " "))
	for _, prefix := range []string{"SQL C ", "SQL ", "C ", "TYPE "} {
		n = strings.TrimPrefix(n, prefix)
	}
	return n
}

// SQLTypes returns all known SQL types in code order.
func SQLTypes() []SQLType {
	out := make([]SQLType, 0, len(sqlNames))
	for t := range sqlNames {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DefaultCType returns the host type a value of sql type is delivered as when
// the caller asks for CDefault.
func DefaultCType(t SQLType, unsigned bool) CType {
	switch t {
	case SQLChar, SQLVarchar, SQLLongVarchar, SQLDecimal, SQLNumeric, SQLGUID:
		return CChar
	case SQLWChar, SQLWVarchar, SQLWLongVarchar:
		return CWChar
	case SQLBit:
		return CBit
	case SQLTinyint:
		if unsigned {
			return CUTinyint
		}
		return CSTinyint
	case SQLSmallint:
		if unsigned {
			return CUShort
		}
		return CSShort
	case SQLInteger:
		if unsigned {
			return CULong
		}
		return CSLong
	case SQLBigint:
		if unsigned {
			return CUBigint
		}
		return CSBigint
	case SQLReal:
		return CFloat
	case SQLFloat, SQLDouble:
		return CDouble
	case SQLBinary, SQLVarbinary, SQLLongVarbinary:
		return CBinary
	case SQLTypeDate:
		return CTypeDate
	case SQLTypeTime:
		return CTypeTime
	case SQLTypeTimestamp:
		return CTypeTimestamp
	}
	if t.IsInterval() {
		return CType(t)
	}
	return CChar
}

// IsInterval reports whether t is one of the thirteen interval types.
func (t SQLType) IsInterval() bool {
	return t >= SQLIntervalYear && t <= SQLIntervalMinuteToSecond
}

// IsYearMonth reports whether t is a year-month interval type.
func (t SQLType) IsYearMonth() bool {
	return t == SQLIntervalYear || t == SQLIntervalMonth || t == SQLIntervalYearToMonth
}

// IsCharacter reports whether t carries narrow or wide text.
func (t SQLType) IsCharacter() bool {
	switch t {
	case SQLChar, SQLVarchar, SQLLongVarchar, SQLWChar, SQLWVarchar, SQLWLongVarchar:
		return true
	}
	return false
}

// IsBinary reports whether t carries hex-encoded binary data.
func (t SQLType) IsBinary() bool {
	return t == SQLBinary || t == SQLVarbinary || t == SQLLongVarbinary
}

// IsInterval reports whether t is one of the interval host types.
func (t CType) IsInterval() bool {
	return t >= CIntervalYear && t <= CIntervalMinuteToSecond
}

// IsYearMonth reports whether t is a year-month interval host type.
func (t CType) IsYearMonth() bool {
	return t == CIntervalYear || t == CIntervalMonth || t == CIntervalYearToMonth
}

// Resolve maps the legacy integer host types to their signed or unsigned
// variants and CDefault to the natural type for sql.
func (t CType) Resolve(sql SQLType, unsigned bool) CType {
	switch t {
	case CDefault:
		return DefaultCType(sql, unsigned)
	case CTinyint:
		if unsigned {
			return CUTinyint
		}
		return CSTinyint
	case CShort:
		if unsigned {
			return CUShort
		}
		return CSShort
	case CLong:
		if unsigned {
			return CULong
		}
		return CSLong
	}
	return t
}

// IntegerBits returns the width and signedness of an integer host type.
// ok is false for non-integer types.
func (t CType) IntegerBits() (bits int, signed bool, ok bool) {
	switch t {
	case CSTinyint:
		return 8, true, true
	case CUTinyint:
		return 8, false, true
	case CSShort:
		return 16, true, true
	case CUShort:
		return 16, false, true
	case CSLong:
		return 32, true, true
	case CULong:
		return 32, false, true
	case CSBigint:
		return 64, true, true
	case CUBigint:
		return 64, false, true
	}
	return 0, false, false
}

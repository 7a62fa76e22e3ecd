package types

import "testing"

func TestDefaultCType(t *testing.T) {
	tests := []struct {
		sql      SQLType
		unsigned bool
		want     CType
	}{
		{SQLVarchar, false, CChar},
		{SQLDecimal, false, CChar},
		{SQLGUID, false, CChar},
		{SQLWVarchar, false, CWChar},
		{SQLBit, false, CBit},
		{SQLTinyint, false, CSTinyint},
		{SQLTinyint, true, CUTinyint},
		{SQLInteger, true, CULong},
		{SQLBigint, false, CSBigint},
		{SQLReal, false, CFloat},
		{SQLFloat, false, CDouble},
		{SQLVarbinary, false, CBinary},
		{SQLTypeTimestamp, false, CTypeTimestamp},
		{SQLIntervalDayToSecond, false, CIntervalDayToSecond},
	}

	for _, tt := range tests {
		t.Run(tt.sql.String(), func(t *testing.T) {
			if got := DefaultCType(tt.sql, tt.unsigned); got != tt.want {
				t.Errorf("DefaultCType(%s, %v) = %s, want %s", tt.sql, tt.unsigned, got, tt.want)
			}
		})
	}
}

func TestParseNames(t *testing.T) {
	tests := []struct {
		name string
		want SQLType
	}{
		{"varchar", SQLVarchar},
		{"SQL_TYPE_DATE", SQLTypeDate},
		{"interval_day_to_second", SQLIntervalDayToSecond},
		{"Interval Year", SQLIntervalYear},
	}
	for _, tt := range tests {
		got, ok := ParseSQLType(tt.name)
		if !ok || got != tt.want {
			t.Errorf("ParseSQLType(%q) = %s, %v; want %s", tt.name, got, ok, tt.want)
		}
	}

	if got, ok := ParseCType("SQL_C_UTINYINT"); !ok || got != CUTinyint {
		t.Errorf("ParseCType(SQL_C_UTINYINT) = %s, %v", got, ok)
	}
	if _, ok := ParseSQLType("jsonb"); ok {
		t.Error("ParseSQLType(jsonb) should fail")
	}
}

func TestResolve(t *testing.T) {
	if got := CLong.Resolve(SQLInteger, true); got != CULong {
		t.Errorf("CLong.Resolve unsigned = %s", got)
	}
	if got := CShort.Resolve(SQLInteger, false); got != CSShort {
		t.Errorf("CShort.Resolve signed = %s", got)
	}
	if got := CDefault.Resolve(SQLDouble, false); got != CDouble {
		t.Errorf("CDefault.Resolve(DOUBLE) = %s", got)
	}
	if got := CChar.Resolve(SQLInteger, true); got != CChar {
		t.Errorf("CChar.Resolve = %s", got)
	}
}

func TestIntegerBits(t *testing.T) {
	bits, signed, ok := CSShort.IntegerBits()
	if !ok || bits != 16 || !signed {
		t.Errorf("CSShort.IntegerBits() = %d, %v, %v", bits, signed, ok)
	}
	bits, signed, ok = CUBigint.IntegerBits()
	if !ok || bits != 64 || signed {
		t.Errorf("CUBigint.IntegerBits() = %d, %v, %v", bits, signed, ok)
	}
	if _, _, ok := CDouble.IntegerBits(); ok {
		t.Error("CDouble is not an integer type")
	}
}

func TestIntervalClassification(t *testing.T) {
	if !SQLIntervalYearToMonth.IsYearMonth() || SQLIntervalDay.IsYearMonth() {
		t.Error("SQL year-month classification wrong")
	}
	if !CIntervalMinuteToSecond.IsInterval() || CTypeTimestamp.IsInterval() {
		t.Error("C interval classification wrong")
	}
	if !SQLWLongVarchar.IsCharacter() || SQLBinary.IsCharacter() {
		t.Error("character classification wrong")
	}
}

package interval

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markb/odbcconv/internal/numeric"
	"github.com/markb/odbcconv/internal/types"
)

func mustDecimal(t *testing.T, s string) numeric.Decimal {
	t.Helper()
	d, outcome := numeric.Parse(s)
	require.Equal(t, numeric.OK, outcome, "parse %q", s)
	return d
}

func TestFromDecimalDaySecond(t *testing.T) {
	iv, ok := FromDecimal(mustDecimal(t, "90061.25"), DayToSecond)
	require.True(t, ok)
	assert.Equal(t, DaySecondKind, iv.Kind)
	assert.Equal(t, uint64(1), iv.Day)
	assert.Equal(t, uint64(1), iv.Hour)
	assert.Equal(t, uint64(1), iv.Minute)
	assert.Equal(t, uint64(1), iv.Second)
	assert.Equal(t, uint32(250000000), iv.Fraction)
	assert.Equal(t, 2, iv.Digits)
	assert.False(t, iv.Negative)
}

func TestFromDecimalUnits(t *testing.T) {
	tests := []struct {
		in   string
		unit Unit
		want Interval
	}{
		{"30", Hour, Interval{Kind: DaySecondKind, Day: 1, Hour: 6}},
		{"1.5", Day, Interval{Kind: DaySecondKind, Day: 1, Hour: 12, Digits: 1}},
		{"-61", MinuteToSecond, Interval{Kind: DaySecondKind, Negative: true, Minute: 1, Second: 1}},
		{"0.123456789123", Second, Interval{Kind: DaySecondKind, Fraction: 123456789, Digits: 9}},
		{"14", Month, Interval{Kind: YearMonthKind, Year: 1, Month: 2}},
		{"1.5", Year, Interval{Kind: YearMonthKind, Year: 1, Month: 6}},
		{"-25.9", YearToMonth, Interval{Kind: YearMonthKind, Negative: true, Year: 2, Month: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.in+" "+tt.unit.String(), func(t *testing.T) {
			got, ok := FromDecimal(mustDecimal(t, tt.in), tt.unit)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromDecimalOverflow(t *testing.T) {
	_, ok := FromDecimal(mustDecimal(t, "18446744073709551615"), Day)
	assert.False(t, ok)
	_, ok = FromDecimal(mustDecimal(t, "18446744073709551615"), Year)
	assert.False(t, ok)
}

func TestCount(t *testing.T) {
	iv := FromSeconds(true, 90061, 250000000, 2)

	d, lost := iv.Count(DayToSecond)
	assert.False(t, lost)
	assert.Equal(t, "-90061.25", d.String())

	d, lost = iv.Count(Hour)
	assert.True(t, lost)
	assert.Equal(t, "-25", d.String())

	ym := FromMonths(false, 29)
	d, lost = ym.Count(Year)
	assert.True(t, lost)
	assert.Equal(t, "2", d.String())

	d, lost = ym.Count(YearToMonth)
	assert.False(t, lost)
	assert.Equal(t, "29", d.String())
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		iv   Interval
		unit Unit
		want string
	}{
		{FromSeconds(false, 90061, 250000000, 2), DayToSecond, "INTERVAL '1 01:01:01.25' DAY TO SECOND"},
		{FromSeconds(true, 90061, 0, 0), DayToSecond, "INTERVAL -'1 01:01:01' DAY TO SECOND"},
		{FromSeconds(false, 90061, 0, 0), HourToMinute, "INTERVAL '25:01' HOUR TO MINUTE"},
		{FromSeconds(false, 3725, 0, 0), Minute, "INTERVAL '62' MINUTE"},
		{FromSeconds(false, 5, 500000000, 0), Second, "INTERVAL '5.5' SECOND"},
		{FromSeconds(false, 90000, 0, 0), DayToHour, "INTERVAL '1 01' DAY TO HOUR"},
		{FromMonths(false, 14), YearToMonth, "INTERVAL '1-02' YEAR TO MONTH"},
		{FromMonths(true, 14), Month, "INTERVAL -'14' MONTH"},
		{FromMonths(false, 24), Year, "INTERVAL '2' YEAR"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Literal(tt.iv, tt.unit))
		})
	}

	assert.Equal(t, "007:05", Body(FromSeconds(false, 7*3600+300, 0, 0), HourToMinute, 3))
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		in       string
		unit     Unit
		seconds  uint64
		months   uint64
		fraction uint32
		digits   int
		negative bool
	}{
		{"INTERVAL '1 01:01:01.25' DAY TO SECOND", DayToSecond, 90061, 0, 250000000, 2, false},
		{"interval -'2' day", Day, 172800, 0, 0, 0, true},
		{"INTERVAL -'2 12' DAY TO HOUR", DayToHour, 216000, 0, 0, 0, true},
		{"INTERVAL '100' HOUR(3)", Hour, 360000, 0, 0, 0, false},
		{"INTERVAL '12:30' HOUR TO MINUTE", HourToMinute, 45000, 0, 0, 0, false},
		{"INTERVAL '2:03.5' MINUTE TO SECOND", MinuteToSecond, 123, 0, 500000000, 1, false},
		{"INTERVAL '7.1234567' SECOND(2,7)", Second, 7, 0, 123456700, 7, false},
		{"INTERVAL '3:04:05.1' HOUR TO SECOND(1)", HourToSecond, 11045, 0, 100000000, 1, false},
		{"INTERVAL '3-11' YEAR TO MONTH", YearToMonth, 0, 47, 0, 0, false},
		{"INTERVAL '30' MONTH", Month, 0, 30, 0, 0, false},
		{"  INTERVAL   '5'   YEAR  ", Year, 0, 60, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParseLiteral(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.unit, p.Unit)
			assert.Equal(t, tt.negative, p.Negative)
			if tt.unit.IsYearMonth() {
				assert.Equal(t, YearMonthKind, p.Kind)
				assert.Equal(t, tt.months, p.TotalMonths())
			} else {
				assert.Equal(t, DaySecondKind, p.Kind)
				assert.Equal(t, tt.seconds, p.TotalSeconds())
				assert.Equal(t, tt.fraction, p.Fraction)
				assert.Equal(t, tt.digits, p.Digits)
			}
		})
	}
}

func TestParseLiteralErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"'1' DAY", ErrSyntax},
		{"INTERVAL 1 DAY", ErrSyntax},
		{"INTERVAL '1 DAY", ErrSyntax},
		{"INTERVAL '1' FORTNIGHT", ErrSyntax},
		{"INTERVAL '1' DAY TO DAY", ErrSyntax},
		{"INTERVAL '1-2' MONTH TO SECOND", ErrSyntax},
		{"INTERVAL '1' YEAR extra", ErrSyntax},
		{"INTERVAL '1:2' DAY TO HOUR", ErrSyntax},
		{"INTERVAL '1 25' DAY TO HOUR", ErrField},
		{"INTERVAL '1:60' HOUR TO MINUTE", ErrField},
		{"INTERVAL '1-12' YEAR TO MONTH", ErrField},
		{"INTERVAL '100' HOUR", ErrPrecision},
		{"INTERVAL '1.1234567' SECOND", ErrPrecision},
		{"INTERVAL '1.' SECOND", ErrSyntax},
		{"INTERVAL '-2 12' DAY TO HOUR", ErrSyntax},
		{"INTERVAL -'-5' MINUTE", ErrSyntax},
		{"INTERVAL ' +1' DAY", ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseLiteral(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParseLiteralRoundTrip(t *testing.T) {
	for _, lit := range []string{
		"INTERVAL '1 01:01:01.25' DAY TO SECOND",
		"INTERVAL -'3-04' YEAR TO MONTH",
		"INTERVAL '12:05' HOUR TO MINUTE",
		"INTERVAL '59.000001' SECOND",
	} {
		p, err := ParseLiteral(lit)
		require.NoError(t, err, lit)
		assert.Equal(t, lit, Literal(p.Interval, p.Unit))
	}
}

func TestUnitMapping(t *testing.T) {
	u, ok := FromSQLType(types.SQLIntervalDayToSecond)
	require.True(t, ok)
	assert.Equal(t, DayToSecond, u)
	assert.Equal(t, "DAY TO SECOND", u.String())

	u, ok = FromCType(types.CIntervalYear)
	require.True(t, ok)
	assert.Equal(t, Year, u)

	_, ok = FromSQLType(types.SQLVarchar)
	assert.False(t, ok)
}

func TestScaleFraction(t *testing.T) {
	frac, lost := ScaleFraction(250000000, 2)
	assert.Equal(t, uint32(25), frac)
	assert.False(t, lost)

	frac, lost = ScaleFraction(123456789, 3)
	assert.Equal(t, uint32(123), frac)
	assert.True(t, lost)

	ns, ok := Nanoseconds(25, 2)
	assert.True(t, ok)
	assert.Equal(t, uint32(250000000), ns)

	_, ok = Nanoseconds(250, 2)
	assert.False(t, ok)
}

func TestFieldsRoundTrip(t *testing.T) {
	iv := FromSeconds(true, 90061, 250000000, 2)

	f := iv.Fields(HourToSecond)
	assert.Equal(t, [6]uint64{0, 0, 0, 25, 1, 1}, f)

	back, ok := FromFields(HourToSecond, true, f, iv.Fraction, iv.Digits)
	require.True(t, ok)
	assert.Equal(t, iv, back)

	// fields outside the unit are ignored
	back, ok = FromFields(Minute, false, [6]uint64{9, 9, 9, 0, 5, 59}, 0, 0)
	require.True(t, ok)
	assert.Equal(t, uint64(300), back.TotalSeconds())

	ym := FromMonths(false, 27)
	assert.Equal(t, [6]uint64{0, 27}, ym.Fields(Month))
	assert.Equal(t, [6]uint64{2, 3}, ym.Fields(YearToMonth))
}

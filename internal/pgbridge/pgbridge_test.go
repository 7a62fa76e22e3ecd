package pgbridge

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markb/odbcconv/internal/datetime"
	"github.com/markb/odbcconv/internal/interval"
	"github.com/markb/odbcconv/internal/numeric"
	"github.com/markb/odbcconv/internal/types"
)

func TestOID(t *testing.T) {
	tests := []struct {
		sql  types.SQLType
		want uint32
	}{
		{types.SQLInteger, pgtype.Int4OID},
		{types.SQLBigint, pgtype.Int8OID},
		{types.SQLDecimal, pgtype.NumericOID},
		{types.SQLVarchar, pgtype.VarcharOID},
		{types.SQLVarbinary, pgtype.ByteaOID},
		{types.SQLBit, pgtype.BoolOID},
		{types.SQLTypeTimestamp, pgtype.TimestampOID},
		{types.SQLGUID, pgtype.UUIDOID},
		{types.SQLIntervalDayToSecond, pgtype.IntervalOID},
		{types.SQLIntervalYear, pgtype.IntervalOID},
		{types.SQLUnknown, pgtype.TextOID},
	}

	for _, tt := range tests {
		t.Run(tt.sql.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, OID(tt.sql))
		})
	}
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "numeric", TypeName(pgtype.NumericOID))
	assert.Equal(t, "interval", TypeName(pgtype.IntervalOID))
	assert.Equal(t, "", TypeName(1))
}

func TestNumeric(t *testing.T) {
	d, outcome := numeric.Parse("-123.45")
	require.Equal(t, numeric.OK, outcome)

	n := Numeric(d)
	assert.True(t, n.Valid)
	assert.Equal(t, int32(-2), n.Exp)
	assert.Equal(t, 0, n.Int.Cmp(big.NewInt(-12345)))

	assert.Equal(t, "-123.45", Decimal(d).String())
}

func TestCalendar(t *testing.T) {
	d := Date(datetime.Date{Year: 2024, Month: 2, Day: 29})
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d.Time)

	tm := Time(datetime.Time{Hour: 1, Minute: 2, Second: 3}, 500000000)
	assert.Equal(t, int64(3723500000), tm.Microseconds)

	ts := Timestamp(datetime.Timestamp{
		Date:     datetime.Date{Year: 2024, Month: 2, Day: 29},
		Time:     datetime.Time{Hour: 12, Minute: 30, Second: 45},
		Fraction: 250,
	})
	assert.Equal(t, time.Date(2024, 2, 29, 12, 30, 45, 250, time.UTC), ts.Time)
}

func TestInterval(t *testing.T) {
	got, err := Interval(interval.FromMonths(true, 14))
	require.NoError(t, err)
	assert.Equal(t, pgtype.Interval{Months: -14, Valid: true}, got)

	got, err = Interval(interval.FromSeconds(false, 90061, 250000000, 2))
	require.NoError(t, err)
	assert.Equal(t, pgtype.Interval{Days: 1, Microseconds: 3661250000, Valid: true}, got)

	_, err = Interval(interval.Interval{Kind: interval.DaySecondKind, Day: 1 << 40})
	assert.True(t, errors.Is(err, ErrRange))
}

func TestUUID(t *testing.T) {
	u := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	got := UUID(u)
	assert.True(t, got.Valid)
	assert.Equal(t, [16]byte(u), got.Bytes)
}

package pgbridge

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/markb/odbcconv/internal/datetime"
	"github.com/markb/odbcconv/internal/interval"
	"github.com/markb/odbcconv/internal/numeric"
)

// ErrRange is returned when a value does not fit the PostgreSQL type.
var ErrRange = errors.New("value out of range for postgres type")

func bigInt(d numeric.Decimal) *big.Int {
	i := new(big.Int).SetUint64(d.Val)
	if d.Negative {
		i.Neg(i)
	}
	return i
}

// Numeric converts d to a pgtype.Numeric.
func Numeric(d numeric.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: bigInt(d), Exp: -int32(d.Scale), Valid: true}
}

// Decimal converts d to a shopspring decimal.
func Decimal(d numeric.Decimal) decimal.Decimal {
	return decimal.NewFromBigInt(bigInt(d), -int32(d.Scale))
}

// Date converts d to a pgtype.Date.
func Date(d datetime.Date) pgtype.Date {
	return pgtype.Date{Time: time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC), Valid: true}
}

// Time converts t to a pgtype.Time. A leap second is clamped to 59.
func Time(t datetime.Time, fraction uint32) pgtype.Time {
	sec := min(t.Second, 59)
	us := int64((t.Hour*60+t.Minute)*60+sec)*1e6 + int64(fraction/1000)
	return pgtype.Time{Microseconds: us, Valid: true}
}

// Timestamp converts ts to a pgtype.Timestamp.
func Timestamp(ts datetime.Timestamp) pgtype.Timestamp {
	t := time.Date(ts.Year, time.Month(ts.Month), ts.Day, ts.Hour, ts.Minute, min(ts.Second, 59), int(ts.Fraction), time.UTC)
	return pgtype.Timestamp{Time: t, Valid: true}
}

// Interval converts iv to a pgtype.Interval. Year-month values become
// months; day-second values become days and microseconds.
func Interval(iv interval.Interval) (pgtype.Interval, error) {
	sign := int64(1)
	if iv.Negative {
		sign = -1
	}
	if iv.Kind == interval.YearMonthKind {
		months := iv.TotalMonths()
		if months > math.MaxInt32 {
			return pgtype.Interval{}, fmt.Errorf("%d months: %w", months, ErrRange)
		}
		return pgtype.Interval{Months: int32(sign * int64(months)), Valid: true}, nil
	}
	if iv.Day > math.MaxInt32 {
		return pgtype.Interval{}, fmt.Errorf("%d days: %w", iv.Day, ErrRange)
	}
	us := int64((iv.Hour*60+iv.Minute)*60+iv.Second)*1e6 + int64(iv.Fraction/1000)
	return pgtype.Interval{
		Days:         int32(sign * int64(iv.Day)),
		Microseconds: sign * us,
		Valid:        true,
	}, nil
}

// UUID converts u to a pgtype.UUID.
func UUID(u uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: u, Valid: true}
}

// Text renders v in PostgreSQL text format for oid.
func Text(oid uint32, v any) (string, error) {
	buf, err := typeMap.Encode(oid, pgtype.TextFormatCode, v, nil)
	if err != nil {
		return "", fmt.Errorf("encode for oid %d: %w", oid, err)
	}
	return string(buf), nil
}

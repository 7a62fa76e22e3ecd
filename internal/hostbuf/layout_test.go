package hostbuf

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markb/odbcconv/internal/datetime"
)

func TestIntWidths(t *testing.T) {
	b := make([]byte, 8)
	require.True(t, PutUint(b, 16, uint64(0xFFFF)))
	neg, mag, ok := Int(b, 16)
	require.True(t, ok)
	assert.True(t, neg)
	assert.Equal(t, uint64(1), mag)

	require.True(t, PutUint(b, 64, 1<<63))
	neg, mag, _ = Int(b, 64)
	assert.True(t, neg)
	assert.Equal(t, uint64(1<<63), mag)

	require.True(t, PutUint(b, 8, 127))
	neg, mag, _ = Int(b, 8)
	assert.False(t, neg)
	assert.Equal(t, uint64(127), mag)

	assert.False(t, PutUint(b[:3], 32, 1))
	_, ok = Uint(b[:1], 16)
	assert.False(t, ok)
}

func TestFloats(t *testing.T) {
	b := make([]byte, 8)
	require.True(t, PutFloat64(b, 3.25))
	f, ok := Float64(b)
	require.True(t, ok)
	assert.Equal(t, 3.25, f)

	require.True(t, PutFloat32(b, -1.5))
	g, _ := Float32(b)
	assert.Equal(t, float32(-1.5), g)
}

func TestTimestampLayout(t *testing.T) {
	ts := datetime.Timestamp{
		Date:     datetime.Date{Year: 2024, Month: 2, Day: 29},
		Time:     datetime.Time{Hour: 13, Minute: 5, Second: 9},
		Fraction: 120000000,
	}
	b := make([]byte, TimestampSize)
	require.True(t, PutTimestamp(b, ts))
	assert.Equal(t, []byte{0xE8, 0x07, 2, 0, 29, 0, 13, 0, 5, 0, 9, 0}, b[:12])

	got, ok := Timestamp(b)
	require.True(t, ok)
	assert.Equal(t, ts, got)

	d, _ := Date(b)
	assert.Equal(t, ts.Date, d)
	_, ok = Time(b[:5])
	assert.False(t, ok)
}

func TestNumericLayout(t *testing.T) {
	n := Numeric{Precision: 5, Scale: 2, Negative: true, Lo: 12345}
	b := make([]byte, NumericSize)
	require.True(t, PutNumeric(b, n))
	assert.Equal(t, byte(0), b[2])
	assert.Equal(t, byte(0x39), b[3])
	assert.Equal(t, byte(0x30), b[4])

	got, ok := ReadNumeric(b)
	require.True(t, ok)
	assert.Equal(t, n, got)
}

func TestIntervalLayout(t *testing.T) {
	b := make([]byte, IntervalSize)
	ds := Interval{Type: 10, Negative: true, Day: 1, Hour: 1, Minute: 1, Second: 1, Fraction: 25}
	require.True(t, PutInterval(b, ds))
	assert.Equal(t, byte(1), b[4])
	got, ok := ReadInterval(b)
	require.True(t, ok)
	assert.Equal(t, ds, got)

	ym := Interval{Type: 7, Year: 3, Month: 11}
	require.True(t, PutInterval(b, ym))
	got, _ = ReadInterval(b)
	assert.Equal(t, ym, got)
	assert.Zero(t, b[16])
}

func TestGUIDLayout(t *testing.T) {
	u := uuid.MustParse("01234567-89ab-cdef-0123-456789abcdef")
	b := make([]byte, GUIDSize)
	require.True(t, PutGUID(b, u))
	assert.Equal(t, []byte{0x67, 0x45, 0x23, 0x01, 0xab, 0x89, 0xef, 0xcd}, b[:8])
	assert.Equal(t, u[8:], b[8:])

	back, ok := GUID(b)
	require.True(t, ok)
	assert.Equal(t, u, back)
}

package convert

import (
	"github.com/markb/odbcconv/internal/sqlstate"
	"github.com/markb/odbcconv/internal/types"
)

// Length and indicator sentinels.
const (
	NullData = -1
	NTS      = -3
)

// Column describes one result column bound for fetching.
type Column struct {
	SQLType  types.SQLType
	CType    types.CType
	Unsigned bool

	// Precision is the digit count for NUMERIC targets and the fractional
	// second precision for interval targets.
	Precision int
	Scale     int
	// IntervalPrecision is the number of digits allowed in the leading
	// interval field.
	IntervalPrecision int

	// Buffer receives the host value. A nil buffer only reports lengths.
	Buffer []byte
	// BufferLength limits how much of Buffer is used when positive.
	BufferLength int
	// Indicator reports whether the caller can receive a NULL indicator.
	Indicator bool

	// Delivered counts the source bytes already returned by chunked fetches
	// of the current value.
	Delivered int
}

// NewColumn returns a column with the default descriptor precisions.
func NewColumn(sql types.SQLType, c types.CType, buf []byte) *Column {
	prec := 6
	if c == types.CNumeric {
		prec = 10
	}
	return &Column{
		SQLType:           sql,
		CType:             c,
		Precision:         prec,
		IntervalPrecision: 2,
		Buffer:            buf,
		Indicator:         true,
	}
}

// Reset rewinds the chunk cursor for the next row.
func (c *Column) Reset() {
	c.Delivered = 0
}

// bufLen returns the usable buffer length.
func (c *Column) bufLen() (int, error) {
	switch {
	case c.BufferLength < 0 || c.BufferLength > len(c.Buffer):
		return 0, sqlstate.New(sqlstate.InvalidBufferLength, "buffer length %d", c.BufferLength)
	case c.BufferLength > 0:
		return c.BufferLength, nil
	}
	return len(c.Buffer), nil
}

// Param describes one bound parameter for storing.
type Param struct {
	CType    types.CType
	SQLType  types.SQLType
	Unsigned bool

	// Value holds the host representation of the parameter.
	Value []byte
	// Length is the octet length of Value, NTS or NullData.
	Length int

	// Precision is the fractional second precision of interval host values.
	Precision         int
	Scale             int
	IntervalPrecision int

	// ColumnSize and DecimalDigits describe the target column.
	ColumnSize    int
	DecimalDigits int
}

// NewParam returns a parameter whose length is the length of value.
func NewParam(c types.CType, sql types.SQLType, value []byte) *Param {
	return &Param{
		CType:             c,
		SQLType:           sql,
		Value:             value,
		Length:            len(value),
		Precision:         6,
		IntervalPrecision: 2,
	}
}

// Status is the outcome class of a conversion.
type Status int

const (
	Success Status = iota
	SuccessWithInfo
	NoData
	Null
)

func (s Status) String() string {
	switch s {
	case Success:
		return "SUCCESS"
	case SuccessWithInfo:
		return "SUCCESS_WITH_INFO"
	case NoData:
		return "NO_DATA"
	case Null:
		return "NULL"
	}
	return "UNKNOWN"
}

// Result reports a completed conversion. Length is the full byte length of
// the value, which can exceed what was written, or NullData.
type Result struct {
	Status   Status
	Length   int
	Warnings []*sqlstate.Diagnostic
}

func (r *Result) warn(code sqlstate.Code, format string, args ...any) {
	for _, w := range r.Warnings {
		if w.Code == code {
			return
		}
	}
	r.Warnings = append(r.Warnings, sqlstate.New(code, format, args...))
	r.Status = SuccessWithInfo
}

// Has reports whether a warning with code was raised.
func (r Result) Has(code sqlstate.Code) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

// Package sqlstate defines the diagnostic codes reported by the conversion engine.
//
// A SQLSTATE is a five character code: a two character class followed by a
// three character subclass. Class 01 is a warning, class 02 is "no data" and
// every other class reported here is an error.
package sqlstate

import (
	"errors"
	"fmt"
)

// Code is a SQLSTATE value.
type Code string

const (
	Success Code = "00000"

	RightTruncation      Code = "01004"
	FractionalTruncation Code = "01S07"

	NoData Code = "02000"

	CountFieldIncorrect Code = "07002"
	RestrictedType      Code = "07006"

	StringTruncation      Code = "22001"
	NullIndicatorRequired Code = "22002"
	NumericOutOfRange     Code = "22003"
	DatetimeOverflow      Code = "22008"
	IntervalFieldOverflow Code = "22015"
	InvalidCharValue      Code = "22018"

	GeneralError         Code = "HY000"
	OutOfMemory          Code = "HY001"
	InvalidAppBufferType Code = "HY003"
	InvalidBufferLength  Code = "HY090"
)

var messages = map[Code]string{
	Success:               "Success",
	RightTruncation:       "String data, right truncated",
	FractionalTruncation:  "Fractional truncation",
	NoData:                "No data",
	CountFieldIncorrect:   "COUNT field incorrect",
	RestrictedType:        "Restricted data type attribute violation",
	StringTruncation:      "String data, right truncation",
	NullIndicatorRequired: "Indicator variable required but not supplied",
	NumericOutOfRange:     "Numeric value out of range",
	DatetimeOverflow:      "Datetime field overflow",
	IntervalFieldOverflow: "Interval field overflow",
	InvalidCharValue:      "Invalid character value for cast specification",
	GeneralError:          "General error",
	OutOfMemory:           "Memory allocation error",
	InvalidAppBufferType:  "Invalid application buffer type",
	InvalidBufferLength:   "Invalid string or buffer length",
}

// Class returns the two character class of the code.
func (c Code) Class() string {
	if len(c) < 2 {
		return ""
	}
	return string(c[:2])
}

// IsWarning reports whether the code is a class 01 warning.
func (c Code) IsWarning() bool {
	return c.Class() == "01"
}

// IsNoData reports whether the code is a class 02 condition.
func (c Code) IsNoData() bool {
	return c.Class() == "02"
}

// Message returns the standard message text for the code.
func (c Code) Message() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return "Unknown condition"
}

// Diagnostic is a single error or warning record.
type Diagnostic struct {
	Code   Code
	Detail string
}

// New returns a diagnostic for code. The detail is optional.
func New(code Code, format string, args ...any) *Diagnostic {
	d := &Diagnostic{Code: code}
	if format != "" {
		d.Detail = fmt.Sprintf(format, args...)
	}
	return d
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	if d.Detail == "" {
		return fmt.Sprintf("[%s] %s", d.Code, d.Code.Message())
	}
	return fmt.Sprintf("[%s] %s: %s", d.Code, d.Code.Message(), d.Detail)
}

// Is matches another diagnostic by code, so errors.Is(err, sqlstate.New(code, ""))
// works regardless of detail text.
func (d *Diagnostic) Is(target error) bool {
	var t *Diagnostic
	if errors.As(target, &t) {
		return t.Code == d.Code
	}
	return false
}

// CodeOf extracts the SQLSTATE from err. A nil error is Success and an error
// without a diagnostic is GeneralError.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var d *Diagnostic
	if errors.As(err, &d) {
		return d.Code
	}
	return GeneralError
}

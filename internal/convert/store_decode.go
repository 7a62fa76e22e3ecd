package convert

import (
	"bytes"

	"github.com/markb/odbcconv/internal/hostbuf"
	"github.com/markb/odbcconv/internal/interval"
	"github.com/markb/odbcconv/internal/numeric"
	"github.com/markb/odbcconv/internal/sqlstate"
	"github.com/markb/odbcconv/internal/types"
)

// octets returns the bound bytes of a variable length parameter.
func (p *Param) octets() ([]byte, error) {
	switch {
	case p.Length == NTS:
		if i := bytes.IndexByte(p.Value, 0); i >= 0 {
			return p.Value[:i], nil
		}
		return p.Value, nil
	case p.Length < 0 || p.Length > len(p.Value):
		return nil, sqlstate.New(sqlstate.InvalidBufferLength, "length %d for %d bytes", p.Length, len(p.Value))
	}
	return p.Value[:p.Length], nil
}

// fixed returns the first size bytes of a fixed length parameter.
func (p *Param) fixed(size int) ([]byte, error) {
	if len(p.Value) < size {
		return nil, sqlstate.New(sqlstate.InvalidBufferLength, "%d bytes bound, %d needed", len(p.Value), size)
	}
	return p.Value[:size], nil
}

func badStruct(what string) error {
	return sqlstate.New(sqlstate.DatetimeOverflow, "invalid %s structure", what)
}

// decodeHost reads the parameter buffer as ctype.
func decodeHost(p *Param, ctype types.CType) (value, error) {
	switch ctype {
	case types.CChar:
		b, err := p.octets()
		if err != nil {
			return value{}, err
		}
		return textValue(b), nil

	case types.CWChar:
		b := p.Value
		if p.Length == NTS {
			b = b[:wideLen(b)]
		} else {
			var err error
			if b, err = p.octets(); err != nil {
				return value{}, err
			}
		}
		s, err := fromWide(b)
		if err != nil {
			return value{}, err
		}
		return textValue(s), nil

	case types.CBinary:
		b, err := p.octets()
		if err != nil {
			return value{}, err
		}
		return value{kind: kindBytes, raw: b}, nil

	case types.CBit:
		b, err := p.fixed(1)
		if err != nil {
			return value{}, err
		}
		return value{kind: kindBit, dec: numeric.FromUint(uint64(b[0]))}, nil

	case types.CNumeric:
		b, err := p.fixed(hostbuf.NumericSize)
		if err != nil {
			return value{}, err
		}
		n, _ := hostbuf.ReadNumeric(b)
		if n.Hi != 0 {
			return value{}, sqlstate.New(sqlstate.NumericOutOfRange, "numeric magnitude exceeds 64 bits")
		}
		d := numeric.FromUint(n.Lo)
		d.Scale = n.Scale
		d.Negative = n.Negative
		return decimalValue(d), nil

	case types.CFloat:
		b, err := p.fixed(4)
		if err != nil {
			return value{}, err
		}
		f, _ := hostbuf.Float32(b)
		return value{kind: kindFloat, flt: float64(f)}, nil

	case types.CDouble:
		b, err := p.fixed(8)
		if err != nil {
			return value{}, err
		}
		f, _ := hostbuf.Float64(b)
		return value{kind: kindFloat, flt: f}, nil

	case types.CTypeDate:
		b, err := p.fixed(hostbuf.DateSize)
		if err != nil {
			return value{}, err
		}
		d, _ := hostbuf.Date(b)
		if !d.Valid() {
			return value{}, badStruct("date")
		}
		return value{kind: kindDate, date: d}, nil

	case types.CTypeTime:
		b, err := p.fixed(hostbuf.TimeSize)
		if err != nil {
			return value{}, err
		}
		t, _ := hostbuf.Time(b)
		if !t.Valid() {
			return value{}, badStruct("time")
		}
		return value{kind: kindTime, time: t}, nil

	case types.CTypeTimestamp:
		b, err := p.fixed(hostbuf.TimestampSize)
		if err != nil {
			return value{}, err
		}
		ts, _ := hostbuf.Timestamp(b)
		if !ts.Valid() {
			return value{}, badStruct("timestamp")
		}
		return value{kind: kindTimestamp, ts: ts}, nil

	case types.CGUID:
		b, err := p.fixed(hostbuf.GUIDSize)
		if err != nil {
			return value{}, err
		}
		u, _ := hostbuf.GUID(b)
		return value{kind: kindGUID, guid: u}, nil
	}

	if ctype.IsInterval() {
		return decodeHostInterval(p, ctype)
	}
	if bits, signed, ok := ctype.IntegerBits(); ok {
		b, err := p.fixed(bits / 8)
		if err != nil {
			return value{}, err
		}
		if signed {
			neg, mag, _ := hostbuf.Int(b, bits)
			d := numeric.FromUint(mag)
			d.Negative = neg
			return decimalValue(d), nil
		}
		u, _ := hostbuf.Uint(b, bits)
		return decimalValue(numeric.FromUint(u)), nil
	}
	return value{}, sqlstate.New(sqlstate.InvalidAppBufferType, "unsupported host type %s", ctype)
}

func decodeHostInterval(p *Param, ctype types.CType) (value, error) {
	b, err := p.fixed(hostbuf.IntervalSize)
	if err != nil {
		return value{}, err
	}
	unit, _ := interval.FromCType(ctype)
	h, _ := hostbuf.ReadInterval(b)

	ns, ok := interval.Nanoseconds(h.Fraction, p.Precision)
	if !ok {
		return value{}, sqlstate.New(sqlstate.IntervalFieldOverflow, "fraction %d exceeds %d digits", h.Fraction, p.Precision)
	}
	fields := [6]uint64{
		uint64(h.Year), uint64(h.Month), uint64(h.Day),
		uint64(h.Hour), uint64(h.Minute), uint64(h.Second),
	}
	iv, ok := interval.FromFields(unit, h.Negative, fields, ns, p.Precision)
	if !ok {
		return value{}, sqlstate.New(sqlstate.IntervalFieldOverflow, "bad interval structure")
	}
	return value{kind: kindInterval, iv: iv, unit: unit}, nil
}

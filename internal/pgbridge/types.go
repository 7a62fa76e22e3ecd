// Package pgbridge maps the driver's SQL types and canonical values onto
// their PostgreSQL equivalents in pgx's pgtype package, so converted values
// can be compared with or handed to a pgx based client.
package pgbridge

import (
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/markb/odbcconv/internal/types"
)

// SQLTypeToOID maps SQL types to PostgreSQL OIDs.
var SQLTypeToOID = map[types.SQLType]uint32{
	// Numeric types
	types.SQLTinyint:  pgtype.Int2OID,
	types.SQLSmallint: pgtype.Int2OID,
	types.SQLInteger:  pgtype.Int4OID,
	types.SQLBigint:   pgtype.Int8OID,
	types.SQLReal:     pgtype.Float4OID,
	types.SQLFloat:    pgtype.Float8OID,
	types.SQLDouble:   pgtype.Float8OID,
	types.SQLDecimal:  pgtype.NumericOID,
	types.SQLNumeric:  pgtype.NumericOID,

	// Text types
	types.SQLChar:         pgtype.BPCharOID,
	types.SQLVarchar:      pgtype.VarcharOID,
	types.SQLLongVarchar:  pgtype.TextOID,
	types.SQLWChar:        pgtype.BPCharOID,
	types.SQLWVarchar:     pgtype.VarcharOID,
	types.SQLWLongVarchar: pgtype.TextOID,

	// Binary types
	types.SQLBinary:        pgtype.ByteaOID,
	types.SQLVarbinary:     pgtype.ByteaOID,
	types.SQLLongVarbinary: pgtype.ByteaOID,

	// Boolean
	types.SQLBit: pgtype.BoolOID,

	// Date/Time
	types.SQLTypeDate:      pgtype.DateOID,
	types.SQLTypeTime:      pgtype.TimeOID,
	types.SQLTypeTimestamp: pgtype.TimestampOID,

	// UUID
	types.SQLGUID: pgtype.UUIDOID,
}

// OID returns the PostgreSQL OID for a SQL type. Every interval type maps
// to interval; unknown types map to text.
func OID(t types.SQLType) uint32 {
	if t.IsInterval() {
		return pgtype.IntervalOID
	}
	if oid, ok := SQLTypeToOID[t]; ok {
		return oid
	}
	return pgtype.TextOID
}

var typeMap = pgtype.NewMap()

// TypeName returns the PostgreSQL name registered for oid, or "" when pgx
// does not know it.
func TypeName(oid uint32) string {
	if t, ok := typeMap.TypeForOID(oid); ok {
		return t.Name
	}
	return ""
}

package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/markb/odbcconv/internal/convert"
	"github.com/markb/odbcconv/internal/observability"
	"github.com/markb/odbcconv/internal/types"
)

// hostScratch is large enough for every fixed size host struct.
const hostScratch = 64

func newStoreCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store VALUE",
		Short: "Convert a host value into a SQL literal",
		Long: `Builds a host buffer of --c-type from VALUE and converts it into the SQL
literal sent for a parameter of --sql-type. CHAR values are taken as raw bytes,
BINARY values as hex and every other host type is filled by a fetch of VALUE
as VARCHAR text.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlType, ctype, err := typeFlags(cmd)
			if err != nil {
				return err
			}
			data, err := valueArg(cmd, args)
			if err != nil {
				return err
			}

			p := convert.NewParam(ctype, sqlType, nil)
			p.Unsigned, _ = cmd.Flags().GetBool("unsigned")
			p.Precision, _ = cmd.Flags().GetInt("precision")
			p.Scale, _ = cmd.Flags().GetInt("scale")
			p.IntervalPrecision, _ = cmd.Flags().GetInt("interval-precision")
			p.ColumnSize, _ = cmd.Flags().GetInt("column-size")
			p.DecimalDigits, _ = cmd.Flags().GetInt("decimal-digits")

			if data == nil {
				p.Value = []byte{}
				p.Length = convert.NullData
			} else if err := s.bindHost(cmd, p, data); err != nil {
				return fmt.Errorf("failed to build host value: %w", err)
			}
			return s.store(cmd, p)
		},
	}

	cmd.Flags().String("c-type", "CHAR", "Host type of VALUE")
	cmd.Flags().String("sql-type", "VARCHAR", "SQL type of the parameter")
	cmd.Flags().Bool("null", false, "Store SQL NULL instead of VALUE")
	cmd.Flags().Bool("nts", false, "Pass CHAR and WCHAR values NUL terminated")
	cmd.Flags().Bool("unsigned", false, "Treat integer host values as unsigned")
	cmd.Flags().Int("precision", 6, "Fractional second precision of interval host values")
	cmd.Flags().Int("scale", 0, "Scale of NUMERIC host values")
	cmd.Flags().Int("interval-precision", 2, "Leading field precision of interval parameters")
	cmd.Flags().Int("column-size", 0, "Target column size")
	cmd.Flags().Int("decimal-digits", 0, "Target column decimal digits")
	return cmd
}

// bindHost fills p.Value and p.Length with the host form of data.
func (s *session) bindHost(cmd *cobra.Command, p *convert.Param, data []byte) error {
	nts, _ := cmd.Flags().GetBool("nts")
	ctype := p.CType.Resolve(p.SQLType, p.Unsigned)

	switch ctype {
	case types.CChar:
		p.Value, p.Length = data, len(data)
		if nts {
			p.Value, p.Length = append(data, 0), convert.NTS
		}
		return nil
	case types.CWChar:
		w, err := wideText.NewEncoder().Bytes(data)
		if err != nil {
			return err
		}
		p.Value, p.Length = w, len(w)
		if nts {
			p.Value, p.Length = append(w, 0, 0), convert.NTS
		}
		return nil
	case types.CBinary:
		b, err := hex.DecodeString(string(data))
		if err != nil {
			return err
		}
		p.Value, p.Length = b, len(b)
		return nil
	}

	col := convert.NewColumn(types.SQLVarchar, ctype, make([]byte, hostScratch))
	col.Unsigned = p.Unsigned
	col.Scale = p.Scale
	if ctype.IsInterval() {
		col.Precision = p.Precision
		col.IntervalPrecision = 9
	}
	res, err := s.engine.Fetch(col, data)
	if err != nil {
		return err
	}
	p.Value, p.Length = col.Buffer[:res.Length], res.Length
	return nil
}

func (s *session) store(cmd *cobra.Command, p *convert.Param) error {
	ctype := p.CType.Resolve(p.SQLType, p.Unsigned)
	_, end := s.tel.StartConversion(cmd.Context(), "store",
		observability.AttrSQLType.String(p.SQLType.String()),
		observability.AttrCType.String(ctype.String()),
		observability.AttrLength.Int(p.Length),
	)

	w := s.engine.NewBuffer()
	res, err := s.engine.Store(p, w)
	end(res.Status.String(), err)
	if err != nil {
		return err
	}

	t := newTable(cmd.OutOrStdout(), "status", "length", "literal", "warnings")
	t.row(res.Status.String(), strconv.Itoa(res.Length), w.String(), warningCodes(res))
	return t.flush()
}

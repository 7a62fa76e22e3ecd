package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markb/odbcconv/internal/convert"
	"github.com/markb/odbcconv/internal/observability"
	"github.com/markb/odbcconv/internal/sqlstate"
	"github.com/markb/odbcconv/internal/types"
)

func newFetchCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch VALUE",
		Short: "Convert server text into a host buffer",
		Long: `Decodes VALUE as the server text of --sql-type and converts it into a
buffer of --c-type, printing the bytes written, the length indicator and any
warnings. With --chunked the fetch repeats until the value is delivered.`,
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

			size, _ := cmd.Flags().GetInt("buffer")
			var buf []byte
			if size > 0 {
				buf = make([]byte, size)
			}
			col := convert.NewColumn(sqlType, ctype, buf)
			col.Unsigned, _ = cmd.Flags().GetBool("unsigned")
			col.BufferLength, _ = cmd.Flags().GetInt("buffer-length")
			if noInd, _ := cmd.Flags().GetBool("no-indicator"); noInd {
				col.Indicator = false
			}
			if cmd.Flags().Changed("precision") {
				col.Precision, _ = cmd.Flags().GetInt("precision")
			}
			col.Scale, _ = cmd.Flags().GetInt("scale")
			if cmd.Flags().Changed("interval-precision") {
				col.IntervalPrecision, _ = cmd.Flags().GetInt("interval-precision")
			}
			chunked, _ := cmd.Flags().GetBool("chunked")

			return s.fetch(cmd, col, data, chunked)
		},
	}

	cmd.Flags().String("sql-type", "VARCHAR", "SQL type of the server value")
	cmd.Flags().String("c-type", "DEFAULT", "Host type to convert into")
	cmd.Flags().Int("buffer", 256, "Host buffer size in bytes, 0 for a length-only fetch")
	cmd.Flags().Int("buffer-length", 0, "Usable buffer length when smaller than --buffer")
	cmd.Flags().Bool("chunked", false, "Repeat the fetch while the value is truncated")
	cmd.Flags().Bool("null", false, "Fetch SQL NULL instead of VALUE")
	cmd.Flags().Bool("no-indicator", false, "Fetch without a NULL indicator")
	cmd.Flags().Bool("unsigned", false, "Treat the column as unsigned")
	cmd.Flags().Int("precision", 0, "NUMERIC precision or interval fractional precision")
	cmd.Flags().Int("scale", 0, "NUMERIC scale")
	cmd.Flags().Int("interval-precision", 2, "Interval leading field precision")
	return cmd
}

func (s *session) fetch(cmd *cobra.Command, col *convert.Column, data []byte, chunked bool) error {
	ctype := col.CType.Resolve(col.SQLType, col.Unsigned)
	t := newTable(cmd.OutOrStdout(), "call", "status", "length", "bytes", "value", "warnings")

	for call := 1; ; call++ {
		before := col.Delivered
		_, end := s.tel.StartConversion(cmd.Context(), "fetch",
			observability.AttrSQLType.String(col.SQLType.String()),
			observability.AttrCType.String(ctype.String()),
			observability.AttrLength.Int(len(data)),
		)
		res, err := s.engine.Fetch(col, data)
		end(res.Status.String(), err)
		if err != nil {
			_ = t.flush()
			return err
		}

		out := written(ctype, col.Buffer, res)
		t.row(
			strconv.Itoa(call),
			res.Status.String(),
			strconv.Itoa(res.Length),
			hex.EncodeToString(out),
			describeHost(ctype, out),
			warningCodes(res),
		)

		if !chunked || !res.Has(sqlstate.RightTruncation) || col.Delivered == before {
			break
		}
	}
	return t.flush()
}

// typeFlags resolves --sql-type and --c-type.
func typeFlags(cmd *cobra.Command) (types.SQLType, types.CType, error) {
	sqlName, _ := cmd.Flags().GetString("sql-type")
	sqlType, ok := types.ParseSQLType(sqlName)
	if !ok {
		return 0, 0, fmt.Errorf("unknown SQL type %q", sqlName)
	}
	cName, _ := cmd.Flags().GetString("c-type")
	ctype, ok := types.ParseCType(cName)
	if !ok {
		return 0, 0, fmt.Errorf("unknown C type %q", cName)
	}
	return sqlType, ctype, nil
}

// valueArg returns the single VALUE argument, or nil for --null.
func valueArg(cmd *cobra.Command, args []string) ([]byte, error) {
	if null, _ := cmd.Flags().GetBool("null"); null {
		if len(args) > 0 {
			return nil, errors.New("VALUE and --null are exclusive")
		}
		return nil, nil
	}
	if len(args) == 0 {
		return nil, errors.New("a VALUE or --null is required")
	}
	return []byte(args[0]), nil
}

func warningCodes(res convert.Result) string {
	codes := make([]string, len(res.Warnings))
	for i, w := range res.Warnings {
		codes[i] = string(w.Code)
	}
	return strings.Join(codes, ",")
}

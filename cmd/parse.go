package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/markb/odbcconv/internal/datetime"
	"github.com/markb/odbcconv/internal/interval"
	"github.com/markb/odbcconv/internal/numeric"
	"github.com/markb/odbcconv/internal/pgbridge"
	"github.com/markb/odbcconv/internal/types"
)

// parsed is one row of parse output.
type parsed struct {
	outcome string
	value   string
	sqlType types.SQLType
	pg      any
	// trimmed decimal text, printed with --pg
	exact string
}

var parsers = map[string]func(string) (parsed, error){
	"decimal": func(s string) (parsed, error) {
		d, outcome := numeric.Parse(s)
		p := parsed{outcome: outcome.String(), sqlType: types.SQLDecimal}
		if outcome != numeric.Invalid {
			p.value = d.String()
			p.pg = pgbridge.Numeric(d)
			p.exact = pgbridge.Decimal(d).String()
		}
		return p, nil
	},
	"float": func(s string) (parsed, error) {
		f, ok := numeric.ParseFloat(s)
		if !ok {
			return parsed{outcome: "invalid"}, nil
		}
		text, _ := numeric.FormatFloat(f, 'g', 1)
		return parsed{outcome: "ok", value: text, sqlType: types.SQLDouble, pg: f}, nil
	},
	"date": func(s string) (parsed, error) {
		d, ok := datetime.ParseDate(s)
		if !ok {
			return parsed{outcome: "invalid"}, nil
		}
		return parsed{outcome: "ok", value: d.String(), sqlType: types.SQLTypeDate, pg: pgbridge.Date(d)}, nil
	},
	"time": func(s string) (parsed, error) {
		t, lost, ok := datetime.ParseTime(s)
		if !ok {
			return parsed{outcome: "invalid"}, nil
		}
		return parsed{outcome: lostOutcome(lost), value: t.String(), sqlType: types.SQLTypeTime, pg: pgbridge.Time(t, 0)}, nil
	},
	"timestamp": func(s string) (parsed, error) {
		ts, lost, ok := datetime.ParseTimestamp(s)
		if !ok {
			return parsed{outcome: "invalid"}, nil
		}
		return parsed{outcome: lostOutcome(lost), value: ts.String(), sqlType: types.SQLTypeTimestamp, pg: pgbridge.Timestamp(ts)}, nil
	},
	"interval": func(s string) (parsed, error) {
		lit, err := interval.ParseLiteral(s)
		if err != nil {
			return parsed{outcome: "invalid", value: err.Error()}, nil
		}
		p := parsed{
			outcome: "ok",
			value:   interval.Literal(lit.Interval, lit.Unit),
			sqlType: types.SQLType(100 + int(lit.Unit)),
		}
		pg, err := pgbridge.Interval(lit.Interval)
		if err != nil {
			return p, err
		}
		p.pg = pg
		return p, nil
	},
}

func lostOutcome(lost bool) string {
	if lost {
		return "fraction lost"
	}
	return "ok"
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "parse KIND VALUE",
		Short:     "Run one of the text parsers",
		Long:      `Parses VALUE as a decimal, float, date, time, timestamp or interval literal.`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"decimal", "float", "date", "time", "timestamp", "interval"},
		RunE: func(cmd *cobra.Command, args []string) error {
			parse, ok := parsers[args[0]]
			if !ok {
				return fmt.Errorf("unknown kind %q", args[0])
			}
			p, err := parse(args[1])
			if err != nil {
				return err
			}

			header := []string{"kind", "outcome", "value"}
			row := []string{args[0], p.outcome, p.value}
			if pg, _ := cmd.Flags().GetBool("pg"); pg {
				oid := pgbridge.OID(p.sqlType)
				text := ""
				if p.pg != nil {
					if text, err = pgbridge.Text(oid, p.pg); err != nil {
						return err
					}
				}
				header = append(header, "pg_type", "pg_text")
				row = append(row, pgbridge.TypeName(oid)+" ("+strconv.FormatUint(uint64(oid), 10)+")", text)
				if p.exact != "" {
					header = append(header, "exact")
					row = append(row, p.exact)
				}
			}

			t := newTable(cmd.OutOrStdout(), header...)
			t.row(row...)
			return t.flush()
		},
	}
	cmd.Flags().Bool("pg", false, "Also print the PostgreSQL text form")
	return cmd
}

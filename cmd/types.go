package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/markb/odbcconv/internal/pgbridge"
	"github.com/markb/odbcconv/internal/types"
)

func newTypesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the SQL types and their default host types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			unsigned, _ := cmd.Flags().GetBool("unsigned")

			t := newTable(cmd.OutOrStdout(), "code", "sql_type", "default_c_type", "pg_oid", "pg_type")
			for _, st := range types.SQLTypes() {
				oid := pgbridge.OID(st)
				t.row(
					strconv.Itoa(int(st)),
					st.String(),
					types.DefaultCType(st, unsigned).String(),
					strconv.FormatUint(uint64(oid), 10),
					pgbridge.TypeName(oid),
				)
			}
			return t.flush()
		},
	}
	cmd.Flags().Bool("unsigned", false, "Show default host types for unsigned columns")
	return cmd
}

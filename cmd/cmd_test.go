package cmd

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = run(args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "odbcconv version dev\n", out)
}

func TestFetchDecimalIntoShortBuffer(t *testing.T) {
	out, _, err := execute(t, "fetch", "--sql-type", "DECIMAL", "--c-type", "CHAR", "--buffer", "6", "123.456")
	require.NoError(t, err)

	rows := lines(out)
	require.Len(t, rows, 2)
	assert.Equal(t, "call\tstatus\tlength\tbytes\tvalue\twarnings", rows[0])
	assert.Equal(t, "1\tSUCCESS_WITH_INFO\t7\t3132332e3400\t\"123.4\"\t01004", rows[1])
}

func TestFetchChunked(t *testing.T) {
	out, _, err := execute(t, "fetch", "--c-type", "CHAR", "--buffer", "4", "--chunked", "abcdefgh")
	require.NoError(t, err)

	rows := lines(out)
	require.Len(t, rows, 4)
	assert.Equal(t, "1\tSUCCESS_WITH_INFO\t8\t61626300\t\"abc\"\t01004", rows[1])
	assert.Equal(t, "2\tSUCCESS_WITH_INFO\t5\t64656600\t\"def\"\t01004", rows[2])
	assert.Equal(t, "3\tSUCCESS\t2\t676800\t\"gh\"\t", rows[3])
}

func TestFetchInteger(t *testing.T) {
	out, _, err := execute(t, "fetch", "--sql-type", "INTEGER", "--c-type", "SLONG", "--", "-2")
	require.NoError(t, err)
	assert.Equal(t, "1\tSUCCESS\t4\tfeffffff\t-2\t", lines(out)[1])
}

func TestFetchNull(t *testing.T) {
	out, _, err := execute(t, "fetch", "--sql-type", "INTEGER", "--null")
	require.NoError(t, err)
	assert.Equal(t, "1\tNULL\t-1\t\t\t", lines(out)[1])

	_, _, err = execute(t, "fetch", "--sql-type", "INTEGER", "--null", "--no-indicator")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "22002")
}

func TestFetchErrors(t *testing.T) {
	_, _, err := execute(t, "fetch", "--sql-type", "INTEGER", "--c-type", "STINYINT", "300")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "22003")

	_, _, err = execute(t, "fetch", "--sql-type", "NOPE", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown SQL type")

	_, _, err = execute(t, "fetch", "--sql-type", "INTEGER")
	require.Error(t, err)
}

func TestStore(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"char", []string{"--c-type", "CHAR", "it's"}, "SUCCESS\t7\t'it\\'s'\t"},
		{"char_nts", []string{"--c-type", "CHAR", "--nts", "abc"}, "SUCCESS\t5\t'abc'\t"},
		{"integer", []string{"--c-type", "SLONG", "--sql-type", "INTEGER", "--", "-42"}, "SUCCESS\t3\t-42\t"},
		{"date", []string{"--c-type", "DATE", "--sql-type", "DATE", "2024-02-29"}, "SUCCESS\t17\tDATE '2024-02-29'\t"},
		{"binary", []string{"--c-type", "BINARY", "--sql-type", "VARBINARY", "dead01"}, "SUCCESS\t13\tblob 'DEAD01'\t"},
		{"null", []string{"--c-type", "SLONG", "--sql-type", "INTEGER", "--null"}, "SUCCESS\t4\tNULL\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, append([]string{"store"}, tt.args...)...)
			require.NoError(t, err)
			rows := lines(out)
			require.Len(t, rows, 2)
			assert.Equal(t, "status\tlength\tliteral\twarnings", rows[0])
			assert.Equal(t, tt.want, rows[1])
		})
	}
}

func TestStoreRejectsBadHex(t *testing.T) {
	_, _, err := execute(t, "store", "--c-type", "BINARY", "--sql-type", "VARBINARY", "xyz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build host value")
}

func TestParse(t *testing.T) {
	out, _, err := execute(t, "parse", "decimal", "12.50")
	require.NoError(t, err)
	assert.Equal(t, "decimal\tok\t12.50", lines(out)[1])

	out, _, err = execute(t, "parse", "date", "2023-02-29")
	require.NoError(t, err)
	assert.Equal(t, "date\tinvalid\t", lines(out)[1])

	out, _, err = execute(t, "parse", "time", "12:30:45.25")
	require.NoError(t, err)
	assert.Equal(t, "time\tfraction lost\t12:30:45", lines(out)[1])

	_, _, err = execute(t, "parse", "money", "1")
	require.Error(t, err)
}

func TestParseWithPostgresType(t *testing.T) {
	out, _, err := execute(t, "parse", "--pg", "date", "2024-02-29")
	require.NoError(t, err)

	rows := lines(out)
	assert.Equal(t, "kind\toutcome\tvalue\tpg_type\tpg_text", rows[0])
	assert.Equal(t, "date\tok\t2024-02-29\tdate (1082)\t2024-02-29", rows[1])

	out, _, err = execute(t, "parse", "--pg", "decimal", "12.50")
	require.NoError(t, err)

	rows = lines(out)
	assert.Equal(t, "kind\toutcome\tvalue\tpg_type\tpg_text\texact", rows[0])
	assert.Equal(t, "decimal\tok\t12.50\tnumeric (1700)\t12.50\t12.5", rows[1])
}

func TestTypes(t *testing.T) {
	out, _, err := execute(t, "types")
	require.NoError(t, err)

	assert.Contains(t, out, "4\tINTEGER\tSLONG\t23\tint4\n")
	assert.Contains(t, out, "110\tINTERVAL DAY TO SECOND\tINTERVAL DAY TO SECOND\t1186\tinterval\n")

	out, _, err = execute(t, "types", "--unsigned")
	require.NoError(t, err)
	assert.Contains(t, out, "4\tINTEGER\tULONG\t")
}

func TestRecentLogLines(t *testing.T) {
	_, stderr, err := execute(t, "--log-level", "debug", "--recent", "5",
		"fetch", "--c-type", "CHAR", "--buffer", "2", "abc")
	require.NoError(t, err)
	assert.Contains(t, stderr, "conversion warning")
	assert.Contains(t, stderr, "sqlstate=01004")
}

func TestTraceMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")
	_, _, err := execute(t, "--log-mode", "trace", "--log-db", path, "--log-level", "debug",
		"fetch", "--sql-type", "INTEGER", "--c-type", "STINYINT", "1.5")
	require.NoError(t, err)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var direction, state string
	err = db.QueryRow(`SELECT direction, sqlstate FROM conversions WHERE message = 'conversion warning'`).Scan(&direction, &state)
	require.NoError(t, err)
	assert.Equal(t, "fetch", direction)
	assert.Equal(t, "01S07", state)
}

func TestBadConfig(t *testing.T) {
	_, _, err := execute(t, "--log-mode", "syslog", "types")
	require.Error(t, err)
}

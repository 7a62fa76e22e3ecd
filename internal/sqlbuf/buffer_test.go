package sqlbuf

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markb/odbcconv/internal/sqlstate"
)

func TestBufferGrows(t *testing.T) {
	var b Buffer
	for i := 0; i < 500; i++ {
		require.NoError(t, b.WriteString("abcdefgh"))
	}
	require.NoError(t, b.WriteByte('!'))
	assert.Equal(t, 4001, b.Len())
	assert.True(t, strings.HasSuffix(b.String(), "gh!"))

	n, err := fmt.Fprintf(&b, "%d", 42)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 4003, b.Len())
}

func TestBufferLimit(t *testing.T) {
	b := New(8)
	require.NoError(t, b.WriteString("12345"))

	err := b.WriteString("6789")
	require.Error(t, err)
	assert.Equal(t, sqlstate.OutOfMemory, sqlstate.CodeOf(err))
	assert.Equal(t, "12345", b.String(), "failed write must not change contents")

	require.NoError(t, b.WriteString("678"))
	assert.Equal(t, "12345678", b.String())
	assert.Error(t, b.WriteByte('9'))
}

func TestBufferTruncateAndReset(t *testing.T) {
	var b Buffer
	require.NoError(t, b.WriteString("hello, world"))
	b.Truncate(5)
	assert.Equal(t, "hello", b.String())
	b.Truncate(50)
	assert.Equal(t, "hello", b.String())
	b.Reset()
	assert.Equal(t, 0, b.Len())
}

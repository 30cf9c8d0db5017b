package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriteTableAligns(t *testing.T) {
	var buf bytes.Buffer
	err := writeTable(&buf, []string{"ID", "NAME"}, [][]string{
		{"1", "golang"},
		{"42", "programming"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "ID"))
	// Name column starts at the same offset in every row.
	offset := strings.Index(lines[0], "NAME")
	require.Equal(t, "golang", lines[1][offset:offset+6])
	require.Equal(t, "programming", lines[2][offset:offset+11])
}

func TestWriteTableCJKWidths(t *testing.T) {
	var buf bytes.Buffer
	err := writeTable(&buf, []string{"NAME", "MEMBERS"}, [][]string{
		{"孙笑川吧", "120"},
		{"go", "7"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// The CJK name is 8 cells wide, so the short row needs 6 extra spaces
	// before its second column lines up.
	require.Contains(t, lines[2], "go        7")
}

func TestWriteTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf, nil, nil))
	require.Empty(t, buf.String())
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "a very lo…", truncate("a very long title here", 10))
	require.Equal(t, "line one line two", truncate("line one\nline two", 40))
}

func TestFormatTime(t *testing.T) {
	require.Equal(t, "-", formatTime(time.Time{}))
	require.NotEqual(t, "-", formatTime(time.Now()))
}

func TestParseID(t *testing.T) {
	id, e := parseID("42")
	require.NoError(t, e)
	require.Equal(t, int64(42), id)

	for _, bad := range []string{"0", "-3", "abc", ""} {
		_, e := parseID(bad)
		require.Error(t, e, bad)
	}
}

func TestParseIDs(t *testing.T) {
	ids, e := parseIDs([]string{"1", "2", "3"})
	require.NoError(t, e)
	require.Equal(t, []int64{1, 2, 3}, ids)

	_, e = parseIDs([]string{"1", "x"})
	require.Error(t, e)
}

package backend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fixedClock() string { return "2026-01-01T00:00:00Z" }

func TestMemoryBackendWriteReadRoundTrip(t *testing.T) {
	b := NewMemoryBackend(fixedClock)

	_, err := b.Write("/a.txt", "hello\nworld")
	require.NoError(t, err)

	out, err := b.Read("/a.txt", 0, 0)
	require.NoError(t, err)
	require.Equal(t, "1\thello\n2\tworld\n", out)
}

func TestMemoryBackendEditSingleOccurrence(t *testing.T) {
	b := NewMemoryBackend(fixedClock)
	_, _ = b.Write("/a.txt", "foo bar foo")

	_, err := b.Edit("/a.txt", "foo", "baz", false)
	require.Error(t, err, "ambiguous replace should fail without replace_all")

	res, err := b.Edit("/a.txt", "foo", "baz", true)
	require.NoError(t, err)
	require.Equal(t, 2, res.Occurrences)

	out, _ := b.Read("/a.txt", 0, 0)
	require.Equal(t, "1\tbaz bar baz\n", out)
}

func TestMemoryBackendPathTraversalRejected(t *testing.T) {
	b := NewMemoryBackend(fixedClock)
	_, err := b.Write("../etc/passwd", "x")
	require.Error(t, err)

	var berr *Error
	require.ErrorAs(t, err, &berr)
	require.Equal(t, KindPathTraversal, berr.Kind)
}

func TestMemoryBackendGrepLiteralNotRegex(t *testing.T) {
	b := NewMemoryBackend(fixedClock)
	_, _ = b.Write("/a.txt", "a.b\nacb\nfoo")

	matches, err := b.Grep("a.b", nil, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1, "grep must treat '.' literally, not as a regex wildcard")
	require.Equal(t, 1, matches[0].Line)
}

func TestMemoryBackendExistsAndDelete(t *testing.T) {
	b := NewMemoryBackend(fixedClock)
	_, _ = b.Write("/a.txt", "x")

	ok, err := b.Exists("/a.txt")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, b.Delete("/a.txt"))

	ok, err = b.Exists("/a.txt")
	require.NoError(t, err)
	require.False(t, ok)

	require.Error(t, b.Delete("/a.txt"))
}

func TestMemoryBackendFileNotFound(t *testing.T) {
	b := NewMemoryBackend(fixedClock)
	_, err := b.Read("/missing.txt", 0, 0)
	require.Error(t, err)
	var berr *Error
	require.ErrorAs(t, err, &berr)
	require.Equal(t, KindFileNotFound, berr.Kind)
}

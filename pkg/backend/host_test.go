package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestHostBackend(t *testing.T) *HostBackend {
	t.Helper()
	b, err := NewHostBackend(t.TempDir())
	require.NoError(t, err)
	return b
}

func TestHostBackendWriteReadRoundTrip(t *testing.T) {
	b := newTestHostBackend(t)

	_, err := b.Write("/a.txt", "hello\nworld")
	require.NoError(t, err)

	out, err := b.Read("/a.txt", 0, 0)
	require.NoError(t, err)
	require.Equal(t, "1\thello\n2\tworld\n", out)
}

func TestHostBackendPathTraversalRejected(t *testing.T) {
	b := newTestHostBackend(t)
	_, err := b.Write("../etc/passwd", "x")
	require.Error(t, err)
}

func recvEvent(t *testing.T, ch <-chan FileEvent, within time.Duration) (FileEvent, bool) {
	t.Helper()
	select {
	case ev, ok := <-ch:
		return ev, ok
	case <-time.After(within):
		return FileEvent{}, false
	}
}

func TestHostBackendWatchReportsWrite(t *testing.T) {
	b := newTestHostBackend(t)
	_, err := b.Write("/watched.txt", "v1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Watch(ctx, "/watched.txt")
	require.NoError(t, err)

	_, err = b.Write("/watched.txt", "v2")
	require.NoError(t, err)

	ev, ok := recvEvent(t, ch, 2*time.Second)
	require.True(t, ok, "expected a file event")
	require.Equal(t, "/watched.txt", ev.Path)
	require.Equal(t, FileChangeWrite, ev.Op)
}

func TestHostBackendWatchIgnoresOtherFilesInDir(t *testing.T) {
	b := newTestHostBackend(t)
	_, err := b.Write("/watched.txt", "v1")
	require.NoError(t, err)
	_, err = b.Write("/other.txt", "v1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Watch(ctx, "/watched.txt")
	require.NoError(t, err)

	_, err = b.Write("/other.txt", "v2")
	require.NoError(t, err)

	_, ok := recvEvent(t, ch, 300*time.Millisecond)
	require.False(t, ok, "change to an unrelated file must not be reported")
}

func TestHostBackendWatchDebouncesRapidWrites(t *testing.T) {
	b := newTestHostBackend(t)
	_, err := b.Write("/watched.txt", "v0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Watch(ctx, "/watched.txt")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := b.Write("/watched.txt", "v"+string(rune('1'+i)))
		require.NoError(t, err)
	}

	ev, ok := recvEvent(t, ch, 2*time.Second)
	require.True(t, ok)
	require.Equal(t, "/watched.txt", ev.Path)

	_, ok = recvEvent(t, ch, 300*time.Millisecond)
	require.False(t, ok, "rapid writes should coalesce into a single debounced event")
}

func TestHostBackendWatchClosesChannelOnCancel(t *testing.T) {
	b := newTestHostBackend(t)
	_, err := b.Write("/watched.txt", "v1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := b.Watch(ctx, "/watched.txt")
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-ch:
		require.False(t, ok, "channel must be closed after context cancellation")
	case <-time.After(2 * time.Second):
		t.Fatal("watch channel was not closed after cancel")
	}
}

func TestHostBackendWatchOnDirectory(t *testing.T) {
	b := newTestHostBackend(t)
	_, err := b.Write("/dir/a.txt", "v1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Watch(ctx, "/dir")
	require.NoError(t, err)

	real, err := b.real("/dir/b.txt")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(real, []byte("new"), 0o644))

	ev, ok := recvEvent(t, ch, 2*time.Second)
	require.True(t, ok)
	require.Equal(t, filepath.ToSlash(ev.Path), ev.Path)
}

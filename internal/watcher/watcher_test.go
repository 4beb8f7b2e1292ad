package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case p, ok := <-ch:
			require.True(t, ok, "channel closed before %s was seen", want)
			if p == want {
				return
			}
		case <-timeout:
			t.Fatalf("no event for %s", want)
		}
	}
}

func TestWatcherReportsNewFiles(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := StartWatcher(ctx, root)
	require.NoError(t, err)

	file := filepath.Join(root, "new.cpp")
	require.NoError(t, os.WriteFile(file, []byte("int x;"), 0644))
	waitFor(t, ch, file)
}

func TestWatcherFollowsNewFolders(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := StartWatcher(ctx, root)
	require.NoError(t, err)

	sub := filepath.Join(root, "gfx")
	require.NoError(t, os.Mkdir(sub, 0755))
	waitFor(t, ch, sub)

	file := filepath.Join(sub, "device.cpp")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	waitFor(t, ch, file)
}

func TestWatcherClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := StartWatcher(ctx, t.TempDir())
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed")
	}
}

func TestWatcherMissingFolder(t *testing.T) {
	_, err := StartWatcher(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

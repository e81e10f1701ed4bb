package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_RecreatesDeletedStagingDir(t *testing.T) {
	parent := t.TempDir()
	staging := filepath.Join(parent, "uploads")
	require.NoError(t, os.MkdirAll(staging, 0o755))

	w, err := New(staging)
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.Remove(staging))

	assert.Eventually(t, func() bool {
		info, err := os.Stat(staging)
		return err == nil && info.IsDir()
	}, 2*time.Second, 20*time.Millisecond, "staging directory should be recreated")
}

func TestWatcher_StartStopIdempotent(t *testing.T) {
	staging := filepath.Join(t.TempDir(), "uploads")
	require.NoError(t, os.MkdirAll(staging, 0o755))

	w, err := New(staging)
	require.NoError(t, err)

	require.NoError(t, w.Start())
	require.NoError(t, w.Start())
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

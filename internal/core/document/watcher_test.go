package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_SignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.md")
	writeFile(t, path, "initial")

	w, err := NewWatcher([]string{path}, zerolog.Nop())
	require.NoError(t, err)
	w.debounceDur = 20 * time.Millisecond
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(path, []byte("changed"), 0o644))

	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal")
	}
}

func TestWatcher_IgnoresEditorTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.md")
	writeFile(t, path, "initial")

	w, err := NewWatcher([]string{path}, zerolog.Nop())
	require.NoError(t, err)
	w.debounceDur = 20 * time.Millisecond
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".schedule.md.swp"), []byte("x"), 0o644))

	select {
	case <-w.Changes():
		t.Fatal("temp file should not signal")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestShouldIgnore(t *testing.T) {
	assert.True(t, shouldIgnore("/x/.hidden.md"))
	assert.True(t, shouldIgnore("/x/schedule.md~"))
	assert.True(t, shouldIgnore("/x/schedule.md.tmp"))
	assert.False(t, shouldIgnore("/x/schedule.md"))
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher([]string{filepath.Join(t.TempDir(), "gone", "schedule.md")}, zerolog.Nop())
	require.Error(t, err)
}

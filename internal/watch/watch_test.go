package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan string, timeout time.Duration) (string, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		return "", false
	}
}

func startWatcher(t *testing.T, path string, debounce time.Duration) <-chan string {
	t.Helper()
	w, err := New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })
	w.Debounce = debounce

	changed := make(chan string, 10)
	require.NoError(t, w.Watch(path, func(p string) { changed <- p }))

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)
	return changed
}

func TestWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "todo.txt")
	require.NoError(t, os.WriteFile(file, []byte("- a"), 0644))

	changed := startWatcher(t, file, 20*time.Millisecond)
	require.NoError(t, os.WriteFile(file, []byte("- a\n - b"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for file change")
	assert.Equal(t, file, path)
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "todo.txt")
	require.NoError(t, os.WriteFile(file, []byte("- a"), 0644))

	changed := startWatcher(t, file, 20*time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))

	_, ok := waitForCallback(changed, 300*time.Millisecond)
	assert.False(t, ok, "expected no callback for a sibling file")
}

func TestWatcher_RenameOverTarget(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "todo.txt")
	require.NoError(t, os.WriteFile(file, []byte("- a"), 0644))

	changed := startWatcher(t, file, 20*time.Millisecond)

	tmp := filepath.Join(dir, ".todo.txt.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("- b"), 0644))
	require.NoError(t, os.Rename(tmp, file))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback after rename-on-save")
	assert.Equal(t, file, path)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "todo.txt")
	require.NoError(t, os.WriteFile(file, []byte("- a"), 0644))

	w, err := New(nil)
	require.NoError(t, err)
	defer w.Stop()
	w.Debounce = 200 * time.Millisecond

	var calls atomic.Int32
	require.NoError(t, w.Watch(file, func(string) { calls.Add(1) }))
	time.Sleep(50 * time.Millisecond)

	for i := range 5 {
		require.NoError(t, os.WriteFile(file, []byte{'-', ' ', byte('a' + i)}, 0644))
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "expected one callback per burst")
}

func TestWatcher_StopIdempotent(t *testing.T) {
	w, err := New(nil)
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
	assert.ErrorIs(t, w.Watch(t.TempDir(), func(string) {}), ErrStopped)
}

func TestWatcher_SecondWatchRejected(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.txt")
	second := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(first, []byte("- a"), 0644))

	w, err := New(nil)
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 10)
	require.NoError(t, w.Watch(first, func(p string) { changed <- p }))
	assert.ErrorIs(t, w.Watch(second, func(string) {}), ErrAlreadyWatching)

	// The first watch keeps receiving its events.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(first, []byte("- b"), 0644))
	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for the first file")
	assert.Equal(t, first, path)
}

package cli

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/agrawalprash/enaml/loader"
)

func TestRunWatcher(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.enaml", "x = 1\n")

	watcher, err := newFileWatcher(path)
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{}, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		runWatcher(ctx, watcher, path, 20*time.Millisecond, slog.New(slog.DiscardHandler), func() {
			changes <- struct{}{}
		})
	}()

	writeFile(t, dir, "other.enaml", "y\n")
	select {
	case <-changes:
		t.Fatal("change to another file was reported")
	case <-time.After(200 * time.Millisecond):
	}

	assert.NoError(t, os.WriteFile(path, []byte("x = 2\n"), 0o644))
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("change was not reported")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNewFileWatcherMissingDir(t *testing.T) {
	_, err := newFileWatcher("/does/not/exist/main.enaml")
	assert.Error(t, err)
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.enaml", "x = 1\n")
	bad := writeFile(t, dir, "bad.enaml", "x = 'open\n")
	ldr := loader.New()

	var stdout, stderr bytes.Buffer
	assert.True(t, checkFile(context.Background(), ldr, good, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "good.enaml: 5 tokens")
	assert.Equal(t, "", stderr.String())

	stdout.Reset()
	assert.False(t, checkFile(context.Background(), ldr, bad, &stdout, &stderr))
	assert.Equal(t, "", stdout.String())
	assert.Contains(t, stderr.String(), "EOL while scanning single-quoted string")
	assert.Contains(t, stderr.String(), "bad.enaml failed")

	stderr.Reset()
	assert.False(t, checkFile(context.Background(), ldr, dir+"/missing.enaml", &stdout, &stderr))
	assert.Contains(t, stderr.String(), "failed to read")
}

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"

	"github.com/agrawalprash/enaml/loader"
)

type WatchCmd struct {
	File     string        `help:"Enaml input filename." arg:"" type:"existingfile"`
	Debounce time.Duration `help:"Quiet period after a change before re-checking." default:"100ms"`
}

func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := globals.Logger(ctx.Stderr)
	ldr := globals.Loader(ctx.Stderr)

	watcher, err := newFileWatcher(cmd.File)
	if err != nil {
		return err
	}

	check := func() {
		checkFile(runCtx, ldr, cmd.File, ctx.Stdout, ctx.Stderr)
	}

	check()
	printInfof(ctx.Stdout, "Watching %s for changes (Ctrl+C to stop)", pathStyle.Render(cmd.File))

	runWatcher(runCtx, watcher, cmd.File, cmd.Debounce, logger, check)
	return nil
}

// newFileWatcher watches the directory holding path. Editors that save by
// renaming a temporary file replace the watched inode, so watching the
// file itself would miss every save after the first.
func newFileWatcher(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	return watcher, nil
}

// runWatcher calls onChange once the events for path have been quiet for
// debounce. It returns when ctx is done or the watcher is closed, and
// closes the watcher.
func runWatcher(ctx context.Context, watcher *fsnotify.Watcher, path string, debounce time.Duration, logger *slog.Logger, onChange func()) {
	defer func() { _ = watcher.Close() }()

	name := filepath.Base(path)
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("file changed", "file", event.Name, "op", event.Op.String())
			fire = time.After(debounce)

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("file watcher error", "error", err)
		}
	}
}

// checkFile lexes path and prints a one-line verdict, preceded by the
// rendered error on failure.
func checkFile(ctx context.Context, ldr *loader.Loader, path string, stdout, stderr io.Writer) bool {
	result, err := ldr.Load(ctx, path)
	if err != nil {
		if result != nil {
			renderer := NewErrorRenderer(result.Source)
			_, _ = fmt.Fprintln(stderr, renderer.Render(err))
		} else {
			_, _ = fmt.Fprintln(stderr, err)
		}
		printError(stderr, fmt.Sprintf("%s failed", path))
		return false
	}

	printSuccess(stdout, fmt.Sprintf("%s: %s tokens", pathStyle.Render(path), humanize.Comma(int64(len(result.Tokens)))))
	return true
}

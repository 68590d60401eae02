package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long the watcher waits after the last filesystem
// event before re-applying. Editors fire several events per save.
const watchDebounce = 250 * time.Millisecond

// runWatch applies once, then re-applies whenever the spec or overlay file
// changes, until interrupted.
func runWatch(specPath, overlayPath string, flags *ApplyFlags) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apply := func() {
		if err := applyOnce(specPath, overlayPath, flags); err != nil {
			Writef(os.Stderr, "✗ apply failed: %v\n", err)
		}
	}
	apply()

	if !flags.Quiet {
		Writef(os.Stderr, "\nWatching %s and %s for changes (Ctrl-C to stop)\n", specPath, overlayPath)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the parent directories: editors replace files on save, which
	// removes a direct file watch.
	dirs := map[string]bool{}
	for _, p := range []string{specPath, overlayPath} {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	return watchLoop(ctx, watcher, []string{specPath, overlayPath}, watchDebounce, apply)
}

// watchLoop blocks until ctx is cancelled, invoking apply after events on
// the watched files settle for the debounce interval.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, paths []string, debounce time.Duration, apply func()) error {
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !eventTouches(event, paths) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounce)
			pending = true

		case <-timer.C:
			pending = false
			apply()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			Writef(os.Stderr, "watch error: %v\n", err)
		}
	}
}

// eventTouches reports whether the event concerns one of the watched files.
func eventTouches(event fsnotify.Event, paths []string) bool {
	for _, p := range paths {
		if filepath.Clean(event.Name) == filepath.Clean(p) {
			return true
		}
	}
	return false
}

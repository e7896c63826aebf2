package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/roach88/relayts/internal/logger"
)

// generateAndWatch runs gen once, then again after every source change
// under dir. Generation failures are logged and never end the watch.
func generateAndWatch(ctx context.Context, dir string, debounce time.Duration, log *zap.SugaredLogger, gen func(context.Context) error) error {
	regenerate := func() {
		if err := gen(ctx); err != nil {
			log.Warnw("generation failed", "dir", dir, "error", err)
		}
	}
	regenerate()
	return watchSources(ctx, dir, debounce, regenerate)
}

// watchSources calls onChange after CUE files under dir change, coalescing
// bursts of events within debounce. It blocks until ctx is done.
func watchSources(ctx context.Context, dir string, debounce time.Duration, onChange func()) error {
	log := logger.ComponentLogger("watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create fsnotify watcher")
	}
	defer watcher.Close()

	if err := addTree(watcher, dir); err != nil {
		return err
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(watcher, event.Name); err != nil {
						log.Warnw("watch new directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			if filepath.Ext(event.Name) != ".cue" || (event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write)) {
				continue
			}
			log.Debugw("source changed", "file", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnw("watcher error", "error", err)
		}
	}
}

// addTree watches dir and its subdirectories, skipping hidden and
// underscore-prefixed ones the CUE loader ignores.
func addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); path != dir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return errors.Wrapf(err, "watch %s", path)
		}
		return nil
	})
}

// Package watch re-runs an action when source files under a directory
// tree change. Bursts of events are collapsed into one run.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Pythonidaer/new-years-project-sub002/internal/log"
)

// DefaultDebounce is how long the tree must stay quiet before a run.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches every directory under a root.
type Watcher struct {
	Debounce time.Duration
	// Relevant filters event paths; nil accepts everything.
	Relevant func(path string) bool
	Logger   log.Logger

	fsw  *fsnotify.Watcher
	skip map[string]bool
}

// New starts watching root and all of its subdirectories except those
// named in skipDirs.
func New(root string, skipDirs []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w := &Watcher{
		Debounce: DefaultDebounce,
		Logger:   log.Nop(),
		fsw:      fsw,
		skip:     make(map[string]bool, len(skipDirs)),
	}
	for _, d := range skipDirs {
		w.skip[d] = true
	}
	if err := w.addRecursive(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run calls trigger after each quiet period following a relevant change,
// until ctx is cancelled. trigger runs on the calling goroutine, so runs
// never overlap.
func (w *Watcher) Run(ctx context.Context, trigger func(context.Context)) error {
	return w.loop(ctx, w.fsw.Events, w.fsw.Errors, trigger)
}

func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, trigger func(context.Context)) error {
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				w.maybeAddDir(ev.Name)
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			if w.Relevant != nil && !w.Relevant(ev.Name) {
				continue
			}
			w.Logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			fire = time.After(w.Debounce)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.Logger.Warn("watch error", "error", err)
		case <-fire:
			fire = nil
			trigger(ctx)
		}
	}
}

// maybeAddDir starts watching a directory created after New.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.fsw == nil {
		return
	}
	if err := w.addRecursive(path); err != nil {
		w.Logger.Warn("watching new directory", "path", path, "error", err)
	}
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("walking %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skip[d.Name()] {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

package media

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reports changes to a library directory tree. Bursts of file events
// collapse into one onChange call after a quiet period.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce *debouncer
	onChange func()
	logger   zerolog.Logger
}

// NewWatcher watches root and its non-hidden subdirectories. onChange runs on
// a timer goroutine.
func NewWatcher(root string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}
	w := &Watcher{
		fs:       fw,
		debounce: newDebouncer(debounce),
		onChange: onChange,
		logger:   zerolog.Nop(),
	}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// SetLogger sets the logger used for watch diagnostics.
func (w *Watcher) SetLogger(l zerolog.Logger) {
	w.logger = l
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("watch %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Run delivers events until ctx is done or Close is called.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.debounce.cancel()
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("library watch error")
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) {
		return
	}
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.logger.Warn().Err(err).Msg("cannot watch new directory")
			}
			w.debounce.trigger(w.onChange)
			return
		}
	}
	// A removed directory cannot be told apart from a file, so any removal
	// counts.
	if !IsImageFile(ev.Name) && !ev.Has(fsnotify.Remove|fsnotify.Rename) {
		return
	}
	w.logger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("library changed")
	w.debounce.trigger(w.onChange)
}

// Close stops watching and drops any pending onChange.
func (w *Watcher) Close() error {
	w.debounce.cancel()
	return w.fs.Close()
}

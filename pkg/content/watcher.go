package content

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reloads a Store whenever its content file changes on disk.
type Watcher struct {
	store    *Store
	logger   *zap.Logger
	debounce time.Duration
	reloaded func(error)
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce coalesces bursts of editor writes into one reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithReloadHook is called after every reload attempt.
func WithReloadHook(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.reloaded = fn
	}
}

// NewWatcher creates a watcher for store. The store must load from a directory.
func NewWatcher(store *Store, logger *zap.Logger, opts ...WatcherOption) (*Watcher, error) {
	if store == nil || store.Dir() == "" {
		return nil, errors.New("content: watcher requires a directory-backed store")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watcher{store: store, logger: logger, debounce: defaultDebounce}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w, nil
}

// Run blocks until ctx is cancelled, reloading the store on changes. The
// directory is watched rather than the file so atomic renames are seen.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.store.Dir()); err != nil {
		return err
	}
	target := filepath.Clean(w.store.Path())
	w.logger.Info("watching content", zap.String("path", target))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("content watcher error", zap.Error(err))
		case <-timer.C:
			err := w.store.Reload()
			if err == nil {
				w.logger.Info("content reloaded", zap.String("path", target))
			}
			if w.reloaded != nil {
				w.reloaded(err)
			}
		}
	}
}

// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	xglog "github.com/ManuGH/deploycfg/internal/log"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce coalesces bursts of file events into one reload.
const DefaultDebounce = 500 * time.Millisecond

// WatchResult is delivered to listeners after every reload attempt.
type WatchResult struct {
	Config  ProjectConfig // the current configuration (unchanged on failure)
	Err     error         // non-nil when the new file was rejected
	Changes []Change      // differences applied by a successful reload
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher re-runs a Loader whenever its file changes. A rejected file never
// replaces the last good configuration.
type Watcher struct {
	mu       sync.RWMutex
	current  ProjectConfig
	loader   *Loader
	debounce time.Duration
	logger   zerolog.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}

	// Reload notifications
	listenersMu sync.RWMutex
	listeners   []chan<- WatchResult
}

// NewWatcher creates a watcher seeded with an already loaded configuration.
func NewWatcher(initial ProjectConfig, loader *Loader, opts ...WatchOption) *Watcher {
	w := &Watcher{
		current:  initial,
		loader:   loader,
		debounce: DefaultDebounce,
		logger:   xglog.WithComponent("config"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Current returns the last good configuration (thread-safe read).
func (w *Watcher) Current() ProjectConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current.Clone()
}

// Subscribe registers a channel to receive reload results. Sends never
// block; a full channel misses the result. The caller owns the channel.
func (w *Watcher) Subscribe(ch chan<- WatchResult) {
	w.listenersMu.Lock()
	defer w.listenersMu.Unlock()
	w.listeners = append(w.listeners, ch)
}

// Reload loads the file once. On success the new configuration replaces the
// current one; on failure the current one is kept.
func (w *Watcher) Reload(ctx context.Context) WatchResult {
	w.logger.Info().Str(xglog.FieldEvent, "config.reload_start").Msg("reloading configuration")

	next, err := w.loader.Load(ctx)
	if err != nil {
		w.logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "config.reload_failed").
			Msg("new configuration rejected, keeping the current one")
		res := WatchResult{Config: w.Current(), Err: err}
		w.notify(res)
		return res
	}

	w.mu.Lock()
	prev := w.current
	w.current = next
	w.mu.Unlock()

	res := WatchResult{Config: next.Clone(), Changes: Diff(prev, next)}
	for _, c := range res.Changes {
		w.logger.Info().
			Str(xglog.FieldEvent, "config.changed").
			Str(xglog.FieldField, c.Path).
			Msg(c.String())
	}
	w.logger.Info().
		Str(xglog.FieldEvent, "config.reload_success").
		Int("changes", len(res.Changes)).
		Msg("configuration reloaded")
	w.notify(res)
	return res
}

// Start begins watching the loader's file until ctx is cancelled or Stop is
// called. The parent directory is watched so editors that replace the file
// by rename are followed.
func (w *Watcher) Start(ctx context.Context) error {
	path := w.loader.Path()
	if path == "" {
		return errors.New("watch: loader has no config path")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}

	w.watcher = fw
	w.done = make(chan struct{})

	w.logger.Info().
		Str(xglog.FieldEvent, "config.watcher_started").
		Str(xglog.FieldPath, path).
		Msg("watching config file for changes")

	go w.loop(ctx, filepath.Clean(path))
	return nil
}

// Stop ends the watch loop and waits for it to exit.
func (w *Watcher) Stop() {
	if w.watcher == nil {
		return
	}
	_ = w.watcher.Close()
	<-w.done
}

func (w *Watcher) loop(ctx context.Context, path string) {
	defer close(w.done)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str(xglog.FieldEvent, "config.watcher_stopped").Msg("config watcher stopped")
			_ = w.watcher.Close()
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug().
				Str(xglog.FieldEvent, "config.file_changed").
				Str("op", ev.Op.String()).
				Msg("config file changed")

			// Debounce: restart the timer on each event
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			w.Reload(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().
				Err(err).
				Str(xglog.FieldEvent, "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

func (w *Watcher) notify(res WatchResult) {
	w.listenersMu.RLock()
	defer w.listenersMu.RUnlock()

	for _, ch := range w.listeners {
		select {
		case ch <- res:
		default:
			w.logger.Warn().
				Str(xglog.FieldEvent, "config.listener_skip").
				Msg("skipped notifying listener (channel full)")
		}
	}
}

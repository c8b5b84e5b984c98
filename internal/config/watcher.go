package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultDebounce collapses bursts of writes into one reload.
const DefaultDebounce = 500 * time.Millisecond

// ChangeFunc receives the previous and the reloaded configuration.
type ChangeFunc func(old, new *Config)

// Watcher reloads the YAML config file when it changes.
type Watcher struct {
	path     string
	debounce time.Duration
	log      zerolog.Logger

	mu        sync.RWMutex
	config    *Config
	callbacks []ChangeFunc
}

// NewWatcher creates a watcher for initial.Path.
func NewWatcher(initial *Config) *Watcher {
	return &Watcher{
		path:     initial.Path,
		debounce: DefaultDebounce,
		config:   initial,
		log:      log.Logger.With().Str("component", "config").Logger(),
	}
}

// OnChange registers fn for successful reloads.
func (w *Watcher) OnChange(fn ChangeFunc) {
	w.mu.Lock()
	w.callbacks = append(w.callbacks, fn)
	w.mu.Unlock()
}

// Config returns the current configuration.
func (w *Watcher) Config() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// Run watches until ctx is cancelled. It returns immediately when the
// configuration was not read from a file.
func (w *Watcher) Run(ctx context.Context) error {
	if w.path == "" {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fsw.Close()

	// Editors replace files by rename, so watch the directory.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", w.path, err)
	}
	target := filepath.Clean(w.path)
	w.log.Info().Str("path", w.path).Msg("Watching configuration file")

	var timer *time.Timer
	reload := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			w.reload()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error().Err(err).Msg("File watcher error")
		}
	}
}

func (w *Watcher) reload() {
	next, err := LoadFile(w.path)
	if err != nil {
		w.log.Error().Err(err).Msg("Invalid configuration after reload")
		return
	}

	w.mu.Lock()
	old := w.config
	w.config = next
	callbacks := make([]ChangeFunc, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	w.log.Info().Int("callbacks", len(callbacks)).Msg("Configuration reloaded")
	for i, cb := range callbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					w.log.Error().Int("callback", i).Interface("panic", r).Msg("Config callback panicked")
				}
			}()
			cb(old, next)
		}()
	}
}

package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// ReloadFunc is called with the new configuration after a successful reload.
type ReloadFunc func(cfg *Config)

// Holder keeps the current configuration and reloads it when the file
// changes. An invalid file leaves the previous configuration in place.
type Holder struct {
	mu        sync.RWMutex
	current   *Config
	path      string
	logger    *slog.Logger
	debounce  time.Duration
	listeners []ReloadFunc
}

// NewHolder creates a holder for an already loaded configuration.
func NewHolder(initial *Config, path string, logger *slog.Logger) *Holder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Holder{
		current:  initial,
		path:     path,
		logger:   logger,
		debounce: defaultDebounce,
	}
}

// Get returns the current configuration.
func (h *Holder) Get() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// OnReload registers fn to run after each successful reload.
func (h *Holder) OnReload(fn ReloadFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Reload re-reads the file. On error the old configuration is kept.
func (h *Holder) Reload() error {
	cfg, err := Load(h.path)
	if err != nil {
		h.logger.Error("config reload failed, keeping previous configuration", "path", h.path, "error", err)
		return fmt.Errorf("reload config: %w", err)
	}

	h.mu.Lock()
	h.current = cfg
	listeners := append([]ReloadFunc(nil), h.listeners...)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(cfg)
	}
	h.logger.Info("configuration reloaded", "path", h.path)
	return nil
}

// Watch reloads the configuration whenever the file is written, until ctx
// is done. The parent directory is watched so editors that replace the
// file by rename are handled too.
func (h *Holder) Watch(ctx context.Context) error {
	if h.path == "" {
		return nil
	}
	path, err := ExpandPath(h.path)
	if err != nil {
		return err
	}
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	h.logger.Info("watching config file for changes", "path", path)
	go h.watchLoop(ctx, watcher, path)
	return nil
}

func (h *Holder) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string) {
	defer watcher.Close()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("config watcher stopped")
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Debounce bursts of events from a single save
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(h.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				_ = h.Reload()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Warn("config watcher error", "error", err)
		}
	}
}

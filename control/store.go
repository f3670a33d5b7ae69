// control/store.go
// Author: momentics <momentics@gmail.com>
//
// Thread-safe configuration store with dynamic update and hot-reload propagation.

package control

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ConfigStore holds the current configuration and notifies listeners on change.
type ConfigStore struct {
	mu        sync.RWMutex
	config    *Config
	listeners []func(*Config)
	logger    *slog.Logger
}

// NewConfigStore initializes a store with cfg, or the defaults when nil.
func NewConfigStore(cfg *Config, logger *slog.Logger) *ConfigStore {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigStore{
		config: cfg,
		logger: logger.With("component", "config"),
	}
}

// Current returns the active configuration. Callers must not modify it.
func (cs *ConfigStore) Current() *Config {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.config
}

// SetConfig validates and installs cfg, then runs the listeners.
func (cs *ConfigStore) SetConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cs.mu.Lock()
	cs.config = cfg
	listeners := append(([]func(*Config))(nil), cs.listeners...)
	cs.mu.Unlock()
	cs.dispatchReload(listeners, cfg)
	return nil
}

// OnReload registers a listener hook called on config changes.
func (cs *ConfigStore) OnReload(fn func(*Config)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}

// dispatchReload invokes listeners in registration order.
func (cs *ConfigStore) dispatchReload(listeners []func(*Config), cfg *Config) {
	for _, fn := range listeners {
		fn(cfg)
	}
}

// Watch reloads path whenever it is written or replaced, until ctx ends.
// A file that fails to load is logged and the previous config stays active.
func (cs *ConfigStore) Watch(ctx context.Context, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: editors often replace the file instead of writing it.
	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	cs.logger.Info("watching config", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			cfg, err := LoadConfig(target)
			if err != nil {
				cs.logger.Warn("config reload rejected", "path", target, "error", err)
				continue
			}
			if err := cs.SetConfig(cfg); err != nil {
				cs.logger.Warn("config reload rejected", "path", target, "error", err)
				continue
			}
			cs.logger.Info("config reloaded", "path", target)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			cs.logger.Warn("watcher error", "error", err)
		}
	}
}

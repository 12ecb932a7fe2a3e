// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"
)

// WatchedFiles are the paths, relative to the agent directory, whose
// changes can alter validation or audit output. Directories are watched
// recursively.
var WatchedFiles = []string{
	FileName,
	"SOUL.md",
	"RULES.md",
	"DUTIES.md",
	"hooks",
	"compliance",
	"skills",
	"tools",
	"agents",
}

// Watcher polls an agent directory and reloads the manifest when any
// watched file is created, modified or removed.
type Watcher struct {
	mu        sync.RWMutex
	dir       string
	paths     []string
	interval  time.Duration
	seen      map[string]time.Time
	manifest  *AgentManifest
	lastErr   error
	listeners []func(*AgentManifest, error)
	stopCh    chan struct{}
	doneCh    chan struct{}
	stopOnce  sync.Once
	logger    *slog.Logger
}

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithWatchInterval sets the polling interval for file changes.
func WithWatchInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithWatchLogger sets the logger for the watcher.
func WithWatchLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher creates a watcher for the agent directory dir.
// The initial load error, if any, is returned by Manifest and does not
// prevent watching: the author may be fixing the file.
func NewWatcher(dir string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		dir:      abs,
		interval: time.Second,
		seen:     make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	for _, rel := range WatchedFiles {
		w.paths = append(w.paths, filepath.Join(abs, rel))
	}
	w.snapshot()
	w.manifest, w.lastErr = Load(abs)
	return w, nil
}

// OnChange registers a callback invoked after every reload.
func (w *Watcher) OnChange(fn func(*AgentManifest, error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, fn)
}

// Manifest returns the last loaded manifest and its load error.
func (w *Watcher) Manifest() (*AgentManifest, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.manifest, w.lastErr
}

// Dir returns the absolute agent directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Start begins watching for changes.
func (w *Watcher) Start(ctx context.Context) {
	go w.watch(ctx)
}

// Stop stops the watcher and waits for the polling loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			if w.checkForChanges() {
				w.reload()
			}
		}
	}
}

func (w *Watcher) snapshot() {
	w.seen = w.scan()
}

// scan records the mtime of every watched path. Directories are walked so
// that edits to files inside skills/, tools/ or agents/ are seen.
func (w *Watcher) scan() map[string]time.Time {
	seen := make(map[string]time.Time)
	for _, root := range w.paths {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			seen[path] = info.ModTime()
			return nil
		})
	}
	return seen
}

func (w *Watcher) checkForChanges() bool {
	current := w.scan()

	w.mu.Lock()
	defer w.mu.Unlock()

	changed := len(current) != len(w.seen)
	if !changed {
		for path, mod := range current {
			if last, ok := w.seen[path]; !ok || !last.Equal(mod) {
				changed = true
				break
			}
		}
	}
	w.seen = current
	return changed
}

func (w *Watcher) reload() {
	w.logger.Debug("agent directory changed, reloading", "dir", w.dir)

	m, err := Load(w.dir)
	if err != nil {
		w.logger.Warn("failed to reload agent.yaml", "error", err)
	}

	w.mu.Lock()
	w.manifest, w.lastErr = m, err
	listeners := make([]func(*AgentManifest, error), len(w.listeners))
	copy(listeners, w.listeners)
	w.mu.Unlock()

	for _, fn := range listeners {
		fn(m, err)
	}
}

// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// touch rewrites path and pushes its mtime forward so that coarse
// filesystem timestamps still register as a change.
func touch(t *testing.T, path, content string, offset time.Duration) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	when := time.Now().Add(offset)
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func TestWatcherDetectsChanges(t *testing.T) {
	dir := writeAgent(t, "name: v1\nversion: 1.0.0\n")

	watcher, err := NewWatcher(dir, WithWatchInterval(20*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	m, err := watcher.Manifest()
	if err != nil || m.Name != "v1" {
		t.Fatalf("unexpected initial manifest: %+v, %v", m, err)
	}

	changes := make(chan *AgentManifest, 4)
	watcher.OnChange(func(m *AgentManifest, err error) {
		if err == nil {
			changes <- m
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher.Start(ctx)
	defer watcher.Stop()

	touch(t, filepath.Join(dir, FileName), "name: v2\nversion: 1.0.1\n", 2*time.Second)

	select {
	case m := <-changes:
		if m.Name != "v2" {
			t.Errorf("expected name 'v2', got %q", m.Name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for manifest change notification")
	}
}

func TestWatcherReportsBrokenManifest(t *testing.T) {
	dir := writeAgent(t, "name: ok\n")

	watcher, err := NewWatcher(dir, WithWatchInterval(20*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	errs := make(chan error, 4)
	watcher.OnChange(func(_ *AgentManifest, err error) {
		errs <- err
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher.Start(ctx)
	defer watcher.Stop()

	touch(t, filepath.Join(dir, FileName), "name: [broken\n", 2*time.Second)

	select {
	case err := <-errs:
		if err == nil {
			t.Fatal("expected parse error for broken manifest")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload")
	}
}

func TestWatcherNoticesNewArtifacts(t *testing.T) {
	dir := writeAgent(t, "name: ok\n")

	watcher, err := NewWatcher(dir, WithWatchInterval(20*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	reloaded := make(chan struct{}, 4)
	watcher.OnChange(func(*AgentManifest, error) { reloaded <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher.Start(ctx)
	defer watcher.Stop()

	if err := os.Mkdir(filepath.Join(dir, "compliance"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("expected reload after compliance/ was created")
	}
}

func TestWatcherStops(t *testing.T) {
	dir := writeAgent(t, "name: ok\n")

	watcher, err := NewWatcher(dir, WithWatchInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	watcher.Start(context.Background())

	done := make(chan struct{})
	go func() {
		watcher.Stop()
		watcher.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("watcher.Stop() did not complete in time")
	}
}

func TestWatcherNoticesNestedEdits(t *testing.T) {
	dir := writeAgent(t, "name: ok\n")
	skill := filepath.Join(dir, "skills", "foo", "SKILL.md")
	tool := filepath.Join(dir, "tools", "search.yaml")
	for _, p := range []string{skill, tool} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte("v1\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	watcher, err := NewWatcher(dir, WithWatchInterval(20*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	reloaded := make(chan struct{}, 8)
	watcher.OnChange(func(*AgentManifest, error) { reloaded <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher.Start(ctx)
	defer watcher.Stop()

	touch(t, skill, "v2\n", 2*time.Second)
	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("expected reload after editing skills/foo/SKILL.md")
	}

	if err := os.Remove(tool); err != nil {
		t.Fatalf("remove: %v", err)
	}
	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("expected reload after removing tools/search.yaml")
	}
}

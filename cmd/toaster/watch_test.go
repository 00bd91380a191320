package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yaml")
	if err := os.WriteFile(path, []byte("steps: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, quietLogger(), func() { calls <- struct{}{} })
	}()

	deadline := time.After(5 * time.Second)
	for {
		// Keep writing until the watcher is registered and picks it up.
		if err := os.WriteFile(path, []byte("steps:\n  - snapshot: true\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		select {
		case <-calls:
			cancel()
			if err := <-done; err != nil {
				t.Errorf("watchFile() error: %v", err)
			}
			return
		case <-time.After(watchDebounce * 2):
		case <-deadline:
			t.Fatal("change was not reported")
		}
	}
}

func TestWatchFileMissingDir(t *testing.T) {
	err := watchFile(context.Background(), filepath.Join(t.TempDir(), "nope", "demo.yaml"), quietLogger(), func() {})
	if err == nil {
		t.Error("watchFile() on a missing directory should fail")
	}
}

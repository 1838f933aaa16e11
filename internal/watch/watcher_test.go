package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestNewWatcherRequiresPaths(t *testing.T) {
	if _, err := NewWatcher(); err == nil {
		t.Error("Expected error when no paths are given")
	}
}

func TestWatcherStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.yaml")
	writeFile(t, path, "A4: 440\n")

	watcher, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}

	// Starting again should return an error
	if err := watcher.Start(); err == nil {
		t.Error("Expected error when starting watcher twice")
	}
}

func TestWatcherMissingFile(t *testing.T) {
	watcher, err := NewWatcher(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(); err == nil {
		t.Error("Expected error when watching a missing file")
	}
}

func TestWatcherDetectsFileChange(t *testing.T) {
	tmpDir := t.TempDir()
	notesPath := filepath.Join(tmpDir, "notes.yaml")
	configPath := filepath.Join(tmpDir, "notegen.yaml")
	writeFile(t, notesPath, "A4: 440\n")
	writeFile(t, configPath, "variants: 2\n")

	watcher, err := NewWatcher(notesPath, configPath)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}

	// Give watcher time to initialize
	time.Sleep(100 * time.Millisecond)

	writeFile(t, notesPath, "A4: 440\nC4: 261.63\n")

	select {
	case event := <-watcher.Events():
		if event.Error != nil {
			t.Fatalf("Unexpected error: %v", event.Error)
		}
		if event.Path != notesPath {
			t.Errorf("Expected event for %s, got %s", notesPath, event.Path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for file change event")
	}
}

func TestWatcherStopClosesEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.yaml")
	writeFile(t, path, "A4: 440\n")

	watcher, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	if err := watcher.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	watcher.Stop()

	select {
	case _, ok := <-watcher.Events():
		if ok {
			// Drain whatever was queued before Stop.
			for range watcher.Events() {
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for events channel to close")
	}

	// Stopping twice is a no-op
	watcher.Stop()
}

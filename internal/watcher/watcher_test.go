package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T, dir string) <-chan struct{} {
	t.Helper()
	cfg := DefaultConfig(dir)
	cfg.DebounceDur = 50 * time.Millisecond
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = w.Stop() })

	onChange, err := w.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return onChange
}

func expectSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected notification but got timeout")
	}
}

func expectNoSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
		t.Fatal("unexpected notification")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherDebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "index.html")
	if err := os.WriteFile(page, []byte("<p>0</p>"), 0o644); err != nil {
		t.Fatal(err)
	}

	onChange := startWatcher(t, dir)

	for i := 0; i < 10; i++ {
		if err := os.WriteFile(page, []byte(fmt.Sprintf("<p>%d</p>", i)), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	expectSignal(t, onChange)
	expectNoSignal(t, onChange)
}

func TestWatcherIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(other, []byte("initial"), 0o644); err != nil {
		t.Fatal(err)
	}

	onChange := startWatcher(t, dir)

	if err := os.WriteFile(other, []byte("changed"), 0o644); err != nil {
		t.Fatal(err)
	}
	expectNoSignal(t, onChange)
}

func TestWatcherIgnoresStateDir(t *testing.T) {
	dir := t.TempDir()
	stateDir := filepath.Join(dir, ".codetint")
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		t.Fatal(err)
	}

	onChange := startWatcher(t, dir)

	if err := os.WriteFile(filepath.Join(stateDir, "cache.html"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	expectNoSignal(t, onChange)
}

func TestWatcherNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "api", "v1")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	onChange := startWatcher(t, dir)

	if err := os.WriteFile(filepath.Join(nested, "ref.html"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	expectSignal(t, onChange)
}

func TestWatcherNewDirectory(t *testing.T) {
	dir := t.TempDir()
	onChange := startWatcher(t, dir)

	sub := filepath.Join(dir, "guide")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	// Give the loop time to register the new directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(sub, "intro.html"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	expectSignal(t, onChange)
}

func TestWatcherMissingRoot(t *testing.T) {
	w, err := New(DefaultConfig(filepath.Join(t.TempDir(), "missing")))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	if _, err := w.Start(); err == nil {
		t.Error("expected error for missing root")
	}
}

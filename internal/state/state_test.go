package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissing(t *testing.T) {
	st, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(st.PageHashes) != 0 {
		t.Errorf("expected empty state, got %v", st.PageHashes)
	}
	if !st.IsChanged("index.html", "abc") {
		t.Error("unknown page should count as changed")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	st, _ := Load(dir)
	st.Record("index.html", "h1")
	st.Record("guide/a.html", "h2")
	st.LastRunID = "run-1"
	if err := st.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.IsChanged("index.html", "h1") {
		t.Error("index.html should be unchanged")
	}
	if !loaded.IsChanged("guide/a.html", "other") {
		t.Error("guide/a.html with new hash should be changed")
	}
	if loaded.LastRunID != "run-1" {
		t.Errorf("LastRunID = %q, want run-1", loaded.LastRunID)
	}
	if loaded.LastUpdated.IsZero() {
		t.Error("LastUpdated not set")
	}
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, Dir), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, Dir, "state.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected error for corrupt state")
	}
}

func TestPrune(t *testing.T) {
	st, _ := Load(t.TempDir())
	st.Record("a.html", "1")
	st.Record("b.html", "2")
	st.Prune(map[string]bool{"a.html": true})
	if _, ok := st.PageHashes["b.html"]; ok {
		t.Error("b.html should have been pruned")
	}
	if _, ok := st.PageHashes["a.html"]; !ok {
		t.Error("a.html should be kept")
	}
}

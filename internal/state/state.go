// Package state remembers which pages were enhanced and what they looked
// like afterwards, so unchanged pages can be skipped.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Dir is the directory, inside the site root, holding codetint state.
const Dir = ".codetint"

// State tracks the content hash of every page as codetint last wrote it.
type State struct {
	PageHashes  map[string]string `json:"page_hashes"`
	LastRunID   string            `json:"last_run_id,omitempty"`
	LastUpdated time.Time         `json:"last_updated"`
}

// Load reads state from .codetint/state.json inside the given directory.
// A missing file yields an empty state.
func Load(dir string) (*State, error) {
	path := filepath.Join(dir, Dir, "state.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{
				PageHashes: make(map[string]string),
			}, nil
		}
		return nil, err
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	if st.PageHashes == nil {
		st.PageHashes = make(map[string]string)
	}
	return &st, nil
}

// Save writes the state to .codetint/state.json inside the given directory.
func (s *State) Save(dir string) error {
	stateDir := filepath.Join(dir, Dir)
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return err
	}

	s.LastUpdated = time.Now()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(stateDir, "state.json"), data, 0o644)
}

// IsChanged returns true if the page's content hash differs from the hash
// recorded after its last enhancement.
func (s *State) IsChanged(relPath, contentHash string) bool {
	stored, ok := s.PageHashes[relPath]
	if !ok {
		return true
	}
	return stored != contentHash
}

// Record stores the hash of a page as written.
func (s *State) Record(relPath, contentHash string) {
	s.PageHashes[relPath] = contentHash
}

// Prune drops pages not present in keep.
func (s *State) Prune(keep map[string]bool) {
	for p := range s.PageHashes {
		if !keep[p] {
			delete(s.PageHashes, p)
		}
	}
}

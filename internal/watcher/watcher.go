// Package watcher signals when files under a directory tree change, with
// debouncing so a burst of writes from a site generator yields one rerun.
package watcher

import (
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a directory tree and sends notifications.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	root       string
	debounce   time.Duration
	extensions map[string]bool
	ignoreDirs map[string]bool
	logger     *log.Logger
	onChange   chan struct{}
	done       chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	Root        string
	DebounceDur time.Duration
	// Extensions limits events to files with these suffixes (".html").
	// Empty means every file.
	Extensions []string
	// IgnoreDirs are directory base names never watched.
	IgnoreDirs []string
	Logger     *log.Logger
}

// DefaultConfig returns sensible defaults for watching a rendered site.
func DefaultConfig(root string) Config {
	return Config{
		Root:        root,
		DebounceDur: DefaultDebounce,
		Extensions:  []string{".html", ".htm"},
		IgnoreDirs:  []string{".git", ".codetint", "node_modules", ".quarto"},
	}
}

// New creates a new tree watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if cfg.DebounceDur <= 0 {
		cfg.DebounceDur = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	w := &Watcher{
		fsWatcher:  fsw,
		root:       cfg.Root,
		debounce:   cfg.DebounceDur,
		extensions: make(map[string]bool),
		ignoreDirs: make(map[string]bool),
		logger:     logger,
		onChange:   make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	for _, ext := range cfg.Extensions {
		w.extensions[strings.ToLower(ext)] = true
	}
	for _, d := range cfg.IgnoreDirs {
		w.ignoreDirs[d] = true
	}
	return w, nil
}

// Start begins watching the tree.
// Returns a channel that receives a signal after each burst of changes.
func (w *Watcher) Start() (<-chan struct{}, error) {
	info, err := os.Stat(w.root)
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", w.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watching %s: not a directory", w.root)
	}
	if err := w.addTree(w.root); err != nil {
		return nil, err
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// addTree registers dir and every non-ignored directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.ignoreDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("watching directory %s: %w", path, err)
		}
		return nil
	})
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			// New directories are watched as they appear.
			if event.Op&fsnotify.Create != 0 && !w.ignored(event.Name) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Printf("watcher: %v", err)
					}
					continue
				}
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = true

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Drop if a signal is already queued.
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Printf("watcher: %v", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// ignored reports whether path lies inside an ignored directory.
func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if w.ignoreDirs[part] {
			return true
		}
	}
	return false
}

// isRelevantEvent checks if the event should trigger a rerun.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if w.ignored(event.Name) {
		return false
	}
	if len(w.extensions) == 0 {
		return true
	}
	return w.extensions[strings.ToLower(filepath.Ext(event.Name))]
}

// Package watcher observes a notebook directory for file changes and fires a
// refresh callback. The callback receives no path: the orchestration layer
// only needs to know that something changed, not what.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/moby/patternmatcher"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/notesync/logging"
)

// defaultIgnores excludes repository internals and notesync's own
// bookkeeping, whose churn must not trigger refresh cycles.
var defaultIgnores = []string{
	".git",
	".git/**",
	".notesync",
	".notesync/**",
}

// NotebookWatcher watches a notebook directory tree for adds, changes, and
// removals, debouncing rapid bursts into a single notification.
type NotebookWatcher struct {
	watcher    *fsnotify.Watcher
	dir        string
	matcher    *patternmatcher.PatternMatcher
	debounceMs int
	lastChange time.Time
	mu         sync.Mutex
	logger     *logrus.Entry
	onChange   func()
}

// New creates a watcher over dir. The debounceMs parameter controls how long
// to wait before processing rapid changes; the onChange callback fires on
// any add/change/remove under the directory. Subdirectories existing at
// construction time are watched recursively, and directories created later
// are added as they appear.
func New(dir string, debounceMs int, onChange func()) (*NotebookWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	matcher, err := patternmatcher.New(defaultIgnores)
	if err != nil {
		fsw.Close()
		return nil, err
	}

	if debounceMs <= 0 {
		debounceMs = 100
	}

	w := &NotebookWatcher{
		watcher:    fsw,
		dir:        dir,
		matcher:    matcher,
		debounceMs: debounceMs,
		logger:     logging.NewLogger("watcher"),
		onChange:   onChange,
	}

	if err := w.addRecursive(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// addRecursive watches dir and every non-ignored subdirectory beneath it.
func (w *NotebookWatcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.WithError(err).Warnf("Failed to watch %s", path)
		}
		return nil
	})
}

// ignored reports whether the path falls under an ignore pattern.
func (w *NotebookWatcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)

	matched, err := w.matcher.MatchesOrParentMatches(rel)
	if err != nil {
		return false
	}
	return matched
}

// Start begins watching for changes. It blocks until the context is cancelled.
func (w *NotebookWatcher) Start(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)

			if w.ignored(event.Name) {
				continue
			}

			// New directories need their own watch.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						w.logger.WithError(err).Warnf("Failed to watch new directory %s", event.Name)
					}
				}
			}

			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.handleChange(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			w.watcher.Close()
			return
		}
	}
}

// handleChange fires the callback with debouncing.
func (w *NotebookWatcher) handleChange(file string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Debounce rapid writes
	elapsed := time.Since(w.lastChange)
	if elapsed < time.Duration(w.debounceMs)*time.Millisecond {
		w.logger.Debugf("Debounced: %s (only %v since last change)", filepath.Base(file), elapsed)
		return
	}
	w.lastChange = time.Now()

	w.logger.Debugf("Notebook changed: %s", strings.TrimPrefix(file, w.dir+string(os.PathSeparator)))

	if w.onChange != nil {
		w.onChange()
	}
}

package plan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/logging"
)

// Watcher reports plan files that change under a root.
type Watcher struct {
	root     string
	file     string
	matcher  *Matcher
	debounce time.Duration
	watcher  *fsnotify.Watcher
	log      *logging.Logger

	mu        sync.Mutex
	dirs      map[string]bool
	closeOnce sync.Once
}

// NewWatcher watches root, a plan file or a directory tree. Changes are
// reported after debounce has passed without further events.
func NewWatcher(root string, m *Matcher, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("plan path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		root:     abs,
		matcher:  m,
		debounce: debounce,
		watcher:  fsw,
		log:      logging.Get("plan"),
		dirs:     make(map[string]bool),
	}

	// A single file is watched through its directory so editors that
	// replace the file on save keep being seen.
	if !info.IsDir() {
		w.file = abs
		err = w.add(filepath.Dir(abs))
	} else {
		err = w.addTree(abs)
	}
	if err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) add(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dirs[dir] {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.dirs[dir] = true
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.add(path)
	})
}

func (w *Watcher) relevant(path string) bool {
	if w.file != "" {
		return path == w.file
	}
	return w.matcher.Match(path)
}

// Run blocks until ctx is done, calling onChange with the sorted set of plan
// files that changed during each quiet period. Removed files are included;
// onChange should tolerate paths that no longer exist.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	defer w.Close()

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && w.file == "" {
				if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.log.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					// Files may land in the directory before its watch exists.
					found, err := Discover(event.Name, w.matcher)
					if err != nil {
						w.log.Warn("failed to scan new directory", "path", event.Name, "error", err)
					}
					for _, p := range found {
						pending[p] = true
					}
					if len(found) > 0 {
						timer.Reset(w.debounce)
					}
					continue
				}
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			w.log.Debug("plan changed", "path", event.Name, "op", event.Op.String())
			pending[event.Name] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watcher error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)
			onChange(paths)
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}

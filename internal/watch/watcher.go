// SPDX-License-Identifier: MPL-2.0

// Package watch monitors bundle directories and triggers recomposition after
// a debounce period. Events within the debounce window coalesce, so a burst
// of editor writes produces one recomposition with the full set of changed
// paths.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the quiet period after the last filesystem event before
// the callback fires.
const defaultDebounce = 500 * time.Millisecond

// defaultIgnores excludes paths that generate high-frequency noise: VCS
// metadata, editor swap files, OS metadata, and composition's own snapshots.
var defaultIgnores = []string{
	"**/.git/**",
	"**/.stackpack-backup/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Roots are the bundle directories to watch recursively.
		Roots []string

		// Ignore are additional doublestar glob patterns for paths that never
		// trigger the callback, merged with the built-in defaults.
		Ignore []string

		// Debounce is the quiet period before the callback fires. Zero or
		// negative falls back to the default.
		Debounce time.Duration

		// OnChange is called after the debounce window closes with the
		// deduplicated changed paths. Nil is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Stderr receives watcher diagnostics; nil defaults to os.Stderr.
		Stderr io.Writer
	}

	// Watcher monitors bundle roots and fires a debounced callback when files
	// under them change. Run must be called exactly once.
	Watcher struct {
		fsw      *fsnotify.Watcher
		cfg      Config
		ignores  []string
		stderr   io.Writer
		debounce time.Duration
		started  atomic.Bool
	}
)

// New creates a Watcher over the given bundle roots. Every root must exist;
// directories created under a root after startup are added automatically.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Roots) == 0 {
		return nil, fmt.Errorf("watch: no directories to watch")
	}
	for _, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("watch: invalid ignore pattern %q", pattern)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	w := &Watcher{
		fsw:      fsw,
		cfg:      cfg,
		ignores:  append(append([]string{}, defaultIgnores...), cfg.Ignore...),
		stderr:   stderr,
		debounce: debounce,
	}

	for _, root := range cfg.Roots {
		if err := w.addTree(root); err != nil {
			if closeErr := fsw.Close(); closeErr != nil {
				fmt.Fprintf(stderr, "watch: close after init failure: %v\n", closeErr)
			}
			return nil, err
		}
	}
	return w, nil
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on clean cancellation. A second call returns an error.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := make([]string, 0, len(pending))
		for path := range pending {
			changed = append(changed, path)
		}
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				fmt.Fprintf(w.stderr, "watch: callback error: %v\n", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		localTimer := timer
		mu.Unlock()
		if localTimer != nil {
			localTimer.Stop()
		}
		if err := w.fsw.Close(); err != nil {
			fmt.Fprintf(w.stderr, "watch: close fsnotify: %v\n", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}
			if w.isIgnored(evt.Name) {
				continue
			}
			// Extend recursive watches to directories created after startup.
			if evt.Has(fsnotify.Create) {
				if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
					if err := w.addTree(evt.Name); err != nil {
						fmt.Fprintf(w.stderr, "watch: add %s: %v\n", evt.Name, err)
					}
					continue
				}
			}

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			fmt.Fprintf(w.stderr, "watch: fsnotify error: %v\n", err)
		}
	}
}

// addTree registers root and every non-ignored directory beneath it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("watch: walk %s: %w", path, err)
		}
		if !entry.IsDir() {
			return nil
		}
		if w.isIgnored(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		return nil
	})
}

// isIgnored matches a path against the merged ignore patterns. Patterns use
// slash separators regardless of platform.
func (w *Watcher) isIgnored(path string) bool {
	slashPath := filepath.ToSlash(path)
	for _, pattern := range w.ignores {
		if ok, err := doublestar.Match(pattern, slashPath); err == nil && ok {
			return true
		}
	}
	return false
}

// Package watch reports batches of changed files under watched directories.
//
// On Linux changes come from inotify; elsewhere, or when Options.ForcePoll
// is set, directories are rescanned on a fixed interval. Changes arriving
// within Options.Debounce of each other are delivered as one sorted batch.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	DefaultDebounce = 200 * time.Millisecond
	DefaultInterval = 500 * time.Millisecond
)

type Options struct {
	Debounce  time.Duration
	Interval  time.Duration // polling period
	ForcePoll bool
	// Match filters reported files; nil reports every file.
	Match func(path string) bool
}

type backend interface {
	add(dir string) error
	run(ctx context.Context, notify func(path string, isDir bool)) error
	close() error
}

type Watcher struct {
	opts     Options
	be       backend
	onChange func([]string)
	deliver  sync.Mutex

	mu      sync.Mutex
	dirs    map[string]bool
	pending map[string]bool
	timer   *time.Timer
	closed  bool
}

// New creates a watcher that calls onChange with each batch of changed
// paths. onChange runs on its own goroutine, one batch at a time.
func New(onChange func([]string), opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	var be backend
	if !opts.ForcePoll {
		// inotify may be unavailable, for example when the watch limit is reached
		if native, err := newNative(); err == nil {
			be = native
		}
	}
	if be == nil {
		be = newPoller(opts.Interval)
	}
	return &Watcher{
		opts:     opts,
		be:       be,
		onChange: onChange,
		dirs:     make(map[string]bool),
		pending:  make(map[string]bool),
	}
}

// Add watches path. A directory is watched with all its subdirectories,
// except hidden ones; a file is watched through its parent directory.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.addDir(filepath.Dir(abs))
	}
	return filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != abs && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.addDir(p)
	})
}

func (w *Watcher) addDir(dir string) error {
	w.mu.Lock()
	if w.dirs[dir] {
		w.mu.Unlock()
		return nil
	}
	w.dirs[dir] = true
	w.mu.Unlock()
	return w.be.add(dir)
}

// Run delivers changes until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	err := w.be.run(ctx, w.changed)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (w *Watcher) changed(path string, isDir bool) {
	if isDir {
		if !strings.HasPrefix(filepath.Base(path), ".") {
			_ = w.Add(path)
		}
		return
	}
	if w.opts.Match != nil && !w.opts.Match(path) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, w.flush)
}

func (w *Watcher) flush() {
	w.deliver.Lock()
	defer w.deliver.Unlock()

	w.mu.Lock()
	if w.closed || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	batch := make([]string, 0, len(w.pending))
	for p := range w.pending {
		batch = append(batch, p)
	}
	clear(w.pending)
	w.timer = nil
	w.mu.Unlock()

	slices.Sort(batch)
	w.onChange(batch)
}

// Close stops the backend and drops changes not yet delivered.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.be.close()
}

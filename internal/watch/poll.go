package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type stamp struct {
	mod  time.Time
	size int64
}

// poller rescans each watched directory, without recursion, every interval.
type poller struct {
	interval time.Duration
	stop     chan struct{}
	once     sync.Once

	mu   sync.Mutex
	dirs []string
	seen map[string]stamp
}

func newPoller(interval time.Duration) *poller {
	return &poller{
		interval: interval,
		stop:     make(chan struct{}),
		seen:     make(map[string]stamp),
	}
}

// add records the current state of dir so only later changes are reported.
func (p *poller) add(dir string) error {
	if _, err := os.Stat(dir); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dirs = append(p.dirs, dir)
	p.scan(dir, nil)
	return nil
}

func (p *poller) run(ctx context.Context, notify func(string, bool)) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.stop:
			return nil
		case <-ticker.C:
			p.check(notify)
		}
	}
}

func (p *poller) check(notify func(string, bool)) {
	type change struct {
		path  string
		isDir bool
	}
	var changes []change
	p.mu.Lock()
	for _, dir := range p.dirs {
		p.scan(dir, func(path string, isDir bool) {
			changes = append(changes, change{path, isDir})
		})
	}
	p.mu.Unlock()

	// notify may call add, which takes the lock
	for _, c := range changes {
		notify(c.path, c.isDir)
	}
}

// scan compares dir against the last seen state. Callers hold p.mu.
func (p *poller) scan(dir string, report func(string, bool)) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		info, err := e.Info()
		if err != nil {
			continue
		}
		st := stamp{mod: info.ModTime(), size: info.Size()}
		if e.IsDir() {
			st.size = -1
		}
		old, known := p.seen[path]
		p.seen[path] = st
		if report == nil {
			continue
		}
		switch {
		case e.IsDir() && !known:
			report(path, true)
		case !e.IsDir() && (!known || !old.mod.Equal(st.mod) || old.size != st.size):
			report(path, false)
		}
	}
}

func (p *poller) close() error {
	p.once.Do(func() { close(p.stop) })
	return nil
}

package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func startWatcher(t *testing.T, poll bool, root string) <-chan []string {
	t.Helper()
	batches := make(chan []string, 16)
	w := New(func(paths []string) { batches <- paths }, Options{
		Debounce:  50 * time.Millisecond,
		Interval:  10 * time.Millisecond,
		ForcePoll: poll,
		Match:     func(p string) bool { return strings.HasSuffix(p, ".hr") },
	})
	if err := w.Add(root); err != nil {
		t.Fatalf("add: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		_ = w.Close()
		if err := <-done; err != nil {
			t.Errorf("run: %v", err)
		}
	})
	return batches
}

func waitBatch(t *testing.T, batches <-chan []string) []string {
	t.Helper()
	select {
	case b := <-batches:
		return b
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for changes")
	}
	return nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWatcherBatchesMatchingFiles(t *testing.T) {
	for _, poll := range []bool{true, false} {
		name := "native"
		if poll {
			name = "poll"
		}
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, filepath.Join(root, "a.hr"), "fn a() {}\n")
			batches := startWatcher(t, poll, root)

			writeFile(t, filepath.Join(root, "notes.txt"), "ignored")
			writeFile(t, filepath.Join(root, "a.hr"), "fn a() { 1 }\n")
			writeFile(t, filepath.Join(root, "b.hr"), "fn b() {}\n")

			got := map[string]bool{}
			for len(got) < 2 {
				for _, p := range waitBatch(t, batches) {
					got[p] = true
				}
			}
			for _, want := range []string{"a.hr", "b.hr"} {
				if !got[filepath.Join(root, want)] {
					t.Fatalf("missing %s in %v", want, got)
				}
			}
			if got[filepath.Join(root, "notes.txt")] {
				t.Fatalf("unmatched file reported: %v", got)
			}
		})
	}
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	batches := startWatcher(t, true, root)

	sub := filepath.Join(root, "pkg")
	if err := os.Mkdir(sub, 0o750); err != nil {
		t.Fatal(err)
	}
	// the poller registers pkg on its next scan
	deadline := time.Now().Add(5 * time.Second)
	target := filepath.Join(sub, "c.hr")
	for {
		writeFile(t, target, "fn c() {}\n"+time.Now().String())
		select {
		case b := <-batches:
			for _, p := range b {
				if p == target {
					return
				}
			}
		case <-time.After(100 * time.Millisecond):
		}
		if time.Now().After(deadline) {
			t.Fatalf("no change reported for %s", target)
		}
	}
}

func TestWatcherSkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	hidden := filepath.Join(root, ".git")
	if err := os.Mkdir(hidden, 0o750); err != nil {
		t.Fatal(err)
	}
	w := New(func([]string) {}, Options{ForcePoll: true})
	if err := w.Add(root); err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if !w.dirs[root] || w.dirs[hidden] {
		t.Fatalf("unexpected watched dirs: %v", w.dirs)
	}
}

func TestAddMissingPath(t *testing.T) {
	w := New(func([]string) {}, Options{ForcePoll: true})
	defer w.Close()
	if err := w.Add(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing path")
	}
}

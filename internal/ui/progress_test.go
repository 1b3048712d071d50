package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"highrust/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan driver.FileEvent, 8)
	m := newProgressModel("transpiling", []string{"a.hr", "b.hr", "c.hr"}, events)

	steps := []struct {
		ev   driver.FileEvent
		want []string
	}{
		{driver.FileEvent{Path: "a.hr", Status: driver.FileStart}, []string{"transpiling", "queued", "queued"}},
		{driver.FileEvent{Path: "a.hr", Status: driver.FileDone}, []string{"done", "queued", "queued"}},
		{driver.FileEvent{Path: "b.hr", Status: driver.FileDone, Cached: true}, []string{"done", "cached", "queued"}},
		{driver.FileEvent{Path: "c.hr", Status: driver.FileFailed}, []string{"done", "cached", "failed"}},
		{driver.FileEvent{Path: "unknown.hr", Status: driver.FileFailed}, []string{"done", "cached", "failed"}},
	}
	for i, step := range steps {
		m.Update(eventMsg(step.ev))
		for j, want := range step.want {
			if got := m.items[j].status; got != want {
				t.Fatalf("step %d: item %d status = %q, want %q", i, j, got, want)
			}
		}
	}
	if got := m.finished(); got != 3 {
		t.Fatalf("finished = %d, want 3", got)
	}

	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Fatalf("expected done model with quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}

	view := m.View()
	for _, want := range []string{"done: transpiling 3/3", "a.hr", "cached", "failed"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProgressModelListensUntilClosed(t *testing.T) {
	events := make(chan driver.FileEvent, 1)
	m := newProgressModel("t", []string{"a.hr"}, events)
	events <- driver.FileEvent{Path: "a.hr", Status: driver.FileDone}
	if msg, ok := m.listenForEvent()().(eventMsg); !ok || msg.Path != "a.hr" {
		t.Fatalf("expected event for a.hr, got %#v", msg)
	}
	close(events)
	if _, ok := m.listenForEvent()().(doneMsg); !ok {
		t.Fatalf("expected doneMsg after close")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.hr", 20, "short.hr"},
		{"src/very/long/path.hr", 10, "src/..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := truncate(tt.in, tt.width); got != tt.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

package ui

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"highrust/internal/driver"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

type outcome struct {
	results []*driver.Result
	err     error
}

// RunFiles transpiles jobs while rendering progress on out. Any observer
// already set in opts still receives every event.
func RunFiles(ctx context.Context, title string, jobs []driver.Job, opts driver.Options, out io.Writer) ([]*driver.Result, error) {
	events := make(chan driver.FileEvent, 256)
	done := make(chan outcome, 1)

	next := opts.Observer
	opts.Observer = func(ev driver.FileEvent) {
		if next != nil {
			next(ev)
		}
		events <- ev
	}

	files := make([]string, len(jobs))
	for i, j := range jobs {
		files[i] = j.Input
	}

	go func() {
		results, err := driver.TranspileFiles(ctx, jobs, opts)
		close(events)
		done <- outcome{results: results, err: err}
	}()

	program := tea.NewProgram(NewProgressModel(title, files, events),
		tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// the view may quit early; workers must never block on a full channel
	go func() {
		for range events {
		}
	}()
	res := <-done
	if res.err != nil {
		return res.results, res.err
	}
	if uiErr != nil && ctx.Err() == nil {
		return res.results, uiErr
	}
	return res.results, nil
}

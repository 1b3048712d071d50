package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"highrust/internal/driver"
	"highrust/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <input> [output]",
	Short: "Re-transpile sources whenever they change",
	Long: `Watch a HighRust file or a directory of sources. A file is written to
output (default: next to the input); a directory is built into the
configured output directory. Runs until interrupted.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before re-transpiling")
	watchCmd.Flags().Bool("poll", false, "poll the file system instead of using native notifications")
}

func runWatch(cmd *cobra.Command, args []string) error {
	input, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	info, err := os.Stat(input)
	if err != nil {
		return err
	}
	startDir := input
	if !info.IsDir() {
		startDir = filepath.Dir(input)
	}
	s, err := newSession(cmd, startDir)
	if err != nil {
		return err
	}
	if info.IsDir() {
		if s.cfg.Root == "" {
			s.cfg.Root = input
		}
		if len(args) == 2 {
			s.cfg.OutDir, _ = filepath.Abs(args[1])
		}
	}

	// jobFor maps a changed file to its job, or false when it is not watched.
	jobFor := func(path string) (driver.Job, bool) {
		if !info.IsDir() {
			if path != input {
				return driver.Job{}, false
			}
			out := outputPath(args[0])
			if len(args) == 2 {
				out = args[1]
			}
			return driver.Job{Input: path, Output: out}, true
		}
		if !strings.HasSuffix(path, s.cfg.Extension) || s.underOutDir(path) {
			return driver.Job{}, false
		}
		return driver.Job{Input: path, Output: s.cfg.OutputPath(path)}, true
	}

	run := func(ctx context.Context, paths []string) {
		var jobs []driver.Job
		for _, p := range paths {
			if job, ok := jobFor(p); ok {
				jobs = append(jobs, job)
			}
		}
		if len(jobs) == 0 {
			return
		}
		started := time.Now()
		results, err := driver.TranspileFiles(ctx, jobs, s.opts)
		if err != nil {
			return
		}
		_ = s.report(results...)
		s.note("[%s] transpiled %d file(s) in %s", time.Now().Format("15:04:05"), len(jobs), time.Since(started).Round(time.Millisecond))
	}

	ctx := cmd.Context()
	initial := []string{input}
	if info.IsDir() {
		if initial, err = driver.ListSources(input, s.cfg.Extension, s.outDir()); err != nil {
			return err
		}
	}
	run(ctx, initial)

	debounce, _ := cmd.Flags().GetDuration("debounce")
	poll, _ := cmd.Flags().GetBool("poll")
	w := watch.New(func(paths []string) { run(ctx, paths) }, watch.Options{
		Debounce:  debounce,
		ForcePoll: poll,
		Match: func(path string) bool {
			_, ok := jobFor(path)
			return ok
		},
	})
	defer w.Close()
	if err := w.Add(input); err != nil {
		return fmt.Errorf("failed to watch %s: %w", args[0], err)
	}
	s.note("watching %s (Ctrl-C to stop)", args[0])
	return w.Run(ctx)
}

func (s *session) outDir() string {
	out := s.cfg.OutDir
	if !filepath.IsAbs(out) && s.cfg.Root != "" {
		out = filepath.Join(s.cfg.Root, out)
	}
	abs, err := filepath.Abs(out)
	if err != nil {
		return out
	}
	return abs
}

func (s *session) underOutDir(path string) bool {
	rel, err := filepath.Rel(s.outDir(), path)
	return err == nil && !strings.HasPrefix(rel, "..")
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"highrust/internal/driver"
	"highrust/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Transpile every HighRust source of a project",
	Long: `Transpile every source below dir (default: the project root or the
current directory) into the configured output directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	s, err := newSession(cmd, dir)
	if err != nil {
		return err
	}
	if len(args) == 0 && s.cfg.Root != "" {
		dir = s.cfg.Root
	}
	outDir := s.outDir()
	files, err := driver.ListSources(dir, s.cfg.Extension, outDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		s.note("no %s files in %s", s.cfg.Extension, dir)
		return nil
	}
	jobs := make([]driver.Job, len(files))
	for i, f := range files {
		jobs[i] = driver.Job{Input: f, Output: s.cfg.OutputPath(f)}
	}

	useUI, err := progressEnabled(cmd)
	if err != nil {
		return err
	}
	var results []*driver.Result
	if useUI && !s.quiet {
		results, err = ui.RunFiles(cmd.Context(), "transpiling", jobs, s.opts, os.Stderr)
	} else {
		results, err = driver.TranspileFiles(cmd.Context(), jobs, s.opts)
	}
	if err != nil {
		return err
	}

	written, cached := 0, 0
	for _, r := range results {
		if r.Output != "" {
			written++
		}
		if r.Cached {
			cached++
		}
	}
	reportErr := s.report(results...)
	s.note("built %d/%d file(s) into %s (%d cached)", written, len(jobs), outDir, cached)
	return reportErr
}

func progressEnabled(cmd *cobra.Command) (bool, error) {
	mode, _ := cmd.Root().PersistentFlags().GetString("ui")
	switch strings.ToLower(mode) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		format, _ := cmd.Root().PersistentFlags().GetString("format")
		return format == "pretty" && ui.IsTerminal(os.Stderr), nil
	}
	return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", mode)
}

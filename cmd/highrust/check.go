package main

import (
	"os"

	"github.com/spf13/cobra"

	"highrust/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check <path>...",
	Short: "Analyze HighRust sources without writing Rust",
	Long:  `Run every phase over the given files or directories and report diagnostics. Nothing is written.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, ".")
	if err != nil {
		return err
	}
	var jobs []driver.Job
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil || !st.IsDir() {
			jobs = append(jobs, driver.Job{Input: arg})
			continue
		}
		files, err := driver.ListSources(arg, s.cfg.Extension, "")
		if err != nil {
			return err
		}
		for _, f := range files {
			jobs = append(jobs, driver.Job{Input: f})
		}
	}
	results, err := driver.TranspileFiles(cmd.Context(), jobs, s.opts)
	if err != nil {
		return err
	}
	if err := s.report(results...); err != nil {
		return err
	}
	s.note("checked %d file(s)", len(jobs))
	return nil
}

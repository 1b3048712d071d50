package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"highrust/internal/prof"
)

var stopProfiling = func() error { return nil }

// setupProfiling starts the profilers named by the persistent flags.
func setupProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var cfg prof.Config
	var err error
	if cfg.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if cfg.Mem, err = flags.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if cfg.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !cfg.Enabled() {
		return nil
	}
	stop, err := prof.Start(cfg)
	if err != nil {
		return err
	}
	stopProfiling = stop
	return nil
}

func closeProfiling() {
	if err := stopProfiling(); err != nil {
		fmt.Fprintf(os.Stderr, "profile: %v\n", err)
	}
}

func preRun(cmd *cobra.Command, args []string) error {
	if err := setupProfiling(cmd); err != nil {
		return err
	}
	return setupTracing(cmd, args)
}

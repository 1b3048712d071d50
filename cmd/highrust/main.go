package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"highrust/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "highrust",
	Short: "HighRust to Rust transpiler",
	Long: `highrust translates HighRust sources into Rust. Mutability markers,
borrows and clones are inferred per function.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: preRun,
}

// exitError ends the process with code after diagnostics were printed.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(transpileCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress informational diagnostics and summaries")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics kept per function (0 = unlimited)")
	flags.String("format", "pretty", "diagnostic format (pretty|short|json|sarif)")
	flags.Int("jobs", 0, "parallel workers (0 = GOMAXPROCS)")
	flags.Bool("no-cache", false, "disable the transpile cache")
	flags.Bool("timings", false, "print phase timings")
	flags.String("config", "", "path to highrust.toml (default: search upward)")
	flags.String("ui", "auto", "progress UI for build (auto|on|off)")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|run|pass|func)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring)")
	flags.Int("trace-ring-size", 4096, "events kept in ring mode")
	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	closeTracing()
	closeProfiling()

	if err == nil {
		return
	}
	var ee exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	fmt.Fprintln(os.Stderr, "highrust:", err)
	os.Exit(2)
}

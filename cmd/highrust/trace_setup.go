package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"highrust/internal/project"
	"highrust/internal/trace"
)

var activeTracer trace.Tracer = trace.Nop

// setupTracing reads the trace flags and attaches a tracer to the command
// context. HIGHRUST_TRACE names the output when --trace is absent; an
// output without an explicit level traces passes.
func setupTracing(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()

	output, err := flags.GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	if output == "" {
		envCfg := project.Default()
		envCfg.ApplyEnv()
		output = envCfg.Trace
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return err
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return err
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	if level == trace.LevelOff && !flags.Changed("trace-level") && (output != "" || mode == trace.ModeRing) {
		level = trace.LevelPass
	}
	if level == trace.LevelOff {
		return nil
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	activeTracer = tracer
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	return nil
}

func closeTracing() {
	if err := activeTracer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "trace: flush error: %v\n", err)
	}
	if err := activeTracer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "trace: close error: %v\n", err)
	}
}

// dumpTrace replays a ring tracer, used after an internal error.
func dumpTrace(w io.Writer) {
	d, ok := activeTracer.(trace.Dumper)
	if !ok {
		return
	}
	fmt.Fprintln(w, "recent trace events:")
	if err := d.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}

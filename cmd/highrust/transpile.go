package main

import (
	"github.com/spf13/cobra"

	"highrust/internal/driver"
)

var transpileCmd = &cobra.Command{
	Use:   "transpile <input.hr> [output.rs]",
	Short: "Transpile one HighRust file into Rust",
	Long: `Transpile one HighRust file. Without an output path the Rust file is
written next to the input; "-" prints it to stdout instead.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTranspile,
}

func runTranspile(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, ".")
	if err != nil {
		return err
	}
	input := args[0]
	output := outputPath(input)
	if len(args) == 2 {
		output = args[1]
	}
	toStdout := output == "-"
	if toStdout {
		output = ""
	}

	res, err := driver.TranspileFile(cmd.Context(), input, output, s.opts)
	if err != nil {
		return err
	}
	if toStdout && !res.Failed() {
		_, _ = s.stdout().Write([]byte(res.Rust))
	} else if res.Output != "" {
		s.note("wrote %s", res.Output)
	}
	return s.report(res)
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"highrust/internal/driver"
	"highrust/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.hr>",
	Short: "Apply suggested fixes to a source file",
	Long:  "Analyze a file, apply the fixes attached to its diagnostics and report what changed.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every non-conflicting fix")
	fixCmd.Flags().String("code", "", "apply only fixes of diagnostics with this code (e.g. OWN5001)")
	fixCmd.Flags().Bool("dry-run", false, "print the fixed source instead of writing it")
}

func runFix(cmd *cobra.Command, args []string) error {
	applyAll, _ := cmd.Flags().GetBool("all")
	code, _ := cmd.Flags().GetString("code")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if applyAll && code != "" {
		return fmt.Errorf("--all and --code are mutually exclusive")
	}
	opts := fix.ApplyOptions{Mode: fix.ApplyModeOnce}
	switch {
	case applyAll:
		opts.Mode = fix.ApplyModeAll
	case code != "":
		opts = fix.ApplyOptions{Mode: fix.ApplyModeCode, TargetCode: code}
	}

	s, err := newSession(cmd, ".")
	if err != nil {
		return err
	}
	s.opts.Cache = nil
	res, err := driver.TranspileFile(cmd.Context(), args[0], "", s.opts)
	if err != nil {
		return err
	}

	applied, err := fix.Apply(res.Files, res.Bag.Items(), opts)
	if errors.Is(err, fix.ErrNoFixes) {
		s.note("no applicable fixes in %s", args[0])
		for _, sk := range applied.Skipped {
			s.note("  skipped: %s", sk.Reason)
		}
		return s.report(res)
	}
	if err != nil {
		return err
	}

	if dryRun {
		for _, ch := range applied.FileChanges {
			_, _ = s.stdout().Write(ch.Content)
		}
	} else if err := fix.Write(res.Files, applied.FileChanges); err != nil {
		return err
	}
	for _, a := range applied.Applied {
		start, _ := res.Files.Resolve(a.Primary)
		s.note("fixed %s %s:%d:%d: %s", a.Code.ID(), args[0], start.Line, start.Col, a.Title)
	}
	for _, sk := range applied.Skipped {
		s.note("skipped %s: %s", sk.Title, sk.Reason)
	}
	if dryRun {
		return nil
	}
	s.note("%d fix(es) applied; run check again to see remaining diagnostics", len(applied.Applied))
	return nil
}

package golden

import (
	"context"
	"fmt"
	"strings"

	"highrust/internal/diag"
	"highrust/internal/driver"
	"highrust/internal/project"
)

// SourceName is the file name diagnostics of every case refer to.
const SourceName = "case.hr"

type Outcome struct {
	Rust        string
	Diagnostics string
}

// Mismatch is one failed expectation.
type Mismatch struct {
	Expect Expectation
	Got    string
	Reason string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("line %d: %s: %s\n--- want ---\n%s\n--- got ---\n%s",
		m.Expect.Line, m.Expect.Kind, m.Reason, m.Expect.Content, m.Got)
}

// DriverOptions applies the case options on top of base.
func (c Case) DriverOptions(base driver.Options) driver.Options {
	opts := base
	opts.Header = c.Options.Header
	opts.Cache = nil
	if c.Options.MethodMutation != nil {
		opts.MethodMutation = *c.Options.MethodMutation
	}
	if len(c.Options.NonConsuming) > 0 {
		opts.NonConsuming = project.Set(c.Options.NonConsuming)
	}
	if len(c.Options.Duplicable) > 0 {
		opts.Duplicable = project.Set(c.Options.Duplicable)
	}
	if c.Options.Indent > 0 {
		opts.Indent = c.Options.Indent
	}
	return opts
}

// Run transpiles the case source.
func (c Case) Run(ctx context.Context, base driver.Options) (Outcome, error) {
	res, err := driver.TranspileSource(ctx, SourceName, []byte(c.Source), c.DriverOptions(base))
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Rust:        res.Rust,
		Diagnostics: diag.FormatShort(res.Bag.Items(), res.Files, c.Options.Notes),
	}, nil
}

// Check compares out with every expectation of the case.
func (c Case) Check(out Outcome) []Mismatch {
	var bad []Mismatch
	for _, e := range c.Expect {
		switch e.Kind {
		case FenceRust:
			if strings.TrimRight(out.Rust, "\n") != e.Content {
				bad = append(bad, Mismatch{Expect: e, Got: out.Rust, Reason: "output differs"})
			}
		case FenceRustLines:
			if missing, ok := linesInOrder(out.Rust, e.Content); !ok {
				bad = append(bad, Mismatch{Expect: e, Got: out.Rust, Reason: fmt.Sprintf("line %q not found in order", missing)})
			}
		case FenceDiagnostics:
			if out.Diagnostics != e.Content {
				bad = append(bad, Mismatch{Expect: e, Got: out.Diagnostics, Reason: "diagnostics differ"})
			}
		}
	}
	return bad
}

// linesInOrder reports whether every line of want appears in got as a
// whole line, in the same order. It returns the first line not found.
func linesInOrder(got, want string) (string, bool) {
	lines := strings.Split(got, "\n")
	pos := 0
	for _, w := range strings.Split(want, "\n") {
		found := false
		for pos < len(lines) {
			pos++
			if lines[pos-1] == w {
				found = true
				break
			}
		}
		if !found {
			return w, false
		}
	}
	return "", true
}

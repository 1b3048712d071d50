package fuzztests

import (
	"context"
	"testing"
	"time"

	"highrust/internal/diag"
	"highrust/internal/driver"
	"highrust/internal/parser"
	"highrust/internal/source"
	"highrust/internal/testkit"
)

// parseTimeout bounds one input; longer runs indicate a recovery loop.
const parseTimeout = 5 * time.Second

func FuzzParserSpans(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.hr", input))
		bag := diag.NewBag(128)
		res := parser.ParseFile(file, parser.Options{
			Reporter:  diag.BagReporter{Bag: bag},
			MaxErrors: 128,
		})
		if err := testkit.CheckSpanInvariants(res, file); err != nil {
			t.Fatalf("span invariants: %v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}

// FuzzTranspileNoHang runs the whole pipeline under a timeout. Failed
// results must never carry Rust text.
func FuzzTranspileNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("fn f() { { { { } } } }"))
	f.Add([]byte("fn f(x) { match x { } }"))
	f.Add([]byte("fn f() { let x = 1\nlet y = 2; }"))
	f.Add([]byte("fn fn fn"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		type outcome struct {
			res *driver.Result
			err error
		}
		done := make(chan outcome, 1)
		go func() {
			res, err := driver.TranspileSource(ctx, "fuzz.hr", input, driver.DefaultOptions())
			done <- outcome{res, err}
		}()

		select {
		case out := <-done:
			if out.err != nil {
				t.Fatalf("pipeline hang detected: %v\ninput (%d bytes): %q", out.err, len(input), truncateForLog(input, 200))
			}
			if out.res.Failed() && out.res.Rust != "" {
				t.Fatalf("failed result carries rust output\ninput: %q", truncateForLog(input, 200))
			}
			if out.res.Bag.HasCode(diag.FatalInternal) {
				t.Fatalf("internal error:\n%s\ninput: %q",
					diag.FormatShort(out.res.Bag.Items(), out.res.Files, true), truncateForLog(input, 200))
			}
		case <-time.After(parseTimeout + time.Second):
			t.Fatalf("pipeline hang detected\ninput (%d bytes): %q", len(input), truncateForLog(input, 200))
		}
	})
}

func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(append([]byte(nil), input[:maxLen]...), "..."...)
}

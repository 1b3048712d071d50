package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"highrust/internal/parser"
	"highrust/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parse:
// every function span is non-empty, lies within the file, contains its name
// and starts after the previous function ends; data definitions contain
// their names; every expression span is well-formed and within the file.
func CheckSpanInvariants(res parser.Result, sf *source.File) error {
	if res.Builder == nil || res.File == nil || sf == nil {
		return fmt.Errorf("nil parse result or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	within := func(sp source.Span) error {
		if sp.File != sf.ID {
			return fmt.Errorf("span %v points to file %d, want %d", sp, sp.File, sf.ID)
		}
		if sp.End < sp.Start || sp.End > lenContent {
			return fmt.Errorf("span %v outside content of %d bytes", sp, lenContent)
		}
		return nil
	}

	var prevEnd uint32
	for i, id := range res.File.Funcs {
		fn := res.Builder.Func(id)
		if fn == nil {
			return fmt.Errorf("func #%d: id %d not found", i, id)
		}
		if err := within(fn.Span); err != nil {
			return fmt.Errorf("func %q: %w", fn.Name, err)
		}
		if fn.Span.Empty() {
			return fmt.Errorf("func %q: empty span", fn.Name)
		}
		if fn.Span.Start < prevEnd {
			return fmt.Errorf("func %q: span %v overlaps previous function ending at %d", fn.Name, fn.Span, prevEnd)
		}
		if fn.NameSpan.Start < fn.Span.Start || fn.NameSpan.End > fn.Span.End {
			return fmt.Errorf("func %q: name span %v outside %v", fn.Name, fn.NameSpan, fn.Span)
		}
		prevEnd = fn.Span.End
	}

	for _, d := range res.File.Data {
		if err := within(d.Span); err != nil {
			return fmt.Errorf("%s %q: %w", d.Kind, d.Name, err)
		}
		if d.NameSpan.Start < d.Span.Start || d.NameSpan.End > d.Span.End {
			return fmt.Errorf("%s %q: name span %v outside %v", d.Kind, d.Name, d.NameSpan, d.Span)
		}
	}

	for i, expr := range res.Builder.Exprs.Arena.Slice() {
		if err := within(expr.Span); err != nil {
			return fmt.Errorf("expr #%d (%s): %w", i+1, expr.Kind, err)
		}
	}
	return nil
}

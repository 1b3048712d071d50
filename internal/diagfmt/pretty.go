package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"highrust/internal/diag"
	"highrust/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
	note, fix       *color.Color
	added, removed  *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:     mk(color.FgRed, color.Bold),
		warn:    mk(color.FgYellow, color.Bold),
		info:    mk(color.FgCyan, color.Bold),
		code:    mk(color.Bold),
		path:    mk(color.FgWhite, color.Bold),
		gutter:  mk(color.FgBlue),
		caret:   mk(color.FgRed, color.Bold),
		note:    mk(color.FgCyan),
		fix:     mk(color.FgGreen),
		added:   mk(color.FgGreen),
		removed: mk(color.FgRed),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

type printer struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
	c    palette
	tab  string
}

// Pretty writes every diagnostic of bag in a compiler-style layout:
//
//	src/shapes.hr:4:13: ERROR OWN5001: 'c' is used after a move ...
//	   4 | let b = c;
//	     |         ^
//	  note: src/shapes.hr:3:13: value moved here
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	tab := opts.TabWidth
	if tab <= 0 {
		tab = 4
	}
	p := printer{w: w, fs: fs, opts: opts, c: newPalette(opts.Color), tab: strings.Repeat(" ", tab)}
	items := bag.Items()
	for i := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		p.diagnostic(&items[i])
	}
}

func (p *printer) diagnostic(d *diag.Diagnostic) {
	header := p.c.severity(d.Severity).Sprint(d.Severity.String()) + " " +
		p.c.code.Sprint(d.Code.ID()) + ": " + d.Message
	hasLoc := located(d, d.Primary, p.fs)
	if hasLoc {
		header = p.c.path.Sprint(p.location(d.Primary)) + ": " + header
	}
	fmt.Fprintln(p.w, header)
	if hasLoc {
		p.snippet(d.Primary)
	}

	if p.opts.ShowNotes {
		for _, n := range d.Notes {
			if located(d, n.Span, p.fs) {
				fmt.Fprintf(p.w, "  %s %s: %s\n", p.c.note.Sprint("note:"), p.location(n.Span), n.Msg)
				continue
			}
			fmt.Fprintf(p.w, "  %s %s\n", p.c.note.Sprint("note:"), n.Msg)
		}
	}
	if p.opts.ShowFixes {
		for i, f := range d.Fixes {
			p.fix(i+1, f)
		}
	}
}

func (p *printer) fix(n int, f diag.Fix) {
	fmt.Fprintf(p.w, "  %s %s\n", p.c.fix.Sprintf("fix #%d:", n), f.Title)
	for _, e := range f.Edits {
		if int(e.Span.File) < p.fs.Len() {
			fmt.Fprintf(p.w, "    apply=%q at %s\n", e.NewText, p.location(e.Span))
		}
	}
	if !p.opts.ShowPreview {
		return
	}
	preview, err := buildFixPreview(p.fs, f)
	if err != nil {
		return
	}
	fmt.Fprintln(p.w, "    preview:")
	for _, line := range preview.before {
		fmt.Fprintln(p.w, "      "+p.c.removed.Sprint("- "+p.expand(line)))
	}
	for _, line := range preview.after {
		fmt.Fprintln(p.w, "      "+p.c.added.Sprint("+ "+p.expand(line)))
	}
}

func (p *printer) location(sp source.Span) string {
	start, _ := p.fs.Resolve(sp)
	f := p.fs.Get(sp.File)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, p.opts.PathMode, p.opts.BaseDir), start.Line, start.Col)
}

func (p *printer) expand(s string) string {
	return strings.ReplaceAll(s, "\t", p.tab)
}

func (p *printer) clip(s string) string {
	if p.opts.Width > 0 && runewidth.StringWidth(s) > p.opts.Width {
		return runewidth.Truncate(s, p.opts.Width, "…")
	}
	return s
}

// snippet prints the primary line with Context lines around it and a caret
// run under the span.
func (p *printer) snippet(sp source.Span) {
	f := p.fs.Get(sp.File)
	start, end := p.fs.Resolve(sp)
	lines := uint32(len(f.LineIdx)) + 1
	if lines > 1 && f.GetLine(lines) == "" {
		lines--
	}

	ctx := uint32(p.opts.Context)
	from := uint32(1)
	if start.Line > ctx {
		from = start.Line - ctx
	}
	to := min(start.Line+ctx, max(lines, start.Line))
	gw := len(fmt.Sprint(to))
	blank := strings.Repeat(" ", gw)

	for ln := from; ln <= to; ln++ {
		raw := f.GetLine(ln)
		fmt.Fprintf(p.w, "%s %s\n", p.c.gutter.Sprintf("%*d |", gw, ln), p.clip(p.expand(raw)))
		if ln != start.Line {
			continue
		}
		col := min(int(start.Col)-1, len(raw))
		stop := len(raw)
		if end.Line == start.Line {
			stop = min(max(int(end.Col)-1, col), len(raw))
		}
		pad := runewidth.StringWidth(p.expand(raw[:col]))
		width := max(runewidth.StringWidth(p.expand(raw[col:stop])), 1)
		if p.opts.Width > 0 {
			if pad >= p.opts.Width {
				continue
			}
			width = min(width, p.opts.Width-pad)
		}
		fmt.Fprintf(p.w, "%s %s%s\n", p.c.gutter.Sprint(blank+" |"), strings.Repeat(" ", pad),
			p.c.caret.Sprint(strings.Repeat("^", width)))
	}
}

// Summary counts diagnostics by severity, for example "2 errors, 1 warning".
func Summary(bag *diag.Bag) string {
	var errs, warns, infos int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		default:
			infos++
		}
	}
	parts := make([]string, 0, 3)
	for _, c := range []struct {
		n    int
		noun string
	}{{errs, "error"}, {warns, "warning"}, {infos, "note"}} {
		if c.n == 0 {
			continue
		}
		s := fmt.Sprintf("%d %s", c.n, c.noun)
		if c.n != 1 {
			s += "s"
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "no diagnostics"
	}
	return strings.Join(parts, ", ")
}

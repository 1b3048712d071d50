package diagfmt

import (
	"encoding/json"
	"io"

	"highrust/internal/diag"
	"highrust/internal/source"
)

// LocationJSON is a byte range in a file, optionally with line/col.
type LocationJSON struct {
	File      string `json:"file,omitempty"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
}

type FixEditJSON struct {
	Location LocationJSON `json:"location"`
	NewText  string       `json:"new_text"`
	OldText  string       `json:"old_text,omitempty"`
}

type FixJSON struct {
	Title       string        `json:"title"`
	Edits       []FixEditJSON `json:"edits,omitempty"`
	BeforeLines []string      `json:"before_lines,omitempty"`
	AfterLines  []string      `json:"after_lines,omitempty"`
	BuildError  string        `json:"build_error,omitempty"`
}

type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
	Notes    []NoteJSON    `json:"notes,omitempty"`
	Fixes    []FixJSON     `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the root object of JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, opts JSONOpts) LocationJSON {
	f := fs.Get(span.File)
	loc := LocationJSON{
		File:      formatPath(f, opts.PathMode, opts.BaseDir),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if opts.IncludePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}
	return loc
}

// BuildDiagnosticsOutput assembles the JSON document without encoding it.
// Diagnostics without a source position have no location.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	diagnostics := make([]DiagnosticJSON, 0, n)

	for i := range n {
		d := &items[i]
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
		}
		if located(d, d.Primary, fs) {
			loc := makeLocation(d.Primary, fs, opts)
			dj.Location = &loc
		}

		if opts.IncludeNotes {
			for _, note := range d.Notes {
				nj := NoteJSON{Message: note.Msg}
				if located(d, note.Span, fs) {
					loc := makeLocation(note.Span, fs, opts)
					nj.Location = &loc
				}
				dj.Notes = append(dj.Notes, nj)
			}
		}

		if opts.IncludeFixes {
			for _, fix := range d.Fixes {
				dj.Fixes = append(dj.Fixes, buildFix(fix, fs, opts))
			}
		}
		diagnostics = append(diagnostics, dj)
	}

	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
	}
}

func buildFix(fix diag.Fix, fs *source.FileSet, opts JSONOpts) FixJSON {
	fj := FixJSON{Title: fix.Title}
	for _, e := range fix.Edits {
		if fs == nil || int(e.Span.File) >= fs.Len() {
			fj.BuildError = "edit targets an unknown file"
			continue
		}
		fj.Edits = append(fj.Edits, FixEditJSON{
			Location: makeLocation(e.Span, fs, opts),
			NewText:  e.NewText,
			OldText:  fs.Text(e.Span),
		})
	}
	if opts.IncludePreviews && fj.BuildError == "" {
		preview, err := buildFixPreview(fs, fix)
		if err != nil {
			fj.BuildError = err.Error()
		} else {
			fj.BeforeLines = preview.before
			fj.AfterLines = preview.after
		}
	}
	return fj
}

// JSON writes the diagnostics of bag as one indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}

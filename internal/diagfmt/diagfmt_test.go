package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"highrust/internal/diag"
	"highrust/internal/source"
)

const movedSrc = "fn f(c: Conn) {\n    let a = c;\n    let b = c;\n}\n"

// movedBag holds a use-after-move error on the second `c` with a note and
// a two-edit fix on the first one.
func movedBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("/home/user/proj/src/a.hr", []byte(movedSrc))
	bag := diag.NewBag(0)
	d := diag.NewError(diag.OwnDuplicationRequired, source.Span{File: id, Start: 43, End: 44}, "'c' is used after a move").
		WithNote(source.Span{File: id, Start: 28, End: 29}, "value moved here").
		WithFix("borrow the earlier use with ref()",
			diag.FixEdit{Span: source.Span{File: id, Start: 28, End: 28}, NewText: "ref("},
			diag.FixEdit{Span: source.Span{File: id, Start: 29, End: 29}, NewText: ")"},
		)
	bag.Add(d)
	return bag, fs
}

func TestPrettyFull(t *testing.T) {
	bag, fs := movedBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{
		PathMode:    PathModeRelative,
		BaseDir:     "/home/user/proj",
		ShowNotes:   true,
		ShowFixes:   true,
		ShowPreview: true,
	})
	want := "src/a.hr:3:13: ERROR OWN5001: 'c' is used after a move\n" +
		"3 |     let b = c;\n" +
		"  |             ^\n" +
		"  note: src/a.hr:2:13: value moved here\n" +
		"  fix #1: borrow the earlier use with ref()\n" +
		"    apply=\"ref(\" at src/a.hr:2:13\n" +
		"    apply=\")\" at src/a.hr:2:14\n" +
		"    preview:\n" +
		"      -     let a = c;\n" +
		"      +     let a = ref(c);\n"
	be.Equal(t, buf.String(), want)
}

func TestPrettyContextLines(t *testing.T) {
	bag, fs := movedBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1})
	want := "/home/user/proj/src/a.hr:3:13: ERROR OWN5001: 'c' is used after a move\n" +
		"2 |     let a = c;\n" +
		"3 |     let b = c;\n" +
		"  |             ^\n" +
		"4 | }\n"
	be.Equal(t, buf.String(), want)
}

func TestPathModes(t *testing.T) {
	bag, fs := movedBag(t)
	tests := []struct {
		name string
		mode PathMode
		base string
		want string
	}{
		{"absolute", PathModeAbsolute, "", "/home/user/proj/src/a.hr:3:13"},
		{"relative", PathModeRelative, "/home/user/proj", "src/a.hr:3:13"},
		{"basename", PathModeBasename, "", "a.hr:3:13"},
		{"auto without base", PathModeAuto, "", "/home/user/proj/src/a.hr:3:13"},
		{"auto with base", PathModeAuto, "/home/user", "proj/src/a.hr:3:13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, BaseDir: tt.base})
			if !strings.HasPrefix(buf.String(), tt.want+": ERROR") {
				t.Fatalf("expected prefix %q, got:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestPrettyTabsAndWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	src := "\tlet x = y;\nlet 名前 = z;\n"
	id := fs.AddVirtual("t.hr", []byte(src))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SemaNameError, source.Span{File: id, Start: 9, End: 10}, "unknown name 'y'"))
	// `z` follows two double-width runes of three bytes each.
	bag.Add(diag.NewError(diag.SemaNameError, source.Span{File: id, Start: 25, End: 26}, "unknown name 'z'"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	be.Equal(t, lines[1], "1 |     let x = y;")
	be.Equal(t, lines[2], "  | "+strings.Repeat(" ", 12)+"^")
	be.Equal(t, lines[3], "")
	be.Equal(t, lines[5], "2 | let 名前 = z;")
	be.Equal(t, lines[6], "  | "+strings.Repeat(" ", 11)+"^")
}

func TestPrettyWidth(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("w.hr", []byte("let value = compute(first, second);\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SemaNameError, source.Span{File: id, Start: 12, End: 19}, "unknown function"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Width: 16})
	lines := strings.Split(buf.String(), "\n")
	be.Equal(t, lines[1], "1 | let value = com…")
	be.Equal(t, lines[2], "  | "+strings.Repeat(" ", 12)+"^^^^")
}

func TestPrettyWithoutLocation(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load missing.hr: no such file").
		WithNote(source.Span{}, "check the input path"))

	var buf bytes.Buffer
	Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{ShowNotes: true})
	be.Equal(t, buf.String(), "ERROR IO6001: failed to load missing.hr: no such file\n  note: check the input path\n")
}

func TestPrettyColor(t *testing.T) {
	bag, fs := movedBag(t)
	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	be.True(t, !strings.Contains(plain.String(), "\x1b["))
	be.True(t, strings.Contains(colored.String(), "\x1b["))
}

func TestJSON(t *testing.T) {
	bag, fs := movedBag(t)
	bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{}, "failed to write out/a.rs"))

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeRelative,
		BaseDir:          "/home/user/proj",
		IncludeNotes:     true,
		IncludeFixes:     true,
		IncludePreviews:  true,
	})
	be.Err(t, err, nil)

	var out DiagnosticsOutput
	be.Err(t, json.Unmarshal(buf.Bytes(), &out), nil)
	be.Equal(t, out.Count, 2)

	first := out.Diagnostics[0]
	be.Equal(t, first.Severity, "ERROR")
	be.Equal(t, first.Code, "OWN5001")
	be.Equal(t, *first.Location, LocationJSON{
		File: "src/a.hr", StartByte: 43, EndByte: 44,
		StartLine: 3, StartCol: 13, EndLine: 3, EndCol: 14,
	})
	be.Equal(t, len(first.Notes), 1)
	be.Equal(t, first.Notes[0].Location.StartLine, uint32(2))
	be.Equal(t, len(first.Fixes), 1)
	be.Equal(t, len(first.Fixes[0].Edits), 2)
	be.Equal(t, first.Fixes[0].AfterLines, []string{"    let a = ref(c);"})

	second := out.Diagnostics[1]
	be.Equal(t, second.Code, "IO6002")
	be.True(t, second.Location == nil)
}

func TestJSONMax(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.hr", []byte("fn f() {}\n"))
	bag := diag.NewBag(0)
	for i := range 5 {
		bag.Add(diag.New(diag.SevWarning, diag.LowUnreachableArm, source.Span{File: id, Start: uint32(i), End: uint32(i + 1)}, "w"))
	}
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 3})
	be.Equal(t, out.Count, 3)
	be.Equal(t, out.Diagnostics[0].Severity, "WARNING")
	be.True(t, out.Diagnostics[0].Notes == nil)
}

func TestSarif(t *testing.T) {
	bag, fs := movedBag(t)
	bag.Add(diag.New(diag.SevInfo, diag.OwnDuplicationInserted, source.Span{File: 0, Start: 28, End: 29}, "cloned"))
	bag.Add(diag.NewError(diag.OwnDuplicationRequired, source.Span{File: 0, Start: 28, End: 29}, "again"))

	var buf bytes.Buffer
	err := Sarif(&buf, bag, fs, SarifRunMeta{
		ToolName:       "highrust",
		ToolVersion:    "0.1.0",
		InvocationArgs: []string{"check", "src"},
		BaseDir:        "/home/user/proj",
	})
	be.Err(t, err, nil)

	var log sarifLog
	be.Err(t, json.Unmarshal(buf.Bytes(), &log), nil)
	be.Equal(t, log.Version, "2.1.0")
	run := log.Runs[0]
	be.Equal(t, run.Tool.Driver.Name, "highrust")
	be.Equal(t, len(run.Tool.Driver.Rules), 2)
	be.Equal(t, len(run.Results), 3)
	be.Equal(t, run.Results[0].Level, "error")
	be.Equal(t, run.Results[1].Level, "note")
	be.Equal(t, run.Results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI, "src/a.hr")
	be.Equal(t, run.Results[0].Locations[0].PhysicalLocation.Region.StartLine, uint32(3))
	be.Equal(t, *run.Results[0].RelatedLocations[0].Message, sarifMessage{Text: "value moved here"})
	be.Equal(t, run.Invocations[0].ExecutionSuccessful, false)
}

func TestSummary(t *testing.T) {
	bag := diag.NewBag(0)
	be.Equal(t, Summary(bag), "no diagnostics")
	bag.Add(diag.NewError(diag.SemaNameError, source.Span{}, "a"))
	bag.Add(diag.NewError(diag.SemaNameError, source.Span{}, "b"))
	bag.Add(diag.New(diag.SevWarning, diag.LowUnreachableArm, source.Span{}, "c"))
	be.Equal(t, Summary(bag), "2 errors, 1 warning")
}

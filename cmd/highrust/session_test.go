package main

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"highrust/internal/diag"
	"highrust/internal/driver"
	"highrust/internal/source"
)

func resultWith(path, content string, diags ...diag.Diagnostic) *driver.Result {
	fs := source.NewFileSet()
	fs.AddVirtual(path, []byte(content))
	bag := diag.NewBag(0)
	for _, d := range diags {
		bag.Add(d)
	}
	return &driver.Result{Name: path, Files: fs, Bag: bag}
}

func TestMergeRemapsFiles(t *testing.T) {
	a := resultWith("a.hr", "fn a() { x }\n",
		diag.NewError(diag.SemaNameError, source.Span{File: 0, Start: 9, End: 10}, "use of undeclared name 'x'"))
	b := resultWith("b.hr", "fn b() {\n  y\n}\n",
		diag.NewError(diag.SemaNameError, source.Span{File: 0, Start: 11, End: 12}, "use of undeclared name 'y'").
			WithNote(source.Span{File: 0, Start: 3, End: 4}, "in this function"))
	missing := &driver.Result{Name: "c.hr", Files: source.NewFileSet(), Bag: diag.NewBag(0)}
	missing.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load c.hr"))

	bag, fs := merge([]*driver.Result{a, nil, b, missing})
	be.Equal(t, fs.Len(), 2)
	be.Equal(t, bag.Len(), 3)

	got := diag.FormatShort(bag.Items(), fs, true)
	want := strings.Join([]string{
		"error SEM3001 a.hr:1:10 use of undeclared name 'x'",
		"note SEM3001 b.hr:1:4 in this function",
		"error SEM3001 b.hr:2:3 use of undeclared name 'y'",
	}, "\n")
	be.Equal(t, got, want)
	be.Equal(t, bag.Items()[2].Primary.File, nowhere)
}

func TestWithoutInfo(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevInfo, diag.OwnDuplicationInserted, source.Span{}, "cloned"))
	bag.Add(diag.New(diag.SevWarning, diag.LowUnreachableArm, source.Span{}, "unreachable"))
	bag.Add(diag.NewError(diag.SemaNameError, source.Span{}, "missing"))

	out := withoutInfo(bag)
	be.Equal(t, out.Len(), 2)
	be.True(t, !out.HasCode(diag.OwnDuplicationInserted))
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"main.hr", "main.rs"},
		{"src/lib.hr", "src/lib.rs"},
		{"noext", "noext.rs"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			be.Equal(t, outputPath(tt.in), tt.want)
		})
	}
}

func TestExitError(t *testing.T) {
	be.Equal(t, exitError{code: 1}.Error(), "exit status 1")
}

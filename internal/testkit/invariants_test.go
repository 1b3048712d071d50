package testkit

import (
	"testing"

	"highrust/internal/ast"
	"highrust/internal/diag"
	"highrust/internal/parser"
	"highrust/internal/source"
)

func parse(t *testing.T, src string) (parser.Result, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("k.hr", []byte(src)))
	bag := diag.NewBag(0)
	return parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}}), file
}

func TestCheckSpanInvariants(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"two funcs", "fn a() { 1 }\nfn b(x) { a() + x }\n"},
		{"broken", "fn a( { let = ; }\nlet\nfn b() { match x { 0 => } }"},
		{"data", "struct P { x: i32 }\nenum E { A, B(P) }\nfn f(p: P) { }\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, file := parse(t, tt.src)
			if err := CheckSpanInvariants(res, file); err != nil {
				t.Fatalf("invariants: %v", err)
			}
		})
	}
}

func TestCheckSpanInvariantsReportsBadSpans(t *testing.T) {
	res, file := parse(t, "fn a() { 1 }\n")
	res.Builder.Func(res.File.Funcs[0]).Span.End = 1 << 20
	if err := CheckSpanInvariants(res, file); err == nil {
		t.Fatalf("expected out-of-bounds error")
	}
	data, file := parse(t, "struct P { x: i32 }\n")
	data.File.Data[0].NameSpan.End = 1 << 10
	if err := CheckSpanInvariants(data, file); err == nil {
		t.Fatalf("expected name span error")
	}
	if err := CheckSpanInvariants(parser.Result{Builder: ast.NewBuilder(ast.Hints{})}, file); err == nil {
		t.Fatalf("expected nil file error")
	}
}

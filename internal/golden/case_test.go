package golden

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestExtract(t *testing.T) {
	doc := "# Title\n\nSome prose.\n\n" +
		"## Case: first\n\n```highrust\nfn f() {}\n```\n\n```options\nnotes = true\nduplicable = [\"Config\"]\n```\n\n" +
		"```rust\nfn f() {}\n```\n\n```\nignored block\n```\n\n" +
		"### Case: second\n\n```highrust\nfn g() {}\n```\n\n```rust-lines\nfn g() {}\n```\n\n```diagnostics\n```\n"

	cases, err := Extract([]byte(doc))
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	first := cases[0]
	be.Equal(t, first.Name, "first")
	be.Equal(t, first.Line, 5)
	be.Equal(t, first.Source, "fn f() {}\n")
	be.True(t, first.Options.Notes)
	be.Equal(t, first.Options.Duplicable, []string{"Config"})
	be.Equal(t, len(first.Expect), 1)
	be.Equal(t, first.Expect[0], Expectation{Kind: FenceRust, Content: "fn f() {}", Line: 17})

	second := cases[1]
	be.Equal(t, second.Name, "second")
	be.Equal(t, len(second.Expect), 2)
	be.Equal(t, second.Expect[0].Kind, FenceRustLines)
	be.Equal(t, second.Expect[1].Kind, FenceDiagnostics)
	be.Equal(t, second.Expect[1].Content, "")
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"fence outside case", "```rust\nx\n```\n", "outside of a case"},
		{"unknown fence", "## Case: a\n\n```python\nx\n```\n", "unknown fence language"},
		{"two sources", "## Case: a\n\n```highrust\nfn f() {}\n```\n\n```highrust\nfn g() {}\n```\n", "several source fences"},
		{"no source", "## Case: a\n\n```rust\nx\n```\n", "has no source fence"},
		{"no expectation", "## Case: a\n\n```highrust\nfn f() {}\n```\n", "has no expectations"},
		{"unknown option", "## Case: a\n\n```highrust\nfn f() {}\n```\n\n```options\ncolour = true\n```\n", "unknown option"},
		{"bad toml", "## Case: a\n\n```highrust\nfn f() {}\n```\n\n```options\nnotes = \n```\n", "case \"a\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	c := Case{Expect: []Expectation{
		{Kind: FenceRust, Content: "fn f() {\n    g();\n}"},
		{Kind: FenceRustLines, Content: "fn f() {\n}"},
		{Kind: FenceDiagnostics, Content: ""},
	}}
	be.Equal(t, len(c.Check(Outcome{Rust: "fn f() {\n    g();\n}\n"})), 0)

	bad := c.Check(Outcome{Rust: "fn f() {}\n", Diagnostics: "error X"})
	be.Equal(t, len(bad), 3)
	be.True(t, strings.Contains(bad[1].Reason, `"fn f() {"`))
}

func TestLinesInOrder(t *testing.T) {
	got := "a\nb\nc\n"
	tests := []struct {
		want string
		ok   bool
	}{
		{"a\nc", true},
		{"b", true},
		{"c\na", false},
		{" b", false},
	}
	for _, tt := range tests {
		if _, ok := linesInOrder(got, tt.want); ok != tt.ok {
			t.Fatalf("linesInOrder(%q) = %v, want %v", tt.want, ok, tt.ok)
		}
	}
}

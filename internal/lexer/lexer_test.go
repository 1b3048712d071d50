package lexer_test

import (
	"testing"

	"highrust/internal/diag"
	"highrust/internal/lexer"
	"highrust/internal/source"
	"highrust/internal/token"
)

func lex(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.hr", []byte(src))
	bag := diag.NewBag(0)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx.All(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func TestLexerKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{
			name: "function header",
			src:  "fn f(a: i32) -> i32 {",
			want: []token.Kind{token.KwFn, token.Ident, token.LParen, token.Ident, token.Colon, token.Ident,
				token.RParen, token.Arrow, token.Ident, token.LBrace, token.EOF},
		},
		{
			name: "match arm",
			src:  `n if n < 10 => b(n), _ => "x"`,
			want: []token.Kind{token.Ident, token.KwIf, token.Ident, token.Lt, token.IntLit, token.FatArrow,
				token.Ident, token.LParen, token.Ident, token.RParen, token.Comma, token.Underscore,
				token.FatArrow, token.StringLit, token.EOF},
		},
		{
			name: "operators",
			src:  "a == b != c <= d >= e && f || !g += -= .. ? |x|",
			want: []token.Kind{token.Ident, token.EqEq, token.Ident, token.BangEq, token.Ident, token.LtEq,
				token.Ident, token.GtEq, token.Ident, token.AndAnd, token.Ident, token.OrOr, token.Bang,
				token.Ident, token.PlusAssign, token.MinusAssign, token.DotDot, token.Question,
				token.Pipe, token.Ident, token.Pipe, token.EOF},
		},
		{
			name: "comments are skipped",
			src:  "let // trailing\n /* block /* nested */ */ x",
			want: []token.Kind{token.KwLet, token.Ident, token.EOF},
		},
		{
			name: "numbers",
			src:  "1 2.5 1_000 3e10 0..9",
			want: []token.Kind{token.IntLit, token.FloatLit, token.IntLit, token.FloatLit,
				token.IntLit, token.DotDot, token.IntLit, token.EOF},
		},
		{
			name: "underscore identifiers",
			src:  "_ _x __y",
			want: []token.Kind{token.Underscore, token.Ident, token.Ident, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, bag := lex(t, tt.src)
			if bag.HasErrors() {
				t.Fatalf("unexpected diagnostics: %+v", bag.Items())
			}
			got := kinds(toks)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("token %d: got %v, want %v (all: %v)", i, got[i], tt.want[i], got)
				}
			}
		})
	}
}

func TestLexerStringKeepsEscapes(t *testing.T) {
	toks, bag := lex(t, `"a\n\"b\" \u{1F600}"`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if toks[0].Kind != token.StringLit || toks[0].Text != `"a\n\"b\" \u{1F600}"` {
		t.Fatalf("got %v %q", toks[0].Kind, toks[0].Text)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"unterminated string", `"abc`, diag.LexUnterminatedString},
		{"newline in string", "\"ab\ncd\"", diag.LexUnterminatedString},
		{"bad escape", `"\q"`, diag.LexBadEscape},
		{"unknown char", "let x = 1 # 2;", diag.LexUnknownChar},
		{"bad number", "12abc", diag.LexBadNumber},
		{"open comment", "/* never closed", diag.LexUnterminatedCmt},
		{"invalid utf8 in string", "\"a\xffb\"", diag.LexInvalidUTF8},
		{"truncated utf8 in string", "\"\xe2\x82\"", diag.LexInvalidUTF8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag := lex(t, tt.src)
			if !bag.HasCode(tt.code) {
				t.Fatalf("expected %s, got %+v", tt.code.ID(), bag.Items())
			}
		})
	}
}

func TestLexerNormalizesIdentifiers(t *testing.T) {
	// "é" precomposed vs. "e" + combining acute accent
	toks, _ := lex(t, "caf\u00e9 cafe\u0301")
	if toks[0].Kind != token.Ident || toks[1].Kind != token.Ident {
		t.Fatalf("expected two identifiers, got %v", kinds(toks))
	}
	if toks[0].Text != toks[1].Text {
		t.Errorf("identifiers not normalized: %q vs %q", toks[0].Text, toks[1].Text)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.hr", []byte("a b"))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	if lx.Peek().Text != "a" || lx.Next().Text != "a" || lx.Next().Text != "b" {
		t.Fatalf("peek/next sequence broken")
	}
	if lx.Next().Kind != token.EOF || lx.Next().Kind != token.EOF {
		t.Fatalf("EOF must be sticky")
	}
}

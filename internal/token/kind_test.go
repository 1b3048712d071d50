package token_test

import (
	"testing"

	"highrust/internal/token"
)

func TestKeywordsRoundTrip(t *testing.T) {
	for _, word := range []string{"fn", "let", "return", "if", "else", "while", "for", "in", "match", "struct", "enum", "true", "false"} {
		k, ok := token.LookupKeyword(word)
		if !ok {
			t.Fatalf("%q is not a keyword", word)
		}
		if k.String() != word {
			t.Errorf("%q.String() = %q", word, k.String())
		}
		if !(token.Token{Kind: k}).IsKeyword() {
			t.Errorf("%v should be a keyword", k)
		}
	}
	if _, ok := token.LookupKeyword("mut"); ok {
		t.Errorf("mut must not be a keyword of the sugar dialect")
	}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{token.IntLit, token.FloatLit, token.StringLit, token.KwTrue, token.KwFalse}
	for _, k := range lits {
		if !(token.Token{Kind: k}).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	for _, k := range []token.Kind{token.Ident, token.KwLet, token.Plus, token.LParen} {
		if (token.Token{Kind: k}).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

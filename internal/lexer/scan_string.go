package lexer

import (
	"unicode/utf8"

	"highrust/internal/diag"
	"highrust/internal/token"
)

// scanString reads a double-quoted literal. Text keeps the quotes and the
// escapes exactly as written; the accepted escapes are valid in Rust too.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '"':
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		case '\\':
			lx.scanEscape()
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		default:
			if b < utf8RuneSelf {
				lx.cursor.Bump()
				continue
			}
			m := lx.cursor.Mark()
			if r, sz := lx.peekRune(); r == utf8.RuneError && sz <= 1 {
				lx.cursor.Bump()
				lx.errLex(diag.LexInvalidUTF8, lx.cursor.SpanFrom(m), "invalid UTF-8 in string literal")
				continue
			}
			lx.bumpRune()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) scanEscape() {
	m := lx.cursor.Mark()
	lx.cursor.Bump()
	switch lx.cursor.Peek() {
	case 'n', 't', 'r', '0', '\\', '"', '\'':
		lx.cursor.Bump()
	case 'u':
		lx.cursor.Bump()
		if !lx.cursor.Eat('{') {
			lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(m), "expected '{' after \\u")
			return
		}
		digits := 0
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			digits++
		}
		if !lx.cursor.Eat('}') || digits == 0 || digits > 6 {
			lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(m), "malformed unicode escape")
		}
	default:
		lx.bumpRune()
		lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(m), "unknown escape sequence")
	}
}

package lexer

import "highrust/internal/diag"

// skipTrivia consumes whitespace, // line comments and nested /* */ comments.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); b {
		case ' ', '\t', '\n', '\r':
			lx.cursor.Bump()
		case '/':
			b0, b1, ok := lx.cursor.Peek2()
			if !ok || b0 != '/' || (b1 != '/' && b1 != '*') {
				return
			}
			if b1 == '/' {
				for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
					lx.cursor.Bump()
				}
				continue
			}
			lx.skipBlockComment()
		default:
			return
		}
	}
}

func (lx *Lexer) skipBlockComment() {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()
	depth := 1
	for !lx.cursor.EOF() {
		b0, b1, ok := lx.cursor.Peek2()
		switch {
		case ok && b0 == '/' && b1 == '*':
			depth++
			lx.cursor.Bump()
		case ok && b0 == '*' && b1 == '/':
			depth--
			lx.cursor.Bump()
			if depth == 0 {
				lx.cursor.Bump()
				return
			}
		}
		lx.cursor.Bump()
	}
	lx.errLex(diag.LexUnterminatedCmt, lx.cursor.SpanFrom(start), "unterminated block comment")
}

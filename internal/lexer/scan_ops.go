package lexer

import (
	"highrust/internal/diag"
	"highrust/internal/token"
)

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()
	kind := token.Invalid

	pick := func(next byte, two, one token.Kind) token.Kind {
		if lx.cursor.Eat(next) {
			return two
		}
		return one
	}

	switch b {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case ',':
		kind = token.Comma
	case ';':
		kind = token.Semicolon
	case '?':
		kind = token.Question
	case '_':
		kind = token.Underscore
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '%':
		kind = token.Percent
	case ':':
		kind = pick(':', token.ColonColon, token.Colon)
	case '.':
		kind = pick('.', token.DotDot, token.Dot)
	case '+':
		kind = pick('=', token.PlusAssign, token.Plus)
	case '-':
		switch {
		case lx.cursor.Eat('>'):
			kind = token.Arrow
		case lx.cursor.Eat('='):
			kind = token.MinusAssign
		default:
			kind = token.Minus
		}
	case '=':
		switch {
		case lx.cursor.Eat('>'):
			kind = token.FatArrow
		case lx.cursor.Eat('='):
			kind = token.EqEq
		default:
			kind = token.Assign
		}
	case '!':
		kind = pick('=', token.BangEq, token.Bang)
	case '<':
		kind = pick('=', token.LtEq, token.Lt)
	case '>':
		kind = pick('=', token.GtEq, token.Gt)
	case '&':
		kind = pick('&', token.AndAnd, token.Amp)
	case '|':
		kind = pick('|', token.OrOr, token.Pipe)
	}

	sp := lx.cursor.SpanFrom(start)
	if kind == token.Invalid {
		lx.errLex(diag.LexUnknownChar, sp, "unknown character '"+lx.text(sp)+"'")
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

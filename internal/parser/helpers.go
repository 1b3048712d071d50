package parser

import (
	"highrust/internal/diag"
	"highrust/internal/source"
	"highrust/internal/token"
)

// advance consumes the next token and remembers its span.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// eat consumes the next token if it has kind k.
func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// diagnosticSpan points just past the last token when the parser hit EOF.
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect consumes a token of kind k or reports code with msg.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagnosticSpan()
	p.report(code, sp, msg+", got "+describe(p.lx.Peek()))
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.diagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	p.errors++
	if p.opts.Enough(p.errors - 1) {
		return
	}
	p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
}

// resyncUntil skips tokens until one of stops or EOF, without consuming it.
func (p *Parser) resyncUntil(stops ...token.Kind) {
	for !p.at(token.EOF) && !p.atOr(stops...) {
		p.advance()
	}
}

// resyncStmt skips to the end of the current statement inside a block.
// It consumes a ';' but never a '}'.
func (p *Parser) resyncStmt() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		case token.LBrace, token.LParen, token.LBracket:
			depth++
		case token.RBrace, token.RParen, token.RBracket:
			if depth == 0 {
				return
			}
			depth--
		case token.KwLet, token.KwReturn, token.KwIf, token.KwWhile, token.KwFor, token.KwFn:
			if depth == 0 {
				return
			}
		}
		p.advance()
	}
}

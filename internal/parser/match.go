package parser

import (
	"highrust/internal/ast"
	"highrust/internal/diag"
	"highrust/internal/token"
)

// parseMatch parses `match subject { pattern [if guard] => body [,] ... }`.
func (p *Parser) parseMatch() (ast.ExprID, bool) {
	p.enter()
	defer p.leave()

	kw := p.advance()
	subject, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after match subject"); !ok {
		return ast.NoExprID, false
	}
	var arms []ast.MatchArm
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		arm, ok := p.parseArm()
		if !ok {
			p.resyncUntil(token.Comma, token.RBrace)
			p.eat(token.Comma)
			continue
		}
		arms = append(arms, arm)
		p.eat(token.Comma)
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelim, "expected '}' to close match"); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewMatch(kw.Span.Cover(p.lastSpan), subject, arms), true
}

func (p *Parser) parseArm() (ast.MatchArm, bool) {
	start := p.lx.Peek().Span
	pat, ok := p.parsePattern()
	if !ok {
		return ast.MatchArm{}, false
	}
	arm := ast.MatchArm{Pattern: pat}
	if _, ok := p.eat(token.KwIf); ok {
		if arm.Guard, ok = p.parseExpr(); !ok {
			return ast.MatchArm{}, false
		}
	}
	if _, ok := p.expect(token.FatArrow, diag.SynUnexpectedToken, "expected '=>' after match pattern"); !ok {
		return ast.MatchArm{}, false
	}
	if arm.Body, ok = p.parseExpr(); !ok {
		return ast.MatchArm{}, false
	}
	arm.Span = start.Cover(p.lastSpan)
	return arm, true
}

// parsePattern parses `_`, a binding, a literal (optionally negated), `..`
// and tuples of patterns.
func (p *Parser) parsePattern() (ast.PatternID, bool) {
	p.enter()
	defer p.leave()

	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Underscore:
		p.advance()
		return p.arenas.NewPattern(ast.Pattern{Kind: ast.PatWildcard, Span: tok.Span}), true
	case token.DotDot:
		p.advance()
		return p.arenas.NewPattern(ast.Pattern{Kind: ast.PatRest, Span: tok.Span}), true
	case token.Ident:
		p.advance()
		if p.at(token.LParen) {
			p.err(diag.SynExpectPattern, "constructor patterns like '"+tok.Text+"(..)' are not supported")
			return ast.NoPatternID, false
		}
		return p.arenas.NewPattern(ast.Pattern{Kind: ast.PatBinding, Span: tok.Span, Name: tok.Text}), true
	case token.StringLit, token.IntLit, token.FloatLit, token.KwTrue, token.KwFalse:
		p.advance()
		return p.arenas.NewPattern(ast.Pattern{Kind: ast.PatLiteral, Span: tok.Span, Lit: litKind(tok.Kind), Text: tok.Text}), true
	case token.Minus:
		p.advance()
		num := p.lx.Peek()
		if num.Kind != token.IntLit && num.Kind != token.FloatLit {
			p.err(diag.SynExpectPattern, "expected number after '-' in pattern, got "+describe(num))
			return ast.NoPatternID, false
		}
		p.advance()
		return p.arenas.NewPattern(ast.Pattern{
			Kind: ast.PatLiteral, Span: tok.Span.Cover(num.Span), Lit: litKind(num.Kind), Text: "-" + num.Text,
		}), true
	case token.LParen:
		p.advance()
		var elems []ast.PatternID
		for !p.at(token.RParen) {
			el, ok := p.parsePattern()
			if !ok {
				return ast.NoPatternID, false
			}
			elems = append(elems, el)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelim, "expected ')' to close tuple pattern"); !ok {
			return ast.NoPatternID, false
		}
		return p.arenas.NewPattern(ast.Pattern{Kind: ast.PatTuple, Span: tok.Span.Cover(p.lastSpan), Elems: elems}), true
	}
	p.err(diag.SynExpectPattern, "expected pattern, got "+describe(tok))
	return ast.NoPatternID, false
}

func litKind(k token.Kind) ast.LitKind {
	switch k {
	case token.IntLit:
		return ast.LitInt
	case token.FloatLit:
		return ast.LitFloat
	case token.KwTrue, token.KwFalse:
		return ast.LitBool
	default:
		return ast.LitString
	}
}

package parser

import (
	"highrust/internal/ast"
	"highrust/internal/diag"
	"highrust/internal/token"
)

// parseFn parses `fn name(params) [-> Type] { body }`.
func (p *Parser) parseFn() (ast.FuncID, bool) {
	kw := p.advance()
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name")
	if !ok {
		return ast.NoFuncID, false
	}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !ok {
		return ast.NoFuncID, false
	}
	params, ok := p.parseParams(token.RParen)
	if !ok {
		return ast.NoFuncID, false
	}
	result := ast.NoTypeID
	if _, ok := p.eat(token.Arrow); ok {
		if result, ok = p.parseType(); !ok {
			return ast.NoFuncID, false
		}
	}
	if !p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "expected '{' to start function body, got "+describe(p.lx.Peek()))
		return ast.NoFuncID, false
	}
	body := p.parseBlock()
	return p.arenas.NewFunc(ast.Func{
		Name:     name.Text,
		NameSpan: name.Span,
		Params:   params,
		Result:   result,
		Body:     body,
		Span:     kw.Span.Cover(p.lastSpan),
	}), true
}

// parseParams parses `a, b: T, c` up to and including the closing token.
func (p *Parser) parseParams(closer token.Kind) ([]ast.Param, bool) {
	var params []ast.Param
	for !p.at(closer) {
		tok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
		if !ok {
			return nil, false
		}
		param := ast.Param{Name: tok.Text, Span: tok.Span}
		if _, ok := p.eat(token.Colon); ok {
			if param.Type, ok = p.parseType(); !ok {
				return nil, false
			}
			param.Span = param.Span.Cover(p.lastSpan)
		}
		params = append(params, param)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.expect(closer, diag.SynUnclosedDelim, "expected '"+closer.String()+"' after parameters"); !ok {
		return nil, false
	}
	return params, true
}

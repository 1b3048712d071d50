package parser

import (
	"highrust/internal/ast"
	"highrust/internal/diag"
	"highrust/internal/token"
)

// parseType parses `Name`, `Name<T, U>`, `(T, U)`, `()`, `&T` and `&mut T`.
func (p *Parser) parseType() (ast.TypeID, bool) {
	p.enter()
	defer p.leave()

	start := p.lx.Peek().Span
	switch {
	case p.at(token.Amp):
		p.advance()
		kind := ast.TypeRef
		if p.at(token.Ident) && p.lx.Peek().Text == "mut" {
			p.advance()
			kind = ast.TypeRefMut
		}
		inner, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		return p.arenas.NewType(ast.TypeExpr{Kind: kind, Span: start.Cover(p.lastSpan), Args: []ast.TypeID{inner}}), true

	case p.at(token.LParen):
		p.advance()
		var elems []ast.TypeID
		for !p.at(token.RParen) {
			el, ok := p.parseType()
			if !ok {
				return ast.NoTypeID, false
			}
			elems = append(elems, el)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelim, "expected ')' in tuple type"); !ok {
			return ast.NoTypeID, false
		}
		if len(elems) == 0 {
			return p.arenas.NewType(ast.TypeExpr{Kind: ast.TypeUnit, Span: start.Cover(p.lastSpan)}), true
		}
		return p.arenas.NewType(ast.TypeExpr{Kind: ast.TypeTuple, Span: start.Cover(p.lastSpan), Args: elems}), true

	case p.at(token.Ident):
		name := p.advance()
		t := ast.TypeExpr{Kind: ast.TypePath, Name: name.Text}
		if _, ok := p.eat(token.Lt); ok {
			for !p.at(token.Gt) {
				arg, ok := p.parseType()
				if !ok {
					return ast.NoTypeID, false
				}
				t.Args = append(t.Args, arg)
				if _, ok := p.eat(token.Comma); !ok {
					break
				}
			}
			if _, ok := p.expect(token.Gt, diag.SynUnclosedDelim, "expected '>' to close type arguments"); !ok {
				return ast.NoTypeID, false
			}
		}
		t.Span = start.Cover(p.lastSpan)
		return p.arenas.NewType(t), true
	}

	p.err(diag.SynExpectType, "expected type, got "+describe(p.lx.Peek()))
	return ast.NoTypeID, false
}

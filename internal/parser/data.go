package parser

import (
	"highrust/internal/ast"
	"highrust/internal/diag"
	"highrust/internal/token"
)

// parseData parses `struct Name { field: T, ... }` or
// `enum Name { A, B(T, U), ... }`. Trailing commas are accepted.
func (p *Parser) parseData() (ast.Data, bool) {
	kw := p.advance()
	d := ast.Data{Kind: ast.DataStruct}
	if kw.Kind == token.KwEnum {
		d.Kind = ast.DataEnum
	}
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected "+d.Kind.String()+" name")
	if !ok {
		return d, false
	}
	d.Name, d.NameSpan = name.Text, name.Span
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after "+d.Kind.String()+" name"); !ok {
		return d, false
	}
	for !p.at(token.RBrace) {
		if d.Kind == ast.DataStruct {
			f, ok := p.parseField()
			if !ok {
				return d, false
			}
			d.Fields = append(d.Fields, f)
		} else {
			v, ok := p.parseVariant()
			if !ok {
				return d, false
			}
			d.Variants = append(d.Variants, v)
		}
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelim, "expected '}' to close "+d.Kind.String()); !ok {
		return d, false
	}
	d.Span = kw.Span.Cover(p.lastSpan)
	return d, true
}

func (p *Parser) parseField() (ast.Field, bool) {
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected field name")
	if !ok {
		return ast.Field{}, false
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectType, "expected ':' after field name"); !ok {
		return ast.Field{}, false
	}
	ty, ok := p.parseType()
	if !ok {
		return ast.Field{}, false
	}
	return ast.Field{Name: name.Text, Type: ty, Span: name.Span.Cover(p.lastSpan)}, true
}

func (p *Parser) parseVariant() (ast.Variant, bool) {
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected variant name")
	if !ok {
		return ast.Variant{}, false
	}
	v := ast.Variant{Name: name.Text}
	if _, ok := p.eat(token.LParen); ok {
		for !p.at(token.RParen) {
			ty, ok := p.parseType()
			if !ok {
				return ast.Variant{}, false
			}
			v.Fields = append(v.Fields, ty)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelim, "expected ')' after variant fields"); !ok {
			return ast.Variant{}, false
		}
	}
	v.Span = name.Span.Cover(p.lastSpan)
	return v, true
}

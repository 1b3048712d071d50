package parser

import (
	"strconv"
	"strings"

	"highrust/internal/ast"
	"highrust/internal/diag"
	"highrust/internal/token"
)

func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBinary(precRange)
}

// parseBinary is precedence climbing; every operator is left-associative,
// and '..' as well as comparisons do not chain.
func (p *Parser) parseBinary(minPrec int) (ast.ExprID, bool) {
	p.enter()
	defer p.leave()

	left, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		op, prec, isOp := binaryOp(p.lx.Peek().Kind)
		if !isOp || prec < minPrec {
			return left, true
		}
		p.advance()
		right, ok := p.parseBinary(prec + 1)
		if !ok {
			return ast.NoExprID, false
		}
		sp := p.arenas.Exprs.Get(left).Span.Cover(p.arenas.Exprs.Get(right).Span)
		left = p.arenas.Exprs.NewBinary(sp, op, left, right)
		if op == ast.BinRange || op.IsComparison() {
			if _, prec2, again := binaryOp(p.lx.Peek().Kind); again && prec2 == prec {
				p.err(diag.SynUnexpectedToken, "comparison operators cannot be chained")
				return ast.NoExprID, false
			}
		}
	}
}

func (p *Parser) parseUnary() (ast.ExprID, bool) {
	var op ast.UnaryOp
	switch p.lx.Peek().Kind {
	case token.Minus:
		op = ast.UnNeg
	case token.Bang:
		op = ast.UnNot
	default:
		return p.parsePostfix()
	}
	p.enter()
	defer p.leave()

	opTok := p.advance()
	x, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewUnary(opTok.Span.Cover(p.arenas.Exprs.Get(x).Span), op, x), true
}

// parsePostfix handles calls, macro-style calls `name!(...)`, `.field`,
// `.0`, method calls and the `?` operator.
func (p *Parser) parsePostfix() (ast.ExprID, bool) {
	x, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		start := p.arenas.Exprs.Get(x).Span
		switch p.lx.Peek().Kind {
		case token.LParen:
			p.advance()
			args, ok := p.parseArgs(token.RParen)
			if !ok {
				return ast.NoExprID, false
			}
			x = p.arenas.Exprs.NewCall(start.Cover(p.lastSpan), x, args)

		case token.Bang:
			if _, isIdent := p.arenas.Exprs.Ident(x); !isIdent {
				return x, true
			}
			p.advance()
			if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after macro name"); !ok {
				return ast.NoExprID, false
			}
			args, ok := p.parseArgs(token.RParen)
			if !ok {
				return ast.NoExprID, false
			}
			x = p.arenas.Exprs.NewCall(start.Cover(p.lastSpan), x, args)

		case token.Question:
			q := p.advance()
			x = p.arenas.Exprs.NewTry(start.Cover(q.Span), x)

		case token.Dot:
			p.advance()
			var ok bool
			if x, ok = p.parseMember(x); !ok {
				return ast.NoExprID, false
			}

		default:
			return x, true
		}
	}
}

func (p *Parser) parseMember(x ast.ExprID) (ast.ExprID, bool) {
	start := p.arenas.Exprs.Get(x).Span
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.IntLit, token.FloatLit:
		// `t.0` or `t.0.1`, where the lexer saw "0.1" as a float
		p.advance()
		for _, part := range strings.Split(tok.Text, ".") {
			idx, err := strconv.Atoi(part)
			if err != nil {
				p.report(diag.SynUnexpectedToken, tok.Span, "invalid tuple index '"+tok.Text+"'")
				return ast.NoExprID, false
			}
			x = p.arenas.Exprs.NewField(start.Cover(tok.Span), x, part, idx)
		}
		return x, true
	case token.Ident:
		name := p.advance()
		if _, ok := p.eat(token.LParen); ok {
			args, ok := p.parseArgs(token.RParen)
			if !ok {
				return ast.NoExprID, false
			}
			return p.arenas.Exprs.NewMethod(start.Cover(p.lastSpan), ast.ExprMethodData{
				Recv: x, Name: name.Text, NameSpan: name.Span, Args: args,
			}), true
		}
		return p.arenas.Exprs.NewField(start.Cover(name.Span), x, name.Text, -1), true
	}
	p.err(diag.SynExpectIdentifier, "expected field or method name after '.', got "+describe(tok))
	return ast.NoExprID, false
}

// parseArgs parses a comma separated expression list and consumes closer.
func (p *Parser) parseArgs(closer token.Kind) ([]ast.ExprID, bool) {
	var args []ast.ExprID
	for !p.at(closer) {
		arg, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		args = append(args, arg)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.expect(closer, diag.SynUnclosedDelim, "expected '"+closer.String()+"'"); !ok {
		return nil, false
	}
	return args, true
}

func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return p.arenas.Exprs.NewIdent(tok.Span, tok.Text), true
	case token.StringLit:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.LitString, tok.Text), true
	case token.IntLit:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.LitInt, tok.Text), true
	case token.FloatLit:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.LitFloat, tok.Text), true
	case token.KwTrue, token.KwFalse:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.LitBool, tok.Text), true
	case token.LParen:
		return p.parseParenOrTuple()
	case token.LBracket:
		p.advance()
		elems, ok := p.parseArgs(token.RBracket)
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewList(tok.Span.Cover(p.lastSpan), elems), true
	case token.LBrace:
		blk := p.parseBlock()
		return p.arenas.Exprs.NewBlock(p.arenas.Block(blk).Span, blk), true
	case token.KwMatch:
		return p.parseMatch()
	case token.Pipe, token.OrOr:
		return p.parseClosure()
	}
	p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
	return ast.NoExprID, false
}

func (p *Parser) parseParenOrTuple() (ast.ExprID, bool) {
	open := p.advance()
	if _, ok := p.eat(token.RParen); ok {
		return p.arenas.Exprs.NewTuple(open.Span.Cover(p.lastSpan), nil), true
	}
	first, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.eat(token.RParen); ok {
		return p.arenas.Exprs.NewGroup(open.Span.Cover(p.lastSpan), first), true
	}
	if _, ok := p.expect(token.Comma, diag.SynUnclosedDelim, "expected ',' or ')'"); !ok {
		return ast.NoExprID, false
	}
	rest, ok := p.parseArgs(token.RParen)
	if !ok {
		return ast.NoExprID, false
	}
	elems := append([]ast.ExprID{first}, rest...)
	return p.arenas.Exprs.NewTuple(open.Span.Cover(p.lastSpan), elems), true
}

// parseClosure parses `|a, b| body` and `|| body`.
func (p *Parser) parseClosure() (ast.ExprID, bool) {
	p.enter()
	defer p.leave()

	open := p.advance()
	var params []ast.Param
	if open.Kind == token.Pipe {
		var ok bool
		if params, ok = p.parseParams(token.Pipe); !ok {
			return ast.NoExprID, false
		}
	}
	body, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewClosure(open.Span.Cover(p.arenas.Exprs.Get(body).Span), params, body), true
}

package parser

import (
	"highrust/internal/ast"
	"highrust/internal/diag"
	"highrust/internal/token"
)

// parseBlock parses `{ stmt* [tail] }`. The current token must be '{'.
func (p *Parser) parseBlock() ast.BlockID {
	p.enter()
	defer p.leave()

	open := p.advance()
	var stmts []ast.StmtID
	tail := ast.NoExprID
	for !p.at(token.RBrace) && !p.at(token.EOF) && !tail.IsValid() {
		if p.opts.Enough(p.errors) {
			break
		}
		if _, ok := p.eat(token.Semicolon); ok {
			continue
		}
		stmt, expr, ok := p.parseStmt()
		switch {
		case !ok:
			p.resyncStmt()
		case stmt.IsValid():
			stmts = append(stmts, stmt)
		default:
			tail = expr
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedDelim, "expected '}' to close block")
	return p.arenas.NewBlock(stmts, tail, open.Span.Cover(p.lastSpan))
}

// parseStmt returns either a statement or, for a trailing expression without
// ';' right before '}', the expression to be used as the block tail.
func (p *Parser) parseStmt() (ast.StmtID, ast.ExprID, bool) {
	switch p.lx.Peek().Kind {
	case token.KwLet:
		id, ok := p.parseLet()
		return id, ast.NoExprID, ok
	case token.KwReturn:
		id, ok := p.parseReturn()
		return id, ast.NoExprID, ok
	case token.KwIf:
		id, ok := p.parseIf()
		return id, ast.NoExprID, ok
	case token.KwWhile:
		id, ok := p.parseWhile()
		return id, ast.NoExprID, ok
	case token.KwFor:
		id, ok := p.parseFor()
		return id, ast.NoExprID, ok
	}

	expr, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, ast.NoExprID, false
	}
	exprSpan := p.arenas.Exprs.Get(expr).Span

	if op, isAssign := assignOp(p.lx.Peek().Kind); isAssign {
		return p.parseAssign(expr, op)
	}
	if semi, ok := p.eat(token.Semicolon); ok {
		return p.arenas.Stmts.NewExpr(exprSpan.Cover(semi.Span), expr), ast.NoExprID, true
	}
	if p.at(token.RBrace) {
		return ast.NoStmtID, expr, true
	}
	if p.isBlockLike(expr) {
		return p.arenas.Stmts.NewExpr(exprSpan, expr), ast.NoExprID, true
	}
	p.err(diag.SynExpectSemicolon, "expected ';' after expression, got "+describe(p.lx.Peek()))
	return ast.NoStmtID, ast.NoExprID, false
}

func assignOp(k token.Kind) (ast.AssignOp, bool) {
	switch k {
	case token.Assign:
		return ast.AssignSet, true
	case token.PlusAssign:
		return ast.AssignAdd, true
	case token.MinusAssign:
		return ast.AssignSub, true
	}
	return 0, false
}

func (p *Parser) isBlockLike(id ast.ExprID) bool {
	switch p.arenas.Exprs.Get(id).Kind {
	case ast.ExprMatch, ast.ExprBlock:
		return true
	}
	return false
}

func (p *Parser) parseAssign(target ast.ExprID, op ast.AssignOp) (ast.StmtID, ast.ExprID, bool) {
	opTok := p.advance()
	ident, isIdent := p.arenas.Exprs.Ident(target)
	targetSpan := p.arenas.Exprs.Get(target).Span
	if !isIdent {
		p.report(diag.SynUnexpectedToken, opTok.Span, "only plain names can be assigned")
		return ast.NoStmtID, ast.NoExprID, false
	}
	value, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, ast.NoExprID, false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after assignment"); !ok {
		return ast.NoStmtID, ast.NoExprID, false
	}
	return p.arenas.Stmts.NewAssign(targetSpan.Cover(p.lastSpan), ast.StmtAssignData{
		Name:     ident.Name,
		NameSpan: targetSpan,
		Op:       op,
		Value:    value,
	}), ast.NoExprID, true
}

// parseLet parses `let name [: Type] = expr;`.
func (p *Parser) parseLet() (ast.StmtID, bool) {
	kw := p.advance()
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected name after 'let'")
	if !ok {
		return ast.NoStmtID, false
	}
	data := ast.StmtLetData{Name: name.Text, NameSpan: name.Span}
	if _, ok := p.eat(token.Colon); ok {
		if data.Type, ok = p.parseType(); !ok {
			return ast.NoStmtID, false
		}
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in let statement"); !ok {
		return ast.NoStmtID, false
	}
	if data.Init, ok = p.parseExpr(); !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after let statement"); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewLet(kw.Span.Cover(p.lastSpan), data), true
}

func (p *Parser) parseReturn() (ast.StmtID, bool) {
	kw := p.advance()
	value := ast.NoExprID
	if !p.atOr(token.Semicolon, token.RBrace) {
		var ok bool
		if value, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	if _, ok := p.eat(token.Semicolon); !ok && !p.at(token.RBrace) {
		p.err(diag.SynExpectSemicolon, "expected ';' after return, got "+describe(p.lx.Peek()))
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewReturn(kw.Span.Cover(p.lastSpan), value), true
}

// parseIf parses `if cond { } [else { } | else if ...]`.
func (p *Parser) parseIf() (ast.StmtID, bool) {
	p.enter()
	defer p.leave()

	kw := p.advance()
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if !p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "expected '{' after if condition, got "+describe(p.lx.Peek()))
		return ast.NoStmtID, false
	}
	data := ast.StmtIfData{Cond: cond, Then: p.parseBlock()}
	if _, ok := p.eat(token.KwElse); ok {
		switch {
		case p.at(token.KwIf):
			nested, ok := p.parseIf()
			if !ok {
				return ast.NoStmtID, false
			}
			sp := p.arenas.Stmts.Get(nested).Span
			data.Else = p.arenas.NewBlock([]ast.StmtID{nested}, ast.NoExprID, sp)
		case p.at(token.LBrace):
			data.Else = p.parseBlock()
		default:
			p.err(diag.SynUnexpectedToken, "expected '{' or 'if' after else, got "+describe(p.lx.Peek()))
			return ast.NoStmtID, false
		}
	}
	return p.arenas.Stmts.NewIf(kw.Span.Cover(p.lastSpan), data), true
}

func (p *Parser) parseWhile() (ast.StmtID, bool) {
	kw := p.advance()
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if !p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "expected '{' after while condition, got "+describe(p.lx.Peek()))
		return ast.NoStmtID, false
	}
	body := p.parseBlock()
	return p.arenas.Stmts.NewWhile(kw.Span.Cover(p.lastSpan), ast.StmtWhileData{Cond: cond, Body: body}), true
}

// parseFor parses `for name in expr { }`.
func (p *Parser) parseFor() (ast.StmtID, bool) {
	kw := p.advance()
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected loop variable after 'for'")
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.KwIn, diag.SynUnexpectedToken, "expected 'in' after loop variable"); !ok {
		return ast.NoStmtID, false
	}
	iter, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if !p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "expected '{' after for header, got "+describe(p.lx.Peek()))
		return ast.NoStmtID, false
	}
	body := p.parseBlock()
	return p.arenas.Stmts.NewFor(kw.Span.Cover(p.lastSpan), ast.StmtForData{
		Var: name.Text, VarSpan: name.Span, Iter: iter, Body: body,
	}), true
}

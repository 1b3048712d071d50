package borrow

import (
	"highrust/internal/ast"
	"highrust/internal/ownership"
	"highrust/internal/symbols"
)

var consumingMethods = map[string]bool{
	"into_iter": true, "into": true, "unwrap": true, "expect": true,
	"unwrap_or": true, "unwrap_or_default": true, "unwrap_or_else": true,
	"ok_or": true, "into_bytes": true, "into_boxed_slice": true,
}

// block walks a block whose tail value flows into tail.
func (c *classifier) block(id ast.BlockID, tail Context) {
	blk := c.b.Block(id)
	for _, s := range blk.Stmts {
		c.stmt(s)
	}
	if blk.Tail.IsValid() {
		c.expr(blk.Tail, tail)
	}
}

func (c *classifier) stmt(id ast.StmtID) {
	st := c.b.Stmts.Get(id)
	switch st.Kind {
	case ast.StmtExpr:
		c.expr(c.b.Stmts.Expr(id).Expr, CtxDiscard)
	case ast.StmtLet:
		c.expr(c.b.Stmts.Let(id).Init, CtxLetInit)
	case ast.StmtAssign:
		as := c.b.Stmts.Assign(id)
		prev := c.assigning
		c.assigning = c.t.AssignTarget(id)
		ctx := CtxAssignValue
		if as.Op != ast.AssignSet {
			ctx = CtxOperand
		}
		c.expr(as.Value, ctx)
		c.assigning = prev
	case ast.StmtReturn:
		c.expr(c.b.Stmts.Return(id).Value, CtxReturn)
	case ast.StmtIf:
		data := c.b.Stmts.If(id)
		c.expr(data.Cond, CtxCondition)
		c.block(data.Then, CtxDiscard)
		if data.Else.IsValid() {
			c.block(data.Else, CtxDiscard)
		}
	case ast.StmtWhile:
		data := c.b.Stmts.While(id)
		c.loop(c.t.BlockScope(data.Body), func() {
			c.expr(data.Cond, CtxCondition)
			c.block(data.Body, CtxDiscard)
		})
	case ast.StmtFor:
		data := c.b.Stmts.For(id)
		c.expr(data.Iter, CtxIterable)
		c.loop(c.t.BlockScope(data.Body), func() { c.block(data.Body, CtxDiscard) })
	}
}

func (c *classifier) expr(id ast.ExprID, ctx Context) {
	if !id.IsValid() {
		return
	}
	e := c.b.Exprs.Get(id)
	switch e.Kind {
	case ast.ExprIdent:
		c.record(id, ctx)
	case ast.ExprLit:
	case ast.ExprCall:
		c.call(id)
	case ast.ExprMatch:
		data, _ := c.b.Exprs.Match(id)
		c.expr(data.Subject, CtxSubject)
		for _, arm := range data.Arms {
			c.expr(arm.Guard, CtxCondition)
			c.expr(arm.Body, ctx)
		}
	case ast.ExprBinary:
		data, _ := c.b.Exprs.Binary(id)
		left := CtxOperand
		if data.Op == ast.BinAdd && c.facts.Expr(data.Left) == c.facts.In.Builtins().String {
			left = CtxConcatHead
		}
		c.expr(data.Left, left)
		c.expr(data.Right, CtxOperand)
	case ast.ExprUnary:
		data, _ := c.b.Exprs.Unary(id)
		c.expr(data.X, CtxOperand)
	case ast.ExprGroup:
		data, _ := c.b.Exprs.Group(id)
		c.expr(data.X, ctx)
	case ast.ExprTuple:
		data, _ := c.b.Exprs.Tuple(id)
		for _, el := range data.Elems {
			c.expr(el, CtxElement)
		}
	case ast.ExprList:
		data, _ := c.b.Exprs.List(id)
		for _, el := range data.Elems {
			c.expr(el, CtxElement)
		}
	case ast.ExprField:
		data, _ := c.b.Exprs.Field(id)
		c.expr(data.X, CtxFieldBase)
	case ast.ExprMethod:
		data, _ := c.b.Exprs.Method(id)
		recv := CtxReceiver
		switch {
		case ownership.IsMutatingMethod(data.Name):
			recv = CtxReceiverMut
		case consumingMethods[data.Name]:
			recv = CtxReceiverMove
		}
		c.expr(data.Recv, recv)
		for _, a := range data.Args {
			c.expr(a, CtxMethodArg)
		}
	case ast.ExprClosure:
		data, _ := c.b.Exprs.Closure(id)
		c.loop(c.t.ClosureScope(id), func() { c.expr(data.Body, CtxClosureBody) })
	case ast.ExprTry:
		data, _ := c.b.Exprs.Try(id)
		c.expr(data.X, CtxTry)
	case ast.ExprBlock:
		data, _ := c.b.Exprs.Block(id)
		c.block(data.Block, ctx)
	}
}

func (c *classifier) call(id ast.ExprID) {
	data, _ := c.b.Exprs.Call(id)
	callee, ok := c.t.Callee(id)
	if !ok {
		c.expr(data.Callee, CtxCallee)
	} else if callee.Kind == symbols.CalleeLocal {
		c.record(data.Callee, CtxCallee)
	}
	for i, a := range data.Args {
		c.expr(a, ArgContext(c.t, callee, i, c.opts))
	}
}

// ArgContext is the position of argument i of a call to callee.
func ArgContext(t *symbols.Table, callee symbols.Callee, i int, opts Options) Context {
	if ownership.ExclusiveArg(t, callee, i) {
		return CtxArgExclusive
	}
	switch callee.Kind {
	case symbols.CalleeBuiltin:
		switch callee.Builtin {
		case symbols.BuiltinPrint:
			return CtxMacroArg
		case symbols.BuiltinRef:
			return CtxRefArg
		case symbols.BuiltinCtor:
			return CtxElement
		}
	case symbols.CalleeModule:
		fn := t.Builder.Func(callee.Func)
		if i < len(fn.Params) && fn.Params[i].Type.IsValid() && t.Builder.Type(fn.Params[i].Type).Kind == ast.TypeRef {
			return CtxArgShared
		}
	case symbols.CalleeExternal, symbols.CalleeLocal:
		if opts.NonConsuming[callee.Name] {
			return CtxArgShared
		}
	}
	return CtxArgMove
}

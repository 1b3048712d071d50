// Package lower rewrites one analyzed function into the canonical IR.
//
// Lowering is the last pass that looks at the syntax tree. It consumes the
// symbol table, the local type facts, the mutability annotations and the
// classified uses of one function, and produces an ir.Func in which match
// patterns are reduced to bindings, literal tests and guards, every binding
// use carries its borrow.Mode, and the string and borrow conversions the
// Rust side needs are explicit nodes.
package lower

import (
	"fmt"
	"strconv"

	"highrust/internal/ast"
	"highrust/internal/borrow"
	"highrust/internal/diag"
	"highrust/internal/ir"
	"highrust/internal/ownership"
	"highrust/internal/source"
	"highrust/internal/symbols"
	"highrust/internal/types"
)

// DefaultMaxDepth matches the parser nesting limit.
const DefaultMaxDepth = 512

type Options struct {
	MaxDepth int
	// Borrow must be the options the uses were classified with.
	Borrow borrow.Options
}

// Input bundles the per-function analysis results.
type Input struct {
	Table *symbols.Table
	Facts *types.Facts
	Ann   *ownership.Annotations
	Uses  *borrow.Result
}

type depthExceeded struct{ span source.Span }

// Func lowers the function behind in.Table. Errors are reported to r; the
// returned IR is only meaningful when none were. A nil result means
// lowering was aborted by the depth guard.
func Func(in Input, opts Options, r diag.Reporter) (fn *ir.Func) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	l := &lowerer{
		t:     in.Table,
		b:     in.Table.Builder,
		facts: in.Facts,
		in:    in.Facts.In,
		ann:   in.Ann,
		uses:  in.Uses,
		opts:  opts,
		r:     r,
	}
	defer func() {
		if rec := recover(); rec != nil {
			de, ok := rec.(depthExceeded)
			if !ok {
				panic(rec)
			}
			diag.ReportError(r, diag.FatalStackExhausted, de.span,
				fmt.Sprintf("nesting deeper than %d levels while lowering '%s'", opts.MaxDepth, in.Table.Func.Name)).Emit()
			fn = nil
		}
	}()
	return l.function()
}

type lowerer struct {
	t     *symbols.Table
	b     *ast.Builder
	facts *types.Facts
	in    *types.Interner
	ann   *ownership.Annotations
	uses  *borrow.Result
	opts  Options
	r     diag.Reporter

	result types.TypeID
	depth  int
	synth  int
}

func (l *lowerer) enter(sp source.Span) {
	l.depth++
	if l.depth > l.opts.MaxDepth {
		panic(depthExceeded{span: sp})
	}
}

func (l *lowerer) leave() {
	l.depth--
}

func (l *lowerer) unsupported(sp source.Span, msg string) {
	diag.ReportError(l.r, diag.LowUnsupportedConstruct, sp, msg).Emit()
}

func (l *lowerer) function() *ir.Func {
	f := l.t.Func
	fn := &ir.Func{Name: f.Name, Span: f.Span}
	for _, id := range l.t.Params {
		param := &ir.Param{Name: l.t.Binding(id).Name, Mut: l.ann.IsMutated(id)}
		if t := l.facts.Binding(id); l.in.Known(t) {
			param.Type = l.in.String(t)
		}
		fn.Params = append(fn.Params, param)
	}
	l.result = l.in.Builtins().Unit
	if f.Result.IsValid() {
		l.result = l.in.FromAST(l.b, f.Result)
		if l.result != l.in.Builtins().Unit {
			fn.Result = l.in.String(l.result)
		}
	}

	body := l.b.Block(f.Body)
	fn.Body = &ir.Block{}
	for _, s := range body.Stmts {
		fn.Body.Stmts = append(fn.Body.Stmts, l.stmt(s))
	}
	if !body.Tail.IsValid() {
		return fn
	}
	if !f.Result.IsValid() {
		// An undeclared result is taken from the tail; a tail whose type
		// cannot be spelled becomes a statement.
		t := l.facts.Expr(body.Tail)
		if !l.in.Known(t) || t == l.in.Builtins().Unit || l.in.Kind(t) == types.KindClosure {
			fn.Body.Stmts = append(fn.Body.Stmts, &ir.ExprStmt{X: l.expr(body.Tail)})
			return fn
		}
		l.result = t
		fn.Result = l.in.String(t)
	}
	fn.Body.Tail = l.returnValue(body.Tail)
	return fn
}

func (l *lowerer) block(id ast.BlockID, want types.TypeID) *ir.Block {
	blk := l.b.Block(id)
	l.enter(blk.Span)
	defer l.leave()
	out := &ir.Block{Stmts: make([]ir.Stmt, 0, len(blk.Stmts))}
	for _, s := range blk.Stmts {
		out.Stmts = append(out.Stmts, l.stmt(s))
	}
	if blk.Tail.IsValid() {
		out.Tail = l.value(blk.Tail, want)
	}
	return out
}

func (l *lowerer) stmt(id ast.StmtID) ir.Stmt {
	st := l.b.Stmts.Get(id)
	switch st.Kind {
	case ast.StmtExpr:
		return &ir.ExprStmt{X: l.expr(l.b.Stmts.Expr(id).Expr)}
	case ast.StmtLet:
		let := l.b.Stmts.Let(id)
		bnd := l.t.Decl(id)
		out := &ir.LetStmt{Name: let.Name, Mut: l.ann.IsMutated(bnd)}
		want := types.NoTypeID
		if let.Type.IsValid() {
			want = l.in.FromAST(l.b, let.Type)
			out.Type = l.in.String(want)
		}
		out.Value = l.value(let.Init, want)
		return out
	case ast.StmtAssign:
		as := l.b.Stmts.Assign(id)
		target := l.facts.Binding(l.t.AssignTarget(id))
		out := &ir.AssignStmt{Name: as.Name, Op: assignOp(as.Op)}
		if as.Op == ast.AssignSet {
			out.Value = l.value(as.Value, target)
		} else {
			out.Value = l.concatRight(as.Value, l.expr(as.Value))
		}
		return out
	case ast.StmtReturn:
		ret := l.b.Stmts.Return(id)
		if !ret.Value.IsValid() {
			return &ir.ReturnStmt{}
		}
		return &ir.ReturnStmt{Value: l.returnValue(ret.Value)}
	case ast.StmtIf:
		data := l.b.Stmts.If(id)
		out := &ir.IfStmt{Cond: l.expr(data.Cond), Then: l.block(data.Then, types.NoTypeID)}
		if data.Else.IsValid() {
			out.Else = l.block(data.Else, types.NoTypeID)
		}
		return out
	case ast.StmtWhile:
		data := l.b.Stmts.While(id)
		return &ir.WhileStmt{Cond: l.expr(data.Cond), Body: l.block(data.Body, types.NoTypeID)}
	case ast.StmtFor:
		data := l.b.Stmts.For(id)
		return &ir.ForStmt{
			Var:  data.Var,
			Mut:  l.ann.IsMutated(l.t.Decl(id)),
			Iter: l.expr(data.Iter),
			Body: l.block(data.Body, types.NoTypeID),
		}
	}
	l.unsupported(st.Span, "unsupported statement kind "+st.Kind.String())
	return &ir.ExprStmt{X: &ir.Tuple{}}
}

func assignOp(op ast.AssignOp) ir.AssignOp {
	switch op {
	case ast.AssignAdd:
		return ir.AssignAdd
	case ast.AssignSub:
		return ir.AssignSub
	}
	return ir.AssignSet
}

// returnValue lowers a value leaving the function.
func (l *lowerer) returnValue(id ast.ExprID) ir.Expr {
	if cl, ok := l.closureOf(id); ok {
		if sp, mutates := l.closureMutatesOuter(cl); mutates {
			diag.ReportError(l.r, diag.LowUnsupportedConstruct, l.b.Exprs.Get(cl).Span,
				"returning a closure that reassigns a captured binding is not supported").
				WithNote(sp, "captured binding reassigned here").
				Emit()
		}
	}
	return l.value(id, l.result)
}

func (l *lowerer) closureOf(id ast.ExprID) (ast.ExprID, bool) {
	for {
		e := l.b.Exprs.Get(id)
		switch e.Kind {
		case ast.ExprGroup:
			data, _ := l.b.Exprs.Group(id)
			id = data.X
		case ast.ExprClosure:
			return id, true
		default:
			return ast.NoExprID, false
		}
	}
}

// closureMutatesOuter reports a reassignment inside the closure of a
// binding declared outside it.
func (l *lowerer) closureMutatesOuter(cl ast.ExprID) (source.Span, bool) {
	inner := l.t.ClosureScope(cl)
	span := l.b.Exprs.Get(cl).Span
	for _, bnd := range l.t.Bindings() {
		if l.t.IsWithin(bnd.Scope, inner) {
			continue
		}
		ann := l.ann.Get(bnd.ID)
		if ann == nil || !ann.Reassigned {
			continue
		}
		for _, m := range ann.Mutations {
			if m.File == span.File && m.Start >= span.Start && m.End <= span.End {
				return m, true
			}
		}
	}
	return source.Span{}, false
}

func (l *lowerer) expr(id ast.ExprID) ir.Expr {
	e := l.b.Exprs.Get(id)
	l.enter(e.Span)
	defer l.leave()

	switch e.Kind {
	case ast.ExprIdent:
		return l.ident(id)
	case ast.ExprLit:
		data, _ := l.b.Exprs.Literal(id)
		return &ir.Lit{Kind: litKind(data.Kind), Text: data.Text}
	case ast.ExprCall:
		return l.call(id)
	case ast.ExprMatch:
		return l.match(id, types.NoTypeID)
	case ast.ExprBinary:
		return l.binary(id)
	case ast.ExprUnary:
		data, _ := l.b.Exprs.Unary(id)
		return &ir.Unary{Op: data.Op.String(), X: l.expr(data.X)}
	case ast.ExprGroup:
		data, _ := l.b.Exprs.Group(id)
		return &ir.Paren{X: l.expr(data.X)}
	case ast.ExprTuple:
		data, _ := l.b.Exprs.Tuple(id)
		out := &ir.Tuple{Elems: make([]ir.Expr, len(data.Elems))}
		for i, el := range data.Elems {
			out.Elems[i] = l.expr(el)
		}
		return out
	case ast.ExprList:
		return l.list(id)
	case ast.ExprField:
		data, _ := l.b.Exprs.Field(id)
		name := data.Name
		if data.Index >= 0 {
			name = strconv.Itoa(data.Index)
		}
		return &ir.Field{X: l.expr(data.X), Name: name}
	case ast.ExprMethod:
		data, _ := l.b.Exprs.Method(id)
		out := &ir.MethodCall{Recv: l.expr(data.Recv), Method: data.Name, Args: make([]ir.Expr, len(data.Args))}
		for i, a := range data.Args {
			out.Args[i] = l.expr(a)
		}
		return out
	case ast.ExprClosure:
		return l.closure(id)
	case ast.ExprTry:
		data, _ := l.b.Exprs.Try(id)
		return &ir.Propagate{X: l.expr(data.X)}
	case ast.ExprBlock:
		data, _ := l.b.Exprs.Block(id)
		return &ir.BlockExpr{Block: l.block(data.Block, types.NoTypeID)}
	}
	l.unsupported(e.Span, "unsupported expression kind "+e.Kind.String())
	return &ir.Tuple{}
}

func litKind(k ast.LitKind) ir.LitKind {
	switch k {
	case ast.LitInt:
		return ir.LitInt
	case ast.LitFloat:
		return ir.LitFloat
	case ast.LitBool:
		return ir.LitBool
	}
	return ir.LitString
}

// ident lowers a read of a name. Names without a classified use are module
// functions or builtin values.
func (l *lowerer) ident(id ast.ExprID) ir.Expr {
	data, _ := l.b.Exprs.Ident(id)
	use, ok := l.uses.Use(id)
	if !ok {
		return &ir.Name{Name: data.Name}
	}
	return &ir.Ref{
		Name:     data.Name,
		Binding:  use.Binding,
		Mode:     use.Mode,
		Context:  use.Context,
		Explicit: use.Context.ExplicitRef() && !l.isReference(l.facts.Binding(use.Binding)),
	}
}

// isReference reports types that are already borrows, so an explicit
// reference position leaves them bare.
func (l *lowerer) isReference(t types.TypeID) bool {
	switch l.in.Kind(t) {
	case types.KindReference, types.KindStr:
		return true
	}
	return false
}

func (l *lowerer) closure(id ast.ExprID) ir.Expr {
	data, _ := l.b.Exprs.Closure(id)
	bnds := l.t.ClosureParams(id)
	out := &ir.Closure{Params: make([]*ir.Param, len(data.Params))}
	for i, p := range data.Params {
		param := &ir.Param{Name: p.Name}
		if p.Type.IsValid() {
			param.Type = l.in.String(l.in.FromAST(l.b, p.Type))
		}
		if i < len(bnds) {
			param.Mut = l.ann.IsMutated(bnds[i])
		}
		out.Params[i] = param
	}
	out.Body = l.expr(data.Body)
	return out
}

func (l *lowerer) list(id ast.ExprID) ir.Expr {
	data, _ := l.b.Exprs.List(id)
	elem := types.NoTypeID
	if t, ok := l.in.Lookup(l.facts.Expr(id)); ok && t.Kind == types.KindVec {
		elem = t.Elem
	}
	out := &ir.VecLit{Elems: make([]ir.Expr, len(data.Elems))}
	for i, el := range data.Elems {
		out.Elems[i] = l.value(el, elem)
	}
	return out
}

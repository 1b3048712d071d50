package ownership

import (
	"highrust/internal/ast"
	"highrust/internal/symbols"
)

// Options tune the analysis.
type Options struct {
	// MethodMutation enables in-place mutation through mutating methods.
	// With it off IsMutated equals Reassigned.
	MethodMutation bool
}

// Analyze computes the mutability verdict of every binding of table.
func Analyze(table *symbols.Table, opts Options) *Annotations {
	w := walker{t: table, b: table.Builder, ann: newAnnotations(table), opts: opts}
	w.block(table.Func.Body)
	return w.ann
}

type walker struct {
	t    *symbols.Table
	b    *ast.Builder
	ann  *Annotations
	opts Options
}

func (w *walker) block(id ast.BlockID) {
	blk := w.b.Block(id)
	for _, s := range blk.Stmts {
		w.stmt(s)
	}
	w.expr(blk.Tail)
}

func (w *walker) stmt(id ast.StmtID) {
	st := w.b.Stmts.Get(id)
	switch st.Kind {
	case ast.StmtExpr:
		w.expr(w.b.Stmts.Expr(id).Expr)
	case ast.StmtLet:
		w.expr(w.b.Stmts.Let(id).Init)
	case ast.StmtAssign:
		as := w.b.Stmts.Assign(id)
		w.expr(as.Value)
		w.ann.markReassigned(w.t.AssignTarget(id), as.NameSpan)
	case ast.StmtReturn:
		w.expr(w.b.Stmts.Return(id).Value)
	case ast.StmtIf:
		data := w.b.Stmts.If(id)
		w.expr(data.Cond)
		w.block(data.Then)
		if data.Else.IsValid() {
			w.block(data.Else)
		}
	case ast.StmtWhile:
		data := w.b.Stmts.While(id)
		w.expr(data.Cond)
		w.block(data.Body)
	case ast.StmtFor:
		data := w.b.Stmts.For(id)
		w.expr(data.Iter)
		w.block(data.Body)
	}
}

func (w *walker) expr(id ast.ExprID) {
	if !id.IsValid() {
		return
	}
	e := w.b.Exprs.Get(id)
	switch e.Kind {
	case ast.ExprIdent:
		if bnd, ok := w.t.Ref(id); ok {
			if ann := w.ann.Get(bnd); ann != nil {
				if ann.Uses == 0 {
					ann.FirstUse = e.Span
				}
				ann.Uses++
			}
		}
	case ast.ExprCall:
		data, _ := w.b.Exprs.Call(id)
		w.expr(data.Callee)
		for _, a := range data.Args {
			w.expr(a)
		}
		w.callMutations(id, data)
	case ast.ExprMatch:
		data, _ := w.b.Exprs.Match(id)
		w.expr(data.Subject)
		for _, arm := range data.Arms {
			w.expr(arm.Guard)
			w.expr(arm.Body)
		}
	case ast.ExprBinary:
		data, _ := w.b.Exprs.Binary(id)
		w.expr(data.Left)
		w.expr(data.Right)
	case ast.ExprUnary:
		data, _ := w.b.Exprs.Unary(id)
		w.expr(data.X)
	case ast.ExprGroup:
		data, _ := w.b.Exprs.Group(id)
		w.expr(data.X)
	case ast.ExprTuple:
		data, _ := w.b.Exprs.Tuple(id)
		for _, el := range data.Elems {
			w.expr(el)
		}
	case ast.ExprList:
		data, _ := w.b.Exprs.List(id)
		for _, el := range data.Elems {
			w.expr(el)
		}
	case ast.ExprField:
		data, _ := w.b.Exprs.Field(id)
		w.expr(data.X)
	case ast.ExprMethod:
		data, _ := w.b.Exprs.Method(id)
		w.expr(data.Recv)
		for _, a := range data.Args {
			w.expr(a)
		}
		if w.opts.MethodMutation && IsMutatingMethod(data.Name) {
			if root, ok := Root(w.t, data.Recv); ok {
				w.ann.markInPlace(root, data.NameSpan)
			}
		}
	case ast.ExprClosure:
		data, _ := w.b.Exprs.Closure(id)
		w.expr(data.Body)
	case ast.ExprTry:
		data, _ := w.b.Exprs.Try(id)
		w.expr(data.X)
	case ast.ExprBlock:
		data, _ := w.b.Exprs.Block(id)
		w.block(data.Block)
	}
}

// callMutations marks arguments that will be passed as `&mut`.
func (w *walker) callMutations(id ast.ExprID, data *ast.ExprCallData) {
	c, ok := w.t.Callee(id)
	if !ok {
		return
	}
	for i, a := range data.Args {
		if !ExclusiveArg(w.t, c, i) {
			continue
		}
		if root, ok := Root(w.t, a); ok {
			w.ann.markInPlace(root, w.b.Exprs.Get(a).Span)
		}
	}
}

// ExclusiveArg reports whether argument i of a call to c is an exclusive
// borrow: the operand of mut_ref or a `&mut T` parameter of a module function.
func ExclusiveArg(t *symbols.Table, c symbols.Callee, i int) bool {
	switch c.Kind {
	case symbols.CalleeBuiltin:
		return c.Builtin == symbols.BuiltinRefMut && i == 0
	case symbols.CalleeModule:
		fn := t.Builder.Func(c.Func)
		if i >= len(fn.Params) || !fn.Params[i].Type.IsValid() {
			return false
		}
		return t.Builder.Type(fn.Params[i].Type).Kind == ast.TypeRefMut
	}
	return false
}

// Root returns the binding at the base of a place expression such as
// `x`, `(x)`, `x.items` or `x.0.1`.
func Root(t *symbols.Table, id ast.ExprID) (symbols.BindingID, bool) {
	for {
		e := t.Builder.Exprs.Get(id)
		if e == nil {
			return symbols.NoBindingID, false
		}
		switch e.Kind {
		case ast.ExprIdent:
			return t.Ref(id)
		case ast.ExprGroup:
			data, _ := t.Builder.Exprs.Group(id)
			id = data.X
		case ast.ExprField:
			data, _ := t.Builder.Exprs.Field(id)
			id = data.X
		default:
			return symbols.NoBindingID, false
		}
	}
}

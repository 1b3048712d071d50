package symbols

import (
	"highrust/internal/ast"
	"highrust/internal/diag"
	"highrust/internal/source"
)

// Build resolves every name in the function fnID of m.
// Failures are reported through r; the returned table is always usable
// and unresolved identifiers simply have no Ref.
func Build(m *Module, fnID ast.FuncID, r diag.Reporter) *Table {
	fn := m.Builder.Func(fnID)
	t := newTable(m.Builder, m, fn)
	res := resolver{t: t, b: m.Builder, r: r}

	t.Root = t.newScope(ScopeFunction, NoScopeID, fn.Span)
	for i, p := range fn.Params {
		if prev := t.scopes[t.Root].names[p.Name]; prev.IsValid() {
			diag.ReportError(r, diag.SemaDuplicateParam, p.Span, "parameter '"+p.Name+"' is declared more than once").
				WithNote(t.Binding(prev).Span, "previous declaration").
				Emit()
		}
		t.Params = append(t.Params, t.declare(t.Root, Binding{
			Name: p.Name, Kind: BindingParam, Span: p.Span, Type: p.Type, Param: i,
		}))
	}
	t.blocks[fn.Body] = t.Root
	res.blockIn(t.Root, fn.Body)
	return t
}

type resolver struct {
	t *Table
	b *ast.Builder
	r diag.Reporter
}

// blockIn walks the statements of blk directly in scope.
func (res *resolver) blockIn(scope ScopeID, blk ast.BlockID) {
	block := res.b.Block(blk)
	for _, s := range block.Stmts {
		res.stmt(scope, s)
	}
	res.expr(scope, block.Tail)
}

func (res *resolver) nested(kind ScopeKind, parent ScopeID, blk ast.BlockID) {
	scope := res.t.newScope(kind, parent, res.b.Block(blk).Span)
	res.t.blocks[blk] = scope
	res.blockIn(scope, blk)
}

// stmt resolves one statement. A let is declared after its initializer so
// `let x = x + 1` reads the previous x.
func (res *resolver) stmt(scope ScopeID, id ast.StmtID) {
	st := res.b.Stmts.Get(id)
	switch st.Kind {
	case ast.StmtExpr:
		res.expr(scope, res.b.Stmts.Expr(id).Expr)
	case ast.StmtLet:
		let := res.b.Stmts.Let(id)
		res.expr(scope, let.Init)
		res.t.decls[id] = res.t.declare(scope, Binding{
			Name: let.Name, Kind: BindingLet, Span: let.NameSpan, Type: let.Type, Stmt: id,
		})
	case ast.StmtAssign:
		as := res.b.Stmts.Assign(id)
		res.expr(scope, as.Value)
		target := res.t.lookup(scope, as.Name)
		if !target.IsValid() {
			res.nameError(as.NameSpan, as.Name, "cannot assign to undeclared name")
			break
		}
		res.t.assigns[id] = target
		if bnd := res.t.Binding(target); bnd.Kind == BindingParam {
			diag.ReportInfo(res.r, diag.SemaAssignToParam, as.NameSpan,
				"parameter '"+as.Name+"' is reassigned and will be declared 'mut'").
				WithNote(bnd.Span, "parameter declared here").
				Emit()
		}
	case ast.StmtReturn:
		if v := res.b.Stmts.Return(id).Value; v.IsValid() {
			res.expr(scope, v)
		}
	case ast.StmtIf:
		data := res.b.Stmts.If(id)
		res.expr(scope, data.Cond)
		res.nested(ScopeBlock, scope, data.Then)
		if data.Else.IsValid() {
			res.nested(ScopeBlock, scope, data.Else)
		}
	case ast.StmtWhile:
		data := res.b.Stmts.While(id)
		res.expr(scope, data.Cond)
		res.nested(ScopeLoop, scope, data.Body)
	case ast.StmtFor:
		data := res.b.Stmts.For(id)
		res.expr(scope, data.Iter)
		loop := res.t.newScope(ScopeLoop, scope, st.Span)
		res.t.decls[id] = res.t.declare(loop, Binding{
			Name: data.Var, Kind: BindingLoopVar, Span: data.VarSpan, Stmt: id,
		})
		res.t.blocks[data.Body] = loop
		res.blockIn(loop, data.Body)
	}
}

func (res *resolver) expr(scope ScopeID, id ast.ExprID) {
	if !id.IsValid() {
		return
	}
	e := res.b.Exprs.Get(id)
	switch e.Kind {
	case ast.ExprIdent:
		data, _ := res.b.Exprs.Ident(id)
		if bnd := res.t.lookup(scope, data.Name); bnd.IsValid() {
			res.t.refs[id] = bnd
			return
		}
		if IsBuiltinValue(data.Name) {
			return
		}
		if _, ok := res.t.Module.Func(data.Name); ok {
			// a function passed by name, e.g. map(xs, double)
			return
		}
		res.nameError(e.Span, data.Name, "use of undeclared name")
	case ast.ExprLit:
	case ast.ExprCall:
		data, _ := res.b.Exprs.Call(id)
		res.callee(scope, id, data.Callee)
		for _, a := range data.Args {
			res.expr(scope, a)
		}
	case ast.ExprMatch:
		data, _ := res.b.Exprs.Match(id)
		res.expr(scope, data.Subject)
		for _, arm := range data.Arms {
			armScope := res.t.newScope(ScopeArm, scope, arm.Span)
			seen := make(map[string]source.Span)
			res.pattern(armScope, arm.Pattern, seen)
			res.expr(armScope, arm.Guard)
			res.expr(armScope, arm.Body)
		}
	case ast.ExprBinary:
		data, _ := res.b.Exprs.Binary(id)
		res.expr(scope, data.Left)
		res.expr(scope, data.Right)
	case ast.ExprUnary:
		data, _ := res.b.Exprs.Unary(id)
		res.expr(scope, data.X)
	case ast.ExprGroup:
		data, _ := res.b.Exprs.Group(id)
		res.expr(scope, data.X)
	case ast.ExprTuple:
		data, _ := res.b.Exprs.Tuple(id)
		for _, el := range data.Elems {
			res.expr(scope, el)
		}
	case ast.ExprList:
		data, _ := res.b.Exprs.List(id)
		for _, el := range data.Elems {
			res.expr(scope, el)
		}
	case ast.ExprField:
		data, _ := res.b.Exprs.Field(id)
		res.expr(scope, data.X)
	case ast.ExprMethod:
		data, _ := res.b.Exprs.Method(id)
		res.expr(scope, data.Recv)
		for _, a := range data.Args {
			res.expr(scope, a)
		}
	case ast.ExprClosure:
		data, _ := res.b.Exprs.Closure(id)
		cl := res.t.newScope(ScopeClosure, scope, e.Span)
		res.t.lambdas[id] = cl
		params := make([]BindingID, 0, len(data.Params))
		for i, p := range data.Params {
			if prev := res.t.scopes[cl].names[p.Name]; prev.IsValid() {
				diag.ReportError(res.r, diag.SemaDuplicateParam, p.Span, "closure parameter '"+p.Name+"' is declared more than once").Emit()
			}
			params = append(params, res.t.declare(cl, Binding{
				Name: p.Name, Kind: BindingClosureParam, Span: p.Span, Type: p.Type, Param: i, Closure: id,
			}))
		}
		res.t.closures[id] = params
		res.expr(cl, data.Body)
	case ast.ExprTry:
		data, _ := res.b.Exprs.Try(id)
		res.expr(scope, data.X)
	case ast.ExprBlock:
		data, _ := res.b.Exprs.Block(id)
		res.nested(ScopeBlock, scope, data.Block)
	}
}

// callee resolves the target of a call. Plain names are looked up as locals
// first, then module functions and builtins; anything else is external.
func (res *resolver) callee(scope ScopeID, call, callee ast.ExprID) {
	data, isIdent := res.b.Exprs.Ident(callee)
	if !isIdent {
		res.expr(scope, callee)
		return
	}
	c := Callee{Name: data.Name}
	switch bnd := res.t.lookup(scope, data.Name); {
	case bnd.IsValid():
		res.t.refs[callee] = bnd
		c.Kind, c.Binding = CalleeLocal, bnd
	default:
		if fn, ok := res.t.Module.Func(data.Name); ok {
			c.Kind, c.Func = CalleeModule, fn
		} else if bk, ok := LookupBuiltin(data.Name); ok {
			c.Kind, c.Builtin = CalleeBuiltin, bk
		} else {
			c.Kind = CalleeExternal
		}
	}
	res.t.callees[call] = c
}

func (res *resolver) pattern(scope ScopeID, id ast.PatternID, seen map[string]source.Span) {
	p := res.b.Pattern(id)
	switch p.Kind {
	case ast.PatBinding:
		if prev, dup := seen[p.Name]; dup {
			diag.ReportError(res.r, diag.SemaDuplicateParam, p.Span, "identifier '"+p.Name+"' is bound more than once in the same pattern").
				WithNote(prev, "first bound here").
				Emit()
			return
		}
		seen[p.Name] = p.Span
		res.t.patterns[id] = res.t.declare(scope, Binding{
			Name: p.Name, Kind: BindingPattern, Span: p.Span, Pattern: id,
		})
	case ast.PatTuple:
		for _, el := range p.Elems {
			res.pattern(scope, el, seen)
		}
	}
}

func (res *resolver) nameError(sp source.Span, name, msg string) {
	diag.ReportError(res.r, diag.SemaNameError, sp, msg+" '"+name+"'").Emit()
}

package types

import (
	"highrust/internal/ast"
	"highrust/internal/symbols"
)

// Facts holds the locally inferred type of every binding and expression of
// one function. Inference is forward only and never fails; anything it
// cannot see through is Unknown.
type Facts struct {
	In       *Interner
	bindings []TypeID
	exprs    map[ast.ExprID]TypeID
}

// Binding returns the type of a binding.
func (f *Facts) Binding(id symbols.BindingID) TypeID {
	if int(id) < len(f.bindings) && f.bindings[id] != NoTypeID {
		return f.bindings[id]
	}
	return f.In.builtins.Unknown
}

// Expr returns the type of an expression.
func (f *Facts) Expr(id ast.ExprID) TypeID {
	if t, ok := f.exprs[id]; ok {
		return t
	}
	return f.In.builtins.Unknown
}

// Infer computes Facts for the function behind table.
// Parameters without a written type are i32.
func Infer(table *symbols.Table) *Facts {
	in := NewInterner()
	f := &Facts{
		In:       in,
		bindings: make([]TypeID, table.NumBindings()+1),
		exprs:    make(map[ast.ExprID]TypeID),
	}
	inf := inferrer{f: f, in: in, t: table, b: table.Builder}
	for _, id := range table.Params {
		bnd := table.Binding(id)
		if bnd.Type.IsValid() {
			f.bindings[id] = in.FromAST(inf.b, bnd.Type)
		} else {
			f.bindings[id] = in.builtins.Int
		}
	}
	inf.block(table.Func.Body)
	return f
}

type inferrer struct {
	f  *Facts
	in *Interner
	t  *symbols.Table
	b  *ast.Builder
}

func (inf *inferrer) block(id ast.BlockID) TypeID {
	blk := inf.b.Block(id)
	for _, s := range blk.Stmts {
		inf.stmt(s)
	}
	if blk.Tail.IsValid() {
		return inf.expr(blk.Tail)
	}
	return inf.in.builtins.Unit
}

func (inf *inferrer) stmt(id ast.StmtID) {
	st := inf.b.Stmts.Get(id)
	switch st.Kind {
	case ast.StmtExpr:
		inf.expr(inf.b.Stmts.Expr(id).Expr)
	case ast.StmtLet:
		let := inf.b.Stmts.Let(id)
		init := inf.expr(let.Init)
		if let.Type.IsValid() {
			init = inf.in.FromAST(inf.b, let.Type)
		}
		inf.setBinding(inf.t.Decl(id), init)
	case ast.StmtAssign:
		inf.expr(inf.b.Stmts.Assign(id).Value)
	case ast.StmtReturn:
		inf.expr(inf.b.Stmts.Return(id).Value)
	case ast.StmtIf:
		data := inf.b.Stmts.If(id)
		inf.expr(data.Cond)
		inf.block(data.Then)
		if data.Else.IsValid() {
			inf.block(data.Else)
		}
	case ast.StmtWhile:
		data := inf.b.Stmts.While(id)
		inf.expr(data.Cond)
		inf.block(data.Body)
	case ast.StmtFor:
		data := inf.b.Stmts.For(id)
		iter := inf.expr(data.Iter)
		inf.setBinding(inf.t.Decl(id), inf.itemType(iter))
		inf.block(data.Body)
	}
}

// itemType is the loop variable type for `for x in iter`. Ranges yield
// their bound type and collections are iterated by reference.
func (inf *inferrer) itemType(iter TypeID) TypeID {
	t, _ := inf.in.Lookup(inf.in.Deref(iter))
	switch t.Kind {
	case KindInt:
		return inf.in.Deref(iter)
	case KindVec:
		return inf.in.Intern(MakeReference(t.Elem, false))
	}
	return inf.in.builtins.Unknown
}

func (inf *inferrer) setBinding(id symbols.BindingID, t TypeID) {
	if id.IsValid() && int(id) < len(inf.f.bindings) {
		inf.f.bindings[id] = t
	}
}

func (inf *inferrer) expr(id ast.ExprID) TypeID {
	if !id.IsValid() {
		return NoTypeID
	}
	t := inf.exprType(id)
	if t == NoTypeID {
		t = inf.in.builtins.Unknown
	}
	inf.f.exprs[id] = t
	return t
}

func (inf *inferrer) exprType(id ast.ExprID) TypeID {
	bi := inf.in.builtins
	e := inf.b.Exprs.Get(id)
	switch e.Kind {
	case ast.ExprIdent:
		if bnd, ok := inf.t.Ref(id); ok {
			return inf.f.Binding(bnd)
		}
		return bi.Unknown
	case ast.ExprLit:
		data, _ := inf.b.Exprs.Literal(id)
		switch data.Kind {
		case ast.LitString:
			return bi.Str
		case ast.LitInt:
			return bi.Int
		case ast.LitFloat:
			return bi.Float
		case ast.LitBool:
			return bi.Bool
		}
	case ast.ExprBinary:
		data, _ := inf.b.Exprs.Binary(id)
		l := inf.expr(data.Left)
		r := inf.expr(data.Right)
		switch {
		case data.Op.IsComparison() || data.Op == ast.BinAnd || data.Op == ast.BinOr:
			return bi.Bool
		case data.Op == ast.BinAdd && (l == bi.String || l == bi.Str):
			return bi.String
		case data.Op == ast.BinRange:
			return inf.in.Deref(l)
		case inf.in.Known(l):
			return inf.in.Deref(l)
		default:
			return inf.in.Deref(r)
		}
	case ast.ExprUnary:
		data, _ := inf.b.Exprs.Unary(id)
		x := inf.expr(data.X)
		if data.Op == ast.UnNot {
			return bi.Bool
		}
		return inf.in.Deref(x)
	case ast.ExprGroup:
		data, _ := inf.b.Exprs.Group(id)
		return inf.expr(data.X)
	case ast.ExprTuple:
		data, _ := inf.b.Exprs.Tuple(id)
		elems := make([]TypeID, len(data.Elems))
		for i, el := range data.Elems {
			elems[i] = inf.expr(el)
		}
		return inf.in.Tuple(elems)
	case ast.ExprList:
		data, _ := inf.b.Exprs.List(id)
		elem := bi.Unknown
		for i, el := range data.Elems {
			if t := inf.expr(el); i == 0 {
				elem = t
			}
		}
		if elem == bi.Str {
			elem = bi.String
		}
		return inf.in.Intern(MakeVec(elem))
	case ast.ExprField:
		data, _ := inf.b.Exprs.Field(id)
		x := inf.in.Deref(inf.expr(data.X))
		if elems := inf.in.Elems(x); data.Index >= 0 && data.Index < len(elems) {
			return elems[data.Index]
		}
		return bi.Unknown
	case ast.ExprMethod:
		return inf.method(id)
	case ast.ExprCall:
		return inf.call(id)
	case ast.ExprClosure:
		data, _ := inf.b.Exprs.Closure(id)
		for i, p := range inf.t.ClosureParams(id) {
			if i < len(data.Params) && data.Params[i].Type.IsValid() {
				inf.setBinding(p, inf.in.FromAST(inf.b, data.Params[i].Type))
			}
		}
		inf.expr(data.Body)
		return bi.Closure
	case ast.ExprTry:
		data, _ := inf.b.Exprs.Try(id)
		x, _ := inf.in.Lookup(inf.expr(data.X))
		if x.Kind == KindOption || x.Kind == KindResult {
			return x.Elem
		}
		return bi.Unknown
	case ast.ExprMatch:
		return inf.match(id)
	case ast.ExprBlock:
		data, _ := inf.b.Exprs.Block(id)
		return inf.block(data.Block)
	}
	return bi.Unknown
}

func (inf *inferrer) match(id ast.ExprID) TypeID {
	data, _ := inf.b.Exprs.Match(id)
	subject := inf.expr(data.Subject)
	result := NoTypeID
	for _, arm := range data.Arms {
		inf.bindPattern(arm.Pattern, subject)
		inf.expr(arm.Guard)
		if t := inf.expr(arm.Body); result == NoTypeID || !inf.in.Known(result) {
			result = t
		}
	}
	return result
}

// bindPattern gives pattern bindings the projected subject type.
func (inf *inferrer) bindPattern(id ast.PatternID, subject TypeID) {
	p := inf.b.Pattern(id)
	switch p.Kind {
	case ast.PatBinding:
		inf.setBinding(inf.t.PatternBinding(id), subject)
	case ast.PatTuple:
		elems := inf.in.Elems(inf.in.Deref(subject))
		idx := 0
		for i, el := range p.Elems {
			if inf.b.Pattern(el).Kind == ast.PatRest {
				// elements after `..` count from the end
				idx = len(elems) - (len(p.Elems) - i - 1)
				continue
			}
			sub := inf.in.builtins.Unknown
			if idx >= 0 && idx < len(elems) {
				sub = elems[idx]
			}
			inf.bindPattern(el, sub)
			idx++
		}
	}
}

func (inf *inferrer) call(id ast.ExprID) TypeID {
	bi := inf.in.builtins
	data, _ := inf.b.Exprs.Call(id)
	args := make([]TypeID, len(data.Args))
	for i, a := range data.Args {
		args[i] = inf.expr(a)
	}
	arg := func(i int) TypeID {
		if i < len(args) {
			return args[i]
		}
		return bi.Unknown
	}
	c, ok := inf.t.Callee(id)
	if !ok {
		inf.expr(data.Callee)
		return bi.Unknown
	}
	switch c.Kind {
	case symbols.CalleeLocal:
		inf.expr(data.Callee)
	case symbols.CalleeModule:
		fn := inf.b.Func(c.Func)
		if !fn.Result.IsValid() {
			return bi.Unit
		}
		return inf.in.FromAST(inf.b, fn.Result)
	case symbols.CalleeBuiltin:
		switch c.Name {
		case "format":
			return bi.String
		case "ref":
			return inf.in.Intern(MakeReference(arg(0), false))
		case "mut_ref":
			return inf.in.Intern(MakeReference(arg(0), true))
		case "Some":
			return inf.in.Intern(MakeOption(arg(0)))
		case "Ok":
			return inf.in.Intern(MakeResult(arg(0), bi.Unknown))
		case "Err":
			return inf.in.Intern(MakeResult(bi.Unknown, arg(0)))
		}
		return bi.Unit
	}
	return bi.Unknown
}

func (inf *inferrer) method(id ast.ExprID) TypeID {
	bi := inf.in.builtins
	data, _ := inf.b.Exprs.Method(id)
	recv := inf.expr(data.Recv)
	for _, a := range data.Args {
		inf.expr(a)
	}
	base := inf.in.Deref(recv)
	switch data.Name {
	case "to_string", "to_owned", "to_uppercase", "to_lowercase":
		if data.Name == "to_owned" && base != bi.Str {
			return base
		}
		return bi.String
	case "clone":
		return base
	case "len", "count":
		return bi.Usize
	case "is_empty", "contains", "starts_with", "ends_with", "is_some", "is_none", "is_ok", "is_err":
		return bi.Bool
	case "trim", "as_str":
		return bi.Str
	}
	return bi.Unknown
}

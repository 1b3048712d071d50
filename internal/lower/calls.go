package lower

import (
	"strings"

	"highrust/internal/ast"
	"highrust/internal/borrow"
	"highrust/internal/diag"
	"highrust/internal/ir"
	"highrust/internal/symbols"
	"highrust/internal/types"
)

// formatting lists print-family macros whose first argument is a format
// string. When it is missing one placeholder per argument is synthesized.
var formatting = map[string]bool{
	"print": true, "println": true, "eprint": true, "eprintln": true,
	"format": true, "panic": true,
}

func (l *lowerer) call(id ast.ExprID) ir.Expr {
	data, _ := l.b.Exprs.Call(id)
	callee, resolved := l.t.Callee(id)
	if resolved && callee.Kind == symbols.CalleeBuiltin {
		switch callee.Builtin {
		case symbols.BuiltinPrint:
			return l.macro(callee.Name, data.Args)
		case symbols.BuiltinRef, symbols.BuiltinRefMut:
			return l.refCall(id, callee, data.Args)
		}
	}

	out := &ir.Call{Args: make([]ir.Expr, len(data.Args))}
	switch {
	case !resolved, callee.Kind == symbols.CalleeLocal:
		out.Callee = l.expr(data.Callee)
	default:
		out.Callee = &ir.Name{Name: callee.Name}
	}
	for i, a := range data.Args {
		x := l.value(a, l.paramType(callee, i))
		switch borrow.ArgContext(l.t, callee, i, l.opts.Borrow) {
		case borrow.CtxArgShared:
			x = l.borrowArg(a, x, false)
		case borrow.CtxArgExclusive:
			x = l.borrowArg(a, x, true)
		}
		out.Args[i] = x
	}
	return out
}

// paramType is the declared type of parameter i of a module function.
func (l *lowerer) paramType(c symbols.Callee, i int) types.TypeID {
	if c.Kind != symbols.CalleeModule {
		return types.NoTypeID
	}
	fn := l.b.Func(c.Func)
	if i >= len(fn.Params) || !fn.Params[i].Type.IsValid() {
		return types.NoTypeID
	}
	return l.in.FromAST(l.b, fn.Params[i].Type)
}

// borrowArg wraps an argument passed by reference unless it is a binding
// use, which carries its own explicit reference, or already a borrow.
func (l *lowerer) borrowArg(src ast.ExprID, x ir.Expr, mut bool) ir.Expr {
	switch x := unparen(x).(type) {
	case *ir.Ref, *ir.Borrow:
		return x
	}
	if l.isReference(l.facts.Expr(src)) {
		return x
	}
	return &ir.Borrow{X: x, Mut: mut}
}

func unparen(x ir.Expr) ir.Expr {
	for {
		p, ok := x.(*ir.Paren)
		if !ok {
			return x
		}
		x = p.X
	}
}

func (l *lowerer) macro(name string, args []ast.ExprID) ir.Expr {
	out := &ir.MacroCall{Name: name, Args: make([]ir.Expr, 0, len(args)+1)}
	if formatting[name] && len(args) > 0 && !l.isStringLit(args[0]) {
		out.Args = append(out.Args, &ir.Lit{
			Kind: ir.LitString,
			Text: `"` + strings.TrimSuffix(strings.Repeat("{} ", len(args)), " ") + `"`,
		})
	}
	for _, a := range args {
		out.Args = append(out.Args, l.expr(a))
	}
	return out
}

func (l *lowerer) isStringLit(id ast.ExprID) bool {
	data, ok := l.b.Exprs.Literal(id)
	return ok && data.Kind == ast.LitString
}

// refCall lowers ref(x) and mut_ref(x). A binding operand is a Ref in an
// explicit position; anything else is borrowed as a whole.
func (l *lowerer) refCall(id ast.ExprID, c symbols.Callee, args []ast.ExprID) ir.Expr {
	if len(args) != 1 {
		diag.ReportError(l.r, diag.LowUnsupportedConstruct, l.b.Exprs.Get(id).Span,
			c.Name+" takes exactly one argument").Emit()
		return &ir.Tuple{}
	}
	x := l.expr(args[0])
	if _, ok := unparen(x).(*ir.Ref); ok {
		return x
	}
	return &ir.Borrow{X: x, Mut: c.Builtin == symbols.BuiltinRefMut}
}

func (l *lowerer) binary(id ast.ExprID) ir.Expr {
	data, _ := l.b.Exprs.Binary(id)
	left := l.expr(data.Left)
	right := l.expr(data.Right)
	if data.Op == ast.BinAdd && l.facts.Expr(id) == l.in.Builtins().String {
		left = l.concatHead(data.Left, left)
		right = l.concatRight(data.Right, right)
	}
	return &ir.Binary{Op: data.Op.String(), Left: left, Right: right}
}

// concatHead makes the left operand of string `+` an owned String.
func (l *lowerer) concatHead(src ast.ExprID, x ir.Expr) ir.Expr {
	if lit, ok := x.(*ir.Lit); ok && lit.Kind == ir.LitString {
		lit.Owned = true
		return lit
	}
	if l.isReference(l.facts.Expr(src)) {
		return &ir.Owned{X: x}
	}
	return x
}

// concatRight borrows an owned String appended with `+` or `+=`.
func (l *lowerer) concatRight(src ast.ExprID, x ir.Expr) ir.Expr {
	if l.facts.Expr(src) != l.in.Builtins().String {
		return x
	}
	if _, ok := x.(*ir.Borrow); ok {
		return x
	}
	return &ir.Borrow{X: x}
}

// value lowers an expression whose result flows into a slot of type want.
// It inserts the conversion from a borrowed string when want is String.
// NoTypeID means no expectation.
func (l *lowerer) value(id ast.ExprID, want types.TypeID) ir.Expr {
	e := l.b.Exprs.Get(id)
	switch e.Kind {
	case ast.ExprMatch, ast.ExprBlock, ast.ExprGroup:
		l.enter(e.Span)
		defer l.leave()
	}
	switch e.Kind {
	case ast.ExprMatch:
		return l.match(id, want)
	case ast.ExprBlock:
		data, _ := l.b.Exprs.Block(id)
		return &ir.BlockExpr{Block: l.block(data.Block, want)}
	case ast.ExprGroup:
		data, _ := l.b.Exprs.Group(id)
		return &ir.Paren{X: l.value(data.X, want)}
	}
	x := l.expr(id)
	if want != l.in.Builtins().String || l.facts.Expr(id) != l.in.Builtins().Str {
		return x
	}
	if lit, ok := x.(*ir.Lit); ok && lit.Kind == ir.LitString {
		lit.Owned = true
		return lit
	}
	return &ir.Owned{X: x}
}

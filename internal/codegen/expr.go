package codegen

import (
	"strings"

	"highrust/internal/borrow"
	"highrust/internal/ir"
)

func (g *generator) expr(e ir.Expr) string {
	g.enter()
	defer g.leave()

	switch e := e.(type) {
	case *ir.Ref:
		return g.ref(e)
	case *ir.Lit:
		if e.Owned {
			return e.Text + ".to_string()"
		}
		return e.Text
	case *ir.Name:
		return e.Name
	case *ir.Call:
		return g.postfix(e.Callee) + "(" + g.list(e.Args) + ")"
	case *ir.MacroCall:
		return e.Name + "!(" + g.list(e.Args) + ")"
	case *ir.MethodCall:
		return g.postfix(e.Recv) + "." + e.Method + "(" + g.list(e.Args) + ")"
	case *ir.Field:
		return g.postfix(e.X) + "." + e.Name
	case *ir.Binary:
		return g.expr(e.Left) + " " + e.Op + " " + g.expr(e.Right)
	case *ir.Unary:
		return e.Op + g.operand(e.X)
	case *ir.Paren:
		return "(" + g.expr(e.X) + ")"
	case *ir.Tuple:
		if len(e.Elems) == 1 {
			return "(" + g.expr(e.Elems[0]) + ",)"
		}
		return "(" + g.list(e.Elems) + ")"
	case *ir.VecLit:
		return "vec![" + g.list(e.Elems) + "]"
	case *ir.Closure:
		params := make([]string, len(e.Params))
		for i, p := range e.Params {
			params[i] = param(p, false)
		}
		return "|" + strings.Join(params, ", ") + "| " + g.expr(e.Body)
	case *ir.Propagate:
		return g.postfix(e.X) + "?"
	case *ir.Borrow:
		op := "&"
		if e.Mut {
			op = "&mut "
		}
		return op + g.operand(e.X)
	case *ir.Owned:
		return g.postfix(e.X) + ".to_string()"
	case *ir.BlockExpr:
		return g.block(e.Block)
	case *ir.Match:
		return g.match(e)
	}
	return "()"
}

// ref writes a binding use according to its mode. Borrow operators appear
// only where the IR marks the position explicit.
func (g *generator) ref(r *ir.Ref) string {
	s := r.Name
	if r.Mode == borrow.Duplicate {
		s += ".clone()"
	}
	if !r.Explicit {
		return s
	}
	switch {
	case r.Mode == borrow.BorrowExclusive,
		r.Mode == borrow.Duplicate && r.Context == borrow.CtxArgExclusive:
		return "&mut " + s
	case r.Mode == borrow.Move:
		return s
	}
	return "&" + s
}

func (g *generator) list(es []ir.Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = g.expr(e)
	}
	return strings.Join(parts, ", ")
}

// postfix writes e as the base of a call, field, method or `?`.
func (g *generator) postfix(e ir.Expr) string {
	switch e := e.(type) {
	case *ir.Binary, *ir.Unary, *ir.Borrow, *ir.Closure:
		return "(" + g.expr(e) + ")"
	case *ir.Ref:
		if e.Explicit && e.Mode != borrow.Move {
			return "(" + g.expr(e) + ")"
		}
	}
	return g.expr(e)
}

// operand writes e after a prefix operator.
func (g *generator) operand(e ir.Expr) string {
	if _, ok := e.(*ir.Binary); ok {
		return "(" + g.expr(e) + ")"
	}
	return g.expr(e)
}

// block writes a braced block spanning several lines; the closing brace
// is aligned with the line the block starts on.
func (g *generator) block(b *ir.Block) string {
	if len(b.Stmts) == 0 && b.Tail == nil {
		return "{}"
	}
	var sub generator
	sub.unit, sub.opts, sub.depth = g.unit, g.opts, g.depth
	sub.indent = g.indent + 1
	sub.body(b)
	return "{\n" + sub.sb.String() + g.indentStr() + "}"
}

func (g *generator) match(m *ir.Match) string {
	var buf strings.Builder
	buf.WriteString("match ")
	if m.AsStr {
		buf.WriteString(g.postfix(m.Subject) + ".as_str()")
	} else {
		buf.WriteString(g.expr(m.Subject))
	}
	buf.WriteString(" {\n")

	g.incIndent()
	for _, arm := range m.Arms {
		buf.WriteString(g.indentStr())
		buf.WriteString(g.pattern(arm, ir.Path{}))
		if guards := arm.Guards(); len(guards) > 0 {
			buf.WriteString(" if ")
			buf.WriteString(g.guard(guards))
		}
		buf.WriteString(" => ")
		buf.WriteString(g.expr(arm.Body))
		if !blockLike(arm.Body) {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	g.decIndent()

	buf.WriteString(g.indentStr())
	buf.WriteString("}")
	return buf.String()
}

func (g *generator) guard(guards []ir.Expr) string {
	if len(guards) == 1 {
		return g.expr(guards[0])
	}
	parts := make([]string, len(guards))
	for i, e := range guards {
		if b, ok := e.(*ir.Binary); ok && b.Op == "||" {
			parts[i] = "(" + g.expr(e) + ")"
			continue
		}
		parts[i] = g.expr(e)
	}
	return strings.Join(parts, " && ")
}

// pattern rebuilds Rust pattern syntax for the subject component at p from
// the arm's shapes, bindings and equality tests.
func (g *generator) pattern(a *ir.Arm, p ir.Path) string {
	g.enter()
	defer g.leave()

	for _, s := range a.Shapes {
		if !s.Path.Equal(p) {
			continue
		}
		parts := make([]string, 0, s.Len+1)
		for j := 0; j < s.Len; j++ {
			if j == s.RestAt {
				parts = append(parts, "..")
			}
			idx := j
			if s.RestAt >= 0 && j >= s.RestAt {
				idx = -(s.Len - j)
			}
			parts = append(parts, g.pattern(a, p.Child(idx)))
		}
		if s.RestAt == s.Len {
			parts = append(parts, "..")
		}
		if len(parts) == 1 && s.RestAt < 0 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	for _, b := range a.Binds {
		if !b.Path.Equal(p) {
			continue
		}
		name := b.Name
		if b.Mut {
			name = "mut " + name
		}
		if b.ByRef {
			name = "ref " + name
		}
		return name
	}
	for _, c := range a.Conds {
		if c.Kind == ir.CondEquals && c.Path.Equal(p) {
			return c.Lit.Text
		}
	}
	return "_"
}

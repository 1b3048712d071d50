package ast

import (
	"fmt"
	"strings"
)

// Dump renders a file as compact s-expressions, one item per line with
// data definitions first. The format is stable and used by parser tests.
func Dump(b *Builder, f *File) string {
	d := dumper{b: b}
	for i := range f.Data {
		d.data(&f.Data[i])
		d.sb.WriteByte('\n')
	}
	for i, id := range f.Funcs {
		if i > 0 {
			d.sb.WriteByte('\n')
		}
		d.fn(b.Func(id))
	}
	return strings.TrimSuffix(d.sb.String(), "\n")
}

// DumpExpr renders a single expression.
func DumpExpr(b *Builder, id ExprID) string {
	d := dumper{b: b}
	d.expr(id)
	return d.sb.String()
}

type dumper struct {
	b  *Builder
	sb strings.Builder
}

func (d *dumper) printf(format string, args ...any) {
	fmt.Fprintf(&d.sb, format, args...)
}

func (d *dumper) fn(fn *Func) {
	d.printf("(fn %s (", fn.Name)
	d.params(fn.Params)
	d.sb.WriteString(")")
	if fn.Result.IsValid() {
		d.sb.WriteString(" -> ")
		d.typ(fn.Result)
	}
	d.sb.WriteByte(' ')
	d.block(fn.Body)
	d.sb.WriteByte(')')
}

func (d *dumper) data(dd *Data) {
	d.printf("(%s %s", dd.Kind, dd.Name)
	for _, f := range dd.Fields {
		d.printf(" %s:", f.Name)
		d.typ(f.Type)
	}
	for _, v := range dd.Variants {
		d.printf(" %s", v.Name)
		if len(v.Fields) == 0 {
			continue
		}
		d.sb.WriteByte('(')
		for i, t := range v.Fields {
			if i > 0 {
				d.sb.WriteByte(' ')
			}
			d.typ(t)
		}
		d.sb.WriteByte(')')
	}
	d.sb.WriteByte(')')
}

func (d *dumper) params(params []Param) {
	for i, p := range params {
		if i > 0 {
			d.sb.WriteByte(' ')
		}
		d.sb.WriteString(p.Name)
		if p.Type.IsValid() {
			d.sb.WriteByte(':')
			d.typ(p.Type)
		}
	}
}

func (d *dumper) typ(id TypeID) {
	t := d.b.Type(id)
	switch t.Kind {
	case TypeUnit:
		d.sb.WriteString("()")
	case TypeRef, TypeRefMut:
		if t.Kind == TypeRef {
			d.sb.WriteString("&")
		} else {
			d.sb.WriteString("&mut ")
		}
		d.typ(t.Args[0])
	case TypeTuple:
		d.sb.WriteByte('(')
		for i, a := range t.Args {
			if i > 0 {
				d.sb.WriteByte(',')
			}
			d.typ(a)
		}
		d.sb.WriteByte(')')
	default:
		d.sb.WriteString(t.Name)
		if len(t.Args) > 0 {
			d.sb.WriteByte('<')
			for i, a := range t.Args {
				if i > 0 {
					d.sb.WriteByte(',')
				}
				d.typ(a)
			}
			d.sb.WriteByte('>')
		}
	}
}

func (d *dumper) block(id BlockID) {
	blk := d.b.Block(id)
	d.sb.WriteString("{")
	for _, s := range blk.Stmts {
		d.sb.WriteByte(' ')
		d.stmt(s)
	}
	if blk.Tail.IsValid() {
		d.sb.WriteString(" (tail ")
		d.expr(blk.Tail)
		d.sb.WriteByte(')')
	}
	d.sb.WriteString(" }")
}

func (d *dumper) stmt(id StmtID) {
	st := d.b.Stmts.Get(id)
	switch st.Kind {
	case StmtExpr:
		d.expr(d.b.Stmts.Expr(id).Expr)
		d.sb.WriteByte(';')
	case StmtLet:
		let := d.b.Stmts.Let(id)
		d.printf("(let %s", let.Name)
		if let.Type.IsValid() {
			d.sb.WriteByte(':')
			d.typ(let.Type)
		}
		d.sb.WriteByte(' ')
		d.expr(let.Init)
		d.sb.WriteByte(')')
	case StmtAssign:
		as := d.b.Stmts.Assign(id)
		op := [...]string{"=", "+=", "-="}[as.Op]
		d.printf("(%s %s ", op, as.Name)
		d.expr(as.Value)
		d.sb.WriteByte(')')
	case StmtReturn:
		ret := d.b.Stmts.Return(id)
		d.sb.WriteString("(return")
		if ret.Value.IsValid() {
			d.sb.WriteByte(' ')
			d.expr(ret.Value)
		}
		d.sb.WriteByte(')')
	case StmtIf:
		data := d.b.Stmts.If(id)
		d.sb.WriteString("(if ")
		d.expr(data.Cond)
		d.sb.WriteByte(' ')
		d.block(data.Then)
		if data.Else.IsValid() {
			d.sb.WriteString(" else ")
			d.block(data.Else)
		}
		d.sb.WriteByte(')')
	case StmtWhile:
		data := d.b.Stmts.While(id)
		d.sb.WriteString("(while ")
		d.expr(data.Cond)
		d.sb.WriteByte(' ')
		d.block(data.Body)
		d.sb.WriteByte(')')
	case StmtFor:
		data := d.b.Stmts.For(id)
		d.printf("(for %s ", data.Var)
		d.expr(data.Iter)
		d.sb.WriteByte(' ')
		d.block(data.Body)
		d.sb.WriteByte(')')
	}
}

func (d *dumper) exprs(ids []ExprID) {
	for _, id := range ids {
		d.sb.WriteByte(' ')
		d.expr(id)
	}
}

func (d *dumper) expr(id ExprID) {
	e := d.b.Exprs.Get(id)
	if e == nil {
		d.sb.WriteString("<nil>")
		return
	}
	switch e.Kind {
	case ExprIdent:
		data, _ := d.b.Exprs.Ident(id)
		d.sb.WriteString(data.Name)
	case ExprLit:
		data, _ := d.b.Exprs.Literal(id)
		d.sb.WriteString(data.Text)
	case ExprCall:
		data, _ := d.b.Exprs.Call(id)
		d.sb.WriteString("(call ")
		d.expr(data.Callee)
		d.exprs(data.Args)
		d.sb.WriteByte(')')
	case ExprMatch:
		data, _ := d.b.Exprs.Match(id)
		d.sb.WriteString("(match ")
		d.expr(data.Subject)
		for _, arm := range data.Arms {
			d.sb.WriteString(" [")
			d.pattern(arm.Pattern)
			if arm.Guard.IsValid() {
				d.sb.WriteString(" if ")
				d.expr(arm.Guard)
			}
			d.sb.WriteString(" => ")
			d.expr(arm.Body)
			d.sb.WriteByte(']')
		}
		d.sb.WriteByte(')')
	case ExprBinary:
		data, _ := d.b.Exprs.Binary(id)
		d.printf("(%s ", data.Op)
		d.expr(data.Left)
		d.sb.WriteByte(' ')
		d.expr(data.Right)
		d.sb.WriteByte(')')
	case ExprUnary:
		data, _ := d.b.Exprs.Unary(id)
		d.printf("(%s ", data.Op)
		d.expr(data.X)
		d.sb.WriteByte(')')
	case ExprGroup:
		data, _ := d.b.Exprs.Group(id)
		d.expr(data.X)
	case ExprTuple:
		data, _ := d.b.Exprs.Tuple(id)
		d.sb.WriteString("(tuple")
		d.exprs(data.Elems)
		d.sb.WriteByte(')')
	case ExprList:
		data, _ := d.b.Exprs.List(id)
		d.sb.WriteString("(list")
		d.exprs(data.Elems)
		d.sb.WriteByte(')')
	case ExprField:
		data, _ := d.b.Exprs.Field(id)
		d.sb.WriteString("(. ")
		d.expr(data.X)
		d.printf(" %s)", data.Name)
	case ExprMethod:
		data, _ := d.b.Exprs.Method(id)
		d.sb.WriteString("(method ")
		d.expr(data.Recv)
		d.printf(" %s", data.Name)
		d.exprs(data.Args)
		d.sb.WriteByte(')')
	case ExprClosure:
		data, _ := d.b.Exprs.Closure(id)
		d.sb.WriteString("(closure (")
		d.params(data.Params)
		d.sb.WriteString(") ")
		d.expr(data.Body)
		d.sb.WriteByte(')')
	case ExprTry:
		data, _ := d.b.Exprs.Try(id)
		d.sb.WriteString("(? ")
		d.expr(data.X)
		d.sb.WriteByte(')')
	case ExprBlock:
		data, _ := d.b.Exprs.Block(id)
		d.block(data.Block)
	}
}

func (d *dumper) pattern(id PatternID) {
	p := d.b.Pattern(id)
	switch p.Kind {
	case PatWildcard:
		d.sb.WriteByte('_')
	case PatBinding:
		d.sb.WriteString(p.Name)
	case PatLiteral:
		d.sb.WriteString(p.Text)
	case PatRest:
		d.sb.WriteString("..")
	case PatTuple:
		d.sb.WriteByte('(')
		for i, el := range p.Elems {
			if i > 0 {
				d.sb.WriteByte(' ')
			}
			d.pattern(el)
		}
		d.sb.WriteByte(')')
	}
}

// PatternText renders a pattern in surface syntax, e.g. "(x, 0)".
func PatternText(b *Builder, id PatternID) string {
	p := b.Pattern(id)
	switch p.Kind {
	case PatWildcard:
		return "_"
	case PatBinding:
		return p.Name
	case PatLiteral:
		return p.Text
	case PatRest:
		return ".."
	case PatTuple:
		parts := make([]string, 0, len(p.Elems))
		for _, el := range p.Elems {
			parts = append(parts, PatternText(b, el))
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return "?"
}

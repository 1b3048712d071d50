// Package codegen emits Rust source text from the canonical IR.
//
// The generator never re-derives ownership facts: mutability markers,
// clones and reference operators are written exactly where the IR carries
// them. Output is a pure function of the IR, so identical input always
// produces byte-identical text.
package codegen

import (
	"errors"
	"fmt"
	"strings"

	"highrust/internal/ir"
)

// Header is the first line of every generated file when Options.Header is set.
const Header = "// Transpiled to Rust by HighRust"

// DefaultMaxDepth bounds expression nesting during emission.
const DefaultMaxDepth = 512

// ErrTooDeep is returned when the IR nests deeper than Options.MaxDepth.
var ErrTooDeep = errors.New("nesting too deep")

type Options struct {
	Header   bool
	Indent   int // spaces per level, 0 means 4
	MaxDepth int
}

func (o Options) normalized() Options {
	if o.Indent <= 0 {
		o.Indent = 4
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// Generate produces Rust source for a whole module, functions separated by
// one blank line in declaration order.
func Generate(mod *ir.Module, opts Options) (string, error) {
	opts = opts.normalized()
	parts := make([]string, 0, len(mod.Data)+len(mod.Funcs))
	for _, d := range mod.Data {
		parts = append(parts, Data(d, opts))
	}
	for _, fn := range mod.Funcs {
		text, err := Func(fn, opts)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	return Assemble(parts, opts), nil
}

// Assemble joins already generated functions into one file.
func Assemble(funcs []string, opts Options) string {
	var sb strings.Builder
	if opts.Header {
		sb.WriteString(Header)
		sb.WriteString("\n\n")
	}
	for i, f := range funcs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(f)
	}
	return sb.String()
}

// Func produces the Rust text of one function, ending in a newline.
func Func(fn *ir.Func, opts Options) (out string, err error) {
	opts = opts.normalized()
	g := &generator{opts: opts, unit: strings.Repeat(" ", opts.Indent)}
	defer func() {
		if r := recover(); r != nil {
			if r != errDepth {
				panic(r)
			}
			out, err = "", fmt.Errorf("generate %s: %w (limit %d)", fn.Name, ErrTooDeep, opts.MaxDepth)
		}
	}()
	g.function(fn)
	return g.sb.String(), nil
}

// Data produces the Rust text of one struct or enum, ending in a newline.
func Data(d *ir.Data, opts Options) string {
	opts = opts.normalized()
	g := &generator{opts: opts, unit: strings.Repeat(" ", opts.Indent)}
	if len(d.Derive) > 0 {
		g.emitLine("#[derive(" + strings.Join(d.Derive, ", ") + ")]")
	}
	kw := "struct "
	if d.Enum {
		kw = "enum "
	}
	if len(d.Fields) == 0 && len(d.Variants) == 0 {
		if d.Enum {
			g.emitLine(kw + d.Name + " {}")
		} else {
			g.emitLine(kw + d.Name + ";")
		}
		return g.sb.String()
	}
	g.emitLine(kw + d.Name + " {")
	g.incIndent()
	for _, f := range d.Fields {
		g.emitLine(f.Name + ": " + f.Type + ",")
	}
	for _, v := range d.Variants {
		if len(v.Fields) == 0 {
			g.emitLine(v.Name + ",")
			continue
		}
		g.emitLine(v.Name + "(" + strings.Join(v.Fields, ", ") + "),")
	}
	g.decIndent()
	g.emitLine("}")
	return g.sb.String()
}

type depthSentinel struct{}

var errDepth = depthSentinel{}

type generator struct {
	sb     strings.Builder
	indent int
	unit   string
	opts   Options
	depth  int
}

func (g *generator) emitLine(s string) {
	if s == "" {
		g.sb.WriteString("\n")
		return
	}
	g.sb.WriteString(g.indentStr())
	g.sb.WriteString(s)
	g.sb.WriteString("\n")
}

func (g *generator) incIndent() { g.indent++ }
func (g *generator) decIndent() { g.indent-- }

func (g *generator) indentStr() string {
	return strings.Repeat(g.unit, g.indent)
}

func (g *generator) enter() {
	g.depth++
	if g.depth > g.opts.MaxDepth {
		panic(errDepth)
	}
}

func (g *generator) leave() { g.depth-- }

func (g *generator) function(fn *ir.Func) {
	lt := needsLifetime(fn)
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = param(p, lt)
	}
	sig := "fn " + fn.Name
	if lt {
		sig += "<'a>"
	}
	sig += "(" + strings.Join(params, ", ") + ")"
	if fn.Result != "" {
		sig += " -> " + withLifetime(fn.Result, lt)
	}
	if len(fn.Body.Stmts) == 0 && fn.Body.Tail == nil {
		g.emitLine(sig + " {}")
		return
	}
	g.emitLine(sig + " {")
	g.incIndent()
	g.body(fn.Body)
	g.decIndent()
	g.emitLine("}")
}

func param(p *ir.Param, lt bool) string {
	s := p.Name
	if p.Mut {
		s = "mut " + s
	}
	if p.Type != "" {
		s += ": " + withLifetime(p.Type, lt)
	}
	return s
}

// needsLifetime reports whether fn returns a reference that elision cannot
// tie to an input: the result borrows and the parameters hold zero or
// several references. Signatures that already name a lifetime are left alone.
func needsLifetime(fn *ir.Func) bool {
	if !strings.Contains(fn.Result, "&") || strings.Contains(fn.Result, "'") {
		return false
	}
	refs := 0
	for _, p := range fn.Params {
		if strings.Contains(p.Type, "'") {
			return false
		}
		if strings.Contains(p.Type, "&") {
			refs++
		}
	}
	return refs != 1
}

// withLifetime writes 'a after every & in ty when lt is set.
func withLifetime(ty string, lt bool) string {
	if !lt || !strings.Contains(ty, "&") {
		return ty
	}
	return strings.ReplaceAll(ty, "&", "&'a ")
}

// body writes the statements and tail of b at the current indent.
func (g *generator) body(b *ir.Block) {
	for _, s := range b.Stmts {
		g.stmt(s)
	}
	if b.Tail != nil {
		g.emitLine(g.expr(b.Tail))
	}
}

func (g *generator) stmt(s ir.Stmt) {
	switch s := s.(type) {
	case *ir.LetStmt:
		decl := "let "
		if s.Mut {
			decl += "mut "
		}
		decl += s.Name
		if s.Type != "" {
			decl += ": " + s.Type
		}
		g.emitLine(decl + " = " + g.expr(s.Value) + ";")
	case *ir.AssignStmt:
		g.emitLine(s.Name + " " + s.Op.String() + " " + g.expr(s.Value) + ";")
	case *ir.ReturnStmt:
		if s.Value == nil {
			g.emitLine("return;")
			return
		}
		g.emitLine("return " + g.expr(s.Value) + ";")
	case *ir.IfStmt:
		g.ifChain(s)
	case *ir.WhileStmt:
		g.emitLine("while " + g.expr(s.Cond) + " {")
		g.nested(s.Body)
		g.emitLine("}")
	case *ir.ForStmt:
		v := s.Var
		if s.Mut {
			v = "mut " + v
		}
		g.emitLine("for " + v + " in " + g.expr(s.Iter) + " {")
		g.nested(s.Body)
		g.emitLine("}")
	case *ir.ExprStmt:
		text := g.expr(s.X)
		if !blockLike(s.X) {
			text += ";"
		}
		g.emitLine(text)
	}
}

func (g *generator) nested(b *ir.Block) {
	g.incIndent()
	g.body(b)
	g.decIndent()
}

// ifChain writes an if statement; an else block holding a single if
// continues the chain as `else if`.
func (g *generator) ifChain(s *ir.IfStmt) {
	g.emitLine("if " + g.expr(s.Cond) + " {")
	for {
		g.nested(s.Then)
		if s.Else == nil {
			g.emitLine("}")
			return
		}
		if elif := elseIf(s.Else); elif != nil {
			g.emitLine("} else if " + g.expr(elif.Cond) + " {")
			s = elif
			continue
		}
		g.emitLine("} else {")
		g.nested(s.Else)
		g.emitLine("}")
		return
	}
}

func elseIf(b *ir.Block) *ir.IfStmt {
	if len(b.Stmts) != 1 || b.Tail != nil {
		return nil
	}
	s, _ := b.Stmts[0].(*ir.IfStmt)
	return s
}

func blockLike(e ir.Expr) bool {
	switch e.(type) {
	case *ir.Match, *ir.BlockExpr:
		return true
	}
	return false
}

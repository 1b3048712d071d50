package ast

import (
	"highrust/internal/source"
)

type Hints struct{ Funcs, Stmts, Exprs uint }

// Builder owns every arena of one parsed file. It is written only by the
// parser; afterwards it is shared read-only by all function workers.
type Builder struct {
	Funcs    *Arena[Func]
	Blocks   *Arena[Block]
	Stmts    *Stmts
	Exprs    *Exprs
	Patterns *Arena[Pattern]
	Types    *Arena[TypeExpr]
}

func NewBuilder(hints Hints) *Builder {
	if hints.Funcs == 0 {
		hints.Funcs = 1 << 4
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	return &Builder{
		Funcs:    NewArena[Func](hints.Funcs),
		Blocks:   NewArena[Block](hints.Stmts / 4),
		Stmts:    NewStmts(hints.Stmts),
		Exprs:    NewExprs(hints.Exprs),
		Patterns: NewArena[Pattern](hints.Exprs / 4),
		Types:    NewArena[TypeExpr](hints.Funcs * 4),
	}
}

func (b *Builder) NewFunc(fn Func) FuncID {
	return FuncID(b.Funcs.Allocate(fn))
}

func (b *Builder) Func(id FuncID) *Func {
	return b.Funcs.Get(uint32(id))
}

func (b *Builder) NewBlock(stmts []StmtID, tail ExprID, sp source.Span) BlockID {
	return BlockID(b.Blocks.Allocate(Block{Stmts: stmts, Tail: tail, Span: sp}))
}

func (b *Builder) Block(id BlockID) *Block {
	return b.Blocks.Get(uint32(id))
}

func (b *Builder) NewPattern(p Pattern) PatternID {
	return PatternID(b.Patterns.Allocate(p))
}

func (b *Builder) Pattern(id PatternID) *Pattern {
	return b.Patterns.Get(uint32(id))
}

func (b *Builder) NewType(t TypeExpr) TypeID {
	return TypeID(b.Types.Allocate(t))
}

func (b *Builder) Type(id TypeID) *TypeExpr {
	return b.Types.Get(uint32(id))
}

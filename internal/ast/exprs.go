package ast

import (
	"highrust/internal/source"
)

// Exprs manages allocation of expressions and their per-kind payloads.
type Exprs struct {
	Arena    *Arena[Expr]
	Idents   *Arena[ExprIdentData]
	Literals *Arena[ExprLitData]
	Calls    *Arena[ExprCallData]
	Matches  *Arena[ExprMatchData]
	Binaries *Arena[ExprBinaryData]
	Unaries  *Arena[ExprUnaryData]
	Groups   *Arena[ExprGroupData]
	Tuples   *Arena[ExprTupleData]
	Lists    *Arena[ExprListData]
	Fields   *Arena[ExprFieldData]
	Methods  *Arena[ExprMethodData]
	Closures *Arena[ExprClosureData]
	Tries    *Arena[ExprTryData]
	Blocks   *Arena[ExprBlockData]
}

// NewExprs creates the expression arenas; capHint 0 means 256.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint / 8
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Idents:   NewArena[ExprIdentData](capHint),
		Literals: NewArena[ExprLitData](capHint / 2),
		Calls:    NewArena[ExprCallData](capHint / 4),
		Matches:  NewArena[ExprMatchData](small),
		Binaries: NewArena[ExprBinaryData](capHint / 4),
		Unaries:  NewArena[ExprUnaryData](small),
		Groups:   NewArena[ExprGroupData](small),
		Tuples:   NewArena[ExprTupleData](small),
		Lists:    NewArena[ExprListData](small),
		Fields:   NewArena[ExprFieldData](small),
		Methods:  NewArena[ExprMethodData](small),
		Closures: NewArena[ExprClosureData](small),
		Tries:    NewArena[ExprTryData](small),
		Blocks:   NewArena[ExprBlockData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return 0, false
	}
	return uint32(expr.Payload), true
}

func (e *Exprs) NewIdent(span source.Span, name string) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(ExprIdentData{Name: name}))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

func (e *Exprs) NewLiteral(span source.Span, kind LitKind, text string) ExprID {
	return e.new(ExprLit, span, e.Literals.Allocate(ExprLitData{Kind: kind, Text: text}))
}

func (e *Exprs) Literal(id ExprID) (*ExprLitData, bool) {
	p, ok := e.payload(id, ExprLit)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(p), true
}

func (e *Exprs) NewCall(span source.Span, callee ExprID, args []ExprID) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(ExprCallData{Callee: callee, Args: args}))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

func (e *Exprs) NewMatch(span source.Span, subject ExprID, arms []MatchArm) ExprID {
	return e.new(ExprMatch, span, e.Matches.Allocate(ExprMatchData{Subject: subject, Arms: arms}))
}

func (e *Exprs) Match(id ExprID) (*ExprMatchData, bool) {
	p, ok := e.payload(id, ExprMatch)
	if !ok {
		return nil, false
	}
	return e.Matches.Get(p), true
}

func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

func (e *Exprs) NewUnary(span source.Span, op UnaryOp, x ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(ExprUnaryData{Op: op, X: x}))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payload(id, ExprUnary)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(p), true
}

func (e *Exprs) NewGroup(span source.Span, x ExprID) ExprID {
	return e.new(ExprGroup, span, e.Groups.Allocate(ExprGroupData{X: x}))
}

func (e *Exprs) Group(id ExprID) (*ExprGroupData, bool) {
	p, ok := e.payload(id, ExprGroup)
	if !ok {
		return nil, false
	}
	return e.Groups.Get(p), true
}

func (e *Exprs) NewTuple(span source.Span, elems []ExprID) ExprID {
	return e.new(ExprTuple, span, e.Tuples.Allocate(ExprTupleData{Elems: elems}))
}

func (e *Exprs) Tuple(id ExprID) (*ExprTupleData, bool) {
	p, ok := e.payload(id, ExprTuple)
	if !ok {
		return nil, false
	}
	return e.Tuples.Get(p), true
}

func (e *Exprs) NewList(span source.Span, elems []ExprID) ExprID {
	return e.new(ExprList, span, e.Lists.Allocate(ExprListData{Elems: elems}))
}

func (e *Exprs) List(id ExprID) (*ExprListData, bool) {
	p, ok := e.payload(id, ExprList)
	if !ok {
		return nil, false
	}
	return e.Lists.Get(p), true
}

func (e *Exprs) NewField(span source.Span, x ExprID, name string, index int) ExprID {
	return e.new(ExprField, span, e.Fields.Allocate(ExprFieldData{X: x, Name: name, Index: index}))
}

func (e *Exprs) Field(id ExprID) (*ExprFieldData, bool) {
	p, ok := e.payload(id, ExprField)
	if !ok {
		return nil, false
	}
	return e.Fields.Get(p), true
}

func (e *Exprs) NewMethod(span source.Span, data ExprMethodData) ExprID {
	return e.new(ExprMethod, span, e.Methods.Allocate(data))
}

func (e *Exprs) Method(id ExprID) (*ExprMethodData, bool) {
	p, ok := e.payload(id, ExprMethod)
	if !ok {
		return nil, false
	}
	return e.Methods.Get(p), true
}

func (e *Exprs) NewClosure(span source.Span, params []Param, body ExprID) ExprID {
	return e.new(ExprClosure, span, e.Closures.Allocate(ExprClosureData{Params: params, Body: body}))
}

func (e *Exprs) Closure(id ExprID) (*ExprClosureData, bool) {
	p, ok := e.payload(id, ExprClosure)
	if !ok {
		return nil, false
	}
	return e.Closures.Get(p), true
}

func (e *Exprs) NewTry(span source.Span, x ExprID) ExprID {
	return e.new(ExprTry, span, e.Tries.Allocate(ExprTryData{X: x}))
}

func (e *Exprs) Try(id ExprID) (*ExprTryData, bool) {
	p, ok := e.payload(id, ExprTry)
	if !ok {
		return nil, false
	}
	return e.Tries.Get(p), true
}

func (e *Exprs) NewBlock(span source.Span, block BlockID) ExprID {
	return e.new(ExprBlock, span, e.Blocks.Allocate(ExprBlockData{Block: block}))
}

func (e *Exprs) Block(id ExprID) (*ExprBlockData, bool) {
	p, ok := e.payload(id, ExprBlock)
	if !ok {
		return nil, false
	}
	return e.Blocks.Get(p), true
}

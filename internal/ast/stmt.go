package ast

import (
	"highrust/internal/source"
)

type StmtKind uint8

const (
	StmtExpr StmtKind = iota
	StmtLet
	StmtAssign
	StmtReturn
	StmtIf
	StmtWhile
	StmtFor
)

func (k StmtKind) String() string {
	switch k {
	case StmtExpr:
		return "expr"
	case StmtLet:
		return "let"
	case StmtAssign:
		return "assign"
	case StmtReturn:
		return "return"
	case StmtIf:
		return "if"
	case StmtWhile:
		return "while"
	case StmtFor:
		return "for"
	}
	return "stmt(?)"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type AssignOp uint8

const (
	AssignSet AssignOp = iota // =
	AssignAdd                 // +=
	AssignSub                 // -=
)

type (
	StmtExprData struct {
		Expr ExprID
	}
	StmtLetData struct {
		Name     string
		NameSpan source.Span
		Type     TypeID
		Init     ExprID
	}
	// StmtAssignData is a reassignment of an already bound name.
	StmtAssignData struct {
		Name     string
		NameSpan source.Span
		Op       AssignOp
		Value    ExprID
	}
	StmtReturnData struct {
		Value ExprID
	}
	// StmtIfData chains else-if through Else holding a block with a single if.
	StmtIfData struct {
		Cond ExprID
		Then BlockID
		Else BlockID
	}
	StmtWhileData struct {
		Cond ExprID
		Body BlockID
	}
	StmtForData struct {
		Var     string
		VarSpan source.Span
		Iter    ExprID
		Body    BlockID
	}
)

// Stmts manages allocation of statements.
type Stmts struct {
	Arena   *Arena[Stmt]
	Exprs   *Arena[StmtExprData]
	Lets    *Arena[StmtLetData]
	Assigns *Arena[StmtAssignData]
	Returns *Arena[StmtReturnData]
	Ifs     *Arena[StmtIfData]
	Whiles  *Arena[StmtWhileData]
	Fors    *Arena[StmtForData]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Exprs:   NewArena[StmtExprData](capHint),
		Lets:    NewArena[StmtLetData](capHint),
		Assigns: NewArena[StmtAssignData](capHint / 4),
		Returns: NewArena[StmtReturnData](capHint / 8),
		Ifs:     NewArena[StmtIfData](capHint / 8),
		Whiles:  NewArena[StmtWhileData](capHint / 8),
		Fors:    NewArena[StmtForData](capHint / 8),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	return s.new(StmtExpr, span, s.Exprs.Allocate(StmtExprData{Expr: expr}))
}

func (s *Stmts) Expr(id StmtID) *StmtExprData {
	st := s.Get(id)
	if st == nil || st.Kind != StmtExpr {
		return nil
	}
	return s.Exprs.Get(uint32(st.Payload))
}

func (s *Stmts) NewLet(span source.Span, data StmtLetData) StmtID {
	return s.new(StmtLet, span, s.Lets.Allocate(data))
}

func (s *Stmts) Let(id StmtID) *StmtLetData {
	st := s.Get(id)
	if st == nil || st.Kind != StmtLet {
		return nil
	}
	return s.Lets.Get(uint32(st.Payload))
}

func (s *Stmts) NewAssign(span source.Span, data StmtAssignData) StmtID {
	return s.new(StmtAssign, span, s.Assigns.Allocate(data))
}

func (s *Stmts) Assign(id StmtID) *StmtAssignData {
	st := s.Get(id)
	if st == nil || st.Kind != StmtAssign {
		return nil
	}
	return s.Assigns.Get(uint32(st.Payload))
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, span, s.Returns.Allocate(StmtReturnData{Value: value}))
}

func (s *Stmts) Return(id StmtID) *StmtReturnData {
	st := s.Get(id)
	if st == nil || st.Kind != StmtReturn {
		return nil
	}
	return s.Returns.Get(uint32(st.Payload))
}

func (s *Stmts) NewIf(span source.Span, data StmtIfData) StmtID {
	return s.new(StmtIf, span, s.Ifs.Allocate(data))
}

func (s *Stmts) If(id StmtID) *StmtIfData {
	st := s.Get(id)
	if st == nil || st.Kind != StmtIf {
		return nil
	}
	return s.Ifs.Get(uint32(st.Payload))
}

func (s *Stmts) NewWhile(span source.Span, data StmtWhileData) StmtID {
	return s.new(StmtWhile, span, s.Whiles.Allocate(data))
}

func (s *Stmts) While(id StmtID) *StmtWhileData {
	st := s.Get(id)
	if st == nil || st.Kind != StmtWhile {
		return nil
	}
	return s.Whiles.Get(uint32(st.Payload))
}

func (s *Stmts) NewFor(span source.Span, data StmtForData) StmtID {
	return s.new(StmtFor, span, s.Fors.Allocate(data))
}

func (s *Stmts) For(id StmtID) *StmtForData {
	st := s.Get(id)
	if st == nil || st.Kind != StmtFor {
		return nil
	}
	return s.Fors.Get(uint32(st.Payload))
}

package ast

import (
	"highrust/internal/source"
)

type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprLit
	ExprCall
	ExprMatch
	ExprBinary
	ExprUnary
	ExprGroup
	ExprTuple
	ExprList
	ExprField
	ExprMethod
	ExprClosure
	ExprTry
	ExprBlock
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "ident"
	case ExprLit:
		return "lit"
	case ExprCall:
		return "call"
	case ExprMatch:
		return "match"
	case ExprBinary:
		return "binary"
	case ExprUnary:
		return "unary"
	case ExprGroup:
		return "group"
	case ExprTuple:
		return "tuple"
	case ExprList:
		return "list"
	case ExprField:
		return "field"
	case ExprMethod:
		return "method"
	case ExprClosure:
		return "closure"
	case ExprTry:
		return "try"
	case ExprBlock:
		return "block"
	}
	return "expr(?)"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type LitKind uint8

const (
	LitString LitKind = iota
	LitInt
	LitFloat
	LitBool
)

func (k LitKind) String() string {
	switch k {
	case LitString:
		return "string"
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitBool:
		return "bool"
	}
	return "lit(?)"
}

type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
	BinRange
)

var binaryOpText = [...]string{
	BinAdd: "+", BinSub: "-", BinMul: "*", BinDiv: "/", BinMod: "%",
	BinEq: "==", BinNe: "!=", BinLt: "<", BinLe: "<=", BinGt: ">", BinGe: ">=",
	BinAnd: "&&", BinOr: "||", BinRange: "..",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

// IsComparison reports ==, !=, <, <=, > and >=.
func (op BinaryOp) IsComparison() bool {
	return op >= BinEq && op <= BinGe
}

type UnaryOp uint8

const (
	UnNeg UnaryOp = iota
	UnNot
)

func (op UnaryOp) String() string {
	if op == UnNot {
		return "!"
	}
	return "-"
}

type (
	ExprIdentData struct {
		Name string
	}
	// ExprLitData keeps literal text exactly as written, quotes included for strings.
	ExprLitData struct {
		Kind LitKind
		Text string
	}
	ExprCallData struct {
		Callee ExprID
		Args   []ExprID
	}
	MatchArm struct {
		Pattern PatternID
		Guard   ExprID
		Body    ExprID
		Span    source.Span
	}
	ExprMatchData struct {
		Subject ExprID
		Arms    []MatchArm
	}
	ExprBinaryData struct {
		Op    BinaryOp
		Left  ExprID
		Right ExprID
	}
	ExprUnaryData struct {
		Op UnaryOp
		X  ExprID
	}
	ExprGroupData struct {
		X ExprID
	}
	ExprTupleData struct {
		Elems []ExprID
	}
	ExprListData struct {
		Elems []ExprID
	}
	// ExprFieldData is x.name or, for tuples, x.0 (Index >= 0).
	ExprFieldData struct {
		X     ExprID
		Name  string
		Index int
	}
	ExprMethodData struct {
		Recv     ExprID
		Name     string
		NameSpan source.Span
		Args     []ExprID
	}
	ExprClosureData struct {
		Params []Param
		Body   ExprID
	}
	ExprTryData struct {
		X ExprID
	}
	ExprBlockData struct {
		Block BlockID
	}
)

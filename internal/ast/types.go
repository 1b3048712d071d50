package ast

import "highrust/internal/source"

type TypeExprKind uint8

const (
	TypePath TypeExprKind = iota // i32, String, Vec<T>
	TypeTuple
	TypeRef
	TypeRefMut
	TypeUnit
)

// TypeExpr is a type annotation as written by the user.
type TypeExpr struct {
	Kind TypeExprKind
	Span source.Span
	Name string
	Args []TypeID
}

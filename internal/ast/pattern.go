package ast

import "highrust/internal/source"

type PatternKind uint8

const (
	PatWildcard PatternKind = iota
	PatBinding
	PatTuple
	PatLiteral
	// PatRest is '..' inside a tuple pattern.
	PatRest
)

func (k PatternKind) String() string {
	switch k {
	case PatWildcard:
		return "wildcard"
	case PatBinding:
		return "binding"
	case PatTuple:
		return "tuple"
	case PatLiteral:
		return "literal"
	case PatRest:
		return "rest"
	}
	return "pattern(?)"
}

type Pattern struct {
	Kind  PatternKind
	Span  source.Span
	Name  string      // PatBinding
	Lit   LitKind     // PatLiteral
	Text  string      // PatLiteral, as written
	Elems []PatternID // PatTuple
}

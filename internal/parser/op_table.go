package parser

import (
	"highrust/internal/ast"
	"highrust/internal/token"
)

// Binary operator precedence; larger binds tighter.
const (
	precRange          = 1 // ..
	precLogicalOr      = 2 // ||
	precLogicalAnd     = 3 // &&
	precEquality       = 4 // == !=
	precComparison     = 5 // < <= > >=
	precAdditive       = 6 // + -
	precMultiplicative = 7 // * / %
)

func binaryOp(kind token.Kind) (ast.BinaryOp, int, bool) {
	switch kind {
	case token.DotDot:
		return ast.BinRange, precRange, true
	case token.OrOr:
		return ast.BinOr, precLogicalOr, true
	case token.AndAnd:
		return ast.BinAnd, precLogicalAnd, true
	case token.EqEq:
		return ast.BinEq, precEquality, true
	case token.BangEq:
		return ast.BinNe, precEquality, true
	case token.Lt:
		return ast.BinLt, precComparison, true
	case token.LtEq:
		return ast.BinLe, precComparison, true
	case token.Gt:
		return ast.BinGt, precComparison, true
	case token.GtEq:
		return ast.BinGe, precComparison, true
	case token.Plus:
		return ast.BinAdd, precAdditive, true
	case token.Minus:
		return ast.BinSub, precAdditive, true
	case token.Star:
		return ast.BinMul, precMultiplicative, true
	case token.Slash:
		return ast.BinDiv, precMultiplicative, true
	case token.Percent:
		return ast.BinMod, precMultiplicative, true
	}
	return 0, 0, false
}

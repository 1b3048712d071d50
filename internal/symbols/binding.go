package symbols

import (
	"highrust/internal/ast"
	"highrust/internal/source"
)

// BindingKind classifies how a binding was introduced.
type BindingKind uint8

const (
	BindingInvalid BindingKind = iota
	BindingParam
	BindingLet
	BindingLoopVar
	BindingClosureParam
	BindingPattern
)

func (k BindingKind) String() string {
	switch k {
	case BindingParam:
		return "param"
	case BindingLet:
		return "let"
	case BindingLoopVar:
		return "loop variable"
	case BindingClosureParam:
		return "closure param"
	case BindingPattern:
		return "pattern"
	default:
		return "invalid"
	}
}

// Binding is one declaration. Order is its position in source order
// within the function and is what every later pass iterates by.
type Binding struct {
	ID    BindingID
	Name  string
	Kind  BindingKind
	Span  source.Span
	Scope ScopeID
	Order int

	// Declared type, NoTypeID when omitted.
	Type ast.TypeID

	// Exactly one of the following is set depending on Kind.
	Param   int           // index into Func.Params
	Stmt    ast.StmtID    // let or for
	Pattern ast.PatternID // match arm binding
	Closure ast.ExprID    // closure owning the parameter
}

package ast

import "highrust/internal/source"

// File is one parsed source unit. Funcs and Data keep declaration order,
// which is also the output order.
type File struct {
	Path  string
	Span  source.Span
	Funcs []FuncID
	Data  []Data
}

// Param is a function or closure parameter. Type may be NoTypeID.
type Param struct {
	Name string
	Span source.Span
	Type TypeID
}

type Func struct {
	Name     string
	NameSpan source.Span
	Params   []Param
	Result   TypeID
	Body     BlockID
	Span     source.Span
}

// Block is a braced statement list with an optional tail expression
// (the last expression written without ';').
type Block struct {
	Stmts []StmtID
	Tail  ExprID
	Span  source.Span
}

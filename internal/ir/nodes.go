package ir

import (
	"highrust/internal/borrow"
	"highrust/internal/source"
	"highrust/internal/symbols"
)

// Module is one lowered source file. Data and Funcs keep declaration order.
type Module struct {
	Path  string
	Data  []*Data
	Funcs []*Func
}

// Data is a lowered struct or enum. Derive lists the traits written in
// its #[derive(...)] line.
type Data struct {
	Name     string
	Enum     bool
	Derive   []string
	Fields   []DataField
	Variants []Variant
	Span     source.Span
}

type DataField struct {
	Name string
	Type string
}

// Variant is an enum variant; Fields holds positional payload types.
type Variant struct {
	Name   string
	Fields []string
}

// Func is a lowered function. Types are already spelled in Rust.
type Func struct {
	Name   string
	Params []*Param
	Result string // empty for unit
	Body   *Block
	Span   source.Span
}

// Param is a function or closure parameter; Type may be empty for closures.
type Param struct {
	Name string
	Type string
	Mut  bool
}

// Block is a statement list with an optional tail value.
type Block struct {
	Stmts []Stmt
	Tail  Expr
}

// --- Statements ---

// Stmt is the interface for all IR statement nodes.
type Stmt interface {
	stmtNode()
}

// LetStmt declares a binding. Type is set only when the source annotated it.
type LetStmt struct {
	Name  string
	Mut   bool
	Type  string
	Value Expr
}

func (*LetStmt) stmtNode() {}

type AssignOp uint8

const (
	AssignSet AssignOp = iota
	AssignAdd
	AssignSub
)

func (op AssignOp) String() string {
	switch op {
	case AssignAdd:
		return "+="
	case AssignSub:
		return "-="
	}
	return "="
}

// AssignStmt writes a new value into an existing binding.
type AssignStmt struct {
	Name  string
	Op    AssignOp
	Value Expr
}

func (*AssignStmt) stmtNode() {}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	Value Expr // nil for bare return
}

func (*ReturnStmt) stmtNode() {}

// IfStmt represents an if/else statement.
type IfStmt struct {
	Cond Expr
	Then *Block
	Else *Block // nil if no else branch
}

func (*IfStmt) stmtNode() {}

// WhileStmt represents a while loop.
type WhileStmt struct {
	Cond Expr
	Body *Block
}

func (*WhileStmt) stmtNode() {}

// ForStmt represents a for-in loop.
type ForStmt struct {
	Var  string
	Mut  bool
	Iter Expr
	Body *Block
}

func (*ForStmt) stmtNode() {}

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	X Expr
}

func (*ExprStmt) stmtNode() {}

// --- Expressions ---

// Expr is the interface for all IR expression nodes.
type Expr interface {
	exprNode()
}

// Ref is a use of a binding together with its classified mode.
// Explicit marks positions where a borrow is written as `&`/`&mut`.
type Ref struct {
	Name     string
	Binding  symbols.BindingID
	Mode     borrow.Mode
	Context  borrow.Context
	Explicit bool
}

func (*Ref) exprNode() {}

type LitKind uint8

const (
	LitString LitKind = iota
	LitInt
	LitFloat
	LitBool
)

// Lit is a literal as written. Owned string literals become `String`.
type Lit struct {
	Kind  LitKind
	Text  string
	Owned bool
}

func (*Lit) exprNode() {}

// Call is a plain function call. Callee is usually a Name.
type Call struct {
	Callee Expr
	Args   []Expr
}

func (*Call) exprNode() {}

// Name is an identifier that is not a local binding: a module function,
// an external function, or a builtin value such as None.
type Name struct {
	Name string
}

func (*Name) exprNode() {}

// MacroCall is `name!(args)`.
type MacroCall struct {
	Name string
	Args []Expr
}

func (*MacroCall) exprNode() {}

// MethodCall represents a method call on a receiver.
type MethodCall struct {
	Recv   Expr
	Method string
	Args   []Expr
}

func (*MethodCall) exprNode() {}

// Field is `x.name` or `x.0`.
type Field struct {
	X    Expr
	Name string
}

func (*Field) exprNode() {}

// Binary represents a binary operation; Op is spelled in Rust.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

func (*Binary) exprNode() {}

// Unary represents a prefix operation.
type Unary struct {
	Op string
	X  Expr
}

func (*Unary) exprNode() {}

// Paren keeps source parentheses.
type Paren struct {
	X Expr
}

func (*Paren) exprNode() {}

// Tuple is a tuple literal; zero elements is unit.
type Tuple struct {
	Elems []Expr
}

func (*Tuple) exprNode() {}

// VecLit is a lowered list literal, emitted as `vec![...]`.
type VecLit struct {
	Elems []Expr
}

func (*VecLit) exprNode() {}

// Closure is `|params| body`.
type Closure struct {
	Params []*Param
	Body   Expr
}

func (*Closure) exprNode() {}

// Propagate is the lowered `?` operator.
type Propagate struct {
	X Expr
}

func (*Propagate) exprNode() {}

// Borrow takes a reference to a value that is not a plain binding.
type Borrow struct {
	X   Expr
	Mut bool
}

func (*Borrow) exprNode() {}

// Owned converts a borrowed string into String via to_string.
type Owned struct {
	X Expr
}

func (*Owned) exprNode() {}

// BlockExpr is a block in expression position.
type BlockExpr struct {
	Block *Block
}

func (*BlockExpr) exprNode() {}

// Match is a fully desugared match. AsStr marks a String subject matched
// against string literals.
type Match struct {
	Subject Expr
	Arms    []*Arm
	AsStr   bool
}

func (*Match) exprNode() {}

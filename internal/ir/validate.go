package ir

import (
	"errors"
	"fmt"
)

// Validate checks the structural invariants code generation relies on and
// aggregates every violation found in fn.
func Validate(fn *Func) error {
	v := validator{fn: fn.Name}
	if fn.Body == nil {
		v.errorf("nil body")
	} else {
		v.block(fn.Body)
	}
	return errors.Join(v.errs...)
}

type validator struct {
	fn   string
	errs []error
}

func (v *validator) errorf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf("func %s: "+format, append([]any{v.fn}, args...)...))
}

func (v *validator) block(b *Block) {
	for _, s := range b.Stmts {
		v.stmt(s)
	}
	if b.Tail != nil {
		v.expr(b.Tail)
	}
}

func (v *validator) stmt(s Stmt) {
	switch s := s.(type) {
	case *LetStmt:
		if s.Name == "" {
			v.errorf("let without name")
		}
		v.required(s.Value, "let value")
	case *AssignStmt:
		v.required(s.Value, "assigned value")
	case *ReturnStmt:
		if s.Value != nil {
			v.expr(s.Value)
		}
	case *IfStmt:
		v.required(s.Cond, "if condition")
		v.block(s.Then)
		if s.Else != nil {
			v.block(s.Else)
		}
	case *WhileStmt:
		v.required(s.Cond, "while condition")
		v.block(s.Body)
	case *ForStmt:
		v.required(s.Iter, "for iterable")
		v.block(s.Body)
	case *ExprStmt:
		v.required(s.X, "statement expression")
	default:
		v.errorf("unexpected statement %T", s)
	}
}

func (v *validator) required(e Expr, what string) {
	if e == nil {
		v.errorf("missing %s", what)
		return
	}
	v.expr(e)
}

func (v *validator) exprs(es []Expr, what string) {
	for _, e := range es {
		v.required(e, what)
	}
}

func (v *validator) expr(e Expr) {
	switch e := e.(type) {
	case *Ref:
		if e.Name == "" {
			v.errorf("reference without name")
		}
	case *Lit, *Name:
	case *Call:
		v.required(e.Callee, "callee")
		v.exprs(e.Args, "argument")
	case *MacroCall:
		v.exprs(e.Args, "macro argument")
	case *MethodCall:
		v.required(e.Recv, "receiver")
		v.exprs(e.Args, "method argument")
	case *Field:
		v.required(e.X, "field base")
	case *Binary:
		v.required(e.Left, "left operand")
		v.required(e.Right, "right operand")
	case *Unary:
		v.required(e.X, "operand")
	case *Paren:
		v.required(e.X, "parenthesized expression")
	case *Tuple:
		v.exprs(e.Elems, "tuple element")
	case *VecLit:
		v.exprs(e.Elems, "vec element")
	case *Closure:
		v.required(e.Body, "closure body")
	case *Propagate:
		v.required(e.X, "propagated expression")
	case *Borrow:
		v.required(e.X, "borrowed expression")
	case *Owned:
		v.required(e.X, "converted expression")
	case *BlockExpr:
		v.block(e.Block)
	case *Match:
		v.match(e)
	default:
		v.errorf("unexpected expression %T", e)
	}
}

func (v *validator) match(m *Match) {
	v.required(m.Subject, "match subject")
	if len(m.Arms) == 0 {
		v.errorf("match without arms")
		return
	}
	for i, arm := range m.Arms {
		guarded := false
		for _, c := range arm.Conds {
			switch c.Kind {
			case CondGuard:
				guarded = true
				v.required(c.Guard, "guard")
			case CondEquals:
				if guarded {
					v.errorf("arm %d: equality test after guard", i)
				}
				if c.Lit == nil {
					v.errorf("arm %d: equality test without literal", i)
				}
				v.covered(arm, c.Path, i)
			}
		}
		for _, b := range arm.Binds {
			v.covered(arm, b.Path, i)
		}
		v.required(arm.Body, "arm body")
	}
	if last := m.Arms[len(m.Arms)-1]; !last.Irrefutable() {
		v.errorf("last arm %q is refutable", last.Pattern)
	}
}

// covered checks that every proper prefix of p is destructured by a Shape.
func (v *validator) covered(arm *Arm, p Path, idx int) {
	for n := 0; n < len(p); n++ {
		found := false
		for _, s := range arm.Shapes {
			if s.Path.Equal(p[:n]) {
				found = true
				break
			}
		}
		if !found {
			v.errorf("arm %d: path %s has no tuple shape at %s", idx, p, p[:n])
			return
		}
	}
}

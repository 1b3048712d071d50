package ir

import (
	"strconv"
	"strings"
)

// Path addresses a component of the match subject as a list of tuple
// indexes. A negative index counts from the end of the tuple, so -1 is the
// last element; it appears only for elements written after a `..`.
type Path []int

func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}
	var sb strings.Builder
	sb.WriteByte('$')
	for _, i := range p {
		sb.WriteByte('.')
		if i < 0 {
			sb.WriteString("end")
			sb.WriteString(strconv.Itoa(i))
			continue
		}
		sb.WriteString(strconv.Itoa(i))
	}
	return sb.String()
}

// Child returns p extended by i without aliasing p.
func (p Path) Child(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, i)
}

// Equal reports whether both paths address the same component.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Bind introduces Name bound to the subject component at Path.
// ByRef binds by reference and is used for synthetic bindings.
type Bind struct {
	Name  string
	Path  Path
	Mut   bool
	ByRef bool
}

// Shape records that the component at Path is destructured as a tuple of
// Len written elements with a `..` before element RestAt (-1 for none).
type Shape struct {
	Path   Path
	Len    int
	RestAt int
}

type CondKind uint8

const (
	CondAlways CondKind = iota
	// CondEquals tests the component at Path against Lit.
	CondEquals
	// CondGuard requires Guard to evaluate true. Guards come last.
	CondGuard
)

// Cond is one requirement an arm places on the subject.
type Cond struct {
	Kind  CondKind
	Path  Path
	Lit   *Lit
	Guard Expr
}

// Arm is one lowered match arm. An arm matches when every Cond holds;
// arms are tried in order.
type Arm struct {
	Binds  []Bind
	Shapes []Shape
	Conds  []Cond
	Body   Expr
	// Pattern is the source pattern, kept for diagnostics.
	Pattern string
}

// Irrefutable reports whether the arm matches every subject value.
func (a *Arm) Irrefutable() bool {
	for _, c := range a.Conds {
		if c.Kind != CondAlways {
			return false
		}
	}
	return true
}

// Guards returns the guard expressions in order.
func (a *Arm) Guards() []Expr {
	var out []Expr
	for _, c := range a.Conds {
		if c.Kind == CondGuard {
			out = append(out, c.Guard)
		}
	}
	return out
}

package lower

import (
	"fmt"
	"strings"

	"highrust/internal/ast"
	"highrust/internal/diag"
	"highrust/internal/ir"
	"highrust/internal/types"
)

func (l *lowerer) match(id ast.ExprID, want types.TypeID) ir.Expr {
	data, _ := l.b.Exprs.Match(id)
	span := l.b.Exprs.Get(id).Span
	subject := l.facts.Expr(data.Subject)
	out := &ir.Match{
		Subject: l.expr(data.Subject),
		Arms:    make([]*ir.Arm, 0, len(data.Arms)),
		AsStr:   l.in.Kind(l.in.Deref(subject)) == types.KindString && l.hasRootStringLit(data.Arms),
	}

	catchAll := -1
	for i, arm := range data.Arms {
		if catchAll >= 0 {
			diag.ReportWarning(l.r, diag.LowUnreachableArm, arm.Span, "unreachable match arm").
				WithNote(data.Arms[catchAll].Span, "this arm already matches every value").
				Emit()
		}
		a := l.arm(arm, subject, want)
		if catchAll < 0 && a.Irrefutable() {
			catchAll = i
		}
		out.Arms = append(out.Arms, a)
	}

	if len(out.Arms) == 0 || !out.Arms[len(out.Arms)-1].Irrefutable() {
		seen := make([]string, len(out.Arms))
		for i, a := range out.Arms {
			seen[i] = "`" + a.Pattern + "`"
		}
		listed := "none"
		if len(seen) > 0 {
			listed = strings.Join(seen, ", ")
		}
		diag.ReportError(l.r, diag.LowInexhaustiveMatch, span,
			"match is not exhaustive: the last arm must be `_` or an unguarded binding").
			WithNote(span, "arms seen: "+listed).
			Emit()
	}
	return out
}

func (l *lowerer) hasRootStringLit(arms []ast.MatchArm) bool {
	for _, arm := range arms {
		if p := l.b.Pattern(arm.Pattern); p.Kind == ast.PatLiteral && p.Lit == ast.LitString {
			return true
		}
	}
	return false
}

// arm lowers one arm. Conditions are ordered: pattern equality tests,
// folded literal tests, then the user guard.
func (l *lowerer) arm(arm ast.MatchArm, subject, want types.TypeID) *ir.Arm {
	a := &ir.Arm{Pattern: l.patternText(arm.Pattern)}
	if root := l.b.Pattern(arm.Pattern); root.Kind == ast.PatWildcard || root.Kind == ast.PatBinding {
		a.Conds = append(a.Conds, ir.Cond{Kind: ir.CondAlways})
	}
	var folded []ir.Expr
	l.pattern(a, arm.Pattern, ir.Path{}, subject, &folded)
	for _, g := range folded {
		a.Conds = append(a.Conds, ir.Cond{Kind: ir.CondGuard, Guard: g})
	}
	if arm.Guard.IsValid() {
		a.Conds = append(a.Conds, ir.Cond{Kind: ir.CondGuard, Guard: l.expr(arm.Guard)})
	}
	a.Body = l.value(arm.Body, want)
	return a
}

// pattern destructures the subject component at path of type t.
func (l *lowerer) pattern(a *ir.Arm, id ast.PatternID, path ir.Path, t types.TypeID, folded *[]ir.Expr) {
	p := l.b.Pattern(id)
	l.enter(p.Span)
	defer l.leave()

	switch p.Kind {
	case ast.PatWildcard:
	case ast.PatBinding:
		a.Binds = append(a.Binds, ir.Bind{
			Name: p.Name,
			Path: path,
			Mut:  l.ann.IsMutated(l.t.PatternBinding(id)),
		})
	case ast.PatLiteral:
		lit := &ir.Lit{Kind: litKind(p.Lit), Text: p.Text}
		if !l.needsFold(p, path, t) {
			a.Conds = append(a.Conds, ir.Cond{Kind: ir.CondEquals, Path: path, Lit: lit})
			return
		}
		name := fmt.Sprintf("__m%d", l.synth)
		l.synth++
		a.Binds = append(a.Binds, ir.Bind{Name: name, Path: path, ByRef: p.Lit == ast.LitString})
		*folded = append(*folded, &ir.Binary{Op: "==", Left: &ir.Name{Name: name}, Right: lit})
	case ast.PatTuple:
		l.tuple(a, p, path, t, folded)
	case ast.PatRest:
		l.unsupported(p.Span, "`..` is only allowed inside a tuple pattern")
	default:
		l.unsupported(p.Span, "unsupported pattern kind "+p.Kind.String())
	}
}

func (l *lowerer) tuple(a *ir.Arm, p *ast.Pattern, path ir.Path, t types.TypeID, folded *[]ir.Expr) {
	shape := ir.Shape{Path: path, RestAt: -1}
	elems := make([]ast.PatternID, 0, len(p.Elems))
	for _, el := range p.Elems {
		if l.b.Pattern(el).Kind != ast.PatRest {
			elems = append(elems, el)
			continue
		}
		if shape.RestAt >= 0 {
			l.unsupported(l.b.Pattern(el).Span, "a tuple pattern may contain `..` only once")
			continue
		}
		shape.RestAt = len(elems)
	}
	shape.Len = len(elems)
	a.Shapes = append(a.Shapes, shape)

	elemTypes := l.in.Elems(l.in.Deref(t))
	for j, el := range elems {
		idx, typeIdx := j, j
		if shape.RestAt >= 0 && j >= shape.RestAt {
			idx = -(shape.Len - j)
			typeIdx = len(elemTypes) + idx
		}
		sub := l.in.Builtins().Unknown
		if typeIdx >= 0 && typeIdx < len(elemTypes) {
			sub = elemTypes[typeIdx]
		}
		l.pattern(a, el, path.Child(idx), sub, folded)
	}
}

// needsFold reports literal tests Rust cannot write as a pattern: float
// literals, and string literals against a String inside a tuple.
func (l *lowerer) needsFold(p *ast.Pattern, path ir.Path, t types.TypeID) bool {
	switch p.Lit {
	case ast.LitFloat:
		return true
	case ast.LitString:
		return len(path) > 0 && l.in.Kind(l.in.Deref(t)) == types.KindString
	}
	return false
}

// patternText renders a pattern the way it was written.
func (l *lowerer) patternText(id ast.PatternID) string {
	p := l.b.Pattern(id)
	switch p.Kind {
	case ast.PatWildcard:
		return "_"
	case ast.PatBinding:
		return p.Name
	case ast.PatLiteral:
		return p.Text
	case ast.PatRest:
		return ".."
	case ast.PatTuple:
		parts := make([]string, len(p.Elems))
		for i, el := range p.Elems {
			parts[i] = l.patternText(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return "?"
}

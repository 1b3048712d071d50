package borrow

import (
	"highrust/internal/ast"
	"highrust/internal/diag"
	"highrust/internal/ownership"
	"highrust/internal/source"
	"highrust/internal/symbols"
	"highrust/internal/types"
)

// Options configure call conventions the classifier cannot see.
type Options struct {
	// NonConsuming lists external functions that only read their arguments.
	NonConsuming map[string]bool
	// Duplicable lists named types known to implement Clone.
	Duplicable map[string]bool
}

// Use is one read of a binding.
type Use struct {
	Expr    ast.ExprID
	Binding symbols.BindingID
	Span    source.Span
	Context Context
	Mode    Mode
	// Prior is the move that forced a Duplicate, empty otherwise.
	Prior source.Span
	// LoopCarried marks a Duplicate caused by a move inside a loop or
	// closure body that reaches the same use again.
	LoopCarried bool
}

// Result holds every use of one function in source order.
type Result struct {
	Uses  []Use
	index map[ast.ExprID]int
}

// Use returns the classified use behind an identifier expression.
func (r *Result) Use(e ast.ExprID) (*Use, bool) {
	i, ok := r.index[e]
	if !ok {
		return nil, false
	}
	return &r.Uses[i], true
}

// Of returns the uses of one binding in source order.
func (r *Result) Of(b symbols.BindingID) []Use {
	var out []Use
	for _, u := range r.Uses {
		if u.Binding == b {
			out = append(out, u)
		}
	}
	return out
}

// Classify assigns a Mode to every use in the function behind table and
// writes MoveCount and CloneRequiredAt back into ann.
func Classify(table *symbols.Table, facts *types.Facts, ann *ownership.Annotations, opts Options, r diag.Reporter) *Result {
	c := classifier{t: table, b: table.Builder, facts: facts, opts: opts}
	c.block(table.Func.Body, CtxReturn)

	res := &Result{Uses: c.uses, index: make(map[ast.ExprID]int, len(c.uses))}
	for i, u := range res.Uses {
		res.index[u.Expr] = i
	}
	c.resolveDuplicates(res, ann)
	c.report(res, r)
	return res
}

// region is the range of uses collected inside one loop or closure body.
type region struct {
	scope      symbols.ScopeID
	start, end int
}

type classifier struct {
	t     *symbols.Table
	b     *ast.Builder
	facts *types.Facts
	opts  Options

	uses    []Use
	regions []region
	// assigning is the target of the assignment being walked.
	assigning symbols.BindingID
}

func (c *classifier) record(id ast.ExprID, ctx Context) {
	bnd, ok := c.t.Ref(id)
	if !ok {
		return
	}
	if bnd == c.assigning && ctx.BaseMode() != Move {
		ctx = CtxSelfAssign
	}
	c.uses = append(c.uses, Use{
		Expr:    id,
		Binding: bnd,
		Span:    c.b.Exprs.Get(id).Span,
		Context: ctx,
		Mode:    ctx.BaseMode(),
	})
}

// loop walks body as a region that may execute more than once.
func (c *classifier) loop(scope symbols.ScopeID, body func()) {
	start := len(c.uses)
	body()
	c.regions = append(c.regions, region{scope: scope, start: start, end: len(c.uses)})
}

// resolveDuplicates applies the duplication rules in source order.
// Tracking is path-insensitive: a move in any branch counts for every
// later use, and a move of an outer binding inside a region that may run
// again duplicates every use of it in that region.
func (c *classifier) resolveDuplicates(res *Result, ann *ownership.Annotations) {
	for _, reg := range c.regions {
		movedHere := make(map[symbols.BindingID]source.Span)
		for i := reg.start; i < reg.end; i++ {
			u := res.Uses[i]
			if u.Mode != Move || c.declaredWithin(u.Binding, reg.scope) {
				continue
			}
			if _, seen := movedHere[u.Binding]; !seen {
				movedHere[u.Binding] = u.Span
			}
		}
		for i := reg.start; i < reg.end; i++ {
			u := &res.Uses[i]
			if sp, ok := movedHere[u.Binding]; ok {
				u.LoopCarried = true
				u.Prior = sp
			}
		}
	}

	lastMove := make([]source.Span, c.t.NumBindings()+1)
	moved := make([]bool, c.t.NumBindings()+1)
	for i := range res.Uses {
		u := &res.Uses[i]
		a := ann.Get(u.Binding)
		switch {
		case u.LoopCarried:
			u.Mode = Duplicate
		case moved[u.Binding]:
			u.Mode = Duplicate
			u.Prior = lastMove[u.Binding]
		case u.Mode == Move:
			moved[u.Binding] = true
			lastMove[u.Binding] = u.Span
			if a != nil {
				a.MoveCount++
			}
		}
		if u.Mode == Duplicate && a != nil {
			a.CloneRequiredAt = append(a.CloneRequiredAt, u.Span)
		}
	}
}

func (c *classifier) declaredWithin(b symbols.BindingID, scope symbols.ScopeID) bool {
	bnd := c.t.Binding(b)
	return bnd != nil && c.t.IsWithin(bnd.Scope, scope)
}

func (c *classifier) report(res *Result, r diag.Reporter) {
	for _, u := range res.Uses {
		if u.Mode != Duplicate {
			continue
		}
		bnd := c.t.Binding(u.Binding)
		ty := c.facts.Binding(u.Binding)
		if u.Context == CtxReceiverMut || u.Context == CtxArgExclusive {
			diag.ReportError(r, diag.OwnDuplicationRequired, u.Span,
				"'"+bnd.Name+"' is mutated after a move; a clone would discard the change").
				WithNote(u.Prior, "value moved here").
				WithFix("borrow the earlier use with ref()", refFix(u.Prior)...).
				Emit()
			continue
		}
		if !c.facts.In.Duplicable(ty, c.opts.Duplicable) {
			diag.ReportError(r, diag.OwnDuplicationRequired, u.Span,
				"'"+bnd.Name+"' is used after a move but its type "+c.facts.In.String(ty)+" is not known to support .clone()").
				WithNote(u.Prior, "value moved here").
				WithNote(bnd.Span, "declared here; add a type annotation or list the type under ownership.duplicable").
				WithFix("borrow the earlier use with ref()", refFix(u.Prior)...).
				Emit()
			continue
		}
		code, msg, note := diag.OwnDuplicationInserted, "'"+bnd.Name+"' is cloned because it was moved earlier", "value moved here"
		if u.LoopCarried {
			code = diag.OwnMoveInLoop
			msg = "'" + bnd.Name + "' is cloned because it is moved inside a loop or closure that may run again"
			note = "value moved here on each iteration"
		}
		diag.ReportInfo(r, code, u.Span, msg).WithNote(u.Prior, note).Emit()
	}
}

// refFix wraps the span of a prior move in ref(...).
func refFix(prior source.Span) []diag.FixEdit {
	return []diag.FixEdit{
		{Span: source.Span{File: prior.File, Start: prior.Start, End: prior.Start}, NewText: "ref("},
		{Span: source.Span{File: prior.File, Start: prior.End, End: prior.End}, NewText: ")"},
	}
}

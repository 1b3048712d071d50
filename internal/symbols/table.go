package symbols

import (
	"highrust/internal/ast"
	"highrust/internal/source"
)

// CalleeKind classifies what a call target resolved to.
type CalleeKind uint8

const (
	CalleeUnknown CalleeKind = iota
	CalleeLocal              // a binding holding a closure
	CalleeModule             // function defined in the same file
	CalleeBuiltin            // see LookupBuiltin
	CalleeExternal           // anything else, assumed to exist in Rust
)

// Callee describes the resolution of `name(...)`.
type Callee struct {
	Kind    CalleeKind
	Name    string
	Func    ast.FuncID
	Binding BindingID
	Builtin BuiltinKind
}

// Table is the symbol table of one function.
type Table struct {
	Builder  *ast.Builder
	Module   *Module
	Func     *ast.Func
	Params   []BindingID
	Root     ScopeID
	scopes   []Scope   // index 0 unused
	bindings []Binding // index 0 unused

	refs     map[ast.ExprID]BindingID
	decls    map[ast.StmtID]BindingID
	assigns  map[ast.StmtID]BindingID
	patterns map[ast.PatternID]BindingID
	closures map[ast.ExprID][]BindingID
	callees  map[ast.ExprID]Callee
	blocks   map[ast.BlockID]ScopeID
	lambdas  map[ast.ExprID]ScopeID
}

func newTable(b *ast.Builder, m *Module, fn *ast.Func) *Table {
	return &Table{
		Builder:  b,
		Module:   m,
		Func:     fn,
		scopes:   make([]Scope, 1, 8),
		bindings: make([]Binding, 1, 16),
		refs:     make(map[ast.ExprID]BindingID),
		decls:    make(map[ast.StmtID]BindingID),
		assigns:  make(map[ast.StmtID]BindingID),
		patterns: make(map[ast.PatternID]BindingID),
		closures: make(map[ast.ExprID][]BindingID),
		callees:  make(map[ast.ExprID]Callee),
		blocks:   make(map[ast.BlockID]ScopeID),
		lambdas:  make(map[ast.ExprID]ScopeID),
	}
}

func (t *Table) newScope(kind ScopeKind, parent ScopeID, sp source.Span) ScopeID {
	id := ScopeID(len(t.scopes))
	t.scopes = append(t.scopes, Scope{Kind: kind, Parent: parent, Span: sp})
	if parent.IsValid() {
		p := &t.scopes[parent]
		p.Children = append(p.Children, id)
	}
	return id
}

func (t *Table) declare(scope ScopeID, b Binding) BindingID {
	id := BindingID(len(t.bindings))
	b.ID = id
	b.Scope = scope
	b.Order = len(t.bindings) - 1
	t.bindings = append(t.bindings, b)
	sc := &t.scopes[scope]
	sc.Bindings = append(sc.Bindings, id)
	if sc.names == nil {
		sc.names = make(map[string]BindingID)
	}
	sc.names[b.Name] = id
	return id
}

// lookup walks outwards from scope and returns the innermost binding.
func (t *Table) lookup(scope ScopeID, name string) BindingID {
	for scope.IsValid() {
		sc := &t.scopes[scope]
		if id, ok := sc.names[name]; ok {
			return id
		}
		scope = sc.Parent
	}
	return NoBindingID
}

// Scope returns the scope with the given id.
func (t *Table) Scope(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(t.scopes) {
		return nil
	}
	return &t.scopes[id]
}

// Binding returns the binding with the given id.
func (t *Table) Binding(id BindingID) *Binding {
	if !id.IsValid() || int(id) >= len(t.bindings) {
		return nil
	}
	return &t.bindings[id]
}

// Bindings returns every binding in source order.
func (t *Table) Bindings() []Binding {
	return t.bindings[1:]
}

// NumBindings returns the number of bindings in the function.
func (t *Table) NumBindings() int {
	return len(t.bindings) - 1
}

// Ref returns the binding an identifier expression refers to.
func (t *Table) Ref(e ast.ExprID) (BindingID, bool) {
	id, ok := t.refs[e]
	return id, ok
}

// Decl returns the binding introduced by a let or for statement.
func (t *Table) Decl(s ast.StmtID) BindingID {
	return t.decls[s]
}

// AssignTarget returns the binding an assignment statement writes.
func (t *Table) AssignTarget(s ast.StmtID) BindingID {
	return t.assigns[s]
}

// PatternBinding returns the binding introduced by a binding pattern.
func (t *Table) PatternBinding(p ast.PatternID) BindingID {
	return t.patterns[p]
}

// ClosureParams returns the bindings of a closure's parameters.
func (t *Table) ClosureParams(e ast.ExprID) []BindingID {
	return t.closures[e]
}

// Callee returns how the callee expression of a call was resolved.
func (t *Table) Callee(call ast.ExprID) (Callee, bool) {
	c, ok := t.callees[call]
	return c, ok
}

// BlockScope returns the scope a block's statements are declared in.
func (t *Table) BlockScope(blk ast.BlockID) ScopeID {
	return t.blocks[blk]
}

// ClosureScope returns the scope holding a closure's parameters.
func (t *Table) ClosureScope(e ast.ExprID) ScopeID {
	return t.lambdas[e]
}

package symbols

import (
	"highrust/internal/ast"
	"highrust/internal/diag"
)

// Module lists the functions and data definitions of one file. It is
// read-only once collected and may be shared by concurrent per-function
// passes.
type Module struct {
	Builder *ast.Builder
	Order   []ast.FuncID
	Data    []*ast.Data
	funcs   map[string]ast.FuncID
	types   map[string]*ast.Data
}

// CollectModule indexes every function and data definition of f,
// reporting duplicates. The first definition wins.
func CollectModule(b *ast.Builder, f *ast.File, r diag.Reporter) *Module {
	m := &Module{
		Builder: b,
		funcs:   make(map[string]ast.FuncID, len(f.Funcs)),
		types:   make(map[string]*ast.Data, len(f.Data)),
	}
	for i := range f.Data {
		d := &f.Data[i]
		if prev, dup := m.types[d.Name]; dup {
			diag.ReportError(r, diag.SemaDuplicateType, d.NameSpan, d.Kind.String()+" '"+d.Name+"' is defined more than once").
				WithNote(prev.NameSpan, "first defined here").
				Emit()
			continue
		}
		m.types[d.Name] = d
		m.Data = append(m.Data, d)
	}
	for _, id := range f.Funcs {
		fn := b.Func(id)
		if prev, dup := m.funcs[fn.Name]; dup {
			diag.ReportError(r, diag.SemaDuplicateFunc, fn.NameSpan, "function '"+fn.Name+"' is defined more than once").
				WithNote(b.Func(prev).NameSpan, "first defined here").
				Emit()
			continue
		}
		m.funcs[fn.Name] = id
		m.Order = append(m.Order, id)
	}
	return m
}

// Func returns the module function called name.
func (m *Module) Func(name string) (ast.FuncID, bool) {
	if m == nil {
		return ast.NoFuncID, false
	}
	id, ok := m.funcs[name]
	return id, ok
}

// Type returns the data definition called name.
func (m *Module) Type(name string) (*ast.Data, bool) {
	if m == nil {
		return nil, false
	}
	d, ok := m.types[name]
	return d, ok
}

package symbols

import (
	"testing"

	"highrust/internal/diag"
	"highrust/internal/parser"
	"highrust/internal/source"
)

func buildFirst(t *testing.T, src string) (*Table, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.hr", []byte(src))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	res := parser.ParseFile(fs.Get(id), parser.Options{Reporter: rep})
	if res.Errors != 0 {
		t.Fatalf("parse errors: %s", diag.FormatShort(bag.Items(), fs, false))
	}
	m := CollectModule(res.Builder, res.File, rep)
	table := Build(m, m.Order[0], rep)
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return table, bag
}

// bindingsNamed returns the bindings called name in source order.
func bindingsNamed(table *Table, name string) []Binding {
	var out []Binding
	for _, b := range table.Bindings() {
		if b.Name == name {
			out = append(out, b)
		}
	}
	return out
}

func TestBuildParamsFirst(t *testing.T) {
	table, bag := buildFirst(t, "fn f(a, b) { let c = a; }")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors")
	}
	all := table.Bindings()
	if len(all) != 3 {
		t.Fatalf("expected 3 bindings, got %d", len(all))
	}
	want := []struct {
		name string
		kind BindingKind
	}{{"a", BindingParam}, {"b", BindingParam}, {"c", BindingLet}}
	for i, w := range want {
		if all[i].Name != w.name || all[i].Kind != w.kind {
			t.Fatalf("binding %d: got %s/%s, want %s/%s", i, all[i].Name, all[i].Kind, w.name, w.kind)
		}
	}
	if table.Scope(all[0].Scope).Kind != ScopeFunction {
		t.Fatalf("params must live in the function scope")
	}
}

func TestShadowingCreatesNewBinding(t *testing.T) {
	table, bag := buildFirst(t, "fn f(x) { let y = x; let x = 2; let z = x; }")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors")
	}
	xs := bindingsNamed(table, "x")
	if len(xs) != 2 {
		t.Fatalf("expected 2 bindings named x, got %d", len(xs))
	}
	b := table.Builder
	body := b.Block(table.Func.Body)
	letY := b.Stmts.Let(body.Stmts[0])
	letZ := b.Stmts.Let(body.Stmts[2])
	if got, _ := table.Ref(letY.Init); got != xs[0].ID {
		t.Fatalf("y should read the parameter x")
	}
	if got, _ := table.Ref(letZ.Init); got != xs[1].ID {
		t.Fatalf("z should read the shadowing x")
	}
}

func TestLetReadsPreviousBinding(t *testing.T) {
	table, _ := buildFirst(t, "fn f(x) { let x = x + 1; }")
	b := table.Builder
	let := b.Stmts.Let(b.Block(table.Func.Body).Stmts[0])
	bin, _ := b.Exprs.Binary(let.Init)
	ref, ok := table.Ref(bin.Left)
	if !ok || table.Binding(ref).Kind != BindingParam {
		t.Fatalf("initializer must resolve to the parameter")
	}
}

func TestNameErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"undeclared use", "fn f() { let y = x; }", diag.SemaNameError},
		{"assign undeclared", "fn f() { x = 1; }", diag.SemaNameError},
		{"let not visible after block", "fn f() { { let x = 1; } let y = x; }", diag.SemaNameError},
		{"arm binding scoped to arm", "fn f(p) { match p { n => n, } let z = n; }", diag.SemaNameError},
		{"duplicate param", "fn f(a, a) { }", diag.SemaDuplicateParam},
		{"duplicate pattern binding", "fn f(p) { match p { (x, x) => x, } }", diag.SemaDuplicateParam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag := buildFirst(t, tt.src)
			if !bag.HasCode(tt.code) {
				t.Fatalf("expected %s", tt.code)
			}
		})
	}
}

func TestNameErrorPosition(t *testing.T) {
	_, bag := buildFirst(t, "fn f() {\n    let y = missing;\n}")
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(items))
	}
	if items[0].Primary.Start != 21 || items[0].Primary.End != 28 {
		t.Fatalf("unexpected span %v", items[0].Primary)
	}
}

func TestCalleeKinds(t *testing.T) {
	src := `fn f(y) { let k = |v| v; helper(y); println("x"); external(y); k(1); }
fn helper(a) { }`
	table, bag := buildFirst(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors")
	}
	b := table.Builder
	body := b.Block(table.Func.Body)
	want := []CalleeKind{CalleeModule, CalleeBuiltin, CalleeExternal, CalleeLocal}
	for i, kind := range want {
		call := b.Stmts.Expr(body.Stmts[i+1]).Expr
		c, ok := table.Callee(call)
		if !ok {
			t.Fatalf("call %d not resolved", i)
		}
		if c.Kind != kind {
			t.Fatalf("call %d (%s): got kind %d, want %d", i, c.Name, c.Kind, kind)
		}
	}
}

func TestInfoOnParamReassign(t *testing.T) {
	_, bag := buildFirst(t, "fn f(n) { n = n + 1; }")
	if bag.HasErrors() {
		t.Fatalf("reassigning a parameter is not an error")
	}
	if !bag.HasCode(diag.SemaAssignToParam) {
		t.Fatalf("expected %s info", diag.SemaAssignToParam)
	}
}

func TestLoopScopes(t *testing.T) {
	table, _ := buildFirst(t, "fn f(xs) { for x in xs { let y = x; } }")
	xs := bindingsNamed(table, "x")
	ys := bindingsNamed(table, "y")
	if len(xs) != 1 || xs[0].Kind != BindingLoopVar {
		t.Fatalf("expected loop variable binding")
	}
	if !table.InLoop(ys[0].Scope) {
		t.Fatalf("let inside loop body must be in a loop scope")
	}
	if table.InLoop(table.Root) {
		t.Fatalf("function scope is not a loop")
	}
}

func TestCollectModuleDuplicate(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("dup.hr", []byte("fn a() { } fn a() { } fn b() { }"))
	bag := diag.NewBag(0)
	res := parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	m := CollectModule(res.Builder, res.File, diag.BagReporter{Bag: bag})
	if !bag.HasCode(diag.SemaDuplicateFunc) {
		t.Fatalf("expected duplicate function diagnostic")
	}
	if len(m.Order) != 2 {
		t.Fatalf("expected 2 unique functions, got %d", len(m.Order))
	}
	if _, ok := m.Func("b"); !ok {
		t.Fatalf("b must be indexed")
	}
}

func TestCollectModuleDuplicateType(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("dup.hr", []byte("struct P { x: i32 } enum P { A } enum Q { B } fn P() { }"))
	bag := diag.NewBag(0)
	res := parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	m := CollectModule(res.Builder, res.File, diag.BagReporter{Bag: bag})
	if !bag.HasCode(diag.SemaDuplicateType) || bag.HasCode(diag.SemaDuplicateFunc) {
		t.Fatalf("expected only a duplicate type diagnostic, got %+v", bag.Items())
	}
	if len(m.Data) != 2 || len(m.Order) != 1 {
		t.Fatalf("got %d data and %d functions", len(m.Data), len(m.Order))
	}
	if d, ok := m.Type("P"); !ok || d.Kind.String() != "struct" {
		t.Fatalf("first definition of P must win")
	}
}

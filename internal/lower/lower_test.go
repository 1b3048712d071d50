package lower

import (
	"strings"
	"testing"

	"highrust/internal/borrow"
	"highrust/internal/diag"
	"highrust/internal/ir"
	"highrust/internal/ownership"
	"highrust/internal/parser"
	"highrust/internal/source"
	"highrust/internal/symbols"
	"highrust/internal/types"
)

type lowered struct {
	fn  *ir.Func
	bag *diag.Bag
	fs  *source.FileSet
}

func (l lowered) diags() string {
	return diag.FormatShort(l.bag.Items(), l.fs, true)
}

// lowerNamed runs the pipeline up to lowering for the function called name.
func lowerNamed(t *testing.T, src, name string, opts Options) lowered {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("lower.hr", []byte(src))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	parsed := parser.ParseFile(fs.Get(id), parser.Options{Reporter: rep})
	m := symbols.CollectModule(parsed.Builder, parsed.File, rep)
	fnID, ok := m.Func(name)
	if !ok {
		t.Fatalf("no function %q", name)
	}
	table := symbols.Build(m, fnID, rep)
	if bag.HasErrors() {
		t.Fatalf("front end errors: %s", diag.FormatShort(bag.Items(), fs, false))
	}
	facts := types.Infer(table)
	ann := ownership.Analyze(table, ownership.Options{MethodMutation: true})
	uses := borrow.Classify(table, facts, ann, opts.Borrow, rep)
	fn := Func(Input{Table: table, Facts: facts, Ann: ann, Uses: uses}, opts, rep)
	return lowered{fn: fn, bag: bag, fs: fs}
}

func lowerFirst(t *testing.T, src string) lowered {
	t.Helper()
	name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(src), "fn "))
	name = name[:strings.IndexByte(name, '(')]
	return lowerNamed(t, src, name, Options{})
}

// tailMatch digs the match out of the function's tail or its only statement.
func tailMatch(t *testing.T, fn *ir.Func) *ir.Match {
	t.Helper()
	var x ir.Expr = fn.Body.Tail
	if x == nil && len(fn.Body.Stmts) > 0 {
		switch s := fn.Body.Stmts[len(fn.Body.Stmts)-1].(type) {
		case *ir.ExprStmt:
			x = s.X
		case *ir.LetStmt:
			x = s.Value
		case *ir.ReturnStmt:
			x = s.Value
		}
	}
	m, ok := x.(*ir.Match)
	if !ok {
		t.Fatalf("expected a match, got %T", x)
	}
	return m
}

func TestMatchExhaustiveness(t *testing.T) {
	tests := []struct {
		name string
		src  string
		ok   bool
	}{
		{"literals only", "fn f(x) { match x { 0 => a(), 1 => b() } }", false},
		{"trailing wildcard", "fn f(x) { match x { 0 => a(), _ => b() } }", true},
		{"trailing binding", "fn f(x) { match x { 0 => a(), n => b(n) } }", true},
		{"guarded binding last", "fn f(x) { match x { 0 => a(), n if n > 1 => b(n) } }", false},
		{"tuple of bindings", "fn f(p: (i32, i32)) { match p { (a, b) => g(a, b) } }", true},
		{"tuple with literal", "fn f(p: (i32, i32)) { match p { (a, 0) => g(a) } }", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := lowerFirst(t, tt.src)
			got := !l.bag.HasCode(diag.LowInexhaustiveMatch)
			if got != tt.ok {
				t.Fatalf("exhaustive = %v, want %v:\n%s", got, tt.ok, l.diags())
			}
		})
	}
}

func TestInexhaustiveNoteListsArms(t *testing.T) {
	l := lowerFirst(t, "fn f(x) { match x { 0 => a(), 1 => b() } }")
	for _, d := range l.bag.Items() {
		if d.Code != diag.LowInexhaustiveMatch {
			continue
		}
		if len(d.Notes) == 0 || d.Notes[0].Msg != "arms seen: `0`, `1`" {
			t.Fatalf("unexpected notes: %+v", d.Notes)
		}
		return
	}
	t.Fatalf("missing inexhaustive diagnostic:\n%s", l.diags())
}

func TestArmOrderIsPreserved(t *testing.T) {
	l := lowerFirst(t, "fn f(n) { match n { 0 => a(), n if n < 10 => b(n), n => c(n), _ => d() } }")
	m := tailMatch(t, l.fn)
	if len(m.Arms) != 4 {
		t.Fatalf("expected 4 arms, got %d", len(m.Arms))
	}
	want := []string{"0", "n", "n", "_"}
	for i, a := range m.Arms {
		if a.Pattern != want[i] {
			t.Fatalf("arm %d pattern %q, want %q", i, a.Pattern, want[i])
		}
	}
	if m.Arms[1].Irrefutable() || len(m.Arms[1].Guards()) != 1 {
		t.Fatalf("second arm should carry one guard")
	}
	if !m.Arms[2].Irrefutable() {
		t.Fatalf("third arm should be irrefutable")
	}
	if !l.bag.HasCode(diag.LowUnreachableArm) {
		t.Fatalf("expected unreachable warning for the arm after the catch-all:\n%s", l.diags())
	}
	if l.bag.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", l.diags())
	}
}

func TestTuplePatternPaths(t *testing.T) {
	l := lowerFirst(t, "fn f(p: (i32, i32, i32)) { match p { (x, .., 0) => g(x), _ => h() } }")
	if l.bag.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", l.diags())
	}
	arm := tailMatch(t, l.fn).Arms[0]
	if len(arm.Shapes) != 1 || arm.Shapes[0].Len != 2 || arm.Shapes[0].RestAt != 1 {
		t.Fatalf("unexpected shapes: %+v", arm.Shapes)
	}
	if len(arm.Binds) != 1 || arm.Binds[0].Path.String() != "$.0" {
		t.Fatalf("unexpected binds: %+v", arm.Binds)
	}
	if len(arm.Conds) != 1 || arm.Conds[0].Kind != ir.CondEquals || arm.Conds[0].Path.String() != "$.end-1" {
		t.Fatalf("unexpected conds: %+v", arm.Conds)
	}
	if err := ir.Validate(l.fn); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestRestPatternErrors(t *testing.T) {
	tests := []string{
		"fn f(x) { match x { .. => a() } }",
		"fn f(p: (i32, i32, i32)) { match p { (.., x, ..) => a(), _ => b() } }",
	}
	for _, src := range tests {
		l := lowerFirst(t, src)
		if !l.bag.HasCode(diag.LowUnsupportedConstruct) {
			t.Fatalf("%s: expected unsupported construct:\n%s", src, l.diags())
		}
	}
}

func TestLiteralFolding(t *testing.T) {
	t.Run("float", func(t *testing.T) {
		l := lowerFirst(t, "fn f(x: f64) { match x { 1.5 => a(), _ => b() } }")
		arm := tailMatch(t, l.fn).Arms[0]
		if len(arm.Binds) != 1 || !strings.HasPrefix(arm.Binds[0].Name, "__m") || arm.Binds[0].ByRef {
			t.Fatalf("unexpected binds: %+v", arm.Binds)
		}
		guards := arm.Guards()
		if len(guards) != 1 {
			t.Fatalf("expected one folded guard, got %d", len(guards))
		}
		if b, ok := guards[0].(*ir.Binary); !ok || b.Op != "==" {
			t.Fatalf("unexpected guard %#v", guards[0])
		}
	})
	t.Run("string in tuple", func(t *testing.T) {
		l := lowerFirst(t, `fn f(p: (String, i32)) { match p { ("a", n) if n > 0 => g(n), _ => h() } }`)
		arm := tailMatch(t, l.fn).Arms[0]
		var folded *ir.Bind
		for i := range arm.Binds {
			if strings.HasPrefix(arm.Binds[i].Name, "__m") {
				folded = &arm.Binds[i]
			}
		}
		if folded == nil || !folded.ByRef || folded.Path.String() != "$.0" {
			t.Fatalf("expected a by-reference synthetic bind at $.0, got %+v", arm.Binds)
		}
		guards := arm.Guards()
		if len(guards) != 2 {
			t.Fatalf("expected folded guard before the user guard, got %d guards", len(guards))
		}
		if b := guards[0].(*ir.Binary); b.Left.(*ir.Name).Name != folded.Name {
			t.Fatalf("folded guard should come first")
		}
	})
	t.Run("root string matched as str", func(t *testing.T) {
		l := lowerFirst(t, `fn f(s: String) { match s { "a" => x(), _ => y() } }`)
		m := tailMatch(t, l.fn)
		if !m.AsStr {
			t.Fatalf("expected AsStr on a String subject")
		}
		if c := m.Arms[0].Conds; len(c) != 1 || c[0].Kind != ir.CondEquals {
			t.Fatalf("root string literal should stay a pattern: %+v", c)
		}
	})
}

func TestOwnedStrings(t *testing.T) {
	l := lowerFirst(t, `fn f() -> String { let s: String = "hi"; let t = "a" + s; return t; }`)
	if l.bag.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", l.diags())
	}
	let0 := l.fn.Body.Stmts[0].(*ir.LetStmt)
	if lit, ok := let0.Value.(*ir.Lit); !ok || !lit.Owned {
		t.Fatalf("annotated String let should own its literal, got %#v", let0.Value)
	}
	let1 := l.fn.Body.Stmts[1].(*ir.LetStmt)
	bin, ok := let1.Value.(*ir.Binary)
	if !ok {
		t.Fatalf("expected concatenation, got %T", let1.Value)
	}
	if lit, ok := bin.Left.(*ir.Lit); !ok || !lit.Owned {
		t.Fatalf("concatenation head should be owned, got %#v", bin.Left)
	}
	if _, ok := bin.Right.(*ir.Borrow); !ok {
		t.Fatalf("String right operand should be borrowed, got %T", bin.Right)
	}
}

func TestRefBuiltin(t *testing.T) {
	l := lowerFirst(t, "fn f(data: Vec<i32>) { show(ref(data)); touch(mut_ref(data)); }")
	if l.bag.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", l.diags())
	}
	call := l.fn.Body.Stmts[0].(*ir.ExprStmt).X.(*ir.Call)
	r, ok := call.Args[0].(*ir.Ref)
	if !ok || !r.Explicit || r.Mode != borrow.BorrowShared {
		t.Fatalf("ref(data) should be an explicit shared Ref, got %#v", call.Args[0])
	}
	call = l.fn.Body.Stmts[1].(*ir.ExprStmt).X.(*ir.Call)
	if r, ok := call.Args[0].(*ir.Ref); !ok || r.Mode != borrow.BorrowExclusive {
		t.Fatalf("mut_ref(data) should be an exclusive Ref, got %#v", call.Args[0])
	}

	bad := lowerFirst(t, "fn f(a, b) { show(ref(a, b)); }")
	if !bad.bag.HasCode(diag.LowUnsupportedConstruct) {
		t.Fatalf("ref with two arguments should be unsupported:\n%s", bad.diags())
	}
}

func TestMacroFormatSynthesis(t *testing.T) {
	l := lowerFirst(t, `fn f(a, b) { println(a, b); println("x = {}", a); }`)
	first := l.fn.Body.Stmts[0].(*ir.ExprStmt).X.(*ir.MacroCall)
	if first.Name != "println" || len(first.Args) != 3 {
		t.Fatalf("unexpected macro: %#v", first)
	}
	if lit := first.Args[0].(*ir.Lit); lit.Text != `"{} {}"` {
		t.Fatalf("synthesized format = %s", lit.Text)
	}
	second := l.fn.Body.Stmts[1].(*ir.ExprStmt).X.(*ir.MacroCall)
	if len(second.Args) != 2 {
		t.Fatalf("explicit format string must be kept as is, got %d args", len(second.Args))
	}
}

func TestReturnedClosureReassigningCapture(t *testing.T) {
	l := lowerFirst(t, "fn f() { let count = 0; return |x| { count = count + x; count }; }")
	if !l.bag.HasCode(diag.LowUnsupportedConstruct) {
		t.Fatalf("expected unsupported construct:\n%s", l.diags())
	}
	ok := lowerFirst(t, "fn f() { let base = 1; return |x| x + base; }")
	if ok.bag.HasCode(diag.LowUnsupportedConstruct) {
		t.Fatalf("reading a capture is fine:\n%s", ok.diags())
	}
}

func TestMutabilityMarkers(t *testing.T) {
	l := lowerFirst(t, "fn f(v: Vec<i32>) { let w = v; w.push(1); let n = 0; n += 1; let k = 3; use_it(w, n, k); }")
	if l.bag.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", l.diags())
	}
	wantMut := map[string]bool{"w": true, "n": true, "k": false}
	for _, s := range l.fn.Body.Stmts {
		if let, ok := s.(*ir.LetStmt); ok {
			if let.Mut != wantMut[let.Name] {
				t.Fatalf("let %s Mut = %v", let.Name, let.Mut)
			}
		}
	}
	if l.fn.Params[0].Mut {
		t.Fatalf("v is never mutated itself")
	}
}

func TestUndeclaredResult(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		result   string
		keepTail bool
	}{
		{"typed tail", "fn f(x: i32) { x }", "i32", true},
		{"defaulted param tail", "fn f(x) { x }", "i32", true},
		{"string tail", "fn f(s: String) { s }", "String", true},
		{"unknown tail", "fn f(s: String) { run(s) }", "", false},
		{"unit tail", "fn f() { () }", "", false},
		{"closure tail", "fn f() { |x| x }", "", false},
		{"no tail", "fn f(x: i32) { run(x); }", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := lowerFirst(t, tt.src)
			if l.fn.Result != tt.result {
				t.Fatalf("Result = %q, want %q", l.fn.Result, tt.result)
			}
			if (l.fn.Body.Tail != nil) != tt.keepTail {
				t.Fatalf("tail kept = %v, want %v", l.fn.Body.Tail != nil, tt.keepTail)
			}
			if !tt.keepTail && len(l.fn.Body.Stmts) == 0 {
				t.Fatalf("tail dropped instead of becoming a statement")
			}
		})
	}
}

func TestDepthGuard(t *testing.T) {
	src := "fn f() -> i32 { " + strings.Repeat("(", 40) + "1" + strings.Repeat(")", 40) + " }"
	l := lowerNamed(t, src, "f", Options{MaxDepth: 10})
	if l.fn != nil || !l.bag.HasCode(diag.FatalStackExhausted) {
		t.Fatalf("expected depth exhaustion:\n%s", l.diags())
	}
}

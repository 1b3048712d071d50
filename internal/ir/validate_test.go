package ir

import (
	"strings"
	"testing"
)

func always() []Cond { return []Cond{{Kind: CondAlways}} }

func matchFunc(arms ...*Arm) *Func {
	return &Func{Name: "f", Body: &Block{Tail: &Match{Subject: &Name{Name: "x"}, Arms: arms}}}
}

func TestValidateAcceptsWellFormed(t *testing.T) {
	fn := matchFunc(
		&Arm{
			Shapes:  []Shape{{Path: Path{}, Len: 2, RestAt: -1}},
			Binds:   []Bind{{Name: "a", Path: Path{0}}},
			Conds:   []Cond{{Kind: CondEquals, Path: Path{1}, Lit: &Lit{Kind: LitInt, Text: "0"}}},
			Body:    &Name{Name: "a"},
			Pattern: "(a, 0)",
		},
		&Arm{Conds: always(), Body: &Lit{Kind: LitInt, Text: "1"}, Pattern: "_"},
	)
	if err := Validate(fn); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	tests := []struct {
		name string
		fn   *Func
		want []string
	}{
		{
			name: "nil body",
			fn:   &Func{Name: "f"},
			want: []string{"nil body"},
		},
		{
			name: "missing values",
			fn: &Func{Name: "f", Body: &Block{Stmts: []Stmt{
				&LetStmt{Name: "a"},
				&ExprStmt{X: &Call{Callee: &Name{Name: "g"}, Args: []Expr{nil}}},
			}}},
			want: []string{"missing let value", "missing argument"},
		},
		{
			name: "empty match",
			fn:   matchFunc(),
			want: []string{"match without arms"},
		},
		{
			name: "refutable last arm",
			fn: matchFunc(&Arm{
				Conds:   []Cond{{Kind: CondEquals, Path: Path{}, Lit: &Lit{Kind: LitInt, Text: "0"}}},
				Body:    &Name{Name: "a"},
				Pattern: "0",
			}),
			want: []string{`last arm "0" is refutable`},
		},
		{
			name: "equality after guard",
			fn: matchFunc(
				&Arm{
					Conds: []Cond{
						{Kind: CondGuard, Guard: &Name{Name: "ok"}},
						{Kind: CondEquals, Path: Path{}, Lit: &Lit{Kind: LitInt, Text: "0"}},
					},
					Body: &Name{Name: "a"},
				},
				&Arm{Conds: always(), Body: &Name{Name: "b"}},
			),
			want: []string{"arm 0: equality test after guard"},
		},
		{
			name: "path without shape",
			fn: matchFunc(
				&Arm{Binds: []Bind{{Name: "a", Path: Path{0, 1}}}, Conds: always(), Body: &Name{Name: "a"}},
			),
			want: []string{"arm 0: path $.0.1 has no tuple shape at $"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.fn)
			if err == nil {
				t.Fatalf("expected an error")
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Fatalf("missing %q in %v", w, err)
				}
			}
		})
	}
}

func TestPathString(t *testing.T) {
	tests := []struct {
		p    Path
		want string
	}{
		{Path{}, "$"},
		{Path{0}, "$.0"},
		{Path{1, -2}, "$.1.end-2"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Fatalf("%v.String() = %q, want %q", []int(tt.p), got, tt.want)
		}
	}
	base := Path{1}
	a, b := base.Child(2), base.Child(3)
	if a.Equal(b) || !a.Equal(Path{1, 2}) {
		t.Fatalf("Child must not alias its parent")
	}
}

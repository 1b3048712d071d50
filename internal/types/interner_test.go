package types

import "testing"

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Unit == NoTypeID || b.Bool == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	unit, _ := in.Lookup(b.Unit)
	if unit.Kind != KindUnit {
		t.Fatalf("expected unit kind, got %v", unit.Kind)
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	elem := in.Builtins().String
	v1 := in.Intern(MakeVec(elem))
	v2 := in.Intern(MakeVec(elem))
	if v1 != v2 {
		t.Fatalf("vec types should be deduplicated")
	}
	t1 := in.Tuple([]TypeID{elem, in.Builtins().Int})
	t2 := in.Tuple([]TypeID{elem, in.Builtins().Int})
	t3 := in.Tuple([]TypeID{in.Builtins().Int, elem})
	if t1 != t2 {
		t.Fatalf("tuple types should be deduplicated")
	}
	if t1 == t3 {
		t.Fatalf("tuple element order must affect identity")
	}
}

func TestReferenceMutabilityAffectsIdentity(t *testing.T) {
	in := NewInterner()
	elem := in.Builtins().Int
	mut := in.Intern(MakeReference(elem, true))
	imm := in.Intern(MakeReference(elem, false))
	if mut == imm {
		t.Fatalf("mutable and immutable references must differ")
	}
}

func TestSpelling(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	tests := []struct {
		id   TypeID
		want string
	}{
		{b.Int, "i32"},
		{b.Str, "&str"},
		{b.Unknown, "_"},
		{in.Intern(MakeVec(b.String)), "Vec<String>"},
		{in.Tuple([]TypeID{b.Int, b.String}), "(i32, String)"},
		{in.Intern(MakeReference(in.Intern(MakeVec(b.Int)), true)), "&mut Vec<i32>"},
		{in.Intern(MakeResult(b.Int, b.String)), "Result<i32, String>"},
		{in.Intern(MakeOption(b.Float)), "Option<f64>"},
		{in.Tuple(nil), "()"},
	}
	for _, tt := range tests {
		if got := in.String(tt.id); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestDuplicable(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	cfg := in.Intern(MakeNamed("Config"))
	conn := in.Intern(MakeNamed("Conn"))
	extra := map[string]bool{"Config": true}
	tests := []struct {
		name string
		id   TypeID
		want bool
		copy bool
	}{
		{"int", b.Int, true, true},
		{"string", b.String, true, false},
		{"vec of string", in.Intern(MakeVec(b.String)), true, false},
		{"closure", b.Closure, false, false},
		{"unknown", b.Unknown, false, false},
		{"configured named", cfg, true, false},
		{"other named", conn, false, false},
		{"tuple with named", in.Tuple([]TypeID{b.Int, conn}), false, false},
		{"exclusive ref", in.Intern(MakeReference(b.Int, true)), false, false},
		{"shared ref", in.Intern(MakeReference(b.String, false)), true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := in.Duplicable(tt.id, extra); got != tt.want {
				t.Fatalf("Duplicable = %v, want %v", got, tt.want)
			}
			if got := in.IsCopy(tt.id); got != tt.copy {
				t.Fatalf("IsCopy = %v, want %v", got, tt.copy)
			}
		})
	}
}

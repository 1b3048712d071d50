package types

import (
	"strings"

	"highrust/internal/ast"
)

var intNames = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true, "isize": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true, "usize": true,
}

// FromAST converts a written type. NoTypeID yields the Unknown builtin.
func (in *Interner) FromAST(b *ast.Builder, id ast.TypeID) TypeID {
	if !id.IsValid() {
		return in.builtins.Unknown
	}
	t := b.Type(id)
	switch t.Kind {
	case ast.TypeUnit:
		return in.builtins.Unit
	case ast.TypeRef, ast.TypeRefMut:
		if t.Kind == ast.TypeRef {
			if inner := b.Type(t.Args[0]); inner.Kind == ast.TypePath && inner.Name == "str" {
				return in.builtins.Str
			}
		}
		return in.Intern(MakeReference(in.FromAST(b, t.Args[0]), t.Kind == ast.TypeRefMut))
	case ast.TypeTuple:
		elems := make([]TypeID, len(t.Args))
		for i, a := range t.Args {
			elems[i] = in.FromAST(b, a)
		}
		return in.Tuple(elems)
	}

	arg := func(i int) TypeID {
		if i < len(t.Args) {
			return in.FromAST(b, t.Args[i])
		}
		return in.builtins.Unknown
	}
	switch {
	case intNames[t.Name] && len(t.Args) == 0:
		return in.Intern(MakeInt(t.Name))
	case (t.Name == "f32" || t.Name == "f64") && len(t.Args) == 0:
		return in.Intern(MakeFloat(t.Name))
	case t.Name == "bool":
		return in.builtins.Bool
	case t.Name == "String":
		return in.builtins.String
	case t.Name == "str":
		return in.builtins.Str
	case t.Name == "Vec" && len(t.Args) == 1:
		return in.Intern(MakeVec(arg(0)))
	case t.Name == "Option" && len(t.Args) == 1:
		return in.Intern(MakeOption(arg(0)))
	case t.Name == "Result" && len(t.Args) == 2:
		return in.Intern(MakeResult(arg(0), arg(1)))
	}
	return in.Intern(MakeNamed(spell(b, id)))
}

// spell renders a written type back to Rust syntax.
func spell(b *ast.Builder, id ast.TypeID) string {
	t := b.Type(id)
	switch t.Kind {
	case ast.TypeUnit:
		return "()"
	case ast.TypeRef:
		return "&" + spell(b, t.Args[0])
	case ast.TypeRefMut:
		return "&mut " + spell(b, t.Args[0])
	}
	if len(t.Args) == 0 && t.Kind == ast.TypePath {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = spell(b, a)
	}
	if t.Kind == ast.TypeTuple {
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return t.Name + "<" + strings.Join(parts, ", ") + ">"
}

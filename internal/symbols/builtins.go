package symbols

// BuiltinKind tells later passes how a builtin callee behaves.
type BuiltinKind uint8

const (
	BuiltinNone BuiltinKind = iota
	// BuiltinPrint names lower to Rust macros and only read their arguments.
	BuiltinPrint
	// BuiltinRef is `ref(x)`, an explicit shared borrow.
	BuiltinRef
	// BuiltinRefMut is `mut_ref(x)`, an explicit exclusive borrow.
	BuiltinRefMut
	// BuiltinCtor covers Option/Result constructors.
	BuiltinCtor
)

var builtins = map[string]BuiltinKind{
	"print":       BuiltinPrint,
	"println":     BuiltinPrint,
	"eprint":      BuiltinPrint,
	"eprintln":    BuiltinPrint,
	"format":      BuiltinPrint,
	"panic":       BuiltinPrint,
	"assert":      BuiltinPrint,
	"assert_eq":   BuiltinPrint,
	"assert_ne":   BuiltinPrint,
	"dbg":         BuiltinPrint,
	"todo":        BuiltinPrint,
	"unreachable": BuiltinPrint,
	"ref":         BuiltinRef,
	"mut_ref":     BuiltinRefMut,
	"Some":        BuiltinCtor,
	"Ok":          BuiltinCtor,
	"Err":         BuiltinCtor,
}

// builtinValues are names usable as plain identifiers without a declaration.
var builtinValues = map[string]struct{}{
	"None": {},
}

// LookupBuiltin reports whether name is a builtin callee.
func LookupBuiltin(name string) (BuiltinKind, bool) {
	k, ok := builtins[name]
	return k, ok
}

// IsBuiltinValue reports whether name may be used without a declaration.
func IsBuiltinValue(name string) bool {
	_, ok := builtinValues[name]
	return ok
}

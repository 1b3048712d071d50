package symbols

import "highrust/internal/source"

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeFunction           // parameters
	ScopeBlock              // `{ ... }`, if/else branches
	ScopeArm                // one match arm, holds pattern bindings
	ScopeLoop               // while/for body, holds the for variable
	ScopeClosure            // closure parameters
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeArm:
		return "arm"
	case ScopeLoop:
		return "loop"
	case ScopeClosure:
		return "closure"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope with a parent-child hierarchy.
type Scope struct {
	Kind     ScopeKind
	Parent   ScopeID
	Span     source.Span
	Bindings []BindingID // declaration order
	Children []ScopeID

	// names maps a name to the latest binding declared in this scope.
	names map[string]BindingID
}

// InLoop reports whether id or any ancestor up to the function scope is a
// loop or closure body, i.e. code that may run more than once.
func (t *Table) InLoop(id ScopeID) bool {
	for id.IsValid() {
		sc := t.Scope(id)
		if sc.Kind == ScopeLoop || sc.Kind == ScopeClosure {
			return true
		}
		id = sc.Parent
	}
	return false
}

// IsWithin reports whether inner is outer or nested inside it.
func (t *Table) IsWithin(inner, outer ScopeID) bool {
	for inner.IsValid() {
		if inner == outer {
			return true
		}
		inner = t.Scope(inner).Parent
	}
	return false
}

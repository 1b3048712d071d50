package symbols

// ScopeID identifies a scope inside a Table.
type ScopeID uint32

// NoScopeID marks the absence of a scope reference.
const NoScopeID ScopeID = 0

// IsValid reports whether the scope ID refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// BindingID identifies one binding, i.e. one declaration of a name.
// Shadowing produces a new BindingID.
type BindingID uint32

// NoBindingID marks the absence of a binding reference.
const NoBindingID BindingID = 0

// IsValid reports whether the binding ID refers to an allocated binding.
func (id BindingID) IsValid() bool { return id != NoBindingID }

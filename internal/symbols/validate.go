package symbols

import (
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Validate walks the table checking structural invariants. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate() error {
	var errs []error

	for idx := 1; idx < len(t.scopes); idx++ {
		scopeID, err := toScopeID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scope := t.scopes[idx]
		if scope.Kind == ScopeInvalid {
			errs = append(errs, fmt.Errorf("scope %d has invalid kind", scopeID))
		}
		if scope.Parent.IsValid() {
			if int(scope.Parent) >= len(t.scopes) || scope.Parent == scopeID {
				errs = append(errs, fmt.Errorf("scope %d has invalid parent %d", scopeID, scope.Parent))
				continue
			}
			if !slices.Contains(t.scopes[scope.Parent].Children, scopeID) {
				errs = append(errs, fmt.Errorf("scope %d parent %d missing backlink", scopeID, scope.Parent))
			}
		} else if scopeID != t.Root {
			errs = append(errs, fmt.Errorf("scope %d has no parent but is not the root", scopeID))
		}
		for _, b := range scope.Bindings {
			if int(b) >= len(t.bindings) || t.bindings[b].Scope != scopeID {
				errs = append(errs, fmt.Errorf("scope %d lists foreign binding %d", scopeID, b))
			}
		}
	}

	for idx := 1; idx < len(t.bindings); idx++ {
		b := t.bindings[idx]
		if b.Order != idx-1 {
			errs = append(errs, fmt.Errorf("binding %d (%s) out of order: %d", idx, b.Name, b.Order))
		}
		if b.Kind == BindingInvalid {
			errs = append(errs, fmt.Errorf("binding %d (%s) has invalid kind", idx, b.Name))
		}
	}

	return errors.Join(errs...)
}

func toScopeID(idx int) (ScopeID, error) {
	v, err := safecast.Conv[uint32](idx)
	if err != nil {
		return NoScopeID, fmt.Errorf("scope index %d overflows: %w", idx, err)
	}
	return ScopeID(v), nil
}

package ownership

import (
	"highrust/internal/source"
	"highrust/internal/symbols"
)

// Annotation is the verdict for one binding.
type Annotation struct {
	Binding symbols.BindingID

	Reassigned     bool
	MutatedInPlace bool
	// IsMutated is Reassigned || MutatedInPlace.
	IsMutated bool
	// Mutations lists the sites that caused IsMutated, in source order.
	Mutations []source.Span

	// Uses counts every read of the binding.
	Uses     int
	FirstUse source.Span

	// Written by borrow.Classify.
	MoveCount       int
	CloneRequiredAt []source.Span
}

// Annotations is the side table of one function, indexed by BindingID.
type Annotations struct {
	table *symbols.Table
	items []Annotation
}

func newAnnotations(table *symbols.Table) *Annotations {
	a := &Annotations{table: table, items: make([]Annotation, table.NumBindings()+1)}
	for i := range a.items {
		a.items[i].Binding = symbols.BindingID(i)
	}
	return a
}

// Get returns the annotation of id; nil for an invalid binding.
func (a *Annotations) Get(id symbols.BindingID) *Annotation {
	if !id.IsValid() || int(id) >= len(a.items) {
		return nil
	}
	return &a.items[id]
}

// All returns every annotation in binding source order.
func (a *Annotations) All() []Annotation {
	return a.items[1:]
}

// IsMutated is a nil-safe shortcut used by code generation.
func (a *Annotations) IsMutated(id symbols.BindingID) bool {
	if ann := a.Get(id); ann != nil {
		return ann.IsMutated
	}
	return false
}

func (a *Annotations) markReassigned(id symbols.BindingID, at source.Span) {
	if ann := a.Get(id); ann != nil {
		ann.Reassigned = true
		ann.IsMutated = true
		ann.Mutations = append(ann.Mutations, at)
	}
}

func (a *Annotations) markInPlace(id symbols.BindingID, at source.Span) {
	if ann := a.Get(id); ann != nil {
		ann.MutatedInPlace = true
		ann.IsMutated = true
		ann.Mutations = append(ann.Mutations, at)
	}
}

package types

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Unknown TypeID
	Unit    TypeID
	Bool    TypeID
	Int     TypeID // i32
	Usize   TypeID
	Float   TypeID // f64
	String  TypeID
	Str     TypeID
	Closure TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// One interner serves one function analysis and is not safe for concurrent use.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	tuples   [][]TypeID
	tupleIdx map[string]uint32
	builtins Builtins
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		types:    make([]Type, 1, 32), // reserve 0 as invalid sentinel
		index:    make(map[Type]TypeID, 32),
		tuples:   make([][]TypeID, 1, 4),
		tupleIdx: make(map[string]uint32),
	}
	in.builtins = Builtins{
		Unknown: in.Intern(Type{Kind: KindUnknown}),
		Unit:    in.Intern(Type{Kind: KindUnit}),
		Bool:    in.Intern(Type{Kind: KindBool}),
		Int:     in.Intern(MakeInt("i32")),
		Usize:   in.Intern(MakeInt("usize")),
		Float:   in.Intern(MakeFloat("f64")),
		String:  in.Intern(Type{Kind: KindString}),
		Str:     in.Intern(Type{Kind: KindStr}),
		Closure: in.Intern(Type{Kind: KindClosure}),
	}
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Tuple interns a tuple of elems. An empty tuple is unit.
func (in *Interner) Tuple(elems []TypeID) TypeID {
	if len(elems) == 0 {
		return in.builtins.Unit
	}
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = strconv.FormatUint(uint64(e), 10)
	}
	key := strings.Join(parts, ",")
	idx, ok := in.tupleIdx[key]
	if !ok {
		n, err := safecast.Conv[uint32](len(in.tuples))
		if err != nil {
			panic(fmt.Errorf("len(tuples) overflow: %w", err))
		}
		idx = n
		in.tuples = append(in.tuples, append([]TypeID(nil), elems...))
		in.tupleIdx[key] = idx
	}
	return in.Intern(Type{Kind: KindTuple, Tuple: idx})
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// Kind returns the kind of id, KindInvalid when unknown to the interner.
func (in *Interner) Kind(id TypeID) Kind {
	t, _ := in.Lookup(id)
	return t.Kind
}

// Elems returns the element types of a tuple.
func (in *Interner) Elems(id TypeID) []TypeID {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindTuple {
		return nil
	}
	return in.tuples[t.Tuple]
}

// Deref strips one reference layer.
func (in *Interner) Deref(id TypeID) TypeID {
	if t, ok := in.Lookup(id); ok && t.Kind == KindReference {
		return t.Elem
	}
	return id
}

// Known reports whether id carries useful information.
func (in *Interner) Known(id TypeID) bool {
	k := in.Kind(id)
	return k != KindInvalid && k != KindUnknown
}

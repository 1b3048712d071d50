package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnknown
	KindUnit
	KindBool
	KindInt
	KindFloat
	KindString // owned String
	KindStr    // &str
	KindTuple
	KindVec
	KindOption
	KindResult
	KindReference
	KindNamed
	KindClosure
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnknown:
		return "unknown"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindStr:
		return "str"
	case KindTuple:
		return "tuple"
	case KindVec:
		return "vec"
	case KindOption:
		return "option"
	case KindResult:
		return "result"
	case KindReference:
		return "reference"
	case KindNamed:
		return "named"
	case KindClosure:
		return "closure"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID // vec/option/reference element, result ok type
	Err     TypeID // result error type
	Tuple   uint32 // index into the interner tuple table
	Name    string // rust spelling for ints, floats and named types
	Mutable bool   // for references
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes an integer type spelled name (i32, usize, ...).
func MakeInt(name string) Type {
	return Type{Kind: KindInt, Name: name}
}

// MakeFloat describes f32 or f64.
func MakeFloat(name string) Type {
	return Type{Kind: KindFloat, Name: name}
}

// MakeVec describes Vec<elem>.
func MakeVec(elem TypeID) Type {
	return Type{Kind: KindVec, Elem: elem}
}

// MakeOption describes Option<elem>.
func MakeOption(elem TypeID) Type {
	return Type{Kind: KindOption, Elem: elem}
}

// MakeResult describes Result<ok, err>.
func MakeResult(ok, err TypeID) Type {
	return Type{Kind: KindResult, Elem: ok, Err: err}
}

// MakeReference describes &T or &mut T depending on the mutable flag.
func MakeReference(elem TypeID, mutable bool) Type {
	return Type{Kind: KindReference, Elem: elem, Mutable: mutable}
}

// MakeNamed describes a user or library type the transpiler does not model.
func MakeNamed(spelling string) Type {
	return Type{Kind: KindNamed, Name: spelling}
}

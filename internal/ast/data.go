package ast

import "highrust/internal/source"

type DataKind uint8

const (
	DataStruct DataKind = iota
	DataEnum
)

func (k DataKind) String() string {
	if k == DataEnum {
		return "enum"
	}
	return "struct"
}

// Field is a named struct field.
type Field struct {
	Name string
	Type TypeID
	Span source.Span
}

// Variant is an enum variant with positional payload types, possibly none.
type Variant struct {
	Name   string
	Fields []TypeID
	Span   source.Span
}

// Data is a top-level struct or enum definition. Fields is set for
// structs and Variants for enums.
type Data struct {
	Kind     DataKind
	Name     string
	NameSpan source.Span
	Fields   []Field
	Variants []Variant
	Span     source.Span
}

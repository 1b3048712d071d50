package types

// IsCopy reports whether values of id are implicitly copied by Rust.
func (in *Interner) IsCopy(id TypeID) bool {
	t, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case KindUnit, KindBool, KindInt, KindFloat, KindStr:
		return true
	case KindReference:
		return !t.Mutable
	case KindTuple:
		for _, e := range in.tuples[t.Tuple] {
			if !in.IsCopy(e) {
				return false
			}
		}
		return true
	case KindOption:
		return in.IsCopy(t.Elem)
	}
	return false
}

// Duplicable reports whether `.clone()` is known to be valid on id.
// extra lists named types the project declares as Clone.
func (in *Interner) Duplicable(id TypeID, extra map[string]bool) bool {
	t, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case KindUnit, KindBool, KindInt, KindFloat, KindStr, KindString:
		return true
	case KindReference:
		return !t.Mutable
	case KindTuple:
		for _, e := range in.tuples[t.Tuple] {
			if !in.Duplicable(e, extra) {
				return false
			}
		}
		return true
	case KindVec, KindOption:
		return in.Duplicable(t.Elem, extra)
	case KindResult:
		return in.Duplicable(t.Elem, extra) && in.Duplicable(t.Err, extra)
	case KindNamed:
		return extra[baseName(t.Name)]
	}
	return false
}

// baseName strips generic arguments: "Map<K, V>" -> "Map".
func baseName(spelling string) string {
	for i := 0; i < len(spelling); i++ {
		if spelling[i] == '<' {
			return spelling[:i]
		}
	}
	return spelling
}

package types

import "strings"

// String returns the Rust spelling of id. Unknown types are spelled "_".
func (in *Interner) String(id TypeID) string {
	var sb strings.Builder
	in.write(&sb, id)
	return sb.String()
}

func (in *Interner) write(sb *strings.Builder, id TypeID) {
	t, ok := in.Lookup(id)
	if !ok {
		sb.WriteByte('_')
		return
	}
	switch t.Kind {
	case KindUnit:
		sb.WriteString("()")
	case KindBool:
		sb.WriteString("bool")
	case KindInt, KindFloat, KindNamed:
		sb.WriteString(t.Name)
	case KindString:
		sb.WriteString("String")
	case KindStr:
		sb.WriteString("&str")
	case KindTuple:
		sb.WriteByte('(')
		for i, e := range in.tuples[t.Tuple] {
			if i > 0 {
				sb.WriteString(", ")
			}
			in.write(sb, e)
		}
		sb.WriteByte(')')
	case KindVec:
		sb.WriteString("Vec<")
		in.write(sb, t.Elem)
		sb.WriteByte('>')
	case KindOption:
		sb.WriteString("Option<")
		in.write(sb, t.Elem)
		sb.WriteByte('>')
	case KindResult:
		sb.WriteString("Result<")
		in.write(sb, t.Elem)
		sb.WriteString(", ")
		in.write(sb, t.Err)
		sb.WriteByte('>')
	case KindReference:
		if t.Mutable {
			sb.WriteString("&mut ")
		} else {
			sb.WriteByte('&')
		}
		in.write(sb, t.Elem)
	case KindClosure:
		sb.WriteString("impl Fn")
	default:
		sb.WriteByte('_')
	}
}

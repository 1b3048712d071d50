package lower

import (
	"maps"
	"strings"

	"highrust/internal/ast"
	"highrust/internal/diag"
	"highrust/internal/ir"
	"highrust/internal/types"
)

// CloneableData returns extra extended with every definition in defs whose
// fields are all duplicable. Definitions may name each other, so the set
// starts with all of them and shrinks until it is stable.
func CloneableData(b *ast.Builder, defs []*ast.Data, extra map[string]bool) map[string]bool {
	out := make(map[string]bool, len(extra)+len(defs))
	maps.Copy(out, extra)
	for _, d := range defs {
		out[d.Name] = true
	}
	in := types.NewInterner()
	for changed := true; changed; {
		changed = false
		for _, d := range defs {
			if !out[d.Name] || extra[d.Name] {
				continue
			}
			for _, ty := range payload(d) {
				if !in.Duplicable(in.FromAST(b, ty), out) {
					delete(out, d.Name)
					changed = true
					break
				}
			}
		}
	}
	return out
}

// Data lowers one struct or enum. Clone is derived when cloneable lists
// the definition. Fields that hold references are rejected; nil is
// returned after reporting.
func Data(b *ast.Builder, d *ast.Data, cloneable map[string]bool, r diag.Reporter) *ir.Data {
	in := types.NewInterner()
	out := &ir.Data{Name: d.Name, Enum: d.Kind == ast.DataEnum, Span: d.Span}
	ok := true
	spelled := func(id ast.TypeID, owner string) string {
		s := in.String(in.FromAST(b, id))
		if strings.Contains(s, "&") {
			diag.ReportError(r, diag.LowUnsupportedConstruct, b.Type(id).Span,
				owner+" of '"+d.Name+"' holds a reference; data definitions must own their fields").Emit()
			ok = false
		}
		return s
	}
	for _, f := range d.Fields {
		out.Fields = append(out.Fields, ir.DataField{Name: f.Name, Type: spelled(f.Type, "field '"+f.Name+"'")})
	}
	for _, v := range d.Variants {
		lv := ir.Variant{Name: v.Name}
		for _, ty := range v.Fields {
			lv.Fields = append(lv.Fields, spelled(ty, "variant '"+v.Name+"'"))
		}
		out.Variants = append(out.Variants, lv)
	}
	if !ok {
		return nil
	}
	if cloneable[d.Name] {
		out.Derive = []string{"Clone"}
	}
	return out
}

func payload(d *ast.Data) []ast.TypeID {
	var out []ast.TypeID
	for _, f := range d.Fields {
		out = append(out, f.Type)
	}
	for _, v := range d.Variants {
		out = append(out, v.Fields...)
	}
	return out
}

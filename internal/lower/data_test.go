package lower

import (
	"testing"

	"highrust/internal/diag"
	"highrust/internal/parser"
	"highrust/internal/source"
	"highrust/internal/symbols"
)

func collectData(t *testing.T, src string) (*symbols.Module, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("data.hr", []byte(src))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	parsed := parser.ParseFile(fs.Get(id), parser.Options{Reporter: rep})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %s", diag.FormatShort(bag.Items(), fs, false))
	}
	return symbols.CollectModule(parsed.Builder, parsed.File, rep), bag
}

func TestCloneableData(t *testing.T) {
	src := `struct Point { x: i32, y: i32 }
struct Tagged { at: Point, tags: Vec<String> }
struct Holder { conn: Conn }
enum Event { Quit, Move(Point), Open(Holder) }
enum Shape { Dot, Line(Point, Point) }
`
	m, _ := collectData(t, src)
	got := CloneableData(m.Builder, m.Data, map[string]bool{"Config": true})
	want := map[string]bool{"Config": true, "Point": true, "Tagged": true, "Shape": true}
	for name := range want {
		if !got[name] {
			t.Errorf("%s should be cloneable", name)
		}
	}
	for _, name := range []string{"Holder", "Event"} {
		if got[name] {
			t.Errorf("%s holds a non-duplicable field", name)
		}
	}
	listed := CloneableData(m.Builder, m.Data, map[string]bool{"Conn": true})
	if !listed["Holder"] || !listed["Event"] {
		t.Fatalf("listing Conn makes Holder and Event cloneable: %v", listed)
	}
}

func TestLowerData(t *testing.T) {
	m, bag := collectData(t, "struct Point { x: i32, name: String } enum Shape { Dot, Rect(i32, Option<Point>) }")
	cloneable := CloneableData(m.Builder, m.Data, nil)
	rep := diag.BagReporter{Bag: bag}

	point := Data(m.Builder, m.Data[0], cloneable, rep)
	if point == nil || point.Enum || len(point.Fields) != 2 || point.Fields[1].Type != "String" {
		t.Fatalf("point lowered wrong: %+v", point)
	}
	if len(point.Derive) != 1 || point.Derive[0] != "Clone" {
		t.Fatalf("Point must derive Clone, got %v", point.Derive)
	}
	shape := Data(m.Builder, m.Data[1], cloneable, rep)
	if shape == nil || !shape.Enum || len(shape.Variants) != 2 {
		t.Fatalf("shape lowered wrong: %+v", shape)
	}
	if got := shape.Variants[1].Fields; len(got) != 2 || got[1] != "Option<Point>" {
		t.Fatalf("Rect payload = %v", got)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
}

func TestLowerDataRejectsReferences(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"borrowed field", "struct View { items: &Vec<i32> }"},
		{"str field", "struct Name { text: &str }"},
		{"nested borrow", "enum E { A(Option<&mut String>) }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, bag := collectData(t, tt.src)
			d := Data(m.Builder, m.Data[0], nil, diag.BagReporter{Bag: bag})
			if d != nil || !bag.HasCode(diag.LowUnsupportedConstruct) {
				t.Fatalf("expected rejection, got %+v / %+v", d, bag.Items())
			}
		})
	}
}

package fuzztests

import (
	"path/filepath"
	"testing"

	"highrust/internal/golden"
)

const (
	maxSeedBytes = 64 << 10
	maxFuzzInput = 1 << 16
)

var languageSeeds = []string{
	"",
	"fn main() { println(\"Zero\"); }\n",
	"fn calculate_area(width, height) { return width * height; }\n",
	"fn f(x) { match x { 0 => \"zero\", _ => \"many\" } }\n",
	"fn f(items) { let total = 0; for i in items { total = total + i; } total }\n",
	"fn f(c) { let g = |v| c.push(v); g(1); c }\n",
	"fn f() { let s = read()?; s.len() }\n",
	"struct P { x: i32, } enum E { A, B(P, String) } fn f(p: P) { g(p); g(p); }\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	paths, err := filepath.Glob(filepath.Join("..", "golden", "testdata", "*.md"))
	if err != nil {
		return
	}
	for _, path := range paths {
		cases, err := golden.Load(path)
		if err != nil {
			continue
		}
		for _, c := range cases {
			f.Add(clampSeed([]byte(c.Source)))
		}
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

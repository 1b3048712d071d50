package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"highrust/internal/diag"
	"highrust/internal/observ"
)

func transpileString(t *testing.T, src string, opts Options) *Result {
	t.Helper()
	res, err := TranspileSource(context.Background(), "test.hr", []byte(src), opts)
	if err != nil {
		t.Fatalf("TranspileSource: %v", err)
	}
	return res
}

func mustSucceed(t *testing.T, res *Result) string {
	t.Helper()
	if res.Failed() {
		t.Fatalf("unexpected diagnostics:\n%s", diag.FormatShort(res.Bag.Items(), res.Files, true))
	}
	return res.Rust
}

func TestTranspileCalculateArea(t *testing.T) {
	src := "fn calculate_area(width: i32, height: i32) -> i32 { let area = width * height; return area; }"
	got := mustSucceed(t, transpileString(t, src, DefaultOptions()))
	want := `// Transpiled to Rust by HighRust

fn calculate_area(width: i32, height: i32) -> i32 {
    let area = width * height;
    return area;
}
`
	if got != want {
		t.Fatalf("output mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "ordered match arms with guard",
			src:  "fn f(n) { match n { 0 => a(), n if n < 10 => b(n), _ => c() } }",
			want: []string{
				"    match n {\n        0 => a(),\n        n if n < 10 => b(n),\n        _ => c(),\n    }\n",
			},
		},
		{
			name: "second use after move duplicates",
			src:  "fn f(x) { let y = x; let z = x; g(y); g(z); }",
			want: []string{
				"    let y = x;\n",
				"    let z = x.clone();\n",
				"    g(y);\n    g(z);\n",
			},
		},
		{
			name: "mutation through closure",
			src:  "fn f(items: Vec<i32>) -> i32 { let total = 0; for_each(items, |n| { total = total + n; }); return total; }",
			want: []string{
				"    let mut total = 0;\n",
				"    for_each(items, |n| {\n        total = total + n;\n    });\n",
				"    return total;\n",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustSucceed(t, transpileString(t, tt.src, DefaultOptions()))
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Fatalf("missing %q in:\n%s", w, got)
				}
			}
			if strings.Contains(got, "total.clone()") {
				t.Fatalf("unexpected duplication:\n%s", got)
			}
		})
	}
}

func manyFuncs(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "fn f%d(x: i32, s: String) -> i32 {\n", i)
		sb.WriteString("    let t = s;\n    let u = s;\n    consume(t);\n    consume(u);\n")
		fmt.Fprintf(&sb, "    match x { 0 => %d, n if n > 3 => n * 2, _ => x }\n}\n", i)
	}
	return sb.String()
}

func TestDeterministicAcrossJobs(t *testing.T) {
	src := manyFuncs(40)
	serial := DefaultOptions()
	serial.Jobs = 1
	serial.Header = false
	parallel := serial
	parallel.Jobs = 8

	first := mustSucceed(t, transpileString(t, src, serial))
	for i := 0; i < 5; i++ {
		if got := mustSucceed(t, transpileString(t, src, parallel)); got != first {
			t.Fatalf("run %d differs from the serial output", i)
		}
	}
	if n := strings.Count(first, "\nfn "); n != 39 {
		t.Fatalf("expected 40 functions separated by blank lines, got %d separators", n)
	}
	if strings.Index(first, "fn f0(") > strings.Index(first, "fn f39(") {
		t.Fatalf("functions out of source order")
	}
}

func TestDiagnosticsDeterministicAcrossJobs(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&sb, "fn f%d(x) { match x { 0 => a(), 1 => b() } }\n", i)
	}
	render := func(jobs int) string {
		opts := DefaultOptions()
		opts.Jobs = jobs
		res := transpileString(t, sb.String(), opts)
		if !res.Failed() {
			t.Fatalf("expected failure")
		}
		return diag.FormatShort(res.Bag.Items(), res.Files, true)
	}
	if a, b := render(1), render(8); a != b {
		t.Fatalf("diagnostics differ:\n%s\n---\n%s", a, b)
	}
}

func TestDiagnosticLimitKeepsErrors(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("fn f(s: String) {\n")
	for range 101 {
		sb.WriteString("    g(s);\n")
	}
	sb.WriteString("    match 1 { 0 => a(), 1 => b() };\n}\n")

	opts := DefaultOptions()
	opts.MaxDiagnostics = 100
	res := transpileString(t, sb.String(), opts)
	if !res.Failed() {
		t.Fatalf("expected failure with %d diagnostics", res.Bag.Len())
	}
	if !res.Bag.HasCode(diag.LowInexhaustiveMatch) {
		t.Fatalf("inexhaustive match was dropped")
	}
	if res.Rust != "" {
		t.Fatalf("failed result must carry no output:\n%s", res.Rust)
	}
	if res.Bag.Len() > 100 {
		t.Fatalf("limit exceeded: %d diagnostics", res.Bag.Len())
	}
}

func TestErrorsAreFunctionScoped(t *testing.T) {
	src := "fn good(a: i32) -> i32 { return a; }\nfn bad() { return missing; }\n"
	res := transpileString(t, src, DefaultOptions())
	if !res.Failed() {
		t.Fatalf("expected failure")
	}
	if !res.Bag.HasCode(diag.SemaNameError) {
		t.Fatalf("expected name error, got:\n%s", diag.FormatShort(res.Bag.Items(), res.Files, false))
	}
	if res.Rust != "" {
		t.Fatalf("failed result must carry no output")
	}
	if res.Funcs != 2 {
		t.Fatalf("expected both functions analyzed, got %d", res.Funcs)
	}
}

func TestTranspileFileWritesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "main.hr")
	out := filepath.Join(dir, "out", "main.rs")
	if err := os.WriteFile(in, []byte("fn f(x) { match x { 0 => a(), 1 => b() } }"), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := TranspileFile(context.Background(), in, out, DefaultOptions())
	if err != nil {
		t.Fatalf("TranspileFile: %v", err)
	}
	if !res.Bag.HasCode(diag.LowInexhaustiveMatch) {
		t.Fatalf("expected inexhaustive match, got:\n%s", diag.FormatShort(res.Bag.Items(), res.Files, false))
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("output must not exist, stat err = %v", err)
	}
}

func TestTranspileFileWritesOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "main.hr")
	out := filepath.Join(dir, "nested", "main.rs")
	if err := os.WriteFile(in, []byte("fn main() { println(\"Zero\"); }\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := TranspileFile(context.Background(), in, out, DefaultOptions())
	if err != nil {
		t.Fatalf("TranspileFile: %v", err)
	}
	mustSucceed(t, res)
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `println!("Zero");`) {
		t.Fatalf("unexpected output:\n%s", data)
	}
	if res.Output != out {
		t.Fatalf("Output = %q, want %q", res.Output, out)
	}
}

func TestTranspileFileCheckOnly(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "main.hr")
	if err := os.WriteFile(in, []byte("fn main() { println(\"Zero\"); }\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := TranspileFile(context.Background(), in, "", DefaultOptions())
	if err != nil {
		t.Fatalf("TranspileFile: %v", err)
	}
	if !strings.Contains(mustSucceed(t, res), `println!("Zero");`) {
		t.Fatalf("unexpected rust:\n%s", res.Rust)
	}
	if res.Output != "" {
		t.Fatalf("Output = %q, want empty", res.Output)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("check-only run wrote files: %v", entries)
	}
}

func TestTranspileFileLoadError(t *testing.T) {
	res, err := TranspileFile(context.Background(), filepath.Join(t.TempDir(), "nope.hr"), "unused.rs", DefaultOptions())
	if err != nil {
		t.Fatalf("TranspileFile: %v", err)
	}
	if !res.Bag.HasCode(diag.IOLoadFileError) {
		t.Fatalf("expected load error")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	opts := DefaultOptions()
	opts.Cache = cache
	src := "fn id(a: i32) -> i32 { a }"

	first := transpileString(t, src, opts)
	if first.Cached {
		t.Fatalf("first run cannot be cached")
	}
	second := transpileString(t, src, opts)
	if !second.Cached || second.Rust != mustSucceed(t, first) {
		t.Fatalf("expected identical cached output, cached=%v", second.Cached)
	}

	other := opts
	other.Indent = 2
	if transpileString(t, src, other).Cached {
		t.Fatalf("options must be part of the cache key")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if transpileString(t, src, opts).Cached {
		t.Fatalf("entry survived DropAll")
	}
}

func TestCacheSkipsFailures(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.Cache = cache
	src := "fn f() { return nope; }"
	transpileString(t, src, opts)
	if res := transpileString(t, src, opts); res.Cached || !res.Failed() {
		t.Fatalf("failures must not be cached")
	}
}

func TestTranspileFilesEventsAndOrder(t *testing.T) {
	dir := t.TempDir()
	var jobs []Job
	for i := 0; i < 6; i++ {
		in := filepath.Join(dir, fmt.Sprintf("m%d.hr", i))
		body := fmt.Sprintf("fn m%d() -> i32 { %d }", i, i)
		if i == 3 {
			body = "fn broken() { undefined_name }"
		}
		if err := os.WriteFile(in, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		jobs = append(jobs, Job{Input: in, Output: filepath.Join(dir, "out", fmt.Sprintf("m%d.rs", i))})
	}

	var (
		mu     sync.Mutex
		counts = map[FileStatus]int{}
	)
	opts := DefaultOptions()
	opts.Jobs = 3
	opts.Timer = observ.NewTimer()
	opts.Observer = func(ev FileEvent) {
		mu.Lock()
		defer mu.Unlock()
		counts[ev.Status]++
		if ev.Total != 6 {
			t.Errorf("Total = %d", ev.Total)
		}
	}
	results, err := TranspileFiles(context.Background(), jobs, opts)
	if err != nil {
		t.Fatalf("TranspileFiles: %v", err)
	}
	for i, res := range results {
		if res.Name != jobs[i].Input {
			t.Fatalf("result %d is for %s", i, res.Name)
		}
		if (i == 3) != res.Failed() {
			t.Fatalf("result %d failed=%v", i, res.Failed())
		}
	}
	if counts[FileStart] != 6 || counts[FileDone] != 5 || counts[FileFailed] != 1 {
		t.Fatalf("unexpected event counts: %v", counts)
	}
	report := opts.Timer.Report()
	if len(report.Phases) == 0 || report.Phases[0].Name != "parse" {
		t.Fatalf("expected parse timings first, got %+v", report.Phases)
	}
}

func TestTranspileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := TranspileSource(ctx, "c.hr", []byte(manyFuncs(4)), DefaultOptions()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestListSources(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"b.hr", "a.hr", "sub/c.hr", ".git/x.hr", "out/gen.hr", "notes.txt"} {
		full := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	got, err := ListSources(dir, ".hr", filepath.Join(dir, "out"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.hr"), filepath.Join(dir, "b.hr"), filepath.Join(dir, "sub", "c.hr")}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("ListSources = %v, want %v", got, want)
	}
}

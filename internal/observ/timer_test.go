package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerAccumulatesConcurrently(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Add("lower", time.Millisecond, "")
		}()
	}
	wg.Wait()
	tm.Add("parse", 2*time.Millisecond, "3 funcs")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(r.Phases))
	}
	if r.Phases[0].Name != "lower" || r.Phases[0].Count != 8 {
		t.Fatalf("unexpected first phase: %+v", r.Phases[0])
	}
	if r.TotalMS < 10 {
		t.Fatalf("expected total >= 10ms, got %.2f", r.TotalMS)
	}
	if s := tm.Summary(); !strings.Contains(s, "x8") || !strings.Contains(s, "// 3 funcs") {
		t.Fatalf("unexpected summary:\n%s", s)
	}
}

func TestTimerMergeAndNil(t *testing.T) {
	a, b := NewTimer(), NewTimer()
	a.Add("parse", time.Millisecond, "")
	b.Add("parse", time.Millisecond, "")
	b.Add("codegen", time.Millisecond, "")
	a.Merge(b)
	if r := a.Report(); len(r.Phases) != 2 || r.Phases[0].Count != 2 {
		t.Fatalf("unexpected merge result: %+v", r)
	}

	var nilTimer *Timer
	nilTimer.Begin("x")("")
	if r := nilTimer.Report(); len(r.Phases) != 0 {
		t.Fatalf("nil timer should report nothing")
	}
}

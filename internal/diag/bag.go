package diag

import (
	"fmt"
	"sort"
)

// Bag collects the diagnostics of one function or file. Errors are never
// lost to the limit: a full bag makes room by evicting its oldest
// non-error entry, and an error that still does not fit is counted.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
	errored bool
}

// NewBag creates a bag that keeps at most limit diagnostics.
// A non-positive limit means no limit.
func NewBag(limit int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, min(max(limit, 0), 64)),
		max:   limit,
	}
}

// Add appends d unless the limit has been reached.
// It returns false when d was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if d.Severity >= SevError {
		b.errored = true
	}
	if !b.Full() {
		b.items = append(b.items, d)
		return true
	}
	b.dropped++
	if d.Severity < SevError {
		return false
	}
	for i := range b.items {
		if b.items[i].Severity < SevError {
			b.items = append(append(b.items[:i:i], b.items[i+1:]...), d)
			return true
		}
	}
	return false
}

// Dropped reports how many diagnostics did not fit under the limit.
func (b *Bag) Dropped() int {
	return b.dropped
}

func (b *Bag) Cap() int {
	return b.max
}

// Full reports whether further Add calls will be dropped.
func (b *Bag) Full() bool {
	return b.max > 0 && len(b.items) >= b.max
}

// HasErrors reports whether any diagnostic with Severity >= SevError was
// added, including one dropped by the limit.
func (b *Bag) HasErrors() bool {
	if b.errored {
		return true
	}
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any diagnostic has Severity >= SevWarning.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// HasCode reports whether a diagnostic with code c was recorded.
func (b *Bag) HasCode(c Code) bool {
	for i := range b.items {
		if b.items[i].Code == c {
			return true
		}
	}
	return false
}

// HasFatal reports whether a diagnostic with a fatal code was recorded.
func (b *Bag) HasFatal() bool {
	for i := range b.items {
		if b.items[i].Code.IsFatal() {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the internal slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends every diagnostic of other, growing the limit if needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if b.max > 0 && newTotal > b.max {
		b.max = newTotal
	}
	b.items = append(b.items, other.items...)
	b.dropped += other.dropped
	b.errored = b.errored || other.errored
}

// Sort orders diagnostics by file, start, end, severity (desc) and code (asc)
// for stable output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup drops diagnostics that repeat Code, Primary and Message.
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s:%s", d.Code.ID(), d.Primary.String(), d.Message)
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}

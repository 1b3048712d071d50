// Package fix applies the edits suggested by diagnostics to source files.
package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"highrust/internal/diag"
	"highrust/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeCode
)

// ApplyOptions configures how fixes are selected. TargetCode is a code ID
// such as "OWN5001" and is used by ApplyModeCode.
type ApplyOptions struct {
	Mode       ApplyMode
	TargetCode string
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Title     string
	Code      diag.Code
	Message   string
	Primary   source.Span
	EditCount int
}

// SkippedFix captures a fix that was not applied and why.
type SkippedFix struct {
	Title  string
	Code   diag.Code
	Reason string
}

// FileChange is the new content of one file.
type FileChange struct {
	File      source.FileID
	Path      string
	Content   []byte
	EditCount int
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

type staged struct {
	edit  diag.FixEdit
	order int
}

// Apply selects fixes from diagnostics and computes the edited files.
// Nothing is written; see Write.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates := gatherCandidates(diagnostics)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	selected, skipped := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, skipped...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	accepted := make(map[source.FileID][]staged)
	for _, cand := range selected {
		if reason := check(fs, accepted, cand.fix.Edits); reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{Title: cand.fix.Title, Code: cand.diag.Code, Reason: reason})
			continue
		}
		for _, e := range cand.fix.Edits {
			accepted[e.Span.File] = append(accepted[e.Span.File], staged{edit: e, order: cand.order})
		}
		result.Applied = append(result.Applied, AppliedFix{
			Title:     cand.fix.Title,
			Code:      cand.diag.Code,
			Message:   cand.diag.Message,
			Primary:   cand.diag.Primary,
			EditCount: len(cand.fix.Edits),
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	for fileID, edits := range accepted {
		file := fs.Get(fileID)
		result.FileChanges = append(result.FileChanges, FileChange{
			File:      fileID,
			Path:      file.Path,
			Content:   rewrite(file.Content, edits),
			EditCount: len(edits),
		})
	}
	sort.Slice(result.FileChanges, func(i, j int) bool {
		return result.FileChanges[i].Path < result.FileChanges[j].Path
	})
	return result, nil
}

// Write stores every changed file, keeping its permissions. Virtual files
// are skipped.
func Write(fs *source.FileSet, changes []FileChange) error {
	for _, ch := range changes {
		if fs.Get(ch.File).Flags&source.FileVirtual != 0 {
			continue
		}
		mode := os.FileMode(0o644)
		if info, err := os.Stat(ch.Path); err == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(ch.Path, ch.Content, mode); err != nil {
			return fmt.Errorf("write %s: %w", ch.Path, err)
		}
	}
	return nil
}

func gatherCandidates(diagnostics []diag.Diagnostic) []candidate {
	var cands []candidate
	for _, d := range diagnostics {
		for _, f := range d.Fixes {
			if len(f.Edits) == 0 {
				continue
			}
			cands = append(cands, candidate{diag: d, fix: f, order: len(cands)})
		}
	}
	return cands
}

// sortCandidates orders fixes by primary position, then by discovery.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := candidates[i].diag.Primary, candidates[j].diag.Primary
		if pi.File != pj.File {
			return pi.File < pj.File
		}
		if pi.Start != pj.Start {
			return pi.Start < pj.Start
		}
		return candidates[i].order < candidates[j].order
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeCode:
		var selected []candidate
		for _, cand := range candidates {
			if cand.diag.Code.ID() == opts.TargetCode {
				selected = append(selected, cand)
			}
		}
		if len(selected) == 0 {
			return nil, []SkippedFix{{Reason: fmt.Sprintf("no fixes for code %s", opts.TargetCode)}}
		}
		return selected, nil
	case ApplyModeAll:
		return candidates, nil
	case ApplyModeOnce:
		return candidates[:1], nil
	default:
		return nil, nil
	}
}

// check reports why edits cannot be applied on top of accepted ones, or ""
// when they can.
func check(fs *source.FileSet, accepted map[source.FileID][]staged, edits []diag.FixEdit) string {
	if applied(accepted, edits) {
		return "same edits as an applied fix"
	}
	for i, e := range edits {
		if int(e.Span.File) >= fs.Len() {
			return "edit targets an unknown file"
		}
		if e.Span.End < e.Span.Start || int(e.Span.End) > len(fs.Get(e.Span.File).Content) {
			return "edit span out of range"
		}
		for _, prev := range accepted[e.Span.File] {
			if spansConflict(prev.edit.Span, e.Span) {
				return fmt.Sprintf("conflicts with a previously applied edit at %s", prev.edit.Span)
			}
		}
		for _, other := range edits[i+1:] {
			if other.Span.File == e.Span.File && spansConflict(other.Span, e.Span) {
				return "fix contains overlapping edits"
			}
		}
	}
	return ""
}

func applied(accepted map[source.FileID][]staged, edits []diag.FixEdit) bool {
	for _, e := range edits {
		found := false
		for _, prev := range accepted[e.Span.File] {
			if prev.edit == e {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// spansConflict treats spans as half-open intervals. Two insertions never
// conflict; an insertion conflicts with a span strictly containing its
// position.
func spansConflict(a, b source.Span) bool {
	if a.Start == a.End && b.Start == b.End {
		return false
	}
	if a.Start == a.End {
		return b.Start < a.Start && a.Start < b.End
	}
	if b.Start == b.End {
		return a.Start < b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

// rewrite applies edits back to front so earlier offsets stay valid.
// Insertions at one position keep their fix order.
func rewrite(content []byte, edits []staged) []byte {
	sorted := append([]staged(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].edit.Span.Start != sorted[j].edit.Span.Start {
			return sorted[i].edit.Span.Start > sorted[j].edit.Span.Start
		}
		return sorted[i].order > sorted[j].order
	})
	out := append([]byte(nil), content...)
	for _, s := range sorted {
		start, end := int(s.edit.Span.Start), int(s.edit.Span.End)
		tail := append([]byte(nil), out[end:]...)
		out = append(append(out[:start], s.edit.NewText...), tail...)
	}
	return out
}

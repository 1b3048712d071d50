package diagfmt

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"

	"highrust/internal/diag"
	"highrust/internal/source"
)

type fixPreview struct {
	before []string
	after  []string
}

// buildFixPreview applies every edit of fix to the lines they touch.
// All edits must target the same file and may not overlap.
func buildFixPreview(fs *source.FileSet, fix diag.Fix) (fixPreview, error) {
	if fs == nil {
		return fixPreview{}, errors.New("nil FileSet")
	}
	if len(fix.Edits) == 0 {
		return fixPreview{}, errors.New("fix has no edits")
	}
	edits := slices.Clone(fix.Edits)
	slices.SortStableFunc(edits, func(a, b diag.FixEdit) int {
		return int(a.Span.Start) - int(b.Span.Start)
	})
	fileID := edits[0].Span.File
	if int(fileID) >= fs.Len() {
		return fixPreview{}, fmt.Errorf("file %d not found in FileSet", fileID)
	}
	file := fs.Get(fileID)

	lenContent, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fixPreview{}, fmt.Errorf("len file content overflow: %w", err)
	}
	for i, e := range edits {
		if e.Span.File != fileID {
			return fixPreview{}, errors.New("fix edits span several files")
		}
		if e.Span.End < e.Span.Start || e.Span.End > lenContent {
			return fixPreview{}, fmt.Errorf("edit span %s out of range", e.Span)
		}
		if i > 0 && e.Span.Start < edits[i-1].Span.End {
			return fixPreview{}, errors.New("fix edits overlap")
		}
	}

	first := source.Span{File: fileID, Start: edits[0].Span.Start, End: edits[0].Span.Start}
	last := edits[len(edits)-1].Span
	startPos, _ := fs.Resolve(first)
	_, endPos := fs.Resolve(last)

	blockStart := lineStartOffset(file, startPos.Line)
	blockEnd := min(max(lineEndOffsetInclusive(file, endPos.Line), blockStart), lenContent)
	original := file.Content[blockStart:blockEnd]

	var after strings.Builder
	cursor := blockStart
	for _, e := range edits {
		after.Write(file.Content[cursor:e.Span.Start])
		after.WriteString(e.NewText)
		cursor = e.Span.End
	}
	after.Write(file.Content[cursor:blockEnd])

	return fixPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines([]byte(after.String())),
	}, nil
}

func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}

func lineStartOffset(f *source.File, line uint32) uint32 {
	if line <= 1 {
		return 0
	}
	idx := line - 2
	if int(idx) < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	lenFileContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return lenFileContent
}

func lineEndOffsetInclusive(f *source.File, line uint32) uint32 {
	if line == 0 {
		return 0
	}
	idx := line - 1
	if int(idx) < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	lenFileContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return lenFileContent
}

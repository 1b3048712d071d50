package diag

import "highrust/internal/source"

// Note is a secondary location rendered under the primary one.
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit replaces Span in the HighRust source with NewText; an empty
// span inserts.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is one suggested source change. Edits of a fix never overlap.
type Fix struct {
	Title string
	Edits []FixEdit
}

// Diagnostic is one finding about the HighRust input. Spans always refer
// to the source file, never to generated Rust.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

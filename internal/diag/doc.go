// Package diag defines the diagnostic model shared by every highrust phase.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error.
//   - Code: compact numeric identifier (codes.go) with a stable string ID
//     such as SEM3001 or LOW4001.
//   - Message: short human text.
//   - Primary: the source.Span the finding points at.
//   - Notes: secondary spans, for example the list of match arms seen.
//   - Fixes: suggested edits for the user; they are never applied automatically.
//
// # Emitting
//
// Phases write through a Reporter. ReportError/ReportWarning/ReportInfo return
// a ReportBuilder that can be extended with WithNote and WithFix before Emit.
// BagReporter collects into a Bag, which supports sorting, deduplication and
// merging. The driver keeps one Bag per function so that a failure in one
// function never hides another function's findings; the module fails as a
// whole when any function bag has errors.
//
// Codes at or above 9000 are fatal: the run stops and no output is produced.
//
// Rendering lives in internal/diagfmt; this package does no IO.
package diag

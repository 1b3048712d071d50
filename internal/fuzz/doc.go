// Package fuzztests houses Go fuzz harnesses for the transpiler pipeline.
// The lexer and parser harnesses guard against panics and hangs on
// arbitrary bytes; the transpile harness runs every phase and checks that
// a failure is always reported as a diagnostic.
//
// Seeds come from the highrust fences of the golden case files.
package fuzztests

// Package trace records where a transpiler run spends its time.
//
// A Tracer receives begin/end events for nested spans. Spans are scoped:
// a run contains files, a file contains passes, and the per-function
// pipeline runs below its file. The level decides how deep events go:
//
//	highrust transpile --trace=- --trace-level=func src/
//
// Stream mode writes every event as it happens. Ring mode keeps the most
// recent events in memory so the driver can dump them when it reports an
// internal error.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer span.End("")
package trace

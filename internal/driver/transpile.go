// Package driver runs the transpiler pipeline over sources and files.
//
// A file is parsed once; every function is then resolved, analyzed,
// lowered and emitted independently in its own goroutine and diagnostic
// bag. Results are collected by index and assembled in source order, so
// output does not depend on scheduling.
package driver

import (
	"context"
	"errors"
	"fmt"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"highrust/internal/ast"
	"highrust/internal/borrow"
	"highrust/internal/codegen"
	"highrust/internal/diag"
	"highrust/internal/ir"
	"highrust/internal/lower"
	"highrust/internal/ownership"
	"highrust/internal/parser"
	"highrust/internal/project"
	"highrust/internal/source"
	"highrust/internal/symbols"
	"highrust/internal/trace"
	"highrust/internal/types"
)

// Result is the outcome of transpiling one source.
type Result struct {
	Name   string
	Files  *source.FileSet
	File   source.FileID
	Output string // path written by TranspileFile, "" otherwise
	Rust   string // empty when Failed
	Bag    *diag.Bag
	Funcs  int
	Cached bool
}

// Failed reports whether any error was diagnosed.
func (r *Result) Failed() bool {
	return r.Bag.HasErrors()
}

// TranspileSource transpiles in-memory source text. The returned error is
// non-nil only when ctx is cancelled; problems in the source are reported
// through Result.Bag.
func TranspileSource(ctx context.Context, name string, src []byte, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	return transpile(ctx, fs, id, opts)
}

func transpile(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) (*Result, error) {
	file := fs.Get(id)
	tracer := trace.FromContext(ctx)
	fileSpan := trace.Begin(tracer, trace.ScopeFile, "file:"+file.Path, trace.ParentFrom(ctx))
	defer fileSpan.End("")

	res := &Result{Name: file.Path, Files: fs, File: id, Bag: diag.NewBag(opts.MaxDiagnostics)}

	var key project.Digest
	if opts.Cache != nil {
		key = CacheKey(file.Content, opts)
		// A broken entry is treated as a miss and overwritten below.
		if entry, ok, err := opts.Cache.Get(key); err == nil && ok {
			res.Rust, res.Funcs, res.Cached = entry.Rust, entry.Funcs, true
			fileSpan.WithExtra("cache", "hit")
			return res, nil
		}
	}

	module, ok := parse(ctx, file, opts, res.Bag, fileSpan.ID())
	if !ok {
		return res, nil
	}
	res.Funcs = len(module.Order)

	// Data definitions are emitted ahead of the functions. The ones that
	// derive Clone join the duplicable set every function is checked with.
	cloneable := lower.CloneableData(module.Builder, module.Data, opts.Duplicable)
	var defs []string
	rep := diag.BagReporter{Bag: res.Bag}
	for _, d := range module.Data {
		if lowered := lower.Data(module.Builder, d, cloneable, rep); lowered != nil {
			defs = append(defs, codegen.Data(lowered, opts.codegen()))
		}
	}
	fnOpts := opts
	fnOpts.Duplicable = cloneable

	parts := make([]string, len(module.Order))
	bags := make([]*diag.Bag, len(module.Order))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(module.Order)))
	for i, fnID := range module.Order {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bags[i] = diag.NewBag(opts.MaxDiagnostics)
			parts[i] = transpileFunc(gctx, module, fnID, fnOpts, bags[i], fileSpan.ID())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, b := range bags {
		res.Bag.Merge(b)
	}
	res.Bag.Sort()
	res.Bag.Dedup()

	if res.Bag.HasErrors() {
		fileSpan.WithExtra("errors", fmt.Sprint(res.Bag.Len()))
		return res, nil
	}
	stop := opts.Timer.Begin("assemble")
	res.Rust = codegen.Assemble(append(defs, parts...), opts.codegen())
	stop("")

	// Entries hold text only, so sources with warnings are recomputed to
	// report them again.
	if opts.Cache != nil && res.Bag.Len() == 0 {
		_ = opts.Cache.Put(key, &CacheEntry{Name: file.Path, Rust: res.Rust, Funcs: res.Funcs})
	}
	return res, nil
}

// parse runs the file-level front end. It reports false when the syntax
// tree is unusable.
func parse(ctx context.Context, file *source.File, opts Options, bag *diag.Bag, parent uint64) (*symbols.Module, bool) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", parent)
	defer span.End("")
	stop := opts.Timer.Begin("parse")
	defer stop("")

	maxErrors, err := safecast.Conv[uint](opts.MaxDiagnostics)
	if err != nil {
		maxErrors = 0
	}
	rep := diag.BagReporter{Bag: bag}
	parsed := parser.ParseFile(file, parser.Options{
		Reporter:  rep,
		MaxErrors: maxErrors,
		MaxDepth:  opts.maxDepth(),
	})
	if parsed.Fatal || parsed.Errors > 0 || bag.HasErrors() {
		return nil, false
	}
	module := symbols.CollectModule(parsed.Builder, parsed.File, rep)
	span.WithExtra("funcs", fmt.Sprint(len(module.Order)))
	return module, true
}

// transpileFunc runs one function from name resolution to emitted text.
// Failures are reported to bag and yield "".
func transpileFunc(ctx context.Context, m *symbols.Module, fnID ast.FuncID, opts Options, bag *diag.Bag, parent uint64) (out string) {
	fn := m.Builder.Func(fnID)
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFunc, "func:"+fn.Name, parent)
	defer span.End("")
	rep := diag.BagReporter{Bag: bag}

	defer func() {
		if rec := recover(); rec != nil {
			diag.ReportError(rep, diag.FatalInternal, fn.NameSpan,
				fmt.Sprintf("internal error while transpiling '%s': %v", fn.Name, rec)).Emit()
			span.WithExtra("panic", fmt.Sprint(rec))
			out = ""
		}
	}()

	var table *symbols.Table
	timed(opts, "resolve", func() { table = symbols.Build(m, fnID, rep) })
	if bag.HasErrors() {
		return ""
	}
	var (
		facts   *types.Facts
		ann     *ownership.Annotations
		uses    *borrow.Result
		lowered *ir.Func
	)
	timed(opts, "infer", func() { facts = types.Infer(table) })
	timed(opts, "ownership", func() { ann = ownership.Analyze(table, opts.ownership()) })
	timed(opts, "borrow", func() { uses = borrow.Classify(table, facts, ann, opts.borrow(), rep) })
	timed(opts, "lower", func() {
		lowered = lower.Func(
			lower.Input{Table: table, Facts: facts, Ann: ann, Uses: uses},
			lower.Options{MaxDepth: opts.maxDepth(), Borrow: opts.borrow()},
			rep,
		)
	})
	if lowered == nil || bag.HasErrors() {
		return ""
	}
	if err := ir.Validate(lowered); err != nil {
		diag.ReportError(rep, diag.FatalInternal, fn.NameSpan,
			fmt.Sprintf("lowering produced invalid IR for '%s'", fn.Name)).
			WithNote(fn.Span, err.Error()).
			Emit()
		return ""
	}

	var (
		text string
		err  error
	)
	timed(opts, "codegen", func() { text, err = codegen.Func(lowered, opts.codegen()) })
	switch {
	case errors.Is(err, codegen.ErrTooDeep):
		diag.ReportError(rep, diag.FatalStackExhausted, fn.NameSpan, err.Error()).Emit()
		return ""
	case err != nil:
		diag.ReportError(rep, diag.FatalInternal, fn.NameSpan, err.Error()).Emit()
		return ""
	}
	return text
}

func timed(opts Options, phase string, f func()) {
	stop := opts.Timer.Begin(phase)
	f()
	stop("")
}

package driver

import (
	"fmt"
	"runtime"
	"slices"
	"strings"

	"highrust/internal/borrow"
	"highrust/internal/codegen"
	"highrust/internal/observ"
	"highrust/internal/ownership"
	"highrust/internal/parser"
	"highrust/internal/project"
)

// Options configures one transpiler run.
type Options struct {
	// Jobs bounds the goroutines working on one file and, separately, the
	// files handled at once. 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps each function's bag. 0 means unlimited.
	MaxDiagnostics int
	MaxDepth       int

	Header bool
	Indent int

	MethodMutation bool
	NonConsuming   map[string]bool
	Duplicable     map[string]bool

	Cache    *DiskCache
	Timer    *observ.Timer
	Observer Observer
}

// DefaultOptions matches project.Default.
func DefaultOptions() Options {
	return OptionsFromConfig(project.Default())
}

// OptionsFromConfig maps the project configuration onto driver options.
// The cache is left nil; callers open it separately.
func OptionsFromConfig(cfg project.Config) Options {
	return Options{
		Jobs:           cfg.Jobs,
		Header:         cfg.Header,
		Indent:         cfg.Indent,
		MethodMutation: cfg.MethodMutation,
		NonConsuming:   project.Set(cfg.NonConsuming),
		Duplicable:     project.Set(cfg.Duplicable),
	}
}

func (o Options) jobs(n int) int {
	j := o.Jobs
	if j <= 0 {
		j = runtime.GOMAXPROCS(0)
	}
	return max(1, min(j, n))
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return parser.DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o Options) ownership() ownership.Options {
	return ownership.Options{MethodMutation: o.MethodMutation}
}

func (o Options) borrow() borrow.Options {
	return borrow.Options{NonConsuming: o.NonConsuming, Duplicable: o.Duplicable}
}

func (o Options) codegen() codegen.Options {
	return codegen.Options{Header: o.Header, Indent: o.Indent, MaxDepth: o.maxDepth()}
}

// fingerprint is the part of the options that affects emitted text. Jobs
// and diagnostics limits are excluded.
func (o Options) fingerprint() string {
	return fmt.Sprintf("header=%t indent=%d depth=%d mm=%t nc=%s dup=%s",
		o.Header, o.codegen().Indent, o.maxDepth(), o.MethodMutation,
		setKey(o.NonConsuming), setKey(o.Duplicable))
}

func setKey(m map[string]bool) string {
	names := make([]string, 0, len(m))
	for n, ok := range m {
		if ok {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return strings.Join(names, ",")
}

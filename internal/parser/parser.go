package parser

import (
	"fmt"
	"slices"

	"highrust/internal/ast"
	"highrust/internal/diag"
	"highrust/internal/lexer"
	"highrust/internal/source"
	"highrust/internal/token"
)

// DefaultMaxDepth bounds syntactic nesting. Deeper input is reported as
// FatalStackExhausted instead of overflowing the goroutine stack.
const DefaultMaxDepth = 512

type Options struct {
	MaxErrors uint
	MaxDepth  int
	Reporter  diag.Reporter
}

// Enough reports whether the error budget is used up.
func (o *Options) Enough(current uint) bool {
	if o.MaxErrors == 0 {
		return false
	}
	return current >= o.MaxErrors
}

type Result struct {
	Builder *ast.Builder
	File    *ast.File
	Errors  uint
	Fatal   bool
}

// Parser holds the state for one file.
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     *ast.File
	opts     Options
	errors   uint
	depth    int
	lastSpan source.Span
}

// depthExceeded unwinds the parser when nesting passes MaxDepth.
type depthExceeded struct{ span source.Span }

// ParseFile parses one source file into a fresh ast.Builder.
func ParseFile(f *source.File, opts Options) (res Result) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	counting := &diag.CountingReporter{Next: opts.Reporter}
	opts.Reporter = counting
	p := &Parser{
		lx:     lexer.New(f, lexer.Options{Reporter: counting}),
		arenas: ast.NewBuilder(ast.Hints{Exprs: uint(len(f.Content) / 4)}),
		file:   &ast.File{Path: f.Path},
		opts:   opts,
	}
	p.lastSpan = source.Span{File: f.ID}

	defer func() {
		if r := recover(); r != nil {
			de, ok := r.(depthExceeded)
			if !ok {
				panic(r)
			}
			diag.ReportError(counting, diag.FatalStackExhausted, de.span,
				fmt.Sprintf("nesting deeper than %d levels", opts.MaxDepth)).Emit()
			res = Result{Builder: p.arenas, File: p.file, Errors: uint(counting.Errors), Fatal: true}
		}
	}()

	p.parseItems()
	return Result{Builder: p.arenas, File: p.file, Errors: uint(counting.Errors)}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

func (p *Parser) parseItems() {
	start := p.lx.Peek().Span
	for !p.at(token.EOF) {
		if p.opts.Enough(p.errors) {
			return
		}
		switch {
		case p.at(token.KwFn):
			if id, ok := p.parseFn(); ok {
				p.file.Funcs = append(p.file.Funcs, id)
				continue
			}
		case p.atOr(token.KwStruct, token.KwEnum):
			if d, ok := p.parseData(); ok {
				p.file.Data = append(p.file.Data, d)
				continue
			}
		default:
			p.err(diag.SynUnexpectedTopLvl, "expected 'fn', 'struct' or 'enum' at top level, got "+describe(p.lx.Peek()))
			p.advance()
		}
		p.resyncUntil(token.KwFn, token.KwStruct, token.KwEnum)
	}
	p.file.Span = start.Cover(p.lx.Peek().Span)
}

func (p *Parser) enter() {
	p.depth++
	if p.depth > p.opts.MaxDepth {
		panic(depthExceeded{span: p.lx.Peek().Span})
	}
}

func (p *Parser) leave() {
	p.depth--
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident:
		return "identifier '" + tok.Text + "'"
	default:
		return "'" + tok.Text + "'"
	}
}

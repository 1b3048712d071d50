// Package golden reads transpiler test cases from Markdown documents.
//
// A case starts at a heading "Case: <name>" and holds fenced blocks:
//
//	highrust      the source to transpile (exactly one)
//	options       TOML overriding driver options
//	rust          the exact expected output
//	rust-lines    lines that must appear in the output, in order
//	diagnostics   the expected diagnostics in short form
//
// Prose and fences without a language are ignored.
package golden

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type FenceKind string

const (
	FenceSource      FenceKind = "highrust"
	FenceOptions     FenceKind = "options"
	FenceRust        FenceKind = "rust"
	FenceRustLines   FenceKind = "rust-lines"
	FenceDiagnostics FenceKind = "diagnostics"
)

const headingPrefix = "Case: "

// Options are the per-case driver settings. Unset fields keep the
// driver defaults, except Header which defaults to off.
type Options struct {
	Header         bool     `toml:"header"`
	MethodMutation *bool    `toml:"method_mutation"`
	NonConsuming   []string `toml:"non_consuming"`
	Duplicable     []string `toml:"duplicable"`
	Notes          bool     `toml:"notes"` // include notes in diagnostics
	Indent         int      `toml:"indent"`
}

type Expectation struct {
	Kind    FenceKind
	Content string
	Line    int
}

type Case struct {
	Name    string
	Line    int
	Source  string
	Options Options
	Expect  []Expectation
}

// Load reads and extracts the cases of one Markdown file.
func Load(path string) ([]Case, error) {
	// #nosec G304 -- test data path chosen by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cases, err := Extract(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// Extract parses a Markdown document into cases.
func Extract(markdown []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(markdown))

	var cases []Case
	var cur *Case
	finish := func() error {
		if cur == nil {
			return nil
		}
		if err := validate(cur); err != nil {
			return err
		}
		cases = append(cases, *cur)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, markdown)
			if !strings.HasPrefix(heading, headingPrefix) {
				return ast.WalkContinue, nil
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			cur = &Case{Name: strings.TrimPrefix(heading, headingPrefix), Line: lineOf(n, markdown)}

		case *ast.FencedCodeBlock:
			lang := FenceKind(n.Language(markdown))
			line := lineOf(n, markdown)
			if lang == "" {
				return ast.WalkContinue, nil
			}
			if !known(lang) {
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language %q", line, lang)
			}
			if cur == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a case", line, lang)
			}
			content := blockContent(n, markdown)
			switch lang {
			case FenceSource:
				if cur.Source != "" {
					return ast.WalkStop, fmt.Errorf("line %d: case %q has several source fences", line, cur.Name)
				}
				cur.Source = content
			case FenceOptions:
				md, err := toml.Decode(content, &cur.Options)
				if err != nil {
					return ast.WalkStop, fmt.Errorf("line %d: case %q: %w", line, cur.Name, err)
				}
				if undecoded := md.Undecoded(); len(undecoded) > 0 {
					return ast.WalkStop, fmt.Errorf("line %d: case %q: unknown option %q", line, cur.Name, undecoded[0].String())
				}
			default:
				cur.Expect = append(cur.Expect, Expectation{
					Kind:    lang,
					Content: strings.TrimRight(content, "\n"),
					Line:    line,
				})
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return cases, nil
}

func known(k FenceKind) bool {
	switch k {
	case FenceSource, FenceOptions, FenceRust, FenceRustLines, FenceDiagnostics:
		return true
	}
	return false
}

func validate(c *Case) error {
	if strings.TrimSpace(c.Source) == "" {
		return fmt.Errorf("case %q has no source fence", c.Name)
	}
	if len(c.Expect) == 0 {
		return fmt.Errorf("case %q has no expectations", c.Name)
	}
	return nil
}

func nodeText(node ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func blockContent(block *ast.FencedCodeBlock, src []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}

func lineOf(node ast.Node, src []byte) int {
	var start int
	switch {
	case node.Lines().Len() > 0:
		start = node.Lines().At(0).Start
	default:
		return 1
	}
	return bytes.Count(src[:min(start, len(src))], []byte("\n")) + 1
}

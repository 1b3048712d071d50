package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"

	"highrust/internal/diag"
	"highrust/internal/diagfmt"
	"highrust/internal/driver"
	"highrust/internal/observ"
	"highrust/internal/project"
	"highrust/internal/source"
	"highrust/internal/ui"
	"highrust/internal/version"
)

// session holds what every transpiling command derives from flags and
// the project configuration.
type session struct {
	cmd    *cobra.Command
	cfg    project.Config
	opts   driver.Options
	format string
	color  bool
	quiet  bool
	timer  *observ.Timer
	cwd    string
}

func newSession(cmd *cobra.Command, startDir string) (*session, error) {
	flags := cmd.Root().PersistentFlags()
	s := &session{cmd: cmd}

	format, _ := flags.GetString("format")
	s.format = strings.ToLower(format)
	switch s.format {
	case "pretty", "short", "json", "sarif":
	default:
		return nil, fmt.Errorf("invalid --format value %q (expected pretty|short|json|sarif)", format)
	}
	colorMode, _ := flags.GetString("color")
	switch strings.ToLower(colorMode) {
	case "on":
		s.color = true
	case "off":
		s.color = false
	case "auto", "":
		s.color = ui.IsTerminal(os.Stderr) && !env.Has("NO_COLOR")
	default:
		return nil, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorMode)
	}
	s.quiet, _ = flags.GetBool("quiet")
	s.cwd, _ = os.Getwd()

	cfg, err := loadConfig(flags.Lookup("config").Value.String(), startDir)
	if err != nil {
		s.reportConfig(err)
		return nil, exitError{code: 1}
	}
	if flags.Changed("jobs") {
		cfg.Jobs, _ = flags.GetInt("jobs")
	}
	if noCache, _ := flags.GetBool("no-cache"); noCache {
		cfg.CacheEnabled = false
	}
	s.cfg = cfg

	s.opts = driver.OptionsFromConfig(cfg)
	s.opts.MaxDiagnostics, _ = flags.GetInt("max-diagnostics")
	if timings, _ := flags.GetBool("timings"); timings {
		s.timer = observ.NewTimer()
		s.opts.Timer = s.timer
	}
	if cfg.CacheEnabled {
		cache, err := driver.OpenDiskCache(cfg.CacheDir)
		if err != nil {
			s.note("cache disabled: %v", err)
		} else {
			s.opts.Cache = cache
		}
	}
	return s, nil
}

func loadConfig(explicit, startDir string) (project.Config, error) {
	if explicit == "" {
		return project.Load(startDir)
	}
	cfg, err := project.LoadFile(explicit)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

func (s *session) stderr() io.Writer { return s.cmd.ErrOrStderr() }
func (s *session) stdout() io.Writer { return s.cmd.OutOrStdout() }

// note prints a status line unless --quiet is set.
func (s *session) note(format string, args ...any) {
	if !s.quiet {
		fmt.Fprintf(s.stderr(), format+"\n", args...)
	}
}

func (s *session) reportConfig(err error) {
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.ProjConfigInvalid, source.Span{}, err.Error()))
	s.print(bag, source.NewFileSet())
}

// report prints the diagnostics of every result in the selected format and
// returns the exit error for the run.
func (s *session) report(results ...*driver.Result) error {
	bag, fs := merge(results)
	if s.quiet {
		bag = withoutInfo(bag)
	}
	s.print(bag, fs)

	dropped := 0
	for _, r := range results {
		if r != nil {
			dropped += r.Bag.Dropped()
		}
	}
	if dropped > 0 {
		s.note("%d more diagnostic(s) not shown; raise --max-diagnostics to see them", dropped)
	}
	for _, r := range results {
		if r != nil && r.Bag.HasCode(diag.FatalInternal) {
			dumpTrace(s.stderr())
			break
		}
	}
	if s.timer != nil {
		fmt.Fprint(s.stderr(), s.timer.Summary())
	}
	if bag.HasErrors() {
		return exitError{code: 1}
	}
	return nil
}

func (s *session) print(bag *diag.Bag, fs *source.FileSet) {
	switch s.format {
	case "short":
		if text := diag.FormatShort(bag.Items(), fs, true); text != "" {
			fmt.Fprintln(s.stderr(), text)
		}
		for _, d := range bag.Items() {
			if int(d.Primary.File) >= fs.Len() {
				fmt.Fprintf(s.stderr(), "%s %s %s\n", strings.ToLower(d.Severity.String()), d.Code.ID(), d.Message)
			}
		}
	case "json":
		_ = diagfmt.JSON(s.stdout(), bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			BaseDir:          s.cwd,
			IncludeNotes:     true,
			IncludeFixes:     true,
			IncludePreviews:  true,
		})
	case "sarif":
		_ = diagfmt.Sarif(s.stdout(), bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "highrust",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
			BaseDir:        s.cwd,
		})
	default:
		if bag.Len() == 0 {
			return
		}
		diagfmt.Pretty(s.stderr(), bag, fs, diagfmt.PrettyOpts{
			Color:       s.color,
			Context:     1,
			BaseDir:     s.cwd,
			ShowNotes:   true,
			ShowFixes:   true,
			ShowPreview: true,
		})
		if !s.quiet {
			fmt.Fprintln(s.stderr(), diagfmt.Summary(bag))
		}
	}
}

// nowhere is a file ID outside every set, used for diagnostics whose file
// never loaded.
const nowhere = source.FileID(math.MaxUint32)

// merge copies the files and diagnostics of several results into one set
// so they can be printed together.
func merge(results []*driver.Result) (*diag.Bag, *source.FileSet) {
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	for _, r := range results {
		if r == nil {
			continue
		}
		ids := make([]source.FileID, r.Files.Len())
		for i := range ids {
			f := r.Files.Get(source.FileID(i))
			ids[i] = fs.Add(f.Path, f.Content, f.Flags)
		}
		remap := func(sp source.Span) source.Span {
			if int(sp.File) < len(ids) {
				sp.File = ids[sp.File]
			} else {
				sp.File = nowhere
			}
			return sp
		}
		for _, d := range r.Bag.Items() {
			d.Primary = remap(d.Primary)
			notes := make([]diag.Note, len(d.Notes))
			for i, n := range d.Notes {
				notes[i] = diag.Note{Span: remap(n.Span), Msg: n.Msg}
			}
			d.Notes = notes
			fixes := make([]diag.Fix, len(d.Fixes))
			for i, f := range d.Fixes {
				edits := make([]diag.FixEdit, len(f.Edits))
				for j, e := range f.Edits {
					edits[j] = diag.FixEdit{Span: remap(e.Span), NewText: e.NewText}
				}
				fixes[i] = diag.Fix{Title: f.Title, Edits: edits}
			}
			d.Fixes = fixes
			bag.Add(d)
		}
	}
	return bag, fs
}

func withoutInfo(bag *diag.Bag) *diag.Bag {
	out := diag.NewBag(0)
	for _, d := range bag.Items() {
		if d.Severity != diag.SevInfo {
			out.Add(d)
		}
	}
	return out
}

// outputPath places a source's Rust file next to it when no output is given.
func outputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".rs"
}

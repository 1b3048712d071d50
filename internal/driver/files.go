package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"highrust/internal/diag"
	"highrust/internal/source"
	"highrust/internal/trace"
)

// Job pairs an input file with the path its Rust output goes to.
type Job struct {
	Input  string
	Output string
}

// TranspileFile transpiles input and writes output. Nothing is written
// when any error was diagnosed or output is empty; load and write failures
// are diagnostics.
func TranspileFile(ctx context.Context, input, output string, opts Options) (*Result, error) {
	fileSet := source.NewFileSet()
	id, err := fileSet.Load(input)
	if err != nil {
		res := &Result{Name: input, Files: fileSet, Bag: diag.NewBag(opts.MaxDiagnostics)}
		diag.ReportError(diag.BagReporter{Bag: res.Bag}, diag.IOLoadFileError, source.Span{},
			fmt.Sprintf("failed to load %s: %v", input, err)).Emit()
		return res, nil
	}
	res, err := transpile(ctx, fileSet, id, opts)
	if err != nil || res.Failed() || output == "" {
		return res, err
	}
	if err := writeOutput(output, res.Rust); err != nil {
		diag.ReportError(diag.BagReporter{Bag: res.Bag}, diag.IOWriteFileError, source.Span{},
			fmt.Sprintf("failed to write %s: %v", output, err)).Emit()
		return res, nil
	}
	res.Output = output
	return res, nil
}

// TranspileFiles runs TranspileFile for every job, several files at a
// time. Results are in job order.
func TranspileFiles(ctx context.Context, jobs []Job, opts Options) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeRun, "transpile_files", trace.ParentFrom(ctx))
	defer span.WithExtra("files", fmt.Sprint(len(jobs))).End("")
	ctx = trace.WithParent(ctx, span)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(jobs)))
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			started := time.Now()
			opts.Observer.emit(FileEvent{Path: job.Input, Index: i, Total: len(jobs), Status: FileStart})
			res, err := TranspileFile(gctx, job.Input, job.Output, opts)
			if err != nil {
				return err
			}
			results[i] = res
			status := FileDone
			if res.Failed() {
				status = FileFailed
			}
			opts.Observer.emit(FileEvent{
				Path:    job.Input,
				Index:   i,
				Total:   len(jobs),
				Status:  status,
				Cached:  res.Cached,
				Elapsed: time.Since(started),
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// ListSources returns every file below dir with extension ext, sorted.
// Hidden directories and outDir are skipped.
func ListSources(dir, ext, outDir string) ([]string, error) {
	var files []string
	absOut, _ := filepath.Abs(outDir)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if abs, _ := filepath.Abs(path); outDir != "" && abs == absOut {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// writeOutput replaces path atomically.
func writeOutput(path, text string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".highrust-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = f.WriteString(text); err != nil {
		return err
	}
	if err = f.Chmod(0o644); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

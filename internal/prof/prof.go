// Package prof starts the Go runtime profilers for one CLI invocation.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
)

// Config names the output files; empty paths disable a profiler.
type Config struct {
	CPU   string
	Mem   string
	Trace string
}

// Enabled reports whether any profiler is requested.
func (c Config) Enabled() bool {
	return c.CPU != "" || c.Mem != "" || c.Trace != ""
}

// Start enables the requested profilers. The returned stop function ends
// them, writes the heap profile, and may be called more than once.
func Start(cfg Config) (stop func() error, err error) {
	var cpuFile, traceFile *os.File
	if cfg.CPU != "" {
		if cpuFile, err = os.Create(cfg.CPU); err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		if err = pprof.StartCPUProfile(cpuFile); err != nil {
			_ = cpuFile.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
	}
	if cfg.Trace != "" {
		if traceFile, err = os.Create(cfg.Trace); err == nil {
			if err = trace.Start(traceFile); err != nil {
				_ = traceFile.Close()
			}
		}
		if err != nil {
			if cpuFile != nil {
				pprof.StopCPUProfile()
				_ = cpuFile.Close()
			}
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
	}

	var once sync.Once
	var stopErr error
	return func() error {
		once.Do(func() {
			var errs []error
			if traceFile != nil {
				trace.Stop()
				errs = append(errs, traceFile.Close())
			}
			if cpuFile != nil {
				pprof.StopCPUProfile()
				errs = append(errs, cpuFile.Close())
			}
			if cfg.Mem != "" {
				errs = append(errs, writeHeap(cfg.Mem))
			}
			stopErr = errors.Join(errs...)
		})
		return stopErr
	}, nil
}

func writeHeap(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}

// Package prof wires the Go runtime profilers to command-line flags.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	rtrace "runtime/trace"
)

// Options names the output files. Empty paths disable the profiler.
type Options struct {
	CPU   string
	Heap  string
	Trace string
}

// Session is a set of running profilers.
type Session struct {
	heap    string
	cpu     *os.File
	trace   *os.File
	stopped bool
}

// Start enables every profiler named in opts. On error nothing is left
// running.
func Start(opts Options) (*Session, error) {
	s := &Session{heap: opts.Heap}
	if opts.CPU != "" {
		f, err := os.Create(opts.CPU)
		if err != nil {
			return nil, fmt.Errorf("failed to start cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to start cpu profile: %w", err)
		}
		s.cpu = f
	}
	if opts.Trace != "" {
		f, err := os.Create(opts.Trace)
		if err == nil {
			if err = rtrace.Start(f); err != nil {
				_ = f.Close()
			}
		}
		if err != nil {
			s.heap = ""
			_ = s.Stop()
			return nil, fmt.Errorf("failed to start runtime trace: %w", err)
		}
		s.trace = f
	}
	return s, nil
}

// Stop ends the profilers and writes the heap profile. Calling it twice is
// a no-op.
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true
	var errs []error
	if s.trace != nil {
		rtrace.Stop()
		errs = append(errs, s.trace.Close())
	}
	if s.cpu != nil {
		pprof.StopCPUProfile()
		errs = append(errs, s.cpu.Close())
	}
	if s.heap != "" {
		errs = append(errs, writeHeap(s.heap))
	}
	return errors.Join(errs...)
}

func writeHeap(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write heap profile: %w", err)
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write heap profile: %w", err)
	}
	return f.Close()
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cha/internal/trace"
)

var activeLog *trace.Log

// setupTracing reads the trace flags and attaches the resulting log to the
// command context. It returns a cleanup function.
func setupTracing(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := root.PersistentFlags().GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	// an output path alone implies phase-level tracing
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		activeLog = nil
		cmd.SetContext(trace.WithLog(cmd.Context(), nil))
		return func() {}, nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}

	log, err := trace.New(trace.Config{
		Level:    level,
		Mode:     mode,
		Format:   format,
		Path:     traceOutput,
		RingSize: ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create trace log: %w", err)
	}
	activeLog = log
	cmd.SetContext(trace.WithLog(cmd.Context(), log))

	cleanup := func() {
		if err := log.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

// dumpTraceOnPanic writes the ring buffer to stderr before re-panicking, so
// the events leading to an index invariant violation are not lost.
func dumpTraceOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	if len(activeLog.Recent()) > 0 {
		fmt.Fprintln(os.Stderr, "trace: last events before panic:")
		_, _ = activeLog.Dump(os.Stderr)
	}
	panic(r)
}

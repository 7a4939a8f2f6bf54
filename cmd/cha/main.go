package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cha/internal/prof"
	"cha/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "cha",
	Short: "Class hierarchy analysis for closed-world programs",
	Long: `cha reads cha.toml manifests describing classes, interfaces and the
classes each one allocates, computes which classes are instantiated, and
answers subclass, subtype and least-upper-bound queries over the result.`,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
}

func init() {
	cobra.OnFinalize(func() {
		traceCleanup()
		if err := profiling.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "profile: %v\n", err)
		}
	})

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("timings", false, "show timing information")
	flags.Int("jobs", 0, "max parallel manifest loaders (0=auto)")
	flags.Bool("no-cache", false, "do not read or write the manifest cache")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	flags.String("trace", "", "write trace events to file (\"-\" for stderr)")
	flags.String("trace-level", "off", "trace level (off|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	flags.String("trace-format", "auto", "trace output format (auto|text|ndjson)")
	flags.Int("trace-ring-size", 4096, "events kept in ring mode")
	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")
}

// main executes the root command. Any error exits with status 1.
func main() {
	rootCmd.Version = version.Version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	traceCleanup = func() {}
	profiling    *prof.Session
)

func preRun(cmd *cobra.Command, _ []string) error {
	configureColor(cmd)
	ps, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	profiling = ps
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	traceCleanup = func() {
		cleanup()
		traceCleanup = func() {}
	}
	return nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

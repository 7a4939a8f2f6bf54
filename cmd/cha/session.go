package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"cha/internal/diag"
	"cha/internal/manifest"
	"cha/internal/observ"
	"cha/internal/trace"
	"cha/internal/universe"
	"cha/internal/world"
)

const noManifestMessage = "no " + manifest.FileName + " found\nplease pass manifests explicitly, e.g.:\n  cha check path/to/" + manifest.FileName

// session is one load-resolve-fixpoint run over a set of manifests.
type session struct {
	set      *manifest.Set
	universe *universe.Universe
	builder  *world.Builder
	world    *world.Closed
	bag      *diag.Bag
	timer    *observ.Timer
}

type sessionOptions struct {
	reportUnused bool
}

// manifestPaths returns args, or the nearest cha.toml when args is empty.
func manifestPaths(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	path, err := manifest.Find(wd)
	if errors.Is(err, manifest.ErrNoManifest) {
		return nil, errors.New(noManifestMessage)
	}
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func openCache(cmd *cobra.Command) *manifest.DiskCache {
	noCache, err := cmd.Root().PersistentFlags().GetBool("no-cache")
	if err != nil || noCache {
		return nil
	}
	cache, err := manifest.OpenDiskCache("cha")
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: manifest cache disabled: %v\n", err)
		return nil
	}
	return cache
}

// openSession loads the manifests, resolves the class universe and runs the
// instantiation fixpoint. Problems in the input land in the session bag; the
// returned error is reserved for I/O and flag failures. world is nil when the
// universe could not be resolved.
func openSession(cmd *cobra.Command, args []string, opts sessionOptions) (*session, error) {
	ctx, span := trace.Begin(cmd.Context(), trace.ScopeDriver, "session")
	defer span.End(nil)

	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	paths, err := manifestPaths(args)
	if err != nil {
		return nil, err
	}

	s := &session{bag: diag.NewBag(maxDiagnostics), timer: observ.NewTimer()}
	reporter := diag.BagReporter{Bag: s.bag}

	idx := s.timer.Begin("load")
	s.set, err = manifest.LoadAll(ctx, paths, jobs, openCache(cmd))
	if err != nil {
		s.timer.End(idx, "failed")
		return nil, err
	}
	s.timer.End(idx, fmt.Sprintf("%d manifest(s)", len(paths)))

	idx = s.timer.Begin("resolve")
	s.universe = s.set.Resolve(reporter)
	s.timer.End(idx, "")
	if s.universe == nil {
		return s, nil
	}

	s.builder = world.NewBuilder(s.universe, world.Options{
		Reporter:     reporter,
		Origin:       s.set.Origin,
		ReportUnused: opts.reportUnused,
	})
	idx = s.timer.Begin("fixpoint")
	if err := s.builder.Run(ctx, s.set.Roots()); err != nil {
		s.timer.End(idx, "cancelled")
		return nil, err
	}
	s.timer.End(idx, fmt.Sprintf("%d instantiated", s.builder.Stats().Instantiated))

	idx = s.timer.Begin("close")
	s.world, err = s.builder.Close(ctx)
	s.timer.End(idx, "")
	if err != nil {
		return nil, err
	}
	return s, nil
}

// lookup resolves a class named on the command line.
func (s *session) lookup(name string) (universe.ClassID, error) {
	cls, ok := s.universe.Lookup(name)
	if !ok {
		return universe.NoClassID, fmt.Errorf("%w: %q", universe.ErrUnknownClass, name)
	}
	return cls, nil
}

func (s *session) printTimings(cmd *cobra.Command) {
	show, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil || !show {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), s.timer.Summary())
}

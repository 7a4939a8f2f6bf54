package manifest

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"cha/internal/universe"
)

// Set is a group of manifests merged into one program.
type Set struct {
	Manifests []*Manifest
	origin    map[string]string
}

// LoadAll decodes paths concurrently, at most jobs at a time, consulting
// cache when it is not nil. Results keep the order of paths.
func LoadAll(ctx context.Context, paths []string, jobs int, cache *DiskCache) (*Set, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no manifests to load")
	}
	if jobs <= 0 {
		jobs = 1
	}
	results := make([]*Manifest, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			m, err := cache.Load(path)
			if err != nil {
				return err
			}
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewSet(results...), nil
}

// NewSet groups already decoded manifests.
func NewSet(ms ...*Manifest) *Set {
	s := &Set{Manifests: ms, origin: make(map[string]string)}
	for _, m := range ms {
		for _, c := range m.Classes {
			if _, seen := s.origin[c.Name]; !seen {
				s.origin[c.Name] = m.Path
			}
		}
	}
	return s
}

// Name returns the first declared program name.
func (s *Set) Name() string {
	for _, m := range s.Manifests {
		if m.Program.Name != "" {
			return m.Program.Name
		}
	}
	return ""
}

// Roots returns the union of [program].roots in manifest order.
func (s *Set) Roots() []string {
	var roots []string
	for _, m := range s.Manifests {
		for _, r := range m.Program.Roots {
			if !slices.Contains(roots, r) {
				roots = append(roots, r)
			}
		}
	}
	return roots
}

// Origin returns the manifest path that declared class name.
func (s *Set) Origin(name string) string {
	return s.origin[universe.Normalize(name)]
}

// Universe resolves all declarations into one universe.
func (s *Set) Universe() (*universe.Universe, error) {
	var decls []universe.Decl
	for _, m := range s.Manifests {
		decls = append(decls, m.Decls()...)
	}
	return universe.Build(decls)
}

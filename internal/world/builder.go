package world

import (
	"context"
	"fmt"

	"cha/internal/diag"
	"cha/internal/hierarchy"
	"cha/internal/trace"
	"cha/internal/universe"
)

// Options configures a Builder.
type Options struct {
	// Reporter receives recoverable problems found during the fixpoint.
	Reporter diag.Reporter
	// Origin maps a class name to the manifest that declared it.
	Origin func(name string) string
	// ReportUnused adds diagnostics for classes and interfaces that end up
	// without instances.
	ReportUnused bool
}

// Stats summarizes one fixpoint run.
type Stats struct {
	Classes        int
	Instantiated   int
	Steps          int
	Subtypes       int
	Rejected       int
	SubtypeRoots   int
	IndexedClasses int
}

// Builder drives the instantiation fixpoint over a universe and keeps the
// hierarchy index up to date while doing so.
type Builder struct {
	u      *universe.Universe
	forest *hierarchy.Forest
	opts   Options

	stats  Stats
	closed bool
}

// NewBuilder creates a builder whose forest holds only the root class.
func NewBuilder(u *universe.Universe, opts Options) *Builder {
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	return &Builder{
		u:      u,
		forest: hierarchy.NewForest(u, u.Root()),
		opts:   opts,
	}
}

// Forest exposes the index being built.
func (b *Builder) Forest() *hierarchy.Forest { return b.forest }

// Stats returns counters of the last run.
func (b *Builder) Stats() Stats { return b.stats }

func (b *Builder) subject(cls universe.ClassID) diag.Subject {
	name := b.u.Name(cls)
	s := diag.Subject{Class: name}
	if b.opts.Origin != nil {
		s.File = b.opts.Origin(name)
	}
	return s
}

// EnsureNode returns the node of cls, creating and linking the nodes of cls
// and of its missing superclasses root-first. A new class is registered as a
// subtype of every interface it implements.
func (b *Builder) EnsureNode(ctx context.Context, cls universe.ClassID) hierarchy.NodeID {
	if id, ok := b.forest.NodeFor(cls); ok {
		return id
	}
	super := b.u.Superclass(cls)
	if !super.IsValid() {
		panic(fmt.Errorf("world: class %q is a second root", b.u.Name(cls)))
	}
	parent := b.EnsureNode(ctx, super)
	id := b.forest.NewNode(cls)
	b.forest.AddDirectSubclass(parent, id)
	b.stats.Classes++

	for _, iface := range b.u.AllInterfaces(cls) {
		b.forest.SubtypeIndex(b.EnsureNode(ctx, iface)).AddImplementor(id)
		b.stats.Subtypes++
		trace.Point(ctx, trace.ScopeNode, "add-subtype", trace.Subject{
			Class: b.u.Name(cls),
			Super: b.u.Name(iface),
			Node:  uint32(id),
		})
	}
	return id
}

// RegisterAll creates nodes for every class of the universe.
func (b *Builder) RegisterAll(ctx context.Context) {
	for _, cls := range b.u.Classes() {
		b.EnsureNode(ctx, cls)
	}
}

// Instantiate records that program code constructs cls: the class becomes
// directly instantiated and each strict superclass indirectly instantiated.
// Abstract classes and interfaces are rejected with a diagnostic. It returns
// true when cls was newly instantiated.
func (b *Builder) Instantiate(ctx context.Context, cls universe.ClassID) bool {
	if b.closed {
		panic("world: Instantiate after Close")
	}
	if b.u.IsAbstract(cls) {
		code, what := diag.WldAbstractInstantiated, "abstract class"
		if b.u.IsInterface(cls) {
			code, what = diag.WldInterfaceInstantiated, "interface"
		}
		diag.ReportError(b.opts.Reporter, code, b.subject(cls),
			fmt.Sprintf("%s %q is instantiated", what, b.u.Name(cls))).Emit()
		b.stats.Rejected++
		return false
	}
	id := b.EnsureNode(ctx, cls)
	if b.forest.IsDirectlyInstantiated(id) {
		return false
	}
	b.forest.SetDirectlyInstantiated(id, true)
	for p := b.forest.Parent(id); p.IsValid(); p = b.forest.Parent(p) {
		if b.forest.IsIndirectlyInstantiated(p) {
			// every ancestor above already carries the flag
			break
		}
		b.forest.SetIndirectlyInstantiated(p, true)
	}
	b.stats.Instantiated++
	trace.Point(ctx, trace.ScopeClass, "instantiate", trace.Subject{Class: b.u.Name(cls), Node: uint32(id)})
	return true
}

// Run instantiates roots and then every class transitively allocated by an
// instantiated class, until no new instantiation is discovered.
func (b *Builder) Run(ctx context.Context, roots []string) error {
	ctx, span := trace.Begin(ctx, trace.ScopePass, "fixpoint")

	b.RegisterAll(ctx)

	if len(roots) == 0 {
		diag.ReportError(b.opts.Reporter, diag.WldNoRoots, diag.Subject{}, "program declares no roots").Emit()
	}
	var work []universe.ClassID
	for _, name := range roots {
		cls, ok := b.u.Lookup(name)
		if !ok {
			s := diag.Subject{Class: name}
			if b.opts.Origin != nil {
				s.File = b.opts.Origin(name)
			}
			diag.ReportError(b.opts.Reporter, diag.WldUnknownRoot, s,
				fmt.Sprintf("root class %q is not declared", name)).Emit()
			continue
		}
		work = append(work, cls)
	}

	seen := make(map[universe.ClassID]struct{}, len(work))
	for len(work) > 0 {
		if err := ctx.Err(); err != nil {
			span.Count("steps", b.stats.Steps).End(err)
			return err
		}
		last := len(work) - 1
		cls := work[last]
		work = work[:last]
		if _, ok := seen[cls]; ok {
			continue
		}
		seen[cls] = struct{}{}
		b.stats.Steps++
		if !b.Instantiate(ctx, cls) {
			continue
		}
		info := b.u.Info(cls)
		// reversed so allocations are processed in declaration order
		for i := len(info.Instantiates) - 1; i >= 0; i-- {
			work = append(work, info.Instantiates[i])
		}
	}

	if b.opts.ReportUnused {
		b.reportUnused()
	}
	span.Count("instantiated", b.stats.Instantiated).
		Count("steps", b.stats.Steps).
		End(nil)
	return nil
}

func (b *Builder) reportUnused() {
	for _, cls := range b.u.Classes() {
		id, ok := b.forest.NodeFor(cls)
		if !ok || cls == b.u.Root() {
			continue
		}
		switch {
		case b.u.IsInterface(cls):
			idx := b.forest.SubtypeIndex(id)
			if _, ok := idx.LubOfInstantiatedSubtypes(); !ok {
				diag.ReportWarning(b.opts.Reporter, diag.WldInterfaceNotImplemented, b.subject(cls),
					fmt.Sprintf("no instantiated class implements %q", b.u.Name(cls))).Emit()
			}
		case !b.u.IsAbstract(cls) && !b.forest.IsInstantiated(id):
			diag.ReportInfo(b.opts.Reporter, diag.WldNeverInstantiated, b.subject(cls),
				fmt.Sprintf("class %q is never instantiated", b.u.Name(cls))).Emit()
		}
	}
}

// Close validates and freezes the index and returns the read-only world.
func (b *Builder) Close(ctx context.Context) (*Closed, error) {
	_, span := trace.Begin(ctx, trace.ScopePass, "close")
	if err := b.forest.Validate(); err != nil {
		err = fmt.Errorf("world: inconsistent hierarchy: %w", err)
		span.End(err)
		return nil, err
	}
	for _, cls := range b.u.Classes() {
		id, ok := b.forest.NodeFor(cls)
		if !ok {
			continue
		}
		if idx, ok := b.forest.LookupSubtypeIndex(id); ok {
			b.stats.IndexedClasses++
			b.stats.SubtypeRoots += len(idx.DirectSubtypes())
		}
	}
	b.forest.Freeze()
	b.closed = true
	span.Count("indexed", b.stats.IndexedClasses).Count("subtype-roots", b.stats.SubtypeRoots).End(nil)
	return &Closed{u: b.u, forest: b.forest}, nil
}

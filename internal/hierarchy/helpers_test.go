package hierarchy

import (
	"testing"

	"cha/internal/universe"
)

type fixture struct {
	t *testing.T
	u *universe.Universe
	f *Forest
}

// newFixture builds a universe and links every class under its superclass.
func newFixture(t *testing.T, decls ...universe.Decl) *fixture {
	t.Helper()
	u, err := universe.Build(decls)
	if err != nil {
		t.Fatalf("build universe: %v", err)
	}
	f := NewForest(u, u.Root())
	for _, cls := range u.Classes()[1:] {
		id := f.NewNode(cls)
		parent, ok := f.NodeFor(u.Superclass(cls))
		if !ok {
			t.Fatalf("no node for superclass of %s", u.Name(cls))
		}
		f.AddDirectSubclass(parent, id)
	}
	return &fixture{t: t, u: u, f: f}
}

func (fx *fixture) class(name string) universe.ClassID {
	fx.t.Helper()
	id, ok := fx.u.Lookup(name)
	if !ok {
		fx.t.Fatalf("unknown class %q", name)
	}
	return id
}

func (fx *fixture) node(name string) NodeID {
	fx.t.Helper()
	id, ok := fx.f.NodeFor(fx.class(name))
	if !ok {
		fx.t.Fatalf("no node for %q", name)
	}
	return id
}

// instantiate marks name as directly instantiated and its strict ancestors as
// indirectly instantiated.
func (fx *fixture) instantiate(name string) {
	fx.t.Helper()
	id := fx.node(name)
	fx.f.SetDirectlyInstantiated(id, true)
	for p := fx.f.Parent(id); p.IsValid(); p = fx.f.Parent(p) {
		fx.f.SetIndirectlyInstantiated(p, true)
	}
}

func (fx *fixture) names(ids []universe.ClassID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, fx.u.Name(id))
	}
	return out
}

func (fx *fixture) nodeNames(ids []NodeID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, fx.u.Name(fx.f.Class(id)))
	}
	return out
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	fn()
}

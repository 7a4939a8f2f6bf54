package hierarchy

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"cha/internal/universe"
)

// I is an interface. X -> D -> B is a chain of implementors-to-be; C is an
// unrelated class at depth 1.
func interfaceFixture(t *testing.T) *fixture {
	return newFixture(t,
		universe.Decl{Name: "I", Flags: universe.FlagInterface},
		universe.Decl{Name: "X", Implements: []string{"I"}},
		universe.Decl{Name: "D", Super: "X"},
		universe.Decl{Name: "B", Super: "D"},
		universe.Decl{Name: "C", Implements: []string{"I"}},
		universe.Decl{Name: "S", Super: "I"},
	)
}

func TestAddSubtypeIgnoresOwnSubclasses(t *testing.T) {
	fx := interfaceFixture(t)
	idx := fx.f.SubtypeIndex(fx.node("I"))
	epoch := fx.f.Epoch()
	idx.AddSubtype(fx.node("S"))
	idx.AddSubtype(fx.node("I"))
	if len(idx.DirectSubtypes()) != 0 {
		t.Fatalf("subclasses of I are already covered, got %v", fx.nodeNames(idx.DirectSubtypes()))
	}
	if fx.f.Epoch() != epoch {
		t.Fatalf("a no-op registration must not invalidate caches")
	}
}

func TestAddSubtypeIsIdempotent(t *testing.T) {
	fx := interfaceFixture(t)
	idx := fx.f.SubtypeIndex(fx.node("I"))
	idx.AddSubtype(fx.node("D"))
	idx.AddSubtype(fx.node("C"))
	before := idx.DirectSubtypes()
	idx.AddSubtype(fx.node("D"))
	idx.AddSubtype(fx.node("C"))
	if diff := cmp.Diff(before, idx.DirectSubtypes()); diff != "" {
		t.Fatalf("second registration changed the list:\n%s", diff)
	}
}

func TestAddSubtypeAbsorbsDeeperEntries(t *testing.T) {
	fx := interfaceFixture(t)
	idx := fx.f.SubtypeIndex(fx.node("I"))
	idx.AddSubtype(fx.node("B"))
	idx.AddSubtype(fx.node("C"))
	if diff := cmp.Diff([]string{"C", "B"}, fx.nodeNames(idx.DirectSubtypes())); diff != "" {
		t.Fatalf("entries must be ordered by depth (-want +got):\n%s", diff)
	}
	idx.AddSubtype(fx.node("D"))
	if diff := cmp.Diff([]string{"C", "D"}, fx.nodeNames(idx.DirectSubtypes())); diff != "" {
		t.Fatalf("D should replace B (-want +got):\n%s", diff)
	}
	got := fx.names(idx.SubtypesByMask(All, false).Collect())
	if diff := cmp.Diff([]string{"I", "S", "C", "D", "B"}, got); diff != "" {
		t.Fatalf("B must stay reachable through D (-want +got):\n%s", diff)
	}
	if err := fx.f.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestAddSubtypeSkipsCoveredCandidate(t *testing.T) {
	fx := interfaceFixture(t)
	idx := fx.f.SubtypeIndex(fx.node("I"))
	idx.AddSubtype(fx.node("X"))
	idx.AddSubtype(fx.node("C"))
	before := idx.DirectSubtypes()
	epoch := fx.f.Epoch()
	idx.AddSubtype(fx.node("B"))
	if diff := cmp.Diff(before, idx.DirectSubtypes()); diff != "" {
		t.Fatalf("B is covered by X and must not be inserted:\n%s", diff)
	}
	if fx.f.Epoch() != epoch {
		t.Fatalf("covered candidate must leave the index untouched")
	}
}

func TestAddSubtypeKeepsIndependentChains(t *testing.T) {
	fx := newFixture(t,
		universe.Decl{Name: "A"},
		universe.Decl{Name: "B", Super: "A"},
		universe.Decl{Name: "C"},
		universe.Decl{Name: "D", Super: "C"},
		universe.Decl{Name: "E"},
		universe.Decl{Name: "F", Super: "E"},
	)
	idx := fx.f.SubtypeIndex(fx.node("A"))
	idx.AddSubtype(fx.node("C"))
	idx.AddSubtype(fx.node("E"))
	if diff := cmp.Diff([]string{"C", "E"}, fx.nodeNames(idx.DirectSubtypes())); diff != "" {
		t.Fatalf("independent roots (-want +got):\n%s", diff)
	}
	idx.AddSubtype(fx.node("F"))
	if diff := cmp.Diff([]string{"C", "E"}, fx.nodeNames(idx.DirectSubtypes())); diff != "" {
		t.Fatalf("F is covered by E (-want +got):\n%s", diff)
	}
	got := fx.names(idx.SubtypesByMask(All, true).Collect())
	if diff := cmp.Diff([]string{"B", "C", "D", "E", "F"}, got); diff != "" {
		t.Fatalf("strict subtypes (-want +got):\n%s", diff)
	}
}

func TestSubtypesWithoutExtraRootsMatchSubclasses(t *testing.T) {
	fx := interfaceFixture(t)
	idx := fx.f.SubtypeIndex(fx.node("X"))
	want := fx.f.SubclassesByMask(fx.node("X"), All, true).Collect()
	got := idx.SubtypesByMask(All, true).Collect()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("subtypes should equal subclasses:\n%s", diff)
	}
}

func TestSubtypesFilterByMask(t *testing.T) {
	fx := interfaceFixture(t)
	idx := fx.f.SubtypeIndex(fx.node("I"))
	idx.AddSubtype(fx.node("X"))
	idx.AddSubtype(fx.node("C"))
	fx.instantiate("B")
	got := fx.names(idx.SubtypesByMask(Instantiated, false).Collect())
	if diff := cmp.Diff([]string{"X", "D", "B"}, got); diff != "" {
		t.Fatalf("instantiated subtypes (-want +got):\n%s", diff)
	}
	got = fx.names(idx.SubtypesByMask(DirectlyOnly, false).Collect())
	if diff := cmp.Diff([]string{"B"}, got); diff != "" {
		t.Fatalf("direct subtypes (-want +got):\n%s", diff)
	}
}

func TestLubOfInstantiatedSubtypes(t *testing.T) {
	fx := interfaceFixture(t)
	idx := fx.f.SubtypeIndex(fx.node("I"))
	idx.AddSubtype(fx.node("X"))
	idx.AddSubtype(fx.node("C"))

	if _, ok := idx.LubOfInstantiatedSubtypes(); ok {
		t.Fatalf("nothing instantiated: expected no lub")
	}
	fx.instantiate("B")
	if got, ok := idx.LubOfInstantiatedSubtypes(); !ok || got != fx.class("B") {
		t.Fatalf("lub = %s, want B", fx.u.Name(got))
	}
	fx.instantiate("C")
	if got, _ := idx.LubOfInstantiatedSubtypes(); got != fx.class("I") {
		t.Fatalf("two instantiated branches: lub = %s, want I", fx.u.Name(got))
	}
}

func TestLubOfSubtypesCountsOwnSubtree(t *testing.T) {
	fx := interfaceFixture(t)
	idx := fx.f.SubtypeIndex(fx.node("I"))
	idx.AddSubtype(fx.node("C"))
	fx.instantiate("S")
	if got, _ := idx.LubOfInstantiatedSubtypes(); got != fx.class("S") {
		t.Fatalf("lub = %s, want S", fx.u.Name(got))
	}
	fx.instantiate("C")
	if got, _ := idx.LubOfInstantiatedSubtypes(); got != fx.class("I") {
		t.Fatalf("lub = %s, want I", fx.u.Name(got))
	}
}

func TestLubOfSubtypesWithoutRootsDelegates(t *testing.T) {
	fx := interfaceFixture(t)
	idx := fx.f.SubtypeIndex(fx.node("X"))
	fx.f.SetIndirectlyInstantiated(fx.node("X"), true)
	got, ok := idx.LubOfInstantiatedSubtypes()
	if !ok || got != fx.class("X") {
		t.Fatalf("without roots the subclass fallback applies, got %s ok=%v", fx.u.Name(got), ok)
	}
}

func TestHasSubtype(t *testing.T) {
	fx := interfaceFixture(t)
	idx := fx.f.SubtypeIndex(fx.node("I"))
	idx.AddSubtype(fx.node("D"))
	for name, want := range map[string]bool{"I": true, "S": true, "D": true, "B": true, "X": false, "C": false} {
		if got := idx.HasSubtype(fx.class(name)); got != want {
			t.Errorf("HasSubtype(%s) = %v, want %v", name, got, want)
		}
	}
}

func TestForEachSubtypeStops(t *testing.T) {
	fx := interfaceFixture(t)
	idx := fx.f.SubtypeIndex(fx.node("I"))
	idx.AddSubtype(fx.node("X"))
	idx.AddSubtype(fx.node("C"))
	var visited []string
	complete := idx.ForEachSubtype(All, true, func(cls universe.ClassID) Walk {
		visited = append(visited, fx.u.Name(cls))
		if cls == fx.class("X") {
			return WalkStop
		}
		return WalkContinue
	})
	if complete {
		t.Fatalf("walk should report it was stopped")
	}
	if diff := cmp.Diff([]string{"S", "X"}, visited); diff != "" {
		t.Fatalf("visit order (-want +got):\n%s", diff)
	}
	if !idx.AnySubtype(All, true, func(cls universe.ClassID) bool { return cls == fx.class("B") }) {
		t.Fatalf("B is a subtype of I")
	}
}

func TestAddImplementorChecksModel(t *testing.T) {
	fx := interfaceFixture(t)
	idx := fx.f.SubtypeIndex(fx.node("I"))
	idx.AddImplementor(fx.node("C"))
	mustPanic(t, "non-implementor", func() {
		fx.f.SubtypeIndex(fx.node("C")).AddImplementor(fx.node("X"))
	})
}

func TestSubtypeIteratorPanicsAfterMutation(t *testing.T) {
	fx := interfaceFixture(t)
	idx := fx.f.SubtypeIndex(fx.node("I"))
	idx.AddSubtype(fx.node("C"))
	it := idx.SubtypesByMask(All, false)
	it.Next()
	idx.AddSubtype(fx.node("X"))
	mustPanic(t, "next after AddSubtype", func() { it.Next() })
}

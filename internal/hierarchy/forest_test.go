package hierarchy

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"cha/internal/universe"
)

// Object -> A -> {B, C}, B -> D
func diamondless(t *testing.T) *fixture {
	return newFixture(t,
		universe.Decl{Name: "A"},
		universe.Decl{Name: "B", Super: "A"},
		universe.Decl{Name: "C", Super: "A"},
		universe.Decl{Name: "D", Super: "B"},
	)
}

func TestContainsFollowsSuperclassChain(t *testing.T) {
	fx := diamondless(t)
	a, b, d := fx.node("A"), fx.node("B"), fx.node("D")
	if !fx.f.Contains(a, fx.class("D")) {
		t.Fatalf("A should contain its transitive subclass D")
	}
	if fx.f.Contains(d, fx.class("A")) {
		t.Fatalf("D must not contain its superclass A")
	}
	if !fx.f.Contains(b, fx.class("B")) {
		t.Fatalf("a node contains its own class")
	}
	if fx.f.Contains(b, fx.class("C")) {
		t.Fatalf("siblings are unrelated")
	}
	if !fx.f.Contains(fx.f.Root(), fx.class("C")) {
		t.Fatalf("the root contains everything")
	}
}

func TestAddDirectSubclassPreconditions(t *testing.T) {
	fx := diamondless(t)
	mustPanic(t, "wrong parent", func() {
		u := fx.u
		f := NewForest(u, u.Root())
		c := f.NewNode(fx.class("C"))
		f.AddDirectSubclass(f.Root(), c)
	})
	mustPanic(t, "duplicate child", func() {
		fx.f.AddDirectSubclass(fx.node("A"), fx.node("B"))
	})
	mustPanic(t, "duplicate node", func() {
		fx.f.NewNode(fx.class("B"))
	})
	mustPanic(t, "root with superclass", func() {
		NewForest(fx.u, fx.class("A"))
	})
}

func TestChildrenKeepInsertionOrder(t *testing.T) {
	fx := diamondless(t)
	got := fx.nodeNames(fx.f.Children(fx.node("A")))
	if diff := cmp.Diff([]string{"B", "C"}, got); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}
}

func TestInstantiationFlags(t *testing.T) {
	fx := diamondless(t)
	a := fx.node("A")
	if fx.f.IsInstantiated(a) || fx.f.State(a) != Uninstantiated {
		t.Fatalf("new nodes start uninstantiated, got %s", fx.f.State(a))
	}
	fx.f.SetIndirectlyInstantiated(a, true)
	fx.f.SetDirectlyInstantiated(a, true)
	if !fx.f.IsDirectlyInstantiated(a) || !fx.f.IsIndirectlyInstantiated(a) {
		t.Fatalf("both flags should be set, got %s", fx.f.State(a))
	}
	fx.f.SetDirectlyInstantiated(a, false)
	fx.f.SetIndirectlyInstantiated(a, false)
	if fx.f.State(a) != Uninstantiated {
		t.Fatalf("clearing both flags restores uninstantiated, got %s", fx.f.State(a))
	}
}

func TestSubclassesRootInclusion(t *testing.T) {
	fx := diamondless(t)
	a := fx.node("A")
	got := fx.names(fx.f.SubclassesByMask(a, All, false).Collect())
	if diff := cmp.Diff([]string{"A", "B", "D", "C"}, got); diff != "" {
		t.Fatalf("non-strict walk (-want +got):\n%s", diff)
	}
	got = fx.names(fx.f.SubclassesByMask(a, All, true).Collect())
	if diff := cmp.Diff([]string{"B", "D", "C"}, got); diff != "" {
		t.Fatalf("strict walk (-want +got):\n%s", diff)
	}
}

func TestSubclassesPruneUninstantiatedSubtrees(t *testing.T) {
	fx := diamondless(t)
	fx.instantiate("D")
	a := fx.node("A")

	if !fx.f.IsInstantiated(a) {
		t.Fatalf("A should be indirectly instantiated")
	}
	cases := []struct {
		name   string
		mask   Selector
		strict bool
		want   []string
	}{
		{"instantiated", Instantiated, false, []string{"A", "B", "D"}},
		{"instantiated strict", Instantiated, true, []string{"B", "D"}},
		{"directly only", DirectlyOnly, false, []string{"D"}},
		{"uninstantiated", Uninstantiated, false, []string{"C"}},
		{"all", All, false, []string{"A", "B", "D", "C"}},
	}
	for _, tc := range cases {
		got := fx.names(fx.f.SubclassesByMask(a, tc.mask, tc.strict).Collect())
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%s (-want +got):\n%s", tc.name, diff)
		}
	}
}

func TestPrunedSubtreeIsNotExplored(t *testing.T) {
	// C is uninstantiated but has an instantiated child E; the walk must
	// not reach E when the mask excludes uninstantiated classes.
	fx := newFixture(t,
		universe.Decl{Name: "A"},
		universe.Decl{Name: "C", Super: "A"},
		universe.Decl{Name: "E", Super: "C"},
	)
	fx.f.SetDirectlyInstantiated(fx.node("A"), true)
	fx.f.SetDirectlyInstantiated(fx.node("E"), true)
	got := fx.names(fx.f.SubclassesByMask(fx.node("A"), Instantiated, false).Collect())
	if diff := cmp.Diff([]string{"A"}, got); diff != "" {
		t.Fatalf("pruning (-want +got):\n%s", diff)
	}
}

func TestIteratorsAreRestartable(t *testing.T) {
	fx := diamondless(t)
	a := fx.node("A")
	first := fx.f.SubclassesByMask(a, All, false).Collect()
	second := fx.f.SubclassesByMask(a, All, false).Collect()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("fresh iterators must produce the same walk:\n%s", diff)
	}
	it := fx.f.SubclassesByMask(a, All, false)
	var partial []universe.ClassID
	for cls := range it.Seq() {
		partial = append(partial, cls)
		if len(partial) == 2 {
			break
		}
	}
	if len(partial) != 2 {
		t.Fatalf("early break should stop after two classes, got %d", len(partial))
	}
}

func TestIteratorPanicsAfterMutation(t *testing.T) {
	fx := diamondless(t)
	it := fx.f.SubclassesByMask(fx.node("A"), All, false)
	if _, ok := it.Next(); !ok {
		t.Fatalf("expected a first class")
	}
	fx.f.SetDirectlyInstantiated(fx.node("C"), true)
	mustPanic(t, "next after mutation", func() { it.Next() })
}

func TestLubOfInstantiatedSubclasses(t *testing.T) {
	fx := newFixture(t,
		universe.Decl{Name: "R"},
		universe.Decl{Name: "P", Super: "R"},
		universe.Decl{Name: "Q", Super: "R"},
	)
	r := fx.node("R")
	if _, ok := fx.f.LubOfInstantiatedSubclasses(r); ok {
		t.Fatalf("uninstantiated node has no lub")
	}
	fx.instantiate("P")
	if got, ok := fx.f.LubOfInstantiatedSubclasses(r); !ok || got != fx.class("P") {
		t.Fatalf("lub(R) = %s, want P", fx.u.Name(got))
	}
	fx.instantiate("Q")
	if got, _ := fx.f.LubOfInstantiatedSubclasses(r); got != fx.class("R") {
		t.Fatalf("lub(R) with two branches = %s, want R", fx.u.Name(got))
	}
}

func TestLubDescendsThroughSingleBranch(t *testing.T) {
	fx := diamondless(t)
	fx.instantiate("D")
	got, ok := fx.f.LubOfInstantiatedSubclasses(fx.node("A"))
	if !ok || got != fx.class("D") {
		t.Fatalf("lub(A) = %s, want D", fx.u.Name(got))
	}
	fx.f.SetDirectlyInstantiated(fx.node("B"), true)
	if got, _ := fx.f.LubOfInstantiatedSubclasses(fx.node("A")); got != fx.class("B") {
		t.Fatalf("directly instantiated B bounds its subtree, got %s", fx.u.Name(got))
	}
}

func TestLubFallsBackToSelfWithoutInstantiatedChild(t *testing.T) {
	fx := diamondless(t)
	a := fx.node("A")
	fx.f.SetIndirectlyInstantiated(a, true)
	if got, ok := fx.f.LubOfInstantiatedSubclasses(a); !ok || got != fx.class("A") {
		t.Fatalf("lub(A) = %s, want A", fx.u.Name(got))
	}
}

func TestLubIsRecomputedAfterMutation(t *testing.T) {
	fx := diamondless(t)
	fx.instantiate("D")
	a := fx.node("A")
	if got, _ := fx.f.LubOfInstantiatedSubclasses(a); got != fx.class("D") {
		t.Fatalf("lub(A) = %s, want D", fx.u.Name(got))
	}
	fx.instantiate("C")
	if got, _ := fx.f.LubOfInstantiatedSubclasses(a); got != fx.class("A") {
		t.Fatalf("stale lub after instantiating C: got %s, want A", fx.u.Name(got))
	}
	fx.f.SetDirectlyInstantiated(fx.node("C"), false)
	fx.f.SetIndirectlyInstantiated(fx.node("A"), true)
	if got, _ := fx.f.LubOfInstantiatedSubclasses(a); got != fx.class("D") {
		t.Fatalf("lub(A) after clearing C = %s, want D", fx.u.Name(got))
	}
}

func TestFreezeRejectsMutation(t *testing.T) {
	fx := diamondless(t)
	fx.instantiate("D")
	fx.f.Freeze()
	if !fx.f.Frozen() {
		t.Fatalf("forest should report frozen")
	}
	if got, _ := fx.f.LubOfInstantiatedSubclasses(fx.node("A")); got != fx.class("D") {
		t.Fatalf("queries keep working after freeze, got %s", fx.u.Name(got))
	}
	mustPanic(t, "set flag", func() { fx.f.SetDirectlyInstantiated(fx.node("C"), true) })
	mustPanic(t, "new node", func() { fx.f.NewNode(universe.ClassID(99)) })
	mustPanic(t, "add subtype", func() { fx.f.SubtypeIndex(fx.node("C")).AddSubtype(fx.node("D")) })
}

func TestForEachSubclassControl(t *testing.T) {
	fx := diamondless(t)
	var visited []string
	complete := fx.f.ForEachSubclass(fx.node("A"), All, false, func(cls universe.ClassID) Walk {
		visited = append(visited, fx.u.Name(cls))
		if cls == fx.class("B") {
			return WalkSkipSubclasses
		}
		return WalkContinue
	})
	if !complete {
		t.Fatalf("walk was not stopped")
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, visited); diff != "" {
		t.Fatalf("skip subclasses (-want +got):\n%s", diff)
	}
	if !fx.f.AnySubclass(fx.f.Root(), All, true, func(cls universe.ClassID) bool { return cls == fx.class("D") }) {
		t.Fatalf("AnySubclass should find D")
	}
	if fx.f.AnySubclass(fx.node("B"), All, true, func(cls universe.ClassID) bool { return cls == fx.class("C") }) {
		t.Fatalf("C is not below B")
	}
}

func TestValidateAcceptsWellFormedForest(t *testing.T) {
	fx := diamondless(t)
	fx.instantiate("D")
	if err := fx.f.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestParentFollowsLinks(t *testing.T) {
	fx := diamondless(t)
	if got := fx.f.Parent(fx.node("D")); got != fx.node("B") {
		t.Fatalf("Parent(D) = %d, want B's node %d", got, fx.node("B"))
	}
	if got := fx.f.Parent(fx.f.Root()); got.IsValid() {
		t.Fatalf("root has parent %d", got)
	}
	f := NewForest(fx.u, fx.u.Root())
	if got := f.Parent(f.NewNode(fx.class("A"))); got.IsValid() {
		t.Fatalf("unlinked node has parent %d", got)
	}
}

func TestValidateRejectsSubtypeRootAboveIndexedNode(t *testing.T) {
	fx := diamondless(t)
	fx.f.SubtypeIndex(fx.node("D")).AddSubtype(fx.node("A"))
	if err := fx.f.Validate(); err == nil {
		t.Fatalf("an index whose root contains the indexed class must not validate")
	}
}

package hierarchy

import "cha/internal/universe"

// Walk tells ForEach callbacks how to continue.
type Walk uint8

const (
	// WalkContinue visits the subclasses of the current class.
	WalkContinue Walk = iota
	// WalkSkipSubclasses skips the subclasses of the current class.
	WalkSkipSubclasses
	// WalkStop ends the traversal.
	WalkStop
)

func (w Walk) String() string {
	switch w {
	case WalkContinue:
		return "continue"
	case WalkSkipSubclasses:
		return "skip-subclasses"
	case WalkStop:
		return "stop"
	default:
		return "unknown"
	}
}

// ForEachSubclass calls fn in pre-order for every class of id's subtree that
// matches mask, with the same pruning and strictness rules as
// SubclassesByMask. It returns false if fn stopped the walk.
func (f *Forest) ForEachSubclass(id NodeID, mask Selector, strict bool, fn func(universe.ClassID) Walk) bool {
	epoch := f.epoch
	return f.forEach(id, id, mask, strict, epoch, fn) != WalkStop
}

func (f *Forest) forEach(root, id NodeID, mask Selector, strict bool, epoch uint64, fn func(universe.ClassID) Walk) Walk {
	n := f.node(id)
	if !mask.Has(Uninstantiated) && !n.state.IsInstantiated() {
		return WalkContinue
	}
	if mask.Intersects(n.state) && !(strict && id == root) {
		action := fn(n.class)
		f.checkEpoch(epoch)
		switch action {
		case WalkStop:
			return WalkStop
		case WalkSkipSubclasses:
			return WalkContinue
		}
	}
	for _, child := range n.children {
		if f.forEach(root, child, mask, strict, epoch, fn) == WalkStop {
			return WalkStop
		}
	}
	return WalkContinue
}

// AnySubclass reports whether pred holds for a class produced by
// SubclassesByMask(id, mask, strict).
func (f *Forest) AnySubclass(id NodeID, mask Selector, strict bool, pred func(universe.ClassID) bool) bool {
	found := false
	f.ForEachSubclass(id, mask, strict, func(cls universe.ClassID) Walk {
		if pred(cls) {
			found = true
			return WalkStop
		}
		return WalkContinue
	})
	return found
}

// ForEachSubtype is the subtype counterpart of ForEachSubclass.
func (s *SubtypeIndex) ForEachSubtype(mask Selector, strict bool, fn func(universe.ClassID) Walk) bool {
	if !s.forest.ForEachSubclass(s.node, mask, strict, fn) {
		return false
	}
	for _, root := range s.subtypes {
		if !s.forest.ForEachSubclass(root, mask, false, fn) {
			return false
		}
	}
	return true
}

// AnySubtype reports whether pred holds for a class produced by
// SubtypesByMask(mask, strict).
func (s *SubtypeIndex) AnySubtype(mask Selector, strict bool, pred func(universe.ClassID) bool) bool {
	found := false
	s.ForEachSubtype(mask, strict, func(cls universe.ClassID) Walk {
		if pred(cls) {
			found = true
			return WalkStop
		}
		return WalkContinue
	})
	return found
}

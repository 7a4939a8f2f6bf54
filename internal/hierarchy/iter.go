package hierarchy

import (
	"iter"

	"cha/internal/universe"
)

// Iterator produces class IDs one at a time. Iterators are single-use; build
// a new one to restart. The forest must not be mutated while an iterator is
// being drained: the next call to Next panics if it was.
type Iterator interface {
	Next() (universe.ClassID, bool)
}

// Seq adapts an iterator to a range-over-func sequence.
func Seq(it Iterator) iter.Seq[universe.ClassID] {
	return func(yield func(universe.ClassID) bool) {
		for {
			cls, ok := it.Next()
			if !ok || !yield(cls) {
				return
			}
		}
	}
}

// Collect drains the iterator into a slice.
func Collect(it Iterator) []universe.ClassID {
	var out []universe.ClassID
	for cls := range Seq(it) {
		out = append(out, cls)
	}
	return out
}

// SubclassIterator walks a subtree in pre-order using an explicit stack.
type SubclassIterator struct {
	forest *Forest
	root   NodeID
	mask   Selector
	strict bool
	epoch  uint64
	stack  []NodeID
}

// SubclassesByMask returns a lazy pre-order walk over the subtree of id. A
// class is produced when its state intersects mask and, if strict, it is not
// id itself. When mask excludes Uninstantiated, uninstantiated nodes are
// skipped together with their whole subtree.
func (f *Forest) SubclassesByMask(id NodeID, mask Selector, strict bool) *SubclassIterator {
	f.node(id)
	return &SubclassIterator{
		forest: f,
		root:   id,
		mask:   mask,
		strict: strict,
		epoch:  f.epoch,
		stack:  []NodeID{id},
	}
}

// Next returns the next class of the walk.
func (it *SubclassIterator) Next() (universe.ClassID, bool) {
	if it == nil {
		return universe.NoClassID, false
	}
	it.forest.checkEpoch(it.epoch)
	pruneUninstantiated := !it.mask.Has(Uninstantiated)
	for len(it.stack) > 0 {
		last := len(it.stack) - 1
		id := it.stack[last]
		it.stack = it.stack[:last]
		n := &it.forest.nodes[id]
		if pruneUninstantiated && !n.state.IsInstantiated() {
			continue
		}
		// reversed so siblings come out in insertion order
		for i := len(n.children) - 1; i >= 0; i-- {
			it.stack = append(it.stack, n.children[i])
		}
		if it.strict && id == it.root {
			continue
		}
		if !it.mask.Intersects(n.state) {
			continue
		}
		return n.class, true
	}
	return universe.NoClassID, false
}

// Seq adapts the iterator to a range-over-func sequence.
func (it *SubclassIterator) Seq() iter.Seq[universe.ClassID] { return Seq(it) }

// Collect drains the iterator into a slice.
func (it *SubclassIterator) Collect() []universe.ClassID { return Collect(it) }

// SubtypeIterator first drains the subclass walk of the indexed class and then
// the subclass walk of each extra subtype root, in list order.
type SubtypeIterator struct {
	head    *SubclassIterator
	forest  *Forest
	mask    Selector
	epoch   uint64
	roots   []NodeID
	next    int
	current *SubclassIterator
}

// Next returns the next class of the walk.
func (it *SubtypeIterator) Next() (universe.ClassID, bool) {
	if it == nil {
		return universe.NoClassID, false
	}
	it.forest.checkEpoch(it.epoch)
	if it.head != nil {
		if cls, ok := it.head.Next(); ok {
			return cls, true
		}
		it.head = nil
	}
	for {
		if it.current != nil {
			if cls, ok := it.current.Next(); ok {
				return cls, true
			}
			it.current = nil
		}
		if it.next >= len(it.roots) {
			return universe.NoClassID, false
		}
		it.current = it.forest.SubclassesByMask(it.roots[it.next], it.mask, false)
		it.next++
	}
}

// Seq adapts the iterator to a range-over-func sequence.
func (it *SubtypeIterator) Seq() iter.Seq[universe.ClassID] { return Seq(it) }

// Collect drains the iterator into a slice.
func (it *SubtypeIterator) Collect() []universe.ClassID { return Collect(it) }

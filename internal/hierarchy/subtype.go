package hierarchy

import (
	"fmt"
	"slices"

	"cha/internal/universe"
)

// SubtypeIndex extends one node's subclass extension with extra subtype
// roots, such as the implementors of an interface.
type SubtypeIndex struct {
	forest *Forest
	node   NodeID

	// subtypes is ordered by non-decreasing hierarchy depth; no entry is in
	// the subtree of another entry or of node.
	subtypes []NodeID

	lub      universe.ClassID
	lubOK    bool
	lubEpoch uint64
}

// SubtypeIndex returns the index for id, creating it on first use.
func (f *Forest) SubtypeIndex(id NodeID) *SubtypeIndex {
	f.node(id)
	if idx, ok := f.indices[id]; ok {
		return idx
	}
	idx := &SubtypeIndex{forest: f, node: id}
	f.indices[id] = idx
	return idx
}

// LookupSubtypeIndex returns the index for id if one was created.
func (f *Forest) LookupSubtypeIndex(id NodeID) (*SubtypeIndex, bool) {
	idx, ok := f.indices[id]
	return idx, ok
}

// Node returns the indexed node.
func (s *SubtypeIndex) Node() NodeID { return s.node }

// Class returns the indexed class.
func (s *SubtypeIndex) Class() universe.ClassID { return s.forest.Class(s.node) }

// DirectSubtypes returns a copy of the normalized subtype roots.
func (s *SubtypeIndex) DirectSubtypes() []NodeID { return slices.Clone(s.subtypes) }

// AddSubtype registers candidate's subtree as part of the subtype extension.
// Candidates already covered by the indexed node or by a shallower entry are
// ignored; deeper entries covered by candidate are absorbed.
func (s *SubtypeIndex) AddSubtype(candidate NodeID) {
	f := s.forest
	f.checkMutable("AddSubtype")
	cand := f.node(candidate)
	if f.Contains(s.node, cand.class) {
		return
	}
	if len(s.subtypes) == 0 {
		s.subtypes = []NodeID{candidate}
		f.epoch++
		return
	}

	depth := f.depth(candidate)
	merged := make([]NodeID, 0, len(s.subtypes)+1)
	added := false
	for _, other := range s.subtypes {
		otherDepth := f.depth(other)
		switch {
		case otherDepth == depth:
			if other == candidate {
				return
			}
		case otherDepth < depth:
			if f.Contains(other, cand.class) {
				return
			}
		default:
			// every shallower entry has been checked at this point
			if !added {
				merged = append(merged, candidate)
				added = true
			}
			if f.Contains(candidate, f.nodes[other].class) {
				continue
			}
		}
		merged = append(merged, other)
	}
	if !added {
		merged = append(merged, candidate)
	}
	s.subtypes = merged
	f.epoch++
}

// AddImplementor registers a class that implements the indexed class without
// extending it. The model must agree that it does; otherwise it panics.
func (s *SubtypeIndex) AddImplementor(candidate NodeID) {
	f := s.forest
	cls, iface := f.Class(candidate), s.Class()
	if !f.model.ImplementsInterface(cls, iface) {
		panic(fmt.Errorf("hierarchy.AddImplementor: class %d does not implement %d", cls, iface))
	}
	s.AddSubtype(candidate)
}

// SubclassesByMask delegates to the indexed node.
func (s *SubtypeIndex) SubclassesByMask(mask Selector, strict bool) *SubclassIterator {
	return s.forest.SubclassesByMask(s.node, mask, strict)
}

// SubtypesByMask returns a lazy walk over the subclass extension of the
// indexed node followed by the subclass extension of each subtype root.
// Subtype roots are always included when they match mask, since they never
// equal the indexed class.
func (s *SubtypeIndex) SubtypesByMask(mask Selector, strict bool) *SubtypeIterator {
	return &SubtypeIterator{
		head:   s.SubclassesByMask(mask, strict),
		forest: s.forest,
		mask:   mask,
		epoch:  s.forest.epoch,
		roots:  s.subtypes,
	}
}

// HasSubtype reports whether cls belongs to the subtype extension.
func (s *SubtypeIndex) HasSubtype(cls universe.ClassID) bool {
	if s.forest.Contains(s.node, cls) {
		return true
	}
	for _, root := range s.subtypes {
		if s.forest.Contains(root, cls) {
			return true
		}
	}
	return false
}

// LubOfInstantiatedSubtypes returns the tightest class bounding every
// instantiated subtype. Unlike the subclass query, ok is false when no
// branch is instantiated even if subtype roots exist.
func (s *SubtypeIndex) LubOfInstantiatedSubtypes() (cls universe.ClassID, ok bool) {
	if s.lubEpoch != s.forest.epoch {
		s.lub, s.lubOK = s.computeLub()
		s.lubEpoch = s.forest.epoch
	}
	return s.lub, s.lubOK
}

func (s *SubtypeIndex) computeLub() (universe.ClassID, bool) {
	f := s.forest
	self := f.node(s.node)
	if self.state.Has(DirectlyInstantiated) {
		return self.class, true
	}
	if len(s.subtypes) == 0 {
		return f.LubOfInstantiatedSubclasses(s.node)
	}
	candidate := NoNodeID
	if self.state.IsInstantiated() {
		candidate = s.node
	}
	for _, root := range s.subtypes {
		if !f.nodes[root].state.IsInstantiated() {
			continue
		}
		if candidate.IsValid() {
			return self.class, true
		}
		candidate = root
	}
	if !candidate.IsValid() {
		return universe.NoClassID, false
	}
	return f.LubOfInstantiatedSubclasses(candidate)
}

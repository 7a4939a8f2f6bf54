package hierarchy

import (
	"fmt"
)

// Validate checks the structural invariants of the forest and of every
// subtype index. It is meant for tests and debug builds.
func (f *Forest) Validate() error {
	for i := 1; i < len(f.nodes); i++ {
		id := NodeID(i) //nolint:gosec // bounded by arena length
		n := &f.nodes[i]
		if n.state.IsEmpty() {
			return fmt.Errorf("node %d (class %d): empty instantiation state", id, n.class)
		}
		if n.state.Has(Uninstantiated) && n.state.IsInstantiated() {
			return fmt.Errorf("node %d (class %d): state %s mixes uninstantiated with instantiated", id, n.class, n.state)
		}
		seen := make(map[NodeID]struct{}, len(n.children))
		for _, child := range n.children {
			if _, dup := seen[child]; dup {
				return fmt.Errorf("node %d: duplicate child %d", id, child)
			}
			seen[child] = struct{}{}
			c := &f.nodes[child]
			if c.parent != id {
				return fmt.Errorf("node %d: child %d has parent %d", id, child, c.parent)
			}
			if super := f.model.Superclass(c.class); super != n.class {
				return fmt.Errorf("node %d: child class %d has superclass %d", id, c.class, super)
			}
		}
	}
	for id, idx := range f.indices {
		if err := idx.validate(); err != nil {
			return fmt.Errorf("subtype index of node %d: %w", id, err)
		}
	}
	return nil
}

func (s *SubtypeIndex) validate() error {
	f := s.forest
	for i, entry := range s.subtypes {
		if f.Contains(s.node, f.nodes[entry].class) {
			return fmt.Errorf("entry %d is covered by the indexed node", entry)
		}
		if f.Contains(entry, f.nodes[s.node].class) {
			return fmt.Errorf("entry %d contains the indexed node", entry)
		}
		if i > 0 && f.depth(s.subtypes[i-1]) > f.depth(entry) {
			return fmt.Errorf("entries %d and %d are out of depth order", s.subtypes[i-1], entry)
		}
		for j, other := range s.subtypes {
			if i != j && f.Contains(other, f.nodes[entry].class) {
				return fmt.Errorf("entry %d is covered by entry %d", entry, other)
			}
		}
	}
	return nil
}

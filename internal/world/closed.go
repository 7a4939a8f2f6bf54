package world

import (
	"cha/internal/hierarchy"
	"cha/internal/universe"
)

// Closed is the frozen result of a fixpoint. Queries never change the
// hierarchy, but lub queries memoize, so a Closed is not safe for concurrent
// use.
type Closed struct {
	u      *universe.Universe
	forest *hierarchy.Forest
}

// Universe returns the class model the world was built over.
func (c *Closed) Universe() *universe.Universe { return c.u }

// Forest returns the frozen hierarchy. Mutating calls on it panic.
func (c *Closed) Forest() *hierarchy.Forest { return c.forest }

func (c *Closed) node(cls universe.ClassID) hierarchy.NodeID {
	id, ok := c.forest.NodeFor(cls)
	if !ok {
		panic("world: class " + c.u.Name(cls) + " has no hierarchy node")
	}
	return id
}

// IsInstantiated reports whether cls or one of its subclasses is
// instantiated.
func (c *Closed) IsInstantiated(cls universe.ClassID) bool {
	return c.forest.IsInstantiated(c.node(cls))
}

// IsDirectlyInstantiated reports whether cls itself is instantiated.
func (c *Closed) IsDirectlyInstantiated(cls universe.ClassID) bool {
	return c.forest.IsDirectlyInstantiated(c.node(cls))
}

// State returns the instantiation flags of cls.
func (c *Closed) State(cls universe.ClassID) hierarchy.Selector {
	return c.forest.State(c.node(cls))
}

// Subclasses lists the classes in the subclass tree of cls whose state
// matches mask. With strict the class itself is omitted.
func (c *Closed) Subclasses(cls universe.ClassID, mask hierarchy.Selector, strict bool) []universe.ClassID {
	return c.forest.SubclassesByMask(c.node(cls), mask, strict).Collect()
}

// Subtypes lists the subclasses of cls plus the subclass trees of every
// class registered as implementing it.
func (c *Closed) Subtypes(cls universe.ClassID, mask hierarchy.Selector, strict bool) []universe.ClassID {
	id := c.node(cls)
	if idx, ok := c.forest.LookupSubtypeIndex(id); ok {
		return idx.SubtypesByMask(mask, strict).Collect()
	}
	return c.forest.SubclassesByMask(id, mask, strict).Collect()
}

// LubOfInstantiatedSubclasses returns the most specific class that is a
// superclass of every instantiated subclass of cls.
func (c *Closed) LubOfInstantiatedSubclasses(cls universe.ClassID) (universe.ClassID, bool) {
	return c.forest.LubOfInstantiatedSubclasses(c.node(cls))
}

// LubOfInstantiatedSubtypes is the subtype analogue of
// LubOfInstantiatedSubclasses.
func (c *Closed) LubOfInstantiatedSubtypes(cls universe.ClassID) (universe.ClassID, bool) {
	id := c.node(cls)
	if idx, ok := c.forest.LookupSubtypeIndex(id); ok {
		return idx.LubOfInstantiatedSubtypes()
	}
	if !c.forest.IsInstantiated(id) {
		return universe.NoClassID, false
	}
	return c.forest.LubOfInstantiatedSubclasses(id)
}

// HasInstantiatedSubtype reports whether any subtype of cls is instantiated.
func (c *Closed) HasInstantiatedSubtype(cls universe.ClassID) bool {
	_, ok := c.LubOfInstantiatedSubtypes(cls)
	return ok
}

// Monomorphic returns the only directly instantiated subtype of cls, if
// there is exactly one.
func (c *Closed) Monomorphic(cls universe.ClassID) (universe.ClassID, bool) {
	var it hierarchy.Iterator
	id := c.node(cls)
	if idx, ok := c.forest.LookupSubtypeIndex(id); ok {
		it = idx.SubtypesByMask(hierarchy.DirectlyOnly, false)
	} else {
		it = c.forest.SubclassesByMask(id, hierarchy.DirectlyOnly, false)
	}
	first, ok := it.Next()
	if !ok {
		return universe.NoClassID, false
	}
	if _, more := it.Next(); more {
		return universe.NoClassID, false
	}
	return first, true
}

// InstantiatedClasses lists every directly instantiated class in
// depth-first order from the root.
func (c *Closed) InstantiatedClasses() []universe.ClassID {
	return c.forest.SubclassesByMask(c.forest.Root(), hierarchy.DirectlyOnly, false).Collect()
}

package hierarchy

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"cha/internal/universe"
)

// Model is the view of the type universe the index depends on.
type Model interface {
	Superclass(cls universe.ClassID) universe.ClassID
	HierarchyDepth(cls universe.ClassID) int
	ImplementsInterface(cls, iface universe.ClassID) bool
}

// NodeID identifies a node inside a Forest.
type NodeID uint32

const (
	// NoNodeID marks the absence of a node reference.
	NoNodeID NodeID = 0
)

// IsValid reports whether the node ID refers to an allocated node.
func (id NodeID) IsValid() bool { return id != NoNodeID }

// Node is one class in the subclass tree. Its links change only through
// Forest methods.
type Node struct {
	class    universe.ClassID
	parent   NodeID
	children []NodeID
	state    Selector

	lub      universe.ClassID
	lubEpoch uint64
}

// Forest stores hierarchy nodes in a slice arena. Index 0 is reserved for
// NoNodeID.
type Forest struct {
	model   Model
	nodes   []Node
	byClass map[universe.ClassID]NodeID
	indices map[NodeID]*SubtypeIndex
	root    NodeID

	epoch  uint64
	frozen bool
}

// NewForest creates a forest whose root node represents rootClass, which
// must not have a superclass.
func NewForest(model Model, rootClass universe.ClassID) *Forest {
	if model == nil {
		panic("hierarchy.NewForest: nil model")
	}
	if super := model.Superclass(rootClass); super.IsValid() {
		panic(fmt.Errorf("hierarchy.NewForest: root class %d has superclass %d", rootClass, super))
	}
	f := &Forest{
		model:   model,
		nodes:   make([]Node, 1, 64),
		byClass: make(map[universe.ClassID]NodeID, 64),
		indices: make(map[NodeID]*SubtypeIndex),
		epoch:   1,
	}
	f.root = f.NewNode(rootClass)
	return f
}

// Model returns the type universe backing the forest.
func (f *Forest) Model() Model { return f.model }

// Root returns the node of the universal base class.
func (f *Forest) Root() NodeID { return f.root }

// Len reports the number of nodes excluding the sentinel.
func (f *Forest) Len() int { return len(f.nodes) - 1 }

// Epoch returns the mutation counter. It changes on every mutation.
func (f *Forest) Epoch() uint64 { return f.epoch }

// NewNode allocates an unlinked node for cls. Each class gets at most one node.
func (f *Forest) NewNode(cls universe.ClassID) NodeID {
	f.mutate("NewNode")
	if !cls.IsValid() {
		panic("hierarchy.NewNode: invalid class")
	}
	if existing, ok := f.byClass[cls]; ok {
		panic(fmt.Errorf("hierarchy.NewNode: class %d already has node %d", cls, existing))
	}
	value, err := safecast.Conv[uint32](len(f.nodes))
	if err != nil {
		panic(fmt.Errorf("hierarchy arena overflow: %w", err))
	}
	id := NodeID(value)
	f.nodes = append(f.nodes, Node{class: cls, state: Uninstantiated})
	f.byClass[cls] = id
	return id
}

// NodeFor returns the node registered for cls.
func (f *Forest) NodeFor(cls universe.ClassID) (NodeID, bool) {
	id, ok := f.byClass[cls]
	return id, ok
}

func (f *Forest) node(id NodeID) *Node {
	if !id.IsValid() || int(id) >= len(f.nodes) {
		panic(fmt.Errorf("hierarchy: invalid node %d", id))
	}
	return &f.nodes[id]
}

// Parent returns the node of the direct superclass, or NoNodeID for the root
// and for nodes not linked yet.
func (f *Forest) Parent(id NodeID) NodeID { return f.node(id).parent }

// Class returns the class of the node.
func (f *Forest) Class(id NodeID) universe.ClassID { return f.node(id).class }

// Children returns a copy of the direct subclass nodes in insertion order.
func (f *Forest) Children(id NodeID) []NodeID { return slices.Clone(f.node(id).children) }

// AddDirectSubclass links child under parent. The child's class must have
// parent's class as its superclass and must not be linked already; violating
// either is a programming error and panics.
func (f *Forest) AddDirectSubclass(parent, child NodeID) {
	f.mutate("AddDirectSubclass")
	p, c := f.node(parent), f.node(child)
	if super := f.model.Superclass(c.class); super != p.class {
		panic(fmt.Errorf("hierarchy.AddDirectSubclass: class %d has superclass %d, not %d", c.class, super, p.class))
	}
	if c.parent.IsValid() || slices.Contains(p.children, child) {
		panic(fmt.Errorf("hierarchy.AddDirectSubclass: class %d is already linked", c.class))
	}
	p.children = append(p.children, child)
	c.parent = parent
}

// Contains reports whether other is the node's class or one of its
// subclasses. It walks other's superclass chain and stops as soon as the
// candidate is no deeper than the node's class.
func (f *Forest) Contains(id NodeID, other universe.ClassID) bool {
	cls := f.node(id).class
	depth := f.model.HierarchyDepth(cls)
	for c := other; c.IsValid(); c = f.model.Superclass(c) {
		if c == cls {
			return true
		}
		if depth >= f.model.HierarchyDepth(c) {
			return false
		}
	}
	return false
}

func (f *Forest) depth(id NodeID) int {
	return f.model.HierarchyDepth(f.node(id).class)
}

// State returns the instantiation selector of the node.
func (f *Forest) State(id NodeID) Selector { return f.node(id).state }

// IsInstantiated reports whether the node is directly or indirectly instantiated.
func (f *Forest) IsInstantiated(id NodeID) bool { return f.node(id).state.IsInstantiated() }

// IsDirectlyInstantiated reports whether program code constructs the class.
func (f *Forest) IsDirectlyInstantiated(id NodeID) bool {
	return f.node(id).state.Has(DirectlyInstantiated)
}

// IsIndirectlyInstantiated reports whether some subclass is instantiated.
func (f *Forest) IsIndirectlyInstantiated(id NodeID) bool {
	return f.node(id).state.Has(IndirectlyInstantiated)
}

// SetDirectlyInstantiated sets or clears the direct flag.
func (f *Forest) SetDirectlyInstantiated(id NodeID, on bool) {
	f.setState(id, DirectlyInstantiated, on, "SetDirectlyInstantiated")
}

// SetIndirectlyInstantiated sets or clears the indirect flag. Both flags may
// be set at the same time.
func (f *Forest) SetIndirectlyInstantiated(id NodeID, on bool) {
	f.setState(id, IndirectlyInstantiated, on, "SetIndirectlyInstantiated")
}

func (f *Forest) setState(id NodeID, flag Selector, on bool, op string) {
	f.checkMutable(op)
	n := f.node(id)
	next := n.state.withInstantiation(flag, on)
	if next == n.state {
		return
	}
	n.state = next
	f.epoch++
}

// LubOfInstantiatedSubclasses returns the tightest class that bounds every
// instantiated class in the node's subtree. ok is false when the node is not
// instantiated at all.
func (f *Forest) LubOfInstantiatedSubclasses(id NodeID) (cls universe.ClassID, ok bool) {
	n := f.node(id)
	if !n.state.IsInstantiated() {
		return universe.NoClassID, false
	}
	if n.lubEpoch != f.epoch {
		n.lub = f.computeSubclassLub(id)
		n.lubEpoch = f.epoch
	}
	return n.lub, true
}

func (f *Forest) computeSubclassLub(id NodeID) universe.ClassID {
	n := f.node(id)
	if n.state.Has(DirectlyInstantiated) {
		return n.class
	}
	single := NoNodeID
	for _, child := range n.children {
		if !f.nodes[child].state.IsInstantiated() {
			continue
		}
		if single.IsValid() {
			return n.class
		}
		single = child
	}
	if single.IsValid() {
		lub, _ := f.LubOfInstantiatedSubclasses(single)
		return lub
	}
	// indirect flag without an instantiated child
	return n.class
}

// Freeze seals the forest. Any later mutation panics.
func (f *Forest) Freeze() { f.frozen = true }

// Frozen reports whether Freeze was called.
func (f *Forest) Frozen() bool { return f.frozen }

func (f *Forest) checkMutable(op string) {
	if f.frozen {
		panic(fmt.Errorf("hierarchy.%s: forest is frozen", op))
	}
}

// mutate checks mutability and invalidates memoized results and live iterators.
func (f *Forest) mutate(op string) {
	f.checkMutable(op)
	f.epoch++
}

func (f *Forest) checkEpoch(epoch uint64) {
	if epoch != f.epoch {
		panic("hierarchy: forest mutated during iteration")
	}
}

package universe

import (
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// RootName is the name of the implicit universal base class.
const RootName = "Object"

var (
	// ErrUnknownClass is returned when a name does not resolve to a declared class.
	ErrUnknownClass = errors.New("unknown class")
	// ErrCycle is returned when superclass links form a cycle.
	ErrCycle = errors.New("cyclic class hierarchy")
	// ErrDuplicateClass is returned when a name is declared twice.
	ErrDuplicateClass = errors.New("duplicate class")
)

// ClassFlags describes declaration modifiers.
type ClassFlags uint8

const (
	// FlagAbstract marks classes that cannot be constructed directly.
	FlagAbstract ClassFlags = 1 << iota
	// FlagInterface marks pure interfaces. Interfaces are abstract.
	FlagInterface
)

// Has reports whether all bits in f are set.
func (c ClassFlags) Has(f ClassFlags) bool { return c&f == f }

// Decl is an unresolved class declaration as read from a manifest.
type Decl struct {
	Name         string
	Super        string // empty means RootName
	Implements   []string
	Instantiates []string
	Flags        ClassFlags
}

// ClassInfo stores resolved metadata for a class.
type ClassInfo struct {
	Name         string
	Super        ClassID
	Interfaces   []ClassID
	Instantiates []ClassID
	Flags        ClassFlags
	Depth        int
}

// Universe is the arena of declared classes. Index 0 is the NoClassID sentinel
// and index 1 is always the root class.
type Universe struct {
	classes []ClassInfo
	byName  map[string]ClassID
	root    ClassID
}

// New creates a universe holding only the root class.
func New() *Universe {
	u := &Universe{
		classes: make([]ClassInfo, 1, 32),
		byName:  make(map[string]ClassID, 32),
	}
	u.root = u.alloc(ClassInfo{Name: RootName})
	return u
}

// Normalize returns the canonical spelling of a class name.
func Normalize(name string) string {
	return norm.NFC.String(name)
}

func (u *Universe) alloc(info ClassInfo) ClassID {
	value, err := safecast.Conv[uint32](len(u.classes))
	if err != nil {
		panic(fmt.Errorf("universe arena overflow: %w", err))
	}
	id := ClassID(value)
	u.classes = append(u.classes, info)
	u.byName[info.Name] = id
	return id
}

// Root returns the universal base class.
func (u *Universe) Root() ClassID { return u.root }

// Len reports the number of declared classes including the root.
func (u *Universe) Len() int { return len(u.classes) - 1 }

// Classes returns all class IDs in declaration order.
func (u *Universe) Classes() []ClassID {
	out := make([]ClassID, 0, u.Len())
	for i := 1; i < len(u.classes); i++ {
		out = append(out, ClassID(i)) //nolint:gosec // bounded by alloc
	}
	return out
}

// Info returns the metadata pointer or nil if the ID is invalid.
func (u *Universe) Info(id ClassID) *ClassInfo {
	if !id.IsValid() || int(id) >= len(u.classes) {
		return nil
	}
	return &u.classes[id]
}

// Name returns the class name, or "<invalid>" for unknown IDs.
func (u *Universe) Name(id ClassID) string {
	if info := u.Info(id); info != nil {
		return info.Name
	}
	return "<invalid>"
}

// Lookup resolves a class by name.
func (u *Universe) Lookup(name string) (ClassID, bool) {
	id, ok := u.byName[Normalize(name)]
	return id, ok
}

// MustLookup panics when the name is unknown.
func (u *Universe) MustLookup(name string) ClassID {
	id, ok := u.Lookup(name)
	if !ok {
		panic(fmt.Errorf("%w: %q", ErrUnknownClass, name))
	}
	return id
}

// Superclass returns the direct superclass or NoClassID for the root.
func (u *Universe) Superclass(id ClassID) ClassID {
	if info := u.Info(id); info != nil {
		return info.Super
	}
	return NoClassID
}

// HierarchyDepth returns the length of the superclass chain up to the root.
func (u *Universe) HierarchyDepth(id ClassID) int {
	if info := u.Info(id); info != nil {
		return info.Depth
	}
	return 0
}

// IsAbstract reports whether the class cannot be constructed directly.
func (u *Universe) IsAbstract(id ClassID) bool {
	info := u.Info(id)
	return info != nil && (info.Flags.Has(FlagAbstract) || info.Flags.Has(FlagInterface))
}

// IsInterface reports whether the class is declared as an interface.
func (u *Universe) IsInterface(id ClassID) bool {
	info := u.Info(id)
	return info != nil && info.Flags.Has(FlagInterface)
}

// IsSubclassOf reports whether sub equals sup or inherits from it.
func (u *Universe) IsSubclassOf(sub, sup ClassID) bool {
	for c := sub; c.IsValid(); c = u.Superclass(c) {
		if c == sup {
			return true
		}
	}
	return false
}

// ImplementsInterface reports whether cls implements iface through its own
// declarations, its superclasses, or the superinterfaces of those.
func (u *Universe) ImplementsInterface(cls, iface ClassID) bool {
	if !cls.IsValid() || !iface.IsValid() {
		return false
	}
	return slices.Contains(u.AllInterfaces(cls), iface)
}

// AllInterfaces returns every interface cls implements, transitively, in
// discovery order without duplicates.
func (u *Universe) AllInterfaces(cls ClassID) []ClassID {
	var out []ClassID
	seen := make(map[ClassID]struct{})
	var visit func(ClassID)
	visit = func(id ClassID) {
		for c := id; c.IsValid(); c = u.Superclass(c) {
			info := u.Info(c)
			for _, iface := range info.Interfaces {
				if _, ok := seen[iface]; ok {
					continue
				}
				seen[iface] = struct{}{}
				out = append(out, iface)
				visit(iface)
			}
		}
	}
	visit(cls)
	return out
}

package hierarchy

import (
	"fmt"
	"strings"
)

// Selector is a subset of {Uninstantiated, DirectlyInstantiated,
// IndirectlyInstantiated}. It is used both as per-node state and as a query
// filter.
type Selector uint8

const (
	// Uninstantiated marks classes with no known instances.
	Uninstantiated Selector = 1 << iota
	// DirectlyInstantiated marks classes constructed by program code.
	DirectlyInstantiated
	// IndirectlyInstantiated marks classes with an instantiated subclass.
	IndirectlyInstantiated
)

const (
	// Instantiated selects directly or indirectly instantiated classes.
	Instantiated = DirectlyInstantiated | IndirectlyInstantiated
	// DirectlyOnly selects only directly instantiated classes.
	DirectlyOnly = DirectlyInstantiated
	// All selects every class.
	All = Uninstantiated | Instantiated
)

// MakeSelector builds a selector from inclusion flags. MakeSelector(true,
// true, true) equals All.
func MakeSelector(includeDirectlyInstantiated, includeIndirectlyInstantiated, includeUninstantiated bool) Selector {
	var s Selector
	if includeDirectlyInstantiated {
		s |= DirectlyInstantiated
	}
	if includeIndirectlyInstantiated {
		s |= IndirectlyInstantiated
	}
	if includeUninstantiated {
		s |= Uninstantiated
	}
	return s
}

// Has reports whether every bit of flag is present.
func (s Selector) Has(flag Selector) bool { return s&flag == flag }

// Union returns the members of either selector.
func (s Selector) Union(other Selector) Selector { return s | other }

// With returns a copy of s with flag added or removed.
func (s Selector) With(flag Selector, on bool) Selector {
	if on {
		return s | flag
	}
	return s &^ flag
}

// Intersects reports whether s and other share at least one member.
func (s Selector) Intersects(other Selector) bool { return s&other != 0 }

// IsEmpty reports whether the selector has no members.
func (s Selector) IsEmpty() bool { return s&All == 0 }

// IsInstantiated reports whether s contains either instantiation flag.
func (s Selector) IsInstantiated() bool { return s.Intersects(Instantiated) }

// withInstantiation sets or clears one of the instantiation flags and keeps
// Uninstantiated consistent: it is dropped when a flag is set and restored
// only when no flag remains.
func (s Selector) withInstantiation(flag Selector, on bool) Selector {
	s = s.With(flag, on)
	if on {
		return s &^ Uninstantiated
	}
	if !s.IsInstantiated() {
		s |= Uninstantiated
	}
	return s
}

var selectorNames = [...]struct {
	flag Selector
	name string
}{
	{Uninstantiated, "uninstantiated"},
	{DirectlyInstantiated, "direct"},
	{IndirectlyInstantiated, "indirect"},
}

func (s Selector) String() string {
	var parts []string
	for _, n := range selectorNames {
		if s.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return "{" + strings.Join(parts, "|") + "}"
}

// ParseSelector accepts a comma or pipe separated list of
// all|instantiated|direct|indirect|uninstantiated.
func ParseSelector(value string) (Selector, error) {
	var s Selector
	fields := strings.FieldsFunc(strings.ToLower(value), func(r rune) bool {
		return r == ',' || r == '|' || r == ' '
	})
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty selector")
	}
	for _, f := range fields {
		switch f {
		case "all":
			s |= All
		case "instantiated":
			s |= Instantiated
		case "direct", "directly":
			s |= DirectlyInstantiated
		case "indirect", "indirectly":
			s |= IndirectlyInstantiated
		case "uninstantiated", "none":
			s |= Uninstantiated
		default:
			return 0, fmt.Errorf("invalid selector %q (expected: all|instantiated|direct|indirect|uninstantiated)", f)
		}
	}
	return s, nil
}

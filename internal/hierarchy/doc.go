// Package hierarchy implements the class-hierarchy-analysis index queried by
// the whole-program driver while it discovers instantiated classes.
//
// # Data model
//
// A Forest is an arena of nodes addressed by NodeID, one node per class. Each
// node owns the ordered list of its direct subclasses, which makes the arena
// a tree rooted at the universal base class. Every node carries a Selector
// recording whether the class is uninstantiated, directly instantiated
// (constructed by program code), indirectly instantiated (some subclass is
// constructed), or both of the latter.
//
// A SubtypeIndex is created lazily per class that needs subtype (not just
// subclass) queries. It keeps a normalized list of extra subtype roots:
// sorted by hierarchy depth, none covered by another entry and none covered
// by the indexed class's own subtree.
//
// # Queries
//
//   - SubclassesByMask / SubtypesByMask: lazy pre-order producers filtered by
//     a Selector. A selector without Uninstantiated prunes whole subtrees
//     below uninstantiated nodes.
//   - LubOfInstantiatedSubclasses / LubOfInstantiatedSubtypes: the tightest
//     class bounding every instantiated subclass or subtype.
//   - Contains / HasSubtype: extension membership.
//
// # Mutation contract
//
// The forest is single-threaded. Every mutation advances a forest-wide
// epoch: memoized lub results computed under an older epoch are recomputed,
// and an iterator created under an older epoch panics on its next step.
// Freeze seals the forest once the fixpoint is done; mutation afterwards
// panics.
package hierarchy

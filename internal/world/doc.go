// Package world runs the instantiation fixpoint of a program described by a
// class universe and exposes the resulting closed hierarchy for queries.
package world

package trace

import "time"

// Kind tells span boundaries from instant events.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
)

var kindNames = [...]string{KindBegin: "begin", KindEnd: "end", KindPoint: "point"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	// ScopeDriver covers one CLI session.
	ScopeDriver Scope = iota + 1
	// ScopePass covers the fixpoint and closing the world.
	ScopePass
	// ScopeClass covers per-class events such as instantiation.
	ScopeClass
	// ScopeNode covers subtype index mutations.
	ScopeNode
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopePass: "pass", ScopeClass: "class", ScopeNode: "node"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Subject names the class an event is about. Super is set for subtype
// registrations and names the interface gaining Class as a subtype root.
type Subject struct {
	Class string
	Super string
	Node  uint32
}

// Count is a named total reported when a span ends.
type Count struct {
	Name  string
	Value int
}

// Event is one recorded step of the analysis.
type Event struct {
	Seq     uint64
	Time    time.Time
	Kind    Kind
	Scope   Scope
	Span    uint64 // set on begin/end events
	Parent  uint64
	Op      string
	Subject Subject
	Elapsed time.Duration // end events only
	Counts  []Count       // end events only
	Err     string
}

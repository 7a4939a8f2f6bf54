package trace

import (
	"context"
	"time"
)

// Span is an open pass or session. A nil *Span ignores every call.
type Span struct {
	log     *Log
	id      uint64
	parent  uint64
	scope   Scope
	op      string
	started time.Time
	counts  []Count
}

// Begin opens a span under the span carried by ctx and returns a context
// carrying the new one. When the log does not record scope, the span is nil
// and ctx is returned unchanged.
func Begin(ctx context.Context, scope Scope, op string) (context.Context, *Span) {
	l := FromContext(ctx)
	if !l.Records(scope) {
		return ctx, nil
	}
	s := &Span{
		log:     l,
		id:      l.spans.Add(1),
		parent:  CurrentSpan(ctx),
		scope:   scope,
		op:      op,
		started: time.Now(),
	}
	l.record(Event{Time: s.started, Kind: KindBegin, Scope: scope, Span: s.id, Parent: s.parent, Op: op})
	return context.WithValue(ctx, spanKey{}, s.id), s
}

// Count attaches a total to the end event.
func (s *Span) Count(name string, value int) *Span {
	if s != nil {
		s.counts = append(s.counts, Count{Name: name, Value: value})
	}
	return s
}

// End closes the span; a non-nil err is recorded with it.
func (s *Span) End(err error) {
	if s == nil {
		return
	}
	ev := Event{
		Kind:    KindEnd,
		Scope:   s.scope,
		Span:    s.id,
		Parent:  s.parent,
		Op:      s.op,
		Elapsed: time.Since(s.started),
		Counts:  s.counts,
	}
	if err != nil {
		ev.Err = err.Error()
	}
	s.log.record(ev)
}

// ID returns the span identifier, 0 for a nil span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point records an instant event about subj under the current span.
func Point(ctx context.Context, scope Scope, op string, subj Subject) {
	l := FromContext(ctx)
	if !l.Records(scope) {
		return
	}
	l.record(Event{Kind: KindPoint, Scope: scope, Parent: CurrentSpan(ctx), Op: op, Subject: subj})
}

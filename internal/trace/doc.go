// Package trace records what the analysis driver does: pass boundaries,
// instantiations and subtype registrations, each tagged with the class and
// hierarchy node it concerns.
//
// A *Log either streams events as they happen, keeps the most recent ones in
// a ring for a post-mortem dump, or both. A nil *Log records nothing, so
// callers never check for a disabled log.
//
//	log, err := trace.New(trace.Config{Level: trace.LevelDetail, Mode: trace.ModeStream, Path: "-"})
//	ctx = trace.WithLog(ctx, log)
//
//	ctx, span := trace.Begin(ctx, trace.ScopePass, "fixpoint")
//	trace.Point(ctx, trace.ScopeClass, "instantiate", trace.Subject{Class: "Circle", Node: 3})
//	span.Count("steps", 12).End(nil)
package trace

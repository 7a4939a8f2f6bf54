// Package diag defines the diagnostic model shared by the manifest loader and
// the world builder.
//
// A Diagnostic records a severity, a stable numeric Code, a short message and
// the Subject it is about: the manifest file and, when known, the class.
// Producers emit through a Reporter; BagReporter collects into a bounded Bag
// that supports deterministic sorting and deduplication. Formatting for the
// terminal lives in cmd/cha; FormatGolden renders the compact line form used
// by tests.
package diag

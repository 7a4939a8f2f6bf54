package diag

import (
	"fmt"
	"sort"
	"strings"
)

// Bag collects diagnostics up to a limit. Severity counts include
// diagnostics dropped by the limit.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
	counts  map[Severity]int
}

// NewBag creates a bag holding at most max diagnostics (0 means unlimited).
func NewBag(max int) *Bag {
	return &Bag{max: max, counts: make(map[Severity]int)}
}

// Add appends a diagnostic unless the limit is reached.
// It returns false when the diagnostic was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	b.counts[d.Severity]++
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether any error was added, kept or not.
func (b *Bag) HasErrors() bool {
	return b.counts[SevError] > 0
}

// Count returns how many diagnostics of sev were added, including those
// dropped by the limit.
func (b *Bag) Count(sev Severity) int {
	return b.counts[sev]
}

// Dropped returns how many diagnostics the limit discarded.
func (b *Bag) Dropped() int {
	return b.dropped
}

// Len returns the number of stored diagnostics.
func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the backing slice. Callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends all diagnostics from other, growing the limit if needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if b.max > 0 && len(b.items)+len(other.items) > b.max {
		b.max = len(b.items) + len(other.items)
	}
	b.items = append(b.items, other.items...)
	b.dropped += other.dropped
	for sev, n := range other.counts {
		b.counts[sev] += n
	}
}

// Sort orders by file, class, severity (desc) and code for deterministic output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Subject.File != dj.Subject.File {
			return di.Subject.File < dj.Subject.File
		}
		if di.Subject.Class != dj.Subject.Class {
			return di.Subject.Class < dj.Subject.Class
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup drops diagnostics repeating an earlier Code+Subject pair.
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	items := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s", d.Code.ID(), d.Subject)
		if seen[key] {
			b.counts[d.Severity]--
			continue
		}
		seen[key] = true
		items = append(items, d)
	}
	b.items = items
}

// FormatGolden renders one line per diagnostic and note:
//
//	error WLD2003 demo.toml:Shape abstract class "Shape" is instantiated
func FormatGolden(diags []Diagnostic) string {
	var sb strings.Builder
	for i, d := range diags {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s %s %s %s", d.Severity.Label(), d.Code.ID(), d.Subject, oneLine(d.Message))
		for _, n := range d.Notes {
			fmt.Fprintf(&sb, "\nnote %s %s %s", d.Code.ID(), n.Subject, oneLine(n.Msg))
		}
	}
	return sb.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

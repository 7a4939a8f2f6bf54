package diag

import (
	"fmt"
	"strings"
)

// Severity orders diagnostics from informational to fatal.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevInfo:    "info",
	SevWarning: "warning",
	SevError:   "error",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return strings.ToUpper(severityNames[s])
	}
	return "UNKNOWN"
}

// Label is the lower-case name used in rendered output.
func (s Severity) Label() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "unknown"
}

// ParseSeverity accepts the lower- or upper-case label of a severity.
func ParseSeverity(s string) (Severity, error) {
	for sev, name := range severityNames {
		if strings.EqualFold(s, name) {
			return Severity(sev), nil
		}
	}
	return SevInfo, fmt.Errorf("invalid severity %q (expected: info|warning|error)", s)
}

// Filter drops diagnostics below min.
func (b *Bag) Filter(min Severity) {
	items := b.items[:0]
	for _, d := range b.items {
		if d.Severity >= min {
			items = append(items, d)
		}
	}
	b.items = items
}

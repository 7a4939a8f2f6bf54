package observ

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * step)
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	load := tm.Begin("load")
	tm.End(load, "2 manifests")
	if err := tm.Measure("fixpoint", func() error { return errors.New("boom") }); err == nil {
		t.Fatalf("Measure must return the callback error")
	}
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(r.Phases))
	}
	if r.Phases[0].DurationMS != 2 || r.Phases[0].Note != "2 manifests" {
		t.Fatalf("unexpected first phase %+v", r.Phases[0])
	}
	if r.Phases[1].Note != "failed" {
		t.Fatalf("failed phase must be noted, got %+v", r.Phases[1])
	}
	if r.TotalMS != 4 {
		t.Fatalf("total = %v, want 4", r.TotalMS)
	}
}

func TestSummaryAlignsNames(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)
	tm.End(tm.Begin("load"), "")
	tm.End(tm.Begin("索引"), "")
	tm.End(tm.Begin("fixpoint"), "")

	lines := strings.Split(strings.TrimRight(tm.Summary(), "\n"), "\n")
	if lines[0] != "timings:" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	want := []string{
		"  load        1.00 ms",
		"  索引        1.00 ms",
		"  fixpoint    1.00 ms",
		"  total       3.00 ms",
	}
	for i, w := range want {
		if lines[i+1] != w {
			t.Fatalf("line %d = %q, want %q", i+1, lines[i+1], w)
		}
	}
}

func TestEmptyReport(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("empty timer must report nothing, got %+v", r)
	}
}

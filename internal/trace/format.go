package trace

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// appendEvent encodes ev as one line.
func appendEvent(buf []byte, ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return appendJSON(buf, ev)
	}
	return appendText(buf, ev)
}

// appendText renders
//
//	[seq] begin pass fixpoint
//	[seq]   point class instantiate Circle #3
//	[seq]   point node add-subtype Circle <: Drawable #3
//	[seq] end pass fixpoint 1.2ms instantiated=3 steps=4
func appendText(buf []byte, ev *Event) []byte {
	buf = fmt.Appendf(buf, "[%6d] ", ev.Seq)
	if ev.Parent != 0 {
		buf = append(buf, "  "...)
	}
	buf = append(buf, ev.Kind.String()...)
	buf = append(buf, ' ')
	buf = append(buf, ev.Scope.String()...)
	buf = append(buf, ' ')
	buf = append(buf, ev.Op...)
	if s := ev.Subject; s.Class != "" {
		buf = append(buf, ' ')
		buf = append(buf, s.Class...)
		if s.Super != "" {
			buf = append(buf, " <: "...)
			buf = append(buf, s.Super...)
		}
		if s.Node != 0 {
			buf = append(buf, " #"...)
			buf = strconv.AppendUint(buf, uint64(s.Node), 10)
		}
	}
	if ev.Kind == KindEnd {
		buf = append(buf, ' ')
		buf = append(buf, ev.Elapsed.Round(time.Microsecond).String()...)
	}
	for _, c := range ev.Counts {
		buf = fmt.Appendf(buf, " %s=%d", c.Name, c.Value)
	}
	if ev.Err != "" {
		buf = append(buf, " error: "...)
		buf = append(buf, ev.Err...)
	}
	return append(buf, '\n')
}

type jsonEvent struct {
	Seq       uint64         `json:"seq"`
	Time      string         `json:"time"`
	Kind      string         `json:"kind"`
	Scope     string         `json:"scope"`
	Span      uint64         `json:"span,omitempty"`
	Parent    uint64         `json:"parent,omitempty"`
	Op        string         `json:"op"`
	Class     string         `json:"class,omitempty"`
	Super     string         `json:"super,omitempty"`
	Node      uint32         `json:"node,omitempty"`
	ElapsedUS int64          `json:"elapsed_us,omitempty"`
	Counts    map[string]int `json:"counts,omitempty"`
	Err       string         `json:"error,omitempty"`
}

func appendJSON(buf []byte, ev *Event) []byte {
	j := jsonEvent{
		Seq:       ev.Seq,
		Time:      ev.Time.Format(time.RFC3339Nano),
		Kind:      ev.Kind.String(),
		Scope:     ev.Scope.String(),
		Span:      ev.Span,
		Parent:    ev.Parent,
		Op:        ev.Op,
		Class:     ev.Subject.Class,
		Super:     ev.Subject.Super,
		Node:      ev.Subject.Node,
		ElapsedUS: ev.Elapsed.Microseconds(),
		Err:       ev.Err,
	}
	if len(ev.Counts) > 0 {
		j.Counts = make(map[string]int, len(ev.Counts))
		for _, c := range ev.Counts {
			j.Counts[c.Name] = c.Value
		}
	}
	// jsonEvent has no types Marshal can reject
	data, _ := json.Marshal(j)
	buf = append(buf, data...)
	return append(buf, '\n')
}

package trace

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Level selects which scopes are recorded.
type Level uint8

const (
	LevelOff    Level = iota
	LevelPhase        // driver and pass spans
	LevelDetail       // plus instantiations
	LevelDebug        // plus subtype index mutations
)

var levelNames = [...]string{LevelOff: "off", LevelPhase: "phase", LevelDetail: "detail", LevelDebug: "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// Records reports whether events of scope are kept at this level.
func (l Level) Records(scope Scope) bool {
	return l != LevelOff && scope != 0 && int(scope) <= int(l)+1
}

// ParseLevel accepts a level name in any case; the empty string means off.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelOff, nil
	}
	for l, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|phase|detail|debug)", s)
}

// Mode selects where events go.
type Mode uint8

const (
	ModeStream Mode = iota + 1 // written as they happen
	ModeRing                   // kept in memory for Dump
	ModeBoth
)

// ParseMode accepts stream, ring or both.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "stream":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	case "both":
		return ModeBoth, nil
	}
	return ModeStream, fmt.Errorf("invalid trace mode: %q (expected: stream|ring|both)", s)
}

// Format is the encoding of streamed events.
type Format uint8

const (
	FormatAuto Format = iota
	FormatText
	FormatNDJSON
)

// ParseFormat accepts auto, text, ndjson or json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// formatFor resolves FormatAuto from the output file extension.
func formatFor(f Format, path string) Format {
	if f != FormatAuto {
		return f
	}
	switch filepath.Ext(path) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	}
	return FormatText
}

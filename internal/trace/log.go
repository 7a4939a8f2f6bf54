package trace

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

const defaultRingSize = 4096

// Config describes a Log.
type Config struct {
	Level    Level
	Mode     Mode
	Format   Format
	Output   io.Writer // stream target; Path is used when nil
	Path     string    // "" or "-" for stderr
	RingSize int
}

// Log records events for one run of the analysis. It is safe for concurrent
// use; every method is a no-op on a nil *Log.
type Log struct {
	level  Level
	format Format
	spans  atomic.Uint64

	mu     sync.Mutex
	seq    uint64
	w      io.Writer
	closer io.Closer
	ring   []Event
	head   int
	full   bool
}

// New builds a Log from cfg. It returns nil for LevelOff.
func New(cfg Config) (*Log, error) {
	if cfg.Level == LevelOff {
		return nil, nil
	}
	l := &Log{level: cfg.Level, format: formatFor(cfg.Format, cfg.Path)}
	switch cfg.Mode {
	case ModeStream, ModeBoth:
		if err := l.open(cfg); err != nil {
			return nil, err
		}
	case ModeRing:
	default:
		return nil, fmt.Errorf("unknown trace mode: %d", cfg.Mode)
	}
	if cfg.Mode == ModeRing || cfg.Mode == ModeBoth {
		size := cfg.RingSize
		if size <= 0 {
			size = defaultRingSize
		}
		l.ring = make([]Event, size)
	}
	return l, nil
}

func (l *Log) open(cfg Config) error {
	switch {
	case cfg.Output != nil:
		l.w = cfg.Output
	case cfg.Path == "" || cfg.Path == "-":
		l.w = os.Stderr
	default:
		f, err := os.Create(cfg.Path)
		if err != nil {
			return fmt.Errorf("failed to open trace output: %w", err)
		}
		l.w, l.closer = f, f
	}
	return nil
}

// Level returns the configured level, LevelOff for a nil Log.
func (l *Log) Level() Level {
	if l == nil {
		return LevelOff
	}
	return l.level
}

// Records reports whether events of scope would be kept.
func (l *Log) Records(scope Scope) bool {
	return l.Level().Records(scope)
}

func (l *Log) record(ev Event) {
	if !l.Records(ev.Scope) {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	ev.Seq = l.seq
	if l.w != nil {
		// a failing trace sink must not fail the analysis
		_, _ = l.w.Write(appendEvent(nil, &ev, l.format))
	}
	if l.ring != nil {
		l.ring[l.head] = ev
		l.head = (l.head + 1) % len(l.ring)
		l.full = l.full || l.head == 0
	}
}

// Recent returns the events held in the ring, oldest first.
func (l *Log) Recent() []Event {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ring == nil {
		return nil
	}
	if !l.full {
		return append([]Event(nil), l.ring[:l.head]...)
	}
	out := make([]Event, 0, len(l.ring))
	out = append(out, l.ring[l.head:]...)
	return append(out, l.ring[:l.head]...)
}

// Dump writes the ring contents as text. It reports whether a ring exists.
func (l *Log) Dump(w io.Writer) (bool, error) {
	if l == nil || l.ring == nil {
		return false, nil
	}
	var buf []byte
	for _, ev := range l.Recent() {
		buf = appendEvent(buf, &ev, FormatText)
	}
	_, err := w.Write(buf)
	return true, err
}

// Close releases the output file, if the Log opened one.
func (l *Log) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.w, l.closer = nil, nil
	return err
}

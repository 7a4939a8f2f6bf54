package trace

import "context"

type (
	logKey  struct{}
	spanKey struct{}
)

// WithLog attaches l to ctx. A nil l disables recording for ctx.
func WithLog(ctx context.Context, l *Log) context.Context {
	return context.WithValue(ctx, logKey{}, l)
}

// FromContext returns the Log attached to ctx, or nil.
func FromContext(ctx context.Context) *Log {
	if ctx == nil {
		return nil
	}
	l, _ := ctx.Value(logKey{}).(*Log)
	return l
}

// CurrentSpan returns the ID of the innermost span opened on ctx, or 0.
func CurrentSpan(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}

package agent

import "context"

// TraceRecorder lets tool dispatch record spans without importing the
// tracing package.
type TraceRecorder interface {
	// StartSpan begins a timed span; call End() on the returned handle.
	StartSpan(name string) SpanHandle
	// RecordEvent records an instantaneous (zero-duration) event.
	RecordEvent(name string, metadata map[string]any)
}

// SpanHandle is a timed span that accumulates metadata.
type SpanHandle interface {
	Set(key string, value any) SpanHandle
	End()
}

type traceRecorderKey struct{}

// WithTraceRecorder stores a TraceRecorder in the context.
func WithTraceRecorder(ctx context.Context, tr TraceRecorder) context.Context {
	return context.WithValue(ctx, traceRecorderKey{}, tr)
}

// TraceFromContext extracts the TraceRecorder, or nil.
func TraceFromContext(ctx context.Context) TraceRecorder {
	tr, _ := ctx.Value(traceRecorderKey{}).(TraceRecorder)
	return tr
}

// StartSpan starts a span on the context's recorder. Without a recorder it
// returns a span that discards everything.
func StartSpan(ctx context.Context, name string) SpanHandle {
	if tr := TraceFromContext(ctx); tr != nil {
		return tr.StartSpan(name)
	}
	return noopSpan{}
}

type noopSpan struct{}

func (s noopSpan) Set(string, any) SpanHandle { return s }
func (noopSpan) End()                         {}

// Package tracing records timed spans for the tool calls made while serving
// one request against a thread.
package tracing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/priyank1574q/agent-vinod/agent"
)

// Span is one timed step of a trace. Events have equal start and end times.
type Span struct {
	Name       string         `json:"name"`
	StartTime  time.Time      `json:"start_time"`
	EndTime    time.Time      `json:"end_time"`
	DurationMs float64        `json:"duration_ms"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Trace collects the spans of a single Call or Turn on a thread. It is safe
// for the concurrent read-only calls of a turn.
type Trace struct {
	mu         sync.Mutex `json:"-"`
	TraceID    string     `json:"trace_id"`
	ThreadID   string     `json:"thread_id"`
	Method     string     `json:"method"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    time.Time  `json:"end_time"`
	DurationMs float64    `json:"duration_ms"`
	Spans      []Span     `json:"spans"`
	Error      string     `json:"error,omitempty"`
}

var _ agent.TraceRecorder = (*Trace)(nil)

// NewTrace starts a trace for method on threadID.
func NewTrace(threadID, method string) *Trace {
	return &Trace{
		TraceID:   uuid.NewString(),
		ThreadID:  threadID,
		Method:    method,
		StartTime: time.Now(),
		Spans:     []Span{},
	}
}

type spanBuilder struct {
	trace *Trace
	span  Span
}

var _ agent.SpanHandle = (*spanBuilder)(nil)

func (t *Trace) StartSpan(name string) agent.SpanHandle {
	return &spanBuilder{
		trace: t,
		span:  Span{Name: name, StartTime: time.Now(), Metadata: map[string]any{}},
	}
}

func (t *Trace) RecordEvent(name string, metadata map[string]any) {
	now := time.Now()
	t.append(Span{Name: name, StartTime: now, EndTime: now, Metadata: metadata})
}

func (b *spanBuilder) Set(key string, value any) agent.SpanHandle {
	b.span.Metadata[key] = value
	return b
}

func (b *spanBuilder) End() {
	b.span.EndTime = time.Now()
	b.span.DurationMs = millis(b.span.EndTime.Sub(b.span.StartTime))
	b.trace.append(b.span)
}

func (t *Trace) append(s Span) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Spans = append(t.Spans, s)
}

// SpanList returns a copy of the spans recorded so far.
func (t *Trace) SpanList() []Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Span(nil), t.Spans...)
}

// Outcomes returns the outcome of every tool call span, keyed by tool call
// ID. Calls without an ID are keyed by tool name.
func (t *Trace) Outcomes() map[string]string {
	out := map[string]string{}
	for _, s := range t.SpanList() {
		o, ok := s.Metadata["outcome"].(string)
		if !ok {
			continue
		}
		key, _ := s.Metadata["tool_call_id"].(string)
		if key == "" {
			key, _ = s.Metadata["tool_name"].(string)
		}
		out[key] = o
	}
	return out
}

// Finish stamps the end time. A non-nil err is kept as the trace error.
func (t *Trace) Finish(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.EndTime = time.Now()
	t.DurationMs = millis(t.EndTime.Sub(t.StartTime))
	if err != nil {
		t.Error = err.Error()
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// WithTrace puts t on ctx under the agent package's recorder key.
func WithTrace(ctx context.Context, t *Trace) context.Context {
	return agent.WithTraceRecorder(ctx, t)
}

// FromContext returns the *Trace on ctx, or nil.
func FromContext(ctx context.Context) *Trace {
	t, _ := agent.TraceFromContext(ctx).(*Trace)
	return t
}

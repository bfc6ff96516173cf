package tracing

import (
	"context"
	"unicode/utf8"

	"github.com/priyank1574q/agent-vinod/agent"
)

const maxSpanOutput = 500

// TracingHook implements agent.Hook. It wraps each tool call in a timed span
// when a recorder is on the context.
type TracingHook struct {
	agent.BaseHook
}

// NewTracingHook creates a new tracing hook.
func NewTracingHook() *TracingHook {
	return &TracingHook{}
}

func (h *TracingHook) Name() string { return "tracing" }

func (h *TracingHook) WrapToolCall(ctx context.Context, state *agent.State, call agent.ToolCall, next agent.ToolCallFunc) *agent.Command {
	tr := agent.TraceFromContext(ctx)
	if tr == nil {
		return next(ctx, state, call)
	}

	s := tr.StartSpan("tool.call")
	s.Set("tool_name", call.Name)
	s.Set("tool_call_id", call.ID)
	s.Set("tool_args", call.Args)
	s.Set("thread_id", state.ThreadID)

	cmd := next(ctx, state, call)
	out := cmd.Message().Content
	s.Set("outcome", cmd.Outcome)
	s.Set("output_length", len(out))
	s.Set("output", clip(out, maxSpanOutput))
	if n := len(cmd.Files); n > 0 {
		s.Set("files_changed", n)
	}
	s.End()
	return cmd
}

// clip cuts s to at most n bytes without splitting a rune.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "...(truncated)"
}

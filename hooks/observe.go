package hooks

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/priyank1574q/agent-vinod/agent"
	"github.com/priyank1574q/agent-vinod/metrics"
)

// LoggingHook writes one debug line per tool call.
type LoggingHook struct {
	agent.BaseHook
	logger hclog.Logger
}

// NewLoggingHook creates a logging hook. A nil logger discards output.
func NewLoggingHook(logger hclog.Logger) *LoggingHook {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &LoggingHook{logger: logger}
}

func (h *LoggingHook) Name() string { return "logging" }

func (h *LoggingHook) WrapToolCall(ctx context.Context, state *agent.State, call agent.ToolCall, next agent.ToolCallFunc) *agent.Command {
	start := time.Now()
	cmd := next(ctx, state, call)
	h.logger.Debug("tool call",
		"thread", state.ThreadID,
		"tool", call.Name,
		"call_id", call.ID,
		"outcome", cmd.Outcome,
		"files", len(cmd.Files),
		"output_chars", len(cmd.Message().Content),
		"duration", time.Since(start),
	)
	return cmd
}

// MetricsHook counts tool calls by outcome and records their latency.
type MetricsHook struct {
	agent.BaseHook
	metrics *metrics.Metrics
}

// NewMetricsHook creates a metrics hook. A nil sink records nothing.
func NewMetricsHook(m *metrics.Metrics) *MetricsHook {
	return &MetricsHook{metrics: m}
}

func (h *MetricsHook) Name() string { return "metrics" }

func (h *MetricsHook) WrapToolCall(ctx context.Context, state *agent.State, call agent.ToolCall, next agent.ToolCallFunc) *agent.Command {
	start := time.Now()
	cmd := next(ctx, state, call)
	h.metrics.ObserveToolCall(call.Name, cmd.Outcome, time.Since(start))
	return cmd
}

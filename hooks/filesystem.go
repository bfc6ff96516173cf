package hooks

import (
	"context"
	"fmt"

	"github.com/priyank1574q/agent-vinod/agent"
)

const (
	// MaxResultChars is the largest tool result passed through unchanged.
	MaxResultChars = 80_000
	evictKeepChars = 2000
)

// fileTools produce results the caller asked for explicitly, so they are
// never shortened.
var fileTools = map[string]bool{
	"ls": true, "read_file": true, "write_file": true, "edit_file": true,
}

// LargeResultHook shortens a tool result longer than MaxResultChars
// characters to its head and tail. Lengths count runes, not bytes.
type LargeResultHook struct {
	agent.BaseHook
	max int
}

// NewLargeResultHook creates the eviction hook with the default limit.
func NewLargeResultHook() *LargeResultHook {
	return &LargeResultHook{max: MaxResultChars}
}

func (h *LargeResultHook) Name() string { return "large_result" }

func (h *LargeResultHook) WrapToolCall(ctx context.Context, state *agent.State, call agent.ToolCall, next agent.ToolCallFunc) *agent.Command {
	cmd := next(ctx, state, call)
	if cmd == nil || len(cmd.Messages) == 0 || fileTools[call.Name] {
		return cmd
	}

	out := cmd.Messages[0].Content
	if len(out) <= h.max {
		return cmd
	}
	runes := []rune(out)
	if len(runes) <= h.max {
		return cmd
	}
	cmd.Messages[0].Content = fmt.Sprintf(
		"%s\n\n... [Output truncated: %d chars total. Showing first and last %d chars] ...\n\n%s",
		string(runes[:evictKeepChars]), len(runes), evictKeepChars, string(runes[len(runes)-evictKeepChars:]),
	)
	return cmd
}

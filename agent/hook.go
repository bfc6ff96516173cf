package agent

import "context"

// ToolCallFunc is the signature for the "next" function in the tool call chain.
type ToolCallFunc func(ctx context.Context, state *State, call ToolCall) *Command

// Hook wraps tool execution (onion ring pattern). The first hook in a chain
// is the outermost.
type Hook interface {
	// Name returns the hook identifier.
	Name() string

	// WrapToolCall wraps each tool execution (logging, metrics, tracing,
	// large result eviction).
	WrapToolCall(ctx context.Context, state *State, call ToolCall, next ToolCallFunc) *Command
}

// BaseHook passes calls through. Embed it to override only what you need.
type BaseHook struct{}

func (BaseHook) Name() string { return "base" }

func (BaseHook) WrapToolCall(ctx context.Context, state *State, call ToolCall, next ToolCallFunc) *Command {
	return next(ctx, state, call)
}

// Chain builds the call chain for hooks around final.
func Chain(hooks []Hook, final ToolCallFunc) ToolCallFunc {
	next := final
	for i := len(hooks) - 1; i >= 0; i-- {
		h, inner := hooks[i], next
		next = func(ctx context.Context, state *State, call ToolCall) *Command {
			return h.WrapToolCall(ctx, state, call, inner)
		}
	}
	return next
}

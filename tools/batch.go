package tools

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/priyank1574q/agent-vinod/agent"
	"github.com/priyank1574q/agent-vinod/toolerr"
)

// maxConcurrentReads bounds how many read-only calls of one turn run at once.
const maxConcurrentReads = 4

// readOnlyTools never change files, backups, todos or the REPL session, so
// adjacent calls to them can share a state snapshot.
var readOnlyTools = map[string]bool{
	"ls":                  true,
	"read_file":           true,
	"get_data_dictionary": true,
	"read_image":          true,
	"think":               true,
}

// RunCalls executes the tool calls of one assistant turn against state and
// returns the tool messages in call order. Runs of adjacent read-only calls
// execute concurrently; every other call sees the deltas of the calls before
// it. Deltas are applied to state in call order.
func (k *Toolkit) RunCalls(ctx context.Context, state *agent.State, calls []agent.ToolCall) []agent.Message {
	out := make([]agent.Message, 0, len(calls))
	for i := 0; i < len(calls); {
		j := i + 1
		if readOnlyTools[calls[i].Name] {
			for j < len(calls) && readOnlyTools[calls[j].Name] {
				j++
			}
		}

		cmds := k.runGroup(ctx, state, calls[i:j])
		for _, cmd := range cmds {
			state.Apply(cmd)
			out = append(out, cmd.Message())
		}
		i = j
	}
	return out
}

func (k *Toolkit) runGroup(ctx context.Context, state *agent.State, calls []agent.ToolCall) []*agent.Command {
	cmds := make([]*agent.Command, len(calls))
	if len(calls) == 1 {
		cmds[0] = k.Call(ctx, state, calls[0])
		return cmds
	}

	if tr := agent.TraceFromContext(ctx); tr != nil {
		names := make([]string, len(calls))
		for i, c := range calls {
			names[i] = c.Name
		}
		tr.RecordEvent("tool.group", map[string]any{"count": len(calls), "tools": names})
	}

	var g errgroup.Group
	g.SetLimit(maxConcurrentReads)
	for i, call := range calls {
		g.Go(func() error {
			cmds[i] = k.Call(ctx, state, call)
			return nil
		})
	}
	_ = g.Wait()
	k.logger.Debug("ran read-only calls concurrently", "count", len(calls))
	return cmds
}

// Turn appends an assistant message to state, runs its tool calls and
// returns the tool messages. Calls without an ID get one before the message
// is recorded. A malformed message leaves state untouched.
func (k *Toolkit) Turn(ctx context.Context, state *agent.State, assistant agent.Message) ([]agent.Message, error) {
	if err := assistant.CheckTurn(); err != nil {
		return nil, toolerr.Wrap(toolerr.KindInvalidRequest, err, "invalid assistant message: %v", err)
	}
	calls := make([]agent.ToolCall, len(assistant.ToolCalls))
	for i, c := range assistant.ToolCalls {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		calls[i] = c
	}
	assistant.ToolCalls = calls
	state.Messages = append(state.Messages, assistant)
	return k.RunCalls(ctx, state, calls), nil
}

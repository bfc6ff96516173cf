package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/priyank1574q/agent-vinod/agent"
	"github.com/priyank1574q/agent-vinod/toolerr"
)

const writeTodosDesc = `Use this tool to create and manage a structured task list for your current work session.
This helps you track progress and organize complex tasks.

Pass the complete list every time: it replaces the previous list. Each item has a
content and a status of pending, in_progress or completed. Keep exactly one task
in_progress while working and mark tasks completed as soon as they are done.`

const thinkDesc = `Use this tool to think about complex reasoning or brainstorming during analysis.

Use it when you need to:
- Analyze data understanding results and plan next steps
- Process code execution outputs and plan fixes
- Verify that your analysis plan addresses the user's requirements
- Reflect on analysis results before presenting to user
- Determine if analysis is complete or needs more work`

// TodoItem is one entry of write_todos.
type TodoItem struct {
	Content string `json:"content" jsonschema:"required" jsonschema_description:"The description of the task."`
	Status  string `json:"status" jsonschema:"required,enum=pending,enum=in_progress,enum=completed" jsonschema_description:"The current status of the task."`
}

// WriteTodosArgs are the arguments of write_todos.
type WriteTodosArgs struct {
	Todos []TodoItem `json:"todos" jsonschema:"required" jsonschema_description:"The complete list of to-do items to set as the new task list."`
}

// ThinkArgs are the arguments of think.
type ThinkArgs struct {
	Thought string `json:"thought" jsonschema:"required" jsonschema_description:"Your reasoning."`
}

func (k *Toolkit) writeTodos(_ context.Context, _ *agent.State, args WriteTodosArgs) (*agent.Command, error) {
	todos := make([]agent.Todo, 0, len(args.Todos))
	for _, t := range args.Todos {
		if !agent.ValidTodoStatus(t.Status) {
			return nil, toolerr.New(toolerr.KindInvalidRequest,
				"Invalid todo status '%s'. Use 'pending', 'in_progress', or 'completed'.", t.Status)
		}
		todos = append(todos, agent.Todo{Content: t.Content, Status: t.Status})
	}
	cmd := reply("Updated todo list to " + formatTodos(todos))
	cmd.Todos = todos
	return cmd, nil
}

// formatTodos renders todos as a list of records, e.g.
// [{'content': 'load data', 'status': 'pending'}].
func formatTodos(todos []agent.Todo) string {
	items := make([]string, len(todos))
	for i, t := range todos {
		items[i] = fmt.Sprintf("{'content': '%s', 'status': '%s'}", t.Content, t.Status)
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func (k *Toolkit) think(_ context.Context, _ *agent.State, args ThinkArgs) (*agent.Command, error) {
	return reply("Thinking: " + args.Thought), nil
}

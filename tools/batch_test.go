package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyank1574q/agent-vinod/agent"
	"github.com/priyank1574q/agent-vinod/toolerr"
)

func TestRunCalls_OrderAndVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := agent.NewState("t")
	state.Files["/a.txt"] = "alpha"

	calls := []agent.ToolCall{
		{ID: "c1", Name: "ls", Args: map[string]any{}},
		{ID: "c2", Name: "read_file", Args: map[string]any{"paths": []any{"/a.txt"}}},
		{ID: "c3", Name: "think", Args: map[string]any{"thought": "edit next"}},
		{ID: "c4", Name: "edit_file", Args: map[string]any{
			"file_path": "/a.txt", "mode": "replace", "old_string": "alpha", "new_string": "beta",
		}},
		{ID: "c5", Name: "read_file", Args: map[string]any{"paths": []any{"/a.txt"}}},
		{ID: "c6", Name: "undo_edit", Args: map[string]any{"file_path": "/a.txt"}},
	}
	msgs := f.kit.RunCalls(ctx, state, calls)
	require.Len(t, msgs, len(calls))

	for i, m := range msgs {
		assert.Equal(t, calls[i].ID, m.ToolCallID)
		assert.Equal(t, calls[i].Name, m.Name)
		assert.Equal(t, agent.RoleTool, m.Role)
	}
	assert.Equal(t, "['/a.txt']", msgs[0].Content)
	assert.Contains(t, msgs[1].Content, "alpha")
	assert.Equal(t, "Thinking: edit next", msgs[2].Content)
	assert.Contains(t, msgs[4].Content, "beta")
	assert.Equal(t, "Successfully reverted changes to file: /a.txt", msgs[5].Content)

	assert.Equal(t, "alpha", state.Files["/a.txt"])
	assert.Len(t, state.Messages, len(calls))
}

func TestTurn(t *testing.T) {
	f := newFixture(t)
	state := agent.NewState("t")

	assistant := agent.Message{Role: agent.RoleAssistant, ToolCalls: []agent.ToolCall{{
		ID: "x", Name: "write_todos", Args: map[string]any{
			"todos": []any{map[string]any{"content": "profile data", "status": "pending"}},
		},
	}}}
	msgs, err := f.kit.Turn(context.Background(), state, assistant)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Content, "Updated todo list to")
	require.Len(t, state.Messages, 2)
	assert.Equal(t, agent.RoleAssistant, state.Messages[0].Role)
	assert.Equal(t, "x", state.Messages[1].ToolCallID)
	assert.Equal(t, []agent.Todo{{Content: "profile data", Status: agent.TodoPending}}, state.Todos)

	msgs, err = f.kit.Turn(context.Background(), state, agent.Message{Role: agent.RoleAssistant, Content: "done"})
	require.NoError(t, err)
	assert.Empty(t, msgs)

	t.Run("missing ids are filled in", func(t *testing.T) {
		s := agent.NewState("t")
		msgs, err := f.kit.Turn(context.Background(), s, agent.Message{
			Role:      agent.RoleAssistant,
			ToolCalls: []agent.ToolCall{{Name: "think", Args: map[string]any{"thought": "a"}}},
		})
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		id := s.Messages[0].ToolCalls[0].ID
		assert.NotEmpty(t, id)
		assert.Equal(t, id, msgs[0].ToolCallID)
	})

	t.Run("malformed message leaves state alone", func(t *testing.T) {
		s := agent.NewState("t")
		_, err := f.kit.Turn(context.Background(), s, agent.Message{Role: agent.RoleUser, Content: "hi"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, toolerr.ErrInvalidRequest))
		assert.Contains(t, err.Error(), `message role must be "assistant"`)
		assert.Empty(t, s.Messages)
	})
}

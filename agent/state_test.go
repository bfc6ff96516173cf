package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyank1574q/agent-vinod/sandbox"
)

func TestState_Apply(t *testing.T) {
	s := NewState("t1")
	s.Files["/a"] = "1"
	s.FilesBackup["/a"] = "0"
	s.Images["/i.png"] = "data:a"
	s.Todos = []Todo{{Content: "old", Status: TodoPending}}

	t.Run("files and images merge", func(t *testing.T) {
		s.Apply(&Command{
			Messages: []Message{ToolMsg("c1", "write_file", "ok")},
			Files:    map[string]string{"/b": "2", "/a": "1b"},
			Images:   map[string]string{"/j.png": "data:b"},
		})
		assert.Equal(t, map[string]string{"/a": "1b", "/b": "2"}, s.Files)
		assert.Equal(t, map[string]string{"/i.png": "data:a", "/j.png": "data:b"}, s.Images)
		assert.Equal(t, map[string]string{"/a": "0"}, s.FilesBackup, "nil backup delta leaves backups alone")
		assert.Len(t, s.Messages, 1)
	})

	t.Run("backups and todos replace", func(t *testing.T) {
		s.Apply(&Command{
			Messages:    []Message{ToolMsg("c2", "undo_edit", "ok")},
			FilesBackup: map[string]string{},
			Todos:       []Todo{{Content: "new", Status: TodoCompleted}},
		})
		assert.Empty(t, s.FilesBackup)
		assert.Equal(t, []Todo{{Content: "new", Status: TodoCompleted}}, s.Todos)
	})

	t.Run("namespace replaces when set", func(t *testing.T) {
		sess, err := sandbox.NewSession()
		require.NoError(t, err)
		s.Apply(&Command{Messages: []Message{ToolMsg("c3", "python_repl", "ok")}, Namespace: sess})
		assert.Same(t, sess, s.Namespace)

		s.Apply(&Command{Messages: []Message{ToolMsg("c4", "think", "ok")}})
		assert.Same(t, sess, s.Namespace)
	})

	t.Run("nil command", func(t *testing.T) {
		n := len(s.Messages)
		s.Apply(nil)
		assert.Len(t, s.Messages, n)
	})
}

func TestState_Clone(t *testing.T) {
	s := NewState("t1")
	s.Files["/a"] = "1"
	s.Todos = append(s.Todos, Todo{Content: "x", Status: TodoPending})

	c := s.Clone()
	c.Files["/a"] = "changed"
	c.Todos[0].Status = TodoCompleted
	c.Apply(&Command{Messages: []Message{ToolMsg("c", "ls", "")}})

	assert.Equal(t, "1", s.Files["/a"])
	assert.Equal(t, TodoPending, s.Todos[0].Status)
	assert.Empty(t, s.Messages)
}

func TestCommand_Message(t *testing.T) {
	var c *Command
	assert.Equal(t, Message{}, c.Message())
	c = &Command{Messages: []Message{ToolMsg("id", "think", "hi")}}
	assert.Equal(t, "hi", c.Message().Content)
}

func TestMessage_CheckTurn(t *testing.T) {
	assistant := func(calls ...ToolCall) Message {
		return Message{Role: RoleAssistant, ToolCalls: calls}
	}

	require.NoError(t, assistant().CheckTurn())
	require.NoError(t, assistant(ToolCall{ID: "c1", Name: "ls"}, ToolCall{Name: "think"}, ToolCall{Name: "ls"}).CheckTurn())

	err := Message{Role: RoleUser, Content: "hi"}.CheckTurn()
	assert.EqualError(t, err, `message role must be "assistant", got "user"`)
	assert.EqualError(t, assistant(ToolCall{ID: "c1"}).CheckTurn(), "tool_calls[0]: missing name")
	assert.EqualError(t, assistant(ToolCall{ID: "c1", Name: "ls"}, ToolCall{ID: "c1", Name: "think"}).CheckTurn(),
		`tool_calls[1]: duplicate id "c1"`)
}

func TestValidTodoStatus(t *testing.T) {
	for _, s := range []string{TodoPending, TodoInProgress, TodoCompleted} {
		assert.True(t, ValidTodoStatus(s))
	}
	assert.False(t, ValidTodoStatus("done"))
}

type recordingHook struct {
	BaseHook
	name string
	log  *[]string
}

func (h recordingHook) WrapToolCall(ctx context.Context, state *State, call ToolCall, next ToolCallFunc) *Command {
	*h.log = append(*h.log, h.name+":before")
	cmd := next(ctx, state, call)
	*h.log = append(*h.log, h.name+":after")
	return cmd
}

func TestChain(t *testing.T) {
	var log []string
	hooks := []Hook{recordingHook{name: "outer", log: &log}, BaseHook{}, recordingHook{name: "inner", log: &log}}
	final := func(ctx context.Context, state *State, call ToolCall) *Command {
		log = append(log, "tool")
		return &Command{Messages: []Message{ToolMsg(call.ID, call.Name, "done")}}
	}

	cmd := Chain(hooks, final)(context.Background(), NewState("t"), ToolCall{ID: "1", Name: "think"})
	assert.Equal(t, "done", cmd.Message().Content)
	assert.Equal(t, []string{"outer:before", "inner:before", "tool", "inner:after", "outer:after"}, log)
}

func TestToolRegistry(t *testing.T) {
	r := NewToolRegistry()
	mk := func(name string) Tool {
		return &FuncTool{ToolName: name, Fn: func(context.Context, *State, map[string]any) (*Command, error) { return nil, nil }}
	}
	r.Register(mk("b"))
	r.Register(mk("a"))
	r.Register(mk("b"))

	assert.Equal(t, []string{"b", "a"}, r.List())
	assert.Len(t, r.All(), 2)
	assert.Nil(t, r.Get("zzz"))
	assert.Equal(t, "a", r.Get("a").Name())
}

func TestStartSpan_NoRecorder(t *testing.T) {
	span := StartSpan(context.Background(), "tool")
	assert.NotPanics(t, func() { span.Set("k", 1).End() })
}

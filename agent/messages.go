package agent

import "fmt"

// Message is one entry of a thread's conversation. Tool replies carry the ID
// and name of the call they answer.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolCall asks for one tool to run with Args.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolMsg builds the reply to call toolCallID of tool name.
func ToolMsg(toolCallID, name, output string) Message {
	return Message{Role: RoleTool, Content: output, ToolCallID: toolCallID, Name: name}
}

// Messages is a thread's conversation in order.
type Messages []Message

// CheckTurn reports whether m can open a turn: it must be an assistant
// message whose tool calls all have a name and distinct IDs. Empty IDs are
// allowed; they are filled in when the calls run.
func (m Message) CheckTurn() error {
	if m.Role != RoleAssistant {
		return fmt.Errorf("message role must be %q, got %q", RoleAssistant, m.Role)
	}
	seen := make(map[string]bool, len(m.ToolCalls))
	for i, tc := range m.ToolCalls {
		if tc.Name == "" {
			return fmt.Errorf("tool_calls[%d]: missing name", i)
		}
		if tc.ID == "" {
			continue
		}
		if seen[tc.ID] {
			return fmt.Errorf("tool_calls[%d]: duplicate id %q", i, tc.ID)
		}
		seen[tc.ID] = true
	}
	return nil
}

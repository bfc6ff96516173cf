package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/priyank1574q/agent-vinod/agent"
	"github.com/priyank1574q/agent-vinod/datadict"
	"github.com/priyank1574q/agent-vinod/toolerr"
	"github.com/priyank1574q/agent-vinod/tracing"
)

// ToolsCmd lists the registered tools.
type ToolsCmd struct{}

type toolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

func (c *ToolsCmd) Run(cli *CLI) error {
	a, err := cli.newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var out []toolInfo
	for _, t := range a.Toolkit().Tools() {
		out = append(out, toolInfo{Name: t.Name(), Description: t.Description(), Parameters: t.Parameters()})
	}
	return writeOK(cli.out, out)
}

// CallCmd runs one tool call and prints the tool message.
type CallCmd struct {
	Tool     string `arg:"" help:"Tool name."`
	Thread   string `short:"t" help:"Thread ID." default:"default"`
	Args     string `short:"a" help:"Tool arguments as a JSON object." default:"{}"`
	ArgsFile string `name:"args-file" help:"Read tool arguments from a JSON file." type:"existingfile"`
	Trace    bool   `help:"Include the call trace in the output."`
}

type callResult struct {
	Thread  string         `json:"thread"`
	Outcome string         `json:"outcome"`
	Message agent.Message  `json:"message"`
	Trace   *tracing.Trace `json:"trace,omitempty"`
}

func (c *CallCmd) Run(cli *CLI) error {
	raw := []byte(c.Args)
	if c.ArgsFile != "" {
		data, err := os.ReadFile(c.ArgsFile)
		if err != nil {
			return err
		}
		raw = data
	}
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return writeError(cli.out, fmt.Sprintf("invalid --args: %v", err))
	}

	a, err := cli.newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	msg, trace, err := a.Call(context.Background(), c.Thread, agent.ToolCall{Name: c.Tool, Args: args})
	if err != nil {
		return err
	}
	res := callResult{Thread: c.Thread, Outcome: trace.Outcomes()[msg.ToolCallID], Message: msg}
	if c.Trace {
		res.Trace = trace
	}
	return writeOK(cli.out, res)
}

// TurnCmd runs every tool call of an assistant message.
type TurnCmd struct {
	Thread      string `short:"t" help:"Thread ID." default:"default"`
	MessageFile string `name:"message-file" required:"" help:"JSON assistant message with tool_calls." type:"existingfile"`
}

type turnResult struct {
	Thread   string            `json:"thread"`
	Messages []agent.Message   `json:"messages"`
	Outcomes map[string]string `json:"outcomes"`
	TraceID  string            `json:"trace_id"`
}

func (c *TurnCmd) Run(cli *CLI) error {
	data, err := os.ReadFile(c.MessageFile)
	if err != nil {
		return err
	}
	var assistant agent.Message
	if err := json.Unmarshal(data, &assistant); err != nil {
		return writeError(cli.out, fmt.Sprintf("invalid message: %v", err))
	}

	a, err := cli.newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	msgs, trace, err := a.Turn(context.Background(), c.Thread, assistant)
	if toolerr.KindOf(err) == toolerr.KindInvalidRequest {
		return writeError(cli.out, err.Error())
	}
	if err != nil {
		return err
	}
	if msgs == nil {
		msgs = []agent.Message{}
	}
	return writeOK(cli.out, turnResult{Thread: c.Thread, Messages: msgs, Outcomes: trace.Outcomes(), TraceID: trace.TraceID})
}

// DictCmd prints the data dictionary or a fragment of it.
type DictCmd struct {
	Table  string `help:"Only this table."`
	Column string `help:"Only this column of --table."`
}

func (c *DictCmd) Run(cli *CLI) error {
	a, err := cli.newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fragment, err := a.Toolkit().Dictionary().Get(context.Background(), datadict.Query{Table: c.Table, Column: c.Column})
	if err != nil {
		return writeError(cli.out, err.Error())
	}
	return writeOK(cli.out, fragment)
}

// ThreadsCmd lists checkpointed thread IDs.
type ThreadsCmd struct{}

func (c *ThreadsCmd) Run(cli *CLI) error {
	a, err := cli.newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ids, err := a.SavedThreads(context.Background())
	if err != nil {
		return err
	}
	if ids == nil {
		ids = []string{}
	}
	return writeOK(cli.out, ids)
}

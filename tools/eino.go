package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"

	"github.com/priyank1574q/agent-vinod/agent"
)

// Session binds a toolkit to one state. Calls through a Session are
// serialized, so tools run by a concurrent agent runtime see each other's
// deltas in order.
type Session struct {
	mu      sync.Mutex
	toolkit *Toolkit
	state   *agent.State
}

// Bind returns a session that applies every call to state.
func (k *Toolkit) Bind(state *agent.State) *Session {
	return &Session{toolkit: k, state: state}
}

// State returns the bound state. Read it only between calls.
func (s *Session) State() *agent.State { return s.state }

// Invoke runs call and folds its delta into the bound state.
func (s *Session) Invoke(ctx context.Context, call agent.ToolCall) agent.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toolkit.Invoke(ctx, s.state, call)
}

type einoAdapter func(s *Session) (tool.InvokableTool, error)

func einoAdapterFor[Args any](t *typedTool[Args]) einoAdapter {
	return func(s *Session) (tool.InvokableTool, error) {
		return utils.InferTool(t.name, t.desc, func(ctx context.Context, in Args) (string, error) {
			args, err := encodeArgs(in)
			if err != nil {
				return "", fmt.Errorf("encode %s arguments: %w", t.name, err)
			}
			msg := s.Invoke(ctx, agent.ToolCall{Name: t.name, Args: args})
			return msg.Content, nil
		})
	}
}

// EinoTools exposes every tool as an eino InvokableTool bound to state, so
// an eino agent (e.g. flow/agent/react) can drive the toolkit. Tool failures
// are returned as result text, never as errors.
func (k *Toolkit) EinoTools(state *agent.State) ([]tool.BaseTool, error) {
	return k.Bind(state).EinoTools()
}

// EinoTools returns the session's tools in eino form, in registration order.
func (s *Session) EinoTools() ([]tool.BaseTool, error) {
	all := s.toolkit.Tools()
	out := make([]tool.BaseTool, 0, len(all))
	for _, t := range all {
		adapt, ok := s.toolkit.adapters[t.Name()]
		if !ok {
			out = append(out, &einoTool{session: s, tool: t})
			continue
		}
		it, err := adapt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

// einoTool adapts a tool registered with WithTools. Its parameters are taken
// from the top level of the tool's JSON Schema.
type einoTool struct {
	session *Session
	tool    agent.Tool
}

func (t *einoTool) Info(context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name:        t.tool.Name(),
		Desc:        t.tool.Description(),
		ParamsOneOf: schema.NewParamsOneOfByParams(paramsFromSchema(t.tool.Parameters())),
	}, nil
}

func (t *einoTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	args := map[string]any{}
	if strings.TrimSpace(argumentsInJSON) != "" {
		if err := json.Unmarshal([]byte(argumentsInJSON), &args); err != nil {
			return "", fmt.Errorf("decode %s arguments: %w", t.tool.Name(), err)
		}
	}
	msg := t.session.Invoke(ctx, agent.ToolCall{Name: t.tool.Name(), Args: args})
	return msg.Content, nil
}

func paramsFromSchema(s map[string]any) map[string]*schema.ParameterInfo {
	props, _ := s["properties"].(map[string]any)
	required := map[string]bool{}
	switch req := s["required"].(type) {
	case []string:
		for _, r := range req {
			required[r] = true
		}
	case []any:
		for _, r := range req {
			required[cast.ToString(r)] = true
		}
	}

	out := make(map[string]*schema.ParameterInfo, len(props))
	for name, raw := range props {
		prop, _ := raw.(map[string]any)
		info := paramFromSchema(prop)
		info.Required = required[name]
		out[name] = info
	}
	return out
}

func paramFromSchema(prop map[string]any) *schema.ParameterInfo {
	typ := cast.ToString(prop["type"])
	if typ == "" {
		typ = string(schema.String)
	}
	info := &schema.ParameterInfo{
		Type: schema.DataType(typ),
		Desc: cast.ToString(prop["description"]),
	}
	if info.Type == schema.Array {
		items, _ := prop["items"].(map[string]any)
		info.ElemInfo = paramFromSchema(items)
	}
	return info
}

// encodeArgs turns a typed args struct back into wire arguments.
func encodeArgs(in any) (map[string]any, error) {
	out := map[string]any{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &out,
		TagName: "json",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(in); err != nil {
		return nil, err
	}
	return out, nil
}

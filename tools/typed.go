package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"

	"github.com/priyank1574q/agent-vinod/agent"
	"github.com/priyank1574q/agent-vinod/toolerr"
)

// typedTool adapts a function over a typed args struct to agent.Tool.
type typedTool[Args any] struct {
	name   string
	desc   string
	schema map[string]any
	fn     func(ctx context.Context, state *agent.State, args Args) (*agent.Command, error)
}

var _ agent.Tool = (*typedTool[struct{}])(nil)

func newTool[Args any](name, desc string, fn func(context.Context, *agent.State, Args) (*agent.Command, error)) *typedTool[Args] {
	return &typedTool[Args]{name: name, desc: desc, schema: generateSchema[Args](), fn: fn}
}

func (t *typedTool[Args]) Name() string               { return t.name }
func (t *typedTool[Args]) Description() string        { return t.desc }
func (t *typedTool[Args]) Parameters() map[string]any { return t.schema }

func (t *typedTool[Args]) Run(ctx context.Context, state *agent.State, args map[string]any) (*agent.Command, error) {
	var typed Args
	if err := decodeArgs(args, &typed); err != nil {
		return nil, toolerr.Wrap(toolerr.KindInvalidRequest, err, "Invalid arguments for %s: %v", t.name, err)
	}
	return t.fn(ctx, state, typed)
}

// decodeArgs converts wire arguments into a typed struct. Weak typing lets
// "3" fill an int and "true" fill a bool, which models produce often.
func decodeArgs(input map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	return decoder.Decode(input)
}

// generateSchema creates the JSON schema of an args struct. Required fields
// are marked with jsonschema:"required".
func generateSchema[Args any]() map[string]any {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(new(Args))

	data, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("tools: schema for %T: %v", *new(Args), err))
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		panic(fmt.Sprintf("tools: schema for %T: %v", *new(Args), err))
	}
	delete(m, "$schema")
	delete(m, "$id")
	if _, ok := m["properties"]; !ok {
		m["properties"] = map[string]any{}
	}
	return m
}

// reply builds a single-message delta. The toolkit fills in the call ID and
// tool name.
func reply(content string) *agent.Command {
	return &agent.Command{Messages: []agent.Message{{Role: agent.RoleTool, Content: content}}}
}

func fenced(title, body string) string {
	return fmt.Sprintf("%s\n```\n%s\n```", title, body)
}

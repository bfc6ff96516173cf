// Package tools exposes the session operations as named tools with a
// uniform contract: wire arguments in, one state delta with one tool message
// out. Failures never escape a call; they become "Error: ..." messages.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/priyank1574q/agent-vinod/agent"
	"github.com/priyank1574q/agent-vinod/datadict"
	"github.com/priyank1574q/agent-vinod/hooks"
	"github.com/priyank1574q/agent-vinod/metrics"
	"github.com/priyank1574q/agent-vinod/sandbox"
	"github.com/priyank1574q/agent-vinod/toolerr"
	"github.com/priyank1574q/agent-vinod/tracing"
	"github.com/priyank1574q/agent-vinod/vfs"
)

// Outcome labels besides the toolerr kind names.
const (
	OutcomeOK    = "ok"
	OutcomePanic = "panic"
)

// Deps are the components the tools operate on. Nil fields get defaults.
type Deps struct {
	Store      *vfs.Store
	Sandbox    *sandbox.Sandbox
	REPL       *sandbox.REPL
	Dictionary *datadict.Registry
}

// Toolkit dispatches tool calls against a session state.
type Toolkit struct {
	store   *vfs.Store
	sandbox *sandbox.Sandbox
	repl    *sandbox.REPL
	dict    *datadict.Registry

	logger   hclog.Logger
	metrics  *metrics.Metrics
	extra    []agent.Hook
	custom   []agent.Tool
	registry *agent.ToolRegistry
	call     agent.ToolCallFunc
	adapters map[string]einoAdapter
}

// Option customizes a Toolkit.
type Option func(*Toolkit)

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(k *Toolkit) { k.logger = l.Named("toolkit") }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(k *Toolkit) { k.metrics = m }
}

// WithTools registers additional tools after the built-in ones. A custom tool
// with a built-in name replaces it.
func WithTools(t ...agent.Tool) Option {
	return func(k *Toolkit) { k.custom = append(k.custom, t...) }
}

// WithHooks adds hooks inside the built-in logging, metrics and tracing
// hooks and outside large result eviction.
func WithHooks(h ...agent.Hook) Option {
	return func(k *Toolkit) { k.extra = append(k.extra, h...) }
}

// New creates a toolkit with every tool registered.
func New(deps Deps, opts ...Option) *Toolkit {
	k := &Toolkit{
		store:    deps.Store,
		sandbox:  deps.Sandbox,
		repl:     deps.REPL,
		dict:     deps.Dictionary,
		logger:   hclog.NewNullLogger(),
		registry: agent.NewToolRegistry(),
		adapters: map[string]einoAdapter{},
	}
	for _, o := range opts {
		o(k)
	}
	if k.store == nil {
		k.store = vfs.NewStore(vfs.NewLocalFS(""))
	}
	if k.sandbox == nil {
		k.sandbox = sandbox.New(k.store.FS(), sandbox.DefaultOptions(),
			sandbox.WithLogger(k.logger), sandbox.WithMetrics(k.metrics))
	}
	if k.repl == nil {
		k.repl = &sandbox.REPL{}
	}
	if k.dict == nil {
		k.dict = datadict.Shared(datadict.DefaultDatasets("data"),
			datadict.WithLogger(k.logger), datadict.WithMetrics(k.metrics))
	}

	register(k, "register_file", registerFileDesc, k.registerFile)
	register(k, "ls", lsDesc, k.ls)
	register(k, "read_file", readFileDesc, k.readFile)
	register(k, "write_file", writeFileDesc, k.writeFile)
	register(k, "edit_file", editFileDesc, k.editFile)
	register(k, "undo_edit", undoEditDesc, k.undoEdit)
	register(k, "execute_code", executeDescription(), k.executeCode)
	register(k, "python_repl", pythonReplDesc, k.pythonREPL)
	register(k, "get_data_dictionary", k.dataDictionaryDescription(), k.getDataDictionary)
	register(k, "write_todos", writeTodosDesc, k.writeTodos)
	register(k, "read_image", readImageDesc, k.readImage)
	register(k, "think", thinkDesc, k.think)
	for _, t := range k.custom {
		k.registry.Register(t)
		delete(k.adapters, t.Name())
	}

	chain := []agent.Hook{
		hooks.NewLoggingHook(k.logger),
		hooks.NewMetricsHook(k.metrics),
		tracing.NewTracingHook(),
	}
	chain = append(chain, k.extra...)
	chain = append(chain, hooks.NewLargeResultHook())
	k.call = agent.Chain(chain, k.dispatch)
	return k
}

func register[Args any](k *Toolkit, name, desc string, fn func(context.Context, *agent.State, Args) (*agent.Command, error)) {
	t := newTool(name, desc, fn)
	k.registry.Register(t)
	k.adapters[name] = einoAdapterFor(t)
}

// Tools returns the registered tools in registration order.
func (k *Toolkit) Tools() []agent.Tool { return k.registry.All() }

// Tool returns the named tool or nil.
func (k *Toolkit) Tool(name string) agent.Tool { return k.registry.Get(name) }

// Dictionary returns the schema registry the toolkit serves.
func (k *Toolkit) Dictionary() *datadict.Registry { return k.dict }

// Call runs one tool call against state and returns its delta. State is not
// modified; a missing call ID is replaced with a fresh one.
func (k *Toolkit) Call(ctx context.Context, state *agent.State, call agent.ToolCall) *agent.Command {
	if call.ID == "" {
		call.ID = uuid.NewString()
	}
	if state == nil {
		state = agent.NewState("")
	}
	return k.call(ctx, state, call)
}

// Invoke runs a tool call, folds its delta into state and returns the tool
// message.
func (k *Toolkit) Invoke(ctx context.Context, state *agent.State, call agent.ToolCall) agent.Message {
	cmd := k.Call(ctx, state, call)
	state.Apply(cmd)
	return cmd.Message()
}

func (k *Toolkit) dispatch(ctx context.Context, state *agent.State, call agent.ToolCall) (cmd *agent.Command) {
	defer func() {
		if r := recover(); r != nil {
			k.logger.Error("tool panicked", "tool", call.Name, "call_id", call.ID, "panic", r)
			cmd = failure(call, fmt.Errorf("tool '%s' panicked: %v", call.Name, r))
			cmd.Outcome = OutcomePanic
		}
	}()

	tool := k.registry.Get(call.Name)
	if tool == nil {
		return failure(call, toolerr.New(toolerr.KindInvalidRequest,
			"Unknown tool '%s'. Available tools: %s.", call.Name, strings.Join(k.registry.List(), ", ")))
	}
	args := call.Args
	if args == nil {
		args = map[string]any{}
	}

	cmd, err := tool.Run(ctx, state, args)
	if err != nil {
		return failure(call, err)
	}
	if cmd == nil {
		cmd = reply("")
	}
	stamp(cmd, call)
	if cmd.Outcome == "" {
		cmd.Outcome = OutcomeOK
	}
	return cmd
}

func failure(call agent.ToolCall, err error) *agent.Command {
	cmd := reply(toolerr.Message(err))
	stamp(cmd, call)
	cmd.Outcome = toolerr.KindOf(err).String()
	return cmd
}

func stamp(cmd *agent.Command, call agent.ToolCall) {
	if len(cmd.Messages) == 0 {
		cmd.Messages = []agent.Message{{}}
	}
	cmd.Messages = []agent.Message{agent.ToolMsg(call.ID, call.Name, cmd.Messages[0].Content)}
}

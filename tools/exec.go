package tools

import (
	"context"
	"strings"

	"github.com/priyank1574q/agent-vinod/agent"
	"github.com/priyank1574q/agent-vinod/sandbox"
	"github.com/priyank1574q/agent-vinod/toolerr"
)

const executeCodeDesc = `Execute Go code and return the output. The code is a sequence of Go statements
run in a fresh interpreter; nothing persists between calls. These packages are
already imported: ` + "`%s`" + `.

Files created in the output directory, or in any absolute directory written as a
string literal ending in "/" (e.g. "/tmp/plots/"), are detected after the run and
added to the file memory.`

const pythonReplDesc = `Executes Go code in a stateful, interactive REPL session.

## Key Feature: Stateful Execution
Variables, functions and types defined in one call to this tool **will persist** to subsequent calls within the same session. This makes it ideal for iterative exploration.

## CRITICAL USAGE CONSTRAINT
This tool is **ONLY** for exploration and debugging. Files it writes are not tracked. After using the REPL to figure out your approach, consolidate the working steps into a single program and run it with the ` + "`execute_code`" + ` tool to produce the final output.

## Parameters
- ` + "`code`" + `: The Go statements to execute.
- ` + "`reset_state`" + ` (optional): If true, discards the session and starts a fresh one.`

// ExecuteCodeArgs are the arguments of execute_code.
type ExecuteCodeArgs struct {
	Code string `json:"code" jsonschema:"required" jsonschema_description:"Go statements to run."`
}

// PythonREPLArgs are the arguments of python_repl.
type PythonREPLArgs struct {
	Code       string `json:"code" jsonschema:"required" jsonschema_description:"Go statements to run in the session."`
	ResetState bool   `json:"reset_state,omitempty" jsonschema_description:"Discard the session before running."`
}

func executeDescription() string {
	return strings.Replace(executeCodeDesc, "%s", strings.Join(sandbox.Prelude, "`, `"), 1)
}

func (k *Toolkit) executeCode(ctx context.Context, _ *agent.State, args ExecuteCodeArgs) (*agent.Command, error) {
	out := k.sandbox.Execute(ctx, args.Code)
	cmd := reply(fenced("Code execution output:", out.Output))
	if len(out.Files) > 0 {
		cmd.Files = out.Files
	}
	if out.Err != nil {
		cmd.Outcome = toolerr.KindExecution.String()
	}
	return cmd, nil
}

func (k *Toolkit) pythonREPL(ctx context.Context, state *agent.State, args PythonREPLArgs) (*agent.Command, error) {
	sess, out := k.repl.Eval(ctx, state.Namespace, args.Code, args.ResetState)
	cmd := reply(fenced("REPL output:", out))
	cmd.Namespace = sess
	return cmd, nil
}

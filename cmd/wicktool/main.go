// Command wicktool runs agent tools against a thread from the command line.
//
// Usage:
//
//	wicktool tools
//	wicktool call write_file --thread t1 --args '{"file_path":"a.txt","content":"hi"}'
//	wicktool turn --thread t1 --message-file assistant.json
//	wicktool dict --table order_data
//	wicktool threads
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/hashicorp/go-hclog"

	agentvinod "github.com/priyank1574q/agent-vinod"
	"github.com/priyank1574q/agent-vinod/config"
)

// CLI defines the command-line interface.
type CLI struct {
	Tools   ToolsCmd   `cmd:"" help:"List tools with their argument schemas."`
	Call    CallCmd    `cmd:"" help:"Run one tool call on a thread."`
	Turn    TurnCmd    `cmd:"" help:"Run the tool calls of an assistant message on a thread."`
	Dict    DictCmd    `cmd:"" help:"Show the data dictionary."`
	Threads ThreadsCmd `cmd:"" help:"List checkpointed threads."`

	Config   string `short:"c" help:"Path to config file." type:"path"`
	LogLevel string `help:"Log level (trace, debug, info, warn, error). Overrides the config."`

	out io.Writer `kong:"-"`
	log io.Writer `kong:"-"`
}

// errReported marks a failure already written as an error response.
var errReported = errors.New("reported")

func (c *CLI) newApp() (*agentvinod.App, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "wicktool",
		Level:  hclog.LevelFromString(cfg.LogLevel),
		Output: c.log,
	})
	return agentvinod.New(cfg, agentvinod.WithLogger(logger))
}

func run(args []string, out, log io.Writer) int {
	cli := CLI{out: out, log: log}
	parser, err := kong.New(&cli,
		kong.Name("wicktool"),
		kong.Description("Run agent file, code and data tools against a thread."),
		kong.UsageOnError(),
		kong.Writers(out, log),
	)
	if err != nil {
		fmt.Fprintln(log, err)
		return 2
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintln(log, err)
		return 2
	}
	if err := ctx.Run(&cli); err != nil {
		if !errors.Is(err, errReported) {
			writeError(out, err.Error())
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

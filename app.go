// Package agentvinod wires the toolkit, thread store, checkpointing, tracing
// and metrics into one App built from a config.Config.
package agentvinod

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/priyank1574q/agent-vinod/agent"
	"github.com/priyank1574q/agent-vinod/checkpoint"
	"github.com/priyank1574q/agent-vinod/config"
	"github.com/priyank1574q/agent-vinod/datadict"
	"github.com/priyank1574q/agent-vinod/metrics"
	"github.com/priyank1574q/agent-vinod/sandbox"
	"github.com/priyank1574q/agent-vinod/tools"
	"github.com/priyank1574q/agent-vinod/tracing"
	"github.com/priyank1574q/agent-vinod/vfs"
)

// App is a configured toolkit with thread state management. Create one with
// New and release it with Close. Each Call or Turn returns its own trace;
// the App keeps none.
type App struct {
	mu         sync.Mutex
	cfg        *config.Config
	logger     hclog.Logger
	registerer prometheus.Registerer

	metrics    *metrics.Metrics
	toolkit    *tools.Toolkit
	threads    *agent.ThreadStore
	checkpoint *checkpoint.Store
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the root logger (default: stderr at the configured level).
func WithLogger(l hclog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithRegisterer sets where metrics are registered (default: a private
// registry).
func WithRegisterer(r prometheus.Registerer) Option {
	return func(a *App) { a.registerer = r }
}

// New builds an App from cfg.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg}
	for _, o := range opts {
		o(a)
	}
	if a.logger == nil {
		a.logger = hclog.New(&hclog.LoggerOptions{
			Name:   "wick",
			Level:  hclog.LevelFromString(cfg.LogLevel),
			Output: os.Stderr,
		})
	}
	if a.registerer == nil {
		a.registerer = prometheus.NewRegistry()
	}

	m, err := metrics.New(a.registerer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	a.metrics = m

	dict, err := a.buildRegistry()
	if err != nil {
		return nil, err
	}

	fsys := vfs.NewLocalFS(cfg.Workdir)
	sbOpts := sandbox.Options{
		OutputDir:      cfg.Sandbox.OutputDir,
		MonitorDirs:    cfg.Sandbox.MonitorDirs,
		InferFromCode:  cfg.Sandbox.InferFromCode == nil || *cfg.Sandbox.InferFromCode,
		DetectModified: cfg.Sandbox.DetectModified,
		Timeout:        cfg.Sandbox.Timeout,
	}
	a.toolkit = tools.New(tools.Deps{
		Store:      vfs.NewStore(fsys),
		Sandbox:    sandbox.New(fsys, sbOpts, sandbox.WithLogger(a.logger), sandbox.WithMetrics(m)),
		REPL:       &sandbox.REPL{Timeout: cfg.REPL.Timeout},
		Dictionary: dict,
	}, tools.WithLogger(a.logger), tools.WithMetrics(m))

	threadOpts := []agent.ThreadStoreOption{agent.WithTTL(cfg.Threads.TTL)}
	if cfg.Checkpoint.Path != "" {
		cp, err := checkpoint.Open(checkpoint.Config{Path: cfg.Checkpoint.Path, Logger: a.logger})
		if err != nil {
			return nil, err
		}
		a.checkpoint = cp
		threadOpts = append(threadOpts, agent.WithPersister(cp))
	}
	a.threads = agent.NewThreadStore(threadOpts...)

	a.logger.Debug("app ready",
		"workdir", cfg.Workdir,
		"output_dir", sbOpts.OutputDir,
		"datasets", len(dict.Datasets()),
		"checkpoint", cfg.Checkpoint.Path,
	)
	return a, nil
}

// buildRegistry gives the App its own registry built from its config.
// datadict.Shared is only the fallback for a Toolkit created without one.
func (a *App) buildRegistry() (*datadict.Registry, error) {
	datasets := datadict.DefaultDatasets(a.cfg.Data.Dir)
	if len(a.cfg.Data.Datasets) > 0 {
		datasets = datasets[:0]
		for _, d := range a.cfg.Data.Datasets {
			datasets = append(datasets, datadict.Dataset{Name: d.Name, Path: d.Path})
		}
	}
	opts := []datadict.Option{datadict.WithLogger(a.logger), datadict.WithMetrics(a.metrics)}
	if a.cfg.Data.Catalog != "" {
		c, err := datadict.LoadCatalog(a.cfg.Data.Catalog)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		opts = append(opts, datadict.WithCatalog(c))
	}
	return datadict.New(datasets, opts...), nil
}

// Toolkit returns the toolkit.
func (a *App) Toolkit() *tools.Toolkit { return a.toolkit }

// Threads returns the thread store.
func (a *App) Threads() *agent.ThreadStore { return a.threads }

// Metrics returns the metrics sink.
func (a *App) Metrics() *metrics.Metrics { return a.metrics }

// Logger returns the root logger.
func (a *App) Logger() hclog.Logger { return a.logger }

// Call runs one tool call on threadID, saves the thread and returns the tool
// message with the call's trace.
func (a *App) Call(ctx context.Context, threadID string, call agent.ToolCall) (agent.Message, *tracing.Trace, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, err := a.threads.LoadOrCreate(ctx, threadID)
	if err != nil {
		return agent.Message{}, nil, fmt.Errorf("load thread: %w", err)
	}

	trace := tracing.NewTrace(threadID, call.Name)
	msg := a.toolkit.Invoke(tracing.WithTrace(ctx, trace), state, call)
	saveErr := a.threads.Save(ctx, state)
	trace.Finish(saveErr)

	if saveErr != nil {
		return msg, trace, fmt.Errorf("save thread: %w", saveErr)
	}
	return msg, trace, nil
}

// Turn records an assistant message on threadID, runs its tool calls and
// saves the thread. All calls of the turn share one trace.
func (a *App) Turn(ctx context.Context, threadID string, assistant agent.Message) ([]agent.Message, *tracing.Trace, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, err := a.threads.LoadOrCreate(ctx, threadID)
	if err != nil {
		return nil, nil, fmt.Errorf("load thread: %w", err)
	}

	trace := tracing.NewTrace(threadID, "turn")
	msgs, err := a.toolkit.Turn(tracing.WithTrace(ctx, trace), state, assistant)
	if err != nil {
		return nil, nil, err
	}
	saveErr := a.threads.Save(ctx, state)
	trace.Finish(saveErr)

	if saveErr != nil {
		return msgs, trace, fmt.Errorf("save thread: %w", saveErr)
	}
	return msgs, trace, nil
}

// SavedThreads lists checkpointed thread IDs, most recent first.
func (a *App) SavedThreads(ctx context.Context) ([]string, error) {
	if a.checkpoint == nil {
		return nil, errors.New("checkpointing is disabled")
	}
	return a.checkpoint.List(ctx)
}

// Close stops the thread store and closes the checkpoint database.
func (a *App) Close() error {
	a.threads.Close()
	if a.checkpoint != nil {
		return a.checkpoint.Close()
	}
	return nil
}

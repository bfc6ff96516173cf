package sandbox

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/priyank1574q/agent-vinod/metrics"
	"github.com/priyank1574q/agent-vinod/vfs"
)

// StatelessHint is appended to the output when code refers to a name that is
// not defined, since callers tend to assume earlier definitions persist.
const StatelessHint = "\n\nCRITICAL HINT: Execution failed because a variable was not defined (%v). " +
	"REMINDER: The code execution environment is stateless. You MUST define all variables, " +
	"including loading data from files (e.g. reading a CSV with encoding/csv), " +
	"inside every single `execute_code` call."

// Options configures a Sandbox.
type Options struct {
	// OutputDir is always monitored for new files.
	OutputDir string
	// MonitorDirs are extra directories to watch; entries may be globs
	// including "**".
	MonitorDirs []string
	// InferFromCode also watches absolute directory literals found in code.
	InferFromCode bool
	// DetectModified also reports existing files whose size or mtime changed.
	DetectModified bool
	// Timeout bounds one execution. Zero means no limit.
	Timeout time.Duration
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{InferFromCode: true}
}

// Outcome is the result of one execution.
type Outcome struct {
	// Output is the captured output, prefixed with the error if any.
	Output string
	// Files holds new (or modified) files found in monitored directories.
	Files map[string]string
	// Err is the execution error, nil on success.
	Err error
}

// Sandbox executes code statelessly.
type Sandbox struct {
	opts    Options
	fs      vfs.FileSystem
	logger  hclog.Logger
	metrics *metrics.Metrics
}

// Option customizes a Sandbox.
type Option func(*Sandbox)

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(s *Sandbox) { s.logger = l.Named("sandbox") }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sandbox) { s.metrics = m }
}

// New creates a sandbox that watches directories through fsys.
func New(fsys vfs.FileSystem, opts Options, options ...Option) *Sandbox {
	s := &Sandbox{opts: opts, fs: fsys, logger: hclog.NewNullLogger()}
	for _, o := range options {
		o(s)
	}
	return s
}

// Options returns the sandbox configuration.
func (s *Sandbox) Options() Options { return s.opts }

// Execute runs code in a fresh interpreter. Errors never escape: they are
// reported in the outcome next to whatever output and files were produced.
func (s *Sandbox) Execute(ctx context.Context, code string) Outcome {
	dirs := monitoredDirs(ctx, s.fs, s.opts, code)
	mon := newMonitor(ctx, s.fs, dirs, s.opts.DetectModified)
	s.logger.Debug("executing code", "bytes", len(code), "monitored_dirs", len(dirs))

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	var buf syncBuffer
	execErr := func() error {
		i, err := newInterpreter(&buf)
		if err != nil {
			return err
		}
		return eval(ctx, i, code)
	}()

	if execErr != nil && IsUndefinedName(execErr) {
		fmt.Fprintf(&buf, StatelessHint, execErr)
	}

	// Listing uses a context that outlives a timed-out run.
	files := mon.changes(context.WithoutCancel(ctx))
	s.metrics.AddDetectedFiles(len(files))

	output := buf.String()
	switch {
	case execErr != nil:
		output = fmt.Sprintf("Error executing code: %v\n%s", execErr, output)
		s.logger.Debug("execution failed", "error", execErr)
	case strings.TrimSpace(output) == "":
		if len(files) > 0 {
			output = fmt.Sprintf("Code executed successfully. Detected %d new file(s).", len(files))
		} else {
			output = "Code executed successfully with no new files detected."
		}
	}
	if len(files) > 0 {
		s.logger.Info("detected files", "count", len(files))
	}
	return Outcome{Output: output, Files: files, Err: execErr}
}

// IsUndefinedName reports whether err is a name-resolution failure.
func IsUndefinedName(err error) bool {
	return err != nil && strings.Contains(err.Error(), "undefined:")
}

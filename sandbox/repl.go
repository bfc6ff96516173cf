package sandbox

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/traefik/yaegi/interp"
)

// Session is a persistent interpreter. Definitions made by one Eval are
// visible to the next until the session is discarded.
type Session struct {
	mu     sync.Mutex
	interp *interp.Interpreter
	out    *syncBuffer
	evals  int
}

// NewSession creates a session with the prelude imported.
func NewSession() (*Session, error) {
	out := &syncBuffer{}
	i, err := newInterpreter(out)
	if err != nil {
		return nil, err
	}
	return &Session{interp: i, out: out}, nil
}

// Evals returns how many times code has been evaluated in the session.
func (s *Session) Evals() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evals
}

// Eval runs code in the session and returns the rendered output. Errors are
// appended to the output rather than returned.
func (s *Session) Eval(ctx context.Context, code string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.out.Reset()
	err := eval(ctx, s.interp, code)
	s.evals++

	output := s.out.String()
	if err != nil {
		output += fmt.Sprintf("\nError executing code: %v", err)
	}
	if strings.TrimSpace(output) == "" {
		output = "Code executed successfully with no output."
	}
	return output
}

// REPL evaluates code against the session held in a thread's state.
type REPL struct {
	Timeout time.Duration
}

// Eval runs code in sess, creating a new session when sess is nil or reset is
// set. It returns the session to store back into state along with the output.
func (r *REPL) Eval(ctx context.Context, sess *Session, code string, reset bool) (*Session, string) {
	if sess == nil || reset {
		fresh, err := NewSession()
		if err != nil {
			return sess, fmt.Sprintf("\nError executing code: %v", err)
		}
		sess = fresh
	}
	if r != nil && r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	return sess, sess.Eval(ctx, code)
}

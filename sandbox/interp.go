// Package sandbox runs model-written Go code in an embedded interpreter.
//
// Sandbox.Execute is stateless: every call gets a fresh interpreter, and new
// files in monitored directories are reported back. Session is the persistent
// counterpart used by the REPL tool: definitions survive between calls and no
// directories are watched.
package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"go/scanner"
	"go/token"
	"io"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/priyank1574q/agent-vinod/toolerr"
)

// Prelude lists the packages imported into every interpreter before user
// code runs.
var Prelude = []string{
	"fmt",
	"strings",
	"strconv",
	"math",
	"sort",
	"regexp",
	"time",
	"os",
	"path/filepath",
	"encoding/csv",
	"encoding/json",
	"image",
	"image/color",
	"image/png",
}

// newInterpreter returns an interpreter with the standard library available
// and the prelude imported, writing output to w.
func newInterpreter(w io.Writer) (*interp.Interpreter, error) {
	i := interp.New(interp.Options{Stdout: w, Stderr: w})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("load stdlib symbols: %w", err)
	}
	for _, pkg := range Prelude {
		if _, err := i.Eval(fmt.Sprintf("import %q", pkg)); err != nil {
			return nil, fmt.Errorf("import %s: %w", pkg, err)
		}
	}
	return i, nil
}

// eval runs code and converts panics that escape the interpreter into errors.
// A panic can only be recovered on the calling goroutine, so code that starts
// goroutines of its own is refused before it runs.
func eval(ctx context.Context, i *interp.Interpreter, code string) (err error) {
	if spawnsGoroutine(code) {
		return toolerr.New(toolerr.KindExecution, "goroutines are not supported in the sandbox")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	_, err = i.EvalWithContext(ctx, code)
	return err
}

// spawnsGoroutine reports whether code contains a go statement or schedules
// a callback with time.AfterFunc. Scan errors are left for the interpreter.
func spawnsGoroutine(code string) bool {
	var s scanner.Scanner
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(code))
	s.Init(file, []byte(code), nil, 0)
	for {
		_, tok, lit := s.Scan()
		switch {
		case tok == token.EOF:
			return false
		case tok == token.GO:
			return true
		case tok == token.IDENT && lit == "AfterFunc":
			return true
		}
	}
}

// syncBuffer is a bytes.Buffer that an interpreter abandoned by a cancelled
// context may still write to.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// Package toolerr defines the failure kinds a tool can report.
//
// Core packages return *Error values; the tool boundary renders them as
// "Error: <message>" text so the calling model can read and react to them.
package toolerr

import (
	"errors"
	"fmt"
)

// Kind classifies a tool failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindNoMatch
	KindAmbiguous
	KindInvalidPattern
	KindOutOfRange
	KindAnchorNotFound
	KindNoBackup
	KindFileNotFound
	KindExecution
	KindInvalidRequest
	KindIO
)

var kindNames = map[Kind]string{
	KindUnknown:        "Unknown",
	KindNotFound:       "NotFound",
	KindNoMatch:        "NoMatch",
	KindAmbiguous:      "Ambiguous",
	KindInvalidPattern: "InvalidPattern",
	KindOutOfRange:     "OutOfRange",
	KindAnchorNotFound: "AnchorNotFound",
	KindNoBackup:       "NoBackup",
	KindFileNotFound:   "FileNotFound",
	KindExecution:      "ExecutionError",
	KindInvalidRequest: "InvalidRequest",
	KindIO:             "IO",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a classified tool failure. Msg is what the model sees.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports a match when target is an *Error of the same kind, so callers
// can test against the sentinels below with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Msg == "" && t.Err == nil
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrNoMatch        = &Error{Kind: KindNoMatch}
	ErrAmbiguous      = &Error{Kind: KindAmbiguous}
	ErrInvalidPattern = &Error{Kind: KindInvalidPattern}
	ErrOutOfRange     = &Error{Kind: KindOutOfRange}
	ErrAnchorNotFound = &Error{Kind: KindAnchorNotFound}
	ErrNoBackup       = &Error{Kind: KindNoBackup}
	ErrFileNotFound   = &Error{Kind: KindFileNotFound}
	ErrExecution      = &Error{Kind: KindExecution}
	ErrInvalidRequest = &Error{Kind: KindInvalidRequest}
	ErrIO             = &Error{Kind: KindIO}
)

// New creates an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message renders err the way tool results report failures.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return "Error: " + err.Error()
}

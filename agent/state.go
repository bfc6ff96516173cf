// Package agent defines the session state, messages, tool contract and hook
// chain shared by the toolkit and its callers.
package agent

import (
	"maps"

	"github.com/priyank1574q/agent-vinod/sandbox"
)

// State holds the full session state for a thread.
type State struct {
	ThreadID    string            `json:"thread_id"`
	Messages    Messages          `json:"messages"`
	Files       map[string]string `json:"files"`        // path → content
	FilesBackup map[string]string `json:"files_backup"` // path → pre-edit content
	Images      map[string]string `json:"images"`       // path → data URI
	Todos       []Todo            `json:"todos"`

	// Namespace is the REPL session. It lives only in memory.
	Namespace *sandbox.Session `json:"-"`
}

// Todo statuses.
const (
	TodoPending    = "pending"
	TodoInProgress = "in_progress"
	TodoCompleted  = "completed"
)

// Todo is one task in the todo list.
type Todo struct {
	Content string `json:"content"`
	Status  string `json:"status"`
}

// ValidTodoStatus reports whether s is a known todo status.
func ValidTodoStatus(s string) bool {
	switch s {
	case TodoPending, TodoInProgress, TodoCompleted:
		return true
	}
	return false
}

// NewState returns an empty state for threadID.
func NewState(threadID string) *State {
	return &State{
		ThreadID:    threadID,
		Messages:    Messages{},
		Files:       map[string]string{},
		FilesBackup: map[string]string{},
		Images:      map[string]string{},
		Todos:       []Todo{},
	}
}

// Command is the state delta a tool returns. Files and Images merge into the
// state; FilesBackup, Namespace and Todos replace it when non-nil.
type Command struct {
	Messages    []Message         `json:"messages"`
	Files       map[string]string `json:"files,omitempty"`
	FilesBackup map[string]string `json:"files_backup,omitempty"`
	Images      map[string]string `json:"images,omitempty"`
	Todos       []Todo            `json:"todos,omitempty"`
	Namespace   *sandbox.Session  `json:"-"`

	// Outcome is "ok" or the failure kind, for logging and metrics.
	Outcome string `json:"-"`
}

// Message returns the single tool message of the delta.
func (c *Command) Message() Message {
	if c == nil || len(c.Messages) == 0 {
		return Message{}
	}
	return c.Messages[0]
}

// Apply folds a tool delta into the state.
func (s *State) Apply(c *Command) {
	if c == nil {
		return
	}
	s.Messages = append(s.Messages, c.Messages...)
	if len(c.Files) > 0 {
		if s.Files == nil {
			s.Files = make(map[string]string, len(c.Files))
		}
		maps.Copy(s.Files, c.Files)
	}
	if len(c.Images) > 0 {
		if s.Images == nil {
			s.Images = make(map[string]string, len(c.Images))
		}
		maps.Copy(s.Images, c.Images)
	}
	if c.FilesBackup != nil {
		s.FilesBackup = maps.Clone(c.FilesBackup)
	}
	if c.Todos != nil {
		s.Todos = append([]Todo(nil), c.Todos...)
	}
	if c.Namespace != nil {
		s.Namespace = c.Namespace
	}
}

// Clone returns a copy whose maps and slices can be changed independently.
// The REPL session is shared, since an interpreter cannot be copied.
func (s *State) Clone() *State {
	out := &State{
		ThreadID:    s.ThreadID,
		Messages:    append(Messages(nil), s.Messages...),
		Files:       cloneMap(s.Files),
		FilesBackup: cloneMap(s.FilesBackup),
		Images:      cloneMap(s.Images),
		Todos:       append([]Todo(nil), s.Todos...),
		Namespace:   s.Namespace,
	}
	return out
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return maps.Clone(m)
}

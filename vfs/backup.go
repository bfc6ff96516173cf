package vfs

import "github.com/priyank1574q/agent-vinod/toolerr"

// Backups holds at most one pre-edit snapshot per path. Values are never
// modified in place: Snapshot and Pop return a new map so a Backups value
// held by a session state is safe to share.
type Backups map[string]string

// Snapshot returns a copy of b with content recorded for path, replacing any
// earlier snapshot.
func (b Backups) Snapshot(path, content string) Backups {
	out := make(Backups, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	out[path] = content
	return out
}

// Pop returns the snapshot for path and a copy of b without it.
func (b Backups) Pop(path string) (string, Backups, error) {
	content, ok := b[path]
	if !ok {
		return "", b, toolerr.New(toolerr.KindNoBackup, "No backup found for file '%s'.", path)
	}
	out := make(Backups, len(b))
	for k, v := range b {
		if k != path {
			out[k] = v
		}
	}
	return content, out, nil
}

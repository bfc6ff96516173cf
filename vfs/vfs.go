// Package vfs is the agent's view of the filesystem: a map of logical paths
// to content, backed by a physical layer for registration and writes.
//
// The physical layer is a FileSystem (LocalFS on the host). The virtual layer
// is the session's files map; Store reads it but never mutates it, returning
// entries for the caller to fold into session state.
package vfs

import (
	"context"
	"errors"
	"time"
)

// ErrNotText is returned by ReadFile for content that is not valid UTF-8 and
// for directories.
var ErrNotText = errors.New("not a text file")

// FileSystem is the physical filesystem layer.
type FileSystem interface {
	Stat(ctx context.Context, path string) (*DirEntry, error)
	Ls(ctx context.Context, path string) ([]DirEntry, error)
	ReadFile(ctx context.Context, path string) (string, error)
	ReadBytes(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path, content string) (*WriteResult, error)
	ResolvePath(path string) (string, error)
}

// DirEntry represents a single directory listing entry.
type DirEntry struct {
	Name    string    `json:"name"`
	Type    string    `json:"type"` // "file", "dir", or "symlink"
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// IsDir reports whether the entry is a directory.
func (e DirEntry) IsDir() bool { return e.Type == "dir" }

// WriteResult is returned by WriteFile.
type WriteResult struct {
	Path         string `json:"path"`
	BytesWritten int    `json:"bytes_written"`
}

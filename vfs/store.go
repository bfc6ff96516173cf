package vfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/priyank1574q/agent-vinod/toolerr"
)

// Store implements the virtual file operations over a session's files map.
// It holds no session data of its own and is safe for concurrent use.
type Store struct {
	fs  FileSystem
	now func() time.Time
}

// NewStore creates a store backed by the given physical filesystem.
func NewStore(fsys FileSystem) *Store {
	return &Store{fs: fsys, now: time.Now}
}

// FS returns the physical filesystem layer.
func (s *Store) FS() FileSystem { return s.fs }

// Register verifies that path exists on disk and returns the entry to record
// for it. A path already present in files keeps its content, so registering
// twice yields the same entry.
func (s *Store) Register(ctx context.Context, files map[string]string, path string) (string, error) {
	if _, err := s.fs.Stat(ctx, path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", toolerr.Wrap(toolerr.KindNotFound, err, "File not found at '%s'. Please verify the path.", path)
		}
		return "", toolerr.Wrap(toolerr.KindNotFound, err, "File not found at '%s': %v", path, err)
	}
	if existing, ok := files[path]; ok {
		return existing, nil
	}
	return fmt.Sprintf("User-provided file, verified to exist at %s.", s.now().Format(time.RFC3339)), nil
}

// Write persists content at path on disk. The caller mirrors content into
// files whether or not the disk write succeeded.
func (s *Store) Write(ctx context.Context, path, content string) (*WriteResult, error) {
	res, err := s.fs.WriteFile(ctx, path, content)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.KindIO, err, "could not write '%s' to disk: %v", path, err)
	}
	return res, nil
}

// Resolve expands patterns against the keys of files. Patterns containing
// '*', '?' or '[' are matched with shell semantics where '*' also crosses
// '/'. A literal resolves to itself when it is a key, otherwise to every key
// under it as a directory prefix. Blank patterns match nothing. The result is
// sorted and de-duplicated.
func Resolve(files map[string]string, patterns []string) ([]string, error) {
	found := make(map[string]struct{})
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if strings.ContainsAny(p, "*?[") {
			g, err := glob.Compile(p)
			if err != nil {
				return nil, toolerr.Wrap(toolerr.KindInvalidPattern, err, "Invalid glob pattern '%s': %v", p, err)
			}
			for k := range files {
				if g.Match(k) {
					found[k] = struct{}{}
				}
			}
			continue
		}
		if _, ok := files[p]; ok {
			found[p] = struct{}{}
			continue
		}
		prefix := strings.TrimSuffix(p, "/") + "/"
		for k := range files {
			if strings.HasPrefix(k, prefix) {
				found[k] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(found))
	for k := range found {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

// List returns the keys of files in sorted order.
func List(files map[string]string) []string {
	out := make([]string, 0, len(files))
	for k := range files {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

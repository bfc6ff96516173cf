package sandbox

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/yargevad/filepathx"

	"github.com/priyank1574q/agent-vinod/vfs"
)

// dirLiteral matches absolute directory paths quoted in source, such as
// "/data/out/".
var dirLiteral = regexp.MustCompile("[\"'`](/[^\"'`\n]+/)[\"'`]")

// monitor diffs directory listings taken before and after a run.
type monitor struct {
	fs             vfs.FileSystem
	detectModified bool
	before         map[string]map[string]vfs.DirEntry
}

// monitoredDirs returns the directories to watch for one run: the output
// directory, the configured globs and, when infer is set, absolute directory
// literals found in code. Entries that are not existing directories are
// dropped.
func monitoredDirs(ctx context.Context, fsys vfs.FileSystem, opts Options, code string) []string {
	candidates := map[string]struct{}{}
	if opts.OutputDir != "" {
		candidates[filepath.Clean(opts.OutputDir)] = struct{}{}
	}
	for _, pattern := range opts.MonitorDirs {
		matches, err := filepathx.Glob(pattern)
		if err != nil {
			continue
		}
		for _, m := range matches {
			candidates[filepath.Clean(m)] = struct{}{}
		}
	}
	if opts.InferFromCode {
		for _, m := range dirLiteral.FindAllStringSubmatch(code, -1) {
			candidates[filepath.Clean(m[1])] = struct{}{}
		}
	}

	dirs := make([]string, 0, len(candidates))
	for d := range candidates {
		info, err := fsys.Stat(ctx, d)
		if err != nil || !info.IsDir() {
			continue
		}
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

func newMonitor(ctx context.Context, fsys vfs.FileSystem, dirs []string, detectModified bool) *monitor {
	m := &monitor{fs: fsys, detectModified: detectModified, before: map[string]map[string]vfs.DirEntry{}}
	for _, d := range dirs {
		if listing, err := m.list(ctx, d); err == nil {
			m.before[d] = listing
		}
	}
	return m
}

func (m *monitor) list(ctx context.Context, dir string) (map[string]vfs.DirEntry, error) {
	entries, err := m.fs.Ls(ctx, dir)
	if err != nil {
		return nil, err
	}
	out := make(map[string]vfs.DirEntry, len(entries))
	for _, e := range entries {
		out[e.Name] = e
	}
	return out, nil
}

// changes re-lists every directory snapshotted before the run and returns
// the content of new entries, keyed by full path. Modified entries are
// included when detectModified is set.
func (m *monitor) changes(ctx context.Context) map[string]string {
	found := map[string]string{}
	for dir, before := range m.before {
		after, err := m.list(ctx, dir)
		if err != nil {
			continue
		}
		for name, e := range after {
			prev, existed := before[name]
			if existed && !(m.detectModified && changed(prev, e)) {
				continue
			}
			full := filepath.Join(dir, name)
			found[full] = m.readBack(ctx, full)
		}
	}
	return found
}

func changed(a, b vfs.DirEntry) bool {
	if a.IsDir() || b.IsDir() {
		return false
	}
	return a.Size != b.Size || !a.ModTime.Equal(b.ModTime)
}

func (m *monitor) readBack(ctx context.Context, path string) string {
	content, err := m.fs.ReadFile(ctx, path)
	switch {
	case err == nil:
		return content
	case errors.Is(err, vfs.ErrNotText):
		return BinaryMarker(path)
	default:
		return fmt.Sprintf("Error reading file: %v", err)
	}
}

// BinaryMarker is the content recorded for detected files that are not text.
func BinaryMarker(path string) string {
	return "Binary content or directory at " + path
}

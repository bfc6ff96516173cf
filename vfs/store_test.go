package vfs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyank1574q/agent-vinod/toolerr"
)

func TestStore_Register(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0644))

	s := NewStore(NewLocalFS(dir))
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	ctx := context.Background()

	t.Run("placeholder", func(t *testing.T) {
		entry, err := s.Register(ctx, nil, path)
		require.NoError(t, err)
		assert.Equal(t, "User-provided file, verified to exist at 2026-01-02T03:04:05Z.", entry)
	})

	t.Run("idempotent", func(t *testing.T) {
		files := map[string]string{}
		first, err := s.Register(ctx, files, path)
		require.NoError(t, err)
		files[path] = first

		s.now = func() time.Time { return time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC) }
		second, err := s.Register(ctx, files, path)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("missing", func(t *testing.T) {
		files := map[string]string{"/keep": "x"}
		_, err := s.Register(ctx, files, filepath.Join(dir, "nope.csv"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, toolerr.ErrNotFound))
		assert.Equal(t, map[string]string{"/keep": "x"}, files)
	})
}

func TestStore_Write(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(NewLocalFS(dir))

	res, err := s.Write(context.Background(), filepath.Join(dir, "out", "r.txt"), "report")
	require.NoError(t, err)
	assert.Equal(t, 6, res.BytesWritten)

	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	_, err = s.Write(context.Background(), filepath.Join(blocker, "child.txt"), "x")
	assert.Equal(t, toolerr.KindIO, toolerr.KindOf(err))
}

func TestResolve(t *testing.T) {
	files := map[string]string{
		"/data/a.csv":       "",
		"/data/b.csv":       "",
		"/data/sub/c.csv":   "",
		"/out/report.md":    "",
		"/dataset/other.md": "",
	}

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{"literal", []string{"/out/report.md"}, []string{"/out/report.md"}},
		{"star crosses slash", []string{"/data/*.csv"}, []string{"/data/a.csv", "/data/b.csv", "/data/sub/c.csv"}},
		{"question mark", []string{"/data/?.csv"}, []string{"/data/a.csv", "/data/b.csv"}},
		{"character class", []string{"/data/[a].csv"}, []string{"/data/a.csv"}},
		{"directory prefix", []string{"/data"}, []string{"/data/a.csv", "/data/b.csv", "/data/sub/c.csv"}},
		{"directory prefix with slash", []string{"/data/sub/"}, []string{"/data/sub/c.csv"}},
		{"dedup", []string{"/data/a.csv", "/data/a*"}, []string{"/data/a.csv"}},
		{"unknown", []string{"/missing.txt"}, []string{}},
		{"empty pattern", []string{""}, []string{}},
		{"blank pattern next to literal", []string{"  ", "/out/report.md"}, []string{"/out/report.md"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(files, tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("bad glob", func(t *testing.T) {
		_, err := Resolve(files, []string{"/data/[a.csv"})
		assert.True(t, errors.Is(err, toolerr.ErrInvalidPattern))
	})
}

func TestRead(t *testing.T) {
	files := map[string]string{
		"/a.txt":    "Line 1\nLine 2\nLine 3",
		"/b.txt":    "alpha\n  beta Line\n",
		"/e.txt":    "",
		"/long.txt": strings.Repeat("x", 2005),
	}

	t.Run("find", func(t *testing.T) {
		out, err := Read(files, Find{Paths: []string{"/*.txt"}})
		require.NoError(t, err)
		assert.Equal(t, "Found 4 files:\n/a.txt\n/b.txt\n/e.txt\n/long.txt", out)
	})

	t.Run("find nothing is not an error", func(t *testing.T) {
		out, err := Read(files, Find{Paths: []string{"/x", "/y"}})
		require.NoError(t, err)
		assert.Equal(t, "No files found matching: /x, /y", out)
	})

	t.Run("view", func(t *testing.T) {
		out, err := Read(files, View{Paths: []string{"/a.txt"}, StartLine: 1, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, "--- Content of /a.txt (lines 2-2) ---\n     2\tLine 2", out)
	})

	t.Run("view truncates long lines", func(t *testing.T) {
		out, err := Read(files, View{Paths: []string{"/long.txt"}, Limit: DefaultViewLimit})
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(out, strings.Repeat("x", 2000)+" [TRUNCATED]"))
	})

	t.Run("search", func(t *testing.T) {
		out, err := Read(files, Search{Paths: []string{"/a.txt", "/b.txt"}, Pattern: "Line"})
		require.NoError(t, err)
		want := "Searching for 'Line' in 2 file(s)...\n" +
			"\nMatches in /a.txt:\n" +
			"       1: Line 1\n       2: Line 2\n       3: Line 3\n" +
			"\nMatches in /b.txt:\n" +
			"       2: beta Line\n" +
			"\n--- Search complete. Found 4 total matches. ---"
		assert.Equal(t, want, out)
	})

	t.Run("stats", func(t *testing.T) {
		out, err := Read(files, Stats{Paths: []string{"/a.txt", "/e.txt"}})
		require.NoError(t, err)
		want := "--- File Statistics ---\n" +
			"\n/a.txt:\n  - Line Count: 3\n  - Size: 20 bytes (~0.02 KB)\n" +
			"\n/e.txt:\n  Error: Could not read file."
		assert.Equal(t, want, out)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := Read(files, View{Paths: []string{"/zzz"}, Limit: 10})
		require.Error(t, err)
		assert.True(t, errors.Is(err, toolerr.ErrNoMatch))
		assert.Equal(t, "No files found matching patterns: ['/zzz']", err.Error())
	})

	t.Run("empty path matches nothing", func(t *testing.T) {
		_, err := Read(files, View{Paths: []string{""}, Limit: 10})
		assert.True(t, errors.Is(err, toolerr.ErrNoMatch))
	})
}

func TestParseRead(t *testing.T) {
	t.Run("defaults to view", func(t *testing.T) {
		req, err := ParseRead("", []string{"/a"}, "", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, View{Paths: []string{"/a"}, Limit: DefaultViewLimit}, req)
	})

	t.Run("search needs pattern", func(t *testing.T) {
		_, err := ParseRead("search", []string{"/a"}, "", 0, 0)
		assert.True(t, errors.Is(err, toolerr.ErrInvalidRequest))
	})

	t.Run("negative start", func(t *testing.T) {
		_, err := ParseRead("view", []string{"/a"}, "", -1, 0)
		assert.True(t, errors.Is(err, toolerr.ErrOutOfRange))
	})

	t.Run("invalid mode", func(t *testing.T) {
		_, err := ParseRead("grep", []string{"/a"}, "", 0, 0)
		require.Error(t, err)
		assert.Equal(t, "Invalid mode 'grep'. Available modes: find, view, search, stats.", err.Error())
	})

	t.Run("no paths", func(t *testing.T) {
		_, err := ParseRead("find", nil, "", 0, 0)
		assert.True(t, errors.Is(err, toolerr.ErrInvalidRequest))
	})
}

func TestBackups(t *testing.T) {
	var b Backups
	b1 := b.Snapshot("/a", "v1")
	b2 := b1.Snapshot("/a", "v2")

	assert.Equal(t, "v1", b1["/a"], "snapshot must not modify the receiver")
	assert.Equal(t, "v2", b2["/a"])

	content, b3, err := b2.Pop("/a")
	require.NoError(t, err)
	assert.Equal(t, "v2", content)
	assert.NotContains(t, b3, "/a")
	assert.Contains(t, b2, "/a")

	_, _, err = b3.Pop("/a")
	assert.True(t, errors.Is(err, toolerr.ErrNoBackup))
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\r\n\rb"))
	assert.True(t, HasTrailingNewline("x\n"))
	assert.False(t, HasTrailingNewline("x"))
}

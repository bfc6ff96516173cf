package vfs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS_ResolvePath(t *testing.T) {
	dir := t.TempDir()
	fs := NewLocalFS(dir)

	t.Run("relative", func(t *testing.T) {
		resolved, err := fs.ResolvePath("foo/bar.txt")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "foo/bar.txt"), resolved)
	})

	t.Run("escape", func(t *testing.T) {
		_, err := fs.ResolvePath("../../etc/passwd")
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		resolved, err := fs.ResolvePath("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Clean(dir), resolved)
	})

	t.Run("absolute", func(t *testing.T) {
		resolved, err := fs.ResolvePath("/tmp/x/../y.txt")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/y.txt", resolved)
	})
}

func TestLocalFS_Ls(t *testing.T) {
	fs := NewLocalFS(t.TempDir())
	ctx := context.Background()

	t.Run("empty dir", func(t *testing.T) {
		entries, err := fs.Ls(ctx, t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("with files and dirs", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hi"), 0644))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0755))

		entries, err := fs.Ls(ctx, dir)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		found := map[string]DirEntry{}
		for _, e := range entries {
			found[e.Name] = e
		}
		assert.Equal(t, "file", found["hello.txt"].Type)
		assert.EqualValues(t, 2, found["hello.txt"].Size)
		assert.False(t, found["hello.txt"].ModTime.IsZero())
		assert.True(t, found["subdir"].IsDir())
	})

	t.Run("nonexistent path", func(t *testing.T) {
		_, err := fs.Ls(ctx, "/nonexistent-path-12345")
		assert.Error(t, err)
	})
}

func TestLocalFS_ReadFile(t *testing.T) {
	dir := t.TempDir()
	fs := NewLocalFS(dir)
	ctx := context.Background()

	t.Run("utf8 content", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "test.txt"), []byte("hello world"), 0644))
		content, err := fs.ReadFile(ctx, "test.txt")
		require.NoError(t, err)
		assert.Equal(t, "hello world", content)
	})

	t.Run("binary content", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "test.bin"), []byte{0xff, 0xfe, 0x00, 0x01}, 0644))
		_, err := fs.ReadFile(ctx, "test.bin")
		assert.True(t, errors.Is(err, ErrNotText))

		raw, err := fs.ReadBytes(ctx, "test.bin")
		require.NoError(t, err)
		assert.Equal(t, []byte{0xff, 0xfe, 0x00, 0x01}, raw)
	})

	t.Run("directory", func(t *testing.T) {
		require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
		_, err := fs.ReadFile(ctx, "sub")
		assert.True(t, errors.Is(err, ErrNotText))
	})
}

func TestLocalFS_WriteFile(t *testing.T) {
	dir := t.TempDir()
	fs := NewLocalFS(dir)
	ctx := context.Background()

	res, err := fs.WriteFile(ctx, "a/b/c.txt", "nested")
	require.NoError(t, err)
	assert.Equal(t, 6, res.BytesWritten)
	assert.Equal(t, filepath.Join(dir, "a/b/c.txt"), res.Path)

	data, err := os.ReadFile(filepath.Join(dir, "a/b/c.txt"))
	require.NoError(t, err)
	assert.Equal(t, "nested", string(data))

	matches, _ := filepath.Glob(filepath.Join(dir, "a/b/.wick-tmp-*"))
	assert.Empty(t, matches, "temp files must not be left behind")
}

package vfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// LocalFS implements FileSystem using direct Go stdlib calls.
// Relative paths resolve against Root; absolute paths are used as given.
type LocalFS struct {
	Root string
}

// NewLocalFS creates a local filesystem rooted at root. An empty root means
// the process working directory.
func NewLocalFS(root string) *LocalFS {
	if root == "" {
		root, _ = os.Getwd()
	}
	if !filepath.IsAbs(root) {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	return &LocalFS{Root: filepath.Clean(root)}
}

// ResolvePath maps path onto the host filesystem. Relative paths may not
// escape Root.
func (fs *LocalFS) ResolvePath(path string) (string, error) {
	if path == "" {
		return fs.Root, nil
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	resolved := filepath.Join(fs.Root, path)
	rel, err := filepath.Rel(fs.Root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes workdir %q", path, fs.Root)
	}
	return resolved, nil
}

// Stat returns the entry for path.
func (fs *LocalFS) Stat(_ context.Context, path string) (*DirEntry, error) {
	resolved, err := fs.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, err
	}
	e := entryFromInfo(info)
	return &e, nil
}

// Ls lists directory entries at path.
func (fs *LocalFS) Ls(_ context.Context, path string) ([]DirEntry, error) {
	resolved, err := fs.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(resolved)
	if err != nil {
		return nil, err
	}

	result := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		result = append(result, entryFromInfo(info))
	}
	return result, nil
}

func entryFromInfo(info os.FileInfo) DirEntry {
	typ := "file"
	if info.IsDir() {
		typ = "dir"
	} else if info.Mode()&os.ModeSymlink != 0 {
		typ = "symlink"
	}
	return DirEntry{
		Name:    info.Name(),
		Type:    typ,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}

// ReadFile reads a text file. Directories and content that is not valid
// UTF-8 return ErrNotText.
func (fs *LocalFS) ReadFile(ctx context.Context, path string) (string, error) {
	data, err := fs.ReadBytes(ctx, path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", ErrNotText
	}
	return string(data), nil
}

// ReadBytes reads the raw content of path.
func (fs *LocalFS) ReadBytes(_ context.Context, path string) ([]byte, error) {
	resolved, err := fs.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, ErrNotText
	}
	return os.ReadFile(resolved)
}

// WriteFile atomically writes content to path, creating parent directories as needed.
func (fs *LocalFS) WriteFile(_ context.Context, path, content string) (*WriteResult, error) {
	resolved, err := fs.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".wick-tmp-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	_, err = tmp.WriteString(content)
	tmp.Close()
	if err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("failed to write: %w", err)
	}

	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpName, resolved); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("failed to rename: %w", err)
	}

	return &WriteResult{Path: resolved, BytesWritten: len(content)}, nil
}

package toolerr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	err := New(KindNoBackup, "No backup found for file '%s'.", "/a.txt")

	assert.True(t, errors.Is(err, ErrNoBackup))
	assert.False(t, errors.Is(err, ErrNotFound))

	wrapped := fmt.Errorf("undo: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNoBackup))
	assert.Equal(t, KindNoBackup, KindOf(wrapped))
}

func TestWrap_Unwrap(t *testing.T) {
	err := Wrap(KindFileNotFound, fs.ErrNotExist, "Data file not found at '%s'.", "/data/x.csv")

	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.Equal(t, "Data file not found at '/data/x.csv'.", err.Error())
}

func TestKindOf_Plain(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	assert.Equal(t, "ExecutionError", KindExecution.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "Error: File '/x' not found", Message(New(KindNotFound, "File '/x' not found")))
}

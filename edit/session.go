package edit

import (
	"github.com/priyank1574q/agent-vinod/toolerr"
	"github.com/priyank1574q/agent-vinod/vfs"
)

// Outcome carries the state changes of a successful edit or undo.
type Outcome struct {
	Path    string
	Content string
	Backups vfs.Backups
	Result  Result
}

// File edits path within files. On success the pre-edit content becomes the
// path's single backup, replacing any earlier one. On failure neither files
// nor backups change.
func File(files map[string]string, backups vfs.Backups, path string, req Request) (Outcome, error) {
	current, ok := files[path]
	if !ok {
		return Outcome{}, toolerr.New(toolerr.KindNotFound, "File '%s' not found", path)
	}
	res, err := Apply(current, req)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Path:    path,
		Content: res.Content,
		Backups: backups.Snapshot(path, current),
		Result:  res,
	}, nil
}

// Undo restores path from its backup and drops the backup, so a second undo
// without an edit in between fails with NoBackup.
func Undo(backups vfs.Backups, path string) (Outcome, error) {
	content, rest, err := backups.Pop(path)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Path: path, Content: content, Backups: rest}, nil
}

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/priyank1574q/agent-vinod/agent"
	"github.com/priyank1574q/agent-vinod/edit"
	"github.com/priyank1574q/agent-vinod/toolerr"
	"github.com/priyank1574q/agent-vinod/vfs"
)

const registerFileDesc = `Verifies that a file exists at the given path and adds it to the agent's
internal file memory. This MUST be the first step before reading or analyzing
any file provided by the user.`

const lsDesc = "List all files in the agent's file memory."

const readFileDesc = `Reads files from the agent's file memory using various modes. This tool can operate on multiple files at once using glob patterns.

Usage:
- Provide a list of paths or glob patterns (e.g., ["src/main.go"], ["data/*.csv"]).
- Choose a 'mode' to specify the action to perform.

MODES:
1. ` + "`view`" + ` (default):
   - Reads and displays the content of the specified files with line numbers.
   - Use ` + "`start_line`" + ` (0-based) and ` + "`limit`" + ` to read parts of large files.
2. ` + "`find`" + `:
   - Lists all files matching the given paths/patterns.
3. ` + "`search`" + `:
   - Returns the lines that contain ` + "`search_pattern`" + ` (required for this mode).
4. ` + "`stats`" + `:
   - Provides line count and size for each file.`

const writeFileDesc = "Write content to a file. Creates the file and parent directories if they don't exist, and records the content in file memory."

const editFileDesc = `Performs precise edits on a file using different modes.
This tool automatically creates a one-time backup before any modification, which can be restored using the ` + "`undo_edit`" + ` tool.

MODES:
1. ` + "`replace`" + `:
   - Replaces the first occurrence of ` + "`old_string`" + ` with ` + "`new_string`" + `. The string must be unique unless ` + "`replace_all`" + ` is set.
2. ` + "`regex_replace`" + `:
   - Replaces all matches of the regex ` + "`old_string`" + ` with ` + "`new_string`" + `. Use $1 or \1 for groups.
3. ` + "`insert`" + `:
   - Inserts ` + "`new_string`" + ` on a new line.
   - Use EITHER ` + "`insert_line`" + ` (line number) OR ` + "`insert_after`" + ` (text from the line above) to specify location.`

const undoEditDesc = "Undoes the most recent change to a file by restoring it from the backup."

// RegisterFileArgs are the arguments of register_file.
type RegisterFileArgs struct {
	FilePath string `json:"file_path" jsonschema:"required" jsonschema_description:"Path of the file on disk."`
}

// LsArgs are the arguments of ls.
type LsArgs struct{}

// ReadFileArgs are the arguments of read_file.
type ReadFileArgs struct {
	Paths         []string `json:"paths" jsonschema:"required" jsonschema_description:"A list of file paths or glob patterns to target."`
	Mode          string   `json:"mode,omitempty" jsonschema:"enum=view,enum=find,enum=search,enum=stats" jsonschema_description:"The mode of operation."`
	SearchPattern string   `json:"search_pattern,omitempty" jsonschema_description:"The string to search for in 'search' mode."`
	StartLine     int      `json:"start_line,omitempty" jsonschema_description:"The 0-based starting line for 'view' mode."`
	Limit         int      `json:"limit,omitempty" jsonschema_description:"The maximum number of lines to show per file in 'view' mode (default 4000)."`
}

// WriteFileArgs are the arguments of write_file.
type WriteFileArgs struct {
	FilePath string `json:"file_path" jsonschema:"required" jsonschema_description:"Path to write."`
	Content  string `json:"content" jsonschema:"required" jsonschema_description:"Content to write."`
}

// EditFileArgs are the arguments of edit_file.
type EditFileArgs struct {
	FilePath    string  `json:"file_path" jsonschema:"required" jsonschema_description:"The path to the file to be edited."`
	Mode        string  `json:"mode" jsonschema:"required,enum=replace,enum=insert,enum=regex_replace" jsonschema_description:"The edit mode."`
	OldString   *string `json:"old_string,omitempty" jsonschema_description:"The string to be replaced or the regex pattern. Required for 'replace' and 'regex_replace' modes."`
	NewString   *string `json:"new_string,omitempty" jsonschema_description:"The new string to insert or replace with."`
	InsertLine  *int    `json:"insert_line,omitempty" jsonschema_description:"The line number after which new_string is inserted (0 inserts at the top). Used in 'insert' mode."`
	InsertAfter *string `json:"insert_after,omitempty" jsonschema_description:"new_string is inserted on the line after the first line containing this text. Used in 'insert' mode."`
	ReplaceAll  bool    `json:"replace_all,omitempty" jsonschema_description:"Replace every occurrence in 'replace' mode."`
}

// UndoEditArgs are the arguments of undo_edit.
type UndoEditArgs struct {
	FilePath string `json:"file_path" jsonschema:"required" jsonschema_description:"The file whose last edit is reverted."`
}

func requirePath(p string) error {
	if strings.TrimSpace(p) == "" {
		return toolerr.New(toolerr.KindInvalidRequest, "'file_path' is required.")
	}
	return nil
}

func (k *Toolkit) registerFile(ctx context.Context, state *agent.State, args RegisterFileArgs) (*agent.Command, error) {
	if err := requirePath(args.FilePath); err != nil {
		return nil, err
	}
	entry, err := k.store.Register(ctx, state.Files, args.FilePath)
	if err != nil {
		return nil, err
	}
	cmd := reply("Successfully registered file: " + args.FilePath)
	cmd.Files = map[string]string{args.FilePath: entry}
	return cmd, nil
}

func (k *Toolkit) ls(_ context.Context, state *agent.State, _ LsArgs) (*agent.Command, error) {
	return reply(vfs.QuoteList(vfs.List(state.Files))), nil
}

func (k *Toolkit) readFile(_ context.Context, state *agent.State, args ReadFileArgs) (*agent.Command, error) {
	req, err := vfs.ParseRead(args.Mode, args.Paths, args.SearchPattern, args.StartLine, args.Limit)
	if err != nil {
		return nil, err
	}
	out, err := vfs.Read(state.Files, req)
	if err != nil {
		return nil, err
	}
	return reply(fenced("File operation result:", out)), nil
}

func (k *Toolkit) writeFile(ctx context.Context, _ *agent.State, args WriteFileArgs) (*agent.Command, error) {
	if err := requirePath(args.FilePath); err != nil {
		return nil, err
	}
	msg := "Updated file " + args.FilePath
	outcome := ""
	if _, err := k.store.Write(ctx, args.FilePath, args.Content); err != nil {
		k.logger.Warn("disk write failed", "path", args.FilePath, "error", err)
		msg += ". Warning: " + err.Error()
		outcome = toolerr.KindOf(err).String()
	}
	cmd := reply(msg)
	cmd.Files = map[string]string{args.FilePath: args.Content}
	cmd.Outcome = outcome
	return cmd, nil
}

func (k *Toolkit) editFile(_ context.Context, state *agent.State, args EditFileArgs) (*agent.Command, error) {
	if err := requirePath(args.FilePath); err != nil {
		return nil, err
	}
	req, err := edit.Parse(edit.Args{
		Mode:        args.Mode,
		OldString:   args.OldString,
		NewString:   args.NewString,
		InsertLine:  args.InsertLine,
		InsertAfter: args.InsertAfter,
		ReplaceAll:  args.ReplaceAll,
	})
	if err != nil {
		return nil, err
	}
	out, err := edit.File(state.Files, state.FilesBackup, args.FilePath, req)
	if err != nil {
		return nil, err
	}

	msg := "Successfully edited file: " + args.FilePath
	if out.Result.Diff != "" {
		msg += fmt.Sprintf("\n\n```diff\n%s```", out.Result.Diff)
	}
	cmd := reply(msg)
	cmd.Files = map[string]string{out.Path: out.Content}
	cmd.FilesBackup = out.Backups
	return cmd, nil
}

func (k *Toolkit) undoEdit(_ context.Context, state *agent.State, args UndoEditArgs) (*agent.Command, error) {
	if err := requirePath(args.FilePath); err != nil {
		return nil, err
	}
	out, err := edit.Undo(state.FilesBackup, args.FilePath)
	if err != nil {
		return nil, err
	}
	cmd := reply("Successfully reverted changes to file: " + args.FilePath)
	cmd.Files = map[string]string{out.Path: out.Content}
	cmd.FilesBackup = out.Backups
	return cmd, nil
}

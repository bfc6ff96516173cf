package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "orders.csv"), []byte("id,city\n1,Pune\n2,Delhi\n"), 0644))
	path := filepath.Join(dir, "wick.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workdir: .
log_level: error
data:
  datasets:
    - name: orders
      path: data/orders.csv
checkpoint:
  path: state/threads.db
`), 0644))
	return path
}

func runCLI(t *testing.T, args ...string) (int, envelope) {
	t.Helper()
	var out, log bytes.Buffer
	code := run(args, &out, &log)
	var env envelope
	if out.Len() > 0 {
		require.NoError(t, json.Unmarshal(out.Bytes(), &env), out.String())
	}
	return code, env
}

func TestCLI_CallAcrossInvocations(t *testing.T) {
	cfg := writeConfig(t)

	code, env := runCLI(t, "-c", cfg, "call", "write_file", "--thread", "t1",
		"--args", `{"file_path":"notes.txt","content":"alpha\nbeta\n"}`)
	require.Equal(t, 0, code)
	require.True(t, env.OK)

	var res callResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "t1", res.Thread)
	assert.Equal(t, "ok", res.Outcome)
	assert.Equal(t, "Updated file notes.txt", res.Message.Content)
	assert.Nil(t, res.Trace)

	code, env = runCLI(t, "-c", cfg, "call", "read_file", "-t", "t1", "--trace",
		"--args", `{"paths":["notes.txt"],"mode":"search","search_pattern":"beta"}`)
	require.Equal(t, 0, code)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Contains(t, res.Message.Content, "beta")
	require.NotNil(t, res.Trace)
	assert.Equal(t, "read_file", res.Trace.Method)

	code, env = runCLI(t, "-c", cfg, "threads")
	require.Equal(t, 0, code)
	var ids []string
	require.NoError(t, json.Unmarshal(env.Data, &ids))
	assert.Equal(t, []string{"t1"}, ids)
}

func TestCLI_ToolFailureKeepsEnvelope(t *testing.T) {
	cfg := writeConfig(t)

	code, env := runCLI(t, "-c", cfg, "call", "undo_edit", "--args", `{"file_path":"x.txt"}`)
	require.Equal(t, 0, code)
	var res callResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "NoBackup", res.Outcome)
	assert.Contains(t, res.Message.Content, "Error: ")

	code, env = runCLI(t, "-c", cfg, "call", "think", "--args", `not json`)
	assert.Equal(t, 1, code)
	assert.False(t, env.OK)
	assert.Contains(t, env.Error, "invalid --args")
}

func TestCLI_ToolsAndDict(t *testing.T) {
	cfg := writeConfig(t)

	code, env := runCLI(t, "-c", cfg, "tools")
	require.Equal(t, 0, code)
	var tools []toolInfo
	require.NoError(t, json.Unmarshal(env.Data, &tools))
	require.Len(t, tools, 12)
	assert.Equal(t, "register_file", tools[0].Name)
	assert.Equal(t, "object", tools[0].Parameters["type"])

	code, env = runCLI(t, "-c", cfg, "dict", "--table", "orders", "--column", "city")
	require.Equal(t, 0, code)
	var col map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &col))
	assert.Equal(t, "string", col["type"])

	code, env = runCLI(t, "-c", cfg, "dict", "--table", "missing")
	assert.Equal(t, 1, code)
	assert.False(t, env.OK)
	assert.NotEmpty(t, env.Error)
}

func TestCLI_Turn(t *testing.T) {
	cfg := writeConfig(t)
	msgFile := filepath.Join(t.TempDir(), "assistant.json")
	require.NoError(t, os.WriteFile(msgFile, []byte(`{
  "role": "assistant",
  "tool_calls": [
    {"id": "c1", "name": "write_file", "args": {"file_path": "a.txt", "content": "one"}},
    {"id": "c2", "name": "ls", "args": {}},
    {"id": "c3", "name": "think", "args": {"thought": "done"}}
  ]
}`), 0644))

	code, env := runCLI(t, "-c", cfg, "turn", "-t", "t2", "--message-file", msgFile)
	require.Equal(t, 0, code)
	var res turnResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Len(t, res.Messages, 3)
	assert.Equal(t, "c1", res.Messages[0].ToolCallID)
	assert.Equal(t, "['a.txt']", res.Messages[1].Content)
	assert.Equal(t, "Thinking: done", res.Messages[2].Content)
	assert.Equal(t, map[string]string{"c1": "ok", "c2": "ok", "c3": "ok"}, res.Outcomes)
	assert.NotEmpty(t, res.TraceID)

	bad := filepath.Join(t.TempDir(), "user.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"role":"user","content":"hi"}`), 0644))
	code, env = runCLI(t, "-c", cfg, "turn", "--message-file", bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, env.Error, "message role must be")
}

package datadict

import (
	"bytes"
	"encoding/json"
)

// JSON renders a dictionary fragment as indented JSON, keeping table and
// column order.
func JSON(fragment any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fragment); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
)

type response struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func writeOK(w io.Writer, data any) error {
	out, err := json.Marshal(response{OK: true, Data: data})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func writeError(w io.Writer, msg string) error {
	out, _ := json.Marshal(response{OK: false, Error: msg})
	fmt.Fprintln(w, string(out))
	return errReported
}

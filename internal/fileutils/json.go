// Package fileutils provides utility functions for handling JSON files and streams.
package fileutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ParseJSON unmarshals the data in r into v.
func ParseJSON(r io.Reader, v any) error {
	// Read the entire content of the io.Reader first to check for errors even if valid json is first.
	buf, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("error reading from io.Reader: %v", err)
	}

	err = json.Unmarshal(buf, v)
	if err != nil {
		return fmt.Errorf("couldn't parse JSON: %v", err)
	}
	return nil
}

// WriteJSONLine writes raw as a single compacted line of newline-delimited JSON to w.
// Compacting guarantees the record spans exactly one line regardless of how the
// server formatted it.
func WriteJSONLine(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return fmt.Errorf("couldn't compact JSON record: %v", err)
	}
	buf.WriteByte('\n')

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("couldn't write JSON record: %v", err)
	}
	return nil
}

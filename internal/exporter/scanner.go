package exporter

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// scanBufferSize is the maximum accepted length of a single log line.
const scanBufferSize = 4 * 1024 * 1024

// LatestTimestamp returns the most recent id.time value found in the
// newline-delimited JSON log file at path.
//
// It returns the zero time without an error when the file is absent or empty.
// A line that is not valid JSON, or that carries no id.time field, is an error.
func LatestTimestamp(path string) (time.Time, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	var latest time.Time

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), scanBufferSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var record struct {
			ID struct {
				Time string `json:"time"`
			} `json:"id"`
		}
		if err := json.Unmarshal(line, &record); err != nil {
			return time.Time{}, fmt.Errorf("malformed record in %s: %v", path, err)
		}
		if record.ID.Time == "" {
			return time.Time{}, fmt.Errorf("record in %s has no id.time field", path)
		}

		t, err := time.Parse(time.RFC3339, record.ID.Time)
		if err != nil {
			return time.Time{}, fmt.Errorf("record in %s has an invalid id.time: %v", path, err)
		}

		if t.After(latest) {
			latest = t
		}
	}
	if err := scanner.Err(); err != nil {
		return time.Time{}, fmt.Errorf("failed to read %s: %v", path, err)
	}

	return latest, nil
}

// Package audit records deployment check outcomes as JSON Lines (JSONL)
// files, one per target host. Recording is off unless an audit directory
// is configured.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// Record is a single check result entry.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Host      string    `json:"host"`
	Container string    `json:"container"`
	Outcome   string    `json:"outcome"`
	Attempts  int       `json:"attempts"`
	Details   string    `json:"details,omitempty"`
}

// Logger writes and reads check records. Records are stored in
// {dir}/{host}.checks.jsonl.
type Logger struct {
	dir string
}

// NewLogger creates an audit logger rooted at dir.
func NewLogger(dir string) *Logger {
	return &Logger{dir: dir}
}

// recordPath returns the JSONL log path for a host. The host name comes
// from user input, so it is resolved with SecureJoin to keep the result
// inside the audit directory.
func (l *Logger) recordPath(host string) (string, error) {
	path, err := securejoin.SecureJoin(l.dir, host+".checks.jsonl")
	if err != nil {
		return "", fmt.Errorf("failed to resolve audit log path: %w", err)
	}
	return path, nil
}

// Log appends a record to the host's audit log.
func (l *Logger) Log(record Record) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	path, err := l.recordPath(record.Host)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	return nil
}

// Records reads all records for a host in chronological order.
func (l *Logger) Records(host string) ([]Record, error) {
	path, err := l.recordPath(host)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			continue // Skip malformed lines
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("error reading audit log: %w", err)
	}

	return records, nil
}

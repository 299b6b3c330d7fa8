package config

import (
	"fmt"
	"strconv"
	"strings"
)

// LogLines controls how much of the container log stream is dumped on
// FAILURE or TIMEOUT. The literal tokens "all" and "full", as well as 0,
// select a full dump; any other non-negative integer selects a tail of
// that many lines.
type LogLines struct {
	full bool
	n    int
}

// DefaultLogLines is the tail length used when --log-lines is not given.
const DefaultLogLines = 12

// FullDump returns a LogLines selecting the entire log stream.
func FullDump() LogLines {
	return LogLines{full: true}
}

// TailLines returns a LogLines selecting the last n lines.
func TailLines(n int) LogLines {
	if n == 0 {
		return FullDump()
	}
	return LogLines{n: n}
}

// ParseLogLines parses a --log-lines value. "all", "full" and "0" mean a
// full dump; anything else must parse as a non-negative integer.
func ParseLogLines(s string) (LogLines, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "full":
		return FullDump(), nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return LogLines{}, fmt.Errorf("invalid log-lines value %q: must be \"all\", \"full\", or a non-negative integer", s)
	}
	if n < 0 {
		return LogLines{}, fmt.Errorf("invalid log-lines value %q: must not be negative", s)
	}
	return TailLines(n), nil
}

// IsFull reports whether the entire log stream should be dumped.
func (l LogLines) IsFull() bool {
	return l.full
}

// Tail returns the number of lines for a tail dump. Only meaningful when
// IsFull is false.
func (l LogLines) Tail() int {
	return l.n
}

// String implements pflag.Value.
func (l LogLines) String() string {
	if l.full {
		return "all"
	}
	return strconv.Itoa(l.n)
}

// Set implements pflag.Value.
func (l *LogLines) Set(s string) error {
	parsed, err := ParseLogLines(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Type implements pflag.Value.
func (l *LogLines) Type() string {
	return "lines"
}

// UnmarshalText allows LogLines values in TOML config files.
func (l *LogLines) UnmarshalText(text []byte) error {
	return l.Set(string(text))
}

// UnmarshalTOML accepts both config-file forms: a string token
// (log-lines = "all") and a bare integer (log-lines = 12).
func (l *LogLines) UnmarshalTOML(v any) error {
	switch t := v.(type) {
	case string:
		return l.Set(t)
	case int64:
		return l.Set(strconv.FormatInt(t, 10))
	default:
		return fmt.Errorf("invalid log-lines value %v: must be a string token or an integer", v)
	}
}

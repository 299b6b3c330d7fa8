package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/firefly-engineering/shipcheck/internal/system"
)

// File mirrors the flag surface as an optional TOML config file. All fields
// are pointers so that absent keys leave the built-in defaults untouched;
// flags given on the command line override file values in turn.
type File struct {
	Host          *string   `toml:"ssh-host"`
	User          *string   `toml:"ssh-user"`
	Port          *int      `toml:"ssh-port"`
	KeyPath       *string   `toml:"ssh-key"`
	WorkDir       *string   `toml:"server-path"`
	Container     *string   `toml:"container-name"`
	MaxRetries    *int      `toml:"max-retries"`
	RetryInterval *int      `toml:"retry-interval"`
	CallTimeout   *int      `toml:"call-timeout"`
	Success       *string   `toml:"success-grep"`
	Failure       *string   `toml:"failure-grep"`
	LogLines      *LogLines `toml:"log-lines"`
	StrictHostKey *bool     `toml:"strict-host-key-checking"`
	Transport     *string   `toml:"transport"`
}

// LoadFile parses a TOML config file.
func LoadFile(path string, fs system.FileSystem) (*File, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &f, nil
}

// Apply overlays the file values onto c. Only keys present in the file are
// applied.
func (f *File) Apply(c *Check) {
	if f.Host != nil {
		c.Host = *f.Host
	}
	if f.User != nil {
		c.User = *f.User
	}
	if f.Port != nil {
		c.Port = *f.Port
	}
	if f.KeyPath != nil {
		c.KeyPath = *f.KeyPath
	}
	if f.WorkDir != nil {
		c.WorkDir = *f.WorkDir
	}
	if f.Container != nil {
		c.Container = *f.Container
	}
	if f.MaxRetries != nil {
		c.MaxRetries = *f.MaxRetries
	}
	if f.RetryInterval != nil {
		c.RetryInterval = *f.RetryInterval
	}
	if f.CallTimeout != nil {
		c.CallTimeout = *f.CallTimeout
	}
	if f.Success != nil {
		c.SuccessPattern = *f.Success
	}
	if f.Failure != nil {
		c.FailurePattern = *f.Failure
	}
	if f.LogLines != nil {
		c.LogLines = *f.LogLines
	}
	if f.StrictHostKey != nil {
		c.StrictHostKey = *f.StrictHostKey
	}
	if f.Transport != nil {
		c.Transport = *f.Transport
	}
}

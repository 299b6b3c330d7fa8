package config

import (
	"fmt"

	"github.com/firefly-engineering/shipcheck/internal/system"
)

// Default values for optional settings.
const (
	DefaultPort          = 22
	DefaultMaxRetries    = 10
	DefaultRetryInterval = 10
	DefaultCallTimeout   = 30

	// Default patterns are deliberately broad; real deployments override
	// them with application-specific markers.
	DefaultSuccessPattern = `(?i)\b(ready|started|listening on)\b`
	DefaultFailurePattern = `(?i)\b(error|exception|fatal|panic)\b`
)

// Transport selects how remote commands are executed.
const (
	TransportNative  = "native"  // in-process SSH client
	TransportOpenSSH = "openssh" // local ssh binary
)

// Check holds the configuration for one startup check. It is assembled
// once per invocation and never mutated afterwards.
type Check struct {
	Host      string
	User      string
	Port      int
	KeyPath   string
	WorkDir   string
	Container string

	MaxRetries    int
	RetryInterval int // seconds between attempts
	CallTimeout   int // seconds per remote call

	SuccessPattern string
	FailurePattern string

	LogLines      LogLines
	StrictHostKey bool
	Transport     string
}

// Defaults returns a Check with all optional settings at their defaults.
// Required fields (Host, User, KeyPath, WorkDir, Container) are left empty
// and must be filled in before Validate passes.
func Defaults() Check {
	return Check{
		Port:           DefaultPort,
		MaxRetries:     DefaultMaxRetries,
		RetryInterval:  DefaultRetryInterval,
		CallTimeout:    DefaultCallTimeout,
		SuccessPattern: DefaultSuccessPattern,
		FailurePattern: DefaultFailurePattern,
		LogLines:       TailLines(DefaultLogLines),
		StrictHostKey:  true,
		Transport:      TransportNative,
	}
}

// Validate checks the configuration before any remote call is made.
// The fs parameter is used to verify the private key file.
func (c *Check) Validate(fs system.FileSystem) error {
	if c.Host == "" {
		return fmt.Errorf("ssh-host is required")
	}
	if c.User == "" {
		return fmt.Errorf("ssh-user is required")
	}
	if c.KeyPath == "" {
		return fmt.Errorf("ssh-key is required")
	}
	if c.WorkDir == "" {
		return fmt.Errorf("server-path is required")
	}
	if c.Container == "" {
		return fmt.Errorf("container-name is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("ssh-port %d is out of range", c.Port)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max-retries must be at least 1, got %d", c.MaxRetries)
	}
	if c.RetryInterval < 0 {
		return fmt.Errorf("retry-interval must not be negative, got %d", c.RetryInterval)
	}
	if c.CallTimeout < 1 {
		return fmt.Errorf("call-timeout must be at least 1 second, got %d", c.CallTimeout)
	}

	if c.SuccessPattern == "" {
		return fmt.Errorf("success-grep must not be empty")
	}
	if c.FailurePattern == "" {
		return fmt.Errorf("failure-grep must not be empty")
	}

	switch c.Transport {
	case TransportNative, TransportOpenSSH:
	default:
		return fmt.Errorf("unknown transport %q (want %q or %q)", c.Transport, TransportNative, TransportOpenSSH)
	}

	// Patterns are matched remotely as PCRE, so they are not compiled
	// locally: Go's regexp dialect would reject valid PCRE constructs.

	info, err := fs.Stat(c.KeyPath)
	if err != nil {
		return fmt.Errorf("ssh key %s: %w", c.KeyPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("ssh key %s is a directory", c.KeyPath)
	}
	if _, err := fs.ReadFile(c.KeyPath); err != nil {
		return fmt.Errorf("ssh key %s is not readable: %w", c.KeyPath, err)
	}

	return nil
}

// Destination returns the user@host string for display.
func (c *Check) Destination() string {
	return fmt.Sprintf("%s@%s", c.User, c.Host)
}

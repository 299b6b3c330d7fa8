// Package remote executes commands on the deployment host over SSH.
//
// Two transports are available: a native in-process SSH client (the
// default) and the local OpenSSH binary. Both present the same Runner
// interface, so the checker never knows which one it is talking to.
package remote

import (
	"context"

	"github.com/firefly-engineering/shipcheck/internal/config"
	"github.com/firefly-engineering/shipcheck/internal/system"
)

// Result is the outcome of one remote command.
type Result struct {
	// Output is the combined stdout/stderr of the remote command.
	Output string
	// ExitCode is the remote command's exit status.
	ExitCode int
}

// Matched reports whether the remote command signalled a pattern match
// (zero exit status).
func (r Result) Matched() bool {
	return r.ExitCode == 0
}

// Runner executes a shell command string on the remote host.
//
// A non-nil error means the command could not be executed at all (transport
// failure: dial error, auth error, ssh exiting 255). A nil error with a
// non-zero ExitCode means the command ran remotely and exited non-zero,
// which for pattern checks simply means "no match".
type Runner interface {
	Run(ctx context.Context, command string) (Result, error)
}

// New returns the Runner selected by cfg.Transport.
func New(cfg config.Check, fs system.FileSystem, exec system.CommandExecutor) (Runner, error) {
	switch cfg.Transport {
	case config.TransportOpenSSH:
		return NewOpenSSHRunner(cfg, exec), nil
	default:
		return NewNativeRunner(cfg, fs)
	}
}

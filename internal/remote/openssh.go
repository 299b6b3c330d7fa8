package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firefly-engineering/shipcheck/internal/config"
	"github.com/firefly-engineering/shipcheck/internal/logging"
	"github.com/firefly-engineering/shipcheck/internal/system"
)

// Options configures the OpenSSH command line.
type Options struct {
	Port           int
	User           string
	Host           string
	KeyPath        string
	StrictHostKey  bool
	ConnectTimeout int
}

// OptionsFromCheck maps a check configuration onto OpenSSH options.
func OptionsFromCheck(cfg config.Check) Options {
	return Options{
		Port:           cfg.Port,
		User:           cfg.User,
		Host:           cfg.Host,
		KeyPath:        cfg.KeyPath,
		StrictHostKey:  cfg.StrictHostKey,
		ConnectTimeout: cfg.CallTimeout,
	}
}

// BaseArgs returns the common SSH arguments (options only, no user@host).
// BatchMode keeps the run non-interactive: a passphrase prompt or host key
// question becomes a hard error instead of a hang.
func (o Options) BaseArgs() []string {
	args := []string{
		"-p", fmt.Sprintf("%d", o.Port),
		"-i", o.KeyPath,
		"-o", "BatchMode=yes",
	}

	if o.StrictHostKey {
		args = append(args, "-o", "StrictHostKeyChecking=yes")
	} else {
		args = append(args,
			"-o", "StrictHostKeyChecking=no",
			"-o", "UserKnownHostsFile=/dev/null")
	}

	if o.ConnectTimeout > 0 {
		args = append(args, "-o", fmt.Sprintf("ConnectTimeout=%d", o.ConnectTimeout))
	}

	return args
}

// Destination returns the user@host string.
func (o Options) Destination() string {
	return fmt.Sprintf("%s@%s", o.User, o.Host)
}

// BuildArgs returns complete SSH arguments for executing a command.
func (o Options) BuildArgs(command string) []string {
	args := o.BaseArgs()
	args = append(args, o.Destination())
	args = append(args, command)
	return args
}

// sshTransportExit is the exit status OpenSSH reserves for its own errors
// (connection refused, auth failure, unknown host in strict mode).
const sshTransportExit = 255

// OpenSSHRunner executes remote commands through the local ssh binary.
type OpenSSHRunner struct {
	opts        Options
	callTimeout time.Duration
	exec        system.CommandExecutor
}

// NewOpenSSHRunner builds a runner that shells out to ssh.
func NewOpenSSHRunner(cfg config.Check, exec system.CommandExecutor) *OpenSSHRunner {
	return &OpenSSHRunner{
		opts:        OptionsFromCheck(cfg),
		callTimeout: time.Duration(cfg.CallTimeout) * time.Second,
		exec:        exec,
	}
}

// exitCoder matches *exec.ExitError as well as mock errors in tests.
type exitCoder interface {
	ExitCode() int
}

// Run executes command via the ssh binary. The remote exit status passes
// through ssh, except 255 which ssh reserves for transport failures.
func (r *OpenSSHRunner) Run(ctx context.Context, command string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	args := r.opts.BuildArgs(command)
	logging.Debug("running remote command", "dest", r.opts.Destination(), "command", command)

	output, err := r.exec.Execute(ctx, "ssh", args...)
	if err != nil {
		// A process killed by the call timeout reports exit -1, which must
		// not pass for a remote exit status.
		if ctx.Err() != nil {
			return Result{}, fmt.Errorf("remote command timed out after %s: %w", r.callTimeout, ctx.Err())
		}
		var coder exitCoder
		if !errors.As(err, &coder) {
			return Result{}, fmt.Errorf("failed to run ssh: %w", err)
		}
		code := coder.ExitCode()
		if code == sshTransportExit {
			return Result{}, fmt.Errorf("ssh transport error: %s", string(output))
		}
		return Result{Output: string(output), ExitCode: code}, nil
	}

	return Result{Output: string(output)}, nil
}

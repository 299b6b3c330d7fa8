package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/skeema/knownhosts"
	"golang.org/x/crypto/ssh"

	"github.com/firefly-engineering/shipcheck/internal/config"
	"github.com/firefly-engineering/shipcheck/internal/logging"
	"github.com/firefly-engineering/shipcheck/internal/system"
)

// NativeRunner executes remote commands with an in-process SSH client.
// Each Run dials a fresh connection so a stuck session cannot poison
// later attempts, and the whole round-trip is bounded by CallTimeout.
type NativeRunner struct {
	addr        string
	callTimeout time.Duration
	clientCfg   *ssh.ClientConfig
}

// NewNativeRunner builds a runner from a validated check configuration.
func NewNativeRunner(cfg config.Check, fs system.FileSystem) (*NativeRunner, error) {
	clientCfg, err := buildClientConfig(cfg, fs)
	if err != nil {
		return nil, err
	}

	return &NativeRunner{
		addr:        net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		callTimeout: time.Duration(cfg.CallTimeout) * time.Second,
		clientCfg:   clientCfg,
	}, nil
}

// buildClientConfig assembles key-based, non-interactive authentication and
// the host key policy. Strict mode verifies against the user's known_hosts
// and fails on unknown hosts; disabled mode accepts any host and persists
// nothing.
func buildClientConfig(cfg config.Check, fs system.FileSystem) (*ssh.ClientConfig, error) {
	key, err := fs.ReadFile(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key %s: %w", cfg.KeyPath, err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key %s: %w", cfg.KeyPath, err)
	}

	var hostKeyCallback ssh.HostKeyCallback
	if cfg.StrictHostKey {
		path, err := knownHostsPath()
		if err != nil {
			return nil, err
		}
		kh, err := knownhosts.New(path)
		if err != nil {
			return nil, fmt.Errorf("could not load known_hosts from %s: %w", path, err)
		}
		hostKeyCallback = kh.HostKeyCallback()
	} else {
		hostKeyCallback = ssh.InsecureIgnoreHostKey()
	}

	return &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         time.Duration(cfg.CallTimeout) * time.Second,
	}, nil
}

func knownHostsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".ssh", "known_hosts"), nil
}

// Run dials the host, executes command in one session, and returns the
// combined output. Session errors that carry a remote exit status are
// reported through Result; everything else is a transport error.
func (r *NativeRunner) Run(ctx context.Context, command string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", r.addr)
	if err != nil {
		return Result{}, fmt.Errorf("failed to dial %s: %w", r.addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, r.addr, r.clientCfg)
	if err != nil {
		conn.Close()
		return Result{}, fmt.Errorf("ssh handshake with %s failed: %w", r.addr, err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	// The handshake honours the dial context, but a running session does
	// not; closing the client on context expiry keeps every call bounded.
	stop := context.AfterFunc(ctx, func() {
		client.Close()
	})
	defer stop()

	session, err := client.NewSession()
	if err != nil {
		return Result{}, fmt.Errorf("failed to open session on %s: %w", r.addr, err)
	}
	defer session.Close()

	var output bytes.Buffer
	session.Stdout = &output
	session.Stderr = &output

	logging.Debug("running remote command", "addr", r.addr, "command", command)

	if err := session.Run(command); err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return Result{Output: output.String(), ExitCode: exitErr.ExitStatus()}, nil
		}
		if ctx.Err() != nil {
			return Result{}, fmt.Errorf("remote command timed out after %s: %w", r.callTimeout, ctx.Err())
		}
		return Result{}, fmt.Errorf("remote command on %s failed: %w", r.addr, err)
	}

	return Result{Output: output.String()}, nil
}

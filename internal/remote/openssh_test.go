package remote

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/firefly-engineering/shipcheck/internal/config"
	"github.com/firefly-engineering/shipcheck/internal/system"
)

// exitErr mimics *exec.ExitError for the mock executor.
type exitErr struct{ code int }

func (e exitErr) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e exitErr) ExitCode() int { return e.code }

func testCheck() config.Check {
	c := config.Defaults()
	c.Host = "app.example.com"
	c.User = "deploy"
	c.KeyPath = "/keys/deploy_ed25519"
	c.WorkDir = "/srv/app"
	c.Container = "myapp"
	c.Transport = config.TransportOpenSSH
	return c
}

func TestOptions_BaseArgs(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		contains []string
		excludes []string
	}{
		{
			name: "strict host key checking",
			opts: OptionsFromCheck(testCheck()),
			contains: []string{
				"-p", "22",
				"-i", "/keys/deploy_ed25519",
				"-o", "BatchMode=yes",
				"-o", "StrictHostKeyChecking=yes",
				"-o", "ConnectTimeout=30",
			},
			excludes: []string{
				"UserKnownHostsFile=/dev/null",
			},
		},
		{
			name: "host key checking disabled",
			opts: func() Options {
				c := testCheck()
				c.StrictHostKey = false
				return OptionsFromCheck(c)
			}(),
			contains: []string{
				"-o", "StrictHostKeyChecking=no",
				"-o", "UserKnownHostsFile=/dev/null",
			},
			excludes: []string{
				"StrictHostKeyChecking=yes",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			joined := strings.Join(tt.opts.BaseArgs(), " ")
			for _, want := range tt.contains {
				if !strings.Contains(joined, want) {
					t.Errorf("BaseArgs() = %q, missing %q", joined, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(joined, unwanted) {
					t.Errorf("BaseArgs() = %q, should not contain %q", joined, unwanted)
				}
			}
		})
	}
}

func TestOptions_BuildArgs(t *testing.T) {
	opts := OptionsFromCheck(testCheck())
	args := opts.BuildArgs("docker logs myapp")

	if args[len(args)-1] != "docker logs myapp" {
		t.Errorf("command should be the final argument, got %q", args[len(args)-1])
	}
	if args[len(args)-2] != "deploy@app.example.com" {
		t.Errorf("destination should precede the command, got %q", args[len(args)-2])
	}
}

func TestOpenSSHRunner_Match(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.DefaultResponse = system.MockResponse{Output: []byte("")}

	r := NewOpenSSHRunner(testCheck(), exec)
	res, err := r.Run(context.Background(), "true")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.Matched() {
		t.Error("zero exit should report a match")
	}
}

func TestOpenSSHRunner_NoMatch(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.DefaultResponse = system.MockResponse{Err: exitErr{code: 1}}

	r := NewOpenSSHRunner(testCheck(), exec)
	res, err := r.Run(context.Background(), "grep something")
	if err != nil {
		t.Fatalf("remote exit 1 is not a transport error, got %v", err)
	}
	if res.Matched() {
		t.Error("exit 1 should report no match")
	}
	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}
}

func TestOpenSSHRunner_TransportError(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.DefaultResponse = system.MockResponse{
		Output: []byte("ssh: connect to host app.example.com port 22: Connection refused"),
		Err:    exitErr{code: 255},
	}

	r := NewOpenSSHRunner(testCheck(), exec)
	if _, err := r.Run(context.Background(), "true"); err == nil {
		t.Error("ssh exit 255 should surface as a transport error")
	}
}

func TestOpenSSHRunner_TimeoutIsTransportError(t *testing.T) {
	exec := system.NewMockExecutor()
	// A killed ssh process reports exit -1 through *exec.ExitError.
	exec.DefaultResponse = system.MockResponse{Err: exitErr{code: -1}}

	r := NewOpenSSHRunner(testCheck(), exec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := r.Run(ctx, "true")
	if err == nil {
		t.Fatalf("expired call must surface as a transport error, got %+v", res)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error should report the timeout, got %v", err)
	}
}

func TestOpenSSHRunner_ExecMissing(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.DefaultResponse = system.MockResponse{Err: fmt.Errorf("ssh: executable not found")}

	r := NewOpenSSHRunner(testCheck(), exec)
	if _, err := r.Run(context.Background(), "true"); err == nil {
		t.Error("non-exit errors should surface as transport errors")
	}
}

func TestOpenSSHRunner_OutputCapture(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.AddResponse("docker logs", []byte("line1\nline2\n"), nil)

	r := NewOpenSSHRunner(testCheck(), exec)
	res, err := r.Run(context.Background(), "cd /srv/app && docker logs myapp 2>&1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Output != "line1\nline2\n" {
		t.Errorf("Output = %q", res.Output)
	}
}

package remote

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"

	"github.com/firefly-engineering/shipcheck/internal/config"
	"github.com/firefly-engineering/shipcheck/internal/system"
)

func generateKeyPEM(t *testing.T) []byte {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	block, err := ssh.MarshalPrivateKey(priv, "")
	if err != nil {
		t.Fatalf("failed to marshal key: %v", err)
	}
	return pem.EncodeToMemory(block)
}

func TestBuildClientConfig(t *testing.T) {
	fs := system.NewMockFS()
	fs.AddFile("/keys/deploy_ed25519", generateKeyPEM(t), 0600)

	cfg := testCheck()
	cfg.StrictHostKey = false

	clientCfg, err := buildClientConfig(cfg, fs)
	if err != nil {
		t.Fatalf("buildClientConfig() error = %v", err)
	}
	if clientCfg.User != "deploy" {
		t.Errorf("User = %q, want deploy", clientCfg.User)
	}
	if len(clientCfg.Auth) != 1 {
		t.Errorf("len(Auth) = %d, want 1", len(clientCfg.Auth))
	}
	if clientCfg.HostKeyCallback == nil {
		t.Error("HostKeyCallback should be set")
	}
	if clientCfg.Timeout.Seconds() != 30 {
		t.Errorf("Timeout = %v, want 30s", clientCfg.Timeout)
	}
}

func TestBuildClientConfig_BadKey(t *testing.T) {
	fs := system.NewMockFS()
	fs.AddFile("/keys/deploy_ed25519", []byte("not a key"), 0600)

	cfg := testCheck()
	cfg.StrictHostKey = false

	_, err := buildClientConfig(cfg, fs)
	if err == nil {
		t.Fatal("buildClientConfig() expected error for malformed key")
	}
	if !strings.Contains(err.Error(), "parse") {
		t.Errorf("error should mention parsing: %v", err)
	}
}

func TestBuildClientConfig_MissingKey(t *testing.T) {
	fs := system.NewMockFS()

	cfg := testCheck()
	cfg.StrictHostKey = false

	if _, err := buildClientConfig(cfg, fs); err == nil {
		t.Fatal("buildClientConfig() expected error for missing key")
	}
}

func TestNewNativeRunner_Addr(t *testing.T) {
	fs := system.NewMockFS()
	fs.AddFile("/keys/deploy_ed25519", generateKeyPEM(t), 0600)

	cfg := testCheck()
	cfg.StrictHostKey = false
	cfg.Port = 2222

	r, err := NewNativeRunner(cfg, fs)
	if err != nil {
		t.Fatalf("NewNativeRunner() error = %v", err)
	}
	if r.addr != "app.example.com:2222" {
		t.Errorf("addr = %q", r.addr)
	}
}

func TestNewRunner_TransportSelection(t *testing.T) {
	fs := system.NewMockFS()
	fs.AddFile("/keys/deploy_ed25519", generateKeyPEM(t), 0600)

	cfg := testCheck()
	cfg.StrictHostKey = false
	cfg.Transport = config.TransportNative

	r, err := New(cfg, fs, system.NewMockExecutor())
	if err != nil {
		t.Fatalf("New(native) error = %v", err)
	}
	if _, ok := r.(*NativeRunner); !ok {
		t.Errorf("New(native) = %T, want *NativeRunner", r)
	}

	cfg.Transport = config.TransportOpenSSH
	r, err = New(cfg, fs, system.NewMockExecutor())
	if err != nil {
		t.Fatalf("New(openssh) error = %v", err)
	}
	if _, ok := r.(*OpenSSHRunner); !ok {
		t.Errorf("New(openssh) = %T, want *OpenSSHRunner", r)
	}
}

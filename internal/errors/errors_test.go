package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCheckError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *CheckError
		wantMsg string
	}{
		{
			name:    "without cause",
			err:     New(ExitCheckFailed, "something went wrong"),
			wantMsg: "something went wrong",
		},
		{
			name:    "with cause",
			err:     Wrap(ExitCheckFailed, "operation failed", fmt.Errorf("underlying error")),
			wantMsg: "operation failed: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestCheckError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ExitCheckFailed, "wrapped", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Without cause
	errNoCause := New(ExitCheckFailed, "no cause")
	if unwrapped := errNoCause.Unwrap(); unwrapped != nil {
		t.Errorf("Unwrap() = %v, want nil", unwrapped)
	}
}

func TestCheckError_ExitCode(t *testing.T) {
	tests := []struct {
		code int
		name string
	}{
		{ExitSuccess, "success"},
		{ExitCheckFailed, "check failed"},
		{ExitUsage, "usage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "test")
			if got := err.ExitCode(); got != tt.code {
				t.Errorf("ExitCode() = %d, want %d", got, tt.code)
			}
		})
	}
}

func TestMisconfigured(t *testing.T) {
	err := Misconfigured("--ssh-host is required")

	if err.Code != ExitUsage {
		t.Errorf("Code = %d, want %d", err.Code, ExitUsage)
	}
	if err.Error() != "--ssh-host is required" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestFailureDetected(t *testing.T) {
	err := FailureDetected("myapp")

	if err.Code != ExitCheckFailed {
		t.Errorf("Code = %d, want %d", err.Code, ExitCheckFailed)
	}
	if err.Error() != "failure pattern matched in logs of container myapp" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestTimeout(t *testing.T) {
	err := Timeout(10)

	if err.Code != ExitCheckFailed {
		t.Errorf("Code = %d, want %d", err.Code, ExitCheckFailed)
	}
	if err.Error() != "container did not become ready within 10 attempts" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestTransportError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := TransportError("log fetch", cause)

	if err.Code != ExitCheckFailed {
		t.Errorf("Code = %d, want %d", err.Code, ExitCheckFailed)
	}
	if !errors.Is(err, cause) {
		t.Error("TransportError should wrap its cause")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "CheckError returns its code",
			err:  Misconfigured("bad flag"),
			want: ExitUsage,
		},
		{
			name: "wrapped CheckError returns its code",
			err:  fmt.Errorf("outer: %w", Timeout(3)),
			want: ExitCheckFailed,
		},
		{
			name: "plain error returns general failure",
			err:  fmt.Errorf("plain"),
			want: ExitCheckFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", FailureDetected("app"))

	var checkErr *CheckError
	if !As(err, &checkErr) {
		t.Fatal("As() should find CheckError in chain")
	}
	if checkErr.Code != ExitCheckFailed {
		t.Errorf("Code = %d, want %d", checkErr.Code, ExitCheckFailed)
	}
}

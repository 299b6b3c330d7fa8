package errors

import (
	"errors"
	"fmt"
)

// Exit codes for shipcheck
const (
	ExitSuccess     = 0
	ExitCheckFailed = 1 // failure pattern matched, timeout, or unexpected loop exit
	ExitUsage       = 2 // invalid flags or other misconfiguration
)

// CheckError is the base error type for shipcheck
type CheckError struct {
	Code    int
	Message string
	Cause   error
}

func (e *CheckError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CheckError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *CheckError) ExitCode() int {
	return e.Code
}

// New creates a new CheckError
func New(code int, message string) *CheckError {
	return &CheckError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a CheckError
func Wrap(code int, message string, cause error) *CheckError {
	return &CheckError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// Misconfigured returns an error for invalid configuration. Misconfiguration
// is always reported before any remote interaction happens.
func Misconfigured(message string) *CheckError {
	return New(ExitUsage, message)
}

// MisconfiguredCause wraps a cause into a misconfiguration error
func MisconfiguredCause(message string, cause error) *CheckError {
	return Wrap(ExitUsage, message, cause)
}

// FailureDetected returns an error for a matched failure pattern
func FailureDetected(container string) *CheckError {
	return New(ExitCheckFailed, fmt.Sprintf("failure pattern matched in logs of container %s", container))
}

// Timeout returns an error for an exhausted retry budget
func Timeout(attempts int) *CheckError {
	return New(ExitCheckFailed, fmt.Sprintf("container did not become ready within %d attempts", attempts))
}

// UnexpectedExit returns an error for the defensive loop-exit path
func UnexpectedExit() *CheckError {
	return New(ExitCheckFailed, "startup check loop exited without a verdict")
}

// TransportError returns an error for remote execution failures
func TransportError(op string, cause error) *CheckError {
	return Wrap(ExitCheckFailed, fmt.Sprintf("remote %s failed", op), cause)
}

// Interrupted returns an error for a cancelled run
func Interrupted() *CheckError {
	return New(ExitCheckFailed, "check interrupted")
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var checkErr *CheckError
	if errors.As(err, &checkErr) {
		return checkErr.ExitCode()
	}
	return ExitCheckFailed
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}

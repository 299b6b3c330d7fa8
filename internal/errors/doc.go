// Package errors provides typed errors with exit codes for shipcheck.
//
// # Error Types
//
// CheckError is the base error type that wraps an error with an exit code:
//
//	type CheckError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
// Defined exit codes for different error categories:
//
//	ExitSuccess     = 0  // Container started successfully
//	ExitCheckFailed = 1  // Failure pattern matched, timeout, or unexpected loop exit
//	ExitUsage       = 2  // Invalid flags or other misconfiguration
//
// # Error Constructors
//
// Use the provided constructors for consistent error creation:
//
//	errors.Misconfigured("--ssh-host is required")
//	errors.FailureDetected("myapp")
//	errors.Timeout(10)
//	errors.TransportError("log fetch", err)
//
// # Extracting Exit Codes
//
// Use GetExitCode to extract the exit code from an error chain:
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors

// Package logging provides logging utilities for shipcheck.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("running pattern check", "attempt", attempt, "pattern", pattern)
//	logging.Warn("transport error", "host", host, "error", err)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Attempt %d/%d: not ready, waiting %ds...", n, max, interval)
//	logging.UserSuccess("Container %s started successfully", name)
//	logging.UserWarning("Could not fetch diagnostic logs: %v", err)
//	logging.UserError("Invalid --log-lines value: %q", value)
//	logging.UserFailure("Startup FAILED for container %s", name)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError, UserFailure: stderr
//
// # Status Indicators
//
// User functions prepend status indicators:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
//   - ::error:: (failure annotation for CI log scanners)
package logging

// Package checker implements the startup verification loop.
//
// # Loop Semantics
//
// The loop runs at most MaxRetries iterations. Each iteration:
//
//  1. Tests the container log against the failure pattern. A match ends the
//     run as FAILURE with a diagnostic log dump. This check always takes
//     precedence over the success check within an iteration.
//  2. Tests the log against the success pattern. A match ends the run as
//     SUCCESS, immediately and without a log dump.
//  3. On the final allowed attempt, ends the run as TIMEOUT with a
//     diagnostic log dump.
//  4. Otherwise sleeps RetryInterval seconds and continues, so a full run
//     sleeps exactly MaxRetries-1 times.
//
// A transport error during a pattern check counts as "no match" for that
// iteration: the host may not be reachable yet, and the retry budget
// already bounds the overall run.
//
// # Outcomes and Exit Codes
//
//	SUCCESS → exit 0
//	FAILURE → exit 1 (failure pattern matched)
//	TIMEOUT → exit 1 (retry budget exhausted)
//
// Misconfiguration is rejected before a Checker is ever constructed and
// maps to exit 2.
package checker

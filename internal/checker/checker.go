package checker

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/firefly-engineering/shipcheck/internal/config"
	"github.com/firefly-engineering/shipcheck/internal/errors"
	"github.com/firefly-engineering/shipcheck/internal/logging"
	"github.com/firefly-engineering/shipcheck/internal/remote"
)

// Outcome is the terminal verdict of a startup check.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "SUCCESS"
	case OutcomeFailure:
		return "FAILURE"
	case OutcomeTimeout:
		return "TIMEOUT"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// EventKind classifies checker progress events.
type EventKind int

const (
	// EventAttempt fires at the start of each iteration.
	EventAttempt EventKind = iota
	// EventWaiting fires before sleeping between iterations.
	EventWaiting
	// EventTransportError fires when a pattern check could not reach the
	// host; the iteration counts as "no match" and the loop continues.
	EventTransportError
	// EventDone fires once with the terminal outcome.
	EventDone
)

// Event reports checker progress to the caller. Both the plain per-attempt
// output and the watch UI are driven from the same stream.
type Event struct {
	Kind       EventKind
	Attempt    int // 0-indexed
	MaxRetries int
	Outcome    Outcome // set for EventDone
	Err        error   // set for EventTransportError
}

// Checker polls a remote container's logs until it can declare the
// deployment started, failed, or timed out.
type Checker struct {
	cfg    config.Check
	runner remote.Runner
	out    io.Writer
	sleep  func(ctx context.Context, d time.Duration)
	notify func(Event)
}

// Option configures a Checker.
type Option func(*Checker)

// WithOutput sets the destination for diagnostic log dumps.
func WithOutput(w io.Writer) Option {
	return func(c *Checker) {
		c.out = w
	}
}

// WithSleeper replaces the between-attempt sleep (used in tests).
func WithSleeper(sleep func(ctx context.Context, d time.Duration)) Option {
	return func(c *Checker) {
		c.sleep = sleep
	}
}

// WithNotify registers a progress event callback.
func WithNotify(notify func(Event)) Option {
	return func(c *Checker) {
		c.notify = notify
	}
}

// New creates a Checker for a validated configuration.
func New(cfg config.Check, runner remote.Runner, opts ...Option) *Checker {
	c := &Checker{
		cfg:    cfg,
		runner: runner,
		out:    os.Stdout,
		sleep:  sleepWithContext,
		notify: func(Event) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Run executes the bounded polling loop. It returns the terminal outcome
// and, for FAILURE and TIMEOUT, an error carrying the process exit code.
//
// Per iteration the failure check runs first and always wins over the
// success check; SUCCESS returns immediately without a log dump; FAILURE
// and TIMEOUT dump logs per the configured --log-lines rule.
func (c *Checker) Run(ctx context.Context) (Outcome, error) {
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return OutcomeFailure, errors.Interrupted()
		}

		c.notify(Event{Kind: EventAttempt, Attempt: attempt, MaxRetries: c.cfg.MaxRetries})

		if c.matches(ctx, attempt, c.cfg.FailurePattern, "failure") {
			c.notify(Event{Kind: EventDone, Attempt: attempt, MaxRetries: c.cfg.MaxRetries, Outcome: OutcomeFailure})
			c.dumpLogs(ctx)
			return OutcomeFailure, errors.FailureDetected(c.cfg.Container)
		}

		if c.matches(ctx, attempt, c.cfg.SuccessPattern, "success") {
			c.notify(Event{Kind: EventDone, Attempt: attempt, MaxRetries: c.cfg.MaxRetries, Outcome: OutcomeSuccess})
			return OutcomeSuccess, nil
		}

		if attempt == c.cfg.MaxRetries-1 {
			c.notify(Event{Kind: EventDone, Attempt: attempt, MaxRetries: c.cfg.MaxRetries, Outcome: OutcomeTimeout})
			c.dumpLogs(ctx)
			return OutcomeTimeout, errors.Timeout(c.cfg.MaxRetries)
		}

		c.notify(Event{Kind: EventWaiting, Attempt: attempt, MaxRetries: c.cfg.MaxRetries})
		c.sleep(ctx, time.Duration(c.cfg.RetryInterval)*time.Second)
	}

	// Unreachable: the final iteration always returns above.
	return OutcomeFailure, errors.UnexpectedExit()
}

// matches runs one remote pattern check. Transport errors count as
// "no match": the container may simply not be reachable yet, and the retry
// budget already bounds how long we keep trying.
func (c *Checker) matches(ctx context.Context, attempt int, pattern, kind string) bool {
	cmd := remote.PatternCheckCommand(c.cfg.WorkDir, c.cfg.Container, pattern)

	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		logging.Debug("pattern check could not reach host",
			"kind", kind, "attempt", attempt, "error", err)
		c.notify(Event{Kind: EventTransportError, Attempt: attempt, MaxRetries: c.cfg.MaxRetries, Err: err})
		return false
	}

	logging.Debug("pattern check completed",
		"kind", kind, "attempt", attempt, "matched", res.Matched())
	return res.Matched()
}

// dumpLogs fetches and prints the container log stream for diagnostics.
// Invoked only on FAILURE and TIMEOUT, never on SUCCESS.
func (c *Checker) dumpLogs(ctx context.Context) {
	cmd := remote.DumpCommand(c.cfg.WorkDir, c.cfg.Container, c.cfg.LogLines)

	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		logging.UserWarning("Could not fetch diagnostic logs: %v", err)
		return
	}

	fmt.Fprintln(c.out, "--- container logs ---")
	fmt.Fprint(c.out, res.Output)
	if res.Output != "" && res.Output[len(res.Output)-1] != '\n' {
		fmt.Fprintln(c.out)
	}
	fmt.Fprintln(c.out, "--- end of logs ---")
}

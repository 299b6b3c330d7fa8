package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/shipcheck/internal/audit"
	"github.com/firefly-engineering/shipcheck/internal/checker"
	"github.com/firefly-engineering/shipcheck/internal/config"
	"github.com/firefly-engineering/shipcheck/internal/errors"
	"github.com/firefly-engineering/shipcheck/internal/logging"
	"github.com/firefly-engineering/shipcheck/internal/remote"
	"github.com/firefly-engineering/shipcheck/internal/system"
	"github.com/firefly-engineering/shipcheck/internal/watch"
)

var checkFlags struct {
	configPath string

	user          string
	host          string
	port          int
	keyPath       string
	workDir       string
	container     string
	maxRetries    int
	retryInterval int
	callTimeout   int
	logLines      config.LogLines
	failureGrep   string
	successGrep   string
	strictHostKey bool
	transport     string

	watch    bool
	auditDir string
}

func init() {
	// Persistent so the logs subcommand shares the connection settings.
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&checkFlags.configPath, "config", "", "TOML config file with check settings")

	flags.StringVar(&checkFlags.user, "ssh-user", "", "SSH user on the deployment host (required)")
	flags.StringVar(&checkFlags.host, "ssh-host", "", "Deployment host to connect to (required)")
	flags.IntVar(&checkFlags.port, "ssh-port", config.DefaultPort, "SSH port on the deployment host")
	flags.StringVar(&checkFlags.keyPath, "ssh-key", "", "Path to the SSH private key (required)")
	flags.StringVar(&checkFlags.workDir, "server-path", "", "Remote directory to run docker commands from (required)")
	flags.StringVar(&checkFlags.container, "container-name", "", "Container whose logs are checked (required)")

	flags.IntVar(&checkFlags.maxRetries, "max-retries", config.DefaultMaxRetries, "Maximum number of check attempts")
	flags.IntVar(&checkFlags.retryInterval, "retry-interval", config.DefaultRetryInterval, "Seconds to wait between attempts")
	flags.IntVar(&checkFlags.callTimeout, "call-timeout", config.DefaultCallTimeout, "Seconds allowed per remote call")

	checkFlags.logLines = config.TailLines(config.DefaultLogLines)
	flags.Var(&checkFlags.logLines, "log-lines", `Log lines to dump on failure: a count, or "all" for the full log`)

	flags.StringVar(&checkFlags.failureGrep, "failure-grep", config.DefaultFailurePattern, "PCRE pattern that marks a failed startup")
	flags.StringVar(&checkFlags.successGrep, "success-grep", config.DefaultSuccessPattern, "PCRE pattern that marks a successful startup")

	flags.BoolVar(&checkFlags.strictHostKey, "strict-host-key-checking", true, "Verify the host key against known_hosts")
	flags.StringVar(&checkFlags.transport, "transport", config.TransportNative, `SSH transport: "native" or "openssh"`)

	flags.BoolVar(&checkFlags.watch, "watch", false, "Show a live progress view instead of per-attempt lines")
	flags.StringVar(&checkFlags.auditDir, "audit-log", "", "Directory to append JSONL outcome records to")
}

// buildConfig layers defaults, the optional TOML file, and explicitly set
// flags, in that order.
func buildConfig() (config.Check, error) {
	cfg := config.Defaults()

	if checkFlags.configPath != "" {
		file, err := config.LoadFile(checkFlags.configPath, system.DefaultFS())
		if err != nil {
			return cfg, err
		}
		file.Apply(&cfg)
	}

	flags := rootCmd.PersistentFlags()
	if flags.Changed("ssh-user") {
		cfg.User = checkFlags.user
	}
	if flags.Changed("ssh-host") {
		cfg.Host = checkFlags.host
	}
	if flags.Changed("ssh-port") {
		cfg.Port = checkFlags.port
	}
	if flags.Changed("ssh-key") {
		cfg.KeyPath = checkFlags.keyPath
	}
	if flags.Changed("server-path") {
		cfg.WorkDir = checkFlags.workDir
	}
	if flags.Changed("container-name") {
		cfg.Container = checkFlags.container
	}
	if flags.Changed("max-retries") {
		cfg.MaxRetries = checkFlags.maxRetries
	}
	if flags.Changed("retry-interval") {
		cfg.RetryInterval = checkFlags.retryInterval
	}
	if flags.Changed("call-timeout") {
		cfg.CallTimeout = checkFlags.callTimeout
	}
	if flags.Changed("log-lines") {
		cfg.LogLines = checkFlags.logLines
	}
	if flags.Changed("failure-grep") {
		cfg.FailurePattern = checkFlags.failureGrep
	}
	if flags.Changed("success-grep") {
		cfg.SuccessPattern = checkFlags.successGrep
	}
	if flags.Changed("strict-host-key-checking") {
		cfg.StrictHostKey = checkFlags.strictHostKey
	}
	if flags.Changed("transport") {
		cfg.Transport = checkFlags.transport
	}

	return cfg, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errors.Misconfigured(fmt.Sprintf("unexpected argument %q", args[0]))
	}

	cfg, err := buildConfig()
	if err != nil {
		return errors.MisconfiguredCause("could not load config file", err)
	}
	if err := cfg.Validate(system.DefaultFS()); err != nil {
		fmt.Fprintln(os.Stderr, cmd.UsageString())
		return errors.Misconfigured(err.Error())
	}

	logging.Debug("configuration validated",
		"destination", cfg.Destination(), "container", cfg.Container,
		"maxRetries", cfg.MaxRetries, "retryInterval", cfg.RetryInterval,
		"transport", cfg.Transport)

	runner, err := remote.New(cfg, system.DefaultFS(), system.DefaultExecutor())
	if err != nil {
		return errors.MisconfiguredCause("could not set up SSH transport", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.UserInfo("Checking container %s on %s (up to %d attempts, %ds apart)",
		cfg.Container, cfg.Destination(), cfg.MaxRetries, cfg.RetryInterval)

	attempts := 0
	track := func(next func(checker.Event)) func(checker.Event) {
		return func(e checker.Event) {
			if e.Kind == checker.EventAttempt {
				attempts = e.Attempt + 1
			}
			next(e)
		}
	}

	var outcome checker.Outcome
	var checkErr error

	if checkFlags.watch {
		outcome, checkErr = watch.Run(cfg.Destination(), cfg.Container,
			func(notify func(checker.Event)) (checker.Outcome, error) {
				return checker.New(cfg, runner, checker.WithNotify(track(notify))).Run(ctx)
			})
	} else {
		outcome, checkErr = checker.New(cfg, runner, checker.WithNotify(track(printEvent))).Run(ctx)
	}

	if checkFlags.auditDir != "" {
		recordOutcome(cfg, outcome, attempts, checkErr)
	}

	return report(cfg, outcome, checkErr)
}

// printEvent renders per-attempt progress lines in plain mode.
func printEvent(e checker.Event) {
	switch e.Kind {
	case checker.EventAttempt:
		logging.UserInfo("Attempt %d/%d...", e.Attempt+1, e.MaxRetries)
	case checker.EventTransportError:
		logging.UserWarning("Host unreachable, treating as no match: %v", e.Err)
	}
}

// report prints the terminal verdict and passes the checker error through
// so main can map it to an exit code.
func report(cfg config.Check, outcome checker.Outcome, err error) error {
	switch outcome {
	case checker.OutcomeSuccess:
		logging.UserSuccess("Container %s started successfully", cfg.Container)
		return nil
	case checker.OutcomeFailure:
		logging.UserFailure("container %s failed to start on %s", cfg.Container, cfg.Host)
	case checker.OutcomeTimeout:
		logging.UserFailure("container %s did not become ready on %s after %d attempts",
			cfg.Container, cfg.Host, cfg.MaxRetries)
	}
	return err
}

// recordOutcome appends the verdict to the audit log. Audit failures are
// reported but never change the check result.
func recordOutcome(cfg config.Check, outcome checker.Outcome, attempts int, err error) {
	details := ""
	if err != nil {
		details = err.Error()
	}

	logger := audit.NewLogger(checkFlags.auditDir)
	record := audit.Record{
		Host:      cfg.Host,
		Container: cfg.Container,
		Outcome:   outcome.String(),
		Attempts:  attempts,
		Details:   details,
	}
	if logErr := logger.Log(record); logErr != nil {
		logging.UserWarning("Could not write audit record: %v", logErr)
	}
}

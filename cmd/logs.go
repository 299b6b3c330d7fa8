package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/shipcheck/internal/errors"
	"github.com/firefly-engineering/shipcheck/internal/remote"
	"github.com/firefly-engineering/shipcheck/internal/system"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Fetch the container's logs once and print them",
	Long: `logs connects to the deployment host, fetches the container's log
stream per --log-lines, and prints it to stdout. Useful for inspecting a
deployment without running the full check loop.`,
	RunE: runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
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

	runner, err := remote.New(cfg, system.DefaultFS(), system.DefaultExecutor())
	if err != nil {
		return errors.MisconfiguredCause("could not set up SSH transport", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := runner.Run(ctx, remote.DumpCommand(cfg.WorkDir, cfg.Container, cfg.LogLines))
	if err != nil {
		return errors.TransportError("log fetch", err)
	}
	if res.ExitCode != 0 {
		return errors.New(errors.ExitCheckFailed,
			fmt.Sprintf("remote log fetch exited with status %d: %s", res.ExitCode, res.Output))
	}

	fmt.Print(res.Output)
	return nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/shipcheck/internal/errors"
	"github.com/firefly-engineering/shipcheck/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "shipcheck",
	Short: "Verify that a deployed container started successfully",
	Long: `shipcheck connects to a deployment host over SSH and polls the
container's logs until it can declare the deployment a success or a failure.

Each attempt checks the logs for the failure pattern first, then the success
pattern. When the failure pattern matches, or no pattern matches within the
retry budget, shipcheck dumps the container logs and exits nonzero.

Exit codes:
  0  success pattern matched
  1  failure pattern matched or retry budget exhausted
  2  invalid flags or configuration`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logging.UserError("%v", err)
	}
	return err
}

func init() {
	rootCmd.RunE = runCheck
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Flag parse failures are usage errors, not check failures.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintln(os.Stderr, cmd.UsageString())
		return errors.MisconfiguredCause("invalid arguments", err)
	})
}

package main

import (
	"os"

	"github.com/firefly-engineering/shipcheck/cmd"
	"github.com/firefly-engineering/shipcheck/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}

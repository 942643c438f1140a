package main

import (
	"os"

	"policyqa/internal/cli"
)

// main delegates to the cobra root command.
func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/build-flow-labs/esgrate/internal/esg/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main is the helixlab command.
package main

import (
	"os"

	"github.com/leapstack-labs/helixlab/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main is the entry point for the h2sweep CLI.
package main

import (
	"os"

	"h2sweep/cmd/cli/cmd"
	"h2sweep/internal/logging"
)

func main() {
	err := cmd.Execute()
	logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}

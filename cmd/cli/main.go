// Package main is the entry point for the play-price CLI.
package main

import (
	"os"

	"play-price/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

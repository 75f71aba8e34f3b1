// Package main provides the elixir-sense CLI.
package main

import (
	"os"

	"github.com/smaximov/elixir-sense/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main is the entry point for the nsi CLI.
package main

import (
	"os"

	"github.com/ldez/name-suggestion-index/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

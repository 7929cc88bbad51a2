// Package main provides the entry point for the plagcheck CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/raphaelgruber/plagcheck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		if errors.Is(err, cli.ErrClonesFound) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Package main is the entry point for the tieba client.
package main

import (
	"fmt"
	"os"

	"github.com/tiebago/tieba/internal/cli"
	"github.com/tiebago/tieba/internal/tui"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var _ = []string{commit, date}

func main() {
	// Default entrypoint: launch the TUI when invoked with no args.
	if len(os.Args) == 1 {
		if err := tui.Execute(version); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := cli.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

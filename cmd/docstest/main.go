// Package main is the entry point for the docstest CLI.
package main

import (
	"fmt"
	"os"

	"github.com/deepgram-devs/docs-sample-testing/cli"
)

func main() {
	rootCmd := cli.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Package main is the entry point for the chalk CLI.
package main

import (
	"fmt"
	"os"

	"github.com/chalk-ml/chalk/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

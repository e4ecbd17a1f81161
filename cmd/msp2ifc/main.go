// Package main is the entry point for the msp2ifc CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ifcp6/msp2ifc/internal/app"
	"github.com/ifcp6/msp2ifc/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	container := app.New(cwd)
	defer func() { _ = container.Close() }()

	rootCmd := cli.NewRootCommand(container, version)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	return rootCmd.ExecuteContext(context.Background())
}

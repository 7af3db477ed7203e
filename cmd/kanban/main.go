// Package main is the entry point for the kanban CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/runoshun/cursor-kanban/internal/app"
	"github.com/runoshun/cursor-kanban/internal/cli"
	"github.com/runoshun/cursor-kanban/internal/domain"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", domain.UserMessage(err))
		os.Exit(1)
	}
}

func run() error {
	global := cli.ParseGlobalFlags(os.Args[1:])

	dir := global.ProjectDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = cwd
	}

	// Create dependency injection container
	container, err := app.New(dir, app.Options{Verbose: global.Verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = container.Close() }()

	// Create and execute root command
	rootCmd := cli.NewRootCommand(container, version)
	return rootCmd.ExecuteContext(context.Background())
}

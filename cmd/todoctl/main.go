// Package main is the entry point for the todoctl CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"todoctl/internal/cli"
	"todoctl/internal/commands"
)

func main() {
	// Cancel in-flight requests on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, cli.RESTFactory)
	dispatcher.SetInput(os.Stdin)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

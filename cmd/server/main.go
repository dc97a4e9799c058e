// Package main is the ciclored API executable.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ciclored/ciclored-api/internal/command"
)

func main() { os.Exit(run()) }

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := command.RootCommand().ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

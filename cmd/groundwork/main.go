// Package main is the entry point for the groundwork CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/thoreinstein/groundwork/cmd/groundwork/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.Execute(ctx); err != nil {
		code := commands.ReportError(os.Stderr, err)
		stop()
		os.Exit(code)
	}
}

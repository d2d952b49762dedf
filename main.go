// The main package for the vidwatch executable.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/vidwatch/vidwatch/cmd"
)

// main defers execution to the Cobra CLI, wired to a signal-aware
// context so long-running commands stop cleanly on SIGINT/SIGTERM.
func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Execute(ctx)
}

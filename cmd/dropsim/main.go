// cmd/dropsim/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/aidazolic/dropsim/cmd"
	"github.com/aidazolic/dropsim/internal/observability"
)

func main() {
	// Listen for interrupt signals so a running flow check shuts the browser
	// down cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

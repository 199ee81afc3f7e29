// Command outbox-relay publishes unpublished outbox messages to Kafka.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/casedata-runtime/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunRelay(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "outbox-relay: %v\n", err)
		os.Exit(1)
	}
}

// Command server runs the case data HTTP API. Unless disabled in config it
// also runs the search indexer and the outbox relay.
//
// Exit codes: 0 = clean shutdown, 1 = error (including an indexing failure).
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

	if err := app.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

// Command indexer drains the search index queue into Elasticsearch. It runs
// until it is signalled or a batch fails to index; in the latter case it exits
// with status 1 and expects to be restarted by its supervisor, which replays
// the uncommitted batch.
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

	if err := app.RunIndexer(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "indexer: %v\n", err)
		os.Exit(1)
	}
}

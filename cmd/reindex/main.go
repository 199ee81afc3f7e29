// Command reindex queues every case modified on or after a date for
// re-indexing. The indexer picks the queued events up on its next cycle.
//
// Usage:
//
//	reindex --since=2024-01-31 [--dry-run]
//
// With --dry-run it only reports how many cases would be queued.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heartmarshall/casedata-runtime/internal/app"
)

func main() {
	sinceRaw := flag.String("since", "", "queue cases last modified on or after this date (YYYY-MM-DD)")
	dryRun := flag.Bool("dry-run", false, "count matching cases without queueing them")
	flag.Parse()

	if *sinceRaw == "" {
		fmt.Fprintln(os.Stderr, "Usage: reindex --since=2024-01-31 [--dry-run]")
		os.Exit(1)
	}
	since, err := time.Parse(time.DateOnly, *sinceRaw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reindex: invalid --since %q: %v\n", *sinceRaw, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunReindex(ctx, since, *dryRun); err != nil {
		fmt.Fprintf(os.Stderr, "reindex: %v\n", err)
		os.Exit(1)
	}
}

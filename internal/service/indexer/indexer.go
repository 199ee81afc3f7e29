// Package indexer projects committed cases into the search engine.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type queue interface {
	Claim(ctx context.Context, limit uint64) ([]domain.IndexedCase, error)
}

type bulkWriter interface {
	Bulk(ctx context.Context, docs []domain.SearchDocument) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type recorder interface {
	AddIndexed(kind string, n int)
	ObserveIndexerCycle(result string, d time.Duration)
}

// ---------------------------------------------------------------------------
// Indexer
// ---------------------------------------------------------------------------

const (
	DefaultBatchSize    = 2000
	DefaultPollInterval = 250 * time.Millisecond
)

// Config tunes the indexing loop.
type Config struct {
	BatchSize    uint64
	PollInterval time.Duration
}

// Indexer drains the index queue into the search engine. It is a single
// worker; Run must not be called concurrently.
type Indexer struct {
	queue   queue
	search  bulkWriter
	tx      txManager
	metrics recorder
	cfg     Config
	log     *slog.Logger
	now     func() time.Time
}

// New creates a new indexer. Zero config values take the defaults.
func New(log *slog.Logger, q queue, search bulkWriter, tx txManager, metrics recorder, cfg Config) *Indexer {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &Indexer{
		queue:   q,
		search:  search,
		tx:      tx,
		metrics: metrics,
		cfg:     cfg,
		log:     log.With("service", "indexer"),
		now:     time.Now,
	}
}

// Run indexes until ctx is cancelled or a cycle fails. A failed cycle is
// returned as is: the claimed batch has been rolled back and the process is
// expected to exit and be restarted.
func (ix *Indexer) Run(ctx context.Context) error {
	ix.log.InfoContext(ctx, "indexer started",
		slog.Uint64("batch_size", ix.cfg.BatchSize),
		slog.Duration("poll_interval", ix.cfg.PollInterval),
	)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			ix.log.InfoContext(ctx, "indexer stopped")
			return nil
		case <-timer.C:
		}

		if _, err := ix.IndexOnce(ctx); err != nil {
			if ctx.Err() != nil {
				ix.log.InfoContext(ctx, "indexer stopped")
				return nil
			}
			ix.log.ErrorContext(ctx, "indexing cycle failed, stopping", slog.String("error", err.Error()))
			return err
		}
		timer.Reset(ix.cfg.PollInterval)
	}
}

// IndexOnce claims one batch, ships it and commits the claim. It returns the
// number of queue entries consumed.
func (ix *Indexer) IndexOnce(ctx context.Context) (int, error) {
	start := ix.now()

	var primary, global int
	err := ix.tx.RunInTx(ctx, func(ctx context.Context) error {
		claimed, err := ix.queue.Claim(ctx, ix.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("claim batch: %w", err)
		}
		if len(claimed) == 0 {
			return nil
		}

		ts := ix.now().UTC()
		docs := make([]domain.SearchDocument, 0, len(claimed))
		for _, c := range claimed {
			p := primaryDocument(c, ts)
			docs = append(docs, p)
			primary++
			if g, ok := globalDocument(p); ok {
				docs = append(docs, g)
				global++
			}
		}

		if err := ix.search.Bulk(ctx, docs); err != nil {
			return fmt.Errorf("bulk index %d documents: %w", len(docs), err)
		}
		return nil
	})
	if err != nil {
		ix.metrics.ObserveIndexerCycle("error", ix.now().Sub(start))
		return 0, err
	}

	if primary == 0 {
		ix.metrics.ObserveIndexerCycle("idle", 0)
		return 0, nil
	}

	ix.metrics.AddIndexed("primary", primary)
	ix.metrics.AddIndexed("global", global)
	ix.metrics.ObserveIndexerCycle("ok", ix.now().Sub(start))
	ix.log.DebugContext(ctx, "batch indexed",
		slog.Int("cases", primary),
		slog.Int("global_documents", global),
	)
	return primary, nil
}

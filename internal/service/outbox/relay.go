package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

type pendingStore interface {
	ClaimUnpublished(ctx context.Context, limit uint64) ([]domain.OutboxMessage, error)
	MarkPublished(ctx context.Context, ids []int64, at time.Time) error
}

type broker interface {
	Publish(ctx context.Context, msgs []domain.OutboxMessage) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type relayMetrics interface {
	AddOutboxPublished(n int)
}

const (
	DefaultRelayBatchSize    = 100
	DefaultRelayPollInterval = time.Second
)

// RelayConfig tunes the relay loop. Zero values take the defaults.
type RelayConfig struct {
	BatchSize    uint64
	PollInterval time.Duration
}

// Relay delivers unpublished outbox messages at least once. A failed cycle
// is rolled back and retried on the next tick.
type Relay struct {
	store   pendingStore
	broker  broker
	tx      txManager
	metrics relayMetrics
	cfg     RelayConfig
	log     *slog.Logger
	now     func() time.Time
}

// NewRelay creates a new outbox relay.
func NewRelay(log *slog.Logger, store pendingStore, broker broker, tx txManager, metrics relayMetrics, cfg RelayConfig) *Relay {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultRelayBatchSize
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultRelayPollInterval
	}
	return &Relay{
		store:   store,
		broker:  broker,
		tx:      tx,
		metrics: metrics,
		cfg:     cfg,
		log:     log.With("service", "outbox-relay"),
		now:     time.Now,
	}
}

// Run relays until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	r.log.InfoContext(ctx, "outbox relay started",
		slog.Uint64("batch_size", r.cfg.BatchSize),
		slog.Duration("poll_interval", r.cfg.PollInterval),
	)

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		n, err := r.RelayOnce(ctx)
		if ctx.Err() != nil {
			r.log.InfoContext(ctx, "outbox relay stopped")
			return nil
		}
		if err != nil {
			r.log.ErrorContext(ctx, "outbox relay cycle failed", slog.String("error", err.Error()))
		} else if n > 0 {
			r.log.InfoContext(ctx, "outbox messages relayed", slog.Int("count", n))
		}

		// A full batch usually means more is waiting.
		if err == nil && n > 0 && uint64(n) == r.cfg.BatchSize {
			continue
		}

		select {
		case <-ctx.Done():
			r.log.InfoContext(ctx, "outbox relay stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// RelayOnce runs a single claim-publish-mark cycle and returns the number
// of messages delivered.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	var delivered int

	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		msgs, err := r.store.ClaimUnpublished(ctx, r.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("claim unpublished: %w", err)
		}
		if len(msgs) == 0 {
			return nil
		}

		if err := r.broker.Publish(ctx, msgs); err != nil {
			return fmt.Errorf("publish: %w", err)
		}

		ids := make([]int64, len(msgs))
		for i, m := range msgs {
			ids[i] = m.ID
		}
		if err := r.store.MarkPublished(ctx, ids, r.now().UTC()); err != nil {
			return fmt.Errorf("mark published: %w", err)
		}
		delivered = len(msgs)
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.metrics.AddOutboxPublished(delivered)
	return delivered, nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/casedata-runtime/internal/adapter/callback"
	"github.com/heartmarshall/casedata-runtime/internal/adapter/kafka"
	"github.com/heartmarshall/casedata-runtime/internal/adapter/postgres"
	"github.com/heartmarshall/casedata-runtime/internal/adapter/postgres/casedata"
	eventrepo "github.com/heartmarshall/casedata-runtime/internal/adapter/postgres/caseevent"
	"github.com/heartmarshall/casedata-runtime/internal/adapter/postgres/idempotency"
	"github.com/heartmarshall/casedata-runtime/internal/adapter/postgres/indexqueue"
	outboxrepo "github.com/heartmarshall/casedata-runtime/internal/adapter/postgres/outbox"
	"github.com/heartmarshall/casedata-runtime/internal/adapter/search"
	"github.com/heartmarshall/casedata-runtime/internal/auth"
	"github.com/heartmarshall/casedata-runtime/internal/config"
	"github.com/heartmarshall/casedata-runtime/internal/definition"
	"github.com/heartmarshall/casedata-runtime/internal/metrics"
	"github.com/heartmarshall/casedata-runtime/internal/service/caseevent"
	"github.com/heartmarshall/casedata-runtime/internal/service/indexer"
	"github.com/heartmarshall/casedata-runtime/internal/service/outbox"
	"github.com/heartmarshall/casedata-runtime/internal/transport/middleware"
	"github.com/heartmarshall/casedata-runtime/internal/transport/rest"
)

// base holds what every process needs: config, logger, database pool and
// metrics.
type base struct {
	cfg     *config.Config
	log     *slog.Logger
	pool    *pgxpool.Pool
	tx      *postgres.TxManager
	metrics *metrics.Metrics
}

func start(ctx context.Context, component string) (*base, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := NewLogger(cfg.Log).With("component", component)
	logger.InfoContext(ctx, "starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.Database.DSN, logger); err != nil {
			return nil, err
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	return &base{
		cfg:     cfg,
		log:     logger,
		pool:    pool,
		tx:      postgres.NewTxManager(pool),
		metrics: metrics.New(),
	}, nil
}

func (b *base) close() {
	b.pool.Close()
}

func (b *base) newSearchClient() (*search.Client, error) {
	return search.NewClient(search.Config{
		Addresses: b.cfg.Search.Addresses(),
		Username:  b.cfg.Search.Username,
		Password:  b.cfg.Search.Password,
	}, b.log)
}

func (b *base) newIndexer(client *search.Client) *indexer.Indexer {
	return indexer.New(b.log, indexqueue.New(b.pool), client, b.tx, b.metrics, indexer.Config{
		BatchSize:    b.cfg.Indexer.BatchSize,
		PollInterval: b.cfg.Indexer.PollInterval,
	})
}

func (b *base) newRelay() (*outbox.Relay, func() error, error) {
	pub, err := kafka.NewPublisher(b.cfg.Kafka.Brokers(), b.cfg.Kafka.Topic, b.log)
	if err != nil {
		return nil, nil, err
	}
	relay := outbox.NewRelay(b.log, outboxrepo.New(b.pool), pub, b.tx, b.metrics, outbox.RelayConfig{
		BatchSize:    b.cfg.Outbox.BatchSize,
		PollInterval: b.cfg.Outbox.PollInterval,
	})
	return relay, pub.Close, nil
}

// Run starts the HTTP server and, when enabled, the search indexer and the
// outbox relay in the same process. A failing indexer stops the process.
func Run(ctx context.Context) error {
	b, err := start(ctx, "server")
	if err != nil {
		return err
	}
	defer b.close()

	registry, err := definition.LoadFile(b.cfg.Definitions.Path)
	if err != nil {
		return err
	}
	b.log.InfoContext(ctx, "definitions loaded", slog.Int("case_types", registry.Len()))

	searchClient, err := b.newSearchClient()
	if err != nil {
		return err
	}

	svc := caseevent.NewService(
		b.log,
		casedata.New(b.pool),
		eventrepo.New(b.pool),
		idempotency.New(b.pool, b.log),
		outbox.NewPublisher(b.log, outboxrepo.New(b.pool)),
		indexqueue.New(b.pool),
		registry,
		callback.NewClient(b.cfg.Callback.Timeout, b.log),
		b.tx,
		b.metrics,
		caseevent.Options{
			SubmittedRetries: b.cfg.Callback.SubmittedRetries,
			Backoff:          caseevent.ExponentialBackoff(b.cfg.Callback.SubmittedBaseDelay),
		},
	)

	jwtManager := auth.NewJWTManager(b.cfg.Auth.JWTSecret, b.cfg.Auth.JWTIssuer)

	components := map[string]rest.Pinger{"database": b.pool}
	if b.cfg.Indexer.Enabled {
		components["search"] = searchClient
	}

	router := rest.NewRouter(rest.RouterDeps{
		Log:     b.log,
		Cases:   rest.NewCaseHandler(svc, b.log),
		Health:  rest.NewHealthHandler(BuildVersion(), components),
		Auth:    middleware.Auth(jwtManager),
		Metrics: b.metrics,
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(b.cfg.Server.Host, strconv.Itoa(b.cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
		IdleTimeout:  b.cfg.Server.IdleTimeout,
	}

	var relay *outbox.Relay
	if b.cfg.Outbox.RelayEnabled {
		r, closePub, err := b.newRelay()
		if err != nil {
			return err
		}
		defer closePub() //nolint:errcheck
		relay = r
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.log.InfoContext(gctx, "http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), b.cfg.Server.ShutdownTimeout)
		defer cancel()
		b.log.InfoContext(shutdownCtx, "shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})

	if b.cfg.Indexer.Enabled {
		ix := b.newIndexer(searchClient)
		g.Go(func() error {
			if err := ix.Run(gctx); err != nil {
				return fmt.Errorf("indexer: %w", err)
			}
			return nil
		})
	}

	if relay != nil {
		g.Go(func() error { return relay.Run(gctx) })
	}

	return g.Wait()
}

// RunIndexer runs only the search indexer. It returns when ctx is cancelled
// or the first cycle fails.
func RunIndexer(ctx context.Context) error {
	b, err := start(ctx, "indexer")
	if err != nil {
		return err
	}
	defer b.close()

	client, err := b.newSearchClient()
	if err != nil {
		return err
	}
	if err := client.Ping(ctx); err != nil {
		return err
	}

	return b.newIndexer(client).Run(ctx)
}

// RunRelay runs only the outbox relay.
func RunRelay(ctx context.Context) error {
	b, err := start(ctx, "outbox-relay")
	if err != nil {
		return err
	}
	defer b.close()

	if err := b.cfg.ValidateRelay(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	relay, closePub, err := b.newRelay()
	if err != nil {
		return err
	}
	defer closePub() //nolint:errcheck

	return relay.Run(ctx)
}

// RunReindex queues the newest event of every case modified on or after
// since. A dry run only counts the matching cases.
func RunReindex(ctx context.Context, since time.Time, dryRun bool) error {
	b, err := start(ctx, "reindex")
	if err != nil {
		return err
	}
	defer b.close()

	queue := indexqueue.New(b.pool)
	log := b.log.With(slog.Time("since", since))

	if dryRun {
		n, err := queue.CountModifiedSince(ctx, since)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "reindex dry run", slog.Int64("cases", n))
		return nil
	}

	n, err := queue.EnqueueModifiedSince(ctx, since)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "cases queued for reindex", slog.Int64("queued", n))
	return nil
}

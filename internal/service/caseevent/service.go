// Package caseevent coordinates event submission against a case: the
// idempotency check, the pre-commit callback, the atomic write of case,
// audit, outbox and index queue, and the post-commit notification.
package caseevent

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type caseRepo interface {
	Write(ctx context.Context, p domain.CaseWriteParams) (domain.CaseWriteResult, error)
	GetByReference(ctx context.Context, reference int64) (*domain.CaseRecord, error)
	GetByReferences(ctx context.Context, references []int64) ([]domain.CaseRecord, error)
	UpdateSupplementaryData(ctx context.Context, reference int64, updates []domain.SupplementaryDataUpdate) (domain.SupplementaryDataResult, error)
}

type eventRepo interface {
	Append(ctx context.Context, ev domain.AuditEvent) (int64, time.Time, error)
	ListHistory(ctx context.Context, reference int64) ([]domain.AuditEvent, error)
	GetEvent(ctx context.Context, reference, auditID int64) (*domain.AuditEvent, error)
	LatestEventID(ctx context.Context, caseRecordID int64) (int64, error)
}

type idempotencyGuard interface {
	MarkProcessed(ctx context.Context, key uuid.UUID) (bool, error)
}

type outboxPublisher interface {
	Enqueue(ctx context.Context, ev domain.CommittedEvent) error
}

type indexQueue interface {
	Enqueue(ctx context.Context, eventID int64) error
	EnqueueCase(ctx context.Context, caseID int64) error
}

type definitions interface {
	Event(caseTypeID, eventID string) (domain.CaseTypeDefinition, domain.EventDefinition, error)
}

type callbacks interface {
	AboutToSubmit(ctx context.Context, url string, req domain.CallbackRequest) (*domain.AboutToSubmitResponse, error)
	Submitted(ctx context.Context, url string, req domain.CallbackRequest) (*domain.SubmittedResponse, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type recorder interface {
	IncSubmission(outcome string)
	ObserveSubmit(d time.Duration)
	IncCallbackFailure(kind string)
}

// BackoffFunc builds the retry policy for one post-commit notification.
// attempts is the total number of calls allowed, at least 1.
type BackoffFunc func(attempts int) retry.Backoff

// ExponentialBackoff returns a BackoffFunc doubling from base.
func ExponentialBackoff(base time.Duration) BackoffFunc {
	return func(attempts int) retry.Backoff {
		return retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(base))
	}
}

// Options tunes the post-commit notification.
type Options struct {
	// SubmittedRetries is the attempt count used when an event does not set one.
	SubmittedRetries int
	Backoff          BackoffFunc
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the case write path and its read companions.
type Service struct {
	cases       caseRepo
	events      eventRepo
	idempotency idempotencyGuard
	outbox      outboxPublisher
	index       indexQueue
	defs        definitions
	callbacks   callbacks
	tx          txManager
	metrics     recorder
	log         *slog.Logger

	submittedRetries int
	backoff          BackoffFunc
}

// NewService creates a new case event service.
func NewService(
	log *slog.Logger,
	cases caseRepo,
	events eventRepo,
	idempotency idempotencyGuard,
	outbox outboxPublisher,
	index indexQueue,
	defs definitions,
	callbacks callbacks,
	tx txManager,
	metrics recorder,
	opts Options,
) *Service {
	if opts.SubmittedRetries < 1 {
		opts.SubmittedRetries = 1
	}
	if opts.Backoff == nil {
		opts.Backoff = ExponentialBackoff(500 * time.Millisecond)
	}

	return &Service{
		cases:            cases,
		events:           events,
		idempotency:      idempotency,
		outbox:           outbox,
		index:            index,
		defs:             defs,
		callbacks:        callbacks,
		tx:               tx,
		metrics:          metrics,
		log:              log.With("service", "caseevent"),
		submittedRetries: opts.SubmittedRetries,
		backoff:          opts.Backoff,
	}
}

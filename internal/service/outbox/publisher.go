// Package outbox turns committed case events into outbox messages and
// relays undelivered messages to the broker.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

type messageStore interface {
	Insert(ctx context.Context, msg domain.OutboxMessage) (int64, error)
}

// Publisher writes one outbox row per publish-eligible event, inside the
// caller's transaction.
type Publisher struct {
	store messageStore
	log   *slog.Logger
}

// NewPublisher creates a new outbox publisher.
func NewPublisher(log *slog.Logger, store messageStore) *Publisher {
	return &Publisher{store: store, log: log.With("service", "outbox")}
}

// Enqueue stores the message for ev. Events whose definition is not
// publish-eligible are skipped without error.
func (p *Publisher) Enqueue(ctx context.Context, ev domain.CommittedEvent) error {
	if !ev.Event.Publish {
		p.log.DebugContext(ctx, "event not published",
			slog.String("event_id", ev.Event.ID),
			slog.Int64("reference", ev.Case.Reference),
		)
		return nil
	}

	payload, err := json.Marshal(buildMessage(ev))
	if err != nil {
		return fmt.Errorf("encode message information: %w", err)
	}

	id, err := p.store.Insert(ctx, domain.OutboxMessage{
		MessageType: domain.MessageTypeCaseEvent,
		Key:         strconv.FormatInt(ev.Case.Reference, 10),
		Timestamp:   ev.Timestamp,
		Payload:     payload,
	})
	if err != nil {
		return fmt.Errorf("insert outbox message: %w", err)
	}

	p.log.DebugContext(ctx, "outbox message stored",
		slog.Int64("message_id", id),
		slog.Int64("audit_id", ev.AuditID),
		slog.String("event_id", ev.Event.ID),
	)
	return nil
}

// Package outbox implements the transactional outbox table.
package outbox

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/casedata-runtime/internal/adapter/postgres"
	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

// Repo provides outbox persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new outbox repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Insert stores msg and returns its id.
func (r *Repo) Insert(ctx context.Context, msg domain.OutboxMessage) (int64, error) {
	query, args, err := postgres.Builder.
		Insert("outbox_messages").
		Columns("message_type", "message_key", "time_stamp", "payload").
		Values(msg.MessageType, msg.Key, msg.Timestamp, []byte(msg.Payload)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var id int64
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, postgres.MapError(err, "outbox_message", msg.MessageType)
	}
	return id, nil
}

// ClaimUnpublished locks up to limit unpublished messages, oldest first.
// Rows locked by another relay are skipped. Call inside a transaction.
func (r *Repo) ClaimUnpublished(ctx context.Context, limit uint64) ([]domain.OutboxMessage, error) {
	query, args, err := postgres.Builder.
		Select("id", "message_type", "message_key", "time_stamp", "payload").
		From("outbox_messages").
		Where(sq.Eq{"published_at": nil}).
		OrderBy("id").
		Limit(limit).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "outbox_messages", "unpublished")
	}
	defer rows.Close()

	var out []domain.OutboxMessage
	for rows.Next() {
		var (
			msg     domain.OutboxMessage
			payload []byte
		)
		if err := rows.Scan(&msg.ID, &msg.MessageType, &msg.Key, &msg.Timestamp, &payload); err != nil {
			return nil, postgres.MapError(err, "outbox_messages", "unpublished")
		}
		msg.Payload = payload
		out = append(out, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "outbox_messages", "unpublished")
	}
	return out, nil
}

// MarkPublished sets published_at on the given messages.
func (r *Repo) MarkPublished(ctx context.Context, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := postgres.Builder.
		Update("outbox_messages").
		Set("published_at", at).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "outbox_messages", ids)
	}
	return nil
}

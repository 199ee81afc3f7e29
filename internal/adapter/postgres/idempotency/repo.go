// Package idempotency records processed submission keys.
package idempotency

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	postgres "github.com/heartmarshall/casedata-runtime/internal/adapter/postgres"
)

// Repo stores idempotency marks in PostgreSQL.
type Repo struct {
	db  postgres.Querier
	log *slog.Logger
}

// New creates a new idempotency repository.
func New(db postgres.Querier, log *slog.Logger) *Repo {
	return &Repo{db: db, log: log.With("adapter", "idempotency")}
}

// MarkProcessed inserts key if absent. It reports true when the key was
// already present. Run it in the submission's transaction so a rollback
// also removes the mark.
func (r *Repo) MarkProcessed(ctx context.Context, key uuid.UUID) (bool, error) {
	query, args, err := postgres.Builder.
		Insert("idempotency_keys").
		Columns("id").
		Values(key).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return false, postgres.MapError(err, "idempotency_key", key)
	}

	if tag.RowsAffected() == 0 {
		r.log.InfoContext(ctx, "idempotency key already processed", slog.String("idempotency_key", key.String()))
		return true, nil
	}
	r.log.DebugContext(ctx, "idempotency key recorded", slog.String("idempotency_key", key.String()))
	return false, nil
}

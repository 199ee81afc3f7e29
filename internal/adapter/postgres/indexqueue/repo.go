// Package indexqueue implements the search index change queue.
package indexqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/casedata-runtime/internal/adapter/postgres"
	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

// Repo provides index queue persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new index queue repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Enqueue records that the case touched by audit event eventID needs
// reindexing.
func (r *Repo) Enqueue(ctx context.Context, eventID int64) error {
	query, args, err := postgres.Builder.
		Insert("search_index_queue").
		Columns("id").
		Values(eventID).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "search_index_queue", eventID)
	}
	return nil
}

// latestEventsSQL selects the newest audit event of each case matching the
// caller's filter, for re-enqueueing.
const latestEventsSQL = `
INSERT INTO search_index_queue (id)
SELECT DISTINCT ON (ce.case_data_id) ce.id
FROM case_event ce
JOIN case_data cd ON cd.id = ce.case_data_id
WHERE %s
ORDER BY ce.case_data_id, ce.id DESC
ON CONFLICT (id) DO NOTHING`

var (
	enqueueCaseSQL          = fmt.Sprintf(latestEventsSQL, `cd.id = $1`)
	enqueueModifiedSinceSQL = fmt.Sprintf(latestEventsSQL, `cd.last_modified >= $1`)
)

// EnqueueCase queues the newest event of caseID so the case is reindexed
// with its current row. It is a no-op for a case without events.
func (r *Repo) EnqueueCase(ctx context.Context, caseID int64) error {
	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, enqueueCaseSQL, caseID); err != nil {
		return postgres.MapError(err, "search_index_queue", caseID)
	}
	return nil
}

// CountModifiedSince returns how many cases were modified at or after since.
func (r *Repo) CountModifiedSince(ctx context.Context, since time.Time) (int64, error) {
	query, args, err := postgres.Builder.
		Select("count(*)").
		From("case_data").
		Where(sq.GtOrEq{"last_modified": since}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var n int64
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "case_data", since)
	}
	return n, nil
}

// EnqueueModifiedSince queues every case modified at or after since and
// returns the number of entries added. Cases already queued are skipped.
func (r *Repo) EnqueueModifiedSince(ctx context.Context, since time.Time) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, enqueueModifiedSinceSQL, since)
	if err != nil {
		return 0, postgres.MapError(err, "search_index_queue", since)
	}
	return tag.RowsAffected(), nil
}

// claimSQL deletes up to $1 queue entries and returns them joined with the
// event snapshot and current case row. Only the newest event per case is
// kept. The delete is undone if the surrounding transaction rolls back.
const claimSQL = `
WITH claimed AS (
    DELETE FROM search_index_queue
    WHERE id IN (
        SELECT id FROM search_index_queue
        ORDER BY id
        LIMIT $1
        FOR UPDATE SKIP LOCKED
    )
    RETURNING id
)
SELECT DISTINCT ON (cd.id)
    ce.id, cd.id, cd.reference, cd.jurisdiction, cd.case_type_id, cd.state,
    cd.version, cd.security_classification, ce.data, cd.supplementary_data,
    cd.created_date, ce.created_date, cd.last_state_modified_date
FROM claimed
JOIN case_event ce ON ce.id = claimed.id
JOIN case_data cd ON cd.id = ce.case_data_id
ORDER BY cd.id, ce.id DESC`

// Claim removes and returns the next batch. Call inside a transaction so
// that a failed downstream write puts the batch back.
func (r *Repo) Claim(ctx context.Context, limit uint64) ([]domain.IndexedCase, error) {
	if !postgres.InTx(ctx) {
		return nil, fmt.Errorf("search_index_queue: claim outside transaction")
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, claimSQL, int64(limit))
	if err != nil {
		return nil, postgres.MapError(err, "search_index_queue", "claim")
	}
	defer rows.Close()

	var out []domain.IndexedCase
	for rows.Next() {
		c, err := scanIndexed(rows)
		if err != nil {
			return nil, postgres.MapError(err, "search_index_queue", "claim")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "search_index_queue", "claim")
	}
	return out, nil
}

func scanIndexed(row pgx.Row) (domain.IndexedCase, error) {
	var (
		c              domain.IndexedCase
		classification string
		data, supp     []byte
	)
	err := row.Scan(
		&c.EventID, &c.CaseID, &c.Reference, &c.Jurisdiction, &c.CaseTypeID, &c.State,
		&c.Version, &classification, &data, &supp,
		&c.CreatedAt, &c.LastModifiedAt, &c.LastStateModifiedAt,
	)
	if err != nil {
		return domain.IndexedCase{}, err
	}
	c.SecurityClassification = domain.SecurityClassification(classification)

	c.Data = domain.Document{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &c.Data); err != nil {
			return domain.IndexedCase{}, fmt.Errorf("decode data: %w", err)
		}
	}
	c.SupplementaryData = domain.Document{}
	if len(supp) > 0 {
		if err := json.Unmarshal(supp, &c.SupplementaryData); err != nil {
			return domain.IndexedCase{}, fmt.Errorf("decode supplementary_data: %w", err)
		}
	}
	return c, nil
}

// Package caseevent implements the append-only audit log of case events.
package caseevent

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

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new audit log repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

var eventColumns = []string{
	"id", "case_data_id", "case_reference", "event_id", "event_name",
	"user_id", "user_first_name", "user_last_name",
	"case_type_id", "case_type_version", "state_id", "state_name",
	"summary", "description", "security_classification", "data", "created_date",
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Append inserts ev and returns its id and creation time. It must run in
// the same transaction as the case write it records.
func (r *Repo) Append(ctx context.Context, ev domain.AuditEvent) (int64, time.Time, error) {
	if !postgres.InTx(ctx) {
		return 0, time.Time{}, fmt.Errorf("case_event %d: append outside transaction", ev.CaseReference)
	}

	data := ev.Data
	if data == nil {
		data = domain.Document{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("case_event %d marshal data: %w", ev.CaseReference, err)
	}

	query, args, err := postgres.Builder.
		Insert("case_event").
		Columns(
			"case_data_id", "case_reference", "event_id", "event_name",
			"user_id", "user_first_name", "user_last_name",
			"case_type_id", "case_type_version", "state_id", "state_name",
			"summary", "description", "security_classification", "data",
		).
		Values(
			ev.CaseRecordID, ev.CaseReference, ev.EventID, ev.EventName,
			ev.UserID, ev.UserFirstName, ev.UserLastName,
			ev.CaseTypeID, ev.CaseTypeVersion, ev.StateID, ev.StateName,
			ev.Summary, ev.Description, string(ev.SecurityClassification), raw,
		).
		Suffix("RETURNING id, created_date").
		ToSql()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("build query: %w", err)
	}

	var (
		id        int64
		createdAt time.Time
	)
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&id, &createdAt); err != nil {
		return 0, time.Time{}, postgres.MapError(err, "case_event", ev.CaseReference)
	}
	return id, createdAt, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListHistory returns every event of the case, newest first.
func (r *Repo) ListHistory(ctx context.Context, reference int64) ([]domain.AuditEvent, error) {
	query, args, err := postgres.Builder.
		Select(eventColumns...).
		From("case_event").
		Where(sq.Eq{"case_reference": reference}).
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "case_event", reference)
	}
	defer rows.Close()

	var out []domain.AuditEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, postgres.MapError(err, "case_event", reference)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "case_event", reference)
	}
	return out, nil
}

// GetEvent returns the event with id auditID belonging to the case.
func (r *Repo) GetEvent(ctx context.Context, reference, auditID int64) (*domain.AuditEvent, error) {
	query, args, err := postgres.Builder.
		Select(eventColumns...).
		From("case_event").
		Where(sq.Eq{"case_reference": reference}).
		Where(sq.Eq{"id": auditID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	ev, err := scanEvent(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "case_event", fmt.Sprintf("%d/%d", reference, auditID))
	}
	return &ev, nil
}

// LatestEventID returns the id of the newest event of the case, or 0.
func (r *Repo) LatestEventID(ctx context.Context, caseRecordID int64) (int64, error) {
	query, args, err := postgres.Builder.
		Select("COALESCE(MAX(id), 0)").
		From("case_event").
		Where(sq.Eq{"case_data_id": caseRecordID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var id int64
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, postgres.MapError(err, "case_event", caseRecordID)
	}
	return id, nil
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

func scanEvent(row pgx.Row) (domain.AuditEvent, error) {
	var (
		ev             domain.AuditEvent
		classification string
		raw            []byte
	)
	err := row.Scan(
		&ev.ID, &ev.CaseRecordID, &ev.CaseReference, &ev.EventID, &ev.EventName,
		&ev.UserID, &ev.UserFirstName, &ev.UserLastName,
		&ev.CaseTypeID, &ev.CaseTypeVersion, &ev.StateID, &ev.StateName,
		&ev.Summary, &ev.Description, &classification, &raw, &ev.CreatedAt,
	)
	if err != nil {
		return domain.AuditEvent{}, err
	}
	ev.SecurityClassification = domain.SecurityClassification(classification)

	ev.Data = domain.Document{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &ev.Data); err != nil {
			return domain.AuditEvent{}, fmt.Errorf("decode data: %w", err)
		}
	}
	return ev, nil
}

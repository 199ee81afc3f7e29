package testhelper

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

var refCounter atomic.Int64

func init() {
	refCounter.Store(time.Now().UnixMicro() % 1_000_000_000_000)
}

// NextReference returns a case reference unique within the test process.
func NextReference() int64 {
	return 1_000_000_000_000_000 + refCounter.Add(1)
}

// SeedCase inserts a case row directly, bypassing the write path.
func SeedCase(t *testing.T, pool *pgxpool.Pool, caseTypeID, state string, data domain.Document) domain.CaseRecord {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("testhelper: SeedCase marshal: %v", err)
	}

	rec := domain.CaseRecord{
		Reference:              NextReference(),
		Jurisdiction:           "TEST",
		CaseTypeID:             caseTypeID,
		State:                  state,
		Data:                   data,
		SecurityClassification: domain.ClassificationPublic,
		Version:                1,
	}

	err = pool.QueryRow(context.Background(),
		`INSERT INTO case_data (reference, jurisdiction, case_type_id, state, data, security_classification, version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_date, last_modified, last_state_modified_date`,
		rec.Reference, rec.Jurisdiction, rec.CaseTypeID, rec.State, raw, string(rec.SecurityClassification), rec.Version,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.LastModifiedAt, &rec.LastStateModifiedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedCase insert: %v", err)
	}

	return rec
}

// SeedEvent inserts an audit event for rec and returns its id.
func SeedEvent(t *testing.T, pool *pgxpool.Pool, rec domain.CaseRecord, eventID string) int64 {
	t.Helper()

	raw, err := json.Marshal(rec.Data)
	if err != nil {
		t.Fatalf("testhelper: SeedEvent marshal: %v", err)
	}

	var id int64
	err = pool.QueryRow(context.Background(),
		`INSERT INTO case_event (case_data_id, case_reference, event_id, event_name, user_id,
		     case_type_id, case_type_version, state_id, state_name, security_classification, data)
		 VALUES ($1, $2, $3, $3, 'seed-user', $4, 1, $5, $5, $6, $7)
		 RETURNING id`,
		rec.ID, rec.Reference, eventID, rec.CaseTypeID, rec.State, string(rec.SecurityClassification), raw,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedEvent insert: %v", err)
	}
	return id
}

// Count returns the number of rows in table matching where (with args).
func Count(t *testing.T, pool *pgxpool.Pool, table, where string, args ...any) int {
	t.Helper()

	var n int
	q := "SELECT count(*) FROM " + table
	if where != "" {
		q += " WHERE " + where
	}
	if err := pool.QueryRow(context.Background(), q, args...).Scan(&n); err != nil {
		t.Fatalf("testhelper: count %s: %v", table, err)
	}
	return n
}

// Package casedata implements the case store: the current-state projection
// of every case, written only through an optimistic compare-and-swap.
package casedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/casedata-runtime/internal/adapter/postgres"
	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

// Repo provides case persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new case repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// upsertSQL inserts a new case or applies a compare-and-swap update in one
// statement. The version only moves when data, state or classification
// change; last_state_modified_date only moves when state changes.
const upsertSQL = `
INSERT INTO case_data (reference, jurisdiction, case_type_id, state, data, security_classification, version)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (reference) DO UPDATE SET
    state = EXCLUDED.state,
    data = EXCLUDED.data,
    security_classification = EXCLUDED.security_classification,
    last_modified = now(),
    version = CASE
        WHEN case_data.data IS DISTINCT FROM EXCLUDED.data
          OR case_data.state IS DISTINCT FROM EXCLUDED.state
          OR case_data.security_classification IS DISTINCT FROM EXCLUDED.security_classification
        THEN case_data.version + 1
        ELSE case_data.version
    END,
    last_state_modified_date = CASE
        WHEN case_data.state IS DISTINCT FROM EXCLUDED.state THEN now()
        ELSE case_data.last_state_modified_date
    END
WHERE case_data.version = EXCLUDED.version
  AND NOT $8::boolean
RETURNING id, version, (xmax = 0) AS created`

// Write applies p atomically. Zero affected rows means the stored version
// did not match and yields domain.ErrVersionConflict.
func (r *Repo) Write(ctx context.Context, p domain.CaseWriteParams) (domain.CaseWriteResult, error) {
	data := p.Data
	if data == nil {
		data = domain.Document{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return domain.CaseWriteResult{}, fmt.Errorf("case %d marshal data: %w", p.Reference, err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	var res domain.CaseWriteResult
	err = q.QueryRow(ctx, upsertSQL,
		p.Reference, p.Jurisdiction, p.CaseTypeID, p.State, raw,
		string(p.SecurityClassification), p.ExpectedVersion, p.IsNew,
	).Scan(&res.ID, &res.Version, &res.Created)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CaseWriteResult{}, fmt.Errorf("case %d: %w", p.Reference, domain.ErrVersionConflict)
	}
	if err != nil {
		return domain.CaseWriteResult{}, postgres.MapError(err, "case", p.Reference)
	}

	return res, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

var caseColumns = []string{
	"id", "reference", "jurisdiction", "case_type_id", "state", "data",
	"security_classification", "version", "supplementary_data",
	"created_date", "last_modified", "last_state_modified_date",
}

// GetByReference returns the latest committed state of a case.
func (r *Repo) GetByReference(ctx context.Context, reference int64) (*domain.CaseRecord, error) {
	query, args, err := postgres.Builder.
		Select(caseColumns...).
		From("case_data").
		Where(sq.Eq{"reference": reference}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rec, err := scanCase(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "case", reference)
	}
	return &rec, nil
}

// GetByReferences returns the cases among references that exist, ordered
// by reference. Missing references are skipped.
func (r *Repo) GetByReferences(ctx context.Context, references []int64) ([]domain.CaseRecord, error) {
	if len(references) == 0 {
		return []domain.CaseRecord{}, nil
	}

	query, args, err := postgres.Builder.
		Select(caseColumns...).
		From("case_data").
		Where(sq.Eq{"reference": references}).
		OrderBy("reference").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "cases", references)
	}
	defer rows.Close()

	out := make([]domain.CaseRecord, 0, len(references))
	for rows.Next() {
		rec, err := scanCase(rows)
		if err != nil {
			return nil, postgres.MapError(err, "cases", references)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "cases", references)
	}
	return out, nil
}

// supplementarySQL applies one update to supplementary_data. The first
// path segment is created as an object when missing so nested paths can be
// set on an empty document.
const supplementarySQL = `
UPDATE case_data SET supplementary_data = jsonb_set_lax(
    jsonb_set(
        supplementary_data,
        ($2::text[])[1:1],
        coalesce(supplementary_data #> ($2::text[])[1:1], '{}'::jsonb)
    ),
    $2::text[],
    %s,
    true,
    'raise_exception'
)
WHERE reference = $1
RETURNING id, supplementary_data`

var (
	supplementarySetSQL = fmt.Sprintf(supplementarySQL, `$3::jsonb`)
	supplementaryIncSQL = fmt.Sprintf(supplementarySQL,
		`to_jsonb(coalesce((supplementary_data #>> $2::text[])::bigint, 0) + $3::bigint)`)
)

// UpdateSupplementaryData applies updates in order and returns the
// resulting document. It neither versions the case nor writes an audit
// event. An unknown reference yields domain.ErrNotFound.
func (r *Repo) UpdateSupplementaryData(ctx context.Context, reference int64, updates []domain.SupplementaryDataUpdate) (domain.SupplementaryDataResult, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var res domain.SupplementaryDataResult
	for _, u := range updates {
		var (
			query string
			arg   any
		)
		switch u.Op {
		case domain.SupplementarySet:
			raw, err := json.Marshal(u.Value)
			if err != nil {
				return res, fmt.Errorf("encode supplementary value: %w", err)
			}
			query, arg = supplementarySetSQL, raw
		case domain.SupplementaryInc:
			query, arg = supplementaryIncSQL, u.Value
		default:
			return res, fmt.Errorf("supplementary op %q: %w", u.Op, domain.ErrValidation)
		}

		var raw []byte
		if err := q.QueryRow(ctx, query, reference, u.Path, arg).Scan(&res.CaseID, &raw); err != nil {
			return domain.SupplementaryDataResult{}, postgres.MapError(err, "case", reference)
		}
		doc, err := decodeDocument(raw)
		if err != nil {
			return domain.SupplementaryDataResult{}, fmt.Errorf("decode supplementary_data: %w", err)
		}
		res.Data = doc
	}
	return res, nil
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

func scanCase(row pgx.Row) (domain.CaseRecord, error) {
	var (
		rec            domain.CaseRecord
		data, supp     []byte
		classification string
	)
	err := row.Scan(
		&rec.ID, &rec.Reference, &rec.Jurisdiction, &rec.CaseTypeID, &rec.State, &data,
		&classification, &rec.Version, &supp,
		&rec.CreatedAt, &rec.LastModifiedAt, &rec.LastStateModifiedAt,
	)
	if err != nil {
		return domain.CaseRecord{}, err
	}
	rec.SecurityClassification = domain.SecurityClassification(classification)

	if rec.Data, err = decodeDocument(data); err != nil {
		return domain.CaseRecord{}, fmt.Errorf("decode data: %w", err)
	}
	if rec.SupplementaryData, err = decodeDocument(supp); err != nil {
		return domain.CaseRecord{}, fmt.Errorf("decode supplementary_data: %w", err)
	}
	return rec, nil
}

func decodeDocument(raw []byte) (domain.Document, error) {
	doc := domain.Document{}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

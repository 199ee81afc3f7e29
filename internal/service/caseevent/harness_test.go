package caseevent

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
	"github.com/heartmarshall/casedata-runtime/internal/metrics"
	"github.com/heartmarshall/casedata-runtime/pkg/ctxutil"
)

//go:generate moq -out case_repo_mock_test.go -pkg caseevent . caseRepo
//go:generate moq -out event_repo_mock_test.go -pkg caseevent . eventRepo
//go:generate moq -out idempotency_guard_mock_test.go -pkg caseevent . idempotencyGuard
//go:generate moq -out outbox_publisher_mock_test.go -pkg caseevent . outboxPublisher
//go:generate moq -out index_queue_mock_test.go -pkg caseevent . indexQueue
//go:generate moq -out definitions_mock_test.go -pkg caseevent . definitions
//go:generate moq -out callbacks_mock_test.go -pkg caseevent . callbacks
//go:generate moq -out tx_manager_mock_test.go -pkg caseevent . txManager

var testUser = domain.User{ID: "user-1", FirstName: "Ann", LastName: "Lee"}

func userCtx() context.Context {
	return ctxutil.WithUser(context.Background(), testUser)
}

func testCaseType() domain.CaseTypeDefinition {
	return domain.CaseTypeDefinition{
		ID:           "NFD",
		Name:         "No fault divorce",
		Jurisdiction: "DIVORCE",
		Version:      3,
		States: map[string]domain.StateDefinition{
			"Draft":     {ID: "Draft", Name: "Draft"},
			"Submitted": {ID: "Submitted", Name: "Application submitted"},
		},
		Events: map[string]domain.EventDefinition{
			"create-draft": {ID: "create-draft", Name: "Create draft", PostState: "Draft", Publish: true},
			"submit": {
				ID:               "submit",
				Name:             "Submit application",
				PostState:        "Submitted",
				AllowedStates:    []string{"Submitted", "Draft"},
				AboutToSubmitURL: "http://callbacks/about-to-submit",
				SubmittedURL:     "http://callbacks/submitted",
				SubmittedRetries: 3,
			},
			"add-note": {ID: "add-note", Name: "Add note", PostState: domain.KeepState},
		},
	}
}

// store is an in-memory stand-in for the tables one submission touches.
// Every mutation made inside RunInTx is undone when fn fails.
type store struct {
	cases  map[int64]domain.CaseRecord
	events []domain.AuditEvent
	keys   map[uuid.UUID]bool
	outbox []domain.CommittedEvent
	queue  []int64
	nextID int64
}

func (s *store) snapshot() *store {
	cp := &store{
		cases:  make(map[int64]domain.CaseRecord, len(s.cases)),
		events: append([]domain.AuditEvent(nil), s.events...),
		keys:   make(map[uuid.UUID]bool, len(s.keys)),
		outbox: append([]domain.CommittedEvent(nil), s.outbox...),
		queue:  append([]int64(nil), s.queue...),
		nextID: s.nextID,
	}
	for k, v := range s.cases {
		cp.cases[k] = v
	}
	for k, v := range s.keys {
		cp.keys[k] = v
	}
	return cp
}

func (s *store) restore(from *store) {
	s.cases, s.events, s.keys, s.outbox, s.queue, s.nextID = from.cases, from.events, from.keys, from.outbox, from.queue, from.nextID
}

type fixture struct {
	db        *store
	cases     *caseRepoMock
	events    *eventRepoMock
	guard     *idempotencyGuardMock
	outbox    *outboxPublisherMock
	index     *indexQueueMock
	defs      *definitionsMock
	callbacks *callbacksMock
	tx        *txManagerMock
	metrics   *metrics.Metrics
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := &store{cases: map[int64]domain.CaseRecord{}, keys: map[uuid.UUID]bool{}, nextID: 1}
	ct := testCaseType()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	f := &fixture{db: db, metrics: metrics.New()}

	f.cases = &caseRepoMock{
		WriteFunc: func(ctx context.Context, p domain.CaseWriteParams) (domain.CaseWriteResult, error) {
			cur, exists := db.cases[p.Reference]
			if exists && (p.IsNew || cur.Version != p.ExpectedVersion) {
				return domain.CaseWriteResult{}, fmt.Errorf("case %d: %w", p.Reference, domain.ErrVersionConflict)
			}
			if !exists {
				db.nextID++
				db.cases[p.Reference] = domain.CaseRecord{
					ID: db.nextID, Reference: p.Reference, Jurisdiction: p.Jurisdiction, CaseTypeID: p.CaseTypeID,
					State: p.State, Data: p.Data, SecurityClassification: p.SecurityClassification,
					Version: p.ExpectedVersion, CreatedAt: now, LastModifiedAt: now, LastStateModifiedAt: now,
				}
				return domain.CaseWriteResult{ID: db.nextID, Version: p.ExpectedVersion, Created: true}, nil
			}
			changed := cur.State != p.State || cur.SecurityClassification != p.SecurityClassification ||
				fmt.Sprint(cur.Data) != fmt.Sprint(p.Data)
			if changed {
				cur.Version++
			}
			cur.State, cur.Data, cur.SecurityClassification = p.State, p.Data, p.SecurityClassification
			db.cases[p.Reference] = cur
			return domain.CaseWriteResult{ID: cur.ID, Version: cur.Version}, nil
		},
		GetByReferenceFunc: func(ctx context.Context, reference int64) (*domain.CaseRecord, error) {
			rec, ok := db.cases[reference]
			if !ok {
				return nil, fmt.Errorf("case %d: %w", reference, domain.ErrNotFound)
			}
			return &rec, nil
		},
		UpdateSupplementaryDataFunc: func(ctx context.Context, reference int64, updates []domain.SupplementaryDataUpdate) (domain.SupplementaryDataResult, error) {
			cur, ok := db.cases[reference]
			if !ok {
				return domain.SupplementaryDataResult{}, fmt.Errorf("case %d: %w", reference, domain.ErrNotFound)
			}
			supp := cur.SupplementaryData.Clone()
			if supp == nil {
				supp = domain.Document{}
			}
			for _, u := range updates {
				key := strings.Join(u.Path, ".")
				switch u.Op {
				case domain.SupplementaryInc:
					prev, _ := supp[key].(int64)
					supp[key] = prev + u.Value.(int64)
				default:
					supp[key] = u.Value
				}
			}
			cur.SupplementaryData = supp
			db.cases[reference] = cur
			return domain.SupplementaryDataResult{CaseID: cur.ID, Data: supp}, nil
		},
		GetByReferencesFunc: func(ctx context.Context, references []int64) ([]domain.CaseRecord, error) {
			var out []domain.CaseRecord
			for _, ref := range references {
				if rec, ok := db.cases[ref]; ok {
					out = append(out, rec)
				}
			}
			sort.Slice(out, func(i, j int) bool { return out[i].Reference < out[j].Reference })
			return out, nil
		},
	}

	f.events = &eventRepoMock{
		AppendFunc: func(ctx context.Context, ev domain.AuditEvent) (int64, time.Time, error) {
			ev.ID = int64(len(db.events) + 1)
			ev.CreatedAt = now
			db.events = append(db.events, ev)
			return ev.ID, now, nil
		},
		ListHistoryFunc: func(ctx context.Context, reference int64) ([]domain.AuditEvent, error) {
			var out []domain.AuditEvent
			for i := len(db.events) - 1; i >= 0; i-- {
				if db.events[i].CaseReference == reference {
					out = append(out, db.events[i])
				}
			}
			return out, nil
		},
		GetEventFunc: func(ctx context.Context, reference, auditID int64) (*domain.AuditEvent, error) {
			for _, ev := range db.events {
				if ev.ID == auditID && ev.CaseReference == reference {
					return &ev, nil
				}
			}
			return nil, fmt.Errorf("event %d: %w", auditID, domain.ErrNotFound)
		},
		LatestEventIDFunc: func(ctx context.Context, caseRecordID int64) (int64, error) {
			var latest int64
			for _, ev := range db.events {
				if ev.CaseRecordID == caseRecordID && ev.ID > latest {
					latest = ev.ID
				}
			}
			return latest, nil
		},
	}

	f.guard = &idempotencyGuardMock{
		MarkProcessedFunc: func(ctx context.Context, key uuid.UUID) (bool, error) {
			if db.keys[key] {
				return true, nil
			}
			db.keys[key] = true
			return false, nil
		},
	}

	f.outbox = &outboxPublisherMock{
		EnqueueFunc: func(ctx context.Context, ev domain.CommittedEvent) error {
			if ev.Event.Publish {
				db.outbox = append(db.outbox, ev)
			}
			return nil
		},
	}

	f.index = &indexQueueMock{
		EnqueueFunc: func(ctx context.Context, eventID int64) error {
			db.queue = append(db.queue, eventID)
			return nil
		},
		EnqueueCaseFunc: func(ctx context.Context, caseID int64) error {
			var latest int64
			for _, ev := range db.events {
				if ev.CaseRecordID == caseID && ev.ID > latest {
					latest = ev.ID
				}
			}
			if latest > 0 {
				db.queue = append(db.queue, latest)
			}
			return nil
		},
	}

	f.defs = &definitionsMock{
		EventFunc: func(caseTypeID, eventID string) (domain.CaseTypeDefinition, domain.EventDefinition, error) {
			if caseTypeID != ct.ID {
				return domain.CaseTypeDefinition{}, domain.EventDefinition{}, fmt.Errorf("case type %s: %w", caseTypeID, domain.ErrNotFound)
			}
			ev, ok := ct.Events[eventID]
			if !ok {
				return domain.CaseTypeDefinition{}, domain.EventDefinition{}, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
			}
			return ct, ev, nil
		},
	}

	f.callbacks = &callbacksMock{
		AboutToSubmitFunc: func(ctx context.Context, url string, req domain.CallbackRequest) (*domain.AboutToSubmitResponse, error) {
			return &domain.AboutToSubmitResponse{}, nil
		},
		SubmittedFunc: func(ctx context.Context, url string, req domain.CallbackRequest) (*domain.SubmittedResponse, error) {
			return &domain.SubmittedResponse{}, nil
		},
	}

	f.tx = &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			snap := db.snapshot()
			if err := fn(ctx); err != nil {
				db.restore(snap)
				return err
			}
			return nil
		},
	}

	f.svc = NewService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		f.cases, f.events, f.guard, f.outbox, f.index, f.defs, f.callbacks, f.tx, f.metrics,
		Options{
			SubmittedRetries: 1,
			Backoff: func(attempts int) retry.Backoff {
				return retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(time.Millisecond))
			},
		},
	)
	return f
}

func submitInput(ref int64, event string, version int, data domain.Document) SubmitEventInput {
	return SubmitEventInput{
		IdempotencyKey:  uuid.New(),
		Reference:       ref,
		CaseTypeID:      "NFD",
		EventID:         event,
		ExpectedVersion: version,
		Data:            data,
	}
}

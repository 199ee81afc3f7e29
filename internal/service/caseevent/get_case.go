package caseevent

import (
	"context"
	"fmt"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
	"github.com/heartmarshall/casedata-runtime/pkg/ctxutil"
)

// GetCase returns the current view of one case.
func (s *Service) GetCase(ctx context.Context, reference int64) (*domain.CaseView, error) {
	if _, ok := ctxutil.UserFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if reference <= 0 {
		return nil, domain.NewValidationError("reference", "must be a positive case reference")
	}

	return s.caseView(ctx, reference)
}

// GetCases returns the views of the referenced cases that exist, ordered by
// reference. Unknown references are omitted.
func (s *Service) GetCases(ctx context.Context, input GetCasesInput) ([]domain.CaseView, error) {
	if _, ok := ctxutil.UserFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	records, err := s.cases.GetByReferences(ctx, input.References)
	if err != nil {
		return nil, fmt.Errorf("get cases: %w", err)
	}

	views := make([]domain.CaseView, 0, len(records))
	for _, rec := range records {
		latest, err := s.events.LatestEventID(ctx, rec.ID)
		if err != nil {
			return nil, fmt.Errorf("latest event for case %d: %w", rec.Reference, err)
		}
		views = append(views, domain.CaseView{CaseRecord: rec, LatestEventID: latest})
	}
	return views, nil
}

func (s *Service) caseView(ctx context.Context, reference int64) (*domain.CaseView, error) {
	rec, err := s.cases.GetByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("get case: %w", err)
	}

	latest, err := s.events.LatestEventID(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("latest event for case %d: %w", reference, err)
	}

	return &domain.CaseView{CaseRecord: *rec, LatestEventID: latest}, nil
}

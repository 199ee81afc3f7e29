package caseevent

import (
	"context"
	"fmt"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
	"github.com/heartmarshall/casedata-runtime/pkg/ctxutil"
)

// ListHistory returns every audit event of a case, newest first.
// An unknown case yields domain.ErrNotFound rather than an empty list.
func (s *Service) ListHistory(ctx context.Context, reference int64) ([]domain.AuditEvent, error) {
	if _, ok := ctxutil.UserFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if reference <= 0 {
		return nil, domain.NewValidationError("reference", "must be a positive case reference")
	}

	events, err := s.events.ListHistory(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	if len(events) == 0 {
		if _, err := s.cases.GetByReference(ctx, reference); err != nil {
			return nil, fmt.Errorf("get case: %w", err)
		}
	}
	return events, nil
}

// GetHistoryEvent returns one audit event of a case.
func (s *Service) GetHistoryEvent(ctx context.Context, reference, auditID int64) (*domain.AuditEvent, error) {
	if _, ok := ctxutil.UserFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	var errs []domain.FieldError
	if reference <= 0 {
		errs = append(errs, domain.FieldError{Field: "reference", Message: "must be a positive case reference"})
	}
	if auditID <= 0 {
		errs = append(errs, domain.FieldError{Field: "event_id", Message: "must be positive"})
	}
	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}

	ev, err := s.events.GetEvent(ctx, reference, auditID)
	if err != nil {
		return nil, fmt.Errorf("get history event: %w", err)
	}
	return ev, nil
}

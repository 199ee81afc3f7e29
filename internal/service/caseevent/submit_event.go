package caseevent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
	"github.com/heartmarshall/casedata-runtime/pkg/ctxutil"
)

// committed carries what the transaction wrote, for the post-commit step.
type committed struct {
	before   *domain.CaseRecord
	after    domain.CaseRecord
	auditID  int64
	warnings []string
}

// SubmitEvent applies one event to a case. The case write, audit entry,
// outbox message and index-queue entry commit together or not at all.
// A replayed idempotency key returns the current case with AlreadyProcessed set.
func (s *Service) SubmitEvent(ctx context.Context, input SubmitEventInput) (*SubmitResult, error) {
	start := time.Now()
	res, err := s.submitEvent(ctx, input)
	s.metrics.ObserveSubmit(time.Since(start))
	s.metrics.IncSubmission(outcome(res, err))
	return res, err
}

func (s *Service) submitEvent(ctx context.Context, input SubmitEventInput) (*SubmitResult, error) {
	user, ok := ctxutil.UserFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	caseType, event, err := s.defs.Event(input.CaseTypeID, input.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("event_id", "unknown event for case type")
		}
		return nil, fmt.Errorf("lookup event: %w", err)
	}

	var (
		duplicate bool
		out       committed
	)

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		already, err := s.idempotency.MarkProcessed(ctx, input.IdempotencyKey)
		if err != nil {
			return fmt.Errorf("mark processed: %w", err)
		}
		if already {
			duplicate = true
			return nil
		}

		prior, err := s.cases.GetByReference(ctx, input.Reference)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get case: %w", err)
		}
		if err != nil {
			prior = nil
		}

		proposed, err := propose(input, caseType, event, prior)
		if err != nil {
			return err
		}

		var warnings []string
		if event.HasAboutToSubmit() {
			warnings, err = s.applyAboutToSubmit(ctx, caseType, event, &proposed, prior)
			if err != nil {
				return err
			}
		}

		written, err := s.cases.Write(ctx, domain.CaseWriteParams{
			Reference:              proposed.Reference,
			ExpectedVersion:        input.ExpectedVersion,
			Jurisdiction:           proposed.Jurisdiction,
			CaseTypeID:             proposed.CaseTypeID,
			State:                  proposed.State,
			Data:                   proposed.Data,
			SecurityClassification: proposed.SecurityClassification,
			IsNew:                  prior == nil,
		})
		if err != nil {
			return fmt.Errorf("write case: %w", err)
		}
		proposed.ID = written.ID
		proposed.Version = written.Version

		auditID, createdAt, err := s.events.Append(ctx, domain.AuditEvent{
			CaseRecordID:           written.ID,
			CaseReference:          proposed.Reference,
			EventID:                event.ID,
			EventName:              event.Name,
			UserID:                 user.ID,
			UserFirstName:          user.FirstName,
			UserLastName:           user.LastName,
			CaseTypeID:             caseType.ID,
			CaseTypeVersion:        caseType.Version,
			StateID:                proposed.State,
			StateName:              caseType.StateName(proposed.State),
			Summary:                input.Summary,
			Description:            input.Description,
			SecurityClassification: proposed.SecurityClassification,
			Data:                   proposed.Data,
		})
		if err != nil {
			return fmt.Errorf("append audit event: %w", err)
		}

		previousState := ""
		if prior != nil {
			previousState = prior.State
		}
		if err := s.outbox.Enqueue(ctx, domain.CommittedEvent{
			AuditID:       auditID,
			Timestamp:     createdAt,
			User:          user,
			CaseType:      caseType,
			Event:         event,
			PreviousState: previousState,
			Case:          proposed,
		}); err != nil {
			return fmt.Errorf("enqueue outbox: %w", err)
		}

		if err := s.index.Enqueue(ctx, auditID); err != nil {
			return fmt.Errorf("enqueue index: %w", err)
		}

		out = committed{before: prior, after: proposed, auditID: auditID, warnings: warnings}
		return nil
	})
	if err != nil {
		s.logRejection(ctx, input, err)
		return nil, err
	}

	if duplicate {
		s.log.InfoContext(ctx, "duplicate submission ignored",
			slog.String("idempotency_key", input.IdempotencyKey.String()),
			slog.Int64("reference", input.Reference),
			slog.String("event_id", input.EventID),
		)
		view, err := s.caseView(ctx, input.Reference)
		if err != nil {
			return nil, err
		}
		return &SubmitResult{Case: *view, AlreadyProcessed: true}, nil
	}

	s.log.InfoContext(ctx, "event submitted",
		slog.Int64("reference", input.Reference),
		slog.String("case_type_id", caseType.ID),
		slog.String("event_id", event.ID),
		slog.Int64("audit_id", out.auditID),
		slog.Int("version", out.after.Version),
		slog.String("user_id", user.ID),
	)

	result := &SubmitResult{Warnings: out.warnings}

	if event.HasSubmitted() {
		if resp := s.dispatchSubmitted(ctx, event, out); resp != nil {
			result.ConfirmationHeader = resp.ConfirmationHeader
			result.ConfirmationBody = resp.ConfirmationBody
		}
	}

	view, err := s.caseView(ctx, input.Reference)
	if err != nil {
		return nil, fmt.Errorf("read committed case: %w", err)
	}
	result.Case = *view

	return result, nil
}

// propose builds the case as the submission would leave it before any
// callback has had a say.
func propose(input SubmitEventInput, caseType domain.CaseTypeDefinition, event domain.EventDefinition, prior *domain.CaseRecord) (domain.CaseRecord, error) {
	proposed := domain.CaseRecord{
		Reference:              input.Reference,
		Jurisdiction:           caseType.Jurisdiction,
		CaseTypeID:             caseType.ID,
		SecurityClassification: domain.ClassificationPublic,
		Version:                input.ExpectedVersion,
	}

	if prior != nil {
		if prior.CaseTypeID != input.CaseTypeID {
			return domain.CaseRecord{}, domain.NewValidationError("case_type_id", "does not match the stored case")
		}
		if prior.Version != input.ExpectedVersion {
			return domain.CaseRecord{}, fmt.Errorf("case %d: %w", input.Reference, domain.ErrVersionConflict)
		}
		proposed.ID = prior.ID
		proposed.Jurisdiction = prior.Jurisdiction
		proposed.State = prior.State
		proposed.Data = prior.Data.Clone()
		proposed.SecurityClassification = prior.SecurityClassification
		proposed.SupplementaryData = prior.SupplementaryData
		proposed.CreatedAt = prior.CreatedAt
		proposed.LastModifiedAt = prior.LastModifiedAt
		proposed.LastStateModifiedAt = prior.LastStateModifiedAt
	}

	if event.PostState != "" && event.PostState != domain.KeepState {
		proposed.State = event.PostState
	}
	if input.State != "" {
		proposed.State = input.State
	}
	if input.Data != nil {
		proposed.Data = input.Data.Clone()
	}
	if proposed.Data == nil {
		proposed.Data = domain.Document{}
	}
	if input.SecurityClassification != "" {
		proposed.SecurityClassification = input.SecurityClassification
	}

	if proposed.State == "" {
		return domain.CaseRecord{}, domain.NewValidationError("state", "required for a new case when the event keeps state")
	}
	if _, ok := caseType.States[proposed.State]; !ok {
		return domain.CaseRecord{}, domain.NewValidationError("state", fmt.Sprintf("unknown state %q", proposed.State))
	}
	return proposed, nil
}

// applyAboutToSubmit lets the callback veto or amend proposed.
func (s *Service) applyAboutToSubmit(ctx context.Context, caseType domain.CaseTypeDefinition, event domain.EventDefinition, proposed *domain.CaseRecord, prior *domain.CaseRecord) ([]string, error) {
	resp, err := s.callbacks.AboutToSubmit(ctx, event.AboutToSubmitURL, domain.CallbackRequest{
		EventID: event.ID,
		Case:    *proposed,
		Before:  prior,
	})
	if err != nil {
		s.metrics.IncCallbackFailure("about_to_submit")
		return nil, fmt.Errorf("about-to-submit callback: %w", err)
	}

	if len(resp.Errors) > 0 {
		return nil, &domain.CallbackRejectedError{Errors: resp.Errors, Warnings: resp.Warnings}
	}

	if resp.Data != nil {
		proposed.Data = resp.Data
	}
	if resp.State != "" {
		_, known := caseType.States[resp.State]
		if !known || !event.PermitsState(resp.State) {
			return nil, &domain.CallbackRejectedError{
				Errors:   []string{fmt.Sprintf("state %q is not permitted for event %q", resp.State, event.ID)},
				Warnings: resp.Warnings,
			}
		}
		proposed.State = resp.State
	}
	if resp.SecurityClassification != "" {
		if !resp.SecurityClassification.IsValid() {
			return nil, fmt.Errorf("about-to-submit callback: invalid security classification %q", resp.SecurityClassification)
		}
		proposed.SecurityClassification = resp.SecurityClassification
	}
	return resp.Warnings, nil
}

func (s *Service) logRejection(ctx context.Context, input SubmitEventInput, err error) {
	attrs := []any{
		slog.Int64("reference", input.Reference),
		slog.String("event_id", input.EventID),
		slog.String("error", err.Error()),
	}

	var rejected *domain.CallbackRejectedError
	switch {
	case errors.As(err, &rejected), errors.Is(err, domain.ErrValidation):
		s.log.InfoContext(ctx, "submission rejected", attrs...)
	case errors.Is(err, domain.ErrConflict):
		s.log.InfoContext(ctx, "submission conflicted", attrs...)
	default:
		s.log.ErrorContext(ctx, "submission failed", attrs...)
	}
}

func outcome(res *SubmitResult, err error) string {
	var rejected *domain.CallbackRejectedError
	switch {
	case err == nil && res != nil && res.AlreadyProcessed:
		return outcomeDuplicate
	case err == nil:
		return outcomeCommitted
	case errors.As(err, &rejected):
		return outcomeRejected
	case errors.Is(err, domain.ErrValidation):
		return outcomeInvalid
	case errors.Is(err, domain.ErrConflict):
		return outcomeConflict
	default:
		return outcomeError
	}
}

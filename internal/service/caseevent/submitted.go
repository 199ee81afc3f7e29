package caseevent

import (
	"context"
	"log/slog"

	"github.com/sethvargo/go-retry"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

// dispatchSubmitted notifies the submitted callback after commit. Failures
// are logged and counted; the committed case is never affected.
func (s *Service) dispatchSubmitted(ctx context.Context, event domain.EventDefinition, c committed) *domain.SubmittedResponse {
	attempts := event.SubmittedRetries
	if attempts < 1 {
		attempts = s.submittedRetries
	}

	req := domain.CallbackRequest{
		EventID: event.ID,
		Case:    c.after,
		Before:  c.before,
	}

	var (
		resp *domain.SubmittedResponse
		n    int
	)
	err := retry.Do(ctx, s.backoff(attempts), func(ctx context.Context) error {
		n++
		r, err := s.callbacks.Submitted(ctx, event.SubmittedURL, req)
		if err != nil {
			s.log.WarnContext(ctx, "submitted callback attempt failed",
				slog.Int64("reference", c.after.Reference),
				slog.String("event_id", event.ID),
				slog.Int("attempt", n),
				slog.String("error", err.Error()),
			)
			return retry.RetryableError(err)
		}
		resp = r
		return nil
	})
	if err != nil {
		s.metrics.IncCallbackFailure("submitted")
		s.log.ErrorContext(ctx, "submitted callback failed",
			slog.Int64("reference", c.after.Reference),
			slog.String("event_id", event.ID),
			slog.Int64("audit_id", c.auditID),
			slog.Int("attempts", n),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return resp
}

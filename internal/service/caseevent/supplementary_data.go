package caseevent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
	"github.com/heartmarshall/casedata-runtime/pkg/ctxutil"
)

// UpdateSupplementaryData applies $set and $inc changes to a case's
// supplementary data and queues the case for reindexing. The case version
// and audit trail are left untouched.
func (s *Service) UpdateSupplementaryData(ctx context.Context, input UpdateSupplementaryDataInput) (domain.Document, error) {
	user, ok := ctxutil.UserFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	ops := input.operations()

	var res domain.SupplementaryDataResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.cases.UpdateSupplementaryData(ctx, input.Reference, ops)
		if err != nil {
			return fmt.Errorf("update supplementary data: %w", err)
		}
		if err := s.index.EnqueueCase(ctx, res.CaseID); err != nil {
			return fmt.Errorf("enqueue index: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "supplementary data updated",
		slog.Int64("reference", input.Reference),
		slog.Int("operations", len(ops)),
		slog.String("user_id", user.ID),
	)
	return res.Data, nil
}

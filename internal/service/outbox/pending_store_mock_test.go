package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

var _ pendingStore = &pendingStoreMock{}

type pendingStoreMock struct {
	ClaimUnpublishedFunc func(ctx context.Context, limit uint64) ([]domain.OutboxMessage, error)
	MarkPublishedFunc    func(ctx context.Context, ids []int64, at time.Time) error

	calls struct {
		ClaimUnpublished []struct {
			Ctx   context.Context
			Limit uint64
		}
		MarkPublished []struct {
			Ctx context.Context
			IDs []int64
			At  time.Time
		}
	}
	lockClaimUnpublished sync.RWMutex
	lockMarkPublished    sync.RWMutex
}

func (mock *pendingStoreMock) ClaimUnpublished(ctx context.Context, limit uint64) ([]domain.OutboxMessage, error) {
	if mock.ClaimUnpublishedFunc == nil {
		panic("pendingStoreMock.ClaimUnpublishedFunc: method is nil but pendingStore.ClaimUnpublished was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Limit uint64
	}{Ctx: ctx, Limit: limit}
	mock.lockClaimUnpublished.Lock()
	mock.calls.ClaimUnpublished = append(mock.calls.ClaimUnpublished, callInfo)
	mock.lockClaimUnpublished.Unlock()
	return mock.ClaimUnpublishedFunc(ctx, limit)
}

func (mock *pendingStoreMock) ClaimUnpublishedCalls() []struct {
	Ctx   context.Context
	Limit uint64
} {
	mock.lockClaimUnpublished.RLock()
	calls := mock.calls.ClaimUnpublished
	mock.lockClaimUnpublished.RUnlock()
	return calls
}

func (mock *pendingStoreMock) MarkPublished(ctx context.Context, ids []int64, at time.Time) error {
	if mock.MarkPublishedFunc == nil {
		panic("pendingStoreMock.MarkPublishedFunc: method is nil but pendingStore.MarkPublished was just called")
	}
	callInfo := struct {
		Ctx context.Context
		IDs []int64
		At  time.Time
	}{Ctx: ctx, IDs: ids, At: at}
	mock.lockMarkPublished.Lock()
	mock.calls.MarkPublished = append(mock.calls.MarkPublished, callInfo)
	mock.lockMarkPublished.Unlock()
	return mock.MarkPublishedFunc(ctx, ids, at)
}

func (mock *pendingStoreMock) MarkPublishedCalls() []struct {
	Ctx context.Context
	IDs []int64
	At  time.Time
} {
	mock.lockMarkPublished.RLock()
	calls := mock.calls.MarkPublished
	mock.lockMarkPublished.RUnlock()
	return calls
}

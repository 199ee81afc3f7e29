package indexer

import (
	"context"
	"sync"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

var _ queue = &queueMock{}

type queueMock struct {
	ClaimFunc func(ctx context.Context, limit uint64) ([]domain.IndexedCase, error)

	calls struct {
		Claim []struct {
			Ctx   context.Context
			Limit uint64
		}
	}
	lockClaim sync.RWMutex
}

func (mock *queueMock) Claim(ctx context.Context, limit uint64) ([]domain.IndexedCase, error) {
	if mock.ClaimFunc == nil {
		panic("queueMock.ClaimFunc: method is nil but queue.Claim was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Limit uint64
	}{Ctx: ctx, Limit: limit}
	mock.lockClaim.Lock()
	mock.calls.Claim = append(mock.calls.Claim, callInfo)
	mock.lockClaim.Unlock()
	return mock.ClaimFunc(ctx, limit)
}

func (mock *queueMock) ClaimCalls() []struct {
	Ctx   context.Context
	Limit uint64
} {
	mock.lockClaim.RLock()
	calls := mock.calls.Claim
	mock.lockClaim.RUnlock()
	return calls
}

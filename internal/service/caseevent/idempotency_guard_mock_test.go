package caseevent

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

var _ idempotencyGuard = &idempotencyGuardMock{}

type idempotencyGuardMock struct {
	MarkProcessedFunc func(ctx context.Context, key uuid.UUID) (bool, error)

	calls struct {
		MarkProcessed []struct {
			Ctx context.Context
			Key uuid.UUID
		}
	}
	lockMarkProcessed sync.RWMutex
}

func (mock *idempotencyGuardMock) MarkProcessed(ctx context.Context, key uuid.UUID) (bool, error) {
	if mock.MarkProcessedFunc == nil {
		panic("idempotencyGuardMock.MarkProcessedFunc: method is nil but idempotencyGuard.MarkProcessed was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Key uuid.UUID
	}{Ctx: ctx, Key: key}
	mock.lockMarkProcessed.Lock()
	mock.calls.MarkProcessed = append(mock.calls.MarkProcessed, callInfo)
	mock.lockMarkProcessed.Unlock()
	return mock.MarkProcessedFunc(ctx, key)
}

func (mock *idempotencyGuardMock) MarkProcessedCalls() []struct {
	Ctx context.Context
	Key uuid.UUID
} {
	mock.lockMarkProcessed.RLock()
	calls := mock.calls.MarkProcessed
	mock.lockMarkProcessed.RUnlock()
	return calls
}

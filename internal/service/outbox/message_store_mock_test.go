package outbox

import (
	"context"
	"sync"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

var _ messageStore = &messageStoreMock{}

type messageStoreMock struct {
	InsertFunc func(ctx context.Context, msg domain.OutboxMessage) (int64, error)

	calls struct {
		Insert []struct {
			Ctx context.Context
			Msg domain.OutboxMessage
		}
	}
	lockInsert sync.RWMutex
}

func (mock *messageStoreMock) Insert(ctx context.Context, msg domain.OutboxMessage) (int64, error) {
	if mock.InsertFunc == nil {
		panic("messageStoreMock.InsertFunc: method is nil but messageStore.Insert was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Msg domain.OutboxMessage
	}{Ctx: ctx, Msg: msg}
	mock.lockInsert.Lock()
	mock.calls.Insert = append(mock.calls.Insert, callInfo)
	mock.lockInsert.Unlock()
	return mock.InsertFunc(ctx, msg)
}

func (mock *messageStoreMock) InsertCalls() []struct {
	Ctx context.Context
	Msg domain.OutboxMessage
} {
	mock.lockInsert.RLock()
	calls := mock.calls.Insert
	mock.lockInsert.RUnlock()
	return calls
}

package outbox

import (
	"context"
	"sync"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

var _ broker = &brokerMock{}

type brokerMock struct {
	PublishFunc func(ctx context.Context, msgs []domain.OutboxMessage) error

	calls struct {
		Publish []struct {
			Ctx  context.Context
			Msgs []domain.OutboxMessage
		}
	}
	lockPublish sync.RWMutex
}

func (mock *brokerMock) Publish(ctx context.Context, msgs []domain.OutboxMessage) error {
	if mock.PublishFunc == nil {
		panic("brokerMock.PublishFunc: method is nil but broker.Publish was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Msgs []domain.OutboxMessage
	}{Ctx: ctx, Msgs: msgs}
	mock.lockPublish.Lock()
	mock.calls.Publish = append(mock.calls.Publish, callInfo)
	mock.lockPublish.Unlock()
	return mock.PublishFunc(ctx, msgs)
}

func (mock *brokerMock) PublishCalls() []struct {
	Ctx  context.Context
	Msgs []domain.OutboxMessage
} {
	mock.lockPublish.RLock()
	calls := mock.calls.Publish
	mock.lockPublish.RUnlock()
	return calls
}

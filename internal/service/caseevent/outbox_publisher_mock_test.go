package caseevent

import (
	"context"
	"sync"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

var _ outboxPublisher = &outboxPublisherMock{}

type outboxPublisherMock struct {
	EnqueueFunc func(ctx context.Context, ev domain.CommittedEvent) error

	calls struct {
		Enqueue []struct {
			Ctx context.Context
			Ev  domain.CommittedEvent
		}
	}
	lockEnqueue sync.RWMutex
}

func (mock *outboxPublisherMock) Enqueue(ctx context.Context, ev domain.CommittedEvent) error {
	if mock.EnqueueFunc == nil {
		panic("outboxPublisherMock.EnqueueFunc: method is nil but outboxPublisher.Enqueue was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ev  domain.CommittedEvent
	}{Ctx: ctx, Ev: ev}
	mock.lockEnqueue.Lock()
	mock.calls.Enqueue = append(mock.calls.Enqueue, callInfo)
	mock.lockEnqueue.Unlock()
	return mock.EnqueueFunc(ctx, ev)
}

func (mock *outboxPublisherMock) EnqueueCalls() []struct {
	Ctx context.Context
	Ev  domain.CommittedEvent
} {
	mock.lockEnqueue.RLock()
	calls := mock.calls.Enqueue
	mock.lockEnqueue.RUnlock()
	return calls
}

package caseevent

import (
	"context"
	"sync"
)

var _ indexQueue = &indexQueueMock{}

type indexQueueMock struct {
	EnqueueFunc     func(ctx context.Context, eventID int64) error
	EnqueueCaseFunc func(ctx context.Context, caseID int64) error

	calls struct {
		Enqueue []struct {
			Ctx     context.Context
			EventID int64
		}
		EnqueueCase []struct {
			Ctx    context.Context
			CaseID int64
		}
	}
	lockEnqueue     sync.RWMutex
	lockEnqueueCase sync.RWMutex
}

func (mock *indexQueueMock) Enqueue(ctx context.Context, eventID int64) error {
	if mock.EnqueueFunc == nil {
		panic("indexQueueMock.EnqueueFunc: method is nil but indexQueue.Enqueue was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		EventID int64
	}{Ctx: ctx, EventID: eventID}
	mock.lockEnqueue.Lock()
	mock.calls.Enqueue = append(mock.calls.Enqueue, callInfo)
	mock.lockEnqueue.Unlock()
	return mock.EnqueueFunc(ctx, eventID)
}

func (mock *indexQueueMock) EnqueueCalls() []struct {
	Ctx     context.Context
	EventID int64
} {
	mock.lockEnqueue.RLock()
	calls := mock.calls.Enqueue
	mock.lockEnqueue.RUnlock()
	return calls
}

func (mock *indexQueueMock) EnqueueCase(ctx context.Context, caseID int64) error {
	if mock.EnqueueCaseFunc == nil {
		panic("indexQueueMock.EnqueueCaseFunc: method is nil but indexQueue.EnqueueCase was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		CaseID int64
	}{Ctx: ctx, CaseID: caseID}
	mock.lockEnqueueCase.Lock()
	mock.calls.EnqueueCase = append(mock.calls.EnqueueCase, callInfo)
	mock.lockEnqueueCase.Unlock()
	return mock.EnqueueCaseFunc(ctx, caseID)
}

func (mock *indexQueueMock) EnqueueCaseCalls() []struct {
	Ctx    context.Context
	CaseID int64
} {
	mock.lockEnqueueCase.RLock()
	calls := mock.calls.EnqueueCase
	mock.lockEnqueueCase.RUnlock()
	return calls
}

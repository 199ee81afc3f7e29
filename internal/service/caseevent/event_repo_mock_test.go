package caseevent

import (
	"context"
	"sync"
	"time"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

var _ eventRepo = &eventRepoMock{}

type eventRepoMock struct {
	AppendFunc        func(ctx context.Context, ev domain.AuditEvent) (int64, time.Time, error)
	ListHistoryFunc   func(ctx context.Context, reference int64) ([]domain.AuditEvent, error)
	GetEventFunc      func(ctx context.Context, reference int64, auditID int64) (*domain.AuditEvent, error)
	LatestEventIDFunc func(ctx context.Context, caseRecordID int64) (int64, error)

	calls struct {
		Append []struct {
			Ctx context.Context
			Ev  domain.AuditEvent
		}
		ListHistory []struct {
			Ctx       context.Context
			Reference int64
		}
		GetEvent []struct {
			Ctx       context.Context
			Reference int64
			AuditID   int64
		}
		LatestEventID []struct {
			Ctx          context.Context
			CaseRecordID int64
		}
	}
	lockAppend        sync.RWMutex
	lockListHistory   sync.RWMutex
	lockGetEvent      sync.RWMutex
	lockLatestEventID sync.RWMutex
}

func (mock *eventRepoMock) Append(ctx context.Context, ev domain.AuditEvent) (int64, time.Time, error) {
	if mock.AppendFunc == nil {
		panic("eventRepoMock.AppendFunc: method is nil but eventRepo.Append was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ev  domain.AuditEvent
	}{Ctx: ctx, Ev: ev}
	mock.lockAppend.Lock()
	mock.calls.Append = append(mock.calls.Append, callInfo)
	mock.lockAppend.Unlock()
	return mock.AppendFunc(ctx, ev)
}

func (mock *eventRepoMock) AppendCalls() []struct {
	Ctx context.Context
	Ev  domain.AuditEvent
} {
	mock.lockAppend.RLock()
	calls := mock.calls.Append
	mock.lockAppend.RUnlock()
	return calls
}

func (mock *eventRepoMock) ListHistory(ctx context.Context, reference int64) ([]domain.AuditEvent, error) {
	if mock.ListHistoryFunc == nil {
		panic("eventRepoMock.ListHistoryFunc: method is nil but eventRepo.ListHistory was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		Reference int64
	}{Ctx: ctx, Reference: reference}
	mock.lockListHistory.Lock()
	mock.calls.ListHistory = append(mock.calls.ListHistory, callInfo)
	mock.lockListHistory.Unlock()
	return mock.ListHistoryFunc(ctx, reference)
}

func (mock *eventRepoMock) ListHistoryCalls() []struct {
	Ctx       context.Context
	Reference int64
} {
	mock.lockListHistory.RLock()
	calls := mock.calls.ListHistory
	mock.lockListHistory.RUnlock()
	return calls
}

func (mock *eventRepoMock) GetEvent(ctx context.Context, reference int64, auditID int64) (*domain.AuditEvent, error) {
	if mock.GetEventFunc == nil {
		panic("eventRepoMock.GetEventFunc: method is nil but eventRepo.GetEvent was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		Reference int64
		AuditID   int64
	}{Ctx: ctx, Reference: reference, AuditID: auditID}
	mock.lockGetEvent.Lock()
	mock.calls.GetEvent = append(mock.calls.GetEvent, callInfo)
	mock.lockGetEvent.Unlock()
	return mock.GetEventFunc(ctx, reference, auditID)
}

func (mock *eventRepoMock) GetEventCalls() []struct {
	Ctx       context.Context
	Reference int64
	AuditID   int64
} {
	mock.lockGetEvent.RLock()
	calls := mock.calls.GetEvent
	mock.lockGetEvent.RUnlock()
	return calls
}

func (mock *eventRepoMock) LatestEventID(ctx context.Context, caseRecordID int64) (int64, error) {
	if mock.LatestEventIDFunc == nil {
		panic("eventRepoMock.LatestEventIDFunc: method is nil but eventRepo.LatestEventID was just called")
	}
	callInfo := struct {
		Ctx          context.Context
		CaseRecordID int64
	}{Ctx: ctx, CaseRecordID: caseRecordID}
	mock.lockLatestEventID.Lock()
	mock.calls.LatestEventID = append(mock.calls.LatestEventID, callInfo)
	mock.lockLatestEventID.Unlock()
	return mock.LatestEventIDFunc(ctx, caseRecordID)
}

func (mock *eventRepoMock) LatestEventIDCalls() []struct {
	Ctx          context.Context
	CaseRecordID int64
} {
	mock.lockLatestEventID.RLock()
	calls := mock.calls.LatestEventID
	mock.lockLatestEventID.RUnlock()
	return calls
}

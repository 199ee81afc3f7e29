package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
	"github.com/heartmarshall/casedata-runtime/internal/service/caseevent"
)

var _ caseService = &caseServiceMock{}

type caseServiceMock struct {
	SubmitEventFunc             func(ctx context.Context, input caseevent.SubmitEventInput) (*caseevent.SubmitResult, error)
	GetCaseFunc                 func(ctx context.Context, reference int64) (*domain.CaseView, error)
	GetCasesFunc                func(ctx context.Context, input caseevent.GetCasesInput) ([]domain.CaseView, error)
	ListHistoryFunc             func(ctx context.Context, reference int64) ([]domain.AuditEvent, error)
	GetHistoryEventFunc         func(ctx context.Context, reference int64, auditID int64) (*domain.AuditEvent, error)
	UpdateSupplementaryDataFunc func(ctx context.Context, input caseevent.UpdateSupplementaryDataInput) (domain.Document, error)

	calls struct {
		SubmitEvent []struct {
			Ctx   context.Context
			Input caseevent.SubmitEventInput
		}
		GetCase []struct {
			Ctx       context.Context
			Reference int64
		}
		GetCases []struct {
			Ctx   context.Context
			Input caseevent.GetCasesInput
		}
		ListHistory []struct {
			Ctx       context.Context
			Reference int64
		}
		GetHistoryEvent []struct {
			Ctx       context.Context
			Reference int64
			AuditID   int64
		}
		UpdateSupplementaryData []struct {
			Ctx   context.Context
			Input caseevent.UpdateSupplementaryDataInput
		}
	}
	lockSubmitEvent             sync.RWMutex
	lockGetCase                 sync.RWMutex
	lockGetCases                sync.RWMutex
	lockListHistory             sync.RWMutex
	lockGetHistoryEvent         sync.RWMutex
	lockUpdateSupplementaryData sync.RWMutex
}

func (mock *caseServiceMock) SubmitEvent(ctx context.Context, input caseevent.SubmitEventInput) (*caseevent.SubmitResult, error) {
	if mock.SubmitEventFunc == nil {
		panic("caseServiceMock.SubmitEventFunc: method is nil but caseService.SubmitEvent was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input caseevent.SubmitEventInput
	}{Ctx: ctx, Input: input}
	mock.lockSubmitEvent.Lock()
	mock.calls.SubmitEvent = append(mock.calls.SubmitEvent, callInfo)
	mock.lockSubmitEvent.Unlock()
	return mock.SubmitEventFunc(ctx, input)
}

func (mock *caseServiceMock) SubmitEventCalls() []struct {
	Ctx   context.Context
	Input caseevent.SubmitEventInput
} {
	mock.lockSubmitEvent.RLock()
	calls := mock.calls.SubmitEvent
	mock.lockSubmitEvent.RUnlock()
	return calls
}

func (mock *caseServiceMock) GetCase(ctx context.Context, reference int64) (*domain.CaseView, error) {
	if mock.GetCaseFunc == nil {
		panic("caseServiceMock.GetCaseFunc: method is nil but caseService.GetCase was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		Reference int64
	}{Ctx: ctx, Reference: reference}
	mock.lockGetCase.Lock()
	mock.calls.GetCase = append(mock.calls.GetCase, callInfo)
	mock.lockGetCase.Unlock()
	return mock.GetCaseFunc(ctx, reference)
}

func (mock *caseServiceMock) GetCaseCalls() []struct {
	Ctx       context.Context
	Reference int64
} {
	mock.lockGetCase.RLock()
	calls := mock.calls.GetCase
	mock.lockGetCase.RUnlock()
	return calls
}

func (mock *caseServiceMock) GetCases(ctx context.Context, input caseevent.GetCasesInput) ([]domain.CaseView, error) {
	if mock.GetCasesFunc == nil {
		panic("caseServiceMock.GetCasesFunc: method is nil but caseService.GetCases was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input caseevent.GetCasesInput
	}{Ctx: ctx, Input: input}
	mock.lockGetCases.Lock()
	mock.calls.GetCases = append(mock.calls.GetCases, callInfo)
	mock.lockGetCases.Unlock()
	return mock.GetCasesFunc(ctx, input)
}

func (mock *caseServiceMock) GetCasesCalls() []struct {
	Ctx   context.Context
	Input caseevent.GetCasesInput
} {
	mock.lockGetCases.RLock()
	calls := mock.calls.GetCases
	mock.lockGetCases.RUnlock()
	return calls
}

func (mock *caseServiceMock) ListHistory(ctx context.Context, reference int64) ([]domain.AuditEvent, error) {
	if mock.ListHistoryFunc == nil {
		panic("caseServiceMock.ListHistoryFunc: method is nil but caseService.ListHistory was just called")
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

func (mock *caseServiceMock) ListHistoryCalls() []struct {
	Ctx       context.Context
	Reference int64
} {
	mock.lockListHistory.RLock()
	calls := mock.calls.ListHistory
	mock.lockListHistory.RUnlock()
	return calls
}

func (mock *caseServiceMock) GetHistoryEvent(ctx context.Context, reference int64, auditID int64) (*domain.AuditEvent, error) {
	if mock.GetHistoryEventFunc == nil {
		panic("caseServiceMock.GetHistoryEventFunc: method is nil but caseService.GetHistoryEvent was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		Reference int64
		AuditID   int64
	}{Ctx: ctx, Reference: reference, AuditID: auditID}
	mock.lockGetHistoryEvent.Lock()
	mock.calls.GetHistoryEvent = append(mock.calls.GetHistoryEvent, callInfo)
	mock.lockGetHistoryEvent.Unlock()
	return mock.GetHistoryEventFunc(ctx, reference, auditID)
}

func (mock *caseServiceMock) GetHistoryEventCalls() []struct {
	Ctx       context.Context
	Reference int64
	AuditID   int64
} {
	mock.lockGetHistoryEvent.RLock()
	calls := mock.calls.GetHistoryEvent
	mock.lockGetHistoryEvent.RUnlock()
	return calls
}

func (mock *caseServiceMock) UpdateSupplementaryData(ctx context.Context, input caseevent.UpdateSupplementaryDataInput) (domain.Document, error) {
	if mock.UpdateSupplementaryDataFunc == nil {
		panic("caseServiceMock.UpdateSupplementaryDataFunc: method is nil but caseService.UpdateSupplementaryData was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input caseevent.UpdateSupplementaryDataInput
	}{Ctx: ctx, Input: input}
	mock.lockUpdateSupplementaryData.Lock()
	mock.calls.UpdateSupplementaryData = append(mock.calls.UpdateSupplementaryData, callInfo)
	mock.lockUpdateSupplementaryData.Unlock()
	return mock.UpdateSupplementaryDataFunc(ctx, input)
}

func (mock *caseServiceMock) UpdateSupplementaryDataCalls() []struct {
	Ctx   context.Context
	Input caseevent.UpdateSupplementaryDataInput
} {
	mock.lockUpdateSupplementaryData.RLock()
	calls := mock.calls.UpdateSupplementaryData
	mock.lockUpdateSupplementaryData.RUnlock()
	return calls
}

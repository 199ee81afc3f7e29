package caseevent

import (
	"context"
	"sync"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

var _ caseRepo = &caseRepoMock{}

type caseRepoMock struct {
	WriteFunc                   func(ctx context.Context, p domain.CaseWriteParams) (domain.CaseWriteResult, error)
	GetByReferenceFunc          func(ctx context.Context, reference int64) (*domain.CaseRecord, error)
	GetByReferencesFunc         func(ctx context.Context, references []int64) ([]domain.CaseRecord, error)
	UpdateSupplementaryDataFunc func(ctx context.Context, reference int64, updates []domain.SupplementaryDataUpdate) (domain.SupplementaryDataResult, error)

	calls struct {
		Write []struct {
			Ctx context.Context
			P   domain.CaseWriteParams
		}
		GetByReference []struct {
			Ctx       context.Context
			Reference int64
		}
		GetByReferences []struct {
			Ctx        context.Context
			References []int64
		}
		UpdateSupplementaryData []struct {
			Ctx       context.Context
			Reference int64
			Updates   []domain.SupplementaryDataUpdate
		}
	}
	lockWrite                   sync.RWMutex
	lockGetByReference          sync.RWMutex
	lockGetByReferences         sync.RWMutex
	lockUpdateSupplementaryData sync.RWMutex
}

func (mock *caseRepoMock) Write(ctx context.Context, p domain.CaseWriteParams) (domain.CaseWriteResult, error) {
	if mock.WriteFunc == nil {
		panic("caseRepoMock.WriteFunc: method is nil but caseRepo.Write was just called")
	}
	callInfo := struct {
		Ctx context.Context
		P   domain.CaseWriteParams
	}{Ctx: ctx, P: p}
	mock.lockWrite.Lock()
	mock.calls.Write = append(mock.calls.Write, callInfo)
	mock.lockWrite.Unlock()
	return mock.WriteFunc(ctx, p)
}

func (mock *caseRepoMock) WriteCalls() []struct {
	Ctx context.Context
	P   domain.CaseWriteParams
} {
	mock.lockWrite.RLock()
	calls := mock.calls.Write
	mock.lockWrite.RUnlock()
	return calls
}

func (mock *caseRepoMock) GetByReference(ctx context.Context, reference int64) (*domain.CaseRecord, error) {
	if mock.GetByReferenceFunc == nil {
		panic("caseRepoMock.GetByReferenceFunc: method is nil but caseRepo.GetByReference was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		Reference int64
	}{Ctx: ctx, Reference: reference}
	mock.lockGetByReference.Lock()
	mock.calls.GetByReference = append(mock.calls.GetByReference, callInfo)
	mock.lockGetByReference.Unlock()
	return mock.GetByReferenceFunc(ctx, reference)
}

func (mock *caseRepoMock) GetByReferenceCalls() []struct {
	Ctx       context.Context
	Reference int64
} {
	mock.lockGetByReference.RLock()
	calls := mock.calls.GetByReference
	mock.lockGetByReference.RUnlock()
	return calls
}

func (mock *caseRepoMock) GetByReferences(ctx context.Context, references []int64) ([]domain.CaseRecord, error) {
	if mock.GetByReferencesFunc == nil {
		panic("caseRepoMock.GetByReferencesFunc: method is nil but caseRepo.GetByReferences was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		References []int64
	}{Ctx: ctx, References: references}
	mock.lockGetByReferences.Lock()
	mock.calls.GetByReferences = append(mock.calls.GetByReferences, callInfo)
	mock.lockGetByReferences.Unlock()
	return mock.GetByReferencesFunc(ctx, references)
}

func (mock *caseRepoMock) GetByReferencesCalls() []struct {
	Ctx        context.Context
	References []int64
} {
	mock.lockGetByReferences.RLock()
	calls := mock.calls.GetByReferences
	mock.lockGetByReferences.RUnlock()
	return calls
}

func (mock *caseRepoMock) UpdateSupplementaryData(ctx context.Context, reference int64, updates []domain.SupplementaryDataUpdate) (domain.SupplementaryDataResult, error) {
	if mock.UpdateSupplementaryDataFunc == nil {
		panic("caseRepoMock.UpdateSupplementaryDataFunc: method is nil but caseRepo.UpdateSupplementaryData was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		Reference int64
		Updates   []domain.SupplementaryDataUpdate
	}{Ctx: ctx, Reference: reference, Updates: updates}
	mock.lockUpdateSupplementaryData.Lock()
	mock.calls.UpdateSupplementaryData = append(mock.calls.UpdateSupplementaryData, callInfo)
	mock.lockUpdateSupplementaryData.Unlock()
	return mock.UpdateSupplementaryDataFunc(ctx, reference, updates)
}

func (mock *caseRepoMock) UpdateSupplementaryDataCalls() []struct {
	Ctx       context.Context
	Reference int64
	Updates   []domain.SupplementaryDataUpdate
} {
	mock.lockUpdateSupplementaryData.RLock()
	calls := mock.calls.UpdateSupplementaryData
	mock.lockUpdateSupplementaryData.RUnlock()
	return calls
}

package caseevent

import (
	"context"
	"sync"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

var _ callbacks = &callbacksMock{}

type callbacksMock struct {
	AboutToSubmitFunc func(ctx context.Context, url string, req domain.CallbackRequest) (*domain.AboutToSubmitResponse, error)
	SubmittedFunc     func(ctx context.Context, url string, req domain.CallbackRequest) (*domain.SubmittedResponse, error)

	calls struct {
		AboutToSubmit []struct {
			Ctx context.Context
			URL string
			Req domain.CallbackRequest
		}
		Submitted []struct {
			Ctx context.Context
			URL string
			Req domain.CallbackRequest
		}
	}
	lockAboutToSubmit sync.RWMutex
	lockSubmitted     sync.RWMutex
}

func (mock *callbacksMock) AboutToSubmit(ctx context.Context, url string, req domain.CallbackRequest) (*domain.AboutToSubmitResponse, error) {
	if mock.AboutToSubmitFunc == nil {
		panic("callbacksMock.AboutToSubmitFunc: method is nil but callbacks.AboutToSubmit was just called")
	}
	callInfo := struct {
		Ctx context.Context
		URL string
		Req domain.CallbackRequest
	}{Ctx: ctx, URL: url, Req: req}
	mock.lockAboutToSubmit.Lock()
	mock.calls.AboutToSubmit = append(mock.calls.AboutToSubmit, callInfo)
	mock.lockAboutToSubmit.Unlock()
	return mock.AboutToSubmitFunc(ctx, url, req)
}

func (mock *callbacksMock) AboutToSubmitCalls() []struct {
	Ctx context.Context
	URL string
	Req domain.CallbackRequest
} {
	mock.lockAboutToSubmit.RLock()
	calls := mock.calls.AboutToSubmit
	mock.lockAboutToSubmit.RUnlock()
	return calls
}

func (mock *callbacksMock) Submitted(ctx context.Context, url string, req domain.CallbackRequest) (*domain.SubmittedResponse, error) {
	if mock.SubmittedFunc == nil {
		panic("callbacksMock.SubmittedFunc: method is nil but callbacks.Submitted was just called")
	}
	callInfo := struct {
		Ctx context.Context
		URL string
		Req domain.CallbackRequest
	}{Ctx: ctx, URL: url, Req: req}
	mock.lockSubmitted.Lock()
	mock.calls.Submitted = append(mock.calls.Submitted, callInfo)
	mock.lockSubmitted.Unlock()
	return mock.SubmittedFunc(ctx, url, req)
}

func (mock *callbacksMock) SubmittedCalls() []struct {
	Ctx context.Context
	URL string
	Req domain.CallbackRequest
} {
	mock.lockSubmitted.RLock()
	calls := mock.calls.Submitted
	mock.lockSubmitted.RUnlock()
	return calls
}

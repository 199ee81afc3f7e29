package caseevent

import (
	"sync"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

var _ definitions = &definitionsMock{}

type definitionsMock struct {
	EventFunc func(caseTypeID string, eventID string) (domain.CaseTypeDefinition, domain.EventDefinition, error)

	calls struct {
		Event []struct {
			CaseTypeID string
			EventID    string
		}
	}
	lockEvent sync.RWMutex
}

func (mock *definitionsMock) Event(caseTypeID string, eventID string) (domain.CaseTypeDefinition, domain.EventDefinition, error) {
	if mock.EventFunc == nil {
		panic("definitionsMock.EventFunc: method is nil but definitions.Event was just called")
	}
	callInfo := struct {
		CaseTypeID string
		EventID    string
	}{CaseTypeID: caseTypeID, EventID: eventID}
	mock.lockEvent.Lock()
	mock.calls.Event = append(mock.calls.Event, callInfo)
	mock.lockEvent.Unlock()
	return mock.EventFunc(caseTypeID, eventID)
}

func (mock *definitionsMock) EventCalls() []struct {
	CaseTypeID string
	EventID    string
} {
	mock.lockEvent.RLock()
	calls := mock.calls.Event
	mock.lockEvent.RUnlock()
	return calls
}

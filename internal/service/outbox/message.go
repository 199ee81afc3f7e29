package outbox

import (
	"strconv"
	"time"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

// messageInformation is the payload consumers receive.
type messageInformation struct {
	CaseID          string         `json:"case_id"`
	JurisdictionID  string         `json:"jurisdiction_id"`
	CaseTypeID      string         `json:"case_type_id"`
	EventInstanceID int64          `json:"event_instance_id"`
	EventTimestamp  time.Time      `json:"event_timestamp"`
	EventID         string         `json:"event_id"`
	UserID          string         `json:"user_id"`
	PreviousStateID string         `json:"previous_state_id"`
	NewStateID      string         `json:"new_state_id"`
	AdditionalData  additionalData `json:"additional_data"`
}

// additionalData carries only the fields the event definition opts into.
type additionalData struct {
	Data       map[string]any             `json:"data"`
	Definition map[string]fieldDefinition `json:"definition"`
}

type fieldDefinition struct {
	Type       string `json:"type"`
	OriginalID string `json:"original_id"`
}

func buildMessage(ev domain.CommittedEvent) messageInformation {
	return messageInformation{
		CaseID:          strconv.FormatInt(ev.Case.Reference, 10),
		JurisdictionID:  ev.Case.Jurisdiction,
		CaseTypeID:      ev.Case.CaseTypeID,
		EventInstanceID: ev.AuditID,
		EventTimestamp:  ev.Timestamp.UTC(),
		EventID:         ev.Event.ID,
		UserID:          ev.User.ID,
		PreviousStateID: ev.PreviousState,
		NewStateID:      ev.Case.State,
		AdditionalData:  project(ev),
	}
}

// project copies the declared publish fields out of the case data under
// their published keys. Fields absent from the data are left out.
func project(ev domain.CommittedEvent) additionalData {
	out := additionalData{
		Data:       map[string]any{},
		Definition: map[string]fieldDefinition{},
	}
	for _, pf := range ev.Event.PublishFields {
		v, ok := ev.Case.Data[pf.FieldID]
		if !ok {
			continue
		}
		key := pf.Key()
		out.Data[key] = v
		out.Definition[key] = fieldDefinition{
			Type:       ev.CaseType.Fields[pf.FieldID].Type,
			OriginalID: pf.FieldID,
		}
	}
	return out
}

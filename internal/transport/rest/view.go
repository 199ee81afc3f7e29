package rest

import (
	"strconv"
	"time"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
	"github.com/heartmarshall/casedata-runtime/internal/service/caseevent"
)

type submitEventRequest struct {
	CaseTypeID             string          `json:"case_type_id"`
	EventID                string          `json:"event_id"`
	ExpectedVersion        int             `json:"expected_version"`
	Data                   domain.Document `json:"data"`
	State                  string          `json:"state"`
	SecurityClassification string          `json:"security_classification"`
	Summary                string          `json:"summary"`
	Description            string          `json:"description"`
}

type caseResponse struct {
	ID                     string          `json:"id"`
	Jurisdiction           string          `json:"jurisdiction"`
	CaseTypeID             string          `json:"case_type_id"`
	State                  string          `json:"state"`
	Version                int             `json:"version"`
	SecurityClassification string          `json:"security_classification"`
	Data                   domain.Document `json:"case_data"`
	SupplementaryData      domain.Document `json:"supplementary_data,omitempty"`
	CreatedDate            time.Time       `json:"created_date"`
	LastModified           time.Time       `json:"last_modified"`
	LastStateModifiedDate  time.Time       `json:"last_state_modified_date"`
	Revision               int64           `json:"revision"`
}

type submitResponse struct {
	Case                        caseResponse       `json:"case"`
	AlreadyProcessed            bool               `json:"already_processed"`
	Warnings                    []string           `json:"warnings,omitempty"`
	AfterSubmitCallbackResponse *confirmationBlock `json:"after_submit_callback_response,omitempty"`
}

type confirmationBlock struct {
	ConfirmationHeader string `json:"confirmation_header,omitempty"`
	ConfirmationBody   string `json:"confirmation_body,omitempty"`
}

type historyEventResponse struct {
	ID                     int64           `json:"id"`
	EventID                string          `json:"event_id"`
	EventName              string          `json:"event_name"`
	UserID                 string          `json:"user_id"`
	UserFirstName          string          `json:"user_first_name"`
	UserLastName           string          `json:"user_last_name"`
	CaseTypeID             string          `json:"case_type_id"`
	CaseTypeVersion        int             `json:"case_type_version"`
	StateID                string          `json:"state_id"`
	StateName              string          `json:"state_name"`
	Summary                string          `json:"summary,omitempty"`
	Description            string          `json:"description,omitempty"`
	SecurityClassification string          `json:"security_classification"`
	Data                   domain.Document `json:"data,omitempty"`
	CreatedDate            time.Time       `json:"created_date"`
}

func toCaseResponse(v domain.CaseView) caseResponse {
	return caseResponse{
		ID:                     strconv.FormatInt(v.Reference, 10),
		Jurisdiction:           v.Jurisdiction,
		CaseTypeID:             v.CaseTypeID,
		State:                  v.State,
		Version:                v.Version,
		SecurityClassification: string(v.SecurityClassification),
		Data:                   v.Data,
		SupplementaryData:      v.SupplementaryData,
		CreatedDate:            v.CreatedAt,
		LastModified:           v.LastModifiedAt,
		LastStateModifiedDate:  v.LastStateModifiedAt,
		Revision:               v.LatestEventID,
	}
}

func toSubmitResponse(res *caseevent.SubmitResult) submitResponse {
	out := submitResponse{
		Case:             toCaseResponse(res.Case),
		AlreadyProcessed: res.AlreadyProcessed,
		Warnings:         res.Warnings,
	}
	if res.ConfirmationHeader != "" || res.ConfirmationBody != "" {
		out.AfterSubmitCallbackResponse = &confirmationBlock{
			ConfirmationHeader: res.ConfirmationHeader,
			ConfirmationBody:   res.ConfirmationBody,
		}
	}
	return out
}

func toHistoryEventResponse(e domain.AuditEvent) historyEventResponse {
	return historyEventResponse{
		ID:                     e.ID,
		EventID:                e.EventID,
		EventName:              e.EventName,
		UserID:                 e.UserID,
		UserFirstName:          e.UserFirstName,
		UserLastName:           e.UserLastName,
		CaseTypeID:             e.CaseTypeID,
		CaseTypeVersion:        e.CaseTypeVersion,
		StateID:                e.StateID,
		StateName:              e.StateName,
		Summary:                e.Summary,
		Description:            e.Description,
		SecurityClassification: string(e.SecurityClassification),
		Data:                   e.Data,
		CreatedDate:            e.CreatedAt,
	}
}

type supplementaryDataRequest struct {
	Updates map[string]map[string]any `json:"supplementary_data_updates"`
}

type supplementaryDataResponse struct {
	SupplementaryData domain.Document `json:"supplementary_data"`
}

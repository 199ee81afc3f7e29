package callback

import (
	"time"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

// JSON shapes exchanged with callback services.

type callbackRequest struct {
	EventID           string       `json:"event_id"`
	CaseDetails       caseDetails  `json:"case_details"`
	CaseDetailsBefore *caseDetails `json:"case_details_before,omitempty"`
}

type caseDetails struct {
	ID                     int64           `json:"id"`
	Jurisdiction           string          `json:"jurisdiction"`
	CaseTypeID             string          `json:"case_type_id"`
	State                  string          `json:"state"`
	Version                int             `json:"version"`
	SecurityClassification string          `json:"security_classification"`
	Data                   domain.Document `json:"case_data"`
	SupplementaryData      domain.Document `json:"supplementary_data,omitempty"`
	CreatedDate            *time.Time      `json:"created_date,omitempty"`
	LastModified           *time.Time      `json:"last_modified,omitempty"`
}

type aboutToSubmitResponse struct {
	Data                   domain.Document `json:"data"`
	State                  string          `json:"state"`
	SecurityClassification string          `json:"security_classification"`
	Errors                 []string        `json:"errors"`
	Warnings               []string        `json:"warnings"`
}

type submittedResponse struct {
	ConfirmationHeader string `json:"confirmation_header"`
	ConfirmationBody   string `json:"confirmation_body"`
}

func toWire(req domain.CallbackRequest) callbackRequest {
	out := callbackRequest{
		EventID:     req.EventID,
		CaseDetails: toCaseDetails(req.Case),
	}
	if req.Before != nil {
		before := toCaseDetails(*req.Before)
		out.CaseDetailsBefore = &before
	}
	return out
}

func toCaseDetails(c domain.CaseRecord) caseDetails {
	d := caseDetails{
		ID:                     c.Reference,
		Jurisdiction:           c.Jurisdiction,
		CaseTypeID:             c.CaseTypeID,
		State:                  c.State,
		Version:                c.Version,
		SecurityClassification: string(c.SecurityClassification),
		Data:                   c.Data,
		SupplementaryData:      c.SupplementaryData,
	}
	if !c.CreatedAt.IsZero() {
		t := c.CreatedAt
		d.CreatedDate = &t
	}
	if !c.LastModifiedAt.IsZero() {
		t := c.LastModifiedAt
		d.LastModified = &t
	}
	if d.Data == nil {
		d.Data = domain.Document{}
	}
	return d
}

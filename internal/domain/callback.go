package domain

// CallbackRequest carries the proposed (or committed) case and the prior
// case to a callback collaborator. Before is nil for a new case.
type CallbackRequest struct {
	EventID string
	Case    CaseRecord
	Before  *CaseRecord
}

// AboutToSubmitResponse is the pre-commit callback's answer. Empty fields
// leave the proposed values unchanged.
type AboutToSubmitResponse struct {
	Data                   Document
	State                  string
	SecurityClassification SecurityClassification
	Errors                 []string
	Warnings               []string
}

// SubmittedResponse is the post-commit callback's answer.
type SubmittedResponse struct {
	ConfirmationHeader string
	ConfirmationBody   string
}

package caseevent

import "github.com/heartmarshall/casedata-runtime/internal/domain"

// SubmitResult is returned for every accepted submission, including an
// idempotent replay.
type SubmitResult struct {
	Case             domain.CaseView
	AlreadyProcessed bool
	Warnings         []string

	ConfirmationHeader string
	ConfirmationBody   string
}

const (
	outcomeCommitted = "committed"
	outcomeDuplicate = "duplicate"
	outcomeRejected  = "rejected"
	outcomeInvalid   = "invalid"
	outcomeConflict  = "conflict"
	outcomeError     = "error"
)

package domain

import "time"

// CaseRecord is the current-state projection of one case.
type CaseRecord struct {
	ID                     int64
	Reference              int64
	Jurisdiction           string
	CaseTypeID             string
	State                  string
	Data                   Document
	SecurityClassification SecurityClassification
	Version                int
	SupplementaryData      Document
	CreatedAt              time.Time
	LastModifiedAt         time.Time
	LastStateModifiedAt    time.Time
}

// CaseView is a case as returned to callers. LatestEventID is the id of the
// newest audit event and serves as a store-wide ordering token.
type CaseView struct {
	CaseRecord
	LatestEventID int64
}

// CaseWriteParams is the proposed state of a case. IsNew is true when the
// caller observed no stored record for Reference; a concurrent creator that
// got there first then causes a version conflict instead of an overwrite.
type CaseWriteParams struct {
	Reference              int64
	ExpectedVersion        int
	Jurisdiction           string
	CaseTypeID             string
	State                  string
	Data                   Document
	SecurityClassification SecurityClassification
	IsNew                  bool
}

// CaseWriteResult is the outcome of a committed write.
type CaseWriteResult struct {
	ID      int64
	Version int
	Created bool
}

// Supplementary data operations.
const (
	SupplementarySet = "$set"
	SupplementaryInc = "$inc"
)

// SupplementaryDataUpdate changes one path of a case's supplementary data.
// For SupplementaryInc, Value is an integer delta.
type SupplementaryDataUpdate struct {
	Op    string
	Path  []string
	Value any
}

// SupplementaryDataResult is the supplementary data after an update.
type SupplementaryDataResult struct {
	CaseID int64
	Data   Document
}

package domain

import "time"

// AuditEvent is one immutable entry in a case's history.
type AuditEvent struct {
	ID                     int64
	CaseRecordID           int64
	CaseReference          int64
	EventID                string
	EventName              string
	UserID                 string
	UserFirstName          string
	UserLastName           string
	CaseTypeID             string
	CaseTypeVersion        int
	StateID                string
	StateName              string
	Summary                string
	Description            string
	SecurityClassification SecurityClassification
	Data                   Document
	CreatedAt              time.Time
}

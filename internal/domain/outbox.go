package domain

import (
	"encoding/json"
	"time"
)

// OutboxMessage is a durable downstream notification. Key groups messages
// that must stay ordered (the case reference). PublishedAt is nil until the
// relay delivers it.
type OutboxMessage struct {
	ID          int64
	MessageType string
	Key         string
	Timestamp   time.Time
	Payload     json.RawMessage
	PublishedAt *time.Time
}

// IndexedCase is one claimed index-queue entry joined with the case state
// it points at.
type IndexedCase struct {
	EventID                int64
	CaseID                 int64
	Reference              int64
	Jurisdiction           string
	CaseTypeID             string
	State                  string
	Version                int
	SecurityClassification SecurityClassification
	Data                   Document
	SupplementaryData      Document
	CreatedAt              time.Time
	LastModifiedAt         time.Time
	LastStateModifiedAt    time.Time
}

// CommittedEvent describes an event applied inside the current transaction,
// as handed to the outbox publisher.
type CommittedEvent struct {
	AuditID       int64
	Timestamp     time.Time
	User          User
	CaseType      CaseTypeDefinition
	Event         EventDefinition
	PreviousState string
	Case          CaseRecord
}

// SearchDocument is one document to index. ID is the case id, so a replayed
// batch overwrites rather than duplicates. Version is the audit event id the
// body reflects; an older version never replaces a newer one.
type SearchDocument struct {
	Index   string
	ID      string
	Version int64
	Body    Document
}

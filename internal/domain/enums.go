package domain

// SecurityClassification is the access classification of a case or event.
type SecurityClassification string

const (
	ClassificationPublic     SecurityClassification = "PUBLIC"
	ClassificationPrivate    SecurityClassification = "PRIVATE"
	ClassificationRestricted SecurityClassification = "RESTRICTED"
)

func (c SecurityClassification) String() string { return string(c) }

func (c SecurityClassification) IsValid() bool {
	switch c {
	case ClassificationPublic, ClassificationPrivate, ClassificationRestricted:
		return true
	}
	return false
}

// MessageTypeCaseEvent is the outbox message type for committed case events.
const MessageTypeCaseEvent = "CASE_EVENT"

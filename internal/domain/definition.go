package domain

// CaseTypeDefinition is the definitional metadata for one case type.
// Values are built once at startup and never mutated.
type CaseTypeDefinition struct {
	ID           string
	Name         string
	Jurisdiction string
	Version      int
	States       map[string]StateDefinition
	Events       map[string]EventDefinition
	Fields       map[string]FieldDefinition
}

// StateName returns the display name of a state, or the id when unknown.
func (c CaseTypeDefinition) StateName(stateID string) string {
	if s, ok := c.States[stateID]; ok && s.Name != "" {
		return s.Name
	}
	return stateID
}

// StateDefinition names a case state.
type StateDefinition struct {
	ID   string
	Name string
}

// KeepState as an event post-state means the case stays in its current state.
const KeepState = "*"

// EventDefinition describes one event of a case type.
type EventDefinition struct {
	ID          string
	Name        string
	Description string
	PostState   string
	// AllowedStates limits the states an about-to-submit callback may move
	// the case to. Empty means any state of the case type.
	AllowedStates []string

	// Publish marks the event as eligible for the outbox.
	Publish       bool
	PublishFields []PublishField

	AboutToSubmitURL string
	SubmittedURL     string
	// SubmittedRetries bounds delivery attempts of the submitted callback.
	// Zero means use the configured default.
	SubmittedRetries int
}

func (e EventDefinition) HasAboutToSubmit() bool { return e.AboutToSubmitURL != "" }

func (e EventDefinition) HasSubmitted() bool { return e.SubmittedURL != "" }

// PermitsState reports whether a callback may move the case to stateID.
func (e EventDefinition) PermitsState(stateID string) bool {
	if len(e.AllowedStates) == 0 {
		return true
	}
	for _, s := range e.AllowedStates {
		if s == stateID {
			return true
		}
	}
	return false
}

// PublishField projects one case field into the outbox additional data
// block under Alias.
type PublishField struct {
	FieldID string
	Alias   string
}

// Key returns the name the field is published under.
func (p PublishField) Key() string {
	if p.Alias != "" {
		return p.Alias
	}
	return p.FieldID
}

// FieldDefinition describes a case field's type.
type FieldDefinition struct {
	ID    string
	Label string
	Type  string
}

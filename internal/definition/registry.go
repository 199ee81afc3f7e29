// Package definition holds the case-type definitions the write path
// consults. A Registry is built once at startup and is read-only after.
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

// Registry is an immutable lookup table of case-type definitions.
// It is safe for concurrent use.
type Registry struct {
	caseTypes map[string]domain.CaseTypeDefinition
}

// New builds a Registry from already-constructed definitions.
func New(caseTypes ...domain.CaseTypeDefinition) (*Registry, error) {
	r := &Registry{caseTypes: make(map[string]domain.CaseTypeDefinition, len(caseTypes))}
	for _, ct := range caseTypes {
		if _, dup := r.caseTypes[ct.ID]; dup {
			return nil, fmt.Errorf("definition: duplicate case type %q", ct.ID)
		}
		if err := check(ct); err != nil {
			return nil, fmt.Errorf("definition: case type %q: %w", ct.ID, err)
		}
		r.caseTypes[ct.ID] = ct
	}
	return r, nil
}

// LoadFile reads and parses the YAML definitions file at path.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("definition: read %s: %w", path, err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a YAML definitions document. Unknown keys are rejected.
func Parse(r io.Reader) (*Registry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var root fileRoot
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("definition: decode: %w", err)
	}

	caseTypes := make([]domain.CaseTypeDefinition, 0, len(root.CaseTypes))
	for _, fct := range root.CaseTypes {
		ct, err := fct.toDomain()
		if err != nil {
			return nil, fmt.Errorf("definition: case type %q: %w", fct.ID, err)
		}
		caseTypes = append(caseTypes, ct)
	}
	return New(caseTypes...)
}

// CaseType returns the definition of caseTypeID.
func (r *Registry) CaseType(caseTypeID string) (domain.CaseTypeDefinition, error) {
	ct, ok := r.caseTypes[caseTypeID]
	if !ok {
		return domain.CaseTypeDefinition{}, fmt.Errorf("case type %s: %w", caseTypeID, domain.ErrNotFound)
	}
	return ct, nil
}

// Event returns the case type and event definitions for (caseTypeID, eventID).
func (r *Registry) Event(caseTypeID, eventID string) (domain.CaseTypeDefinition, domain.EventDefinition, error) {
	ct, err := r.CaseType(caseTypeID)
	if err != nil {
		return domain.CaseTypeDefinition{}, domain.EventDefinition{}, err
	}
	ev, ok := ct.Events[eventID]
	if !ok {
		return domain.CaseTypeDefinition{}, domain.EventDefinition{},
			fmt.Errorf("event %s/%s: %w", caseTypeID, eventID, domain.ErrNotFound)
	}
	return ct, ev, nil
}

// Len returns the number of loaded case types.
func (r *Registry) Len() int { return len(r.caseTypes) }

// ---------------------------------------------------------------------------
// Conversion and checks
// ---------------------------------------------------------------------------

func (f fileCaseType) toDomain() (domain.CaseTypeDefinition, error) {
	ct := domain.CaseTypeDefinition{
		ID:           f.ID,
		Name:         f.Name,
		Jurisdiction: f.Jurisdiction,
		Version:      f.Version,
		States:       make(map[string]domain.StateDefinition, len(f.States)),
		Events:       make(map[string]domain.EventDefinition, len(f.Events)),
		Fields:       make(map[string]domain.FieldDefinition, len(f.Fields)),
	}
	if ct.Version == 0 {
		ct.Version = 1
	}

	for _, s := range f.States {
		if _, dup := ct.States[s.ID]; dup {
			return ct, fmt.Errorf("duplicate state %q", s.ID)
		}
		ct.States[s.ID] = domain.StateDefinition{ID: s.ID, Name: s.Name}
	}
	for _, fd := range f.Fields {
		if _, dup := ct.Fields[fd.ID]; dup {
			return ct, fmt.Errorf("duplicate field %q", fd.ID)
		}
		ct.Fields[fd.ID] = domain.FieldDefinition{ID: fd.ID, Label: fd.Label, Type: fd.Type}
	}
	for _, e := range f.Events {
		if _, dup := ct.Events[e.ID]; dup {
			return ct, fmt.Errorf("duplicate event %q", e.ID)
		}
		ev := domain.EventDefinition{
			ID:               e.ID,
			Name:             e.Name,
			Description:      e.Description,
			PostState:        e.PostState,
			AllowedStates:    e.AllowedStates,
			Publish:          e.Publish,
			AboutToSubmitURL: e.AboutToSubmitURL,
			SubmittedURL:     e.SubmittedURL,
			SubmittedRetries: e.SubmittedRetries,
		}
		for _, pf := range e.PublishFields {
			ev.PublishFields = append(ev.PublishFields, domain.PublishField{FieldID: pf.Field, Alias: pf.Alias})
		}
		ct.Events[e.ID] = ev
	}
	return ct, nil
}

func check(ct domain.CaseTypeDefinition) error {
	if ct.ID == "" {
		return errors.New("id is required")
	}
	if ct.Jurisdiction == "" {
		return errors.New("jurisdiction is required")
	}
	for id, ev := range ct.Events {
		if ev.PostState != "" && ev.PostState != domain.KeepState {
			if _, ok := ct.States[ev.PostState]; !ok {
				return fmt.Errorf("event %q: unknown post_state %q", id, ev.PostState)
			}
		}
		for _, s := range ev.AllowedStates {
			if _, ok := ct.States[s]; !ok {
				return fmt.Errorf("event %q: unknown allowed state %q", id, s)
			}
		}
		if ev.SubmittedRetries < 0 {
			return fmt.Errorf("event %q: submitted_retries must be >= 0", id)
		}
		seen := make(map[string]struct{}, len(ev.PublishFields))
		for _, pf := range ev.PublishFields {
			if _, ok := ct.Fields[pf.FieldID]; !ok {
				return fmt.Errorf("event %q: publish field %q is not defined", id, pf.FieldID)
			}
			if _, dup := seen[pf.Key()]; dup {
				return fmt.Errorf("event %q: publish key %q used twice", id, pf.Key())
			}
			seen[pf.Key()] = struct{}{}
		}
	}
	return nil
}

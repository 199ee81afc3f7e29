package caseevent

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

const (
	maxSummaryLen     = 1024
	maxDescriptionLen = 65536
	maxBatchRefs      = 100

	maxSupplementaryUpdates = 100
)

// SubmitEventInput holds the parameters for submitting an event.
// A nil Data keeps the stored data; an empty State or classification defers
// to the callback, the event definition and finally the stored value.
type SubmitEventInput struct {
	IdempotencyKey         uuid.UUID
	Reference              int64
	CaseTypeID             string
	EventID                string
	ExpectedVersion        int
	Data                   domain.Document
	State                  string
	SecurityClassification domain.SecurityClassification
	Summary                string
	Description            string
}

// Validate checks all fields and collects all errors.
func (i *SubmitEventInput) Validate() error {
	var errs []domain.FieldError

	if i.IdempotencyKey == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "idempotency_key", Message: "required"})
	}
	if i.Reference <= 0 {
		errs = append(errs, domain.FieldError{Field: "reference", Message: "must be a positive case reference"})
	}
	if i.CaseTypeID == "" {
		errs = append(errs, domain.FieldError{Field: "case_type_id", Message: "required"})
	}
	if i.EventID == "" {
		errs = append(errs, domain.FieldError{Field: "event_id", Message: "required"})
	}
	if i.ExpectedVersion < 1 {
		errs = append(errs, domain.FieldError{Field: "expected_version", Message: "must be at least 1"})
	}
	if i.SecurityClassification != "" && !i.SecurityClassification.IsValid() {
		errs = append(errs, domain.FieldError{Field: "security_classification", Message: "must be PUBLIC, PRIVATE, or RESTRICTED"})
	}
	if len(i.Summary) > maxSummaryLen {
		errs = append(errs, domain.FieldError{Field: "summary", Message: "too long"})
	}
	if len(i.Description) > maxDescriptionLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: "too long"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// GetCasesInput holds the parameters for a batch case read.
type GetCasesInput struct {
	References []int64
}

// Validate checks all fields and collects all errors.
func (i *GetCasesInput) Validate() error {
	var errs []domain.FieldError

	if len(i.References) == 0 {
		errs = append(errs, domain.FieldError{Field: "refs", Message: "required"})
	}
	if len(i.References) > maxBatchRefs {
		errs = append(errs, domain.FieldError{Field: "refs", Message: "at most 100 references"})
	}
	for _, ref := range i.References {
		if ref <= 0 {
			errs = append(errs, domain.FieldError{Field: "refs", Message: "must be positive case references"})
			break
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateSupplementaryDataInput holds supplementary data changes keyed by
// operation ($set, $inc) and then by dotted path.
type UpdateSupplementaryDataInput struct {
	Reference int64
	Updates   map[string]map[string]any
}

// Validate checks all fields and collects all errors.
func (i *UpdateSupplementaryDataInput) Validate() error {
	var errs []domain.FieldError

	if i.Reference <= 0 {
		errs = append(errs, domain.FieldError{Field: "reference", Message: "must be a positive case reference"})
	}

	n := 0
	for op, set := range i.Updates {
		if op != domain.SupplementarySet && op != domain.SupplementaryInc {
			errs = append(errs, domain.FieldError{Field: "supplementary_data_updates", Message: "unsupported operation " + op})
			continue
		}
		for path, value := range set {
			n++
			if !validPath(path) {
				errs = append(errs, domain.FieldError{Field: "supplementary_data_updates", Message: "invalid path " + path})
			}
			if op == domain.SupplementaryInc {
				if _, ok := integer(value); !ok {
					errs = append(errs, domain.FieldError{Field: "supplementary_data_updates", Message: "$inc needs an integer for " + path})
				}
			}
		}
	}
	if n == 0 {
		errs = append(errs, domain.FieldError{Field: "supplementary_data_updates", Message: "required"})
	}
	if n > maxSupplementaryUpdates {
		errs = append(errs, domain.FieldError{Field: "supplementary_data_updates", Message: "at most 100 updates"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// operations flattens Updates in a stable order: by operation, then path.
// Call after Validate.
func (i *UpdateSupplementaryDataInput) operations() []domain.SupplementaryDataUpdate {
	ops := make([]string, 0, len(i.Updates))
	for op := range i.Updates {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	var out []domain.SupplementaryDataUpdate
	for _, op := range ops {
		paths := make([]string, 0, len(i.Updates[op]))
		for p := range i.Updates[op] {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		for _, p := range paths {
			value := i.Updates[op][p]
			if op == domain.SupplementaryInc {
				value, _ = integer(value)
			}
			out = append(out, domain.SupplementaryDataUpdate{Op: op, Path: strings.Split(p, "."), Value: value})
		}
	}
	return out
}

func validPath(path string) bool {
	if path == "" {
		return false
	}
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return false
		}
	}
	return true
}

// integer accepts the numeric forms a decoded JSON body can carry.
func integer(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

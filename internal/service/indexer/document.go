package indexer

import (
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

// GlobalSearchIndex is the shared cross case type index.
const GlobalSearchIndex = "global_search"

// searchCriteriaField marks a case as globally searchable.
const searchCriteriaField = "SearchCriteria"

var globalDataFields = []string{
	searchCriteriaField,
	"caseManagementLocation",
	"CaseAccessCategory",
	"caseNameHmctsInternal",
	"caseManagementCategory",
}

var globalSupplementaryFields = []string{"HMCTSServiceId"}

// Timestamps that the global index does not carry.
var globalDroppedFields = []string{"created_date", "last_modified", "last_state_modified_date"}

// IndexName returns the per case type index.
func IndexName(caseTypeID string) string {
	return strings.ToLower(caseTypeID) + "_cases"
}

func primaryDocument(c domain.IndexedCase, now time.Time) domain.SearchDocument {
	index := IndexName(c.CaseTypeID)
	return domain.SearchDocument{
		Index:   index,
		ID:      strconv.FormatInt(c.CaseID, 10),
		Version: c.EventID,
		Body: domain.Document{
			"@timestamp":               now,
			"@version":                 strconv.Itoa(c.Version),
			"case_type_id":             c.CaseTypeID,
			"created_date":             c.CreatedAt.UTC(),
			"data":                     map[string]any(c.Data.Clone()),
			"jurisdiction":             c.Jurisdiction,
			"id":                       c.CaseID,
			"reference":                c.Reference,
			"last_modified":            c.LastModifiedAt.UTC(),
			"last_state_modified_date": c.LastStateModifiedAt.UTC(),
			"supplementary_data":       map[string]any(c.SupplementaryData.Clone()),
			"index_id":                 index,
			"state":                    c.State,
			"security_classification":  string(c.SecurityClassification),
		},
	}
}

// globalDocument derives the redacted global search variant of a primary
// document. ok is false when the case declares no search criteria.
func globalDocument(primary domain.SearchDocument) (domain.SearchDocument, bool) {
	data, _ := primary.Body["data"].(map[string]any)
	if _, ok := data[searchCriteriaField]; !ok {
		return domain.SearchDocument{}, false
	}

	body := primary.Body.Clone()
	body["data"] = map[string]any(domain.Document(data).Only(globalDataFields...))
	if supp, ok := body["supplementary_data"].(map[string]any); ok {
		body["supplementary_data"] = map[string]any(domain.Document(supp).Only(globalSupplementaryFields...))
	}
	for _, k := range globalDroppedFields {
		delete(body, k)
	}
	body["index_id"] = GlobalSearchIndex

	return domain.SearchDocument{Index: GlobalSearchIndex, ID: primary.ID, Version: primary.Version, Body: body}, true
}

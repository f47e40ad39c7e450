package analysis

import "strings"

// CategoryKeywords pairs a category with its trigger phrases.
type CategoryKeywords struct {
	Category Category
	Keywords []string
}

// CategoryKeywordTable is checked in order; the first category with any
// matching keyword wins.
var CategoryKeywordTable = []CategoryKeywords{
	{Category: CategoryObligation, Keywords: []string{"shall", "must", "agree to"}},
	{Category: CategoryRights, Keywords: []string{"reserves the right", "may"}},
	{Category: CategoryConfidentiality, Keywords: []string{"confidential", "non-disclosure"}},
	{Category: CategoryRisk, Keywords: []string{"liable", "indemnify", "at your own risk"}},
}

// ClassifyClause returns the first category whose keywords appear in the
// clause (case-insensitive substring match), or CategoryOther.
func ClassifyClause(clause string) Category {
	lower := strings.ToLower(clause)
	for _, entry := range CategoryKeywordTable {
		for _, kw := range entry.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return entry.Category
			}
		}
	}
	return CategoryOther
}

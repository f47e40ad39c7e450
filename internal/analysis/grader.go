package analysis

import "strings"

// RiskKeywords each add one point to a clause's risk score when present.
var RiskKeywords = []string{"liable", "indemnify", "terminate", "breach"}

// Score thresholds for importance levels.
const (
	mediumRiskScore = 1
	highRiskScore   = 2
)

// GradeClause scores a clause by how many distinct risk keywords it
// contains and maps the score to an importance level.
func GradeClause(clause string) (Importance, int) {
	lower := strings.ToLower(clause)
	score := 0
	for _, kw := range RiskKeywords {
		if strings.Contains(lower, kw) {
			score++
		}
	}
	return importanceFor(score), score
}

func importanceFor(score int) Importance {
	switch {
	case score >= highRiskScore:
		return ImportanceHigh
	case score == mediumRiskScore:
		return ImportanceMedium
	default:
		return ImportanceLow
	}
}

package analysis

import "strings"

const (
	SuggestIndemnity = "Consider softening indemnity to mutual responsibility."
	SuggestLiability = "Clarify or limit liability language."
	SuggestNone      = "Clause appears clear."
)

// RewriteClause returns a canned suggestion. Indemnity language is checked
// before liability language.
func RewriteClause(clause string) string {
	lower := strings.ToLower(clause)
	switch {
	case strings.Contains(lower, "indemnify"):
		return SuggestIndemnity
	case strings.Contains(lower, "liable"):
		return SuggestLiability
	default:
		return SuggestNone
	}
}

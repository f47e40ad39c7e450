package analysis

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// BoilerplateTemplates are standard clauses that carry little information.
var BoilerplateTemplates = []string{
	"This Agreement shall be governed by the laws of the State of",
	"The parties agree to the following terms and conditions",
}

// BoilerplateThreshold is the similarity ratio a clause must exceed to be
// flagged.
const BoilerplateThreshold = 0.8

// DetectBoilerplate reports whether the clause is close to any template.
func DetectBoilerplate(clause string) bool {
	c := runeSeq(strings.ToLower(clause))
	for _, tmpl := range BoilerplateTemplates {
		if SimilarityRatio(c, runeSeq(strings.ToLower(tmpl))) > BoilerplateThreshold {
			return true
		}
	}
	return false
}

// SimilarityRatio is the SequenceMatcher ratio 2*M/T over two character
// sequences, in [0,1].
func SimilarityRatio(a, b []string) float64 {
	return difflib.NewMatcher(a, b).Ratio()
}

func runeSeq(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

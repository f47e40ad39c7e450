package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyClause(t *testing.T) {
	tests := []struct {
		clause string
		want   Category
	}{
		{"The Employee shall maintain confidentiality.", CategoryObligation},
		{"The Company reserves the right to audit.", CategoryRights},
		{"Tenant MAY sublet the premises.", CategoryRights},
		{"All information is confidential.", CategoryConfidentiality},
		{"The user is liable for losses.", CategoryRisk},
		{"Payment is due monthly.", CategoryOther},
		// obligation keywords are checked before risk keywords
		{"The Contractor must indemnify the Client.", CategoryObligation},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ClassifyClause(tc.clause), tc.clause)
	}
}

func TestGradeClause(t *testing.T) {
	tests := []struct {
		clause    string
		wantLevel Importance
		wantScore int
	}{
		{"The party shall be liable and must indemnify the other party upon breach.", ImportanceHigh, 3},
		{"Either party may terminate.", ImportanceMedium, 1},
		{"Breach of contract", ImportanceMedium, 1},
		{"liable liable liable", ImportanceMedium, 1},
		{"Nothing here.", ImportanceLow, 0},
		{"It may TERMINATE on BREACH, and the party is LIABLE and will INDEMNIFY.", ImportanceHigh, 4},
	}
	for _, tc := range tests {
		level, score := GradeClause(tc.clause)
		assert.Equal(t, tc.wantScore, score, tc.clause)
		assert.Equal(t, tc.wantLevel, level, tc.clause)
	}
}

func TestDetectBoilerplate(t *testing.T) {
	assert.True(t, DetectBoilerplate("This Agreement shall be governed by the laws of the State of"))
	assert.True(t, DetectBoilerplate("The parties agree to the following terms and conditions:"))
	assert.True(t, DetectBoilerplate("THIS AGREEMENT SHALL BE GOVERNED BY THE LAWS OF THE STATE OF NEW YORK."))
	assert.False(t, DetectBoilerplate("Payment is due by March 5, 2024."))
	assert.False(t, DetectBoilerplate(""))
}

func TestSimilarityRatio(t *testing.T) {
	assert.Equal(t, 1.0, SimilarityRatio(runeSeq("abc"), runeSeq("abc")))
	assert.Equal(t, 0.0, SimilarityRatio(runeSeq("abc"), runeSeq("xyz")))
	assert.InDelta(t, 0.75, SimilarityRatio(runeSeq("abcd"), runeSeq("bcde")), 1e-9)
}

func TestRewriteClause(t *testing.T) {
	assert.Equal(t, SuggestIndemnity, RewriteClause("Vendor shall indemnify and be liable."))
	assert.Equal(t, SuggestLiability, RewriteClause("Vendor is LIABLE for defects."))
	assert.Equal(t, SuggestNone, RewriteClause("Payment is due monthly."))
}

type fakeSearcher struct {
	found []FoundDate
	err   error
}

func (f fakeSearcher) SearchDates(string) ([]FoundDate, error) { return f.found, f.err }

func TestTimelineExtractorFormatsInOrder(t *testing.T) {
	ext := NewTimelineExtractor(fakeSearcher{found: []FoundDate{
		{Text: "June 1, 2025", Time: mustDate(t, "2025-06-01")},
		{Text: "March 5, 2024", Time: mustDate(t, "2024-03-05")},
	}})
	got := ext.Extract("anything")
	assert.Equal(t, []DateMention{
		{Text: "June 1, 2025", Date: "2025-06-01"},
		{Text: "March 5, 2024", Date: "2024-03-05"},
	}, got)
}

func TestTimelineExtractorSearchErrorIsEmpty(t *testing.T) {
	ext := NewTimelineExtractor(fakeSearcher{err: errors.New("boom")})
	got := ext.Extract("March 5, 2024")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExtractTimelineWithDateparser(t *testing.T) {
	got := ExtractTimeline("Payment is due by March 5, 2024.")
	dates := make([]string, 0, len(got))
	for _, d := range got {
		dates = append(dates, d.Date)
	}
	assert.Contains(t, dates, "2024-03-05")
}

func TestComputeStats(t *testing.T) {
	results := []ClauseResult{
		{Index: 1, Category: CategoryRisk, Importance: ImportanceHigh, RiskScore: 2, Sentiment: "negative", Tone: "fear"},
		{Index: 2, Category: CategoryRisk, Importance: ImportanceMedium, RiskScore: 1, Sentiment: "negative", Tone: "anger", Boilerplate: true},
		{Index: 3, Category: CategoryOther, Importance: ImportanceLow, Error: "sentiment: down"},
	}
	st := ComputeStats(results)
	assert.Equal(t, 3, st.Clauses)
	assert.Equal(t, 2, st.ByCategory[CategoryRisk])
	assert.Equal(t, 1, st.ByImportance[ImportanceLow])
	assert.Equal(t, map[string]int{"negative": 2}, st.BySentiment)
	assert.Equal(t, map[string]int{"fear": 1, "anger": 1}, st.ByTone)
	assert.Equal(t, 1, st.Boilerplate)
	assert.Equal(t, 3, st.TotalRisk)
	assert.Equal(t, 1, st.Failed)
}

func TestCompareDocuments(t *testing.T) {
	a := "Shared line\nOnly in A\n\nOnly in A\nSecond A"
	b := "Only in B\nShared line\n"
	cmp := CompareDocuments(a, b)
	assert.Equal(t, []string{"Only in A", "Second A"}, cmp.MissingInB)
	assert.Equal(t, []string{"Only in B"}, cmp.MissingInA)

	same := CompareDocuments("x\ny", "y\nx")
	assert.Empty(t, same.MissingInA)
	assert.Empty(t, same.MissingInB)
}

func TestPreview(t *testing.T) {
	short := "short line"
	assert.Equal(t, short, Preview(short))

	long := make([]rune, PreviewLength+10)
	for i := range long {
		long[i] = 'é'
	}
	got := []rune(Preview(string(long)))
	assert.Len(t, got, PreviewLength+3)
	assert.Equal(t, "...", string(got[PreviewLength:]))
}

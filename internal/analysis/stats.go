package analysis

// Stats aggregates clause results for charts and reports.
type Stats struct {
	Clauses      int                `json:"clauses" yaml:"clauses"`
	ByImportance map[Importance]int `json:"by_importance" yaml:"by_importance"`
	ByCategory   map[Category]int   `json:"by_category" yaml:"by_category"`
	BySentiment  map[string]int     `json:"by_sentiment" yaml:"by_sentiment"`
	ByTone       map[string]int     `json:"by_tone" yaml:"by_tone"`
	Boilerplate  int                `json:"boilerplate" yaml:"boilerplate"`
	TotalRisk    int                `json:"total_risk_score" yaml:"total_risk_score"`
	Failed       int                `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// ComputeStats counts results by importance, category, sentiment and tone.
// Blank sentiment and tone labels (tone analysis off) are not counted.
func ComputeStats(results []ClauseResult) Stats {
	st := Stats{
		Clauses:      len(results),
		ByImportance: map[Importance]int{},
		ByCategory:   map[Category]int{},
		BySentiment:  map[string]int{},
		ByTone:       map[string]int{},
	}
	for _, r := range results {
		st.ByImportance[r.Importance]++
		st.ByCategory[r.Category]++
		if r.Sentiment != "" {
			st.BySentiment[r.Sentiment]++
		}
		if r.Tone != "" {
			st.ByTone[r.Tone]++
		}
		if r.Boilerplate {
			st.Boilerplate++
		}
		if r.Error != "" {
			st.Failed++
		}
		st.TotalRisk += r.RiskScore
	}
	return st
}

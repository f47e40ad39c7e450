package analysis

import "time"

// Category is the clause type assigned by keyword matching.
type Category string

const (
	CategoryObligation      Category = "Obligation"
	CategoryRights          Category = "Rights"
	CategoryConfidentiality Category = "Confidentiality"
	CategoryRisk            Category = "Risk"
	CategoryOther           Category = "Other"
)

// Importance is the ordinal risk level derived from the risk score.
type Importance string

const (
	ImportanceLow    Importance = "Low"
	ImportanceMedium Importance = "Medium"
	ImportanceHigh   Importance = "High"
)

// DateMention is a date expression found in a clause and its normalized form.
type DateMention struct {
	Text string `json:"text" yaml:"text"`
	Date string `json:"date" yaml:"date"` // YYYY-MM-DD
}

// ClauseResult is the analysis of one retained clause.
type ClauseResult struct {
	Index       int           `json:"clause_num" yaml:"clause_num"`
	Text        string        `json:"clause_text" yaml:"clause_text"`
	Category    Category      `json:"category" yaml:"category"`
	Importance  Importance    `json:"importance" yaml:"importance"`
	RiskScore   int           `json:"risk_score" yaml:"risk_score"`
	Dates       []DateMention `json:"dates" yaml:"dates"`
	Boilerplate bool          `json:"boilerplate" yaml:"boilerplate"`
	Sentiment   string        `json:"sentiment" yaml:"sentiment"`
	Tone        string        `json:"tone" yaml:"tone"`
	Rewrite     string        `json:"rewrite_suggestion" yaml:"rewrite_suggestion"`

	// Error is set only when the analyzer runs with ContinueOnError and a
	// model call for this clause failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Label is a single classifier prediction.
type Label struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Answer is the response of a question-answering model.
type Answer struct {
	Text  string  `json:"answer" yaml:"answer"`
	Score float64 `json:"score" yaml:"score"`
}

// Report bundles everything produced for one document.
type Report struct {
	Filename    string         `json:"filename,omitempty" yaml:"filename,omitempty"`
	ContentHash string         `json:"content_hash,omitempty" yaml:"content_hash,omitempty"`
	Summary     string         `json:"summary" yaml:"summary"`
	Clauses     []ClauseResult `json:"clauses" yaml:"clauses"`
	Stats       Stats          `json:"stats" yaml:"stats"`
	Options     Options        `json:"options" yaml:"options"`
	AnalyzedAt  time.Time      `json:"analyzed_at" yaml:"analyzed_at"`
}

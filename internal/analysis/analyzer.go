package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Options toggles optional per-clause steps.
type Options struct {
	Timeline bool `json:"timeline" yaml:"timeline"`
	Tone     bool `json:"tone" yaml:"tone"`

	// ContinueOnError records a failing clause with an error marker instead
	// of aborting the whole document.
	ContinueOnError bool `json:"continue_on_error" yaml:"continue_on_error"`

	// Progress, if set, is called after each retained clause.
	Progress func(done, total int) `json:"-" yaml:"-"`
}

// DefaultOptions enables every step and aborts on the first failure.
func DefaultOptions() Options {
	return Options{Timeline: true, Tone: true}
}

// Analyzer runs the per-clause pipeline over a document.
type Analyzer struct {
	tone     *ToneAnalyzer
	timeline *TimelineExtractor
	log      *slog.Logger
}

// NewAnalyzer builds an analyzer. A nil tone analyzer disables tone analysis;
// a nil timeline extractor uses the default date searcher.
func NewAnalyzer(tone *ToneAnalyzer, timeline *TimelineExtractor, log *slog.Logger) *Analyzer {
	if timeline == nil {
		timeline = defaultTimeline
	}
	if log == nil {
		log = slog.Default()
	}
	return &Analyzer{tone: tone, timeline: timeline, log: log}
}

// RetainedClauses returns the clauses the analyzer keeps: non-blank
// splitter output, in document order.
func RetainedClauses(text string) []string {
	var kept []string
	for _, c := range SplitIntoClauses(text) {
		if strings.TrimSpace(c) != "" {
			kept = append(kept, c)
		}
	}
	return kept
}

// AnalyzeDocument splits the document and analyzes each non-blank clause in
// order. Output indices run from 1 over the retained clauses. Unless
// ContinueOnError is set, the first model failure aborts the call and no
// partial results are returned.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, text string, opts Options) ([]ClauseResult, error) {
	clauses := RetainedClauses(text)
	results := make([]ClauseResult, 0, len(clauses))

	for i, clause := range clauses {
		res, err := a.analyzeClause(ctx, clause, opts)
		res.Index = i + 1
		if err != nil {
			if !opts.ContinueOnError {
				return nil, fmt.Errorf("clause %d: %w", res.Index, err)
			}
			a.log.Warn("clause analysis failed, continuing", "clause", res.Index, "error", err)
			res.Error = err.Error()
		}
		results = append(results, res)
		if opts.Progress != nil {
			opts.Progress(i+1, len(clauses))
		}
	}
	return results, nil
}

func (a *Analyzer) analyzeClause(ctx context.Context, clause string, opts Options) (ClauseResult, error) {
	importance, score := GradeClause(clause)
	res := ClauseResult{
		Text:        clause,
		Category:    ClassifyClause(clause),
		Importance:  importance,
		RiskScore:   score,
		Dates:       []DateMention{},
		Boilerplate: DetectBoilerplate(clause),
		Rewrite:     RewriteClause(clause),
	}
	if opts.Timeline {
		res.Dates = a.timeline.Extract(clause)
	}
	if opts.Tone && a.tone != nil {
		sentiment, tone, err := a.tone.Analyze(ctx, clause)
		if err != nil {
			return res, err
		}
		res.Sentiment, res.Tone = sentiment, tone
	}
	return res, nil
}

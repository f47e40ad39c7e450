package analysis

import (
	"context"
	"fmt"
	"time"
)

// Service is the document-level entry point used by the API, the worker
// pool and the CLI. Summarizer and QA may be nil.
type Service struct {
	Analyzer   *Analyzer
	Summarizer *Summarizer
	QA         QuestionAnswerer
}

// Analyze summarizes the document, analyzes its clauses and aggregates the
// results.
func (s *Service) Analyze(ctx context.Context, text string, opts Options) (*Report, error) {
	rep := &Report{Options: opts, AnalyzedAt: time.Now().UTC()}

	if s.Summarizer != nil {
		summary, err := s.Summarizer.Summarize(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("summarize: %w", err)
		}
		rep.Summary = summary
	}

	clauses, err := s.Analyzer.AnalyzeDocument(ctx, text, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	rep.Clauses = clauses
	rep.Stats = ComputeStats(clauses)
	return rep, nil
}

// Ask answers a question about the document text.
func (s *Service) Ask(ctx context.Context, question, text string) (Answer, error) {
	if s.QA == nil {
		return Answer{}, fmt.Errorf("question answering is not configured")
	}
	return AskDocument(ctx, s.QA, question, text)
}

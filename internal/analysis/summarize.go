package analysis

import (
	"context"
	"errors"
	"strings"
)

// SummaryInputLimit is the number of document characters given to the
// summarization model. Text past the cutoff does not affect the summary.
const SummaryInputLimit = 1024

// ErrEmptyContext is returned when a question is asked without document text.
var ErrEmptyContext = errors.New("no document text to answer from")

// SummaryModel produces an abstractive summary.
type SummaryModel interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// QuestionAnswerer extracts or generates an answer from a context.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question, passage string) (Answer, error)
}

// Summarizer truncates a document and delegates to a SummaryModel.
type Summarizer struct {
	model SummaryModel
}

func NewSummarizer(model SummaryModel) *Summarizer {
	return &Summarizer{model: model}
}

// Summarize returns "" for a blank document without calling the model.
func (s *Summarizer) Summarize(ctx context.Context, document string) (string, error) {
	if strings.TrimSpace(document) == "" {
		return "", nil
	}
	return s.model.Summarize(ctx, truncateRunes(document, SummaryInputLimit))
}

// AskDocument answers a question over the full document text.
func AskDocument(ctx context.Context, qa QuestionAnswerer, question, document string) (Answer, error) {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(document) == "" {
		return Answer{}, ErrEmptyContext
	}
	return qa.Answer(ctx, question, document)
}

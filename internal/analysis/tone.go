package analysis

import (
	"context"
	"fmt"
	"strings"
)

// ToneInputLimit is the number of characters of a clause sent to the
// sentiment and emotion models.
const ToneInputLimit = 512

// SentimentClassifier predicts polarity for a text.
type SentimentClassifier interface {
	ClassifySentiment(ctx context.Context, text string) (Label, error)
}

// EmotionClassifier returns the full score distribution over emotions.
type EmotionClassifier interface {
	ClassifyEmotions(ctx context.Context, text string) ([]Label, error)
}

// ToneAnalyzer combines a sentiment and an emotion model.
type ToneAnalyzer struct {
	sentiment SentimentClassifier
	emotion   EmotionClassifier
}

func NewToneAnalyzer(sentiment SentimentClassifier, emotion EmotionClassifier) *ToneAnalyzer {
	return &ToneAnalyzer{sentiment: sentiment, emotion: emotion}
}

// Analyze returns the lower-cased sentiment label and dominant emotion for
// the first ToneInputLimit characters of the clause.
func (t *ToneAnalyzer) Analyze(ctx context.Context, clause string) (sentiment, tone string, err error) {
	text := truncateRunes(clause, ToneInputLimit)

	s, err := t.sentiment.ClassifySentiment(ctx, text)
	if err != nil {
		return "", "", fmt.Errorf("sentiment: %w", err)
	}
	emotions, err := t.emotion.ClassifyEmotions(ctx, text)
	if err != nil {
		return "", "", fmt.Errorf("emotion: %w", err)
	}
	top, ok := DominantLabel(emotions)
	if !ok {
		return "", "", fmt.Errorf("emotion: classifier returned no labels")
	}
	return strings.ToLower(s.Label), strings.ToLower(top.Label), nil
}

// DominantLabel returns the highest-scoring label; ties keep the earlier one.
func DominantLabel(labels []Label) (Label, bool) {
	if len(labels) == 0 {
		return Label{}, false
	}
	best := labels[0]
	for _, l := range labels[1:] {
		if l.Score > best.Score {
			best = l
		}
	}
	return best, true
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

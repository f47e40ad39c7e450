package analysis

import (
	"time"

	dps "github.com/markusmobius/go-dateparser"
)

// FoundDate is a raw date match reported by a DateSearcher.
type FoundDate struct {
	Text string
	Time time.Time
}

// DateSearcher finds natural-language date expressions in free text.
type DateSearcher interface {
	SearchDates(text string) ([]FoundDate, error)
}

// DateparserSearcher searches dates with go-dateparser.
type DateparserSearcher struct {
	Config *dps.Configuration
}

func (s DateparserSearcher) SearchDates(text string) ([]FoundDate, error) {
	_, results, err := dps.Search(s.Config, text)
	if err != nil {
		return nil, err
	}
	found := make([]FoundDate, 0, len(results))
	for _, r := range results {
		found = append(found, FoundDate{Text: r.Text, Time: r.Date.Time})
	}
	return found, nil
}

// TimelineExtractor normalizes date matches to YYYY-MM-DD.
type TimelineExtractor struct {
	searcher DateSearcher
}

// NewTimelineExtractor uses go-dateparser when searcher is nil.
func NewTimelineExtractor(searcher DateSearcher) *TimelineExtractor {
	if searcher == nil {
		searcher = DateparserSearcher{}
	}
	return &TimelineExtractor{searcher: searcher}
}

// Extract returns date mentions in the order the searcher found them. A
// search error is treated as no matches.
func (e *TimelineExtractor) Extract(clause string) []DateMention {
	found, err := e.searcher.SearchDates(clause)
	if err != nil || len(found) == 0 {
		return []DateMention{}
	}
	out := make([]DateMention, 0, len(found))
	for _, f := range found {
		out = append(out, DateMention{Text: f.Text, Date: f.Time.Format(time.DateOnly)})
	}
	return out
}

var defaultTimeline = NewTimelineExtractor(nil)

// ExtractTimeline finds dates in a clause with the default searcher.
func ExtractTimeline(clause string) []DateMention {
	return defaultTimeline.Extract(clause)
}

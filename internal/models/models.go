package models

import "time"

// Trend source tags. These form a closed set: adapters never emit a tag
// outside this list, and unrecognized provider payloads are dropped rather
// than tagged ad hoc.
const (
	SourceMock       = "mock"
	SourceReddit     = "reddit"
	SourceHackerNews = "hn"
	SourceTrendsAPI  = "trendsapi"
)

var knownSources = map[string]bool{
	SourceMock:       true,
	SourceReddit:     true,
	SourceHackerNews: true,
	SourceTrendsAPI:  true,
}

// KnownSource reports whether tag is one of the recognized provider tags.
func KnownSource(tag string) bool {
	return knownSources[tag]
}

// Trend is the normalized unit of output from any provider.
//
// Score semantics (upvotes, points, search volume) vary by source and are not
// normalized to a common scale. TopComment is nil when no comment was found;
// an empty string is never used as the absent sentinel.
type Trend struct {
	Topic      string    `json:"topic"`
	Source     string    `json:"source"`
	Score      *int      `json:"score,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	URL        string    `json:"url,omitempty"`
	Body       string    `json:"body,omitempty"`
	TopComment *string   `json:"topComment,omitempty"`
}

// RankedTrend joins back to a Trend by positional index into the list that
// was submitted for ranking. Relevance scores are passed through as returned
// by the scorer; callers clamp defensively if they need the 1-10 range.
type RankedTrend struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevanceScore"`
	Reasoning      string  `json:"reasoning"`
}

// Thread is the structured output of thread generation.
type Thread struct {
	Title     string   `json:"title"`
	Segments  []string `json:"segments"`
	CTA       string   `json:"cta,omitempty"`
	QuoteIdea string   `json:"quoteIdea,omitempty"`
}

// Tones controlling the generation voice.
const (
	ToneDegen      = "degen"
	ToneContrarian = "contrarian"
	ToneExpert     = "expert"
)

// ValidTone reports whether tone is one of the supported generation tones.
func ValidTone(tone string) bool {
	switch tone {
	case ToneDegen, ToneContrarian, ToneExpert:
		return true
	}
	return false
}

// TelemetryEvent is a fire-and-forget usage event recorded by the telemetry
// sink. Recording failures are never surfaced to the request path.
type TelemetryEvent struct {
	Feature  string                 `json:"feature"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/trendformer/trendformer/internal/models"
)

// MockSource produces a fixed, deterministic trend set. It doubles as the
// zero-config demo mode and the universal fallback when no live data is
// available, so its output satisfies the same invariants as live data.
type MockSource struct{}

type mockTopic struct {
	topic string
	score int
}

var mockTopics = []mockTopic{
	{"AI agents running personal workflows", 92},
	{"Short-form vertical video SEO tactics", 81},
	{"Sleep optimization gadgets", 74},
	{"Cold outreach prompts for freelancers", 69},
	{"Glucose monitoring for fat loss", 65},
}

// NewMockSource creates the mock trend generator.
func NewMockSource() *MockSource {
	return &MockSource{}
}

func (m *MockSource) Name() string {
	return models.SourceMock
}

func (m *MockSource) IsEnabled() bool {
	return true
}

// Fetch returns the fixed topic set suffixed with the niche label. Apart from
// the timestamp, the output is identical across calls for the same niche.
func (m *MockSource) Fetch(_ context.Context, query Query) []models.Trend {
	now := time.Now()
	trends := make([]models.Trend, 0, len(mockTopics))
	for _, mt := range mockTopics {
		score := mt.score
		trends = append(trends, models.Trend{
			Topic:     fmt.Sprintf("%s — %s", mt.topic, query.Niche),
			Source:    models.SourceMock,
			Score:     &score,
			Timestamp: now,
		})
	}
	return trends
}

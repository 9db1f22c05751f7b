package sources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendformer/trendformer/internal/models"
)

func TestMockSource_Name(t *testing.T) {
	source := NewMockSource()
	assert.Equal(t, "mock", source.Name())
}

func TestMockSource_IsEnabled(t *testing.T) {
	source := NewMockSource()
	assert.True(t, source.IsEnabled())
}

func TestMockSource_Deterministic(t *testing.T) {
	source := NewMockSource()
	query := Query{Niche: "Fitness"}

	first := source.Fetch(context.Background(), query)
	second := source.Fetch(context.Background(), query)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Topic, second[i].Topic)
		require.NotNil(t, first[i].Score)
		require.NotNil(t, second[i].Score)
		assert.Equal(t, *first[i].Score, *second[i].Score)
	}
}

func TestMockSource_SatisfiesTrendInvariants(t *testing.T) {
	source := NewMockSource()
	trends := source.Fetch(context.Background(), Query{Niche: "Crypto"})

	require.NotEmpty(t, trends)
	for _, trend := range trends {
		assert.NotEmpty(t, trend.Topic)
		assert.True(t, models.KnownSource(trend.Source))
		assert.Equal(t, models.SourceMock, trend.Source)
		assert.False(t, trend.Timestamp.IsZero())
	}
}

func TestMockSource_TopicIncludesNiche(t *testing.T) {
	source := NewMockSource()
	trends := source.Fetch(context.Background(), Query{Niche: "Startups"})

	require.NotEmpty(t, trends)
	for _, trend := range trends {
		assert.Contains(t, trend.Topic, "Startups")
	}
}

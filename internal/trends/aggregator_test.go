package trends

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendformer/trendformer/internal/models"
	"github.com/trendformer/trendformer/internal/sources"
)

// fakeSource returns canned trends after an optional delay, to verify that
// concatenation order never depends on completion timing.
type fakeSource struct {
	name    string
	enabled bool
	delay   time.Duration
	trends  []models.Trend
	calls   int
}

func (f *fakeSource) Name() string    { return f.name }
func (f *fakeSource) IsEnabled() bool { return f.enabled }

func (f *fakeSource) Fetch(ctx context.Context, query sources.Query) []models.Trend {
	f.calls++
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.trends
}

func trend(topic, source string) models.Trend {
	return models.Trend{Topic: topic, Source: source, Timestamp: time.Now()}
}

func newTestService(reddit, hn, trendsAPI *fakeSource) *Service {
	mock := &fakeSource{name: models.SourceMock, enabled: true, trends: []models.Trend{
		trend("Mock topic", models.SourceMock),
	}}
	return NewService(reddit, hn, trendsAPI, mock, nil, nil)
}

func TestAggregate_AllProvidersFixedOrder(t *testing.T) {
	// Reddit is the slowest and trendsapi the fastest; output order must
	// still be reddit, hn, trendsapi.
	reddit := &fakeSource{name: models.SourceReddit, enabled: true, delay: 60 * time.Millisecond,
		trends: []models.Trend{trend("From reddit", models.SourceReddit)}}
	hn := &fakeSource{name: models.SourceHackerNews, enabled: true, delay: 30 * time.Millisecond,
		trends: []models.Trend{trend("From hn", models.SourceHackerNews)}}
	trendsAPI := &fakeSource{name: models.SourceTrendsAPI, enabled: true,
		trends: []models.Trend{trend("From trendsapi", models.SourceTrendsAPI)}}

	service := newTestService(reddit, hn, trendsAPI)
	result, err := service.Aggregate(context.Background(), Request{
		Niche: "AI", Provider: ProviderAll, Mock: MockOff,
	})

	require.NoError(t, err)
	require.Len(t, result.Trends, 3)
	assert.Equal(t, models.SourceReddit, result.Trends[0].Source)
	assert.Equal(t, models.SourceHackerNews, result.Trends[1].Source)
	assert.Equal(t, models.SourceTrendsAPI, result.Trends[2].Source)
	assert.False(t, result.Mock)
}

func TestAggregate_MockForcedOnSkipsLiveProviders(t *testing.T) {
	reddit := &fakeSource{name: models.SourceReddit, enabled: true,
		trends: []models.Trend{trend("Live", models.SourceReddit)}}
	hn := &fakeSource{name: models.SourceHackerNews, enabled: true}
	trendsAPI := &fakeSource{name: models.SourceTrendsAPI, enabled: true}

	service := newTestService(reddit, hn, trendsAPI)
	result, err := service.Aggregate(context.Background(), Request{
		Niche: "AI", Provider: ProviderAll, Mock: MockOn,
	})

	require.NoError(t, err)
	require.NotEmpty(t, result.Trends)
	assert.True(t, result.Mock)
	assert.Equal(t, models.SourceMock, result.Trends[0].Source)
	assert.Zero(t, reddit.calls, "live providers must not run when mock is forced on")
}

func TestAggregate_EmptyLiveResultsSubstituteMockByDefault(t *testing.T) {
	reddit := &fakeSource{name: models.SourceReddit, enabled: true}
	hn := &fakeSource{name: models.SourceHackerNews, enabled: true}
	trendsAPI := &fakeSource{name: models.SourceTrendsAPI, enabled: true}

	service := newTestService(reddit, hn, trendsAPI)
	result, err := service.Aggregate(context.Background(), Request{
		Niche: "Fitness", Provider: ProviderAll, Mock: MockDefault,
	})

	require.NoError(t, err)
	require.NotEmpty(t, result.Trends, "mock fallback guarantees a non-empty list")
	assert.True(t, result.Mock)
}

func TestAggregate_MockForcedOffKeepsEmptyResult(t *testing.T) {
	reddit := &fakeSource{name: models.SourceReddit, enabled: true}
	hn := &fakeSource{name: models.SourceHackerNews, enabled: true}
	trendsAPI := &fakeSource{name: models.SourceTrendsAPI, enabled: true}

	service := newTestService(reddit, hn, trendsAPI)
	result, err := service.Aggregate(context.Background(), Request{
		Niche: "AI", Provider: ProviderAll, Mock: MockOff,
	})

	require.NoError(t, err)
	assert.Empty(t, result.Trends, "forced-off mock must not substitute")
	assert.False(t, result.Mock)
}

func TestAggregate_SingleProviderFallsBackToTrendsAPI(t *testing.T) {
	reddit := &fakeSource{name: models.SourceReddit, enabled: true} // empty
	hn := &fakeSource{name: models.SourceHackerNews, enabled: true}
	trendsAPI := &fakeSource{name: models.SourceTrendsAPI, enabled: true,
		trends: []models.Trend{trend("Backup trend", models.SourceTrendsAPI)}}

	service := newTestService(reddit, hn, trendsAPI)
	result, err := service.Aggregate(context.Background(), Request{
		Niche: "AI", Provider: models.SourceReddit, Mock: MockOff,
	})

	require.NoError(t, err)
	require.Len(t, result.Trends, 1)
	assert.Equal(t, "Backup trend", result.Trends[0].Topic)
	assert.False(t, result.Mock)
	assert.Equal(t, 1, trendsAPI.calls)
}

func TestAggregate_DisabledSourceIsSkipped(t *testing.T) {
	reddit := &fakeSource{name: models.SourceReddit, enabled: true,
		trends: []models.Trend{trend("From reddit", models.SourceReddit)}}
	hn := &fakeSource{name: models.SourceHackerNews, enabled: true,
		trends: []models.Trend{trend("From hn", models.SourceHackerNews)}}
	trendsAPI := &fakeSource{name: models.SourceTrendsAPI, enabled: false}

	service := newTestService(reddit, hn, trendsAPI)
	result, err := service.Aggregate(context.Background(), Request{
		Niche: "AI", Provider: ProviderAll, Mock: MockOff,
	})

	require.NoError(t, err)
	assert.Len(t, result.Trends, 2)
	assert.Zero(t, trendsAPI.calls)
}

func TestAggregate_UnknownProvider(t *testing.T) {
	service := newTestService(
		&fakeSource{name: models.SourceReddit, enabled: true},
		&fakeSource{name: models.SourceHackerNews, enabled: true},
		&fakeSource{name: models.SourceTrendsAPI, enabled: true},
	)

	_, err := service.Aggregate(context.Background(), Request{
		Niche: "AI", Provider: "myspace", Mock: MockOff,
	})

	assert.Error(t, err)
}

func TestKnownProvider(t *testing.T) {
	assert.True(t, KnownProvider(ProviderAll))
	assert.True(t, KnownProvider(models.SourceReddit))
	assert.True(t, KnownProvider(models.SourceHackerNews))
	assert.True(t, KnownProvider(models.SourceTrendsAPI))
	assert.False(t, KnownProvider("mock"))
	assert.False(t, KnownProvider(""))
}

func TestAggregate_EveryRecordSatisfiesInvariants(t *testing.T) {
	service := newTestService(
		&fakeSource{name: models.SourceReddit, enabled: true,
			trends: []models.Trend{trend("A", models.SourceReddit)}},
		&fakeSource{name: models.SourceHackerNews, enabled: true,
			trends: []models.Trend{trend("B", models.SourceHackerNews)}},
		&fakeSource{name: models.SourceTrendsAPI, enabled: true},
	)

	result, err := service.Aggregate(context.Background(), Request{
		Niche: "AI", Provider: ProviderAll, Mock: MockDefault,
	})

	require.NoError(t, err)
	for _, tr := range result.Trends {
		assert.NotEmpty(t, tr.Topic)
		assert.True(t, models.KnownSource(tr.Source))
	}
}

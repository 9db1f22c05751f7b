package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendformer/trendformer/internal/models"
)

func newHNTestServer(t *testing.T, ids string, items map[int]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ids))
	})
	for id, body := range items {
		itemBody := body
		mux.HandleFunc(fmt.Sprintf("/item/%d.json", id), func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(itemBody))
		})
	}
	return httptest.NewServer(mux)
}

func TestHackerNewsSource_Fetch(t *testing.T) {
	server := newHNTestServer(t, `[1, 2, 3]`, map[int]string{
		1: `{"id": 1, "type": "story", "title": "AI startup raises round", "url": "https://example.com/ai", "score": 150, "time": 1700000000}`,
		2: `{"id": 2, "type": "story", "title": "", "score": 300, "time": 1700000000}`,
		3: `{"id": 3, "type": "story", "title": "Ask HN: favorite editor?", "score": 80, "time": 1700000000}`,
	})
	defer server.Close()

	source := NewHackerNewsSource(server.URL)
	trends := source.Fetch(context.Background(), Query{Niche: "AI"})

	require.Len(t, trends, 2, "titleless item must be dropped")

	assert.Equal(t, "AI startup raises round", trends[0].Topic)
	assert.Equal(t, models.SourceHackerNews, trends[0].Source)
	assert.Equal(t, "https://example.com/ai", trends[0].URL)
	require.NotNil(t, trends[0].Score)
	assert.Equal(t, 150, *trends[0].Score)

	// Item without an external URL links back to the HN discussion.
	assert.Equal(t, "https://news.ycombinator.com/item?id=3", trends[1].URL)
}

func TestHackerNewsSource_Fetch_MinScoreFilter(t *testing.T) {
	server := newHNTestServer(t, `[1, 2]`, map[int]string{
		1: `{"id": 1, "type": "story", "title": "Popular story", "score": 250, "time": 1700000000}`,
		2: `{"id": 2, "type": "story", "title": "Quiet story", "score": 40, "time": 1700000000}`,
	})
	defer server.Close()

	source := NewHackerNewsSource(server.URL)
	trends := source.Fetch(context.Background(), Query{MinScore: 100})

	require.Len(t, trends, 1)
	assert.Equal(t, "Popular story", trends[0].Topic)
	for _, trend := range trends {
		require.NotNil(t, trend.Score)
		assert.GreaterOrEqual(t, *trend.Score, 100)
	}
}

func TestHackerNewsSource_Fetch_KeywordFilter(t *testing.T) {
	server := newHNTestServer(t, `[1, 2, 3]`, map[int]string{
		1: `{"id": 1, "type": "story", "title": "New LLM benchmark results", "score": 50, "time": 1700000000}`,
		2: `{"id": 2, "type": "story", "title": "Bridge collapse investigation", "score": 90, "time": 1700000000}`,
		3: `{"id": 3, "type": "story", "title": "OpenAI ships a new API", "score": 120, "time": 1700000000}`,
	})
	defer server.Close()

	source := NewHackerNewsSource(server.URL)
	trends := source.Fetch(context.Background(), Query{Keywords: []string{"llm", "openai"}})

	require.Len(t, trends, 2)
	assert.Equal(t, "New LLM benchmark results", trends[0].Topic)
	assert.Equal(t, "OpenAI ships a new API", trends[1].Topic)
}

func TestHackerNewsSource_Fetch_OrderFollowsStoryList(t *testing.T) {
	server := newHNTestServer(t, `[30, 10, 20]`, map[int]string{
		10: `{"id": 10, "type": "story", "title": "Second", "score": 1, "time": 1700000000}`,
		20: `{"id": 20, "type": "story", "title": "Third", "score": 1, "time": 1700000000}`,
		30: `{"id": 30, "type": "story", "title": "First", "score": 1, "time": 1700000000}`,
	})
	defer server.Close()

	source := NewHackerNewsSource(server.URL)
	trends := source.Fetch(context.Background(), Query{})

	require.Len(t, trends, 3)
	assert.Equal(t, "First", trends[0].Topic)
	assert.Equal(t, "Second", trends[1].Topic)
	assert.Equal(t, "Third", trends[2].Topic)
}

func TestHackerNewsSource_Fetch_ListFailureReturnsEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	source := NewHackerNewsSource(server.URL)
	trends := source.Fetch(context.Background(), Query{})

	assert.Empty(t, trends)
}

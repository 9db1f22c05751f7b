package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/trendformer/trendformer/internal/models"
)

const (
	hnStoryLimit = 60
	hnMaxWorkers = 8
)

// HackerNewsSource fetches the current top stories from the Hacker News API.
// Two optional filters are AND-combined: a minimum score threshold and a
// case-insensitive keyword match over the title (skipped when the niche has
// no keywords configured).
type HackerNewsSource struct {
	baseURL string
	client  *resty.Client
}

type hackerNewsItem struct {
	ID    int    `json:"id"`
	Type  string `json:"type"`
	Time  int64  `json:"time"`
	Text  string `json:"text"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Score int    `json:"score"`
}

// NewHackerNewsSource creates a new Hacker News source. baseURL defaults to
// the public Firebase endpoint when empty.
func NewHackerNewsSource(baseURL string) *HackerNewsSource {
	if baseURL == "" {
		baseURL = "https://hacker-news.firebaseio.com/v0"
	}
	return &HackerNewsSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: resty.New().
			SetTimeout(15 * time.Second).
			SetHeader("User-Agent", "Trendformer/1.0"),
	}
}

func (h *HackerNewsSource) Name() string {
	return models.SourceHackerNews
}

func (h *HackerNewsSource) IsEnabled() bool {
	return true // Hacker News API doesn't require authentication
}

// Fetch resolves the top-story prefix concurrently and applies the query
// filters. Output order follows the ranked story list, never completion
// order. Individual item failures are dropped silently.
func (h *HackerNewsSource) Fetch(ctx context.Context, query Query) []models.Trend {
	storyIDs, err := h.getTopStories(ctx)
	if err != nil {
		logrus.Errorf("Failed to get HN top stories: %v", err)
		return nil
	}

	if len(storyIDs) > hnStoryLimit {
		storyIDs = storyIDs[:hnStoryLimit]
	}

	items := make([]*hackerNewsItem, len(storyIDs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, hnMaxWorkers)

	for i, id := range storyIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx, itemID int) {
			defer wg.Done()
			defer func() { <-sem }()
			item, err := h.getItem(ctx, itemID)
			if err != nil {
				logrus.Debugf("Failed to get HN item %d: %v", itemID, err)
				return
			}
			items[idx] = item
		}(i, id)
	}
	wg.Wait()

	var trends []models.Trend
	for _, item := range items {
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}
		if query.MinScore > 0 && item.Score < query.MinScore {
			continue
		}
		if !titleMatchesKeywords(item.Title, query.Keywords) {
			continue
		}

		score := item.Score
		url := fmt.Sprintf("https://news.ycombinator.com/item?id=%d", item.ID)
		if item.Type == "story" && item.URL != "" {
			url = item.URL
		}

		timestamp := time.Now()
		if item.Time > 0 {
			timestamp = time.Unix(item.Time, 0)
		}

		trends = append(trends, models.Trend{
			Topic:     item.Title,
			Source:    models.SourceHackerNews,
			Score:     &score,
			Timestamp: timestamp,
			URL:       url,
			Body:      item.Text,
		})
	}

	return trends
}

// titleMatchesKeywords reports whether the title contains at least one of the
// keywords, case-insensitive. An empty keyword list accepts everything.
func titleMatchesKeywords(title string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	lower := strings.ToLower(title)
	for _, keyword := range keywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func (h *HackerNewsSource) getTopStories(ctx context.Context) ([]int, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get(h.baseURL + "/topstories.json")

	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("hacker news API returned status %d", resp.StatusCode())
	}

	var storyIDs []int
	if err := json.Unmarshal(resp.Body(), &storyIDs); err != nil {
		return nil, err
	}
	return storyIDs, nil
}

func (h *HackerNewsSource) getItem(ctx context.Context, itemID int) (*hackerNewsItem, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/item/%d.json", h.baseURL, itemID))

	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("hacker news API returned status %d for item %d", resp.StatusCode(), itemID)
	}

	var item hackerNewsItem
	if err := json.Unmarshal(resp.Body(), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/trendformer/trendformer/internal/models"
)

// TrendsAPISource queries a configured generic trend-search endpoint. The
// response shape is not fixed across vendors, so decoding is schema-tolerant:
// an ordered list of candidate extraction rules is tried in sequence and the
// first match wins. Items without any usable title are dropped.
type TrendsAPISource struct {
	baseURL string
	apiKey  string
	client  *resty.Client
}

// Candidate extraction rules, tried in order:
//   - item arrays: top-level JSON array, then the fields below
//   - titles:      "topic", "title", "name", "keyword", "query"
//   - scores:      "score", "volume", "popularity"
//   - urls:        "url", "link"
var (
	trendArrayFields = []string{"trends", "results", "data", "items"}
	trendTitleFields = []string{"topic", "title", "name", "keyword", "query"}
	trendScoreFields = []string{"score", "volume", "popularity"}
	trendURLFields   = []string{"url", "link"}
)

// NewTrendsAPISource creates a new generic trends source.
func NewTrendsAPISource(baseURL, apiKey string) *TrendsAPISource {
	return &TrendsAPISource{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: resty.New().
			SetTimeout(15 * time.Second).
			SetHeader("User-Agent", "Trendformer/1.0"),
	}
}

func (t *TrendsAPISource) Name() string {
	return models.SourceTrendsAPI
}

func (t *TrendsAPISource) IsEnabled() bool {
	return t.baseURL != ""
}

// Fetch issues a single search request for the niche and decodes whatever
// plausible shape comes back.
func (t *TrendsAPISource) Fetch(ctx context.Context, query Query) []models.Trend {
	if !t.IsEnabled() {
		logrus.Debug("Trends API source disabled - missing base URL")
		return nil
	}

	req := t.client.R().
		SetContext(ctx).
		SetQueryParam("q", query.Niche)
	if t.apiKey != "" {
		req.SetQueryParam("api_key", t.apiKey)
	}

	resp, err := req.Get(t.baseURL + "/search")
	if err != nil {
		logrus.Errorf("Trends API request failed: %v", err)
		return nil
	}
	if resp.StatusCode() != 200 {
		logrus.Errorf("Trends API returned status %d", resp.StatusCode())
		return nil
	}

	items, err := extractItems(resp.Body())
	if err != nil {
		logrus.Errorf("Failed to parse trends API response: %v", err)
		return nil
	}

	now := time.Now()
	var trends []models.Trend
	for _, item := range items {
		title := firstString(item, trendTitleFields)
		if title == "" {
			continue
		}

		trend := models.Trend{
			Topic:     title,
			Source:    models.SourceTrendsAPI,
			Timestamp: now,
			URL:       firstString(item, trendURLFields),
		}
		if score, ok := firstNumber(item, trendScoreFields); ok {
			s := int(score)
			trend.Score = &s
		}

		trends = append(trends, trend)
	}

	return trends
}

// extractItems locates the item array in the payload: a top-level array
// first, then each named candidate field in order.
func extractItems(body []byte) ([]map[string]interface{}, error) {
	var topLevel []map[string]interface{}
	if err := json.Unmarshal(body, &topLevel); err == nil {
		return topLevel, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("response is neither an array nor an object: %w", err)
	}

	for _, field := range trendArrayFields {
		raw, ok := envelope[field]
		if !ok {
			continue
		}
		var items []map[string]interface{}
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
	}

	return nil, fmt.Errorf("no recognizable item array in response")
}

func firstString(item map[string]interface{}, fields []string) string {
	for _, field := range fields {
		if value, ok := item[field].(string); ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func firstNumber(item map[string]interface{}, fields []string) (float64, bool) {
	for _, field := range fields {
		if value, ok := item[field].(float64); ok {
			return value, true
		}
	}
	return 0, false
}

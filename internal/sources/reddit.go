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

const redditPageSize = 5

// RedditSource fetches hot posts from the niche's subreddits via Reddit's
// public JSON listings. For each post it makes a best-effort attempt to grab
// the top comment; comment failures leave TopComment nil and never drop the
// post itself.
type RedditSource struct {
	baseURL string
	client  *resty.Client
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Selftext  string  `json:"selftext"`
	Subreddit string  `json:"subreddit"`
	Permalink string  `json:"permalink"`
	Created   float64 `json:"created_utc"`
	Score     int     `json:"score"`
	Stickied  bool    `json:"stickied"`
}

type redditComment struct {
	Body     string `json:"body"`
	Stickied bool   `json:"stickied"`
}

// NewRedditSource creates a new Reddit source. baseURL defaults to the public
// reddit.com endpoint when empty.
func NewRedditSource(baseURL string) *RedditSource {
	if baseURL == "" {
		baseURL = "https://www.reddit.com"
	}
	return &RedditSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: resty.New().
			SetTimeout(15 * time.Second).
			SetHeader("User-Agent", "Trendformer/1.0"),
	}
}

func (r *RedditSource) Name() string {
	return models.SourceReddit
}

func (r *RedditSource) IsEnabled() bool {
	return true // public listings need no credentials
}

// Fetch scans the query's subreddits concurrently. One failing community
// contributes nothing; the rest still produce records.
func (r *RedditSource) Fetch(ctx context.Context, query Query) []models.Trend {
	results := make([][]models.Trend, len(query.Subreddits))
	var wg sync.WaitGroup

	for i, subreddit := range query.Subreddits {
		wg.Add(1)
		go func(idx int, sub string) {
			defer wg.Done()
			trends, err := r.fetchSubreddit(ctx, sub)
			if err != nil {
				logrus.Errorf("Failed to fetch r/%s: %v", sub, err)
				return
			}
			results[idx] = trends
		}(i, subreddit)
	}
	wg.Wait()

	var all []models.Trend
	for _, trends := range results {
		all = append(all, trends...)
	}
	return all
}

func (r *RedditSource) fetchSubreddit(ctx context.Context, subreddit string) ([]models.Trend, error) {
	listURL := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", r.baseURL, subreddit, redditPageSize)

	resp, err := r.client.R().SetContext(ctx).Get(listURL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("reddit API returned status %d for r/%s", resp.StatusCode(), subreddit)
	}

	var listing redditListing
	if err := json.Unmarshal(resp.Body(), &listing); err != nil {
		return nil, fmt.Errorf("failed to parse r/%s listing: %w", subreddit, err)
	}

	var trends []models.Trend
	for _, child := range listing.Data.Children {
		post := child.Data
		if strings.TrimSpace(post.Title) == "" {
			continue
		}

		score := post.Score
		trend := models.Trend{
			Topic:     post.Title,
			Source:    models.SourceReddit,
			Score:     &score,
			Timestamp: time.Unix(int64(post.Created), 0),
			URL:       fmt.Sprintf("https://reddit.com%s", post.Permalink),
			Body:      post.Selftext,
		}
		if trend.Timestamp.IsZero() || post.Created == 0 {
			trend.Timestamp = time.Now()
		}

		// Best effort: a comment failure for one post never affects the rest.
		if comment, err := r.fetchTopComment(ctx, post.Subreddit, post.ID); err != nil {
			logrus.Debugf("Failed to fetch top comment for %s: %v", post.ID, err)
		} else if comment != "" {
			trend.TopComment = &comment
		}

		trends = append(trends, trend)
	}

	return trends, nil
}

// fetchTopComment returns the highest-ranked usable top-level comment body,
// or "" when none exists.
func (r *RedditSource) fetchTopComment(ctx context.Context, subreddit, postID string) (string, error) {
	commentsURL := fmt.Sprintf("%s/r/%s/comments/%s.json?sort=top&limit=5&depth=1", r.baseURL, subreddit, postID)

	resp, err := r.client.R().SetContext(ctx).Get(commentsURL)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("reddit API returned status %d for comments of %s", resp.StatusCode(), postID)
	}

	// The comments endpoint returns two listings: the post itself, then the
	// top-level comments.
	var listings []redditCommentListing
	if err := json.Unmarshal(resp.Body(), &listings); err != nil {
		return "", fmt.Errorf("failed to parse comments for %s: %w", postID, err)
	}
	if len(listings) < 2 {
		return "", nil
	}

	for _, child := range listings[1].Data.Children {
		body := strings.TrimSpace(child.Data.Body)
		if body == "" || body == "[deleted]" || body == "[removed]" || child.Data.Stickied {
			continue
		}
		return body, nil
	}
	return "", nil
}

type redditCommentListing struct {
	Data struct {
		Children []struct {
			Data redditComment `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

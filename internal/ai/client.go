package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/trendformer/trendformer/internal/models"
)

// Ranker scores a trend list for relevance to a niche.
type Ranker interface {
	RankTrends(ctx context.Context, niche string, trends []models.Trend) ([]models.RankedTrend, error)
}

// Generator turns a selected topic into a structured thread.
type Generator interface {
	GenerateThread(ctx context.Context, niche, topic, tone, threadContext string) (*models.Thread, error)
}

// Client implements Ranker and Generator using the OpenAI Chat Completions API.
type Client struct {
	client *openai.Client
	model  string
}

// Config for the OpenAI-backed client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
}

// New creates the OpenAI client. The API key may be empty; calls will then
// fail with ErrNotConfigured so the HTTP layer can name the missing setting.
func New(cfg Config) *Client {
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	if cfg.APIKey == "" {
		c = nil
	}
	return &Client{client: c, model: model}
}

// ErrNotConfigured is returned when no OpenAI API key is set.
var ErrNotConfigured = fmt.Errorf("missing OPENAI_API_KEY")

type rankingsEnvelope struct {
	Rankings []models.RankedTrend `json:"rankings"`
}

// RankTrends asks the model to score every trend for the niche. Rankings
// referencing an out-of-range index are discarded rather than trusted, and
// the result is sorted by descending relevance score.
func (c *Client) RankTrends(ctx context.Context, niche string, trends []models.Trend) ([]models.RankedTrend, error) {
	if c.client == nil {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	raw, err := c.create(ctx, rankingSystemPrompt, buildRankingPrompt(niche, trends), 0.3)
	if err != nil {
		logrus.Errorf("openai: ranking error: %v", err)
		return nil, err
	}

	var envelope rankingsEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse rankings: %w", err)
	}

	return postprocessRankings(envelope.Rankings, len(trends)), nil
}

// postprocessRankings drops rankings with an index outside the input list and
// sorts the remainder by descending relevance score. The sort is stable so
// ties keep the scorer's own order. Scores are passed through unclamped.
func postprocessRankings(rankings []models.RankedTrend, inputLen int) []models.RankedTrend {
	valid := make([]models.RankedTrend, 0, len(rankings))
	for _, r := range rankings {
		if r.Index < 0 || r.Index >= inputLen {
			continue
		}
		valid = append(valid, r)
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].RelevanceScore > valid[j].RelevanceScore
	})
	return valid
}

// GenerateThread produces a structured thread for the selected topic in the
// requested tone.
func (c *Client) GenerateThread(ctx context.Context, niche, topic, tone, threadContext string) (*models.Thread, error) {
	if c.client == nil {
		return nil, ErrNotConfigured
	}

	system, ok := toneSystemPrompts[tone]
	if !ok {
		return nil, fmt.Errorf("unsupported tone %q", tone)
	}

	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()

	raw, err := c.create(ctx, system, buildThreadInstructions(niche, topic, threadContext), 0.7)
	if err != nil {
		logrus.Errorf("openai: generation error: %v", err)
		return nil, err
	}

	var thread models.Thread
	if err := json.Unmarshal([]byte(raw), &thread); err != nil {
		return nil, fmt.Errorf("failed to parse thread: %w", err)
	}
	if strings.TrimSpace(thread.Title) == "" {
		return nil, fmt.Errorf("generation returned an empty thread")
	}

	return &thread, nil
}

func (c *Client) create(ctx context.Context, system, user string, temperature float32) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

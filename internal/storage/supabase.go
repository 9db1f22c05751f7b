package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/trendformer/trendformer/internal/models"
)

// SupabaseSink writes trend rows and telemetry events through the Supabase
// PostgREST API. When the URL or key is missing every call is a silent no-op;
// absent persistence configuration is not an error.
type SupabaseSink struct {
	baseURL string
	apiKey  string
	client  *resty.Client
}

// Ensure SupabaseSink implements Sink
var _ Sink = (*SupabaseSink)(nil)

type trendRow struct {
	Source    string  `json:"source"`
	Title     string  `json:"title"`
	Body      *string `json:"body"`
	URL       *string `json:"url"`
	Score     *int    `json:"score"`
	CreatedAt string  `json:"created_at"`
}

type telemetryRow struct {
	ID        string                 `json:"id"`
	Feature   string                 `json:"feature"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt string                 `json:"created_at"`
}

// NewSupabaseSink creates a new Supabase persistence sink.
func NewSupabaseSink(baseURL, apiKey string) *SupabaseSink {
	return &SupabaseSink{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  resty.New().SetTimeout(10 * time.Second),
	}
}

// IsEnabled reports whether persistence credentials are configured.
func (s *SupabaseSink) IsEnabled() bool {
	return s.baseURL != "" && s.apiKey != ""
}

// SaveTrends inserts a batch of normalized trend rows.
func (s *SupabaseSink) SaveTrends(ctx context.Context, niche string, trends []models.Trend) error {
	if !s.IsEnabled() || len(trends) == 0 {
		return nil
	}

	rows := make([]trendRow, 0, len(trends))
	for _, t := range trends {
		row := trendRow{
			Source:    t.Source,
			Title:     t.Topic,
			CreatedAt: t.Timestamp.Format(time.RFC3339),
		}
		if t.Body != "" {
			body := t.Body
			row.Body = &body
		} else if t.TopComment != nil {
			row.Body = t.TopComment
		}
		if t.URL != "" {
			url := t.URL
			row.URL = &url
		}
		row.Score = t.Score
		rows = append(rows, row)
	}

	if err := s.insert(ctx, "trendformer_trends", rows); err != nil {
		return fmt.Errorf("failed to save trends: %w", err)
	}

	logrus.Debugf("Saved %d trends for niche %s", len(rows), niche)
	return nil
}

// RecordEvent inserts a single telemetry event.
func (s *SupabaseSink) RecordEvent(ctx context.Context, event models.TelemetryEvent) error {
	if !s.IsEnabled() {
		return nil
	}

	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	row := telemetryRow{
		ID:        uuid.NewString(),
		Feature:   event.Feature,
		Metadata:  metadata,
		CreatedAt: time.Now().Format(time.RFC3339),
	}

	if err := s.insert(ctx, "telemetry_events", []telemetryRow{row}); err != nil {
		return fmt.Errorf("failed to record telemetry: %w", err)
	}
	return nil
}

func (s *SupabaseSink) insert(ctx context.Context, table string, body interface{}) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("apikey", s.apiKey).
		SetHeader("Authorization", "Bearer "+s.apiKey).
		SetHeader("Prefer", "return=minimal").
		SetBody(body).
		Post(fmt.Sprintf("%s/rest/v1/%s", s.baseURL, table))

	if err != nil {
		return err
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("supabase returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return nil
}

package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/trendformer/trendformer/internal/models"
	"github.com/trendformer/trendformer/internal/niche"
	"github.com/trendformer/trendformer/internal/sources"
	"github.com/trendformer/trendformer/internal/storage"
)

// Provider selectors accepted by Aggregate.
const (
	ProviderAll = "all"
)

// Request describes one aggregation call.
type Request struct {
	Niche    string
	Provider string // "all" or a single source tag
	MinScore int    // applies to the Hacker News path only
	Mock     MockMode
	Save     bool
}

// Result is the outcome of one aggregation call. Mock indicates whether the
// returned trends are the substituted mock set.
type Result struct {
	Trends []models.Trend `json:"trends"`
	Mock   bool           `json:"mock"`
}

// Metrics holds aggregation metrics
type Metrics struct {
	TotalTrends       int            `json:"total_trends"`
	LastRun           time.Time      `json:"last_run"`
	LastRunDuration   string         `json:"last_run_duration"`
	SourceMetrics     map[string]int `json:"source_metrics"`
	MockSubstitutions int            `json:"mock_substitutions"`
}

// Service aggregates trends across the configured providers. Live adapters
// run concurrently; their results are concatenated in a fixed order
// (reddit, hn, trendsapi) regardless of which finishes first.
type Service struct {
	reddit    sources.Source
	hn        sources.Source
	trendsAPI sources.Source
	mock      sources.Source

	sink     storage.Sink
	archiver storage.Archiver

	metrics *Metrics
	mu      sync.RWMutex
}

// NewService creates a new aggregation service. sink and archiver may be nil,
// in which case the corresponding side effect is skipped.
func NewService(reddit, hn, trendsAPI, mock sources.Source, sink storage.Sink, archiver storage.Archiver) *Service {
	return &Service{
		reddit:    reddit,
		hn:        hn,
		trendsAPI: trendsAPI,
		mock:      mock,
		sink:      sink,
		archiver:  archiver,
		metrics: &Metrics{
			SourceMetrics: make(map[string]int),
		},
	}
}

// KnownProvider reports whether selector is a valid provider selection.
func KnownProvider(selector string) bool {
	switch selector {
	case ProviderAll, models.SourceReddit, models.SourceHackerNews, models.SourceTrendsAPI:
		return true
	}
	return false
}

// Aggregate runs the trend pipeline for one request. Provider failures never
// surface: the worst case is the mock set (or, with mock explicitly off, an
// empty list).
func (s *Service) Aggregate(ctx context.Context, req Request) (Result, error) {
	if !KnownProvider(req.Provider) {
		return Result{}, fmt.Errorf("unknown provider %q", req.Provider)
	}

	start := time.Now()
	profile := niche.Resolve(req.Niche)
	query := sources.Query{
		Niche:      req.Niche,
		Subreddits: profile.Subreddits,
		Keywords:   profile.Keywords,
		MinScore:   req.MinScore,
	}

	var live []models.Trend
	if req.Mock != MockOn {
		live = s.fetchLive(ctx, req.Provider, query)
	}

	state := resolveFallback(req.Mock, len(live))

	result := Result{Trends: live}
	if state == StateMockSubstituted {
		result = Result{Trends: s.mock.Fetch(ctx, query), Mock: true}
	}

	s.updateMetrics(result, time.Since(start))

	if req.Save && len(result.Trends) > 0 {
		s.persist(req.Niche, result)
	}

	return result, nil
}

// fetchLive runs the selected adapters. With the "all" selector every adapter
// runs concurrently into its own slot so the concatenation order stays fixed.
// The single-provider branch falls back to the trends API before the mock
// decision is made.
func (s *Service) fetchLive(ctx context.Context, provider string, query sources.Query) []models.Trend {
	if provider == ProviderAll {
		ordered := []sources.Source{s.reddit, s.hn, s.trendsAPI}
		results := make([][]models.Trend, len(ordered))

		var wg sync.WaitGroup
		for i, src := range ordered {
			if !src.IsEnabled() {
				logrus.Debugf("Source %s disabled, skipping", src.Name())
				continue
			}
			wg.Add(1)
			go func(idx int, src sources.Source) {
				defer wg.Done()
				trends := src.Fetch(ctx, query)
				logrus.Infof("Found %d trends from %s", len(trends), src.Name())
				results[idx] = trends
			}(i, src)
		}
		wg.Wait()

		var all []models.Trend
		for _, trends := range results {
			all = append(all, trends...)
		}
		return all
	}

	src := s.sourceFor(provider)
	var trends []models.Trend
	if src.IsEnabled() {
		trends = src.Fetch(ctx, query)
	}

	if len(trends) == 0 && provider != models.SourceTrendsAPI && s.trendsAPI.IsEnabled() {
		logrus.Infof("No trends from %s, falling back to %s", provider, s.trendsAPI.Name())
		trends = s.trendsAPI.Fetch(ctx, query)
	}

	return trends
}

func (s *Service) sourceFor(provider string) sources.Source {
	switch provider {
	case models.SourceReddit:
		return s.reddit
	case models.SourceHackerNews:
		return s.hn
	default:
		return s.trendsAPI
	}
}

// persist fires the storage and telemetry side effects without awaiting
// them: the response path never depends on their success.
func (s *Service) persist(nicheLabel string, result Result) {
	trends := result.Trends

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if s.sink != nil {
			if err := s.sink.SaveTrends(ctx, nicheLabel, trends); err != nil {
				logrus.Errorf("Failed to save trends: %v", err)
			}
			event := models.TelemetryEvent{
				Feature: "fetch_trends",
				Metadata: map[string]interface{}{
					"niche": nicheLabel,
					"count": len(trends),
					"mock":  result.Mock,
				},
			}
			if err := s.sink.RecordEvent(ctx, event); err != nil {
				logrus.Errorf("Failed to record telemetry: %v", err)
			}
		}

		if s.archiver != nil {
			data, err := json.Marshal(trends)
			if err != nil {
				logrus.Errorf("Failed to marshal trends snapshot: %v", err)
				return
			}
			filename := fmt.Sprintf("trends-%s.json", time.Now().Format("2006-01-02-15-04-05"))
			if err := s.archiver.Archive(ctx, filename, data); err != nil {
				logrus.Errorf("Failed to archive snapshot: %v", err)
			}
		}
	}()
}

func (s *Service) updateMetrics(result Result, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.TotalTrends = len(result.Trends)
	s.metrics.LastRun = time.Now()
	s.metrics.LastRunDuration = duration.String()
	if result.Mock {
		s.metrics.MockSubstitutions++
	}

	s.metrics.SourceMetrics = make(map[string]int)
	for _, trend := range result.Trends {
		s.metrics.SourceMetrics[trend.Source]++
	}
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}

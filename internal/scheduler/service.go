package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/trendformer/trendformer/internal/config"
	"github.com/trendformer/trendformer/internal/digest"
	"github.com/trendformer/trendformer/internal/trends"
)

// Service schedules the periodic trend digest run.
type Service struct {
	config     *config.Config
	aggregator *trends.Service
	digest     *digest.Service
	cron       *cron.Cron
}

// NewService creates a new scheduler service.
func NewService(cfg *config.Config, aggregator *trends.Service, digestService *digest.Service) *Service {
	return &Service{
		config:     cfg,
		aggregator: aggregator,
		digest:     digestService,
		cron:       cron.New(cron.WithSeconds()),
	}
}

// Start begins the scheduled digest runs. A disabled digest configuration
// leaves the scheduler idle.
func (s *Service) Start() error {
	if !s.config.DigestEnabled() {
		logrus.Info("Digest disabled, scheduler idle")
		return nil
	}

	var cronExpression string
	switch s.config.DigestSchedule {
	case "daily":
		// Run daily at 9 AM UTC
		cronExpression = "0 0 9 * * *"
	default:
		// Run weekly on Monday at 9 AM UTC
		cronExpression = "0 0 9 * * MON"
	}

	_, err := s.cron.AddFunc(cronExpression, s.runDigest)
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s digest schedule", s.config.DigestSchedule)
	return nil
}

func (s *Service) runDigest() {
	logrus.Info("Starting scheduled digest run")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := s.aggregator.Aggregate(ctx, trends.Request{
		Niche:    s.config.DigestNiche,
		Provider: trends.ProviderAll,
		MinScore: s.config.HNMinScore,
		Mock:     trends.MockDefault,
		Save:     true,
	})
	if err != nil {
		logrus.Errorf("Scheduled digest aggregation failed: %v", err)
		return
	}

	if err := s.digest.SendDigest(s.config.DigestNiche, result.Trends); err != nil {
		logrus.Errorf("Scheduled digest send failed: %v", err)
	}
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}

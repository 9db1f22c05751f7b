package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/trendformer/trendformer/internal/ai"
	"github.com/trendformer/trendformer/internal/config"
	"github.com/trendformer/trendformer/internal/digest"
	"github.com/trendformer/trendformer/internal/scheduler"
	"github.com/trendformer/trendformer/internal/server"
	"github.com/trendformer/trendformer/internal/sources"
	"github.com/trendformer/trendformer/internal/storage"
	"github.com/trendformer/trendformer/internal/trends"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting Trendformer API")

	// Persistence sink; stays enabled-aware internally, missing credentials
	// make every call a no-op rather than an error.
	sink := storage.NewSupabaseSink(cfg.SupabaseURL, cfg.SupabaseKey)
	if !sink.IsEnabled() {
		logrus.Info("Supabase not configured, persistence and telemetry disabled")
	}

	// Optional snapshot archive.
	var archiver storage.Archiver
	if cfg.StorageAccount != "" {
		azureArchiver, err := storage.NewAzureArchiver(cfg.StorageAccount, cfg.StorageContainer)
		if err != nil {
			logrus.Errorf("Failed to initialize snapshot archive, continuing without it: %v", err)
		} else {
			archiver = azureArchiver
		}
	}

	aggregator := trends.NewService(
		sources.NewRedditSource(cfg.RedditBaseURL),
		sources.NewHackerNewsSource(cfg.HackerNewsBaseURL),
		sources.NewTrendsAPISource(cfg.TrendsAPIBaseURL, cfg.TrendsAPIKey),
		sources.NewMockSource(),
		sink,
		archiver,
	)

	aiClient := ai.New(ai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	})

	digestService := digest.NewService(cfg)
	schedulerService := scheduler.NewService(cfg, aggregator, digestService)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	api := server.New(cfg, aggregator, aiClient, aiClient, sink)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      api.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

package storage

import (
	"context"

	"github.com/trendformer/trendformer/internal/models"
)

// Sink persists normalized trends and telemetry events. Both operations are
// fire-and-forget from the pipeline's point of view: callers invoke them off
// the request path and only log errors.
type Sink interface {
	SaveTrends(ctx context.Context, niche string, trends []models.Trend) error
	RecordEvent(ctx context.Context, event models.TelemetryEvent) error
}

// Archiver stores raw aggregation snapshots for offline analysis.
type Archiver interface {
	Archive(ctx context.Context, filename string, data []byte) error
}

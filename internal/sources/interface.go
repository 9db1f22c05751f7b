package sources

import (
	"context"

	"github.com/trendformer/trendformer/internal/models"
)

// Query carries the resolved per-provider parameters for one fetch.
type Query struct {
	Niche      string
	Subreddits []string // Reddit communities to scan
	Keywords   []string // Hacker News title filter; empty means no filtering
	MinScore   int      // drop items scoring below this when > 0
}

// Source is the contract for all trend providers. Fetch never fails: network,
// parse and schema errors are handled inside the adapter, which contributes an
// empty or partial result instead of propagating. A broken provider degrades
// the result set, it never aborts the overall request.
type Source interface {
	Name() string
	IsEnabled() bool
	Fetch(ctx context.Context, query Query) []models.Trend
}

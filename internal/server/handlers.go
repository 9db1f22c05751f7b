package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/trendformer/trendformer/internal/models"
	"github.com/trendformer/trendformer/internal/trends"
)

const maxRankableTrends = 50

// handleGetTrends serves GET /trends. This endpoint never fails because of
// provider issues: the worst case is the mock set, or an empty list when mock
// mode is explicitly disabled.
func (s *Server) handleGetTrends(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	niche := q.Get("niche")
	if niche == "" {
		niche = "AI"
	}

	provider := q.Get("provider")
	if provider == "" {
		provider = trends.ProviderAll
	}
	if !trends.KnownProvider(provider) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown provider %q", provider))
		return
	}

	minScore := 0
	if raw := q.Get("minScore"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "minScore must be an integer")
			return
		}
		minScore = parsed
	}

	save := true
	if raw := q.Get("save"); raw != "" {
		save = raw == "true"
	}

	req := trends.Request{
		Niche:    niche,
		Provider: provider,
		MinScore: minScore,
		Mock:     s.resolveMockMode(q.Get("mock")),
		Save:     save,
	}

	result, err := s.aggregator.Aggregate(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if result.Trends == nil {
		result.Trends = []models.Trend{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"niche":    niche,
		"provider": provider,
		"mock":     result.Mock,
		"trends":   result.Trends,
	})
}

// resolveMockMode maps the query parameter onto the tri-state policy: an
// explicit value always wins, otherwise the process-wide default applies.
func (s *Server) resolveMockMode(raw string) trends.MockMode {
	switch raw {
	case "true":
		return trends.MockOn
	case "false":
		return trends.MockOff
	}
	if s.cfg.UseMockTrends {
		return trends.MockOn
	}
	return trends.MockDefault
}

type rankRequest struct {
	Niche  string         `json:"niche"`
	Trends []models.Trend `json:"trends"`
}

// handleRank serves POST /rank. Schema violations are client errors; a
// failing scorer is not fatal and degrades to an empty ranking list, since
// trend display must work unranked.
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, []string{"body must be valid JSON"})
		return
	}

	if details := validateRankRequest(req); len(details) > 0 {
		writeValidationError(w, details)
		return
	}

	rankings, err := s.ranker.RankTrends(r.Context(), req.Niche, req.Trends)
	if err != nil {
		logrus.Warnf("Ranking unavailable, continuing unranked: %v", err)
		rankings = nil
	}
	if rankings == nil {
		rankings = []models.RankedTrend{}
	}

	s.recordTelemetry("rank_trends", map[string]interface{}{
		"niche": req.Niche,
		"count": len(req.Trends),
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{"rankings": rankings})
}

func validateRankRequest(req rankRequest) []string {
	var details []string
	if strings.TrimSpace(req.Niche) == "" {
		details = append(details, "niche must not be empty")
	}
	if len(req.Trends) == 0 {
		details = append(details, "trends must contain at least 1 item")
	}
	if len(req.Trends) > maxRankableTrends {
		details = append(details, fmt.Sprintf("trends must contain at most %d items", maxRankableTrends))
	}
	for i, t := range req.Trends {
		if strings.TrimSpace(t.Topic) == "" {
			details = append(details, fmt.Sprintf("trends[%d].topic must not be empty", i))
		}
		if !models.KnownSource(t.Source) {
			details = append(details, fmt.Sprintf("trends[%d].source %q is not recognized", i, t.Source))
		}
	}
	return details
}

type generateRequest struct {
	Niche   string `json:"niche"`
	Topic   string `json:"topic"`
	Tone    string `json:"tone"`
	Context string `json:"context,omitempty"`
}

// handleGenerateThread serves POST /generate-thread. Unlike ranking,
// generation failure is visible: the caller gets a 500 with the capability's
// message and no partial thread.
func (s *Server) handleGenerateThread(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, []string{"body must be valid JSON"})
		return
	}

	var details []string
	if strings.TrimSpace(req.Niche) == "" {
		details = append(details, "niche must not be empty")
	}
	if strings.TrimSpace(req.Topic) == "" {
		details = append(details, "topic must not be empty")
	}
	if !models.ValidTone(req.Tone) {
		details = append(details, fmt.Sprintf("tone must be one of: %s, %s, %s",
			models.ToneDegen, models.ToneContrarian, models.ToneExpert))
	}
	if len(details) > 0 {
		writeValidationError(w, details)
		return
	}

	thread, err := s.generator.GenerateThread(r.Context(), req.Niche, req.Topic, req.Tone, req.Context)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.recordTelemetry("generate_thread", map[string]interface{}{
		"niche": req.Niche,
		"tone":  req.Tone,
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{"thread": thread})
}

// recordTelemetry fires a usage event without blocking the response path.
func (s *Server) recordTelemetry(feature string, metadata map[string]interface{}) {
	if s.sink == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		event := models.TelemetryEvent{Feature: feature, Metadata: metadata}
		if err := s.sink.RecordEvent(ctx, event); err != nil {
			logrus.Errorf("Failed to record telemetry: %v", err)
		}
	}()
}

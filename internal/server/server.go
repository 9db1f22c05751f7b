package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/trendformer/trendformer/internal/ai"
	"github.com/trendformer/trendformer/internal/config"
	"github.com/trendformer/trendformer/internal/storage"
	"github.com/trendformer/trendformer/internal/trends"
)

// Aggregator is the trend pipeline surface the HTTP layer consumes.
type Aggregator interface {
	Aggregate(ctx context.Context, req trends.Request) (trends.Result, error)
	GetMetrics() string
}

// Server wires the HTTP endpoints to the pipeline and the AI boundary.
type Server struct {
	cfg        *config.Config
	aggregator Aggregator
	ranker     ai.Ranker
	generator  ai.Generator
	sink       storage.Sink
}

// New creates a new HTTP server facade. sink may be nil when persistence is
// not configured.
func New(cfg *config.Config, aggregator Aggregator, ranker ai.Ranker, generator ai.Generator, sink storage.Sink) *Server {
	return &Server{
		cfg:        cfg,
		aggregator: aggregator,
		ranker:     ranker,
		generator:  generator,
		sink:       sink,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/metrics", s.handleMetrics).Methods("GET")
	router.HandleFunc("/trends", s.handleGetTrends).Methods("GET")
	router.HandleFunc("/rank", s.handleRank).Methods("POST")
	router.HandleFunc("/generate-thread", s.handleGenerateThread).Methods("POST")
	return router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(s.aggregator.GetMetrics()))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeValidationError(w http.ResponseWriter, details []string) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":   "Invalid body",
		"details": details,
	})
}

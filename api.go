package newsreports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// APIServer exposes the read API over HTTP. It is a thin mapping layer: all
// aggregation and fallback policy lives in the Aggregator, all persistence in
// the Store.
type APIServer struct {
	agg   *Aggregator
	store *Store
	log   *zap.Logger
}

// NewAPIServer creates an API server over the given aggregator and store.
func NewAPIServer(agg *Aggregator, store *Store, log *zap.Logger) *APIServer {
	return &APIServer{agg: agg, store: store, log: log}
}

// RegionResponse is the body of a single-region request.
type RegionResponse struct {
	Region string    `json:"region"`
	News   []Article `json:"news"`
	Count  int       `json:"count"`
}

// CleanupResponse reports the result of a retention purge.
type CleanupResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}

// HealthResponse is the body of a health probe.
type HealthResponse struct {
	Status          string `json:"status"`
	Database        string `json:"database,omitempty"`
	TotalArticles   int    `json:"total_articles"`
	RegionsCount    int    `json:"regions_count"`
	Last24hArticles int    `json:"last_24h_articles"`
}

// Routes registers every handler on mux.
func (s *APIServer) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/news", s.HandleNews)
	mux.HandleFunc("/api/news/by-region", s.HandleNewsByRegion)
	mux.HandleFunc("/api/news/region/", s.HandleRegion)
	mux.HandleFunc("/api/stats", s.HandleStats)
	mux.HandleFunc("/api/cleanup/", s.HandleCleanup)
	mux.HandleFunc("/api/health", s.HandleHealth)
}

// HandleNews handles GET /api/news: the flat aggregation across all sources.
func (s *APIServer) HandleNews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	news := s.agg.FetchAll(r.Context())
	if news == nil {
		news = []Article{}
	}
	s.writeJSON(w, http.StatusOK, news)
}

// HandleNewsByRegion handles GET /api/news/by-region: articles grouped by
// region, with the fallback ladder applied.
func (s *APIServer) HandleNewsByRegion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.writeJSON(w, http.StatusOK, s.agg.FetchByRegion(r.Context()))
}

// HandleRegion handles GET /api/news/region/{name}. Unknown regions yield a
// 404 with a structured error body.
func (s *APIServer) HandleRegion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/news/region/")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	if name == "" {
		s.writeError(w, http.StatusNotFound, "region name is required")
		return
	}

	byRegion := s.agg.FetchByRegion(r.Context())
	news, ok := byRegion[name]
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("Region %q not found", name))
		return
	}
	if news == nil {
		news = []Article{}
	}
	s.writeJSON(w, http.StatusOK, RegionResponse{Region: name, News: news, Count: len(news)})
}

// HandleStats handles GET /api/stats.
func (s *APIServer) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats, err := s.store.Stats()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

// HandleCleanup handles GET /api/cleanup/{days}. Days must be an integer in
// [1, 365]; anything else is a client error.
func (s *APIServer) HandleCleanup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/api/cleanup/")
	days, err := strconv.Atoi(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "days must be an integer")
		return
	}

	deleted, err := s.store.PurgeOlderThan(days)
	if errors.Is(err, ErrInvalidRetention) {
		s.writeError(w, http.StatusBadRequest, "Days must be between 1 and 365")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, CleanupResponse{
		Message:      fmt.Sprintf("Cleaned up %d articles older than %d days", deleted, days),
		DeletedCount: deleted,
	})
}

// HandleHealth handles GET /api/health. A failure while gathering stats flips
// the status to unhealthy but still returns a structured body.
func (s *APIServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats, err := s.store.Stats()
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:          "healthy",
		Database:        "connected",
		TotalArticles:   stats.TotalArticles,
		RegionsCount:    len(stats.ArticlesByRegion),
		Last24hArticles: stats.ArticlesLast24h,
	})
}

func (s *APIServer) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn("response encoding failed", zap.Error(err))
	}
}

func (s *APIServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/clausewise/internal/config"
	"github.com/dgallion1/clausewise/internal/inference"
	"github.com/dgallion1/clausewise/internal/metrics"
	"github.com/dgallion1/clausewise/internal/pipeline"
)

// Server is the HTTP API server for clausewise.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	stats        *inference.LatencyStats
	metrics      *metrics.Metrics
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. stats and m may be nil.
func NewServer(orch *pipeline.Orchestrator, stats *inference.LatencyStats, m *metrics.Metrics, log *slog.Logger, cfg config.Config) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		orchestrator: orch,
		stats:        stats,
		metrics:      m,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log, s.metrics))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/analyze", s.handleAnalyze)
		r.Get("/analyze/{jobID}/status", s.handleAnalyzeStatus)
		r.Get("/analyze/{jobID}", s.handleReport)
		r.Get("/analyze/{jobID}/export", s.handleExport)

		r.Post("/ask", s.handleAsk)
		r.Post("/compare", s.handleCompare)

		r.Get("/stats/models", s.handleModelStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}

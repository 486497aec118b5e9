package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/fittracker/internal/models"
	"github.com/claude/fittracker/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReportStore persists computed reports. *storage.DB satisfies it.
type ReportStore interface {
	InsertReport(ctx context.Context, row models.ReportRow) (bool, error)
	InsertReports(ctx context.Context, rows []models.ReportRow) (int64, error)
	QueryReports(ctx context.Context, start, end time.Time, code string) ([]models.ReportRow, error)
	GetReport(ctx context.Context, id uuid.UUID) (*models.ReportRow, error)
	GetReportStats(ctx context.Context, start, end time.Time) ([]models.TypeStats, error)
}

var _ ReportStore = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  ReportStore
	log    *slog.Logger
	apiKey string
	router chi.Router
	now    func() time.Time
}

// New creates a new Server with all routes configured.
func New(store ReportStore, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
		now:    time.Now,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Report computation (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/reports", s.handleCreateReport)
		r.Post("/api/v1/reports/batch", s.handleBatchReports)
	})

	s.router.Get("/api/v1/reports", s.handleQueryReports)
	s.router.Get("/api/v1/reports/stats", s.handleReportStats)
	s.router.Get("/api/v1/reports/{id}", s.handleGetReport)
	s.router.Get("/api/v1/workout-types", s.handleWorkoutTypes)

	s.router.Handle("/metrics", promhttp.Handler())
}

// SetMCP mounts an MCP HTTP transport at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}

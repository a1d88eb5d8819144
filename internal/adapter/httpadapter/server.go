package httpadapter

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/covid-dashboard/internal/config"
	"github.com/couchcryptid/covid-dashboard/internal/dashboard"
	"github.com/couchcryptid/covid-dashboard/internal/domain"
	"github.com/couchcryptid/covid-dashboard/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// DatasetProvider hands out the current dataset, nil until one is loaded.
type DatasetProvider interface {
	Dataset() *domain.Dataset
}

// Server exposes the dashboard, its chart fragments, the JSON API, and the
// health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	data       DatasetProvider
	charts     *dashboard.Builder
	metrics    *observability.Metrics
	title      string
	logger     *slog.Logger
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(cfg *config.Config, data DatasetProvider, ready sharedobs.ReadinessChecker, charts *dashboard.Builder, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		data:    data,
		charts:  charts,
		metrics: metrics,
		title:   cfg.DashboardTitle,
		logger:  logger,
	}

	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /maps/{metric}", s.handleMap)
	mux.HandleFunc("GET /charts/{category}", s.handleChart)
	mux.HandleFunc("GET /regions", s.handleRegionPanels)
	mux.HandleFunc("GET /regions/{region}", s.handleRegionPanel)
	mux.HandleFunc("GET /api/totals", s.handleTotals)
	mux.HandleFunc("GET /api/regions", s.handleRegions)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// Package http exposes the dashboard over HTTP: health, readiness, and
// metrics endpoints plus the per-tab render API consumed by the frontend.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/skyfall-dashboard/internal/chart"
	"github.com/couchcryptid/skyfall-dashboard/internal/dashboard"
	"github.com/couchcryptid/skyfall-dashboard/internal/filter"
)

// Renderer is the dashboard surface the server serves. Implemented by
// dashboard.Service; tests substitute a mock.
type Renderer interface {
	CheckReadiness(ctx context.Context) error
	RenderMeteorites(ctx context.Context, spec filter.MeteoriteSpec, theme chart.Theme) (*dashboard.TabPayload, error)
	RenderBolides(ctx context.Context, spec filter.BolideSpec, opts dashboard.BolideOptions, theme chart.Theme) (*dashboard.TabPayload, error)
	RenderNEOs(ctx context.Context, spec filter.NEOSpec, theme chart.Theme) (*dashboard.TabPayload, error)
	Summary(ctx context.Context) (*dashboard.SummaryPayload, error)
}

// Server exposes health, readiness, metrics, and dashboard API endpoints.
type Server struct {
	httpServer   *http.Server
	renderer     Renderer
	defaultTheme chart.Theme
	logger       *slog.Logger
}

// NewServer creates an HTTP server with the health and dashboard routes.
func NewServer(addr string, renderer Renderer, defaultTheme chart.Theme, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		renderer:     renderer,
		defaultTheme: defaultTheme,
		logger:       logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/meteorites", s.handleMeteorites)
	mux.HandleFunc("GET /api/v1/bolides", s.handleBolides)
	mux.HandleFunc("GET /api/v1/neos", s.handleNEOs)
	mux.HandleFunc("GET /api/v1/summary", s.handleSummary)

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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.renderer.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

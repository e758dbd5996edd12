package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/seismic-histogram/internal/domain"
	"github.com/couchcryptid/seismic-histogram/internal/render"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReportStore exposes the most recent sweep to the server.
type ReportStore interface {
	sharedobs.ReadinessChecker
	Reports() []domain.Report
}

// Server exposes health, readiness, metrics, and the computed histograms.
type Server struct {
	httpServer *http.Server
	store      ReportStore
	chartSize  render.Size
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /histograms and /charts routes.
func NewServer(addr string, store ReportStore, chartSize render.Size, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:     store,
		chartSize: chartSize,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(store))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /histograms", s.handleHistograms)
	mux.HandleFunc("GET /histograms/{threshold}", s.handleHistogram)
	mux.HandleFunc("GET /charts/{threshold}", s.handleChart)

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

func (s *Server) handleHistograms(w http.ResponseWriter, _ *http.Request) {
	reports := s.store.Reports()
	if reports == nil {
		reports = []domain.Report{}
	}
	sharedobs.WriteJSON(w, http.StatusOK, reports)
}

func (s *Server) handleHistogram(w http.ResponseWriter, r *http.Request) {
	report, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, report)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	report, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render.Encode(report.Histogram, s.chartSize, &buf); err != nil {
		s.logger.Error("chart render failed", "threshold", report.Histogram.Threshold, "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "chart render failed"})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// lookup resolves the {threshold} path value, writing a 400 or 404 on failure.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (domain.Report, bool) {
	raw := r.PathValue("threshold")
	threshold, err := strconv.Atoi(raw)
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "threshold must be an integer: " + raw})
		return domain.Report{}, false
	}
	for _, report := range s.store.Reports() {
		if report.Histogram.Threshold == threshold {
			return report, true
		}
	}
	sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "no histogram for threshold " + raw})
	return domain.Report{}, false
}

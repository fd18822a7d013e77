// server.go — HTTP service over the timeline, pagination and render engines.
// Routes:
//
//	POST /api/v1/waterfall     resources or report → laid-out waterfall
//	POST /api/v1/export/plan   page geometry → pagination plan
//	POST /api/v1/export/pdf    report → paginated PDF
//	GET  /healthz
//	GET  /metrics
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sitelens/sitelens/internal/render"
	"github.com/sitelens/sitelens/internal/timeline"
	"github.com/sitelens/sitelens/internal/util"
)

const (
	maxPostBodySize = 10 * 1024 * 1024 // 10MB
	shutdownTimeout = 5 * time.Second
	requestIDHeader = "X-Request-ID"
)

// Options holds the defaults applied when a request leaves a parameter out.
type Options struct {
	Sort           timeline.SortKey
	PageSize       string
	MarginMm       float64
	SurfaceWidthPx int
	// Registry receives the service metrics and backs /metrics. Nil means
	// the process-wide default registry.
	Registry *prometheus.Registry
}

// Server exposes the engines over HTTP.
type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	opts    Options
	metrics *metrics
	now     func() time.Time
}

// New creates the server and registers its routes.
func New(logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Sort == "" {
		opts.Sort = timeline.SortByStartTime
	}
	if opts.PageSize == "" {
		opts.PageSize = "A4"
	}
	if opts.SurfaceWidthPx == 0 {
		opts.SurfaceWidthPx = render.DefaultWidthPx
	}
	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		opts:    opts,
		metrics: newMetrics(opts.Registry),
		now:     time.Now,
	}
	s.routes()
	return s
}

// ServeHTTP satisfies http.Handler. Every request gets an X-Request-ID,
// taken from the request when present.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(requestIDHeader, id)
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if s.opts.Registry != nil {
		gatherer = s.opts.Registry
	}
	s.mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	s.mux.HandleFunc("/healthz", s.instrument("/healthz", s.handleHealth))
	s.mux.HandleFunc("/api/v1/waterfall", s.instrument("/api/v1/waterfall", s.handleWaterfall))
	s.mux.HandleFunc("/api/v1/export/plan", s.instrument("/api/v1/export/plan", s.handlePlan))
	s.mux.HandleFunc("/api/v1/export/pdf", s.instrument("/api/v1/export/pdf", s.handlePDF))
}

// requestLogger returns the server logger tagged with the request ID.
func (s *Server) requestLogger(w http.ResponseWriter) *slog.Logger {
	return s.logger.With("request_id", w.Header().Get(requestIDHeader))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	util.SafeGo("http-server", func() {
		errCh <- srv.ListenAndServe()
	})
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("stopped")
	return nil
}

// Package server exposes the analysis service over HTTP: the JSON API, the
// HTML dashboard and the export endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/iqfinance/intel-dashboard/internal/analyze"
	"github.com/iqfinance/intel-dashboard/internal/config"
	"github.com/iqfinance/intel-dashboard/internal/export"
	"github.com/iqfinance/intel-dashboard/internal/render"
	"github.com/iqfinance/intel-dashboard/pkg/branddev"
)

const (
	maxBodyBytes    = 2 << 20
	shutdownTimeout = 10 * time.Second
)

// Analyzer runs one analysis per call.
type Analyzer interface {
	Analyze(ctx context.Context, req analyze.Request) (*analyze.Result, error)
}

// Deps are the collaborators a Server needs. Brands may be nil, in which
// case dashboards use only the brand data the report carries.
type Deps struct {
	Analyzer Analyzer
	Brands   branddev.Client
	HTML     *render.HTML
	PDF      export.PDFRenderer
}

// Server holds the HTTP handlers.
type Server struct {
	analyzer    Analyzer
	brands      branddev.Client
	html        *render.HTML
	pdf         export.PDFRenderer
	envelope    analyze.Envelope
	cacheMaxAge int
	origins     []string
	now         func() time.Time
}

// New creates a Server for cfg.
func New(cfg *config.Config, deps Deps) *Server {
	return &Server{
		analyzer:    deps.Analyzer,
		brands:      deps.Brands,
		html:        deps.HTML,
		pdf:         deps.PDF,
		envelope:    analyze.Envelope(cfg.Analysis.Envelope),
		cacheMaxAge: cfg.Analysis.CacheMaxAgeSecs,
		origins:     cfg.Server.AllowedOrigins,
		now:         time.Now,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Get("/analyze", s.handleUsage)
	r.Post("/analyze", s.handleAnalyze)

	r.Get("/", s.handleIndex)
	r.Post("/report", s.handleReport)

	r.Post("/export/pdf", s.handleExportPDF)
	r.Post("/export/xlsx", s.handleExportXLSX)

	return r
}

// ListenAndServe serves on port until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("server shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("starting server",
		zap.Int("port", port),
		zap.String("envelope", string(s.envelope)),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}

// Package server exposes the triage HTTP API: report upload and
// extraction, the filterable record list, notes, deletion, export, and a
// health probe. Every data route is owner-scoped behind bearer auth.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/magellan-group/report-triage/internal/auth"
	"github.com/magellan-group/report-triage/internal/blob"
	"github.com/magellan-group/report-triage/internal/extract"
	"github.com/magellan-group/report-triage/internal/store"
)

// maxUploadBytes caps the multipart body for report uploads.
const maxUploadBytes = 50 << 20

// Config tunes the HTTP listener.
type Config struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`

	// RateLimit bounds extraction calls per user per minute.
	RateLimit int `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// Server wires handlers to their dependencies.
type Server struct {
	cfg      Config
	verifier *auth.Verifier
	svc      *extract.Service
	records  store.Store
	blobs    blob.Store
	limiter  *userLimiter
}

func New(cfg Config, verifier *auth.Verifier, svc *extract.Service, records store.Store, blobs blob.Store) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 15 * time.Second
	}
	rate := cfg.RateLimit
	if rate <= 0 {
		rate = 6
	}
	return &Server{
		cfg:      cfg,
		verifier: verifier,
		svc:      svc,
		records:  records,
		blobs:    blobs,
		limiter:  newUserLimiter(rate),
	}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(s.verifier))

		r.Route("/reports", func(r chi.Router) {
			r.With(s.rateLimit).Post("/", s.handleUpload)
			r.Get("/", s.handleList)
			r.Get("/export", s.handleExport)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Patch("/", s.handleUpdateNotes)
				r.Delete("/", s.handleDelete)
			})
		})

		r.With(s.rateLimit).Post("/extract", s.handleExtractStored)
		r.Get("/debug/health", s.handleHealth)
	})

	return r
}

func (s *Server) allowedOrigins() []string {
	if len(s.cfg.AllowedOrigins) > 0 {
		return s.cfg.AllowedOrigins
	}
	return []string{"http://localhost:*"}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server: listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return eris.Wrap(err, "server: listen")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server: shutdown")
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server: listen")
	}
	zap.L().Info("server: stopped")
	return nil
}

// requestLogger logs each request with structured fields after it
// completes.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

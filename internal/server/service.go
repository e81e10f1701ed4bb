// Package server provides the HTTP API for the voice notes backend.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/voicenotes/internal/config"
	"github.com/thebtf/voicenotes/internal/mailer"
	"github.com/thebtf/voicenotes/internal/ocr"
)

// Service wires the two stateless endpoints to their external services.
// There is no shared mutable state across requests.
type Service struct {
	cfg       config.Config
	engine    ocr.Engine
	transport mailer.Transport
	router    *chi.Mux
	httpSrv   *http.Server
}

// New creates a Service and registers its routes.
func New(cfg config.Config, engine ocr.Engine, transport mailer.Transport) *Service {
	svc := &Service{
		cfg:       cfg,
		engine:    engine,
		transport: transport,
		router:    chi.NewRouter(),
	}
	svc.setupRoutes()
	return svc
}

func (s *Service) setupRoutes() {
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	// The dev client may be served from another origin (CRA-style setup).
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	s.router.Get("/", s.handleLiveness)
	s.router.Post("/ocr", s.handleOCR)
	s.router.Post("/send-email", s.handleSendEmail)

	// Embedded browser client.
	s.router.Get("/app", serveIndex)
	s.router.Get("/assets/*", serveAssets)
}

// Router exposes the handler for tests and for embedding.
func (s *Service) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Service) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	log.Info().Str("addr", s.cfg.Addr()).Msg("server started")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}

// requestLogger emits one structured line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

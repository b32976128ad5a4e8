package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/marco/mediaVault/internal/browse"
	"github.com/marco/mediaVault/internal/metadata"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	defaultRateLimit       = 120
)

// Config holds settings for the JSON API server
type Config struct {
	Listen             string
	RateLimitPerMinute int
	Workers            int
	ShutdownTimeout    time.Duration
	Logger             *slog.Logger
}

type backend struct {
	catalog browse.Catalog
	assets  metadata.Assets
}

// Server exposes the catalog over HTTP. The backing catalog can be swapped
// while requests are in flight.
type Server struct {
	cfg     Config
	logger  *slog.Logger
	router  chi.Router
	backend atomic.Pointer[backend]
	http    *http.Server
	addr    atomic.Value
}

// New creates a server backed by catalog.
func New(cfg Config, catalog browse.Catalog, assets metadata.Assets) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = defaultRateLimit
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	s := &Server{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "server"),
	}
	s.SetCatalog(catalog, assets)
	s.router = s.routes()
	return s
}

// SetCatalog replaces the catalog used by subsequent requests.
func (s *Server) SetCatalog(catalog browse.Catalog, assets metadata.Assets) {
	s.backend.Store(&backend{catalog: catalog, assets: assets})
}

func (s *Server) current() *backend {
	return s.backend.Load()
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(Metrics())
	r.Use(RequestLogger(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimit(s.cfg.RateLimitPerMinute, time.Minute))
		r.Get("/list", s.handleList)
		r.Get("/detail/{kind}/{id}", s.handleDetail)
		r.Get("/home", s.handleHome)
	})
	return r
}

// Run listens on the configured address and serves until ctx is done, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.http = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.addr.Store(ln.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		if err := s.shutdown(context.Background()); err != nil {
			return err
		}
		return <-errChan
	}
}

// Addr returns the address the server is listening on once serving.
func (s *Server) Addr() string {
	addr, _ := s.addr.Load().(string)
	return addr
}

func (s *Server) shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

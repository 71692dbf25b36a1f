// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package api serves a read-only HTTP view of the loaded configuration.
// Every credential is masked before it leaves the process.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ManuGH/deploycfg/internal/api/middleware"
	"github.com/ManuGH/deploycfg/internal/config"
	"github.com/ManuGH/deploycfg/internal/log"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ConfigSource yields the configuration to serve. *config.Watcher
// implements it, so a watched file is served live.
type ConfigSource interface {
	Current() config.ProjectConfig
}

// StaticSource serves a fixed configuration.
type StaticSource config.ProjectConfig

// Current returns a copy of the configuration.
func (s StaticSource) Current() config.ProjectConfig { return config.ProjectConfig(s).Clone() }

// Options configure the server.
type Options struct {
	TracingService string // empty disables tracing
	RateLimit      bool
}

// Server is the introspection HTTP server.
type Server struct {
	src     ConfigSource
	version string
	router  chi.Router
}

// New builds a server for src.
func New(src ConfigSource, version string, opts Options) *Server {
	s := &Server{src: src, version: version}
	s.router = s.routes(opts)
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes(opts Options) chi.Router {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableMetrics:   true,
		TracingService:  opts.TracingService,
		EnableLogging:   true,
		EnableRateLimit: opts.RateLimit,
	})

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/config", s.handleConfig)
		r.Get("/networks", s.handleNetworks)
		r.Get("/networks/{name}", s.handleNetwork)
		r.Get("/named-accounts", s.handleNamedAccounts)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	logger := log.WithComponent("api")
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str(log.FieldEvent, "api.listen").
			Str("addr", addr).
			Msg("introspection API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info().Str(log.FieldEvent, "api.shutdown").Msg("shutting down introspection API")
		return srv.Shutdown(shutdownCtx)
	}
}

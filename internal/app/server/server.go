package server

import (
	"context"
	"fmt"
	"francoggm/antiscam-scoring/internal/app/server/handlers"
	"francoggm/antiscam-scoring/internal/config"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	cfg      *config.Config
	router   *chi.Mux
	handlers *handlers.Handlers
	http     *http.Server
}

func NewServer(cfg *config.Config, scorer handlers.Scorer, runStore handlers.RunStore, runEventsCh chan any, logger *zap.Logger) *Server {
	srv := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		handlers: handlers.NewHandlers(cfg, scorer, runStore, runEventsCh, logger),
	}

	srv.registerRoutes()
	srv.http = &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: srv.router,
	}
	return srv
}

func (s *Server) registerRoutes() {
	s.router.Use(middleware.Recoverer)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/score", s.handlers.ScoreTransactions)
		r.Get("/status", s.handlers.GetStatus)
		r.Get("/runs-summary", s.handlers.GetRunsSummary)
		r.Post("/purge-runs", s.handlers.PurgeRuns)
	})
	s.router.Handle("/metrics", promhttp.Handler())
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

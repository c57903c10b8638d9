// Package api exposes backtest runs over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/quantkit/crossbt/internal/api/handler"
	"github.com/quantkit/crossbt/internal/metrics"
)

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	MetricsPath string // empty disables the scrape endpoint
}

// Server is the HTTP server for crossbt.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer creates the HTTP server and wires its routes.
func NewServer(cfg Config, backtests *handler.Backtest, registry *metrics.Registry, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/backtests", backtests.Create)
	mux.HandleFunc("GET /api/v1/backtests/{id}", backtests.Get)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	if cfg.MetricsPath != "" {
		mux.Handle("GET "+cfg.MetricsPath, registry.Handler())
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      metrics.HTTPMiddleware(registry)(mux),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

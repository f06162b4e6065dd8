// Package server exposes the analysis engine over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"asset-insight/internal/interfaces"
	"asset-insight/internal/logger"
	"asset-insight/internal/store"
)

type Server struct {
	cfg      *store.Config
	analyzer interfaces.Analyzer
	srv      *http.Server
}

func New(cfg *store.Config, analyzer interfaces.Analyzer) *Server {
	return &Server{
		cfg:      cfg,
		analyzer: analyzer,
	}
}

// Handler builds the full route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /analyze/{asset_type}/{symbol}", s.handleAnalyze)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	return requestIDMiddleware(corsMiddleware(loggingMiddleware(mux)))
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info(context.Background(), "HTTP server starting", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting new requests and drains in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}

// Package httpapi exposes the summarization pipeline and the exporters over
// HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nguyentantai21042004/brief-flow/internal/config"
	"github.com/nguyentantai21042004/brief-flow/internal/exporter"
	"github.com/nguyentantai21042004/brief-flow/internal/logger"
	"github.com/nguyentantai21042004/brief-flow/internal/pipeline"
)

const shutdownTimeout = 15 * time.Second

// Server serves the summarize and download routes.
type Server struct {
	cfg       config.ServerConfig
	pipeline  pipeline.Pipeline
	exporters exporter.Registry
	logger    logger.Logger
}

// New creates a Server.
func New(cfg config.ServerConfig, p pipeline.Pipeline, exporters exporter.Registry, log logger.Logger) *Server {
	return &Server{
		cfg:       cfg,
		pipeline:  p,
		exporters: exporters,
		logger:    log,
	}
}

// Handler returns the routes wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /summarize", s.handleSummarizeVideo)
	mux.HandleFunc("POST /summarize_pdf", s.handleSummarizeDocument)
	mux.HandleFunc("POST /download_pdf", s.handleDownload("pdf"))
	mux.HandleFunc("POST /download_docx", s.handleDownload("docx"))
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return s.withRequestID(s.withRecover(s.withLogging(mux)))
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "HTTP server listening on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		s.logger.Info(ctx, "Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

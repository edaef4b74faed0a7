// Package http serves the status endpoints of a running batch.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/climax-batch/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ProgressReporter exposes how far the running batch has come.
type ProgressReporter interface {
	Progress() pipeline.Progress
}

// Dependency names a readiness checker in /readyz responses.
type Dependency struct {
	Name    string
	Checker sharedobs.ReadinessChecker
}

// Dependencies is ready when every dependency is. The error of the first
// failing one is prefixed with its name.
type Dependencies []Dependency

func (d Dependencies) CheckReadiness(ctx context.Context) error {
	for _, dep := range d {
		if err := dep.Checker.CheckReadiness(ctx); err != nil {
			return fmt.Errorf("%s: %w", dep.Name, err)
		}
	}
	return nil
}

// Server exposes /healthz, /readyz, /progress and /metrics while a batch runs.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer builds the status server. /readyz succeeds only when every
// dependency does.
func NewServer(addr string, progress ProgressReporter, logger *slog.Logger, deps ...Dependency) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(Dependencies(deps)))
	mux.HandleFunc("GET /progress", func(w http.ResponseWriter, _ *http.Request) {
		sharedobs.WriteJSON(w, http.StatusOK, progress.Progress())
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// Serve listens until ctx is done and then drains connections for at most
// shutdownTimeout.
func (s *Server) Serve(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("status server listening", "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ServeHTTP lets tests drive the handlers without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.srv.Handler.ServeHTTP(w, r)
}

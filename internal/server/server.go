package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"navigator/internal/usecase"
)

// Config configures a new Server instance.
type Config struct {
	Ask             *usecase.AskUseCase
	Runtime         *usecase.RuntimeHolder
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// Server is the HTTP surface of the query pipeline.
type Server struct {
	ask             *usecase.AskUseCase
	runtime         *usecase.RuntimeHolder
	corsOrigins     []string
	shutdownTimeout time.Duration
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Ask == nil || cfg.Runtime == nil {
		return nil, errors.New("server requires an ask use case and a runtime holder")
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Server{
		ask:             cfg.Ask,
		runtime:         cfg.Runtime,
		corsOrigins:     origins,
		shutdownTimeout: timeout,
	}, nil
}

// Handler returns an http.Handler for the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/query", s.handleQuery)
	mux.HandleFunc("POST /api/reload", s.handleReload)

	return loggingMiddleware(corsMiddleware(s.corsOrigins, mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "component", "server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down", "component", "server", "timeout", s.shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

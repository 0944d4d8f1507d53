package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"connectly/internal/config"
)

const shutdownTimeout = 10 * time.Second

// NewServer wraps handler with the timeouts used in production.
func NewServer(cfg *config.Config, handler stdhttp.Handler) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Run serves until ctx is cancelled or the process receives SIGINT or
// SIGTERM, then drains in-flight requests. TLS is used when a certificate
// and key are configured.
func Run(ctx context.Context, cfg *config.Config, server *stdhttp.Server, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		var err error
		if cfg.TLSEnabled() {
			logger.Info("starting HTTPS server", "addr", server.Addr)
			err = server.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			logger.Info("starting HTTP server", "addr", server.Addr)
			err = server.ListenAndServe()
		}
		if !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

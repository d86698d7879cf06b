package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"timeclock/internal/logger"
)

// serve runs srv on ln until ctx is done, then stops accepting and waits up to
// grace for in-flight requests. Hooks added with srv.RegisterOnShutdown run
// when draining starts.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("server stopping", "grace", grace.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}

package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"fxswap/internal/config"

	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Start serves handler until ctx is canceled, then shuts the server down gracefully.
func Start(ctx context.Context, cfg config.HTTPServer, handler http.Handler) error {
	listener, listenErr := net.Listen("tcp", ":"+cfg.Port)
	if listenErr != nil {
		return listenErr
	}
	return Serve(ctx, listener, handler)
}

// Serve is Start on an existing listener.
func Serve(ctx context.Context, listener net.Listener, handler http.Handler) error {
	logrus.Infof("✅ HTTP server listening on %s", listener.Addr())

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case serveErr := <-errCh:
		return serveErr
	}
}

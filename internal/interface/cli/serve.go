package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YoshitsuguKoike/notesvc/internal/app"
)

// shutdownTimeout bounds how long in-flight requests may take to drain
const shutdownTimeout = 15 * time.Second

// setupSignalHandler sets up graceful shutdown on SIGINT/SIGTERM
func setupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent,
		os.Interrupt,    // Ctrl+C (SIGINT)
		syscall.SIGTERM, // container stop
	)
}

// runServer listens on srv.Addr and serves until ctx is cancelled
func runServer(ctx context.Context, srv *http.Server, logger app.Logger) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	return serveListener(ctx, srv, ln, logger)
}

// serveListener serves on ln, then drains in-flight requests once ctx is done
func serveListener(ctx context.Context, srv *http.Server, ln net.Listener, logger app.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Warn("listening on %s", ln.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Warn("shutting down %s", ln.Addr())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const ShutdownTimeout = 5 * time.Second

// Run serves h on addr until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, addr string, h http.Handler, name string) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		slog.Info("listening", "server", name, "addr", addr)
		errc <- srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		ctx2, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx2)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

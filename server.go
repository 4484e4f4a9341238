package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ahmad-alkadri/bucket-site/internal/config"
	"github.com/ahmad-alkadri/bucket-site/internal/log"
)

const shutdownTimeout = 10 * time.Second

// NewRouter routes every path and method to the blob handler
func NewRouter(logger zerolog.Logger, handler *HTTPHandler) http.Handler {
	serveBlob := HandlerFunc(handler.ServeBlob)

	r := chi.NewRouter()
	r.Use(log.Middleware(logger))
	r.Use(Recoverer)
	r.Handle("/", serveBlob)
	r.Handle("/*", serveBlob)
	// chi rejects methods it does not know about; those are object requests too
	r.MethodNotAllowed(serveBlob.ServeHTTP)
	return r
}

// runServer serves until ctx is done, then shuts down gracefully
func runServer(ctx context.Context, cfg *config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          stdlog.New(&log.StdLogWrapper{Logger: log.Logger()}, "", 0),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx).Str("addr", srv.Addr).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info(ctx).Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

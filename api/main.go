package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"desigo/store"
)

type Config struct {
	Addr string `arg:"-a" default:":8080" help:"Address the HTTP server listens on"`
}

func (Config) Description() string {
	return `Serve the upload and report endpoints over HTTP.
The following environment variable needs to be set:
    - "REPORTING_CONN_STRING"`
}

func (config *Config) Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.New(ctx, os.Getenv(store.CONN_ENV_VAR))
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	defer db.Close()

	server := &http.Server{
		Addr:              config.Addr,
		Handler:           NewServer(db),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		slog.Info("Listening on " + config.Addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		slog.Error(err.Error())
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error(err.Error())
		return err
	}
	return nil
}

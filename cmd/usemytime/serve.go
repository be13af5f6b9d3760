package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	router "usemytime/internal/http"
	"usemytime/internal/http/handlers"
	"usemytime/internal/http/middleware"
	"usemytime/internal/workerpool"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  serve,
}

func serve(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	pool := workerpool.New(a.cfg.Pool.Size, a.svc, a.log)
	pool.Start(a.cfg.Pool.Workers)

	handler := handlers.New(a.svc, pool,
		handlers.WithLogger(a.log),
		handlers.WithMaxUpload(a.cfg.HTTP.MaxUploadBytes),
		handlers.WithPinger(a.store),
	)
	mws := middleware.Chain(
		middleware.Recover(a.log),
		middleware.RequestID(),
		middleware.AccessLog(a.log),
		middleware.Identity(),
	)

	server := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           router.New(handler, mws),
		ReadHeaderTimeout: a.cfg.HTTP.ReadHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.log.Info("listening", "addr", a.cfg.HTTP.Addr, "storage", a.cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serverErr:
		a.log.Error("server failed", "err", err)
		return err
	case <-stop:
		a.log.Info("shut down signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		a.log.Error("http shutdown failed", "err", err)
		return err
	}
	if err := pool.Shutdown(ctx); err != nil {
		a.log.Error("pool shutdown failed", "err", err)
		return err
	}

	a.log.Info("shut down gracefully")
	return nil
}

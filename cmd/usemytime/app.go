package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"usemytime/internal/blob"
	"usemytime/internal/config"
	"usemytime/internal/service"
	"usemytime/internal/store"
	"usemytime/internal/store/memory"
	"usemytime/internal/store/sqlite"
)

// app holds the dependencies shared by every command.
type app struct {
	cfg   config.Config
	log   *slog.Logger
	store store.Store
	svc   *service.Service
}

func newApp(ctx context.Context, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg.Log, stderr)

	st, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	blobs, err := blob.New(cfg.Storage.AttachmentsDir)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("attachments dir: %w", err)
	}

	svc, err := service.New(st, blobs, service.WithLogger(log))
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &app{cfg: cfg, log: log, store: st, svc: svc}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func openStore(ctx context.Context, cfg config.Storage) (store.Store, error) {
	switch cfg.Driver {
	case "memory":
		return memory.New(), nil
	case "sqlite":
		st, err := sqlite.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %q: %w", cfg.DSN, err)
		}
		return st, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

func newLogger(cfg config.Log, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

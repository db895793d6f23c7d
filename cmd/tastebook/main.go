package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rgood/tastebook/internal/api"
	"github.com/rgood/tastebook/internal/config"
	"github.com/rgood/tastebook/internal/env"
	"github.com/rgood/tastebook/internal/http"
	"github.com/rgood/tastebook/internal/log"
	"github.com/rgood/tastebook/internal/setup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	const setupTime = 30 * time.Second
	setupCtx, cancel := context.WithTimeout(ctx, setupTime)
	defer cancel()

	logger := log.New(nil)

	conf, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	httpClient := http.New(http.DefaultConfig())

	db, err := setup.Database(setupCtx, conf)
	if err != nil {
		logger.Error("failed to setup database", slog.Any("error", err))
		os.Exit(1)
	}

	fs, err := setup.FileStore(setupCtx, conf)
	if err != nil {
		logger.Error("failed to setup file store", slog.Any("error", err))
		os.Exit(1)
	}

	verifier, err := setup.Verifier(conf, httpClient)
	if err != nil {
		logger.Error("failed to setup verifier", slog.Any("error", err))
		os.Exit(1)
	}

	env := &env.Env{
		Logger:    logger,
		Database:  db,
		FileStore: fs,
		Verifier:  verifier,
		Config:    conf,
	}

	logger.DebugContext(ctx, "setting up admin")
	if err := setup.Bootstrap(setupCtx, env); err != nil {
		logger.Error("failed to bootstrap admin", slog.Any("error", err))
		os.Exit(1)
	}

	if err := api.Start(ctx, env); err != nil {
		logger.Error("api failed", slog.Any("error", err))
		os.Exit(1)
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"meditrack/internal/app"
	"meditrack/internal/config"
	"meditrack/internal/platform/logger"
)

func main() {
	log := logger.NewFromEnv()
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("startup error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		log.Error("server error", map[string]any{"err": err.Error()})
		a.Close()
		os.Exit(1)
	}
}

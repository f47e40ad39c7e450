package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/clausewise/internal/bootstrap"
	"github.com/dgallion1/clausewise/internal/config"
)

func main() {
	cfg, err := config.Load(os.Getenv("CLAUSEWISE_CONFIG"))
	if err != nil {
		slog.Error("load configuration", "error", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	app, err := bootstrap.New(cfg, log)
	if err != nil {
		log.Error("initialize", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Serve(ctx); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"omerta/internal/config"
	"omerta/internal/db"
	"omerta/internal/feed"
	"omerta/internal/game"
	"omerta/internal/sim"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWorkerFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	var publisher *feed.Publisher
	if cfg.NatsURL != "" {
		publisher, err = feed.Connect(cfg.NatsURL, logger)
		if err != nil {
			logger.Error("feed connect failed", "err", err)
			os.Exit(1)
		}
		defer publisher.Close()
	}

	svc := game.NewService(pool, logger, publisher, sim.DefaultTuning())

	if cfg.RunOnce {
		ws, err := svc.RunWorldTick(ctx, cfg.TickEvery)
		if err != nil {
			logger.Error("world tick failed", "err", err)
			os.Exit(1)
		}
		logger.Info("worker run-once completed", "world_day", ws.WorldDay, "tick", ws.TickInDay)
		return
	}

	ticker := time.NewTicker(cfg.TickEvery)
	defer ticker.Stop()

	logger.Info("worker started", "tick_every", cfg.TickEvery.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker shutdown")
			return
		case <-ticker.C:
			ws, err := svc.RunWorldTick(ctx, cfg.TickEvery)
			if err != nil {
				logger.Error("world tick failed", "err", err)
				continue
			}
			logger.Info("world tick complete",
				"world_day", ws.WorldDay, "tick", ws.TickInDay,
				"phase", ws.TimeOfDay, "weather", ws.Weather)
		}
	}
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/proftrain/patientsim/internal/api"
	"github.com/proftrain/patientsim/internal/config"
	"github.com/proftrain/patientsim/internal/events"
	"github.com/proftrain/patientsim/internal/scenario"
	"github.com/proftrain/patientsim/internal/snapshot"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("patientsim starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Scenario storage (optional — without it only inline scenarios work)
	var scenarios *scenario.Store
	if cfg.DatabaseURL != "" {
		var err error
		scenarios, err = scenario.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer scenarios.Close()
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set — custom scenarios disabled")
	}

	// Snapshot storage (optional — without it sessions are memory-only)
	var snapshots *snapshot.Store
	if cfg.RedisURL != "" {
		var err error
		snapshots, err = snapshot.New(ctx, cfg.RedisURL, slog.Default())
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer snapshots.Close()
		slog.Info("redis connected")
	} else {
		slog.Warn("REDIS_URL not set — sessions will not survive restarts")
	}

	// Event publisher (optional — events are best-effort anyway)
	var pub *events.Publisher
	if cfg.NatsURL != "" {
		var err error
		pub, err = events.Connect(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer pub.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set — session events disabled")
	}

	srv := api.NewServer(cfg.Port, scenarios, snapshots, pub, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("patientsim ready", "port", cfg.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("patientsim stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

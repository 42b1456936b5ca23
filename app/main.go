package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"dohaevents/internal/config"
	"dohaevents/internal/orchestrator"
	"dohaevents/internal/repositories"
	"dohaevents/internal/scraper"
	"dohaevents/internal/utils/logger/handlers/slogpretty"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var Version = "0.1"

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info(
		"starting doha events updater",
		slog.String("env", cfg.Env),
		slog.String("version", Version),
		slog.String("eventsFile", cfg.EventsFile),
	)

	storeService := repositories.New(log, cfg)
	scraperService := scraper.New(log, cfg)
	orchestratorService := orchestrator.New(log, cfg, storeService, scraperService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Schedule != "" {
		runScheduled(ctx, log, cfg.Schedule, orchestratorService)
		return
	}

	if err := orchestratorService.Run(ctx); err != nil {
		log.Error("events update failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runScheduled keeps the process alive and reruns the pipeline on the
// configured cron schedule, until interrupted.
func runScheduled(ctx context.Context, log *slog.Logger, schedule string, o *orchestrator.Orchestrator) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		if err := o.Run(ctx); err != nil {
			log.Error("scheduled events update failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		log.Error("invalid schedule", slog.String("schedule", schedule), slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("scheduler started", slog.String("schedule", schedule))
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info("scheduler stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog(slog.LevelDebug)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = setupPrettySlog(slog.LevelInfo)
	default: // If env config is invalid, set prod settings by default due to security
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog(level slog.Level) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

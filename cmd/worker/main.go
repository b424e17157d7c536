package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/activities"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/config"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/repository"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/workflows"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	// Connect to database
	logger.Info("connecting to database")
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	repo := repository.NewRepository(pool)

	// Connect to Temporal
	logger.Info("connecting to Temporal", "host", cfg.TemporalHost)
	c, err := client.Dial(client.Options{
		HostPort: cfg.TemporalHost,
	})
	if err != nil {
		logger.Error("failed to connect to Temporal", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	w := worker.New(c, cfg.TemporalQueue, worker.Options{})

	w.RegisterWorkflowWithOptions(workflows.AnalyticsWorkflow, workflow.RegisterOptions{Name: models.AnalyticsWorkflowName})

	acts := activities.NewActivities(repo)
	w.RegisterActivityWithOptions(acts.RecordAnalyticsEvent, activity.RegisterOptions{Name: activities.RecordAnalyticsEventName})
	w.RegisterActivityWithOptions(acts.RefreshHotelStats, activity.RegisterOptions{Name: activities.RefreshHotelStatsName})

	logger.Info("starting Temporal worker", "task_queue", cfg.TemporalQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("worker failed", "error", err)
		os.Exit(1)
	}
}

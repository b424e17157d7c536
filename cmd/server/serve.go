package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.temporal.io/sdk/client"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/config"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/database"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/handlers"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/lock"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/memstore"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/notify"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/router"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/service"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/websocket"
)

const shutdownTimeout = 30 * time.Second

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithRatingBounds(cfg.Rating),
	}

	// Store
	var store service.Store
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		store = memstore.New()
	default:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Info("connected to database")
		store = database.NewRepository(pool)

		if cfg.ReadDatabaseURL != "" {
			reader, err := database.OpenReader(ctx, cfg.ReadDatabaseURL)
			if err != nil {
				return err
			}
			defer reader.Close()
			logger.Info("filtering against read replica")
			opts = append(opts, service.WithReadStore(reader))
		}
	}

	// Room lock
	if cfg.LockBackend == config.LockRedis {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		locker, err := lock.NewRedis(rdb, lock.WithTTL(cfg.LockTTL), lock.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("failed to create redis lock: %w", err)
		}
		logger.Info("using redis room lock", "addr", cfg.RedisAddr, "ttl", cfg.LockTTL)
		opts = append(opts, service.WithLocker(locker))
	}

	// Publishers
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)
	publishers := notify.Multi{hub}

	if cfg.AnalyticsEnabled {
		temporalClient, err := client.Dial(client.Options{HostPort: cfg.TemporalHost})
		if err != nil {
			return fmt.Errorf("failed to create Temporal client: %w", err)
		}
		defer temporalClient.Close()
		logger.Info("connected to Temporal", "host", cfg.TemporalHost, "task_queue", cfg.TemporalQueue)
		publishers = append(publishers, notify.NewTemporal(temporalClient, cfg.TemporalQueue))
	}
	opts = append(opts, service.WithPublisher(publishers))

	reservations := service.NewReservationService(store, opts...)
	h := handlers.NewHandler(reservations, hub, logger)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.SetupRouter(h),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server starting", "addr", srv.Addr, "store", cfg.Store, "lock", cfg.LockBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-retry"

	"github.com/davidmorenoc/desayunos-backend/api/routes"
	"github.com/davidmorenoc/desayunos-backend/internal/groups"
	"github.com/davidmorenoc/desayunos-backend/internal/menu"
	"github.com/davidmorenoc/desayunos-backend/internal/pricing"
	"github.com/davidmorenoc/desayunos-backend/internal/reconcile"
	"github.com/davidmorenoc/desayunos-backend/pkg/config"
	"github.com/davidmorenoc/desayunos-backend/pkg/logger"
	"github.com/davidmorenoc/desayunos-backend/pkg/metrics"
	"github.com/davidmorenoc/desayunos-backend/pkg/redis"
	"github.com/davidmorenoc/desayunos-backend/pkg/scheduler"
	"github.com/davidmorenoc/desayunos-backend/pkg/sharedstore"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := connectRedis(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	store, err := sharedstore.NewRedisStore(redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create shared store", err)
		os.Exit(1)
	}

	engine, err := pricing.NewEngine(menu.Default(), metrics.NewPricingMetrics(prometheus.DefaultRegisterer))
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing engine", err)
		os.Exit(1)
	}

	sched := scheduler.NewKeyed(scheduler.RealClock())
	groupService, err := groups.NewService(groups.ServiceParams{
		Store:     store,
		Engine:    engine,
		Scheduler: sched,
		Logger:    logg,
		Config:    cfg.Groups,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create group service", err)
		os.Exit(1)
	}

	syncManager, err := reconcile.NewManager(reconcile.ManagerParams{
		Store:     store,
		Writer:    groupService,
		Scheduler: sched,
		Window:    cfg.Sync.SuppressionWindow,
		Metrics:   metrics.NewSyncMetrics(prometheus.DefaultRegisterer),
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sync manager", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, store, groupService, syncManager, reconcile.NewRegistry()),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		timeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(timeout); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server stopped")
}

func connectRedis(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*redis.Client, error) {
	var client *redis.Client
	backoff := retry.WithMaxRetries(5, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		c, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Warn(ctx, "redis not ready, retrying")
			return retry.RetryableError(err)
		}
		client = c
		return nil
	})
	return client, err
}

// Package main starts the injury-risk dashboard service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pitchside/injury-dashboard/internal/config"
	"github.com/pitchside/injury-dashboard/internal/handlers"
	"github.com/pitchside/injury-dashboard/internal/logic"
	"github.com/pitchside/injury-dashboard/internal/predictor"
	"github.com/pitchside/injury-dashboard/internal/session"
	"github.com/pitchside/injury-dashboard/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Sugar().Fatalw("Dashboard exited", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	sugar := logger.Sugar()
	checks := map[string]handlers.HealthCheck{}

	// Sessions
	var sessions session.Store
	switch cfg.SessionBackend {
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
		sugar.Infow("Using Redis session store")
	default:
		sessions = session.NewMemoryStore(cfg.SessionCacheSize, cfg.SessionTTL)
		sugar.Infow("Using in-memory session store", "size", cfg.SessionCacheSize)
	}

	client := predictor.New(predictor.Config{
		BaseURL: cfg.PredictorURL,
		Timeout: cfg.PredictorTimeout,
		Logger:  logger,
	})

	// History
	var history logic.HistoryRecorder
	var pool *worker.Pool
	queueDepth := func() int { return 0 }
	if cfg.HistoryEnabled() {
		pg, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pg.Close()

		store := worker.NewPGHistoryStore(pg)
		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure history schema: %w", err)
		}
		checks["postgres"] = store.Ping

		pool = worker.NewPool(worker.PoolConfig{
			WorkerCount:   cfg.HistoryWorkers,
			QueueSize:     cfg.HistoryQueueSize,
			BatchSize:     cfg.HistoryBatchSize,
			FlushInterval: cfg.HistoryFlushInterval,
			Store:         store,
			Logger:        logger,
		})
		pool.Start(ctx)
		history = pool
		queueDepth = pool.QueueDepth
		sugar.Infow("Prediction history enabled", "workers", cfg.HistoryWorkers)
	}

	registry, err := logic.NewRegistry(cfg.SessionCacheSize, func(sessionID string) *logic.Dashboard {
		return logic.NewDashboard(logic.DashboardConfig{
			SessionID:      sessionID,
			Predictor:      client,
			Session:        session.Binding{Store: sessions, ID: sessionID},
			History:        history,
			PredictTimeout: cfg.PredictorTimeout,
			TickInterval:   cfg.GaugeTickInterval,
			GaugeRadius:    cfg.GaugeRadius,
			Logger:         logger,
		})
	})
	if err != nil {
		return fmt.Errorf("create dashboard registry: %w", err)
	}

	h := handlers.New(handlers.Config{
		Auth:         client,
		Sessions:     sessions,
		Dashboards:   registry,
		Checks:       checks,
		QueueDepth:   queueDepth,
		SecureCookie: !cfg.IsDevelopment(),
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h.Routes(cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sugar.Infow("Dashboard listening", "addr", srv.Addr, "predictor", cfg.PredictorURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sugar.Infow("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		registry.Close()
		if pool != nil {
			pool.Stop()
		}
		return err
	})

	return g.Wait()
}

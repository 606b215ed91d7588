package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/pdutra/ec2-chatops/config"
	"github.com/pdutra/ec2-chatops/internal/health"
	ec2infra "github.com/pdutra/ec2-chatops/internal/infrastructure/ec2"
	"github.com/pdutra/ec2-chatops/internal/infrastructure/postgres"
	ctxlog "github.com/pdutra/ec2-chatops/internal/log"
	"github.com/pdutra/ec2-chatops/internal/metrics"
	"github.com/pdutra/ec2-chatops/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	logger.Info("db connected")

	ec2Client, err := ec2infra.NewClient(ctx)
	if err != nil {
		stop()
		log.Fatalf("ec2: %v", err)
	}

	metrics.Register()
	checker := health.NewChecker(map[string]health.Pinger{
		"postgres": pool,
	}, logger, prometheus.DefaultRegisterer)

	scheduleRepo := postgres.NewScheduleRepository(pool)

	sweeper := scheduler.NewSweeper(scheduleRepo, ec2Client, cfg.Location(), logger, cfg.SweepInterval())
	go sweeper.Run(ctx)

	// Retention runs on a cron schedule, off the hot path.
	retention := cron.New()
	_, err = retention.AddFunc(cfg.PurgeSchedule, func() {
		before := time.Now().AddDate(0, 0, -cfg.PurgeAfterDays)
		n, err := scheduleRepo.PurgeSettled(ctx, before)
		if err != nil {
			logger.Error("purge settled schedules", "error", err)
			return
		}
		if n > 0 {
			logger.Info("purged settled schedules", "count", n, "before", before)
		}
	})
	if err != nil {
		stop()
		log.Fatalf("purge schedule: %v", err)
	}
	retention.Start()

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker.ReadinessHandler())
	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	<-retention.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	logger.Info("sweeper shut down")
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}

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

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdutra/ec2-chatops/config"
	"github.com/pdutra/ec2-chatops/internal/authz"
	"github.com/pdutra/ec2-chatops/internal/directory"
	"github.com/pdutra/ec2-chatops/internal/email"
	"github.com/pdutra/ec2-chatops/internal/health"
	ec2infra "github.com/pdutra/ec2-chatops/internal/infrastructure/ec2"
	"github.com/pdutra/ec2-chatops/internal/infrastructure/postgres"
	ctxlog "github.com/pdutra/ec2-chatops/internal/log"
	"github.com/pdutra/ec2-chatops/internal/metrics"
	httptransport "github.com/pdutra/ec2-chatops/internal/transport/http"
	"github.com/pdutra/ec2-chatops/internal/transport/http/handler"
	"github.com/pdutra/ec2-chatops/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	ec2Client, err := ec2infra.NewClient(ctx)
	if err != nil {
		stop()
		log.Fatalf("ec2: %v", err)
	}

	mentions, err := cfg.Mentions()
	if err != nil {
		stop()
		log.Fatalf("config: %v", err)
	}

	scheduleRepo := postgres.NewScheduleRepository(pool)
	dir := directory.New(ec2Client, logger)
	policy := authz.NewPolicy(cfg.AdminEmails, cfg.UnrestrictedNames)
	mailSender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	approvals := usecase.NewApprovalNotifier(mentions, mailSender, cfg.ApprovalEmails, logger)
	commands := usecase.NewCommandUsecase(scheduleRepo, ec2Client, dir, policy, approvals, cfg.Location(), logger)
	chatHandler := handler.NewChatHandler(commands, logger)

	metrics.Register()
	checker := health.NewChecker(map[string]health.Pinger{
		"postgres": pool,
		"ec2": health.PingerFunc(func(ctx context.Context) error {
			_, err := ec2Client.DescribeAll(ctx)
			return err
		}),
	}, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, chatHandler, []byte(cfg.WebhookJWTSecret)),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker.ReadinessHandler())

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
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

package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/helioref/referral-server/internal/config"
	"github.com/helioref/referral-server/internal/database"
	"github.com/helioref/referral-server/internal/handler"
	"github.com/helioref/referral-server/internal/logger"
	"github.com/helioref/referral-server/internal/metrics"
	"github.com/helioref/referral-server/internal/middleware"
	"github.com/helioref/referral-server/internal/migrations"
	"github.com/helioref/referral-server/internal/queue"
	"github.com/helioref/referral-server/internal/repository"
	"github.com/helioref/referral-server/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the env

	cfg := config.Load()

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zl.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	if err := migrations.Run(db, zl); err != nil {
		zl.Fatal("run migrations", zap.Error(err))
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		zl.Warn("redis unavailable, rate limiting disabled")
	}
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	m := metrics.New()

	partners := repository.NewPartnerRepo(db)
	tokens := repository.NewTokenRepo(db)
	leads := repository.NewLeadRepo(db)
	commissions := repository.NewCommissionRepo(db)
	payments := repository.NewPaymentRepo(db)
	messages := repository.NewMessageRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(requestLogger(zl))

	router.RegisterBase(e, handler.NewHealthHandler(db), m)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, cfg.AdminList(), partners, tokens, zl), cfg.JWTSecret)
	router.RegisterPartner(e, router.PartnerHandlers{
		Leads:       handler.NewPartnerLeadHandler(leads, m, zl),
		Dashboard:   handler.NewPartnerDashboardHandler(partners, leads, commissions, messages),
		Commissions: handler.NewPartnerCommissionHandler(db, commissions, payments, m, zl),
		Messages:    handler.NewPartnerMessageHandler(messages, partners),
	}, cfg.JWTSecret, rateLimit)
	router.RegisterAdmin(e, router.AdminHandlers{
		Leads:    handler.NewAdminLeadHandler(db, leads, commissions, m, zl),
		Payments: handler.NewAdminPaymentHandler(db, partners, commissions, payments, m, zl),
		Users:    handler.NewAdminUserHandler(db, partners, leads, commissions, payments, zl),
		Alerts:   handler.NewAdminAlertHandler(partners, leads, commissions, payments),
		Messages: handler.NewAdminMessageHandler(messages, partners, zl),
	}, cfg.JWTSecret)

	// The consumer reconnects forever on its own; run it for the life of
	// the process.
	go func() {
		if err := queue.StartRewardConsumer(cfg.AMQPURL); err != nil {
			zl.Error("reward consumer stopped", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.Port
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			zl.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
}

// requestLogger logs each request with zap at info level.
func requestLogger(zl *zap.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			zl.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}

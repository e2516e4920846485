package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/sitebeam/construction-system/docs"
	"github.com/sitebeam/construction-system/internal/api"
	"github.com/sitebeam/construction-system/internal/core/service"
	"github.com/sitebeam/construction-system/internal/infrastructure/blob"
	mongodb "github.com/sitebeam/construction-system/internal/infrastructure/db/mongo"
	redisdb "github.com/sitebeam/construction-system/internal/infrastructure/db/redis"
	"github.com/sitebeam/construction-system/internal/infrastructure/notify"
	"github.com/sitebeam/construction-system/internal/infrastructure/queue"
	"github.com/sitebeam/construction-system/internal/pkg/config"
	"github.com/sitebeam/construction-system/pkg/logger"
)

const tokenTTL = 24 * time.Hour

// @title        Construction System API
// @version      1.0
// @description  Multi-tenant construction project management API: sites, payments, expenses, receipts and activity feed.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	blobs, err := blob.NewLocalStore(cfg.BlobDir)
	if err != nil {
		log.Fatal().Err(err).Msg("blob store init failed")
	}

	notifier := notify.NewSMTPNotifier(cfg.SMTP.Addr, cfg.SMTP.From, log)
	throttle := redisdb.NewReminderThrottle(rdb, cfg.SMTP.ReminderTTL)

	// --- Repositories ---
	principalRepo := mongodb.NewPrincipalRepository(db)
	siteRepo := mongodb.NewSiteRepository(db)
	paymentRepo := mongodb.NewPaymentRepository(db)
	expenseRepo := mongodb.NewExpenseRepository(db)
	activityRepo := mongodb.NewActivityRepository(db)

	for name, idx := range map[string]interface {
		EnsureIndexes(context.Context) error
	}{
		"principals": principalRepo,
		"sites":      siteRepo,
		"payments":   paymentRepo,
		"expenses":   expenseRepo,
		"activity":   activityRepo,
	} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Services ---
	activityService := service.NewActivityService(activityRepo, log)

	dispatcher := queue.NewDispatcher(cfg.FeedWorkers, activityService, log)
	dispatcher.Start(ctx)

	authService := service.NewAuthService(principalRepo, siteRepo, cfg.JWTSecret, tokenTTL)
	siteService := service.NewSiteService(siteRepo, dispatcher, log)
	paymentService := service.NewPaymentService(
		paymentRepo, siteRepo, principalRepo,
		notifier, throttle, dispatcher,
		cfg.RederiveOverride, log,
	)
	expenseService := service.NewExpenseService(expenseRepo, siteRepo, blobs, dispatcher, log)
	receiptService := service.NewReceiptService(paymentRepo, siteRepo, log)

	// --- HTTP server ---
	e := api.NewRouter(api.RouterConfig{
		JWTSecret:  cfg.JWTSecret,
		Logger:     log,
		DB:         db,
		RDB:        rdb,
		Principals: principalRepo,
		Auth:       authService,
		Sites:      siteService,
		Payments:   paymentService,
		Expenses:   expenseService,
		Activity:   activityService,
		Receipts:   receiptService,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

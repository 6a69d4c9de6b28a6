package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/config"
	"github.com/rogerio-castellano/product-catalog/internal/db"
	"github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	rl "github.com/rogerio-castellano/product-catalog/internal/http/rate_limiter"
	"github.com/rogerio-castellano/product-catalog/internal/http/router"
	"github.com/rogerio-castellano/product-catalog/internal/importer"
	"github.com/rogerio-castellano/product-catalog/internal/logger"
	"github.com/rogerio-castellano/product-catalog/internal/redissvc"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"github.com/rogerio-castellano/product-catalog/internal/seed"
)

// @title Product Catalog
// @version 1.0
// @description Catalog pages, table fragments and feed import endpoints.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.New("info", "text").WithError(err).Fatal("❌ Invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if cfg.DatabaseURL == "" {
		log.Fatal("❌ database.url is not set (DATABASE_URL)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("❌ Could not connect to database")
	}
	defer database.Close()

	if cfg.MigrateOnStart {
		if err := db.Migrate(database); err != nil {
			log.WithError(err).Fatal("❌ Could not apply migrations")
		}
		log.Info("✅ Database schema is up to date")
	}

	var runLog importer.RunLog = importer.NewInMemoryRunLog()
	var locker importer.Locker
	if cfg.RedisAddr != "" {
		redisService, err := redissvc.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			log.WithError(err).Fatal("❌ Could not connect to Redis")
		}
		defer redisService.Close()

		runLog = importer.NewRedisRunLog(redisService.Rdb())
		ttl := importer.LockTTL(cfg.Import.Timeout, cfg.Import.Limit, repo.QueryTimeout)
		locker = importer.NewRedisLocker(redisService.Rdb(), ttl)
		log.WithField("addr", cfg.RedisAddr).Info("✅ Redis connected")
	}

	products := repo.NewPostgresProductRepository(database)
	stats := repo.NewPostgresStatsRepository(database)

	seed.IfEmpty(ctx, products, log)

	deps := handlers.Deps{
		Products: products,
		Stats:    stats,
		DB:       database,
		Log:      log,
	}

	if cfg.Import.Enabled {
		job := importer.NewJob(products, importer.NewFeedClient(cfg.Import.FeedURL, cfg.Import.Timeout), log, importer.Options{
			Limit:              cfg.Import.Limit,
			Interval:           cfg.Import.Interval,
			ProductURLTemplate: cfg.Import.ProductURLTemplate,
			RunLog:             runLog,
			Locker:             locker,
		})
		deps.Importer = job
		go job.Start(ctx)
	} else {
		log.Info("Import job disabled")
	}

	limiter := rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	if limiter.Enabled() {
		go limiter.StartVisitorCleanupLoop(ctx, time.Minute)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.NewRouter(handlers.NewServer(deps), limiter, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("✅ Server running on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("❌ Server failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}

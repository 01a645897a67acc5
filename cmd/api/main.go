package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/mediplus/internal/auth"
	"github.com/BruksfildServices01/mediplus/internal/config"
	dbpkg "github.com/BruksfildServices01/mediplus/internal/db"
	domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"
	"github.com/BruksfildServices01/mediplus/internal/infra/blob"
	"github.com/BruksfildServices01/mediplus/internal/infra/cache"
	"github.com/BruksfildServices01/mediplus/internal/logger"
	"github.com/BruksfildServices01/mediplus/internal/metrics"
	"github.com/BruksfildServices01/mediplus/internal/notify"
	"github.com/BruksfildServices01/mediplus/internal/routes"
	"github.com/BruksfildServices01/mediplus/internal/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	if err := run(cfg, logg); err != nil {
		logg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// OBSERVABILITY
	// ======================================================
	tp, err := tracer.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector("mediplus", reg)

	// ======================================================
	// STORAGE
	// ======================================================
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return err
	}
	if err := dbpkg.SeedAdmin(ctx, db, cfg.Admin, logg); err != nil {
		return err
	}

	store, err := blob.New(cfg.Storage)
	if err != nil {
		return err
	}

	var statsCache domain.StatsCache = domain.NopStatsCache{}
	if cfg.Redis.Enabled() {
		rdb := cache.NewRedisClient(cfg.Redis)
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			logg.Warn("redis unreachable, stats cache will miss", zap.Error(err))
		}
		statsCache = cache.NewStatsCache(rdb, cfg.Redis.StatsTTL, logg)
	}

	// ======================================================
	// NOTIFICATIONS
	// ======================================================
	renderer, err := notify.NewRenderer()
	if err != nil {
		return err
	}

	var sink notify.Sink
	if cfg.Mail.Enabled() {
		sink = notify.NewSMTPSink(cfg.Mail, renderer)
	} else {
		logg.Info("EMAIL_HOST not set, notifications will only be logged")
		sink = notify.NewLogSink(logg, renderer)
	}
	dispatcher := notify.NewDispatcher(sink, cfg.Notify, logg, collector)

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = cfg.Storage.MaxUploadBytes

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      logg,
		Metrics:  collector,
		Store:    store,
		Notifier: dispatcher,
		Cache:    statsCache,
		Tokens:   auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("server running", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	logg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("http shutdown", zap.Error(err))
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		logg.Warn("notification queue not fully drained", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logg.Warn("tracer shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	return nil
}

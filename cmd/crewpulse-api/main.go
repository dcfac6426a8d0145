package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/crewpulse/crewpulse-api/api/swagger"
	"github.com/crewpulse/crewpulse-api/internal/dto"
	"github.com/crewpulse/crewpulse-api/internal/handler"
	internalmiddleware "github.com/crewpulse/crewpulse-api/internal/middleware"
	"github.com/crewpulse/crewpulse-api/internal/repository"
	"github.com/crewpulse/crewpulse-api/internal/service"
	"github.com/crewpulse/crewpulse-api/pkg/cache"
	"github.com/crewpulse/crewpulse-api/pkg/config"
	"github.com/crewpulse/crewpulse-api/pkg/database"
	"github.com/crewpulse/crewpulse-api/pkg/jobs"
	"github.com/crewpulse/crewpulse-api/pkg/logger"
	corsmiddleware "github.com/crewpulse/crewpulse-api/pkg/middleware/cors"
	reqidmiddleware "github.com/crewpulse/crewpulse-api/pkg/middleware/requestid"
	"github.com/crewpulse/crewpulse-api/pkg/storage"
)

// @title CrewPulse API
// @version 1.0.0
// @description Worker performance and reliability scoring for staffing agencies
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	metrics := service.NewMetricsService()
	checks := map[string]handler.Pinger{"postgres": db.PingContext}

	var cacheRepo service.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
	} else if redisClient != nil {
		repo := repository.NewCacheRepository(redisClient)
		defer repo.Close() //nolint:errcheck
		cacheRepo = repo
		checks["redis"] = repo.Ping
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Scoring.ProfileTTL, logr)

	workerRepo := repository.NewWorkerRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	reportRepo := repository.NewReportRepository(db)

	validate := dto.NewValidator()
	recalc := service.NewRecalculator(workerRepo, assignmentRepo, ratingRepo, cacheSvc, metrics, logr,
		service.RecalculatorConfig{IncidentWindow: cfg.Scoring.IncidentWindow})

	workerSvc := service.NewWorkerService(workerRepo, recalc, cacheSvc, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, workerRepo, ratingRepo, recalc, validate, logr)
	ratingSvc := service.NewRatingService(ratingRepo, assignmentRepo, recalc, validate, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, cacheSvc, metrics, logr,
		service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL})

	handlers := handler.Handlers{
		Workers:     handler.NewWorkerHandler(workerSvc),
		Assignments: handler.NewAssignmentHandler(assignmentSvc, ratingSvc),
		Dashboard:   handler.NewDashboardHandler(dashboardSvc),
		Metrics:     handler.NewMetricsHandler(metrics, checks),
	}

	var queue *jobs.Queue
	if cfg.Reports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Fatal("failed to prepare export storage", zap.Error(err))
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exporter := service.NewExportService(workerRepo, files, signer,
			service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Reports.SignedURLTTL}, logr)
		reportWorker := service.NewReportWorker(reportRepo, exporter, logr)
		queue = jobs.NewQueue("reports", reportWorker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			OnGiveUp:   reportWorker.GiveUp,
			Logger:     logr,
		})
		queue.Start(ctx)

		reportSvc := service.NewReportService(reportRepo, queue, exporter, validate, logr, service.ReportServiceConfig{
			ResultTTL:       cfg.Reports.SignedURLTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
		})
		if n := reportSvc.RecoverPendingJobs(ctx); n > 0 {
			logr.Info("requeued pending report jobs", zap.Int("count", n))
		}
		reportSvc.StartCleanup(ctx)
		handlers.Reports = handler.NewReportHandler(reportSvc)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", handlers.Metrics.Health)
	r.GET("/ready", handlers.Metrics.Ready)
	r.GET("/metrics", handlers.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handlers.Register(r.Group(cfg.APIPrefix))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	if queue != nil {
		queue.Stop()
	}
}

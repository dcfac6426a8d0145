package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/crewpulse/crewpulse-api/internal/cli"
	"github.com/crewpulse/crewpulse-api/internal/dto"
	"github.com/crewpulse/crewpulse-api/internal/repository"
	"github.com/crewpulse/crewpulse-api/internal/service"
	"github.com/crewpulse/crewpulse-api/pkg/cache"
	"github.com/crewpulse/crewpulse-api/pkg/config"
	"github.com/crewpulse/crewpulse-api/pkg/database"
	"github.com/crewpulse/crewpulse-api/pkg/logger"
)

func main() {
	if err := cli.RootCmd(open).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func open(ctx context.Context) (*cli.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){func() { _ = db.Close() }, func() { _ = logr.Sync() }}

	var cacheRepo service.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, cached profiles will expire on their own", zap.Error(err))
	} else if redisClient != nil {
		repo := repository.NewCacheRepository(redisClient)
		cacheRepo = repo
		closers = append(closers, func() { _ = repo.Close() })
	}
	cacheSvc := service.NewCacheService(cacheRepo, nil, cfg.Scoring.ProfileTTL, logr)

	workerRepo := repository.NewWorkerRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	validate := dto.NewValidator()

	recalc := service.NewRecalculator(workerRepo, assignmentRepo, ratingRepo, cacheSvc, nil, logr,
		service.RecalculatorConfig{IncidentWindow: cfg.Scoring.IncidentWindow})

	app := &cli.App{
		Recalc:      recalc,
		Workers:     service.NewWorkerService(workerRepo, recalc, cacheSvc, validate, logr),
		Assignments: service.NewAssignmentService(assignmentRepo, workerRepo, ratingRepo, recalc, validate, logr),
		Ratings:     service.NewRatingService(ratingRepo, assignmentRepo, recalc, validate, logr),
	}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return app, cleanup, nil
}

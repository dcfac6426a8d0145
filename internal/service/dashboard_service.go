package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/crewpulse/crewpulse-api/internal/models"
	"github.com/crewpulse/crewpulse-api/internal/scoring"
	appErrors "github.com/crewpulse/crewpulse-api/pkg/errors"
)

type dashboardRepository interface {
	WorkerCounts(ctx context.Context) (models.WorkerCounts, error)
	EventCounts(ctx context.Context) (models.EventCounts, error)
	RatingCounts(ctx context.Context) (models.RatingCounts, error)
	FlagCounts(ctx context.Context) (models.FlagCounts, error)
	Averages(ctx context.Context) (models.DashboardAverages, error)
}

// Key card identifiers.
const (
	KeyCardAvgRating      = "avg-rating"
	KeyCardAvgReliability = "avg-reliability"
	KeyCardNCNSRate       = "ncns-rate"
	KeyCardFlaggedWorkers = "flagged-workers"
)

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService composes the staff dashboard summary.
type DashboardService struct {
	repo    dashboardRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     DashboardServiceConfig
}

// NewDashboardService constructs the dashboard service. cache and metrics may be nil.
func NewDashboardService(repo dashboardRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &DashboardService{repo: repo, cache: cache, metrics: metrics, logger: logger, cfg: cfg}
}

// Summary returns the dashboard counts and key cards and whether they came from cache.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, bool, error) {
	key := dashboardCacheKey()
	var cached models.DashboardSummary
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	var counts models.DashboardCounts
	var err error
	if counts.Workers, err = s.repo.WorkerCounts(ctx); err != nil {
		return nil, false, s.wrap(err, "worker")
	}
	if counts.Events, err = s.repo.EventCounts(ctx); err != nil {
		return nil, false, s.wrap(err, "event")
	}
	if counts.Ratings, err = s.repo.RatingCounts(ctx); err != nil {
		return nil, false, s.wrap(err, "rating")
	}
	if counts.Flags, err = s.repo.FlagCounts(ctx); err != nil {
		return nil, false, s.wrap(err, "flag")
	}
	averages, err := s.repo.Averages(ctx)
	if err != nil {
		return nil, false, s.wrap(err, "average")
	}

	summary := &models.DashboardSummary{Counts: counts, KeyCards: buildKeyCards(counts, averages)}
	s.metrics.SetFlaggedWorkers(counts.Flags)
	s.cache.Set(ctx, key, summary, s.cfg.CacheTTL)
	return summary, false, nil
}

func (s *DashboardService) wrap(err error, what string) error {
	s.logger.Error("dashboard query failed", zap.String("section", what), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+what+" counts")
}

func buildKeyCards(counts models.DashboardCounts, averages models.DashboardAverages) []models.KeyCard {
	ncnsRate := 0.0
	if averages.Assignments > 0 {
		ncnsRate = scoring.Round(float64(counts.Events.NCNS)/float64(averages.Assignments), 4)
	}
	return []models.KeyCard{
		{ID: KeyCardAvgRating, Label: "Average rating", Value: scoring.Round(averages.AvgRating, 2)},
		{ID: KeyCardAvgReliability, Label: "Average reliability", Value: scoring.Round(averages.AvgReliability, 2)},
		{ID: KeyCardNCNSRate, Label: "NCNS rate", Value: ncnsRate},
		{ID: KeyCardFlaggedWorkers, Label: "Flagged workers", Value: float64(counts.Flags.Flagged)},
	}
}

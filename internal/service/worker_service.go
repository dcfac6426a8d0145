package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/crewpulse/crewpulse-api/internal/dto"
	"github.com/crewpulse/crewpulse-api/internal/models"
	"github.com/crewpulse/crewpulse-api/internal/repository"
	appErrors "github.com/crewpulse/crewpulse-api/pkg/errors"
)

type workerRepository interface {
	GetByID(ctx context.Context, id string) (*models.Worker, error)
	List(ctx context.Context, filter models.WorkerFilter) ([]models.Worker, int, error)
	Create(ctx context.Context, worker *models.Worker) error
	SetSevereIncident(ctx context.Context, id string, severe bool) error
}

// scoreRecalculator is the part of Recalculator the write services need.
type scoreRecalculator interface {
	Recalculate(ctx context.Context, workerID string) (*models.WorkerSnapshot, error)
	WriteAndRecalculate(ctx context.Context, workerID string, trigger Trigger, write func(context.Context) error) (*models.WorkerSnapshot, error)
}

// WorkerService handles the worker directory.
type WorkerService struct {
	repo      workerRepository
	recalc    scoreRecalculator
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWorkerService constructs the worker service. cache may be nil.
func NewWorkerService(repo workerRepository, recalc scoreRecalculator, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *WorkerService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerService{repo: repo, recalc: recalc, cache: cache, validator: validate, logger: logger}
}

// List returns workers and pagination metadata.
func (s *WorkerService) List(ctx context.Context, query dto.WorkerListQuery) ([]dto.WorkerResponse, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, dto.ValidationMessage(err))
	}
	filter := query.Filter()
	workers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list workers")
	}
	items := make([]dto.WorkerResponse, 0, len(workers))
	for _, w := range workers {
		items = append(items, dto.NewWorkerResponse(w))
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return items, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a worker profile, served from cache when possible.
func (s *WorkerService) Get(ctx context.Context, id string) (*dto.WorkerResponse, bool, error) {
	key := workerCacheKey(id)
	var cached dto.WorkerResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}
	resp, err := s.load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	s.cache.Set(ctx, key, resp, 0)
	return resp, false, nil
}

// Create registers a worker. New workers start from the default snapshot.
func (s *WorkerService) Create(ctx context.Context, req dto.CreateWorkerRequest) (*dto.WorkerResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, dto.ValidationMessage(err))
	}
	worker := &models.Worker{
		EmployeeCode: req.EmployeeCode,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Email:        req.Email,
		Status:       models.WorkerStatusActive,
	}
	if err := s.repo.Create(ctx, worker); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "employee code already used")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create worker")
	}
	_ = s.cache.Delete(ctx, dashboardCacheKey())
	s.logger.Info("worker created", zap.String("worker_id", worker.ID), zap.String("employee_code", worker.EmployeeCode))
	resp := dto.NewWorkerResponse(*worker)
	return &resp, nil
}

// SetSevereIncident stores the severe-incident classification and rescores the worker.
func (s *WorkerService) SetSevereIncident(ctx context.Context, id string, req dto.SevereIncidentRequest) (*dto.WorkerResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, dto.ValidationMessage(err))
	}
	_, err := s.recalc.WriteAndRecalculate(ctx, id, TriggerSevereIncident, func(ctx context.Context) error {
		if err := s.repo.SetSevereIncident(ctx, id, *req.SevereIncident); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrUnknownWorker, "worker "+id+" not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update severe incident")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// Recalculate rescores a worker on demand.
func (s *WorkerService) Recalculate(ctx context.Context, id string) (*dto.SnapshotResponse, error) {
	snapshot, err := s.recalc.Recalculate(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewSnapshotResponse(*snapshot)
	return &resp, nil
}

func (s *WorkerService) load(ctx context.Context, id string) (*dto.WorkerResponse, error) {
	worker, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnknownWorker, "worker "+id+" not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load worker")
	}
	resp := dto.NewWorkerResponse(*worker)
	return &resp, nil
}

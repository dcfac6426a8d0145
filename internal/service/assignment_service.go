package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/crewpulse/crewpulse-api/internal/dto"
	"github.com/crewpulse/crewpulse-api/internal/models"
	appErrors "github.com/crewpulse/crewpulse-api/pkg/errors"
)

type assignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id string) (*models.Assignment, error)
	ListByWorker(ctx context.Context, workerID string) ([]models.Assignment, error)
	CreateEvent(ctx context.Context, event *models.AttendanceEvent) error
	ListEventsByAssignments(ctx context.Context, assignmentIDs []string) ([]models.AttendanceEvent, error)
}

type workerExistence interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// AssignmentService records assignments and attendance events. Every write
// rescores the assigned worker before returning.
type AssignmentService struct {
	repo      assignmentRepository
	workers   workerExistence
	ratings   historyRatingRepository
	recalc    scoreRecalculator
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(repo assignmentRepository, workers workerExistence, ratings historyRatingRepository, recalc scoreRecalculator, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		repo:      repo,
		workers:   workers,
		ratings:   ratings,
		recalc:    recalc,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Create stores an assignment for an existing worker.
func (s *AssignmentService) Create(ctx context.Context, req dto.CreateAssignmentRequest, actorID string) (*dto.WriteResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, dto.ValidationMessage(err))
	}
	exists, err := s.workers.Exists(ctx, req.WorkerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check worker")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrValidation, "worker "+req.WorkerID+" does not exist")
	}

	assignment := &models.Assignment{
		WorkerID:       req.WorkerID,
		Category:       models.JobCategory(req.Category),
		ScheduledStart: req.ScheduledStart.UTC(),
		ScheduledEnd:   utcPtr(req.ScheduledEnd),
		CreatedBy:      actorID,
	}
	snapshot, err := s.recalc.WriteAndRecalculate(ctx, req.WorkerID, TriggerAssignmentCreated, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, assignment); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("assignment created", zap.String("assignment_id", assignment.ID), zap.String("worker_id", assignment.WorkerID))
	resp := dto.NewWriteResponse(assignment, snapshot)
	return &resp, nil
}

// Get returns an assignment with its events and ratings.
func (s *AssignmentService) Get(ctx context.Context, id string) (*models.AssignmentDetail, error) {
	assignment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := []string{assignment.ID}
	events, err := s.repo.ListEventsByAssignments(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance events")
	}
	staff, err := s.ratings.ListStaffByAssignments(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff rating")
	}
	customer, err := s.ratings.ListCustomerByAssignments(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load customer rating")
	}

	detail := &models.AssignmentDetail{Assignment: *assignment, Events: events}
	if len(staff) > 0 {
		detail.StaffRating = &staff[0]
	}
	if len(customer) > 0 {
		detail.CustomerRating = &customer[0]
	}
	return detail, nil
}

// ListByWorker returns a worker's assignments, oldest first.
func (s *AssignmentService) ListByWorker(ctx context.Context, workerID string) ([]models.Assignment, error) {
	exists, err := s.workers.Exists(ctx, workerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check worker")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrUnknownWorker, "worker "+workerID+" not found")
	}
	assignments, err := s.repo.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// RecordEvent appends an attendance event to an assignment.
func (s *AssignmentService) RecordEvent(ctx context.Context, assignmentID string, req dto.RecordEventRequest, actorID string) (*dto.WriteResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, dto.ValidationMessage(err))
	}
	assignment, err := s.find(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	occurredAt := s.now().UTC()
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}
	event := &models.AttendanceEvent{
		AssignmentID: assignment.ID,
		EventType:    models.EventType(req.EventType),
		OccurredAt:   occurredAt,
		RecordedBy:   actorID,
		Notes:        req.Notes,
	}
	snapshot, err := s.recalc.WriteAndRecalculate(ctx, assignment.WorkerID, TriggerAttendanceEvent, func(ctx context.Context) error {
		if err := s.repo.CreateEvent(ctx, event); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("attendance event recorded",
		zap.String("assignment_id", assignment.ID),
		zap.String("worker_id", assignment.WorkerID),
		zap.String("event_type", string(event.EventType)),
	)
	resp := dto.NewWriteResponse(event, snapshot)
	return &resp, nil
}

func (s *AssignmentService) find(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return assignment, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

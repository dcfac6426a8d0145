package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/crewpulse/crewpulse-api/internal/dto"
	"github.com/crewpulse/crewpulse-api/internal/models"
	"github.com/crewpulse/crewpulse-api/internal/repository"
	appErrors "github.com/crewpulse/crewpulse-api/pkg/errors"
)

type ratingRepository interface {
	CreateStaff(ctx context.Context, rating *models.StaffRating) error
	CreateCustomer(ctx context.Context, rating *models.CustomerRating) error
}

type assignmentLookup interface {
	GetByID(ctx context.Context, id string) (*models.Assignment, error)
}

// RatingService accepts the one staff and one customer rating each assignment may carry.
type RatingService struct {
	repo        ratingRepository
	assignments assignmentLookup
	recalc      scoreRecalculator
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewRatingService constructs the rating service.
func NewRatingService(repo ratingRepository, assignments assignmentLookup, recalc scoreRecalculator, validate *validator.Validate, logger *zap.Logger) *RatingService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{
		repo:        repo,
		assignments: assignments,
		recalc:      recalc,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// SubmitStaff stores the internal rating of an assignment.
func (s *RatingService) SubmitStaff(ctx context.Context, assignmentID string, req dto.StaffRatingRequest, actorID string) (*dto.WriteResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, dto.ValidationMessage(err))
	}
	assignment, err := s.assignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	tags := pq.StringArray(req.Tags)
	if tags == nil {
		tags = pq.StringArray{}
	}
	rating := &models.StaffRating{
		AssignmentID:  assignment.ID,
		Overall:       req.Overall,
		Tags:          tags,
		InternalNotes: req.InternalNotes,
		SubmittedBy:   actorID,
		SubmittedAt:   s.now().UTC(),
	}
	snapshot, err := s.recalc.WriteAndRecalculate(ctx, assignment.WorkerID, TriggerStaffRating, func(ctx context.Context) error {
		return s.mapWriteError(s.repo.CreateStaff(ctx, rating), "staff")
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("staff rating submitted", zap.String("assignment_id", assignment.ID), zap.Int("overall", rating.Overall))
	resp := dto.NewWriteResponse(rating, snapshot)
	return &resp, nil
}

// SubmitCustomer stores the client's rating of an assignment.
func (s *RatingService) SubmitCustomer(ctx context.Context, assignmentID string, req dto.CustomerRatingRequest, actorID string) (*dto.WriteResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, dto.ValidationMessage(err))
	}
	assignment, err := s.assignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	rating := &models.CustomerRating{
		AssignmentID: assignment.ID,
		Overall:      req.Overall,
		Punctuality:  req.Punctuality,
		WorkEthic:    req.WorkEthic,
		Attitude:     req.Attitude,
		Quality:      req.Quality,
		Safety:       req.Safety,
		WouldRehire:  req.WouldRehire,
		Comments:     req.Comments,
		SubmittedBy:  actorID,
		SubmittedAt:  s.now().UTC(),
	}
	snapshot, err := s.recalc.WriteAndRecalculate(ctx, assignment.WorkerID, TriggerCustomerRating, func(ctx context.Context) error {
		return s.mapWriteError(s.repo.CreateCustomer(ctx, rating), "customer")
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("customer rating submitted", zap.String("assignment_id", assignment.ID), zap.Int("overall", rating.Overall))
	resp := dto.NewWriteResponse(rating, snapshot)
	return &resp, nil
}

func (s *RatingService) assignment(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return assignment, nil
}

func (s *RatingService) mapWriteError(err error, source string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicate):
		return appErrors.Clone(appErrors.ErrDuplicateRating, source+" rating already submitted for this assignment")
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store "+source+" rating")
	}
}

package cli

import (
	"context"

	"github.com/crewpulse/crewpulse-api/internal/dto"
	"github.com/crewpulse/crewpulse-api/internal/models"
	"github.com/crewpulse/crewpulse-api/internal/service"
)

type recalculator interface {
	Recalculate(ctx context.Context, workerID string) (*models.WorkerSnapshot, error)
	RecalculateAll(ctx context.Context) (*service.BackfillResult, error)
}

type workerCreator interface {
	Create(ctx context.Context, req dto.CreateWorkerRequest) (*dto.WorkerResponse, error)
}

type assignmentWriter interface {
	Create(ctx context.Context, req dto.CreateAssignmentRequest, actorID string) (*dto.WriteResponse, error)
	RecordEvent(ctx context.Context, assignmentID string, req dto.RecordEventRequest, actorID string) (*dto.WriteResponse, error)
}

type ratingWriter interface {
	SubmitStaff(ctx context.Context, assignmentID string, req dto.StaffRatingRequest, actorID string) (*dto.WriteResponse, error)
	SubmitCustomer(ctx context.Context, assignmentID string, req dto.CustomerRatingRequest, actorID string) (*dto.WriteResponse, error)
}

// App is the set of services the admin commands drive.
type App struct {
	Recalc      recalculator
	Workers     workerCreator
	Assignments assignmentWriter
	Ratings     ratingWriter
}

// Loader opens the application and returns a cleanup func.
type Loader func(ctx context.Context) (*App, func(), error)

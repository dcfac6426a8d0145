package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/crewpulse/crewpulse-api/internal/models"
)

const (
	assignmentColumns = "id, worker_id, category, scheduled_start, scheduled_end, created_by, created_at"
	eventColumns      = "id, assignment_id, event_type, occurred_at, recorded_by, notes"
)

// AssignmentRepository persists assignments and their attendance events.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts an assignment. Assignments are never updated afterwards.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO assignments (id, worker_id, category, scheduled_start, scheduled_end, created_by, created_at)
        VALUES (:id, :worker_id, :category, :scheduled_start, :scheduled_end, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// GetByID fetches one assignment. Missing rows surface as sql.ErrNoRows.
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := "SELECT " + assignmentColumns + " FROM assignments WHERE id = $1"
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return &assignment, nil
}

// ListByWorker returns all assignments of a worker, oldest scheduled start first.
func (r *AssignmentRepository) ListByWorker(ctx context.Context, workerID string) ([]models.Assignment, error) {
	query := "SELECT " + assignmentColumns + " FROM assignments WHERE worker_id = $1 ORDER BY scheduled_start ASC, created_at ASC, id ASC"
	assignments := make([]models.Assignment, 0)
	if err := r.db.SelectContext(ctx, &assignments, query, workerID); err != nil {
		return nil, fmt.Errorf("list worker assignments: %w", err)
	}
	return assignments, nil
}

// CreateEvent appends an attendance event.
func (r *AssignmentRepository) CreateEvent(ctx context.Context, event *models.AttendanceEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	const query = `INSERT INTO attendance_events (id, assignment_id, event_type, occurred_at, recorded_by, notes)
        VALUES (:id, :assignment_id, :event_type, :occurred_at, :recorded_by, :notes)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create attendance event: %w", err)
	}
	return nil
}

// ListEventsByAssignments returns the events of the given assignments in recording order.
func (r *AssignmentRepository) ListEventsByAssignments(ctx context.Context, assignmentIDs []string) ([]models.AttendanceEvent, error) {
	events := make([]models.AttendanceEvent, 0)
	if len(assignmentIDs) == 0 {
		return events, nil
	}
	query := "SELECT " + eventColumns + " FROM attendance_events WHERE assignment_id = ANY($1) ORDER BY occurred_at ASC, id ASC"
	if err := r.db.SelectContext(ctx, &events, query, pq.Array(assignmentIDs)); err != nil {
		return nil, fmt.Errorf("list attendance events: %w", err)
	}
	return events, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/crewpulse/crewpulse-api/internal/models"
)

const (
	staffRatingColumns    = "assignment_id, overall, tags, internal_notes, submitted_by, submitted_at"
	customerRatingColumns = "assignment_id, overall, punctuality, work_ethic, attitude, quality, safety, would_rehire, comments, submitted_by, submitted_at"
)

// RatingRepository persists staff and customer ratings. Each assignment holds at most one of each.
type RatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository constructs a RatingRepository.
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// CreateStaff inserts a staff rating, returning ErrDuplicate when one already exists.
func (r *RatingRepository) CreateStaff(ctx context.Context, rating *models.StaffRating) error {
	if rating.SubmittedAt.IsZero() {
		rating.SubmittedAt = time.Now().UTC()
	}
	if rating.Tags == nil {
		rating.Tags = pq.StringArray{}
	}
	const query = `INSERT INTO staff_ratings (assignment_id, overall, tags, internal_notes, submitted_by, submitted_at)
        VALUES (:assignment_id, :overall, :tags, :internal_notes, :submitted_by, :submitted_at)
        ON CONFLICT (assignment_id) DO NOTHING`
	result, err := r.db.NamedExecContext(ctx, query, rating)
	if err != nil {
		return fmt.Errorf("create staff rating: %w", err)
	}
	return insertedOrDuplicate(result.RowsAffected())
}

// CreateCustomer inserts a customer rating, returning ErrDuplicate when one already exists.
func (r *RatingRepository) CreateCustomer(ctx context.Context, rating *models.CustomerRating) error {
	if rating.SubmittedAt.IsZero() {
		rating.SubmittedAt = time.Now().UTC()
	}
	const query = `INSERT INTO customer_ratings (assignment_id, overall, punctuality, work_ethic, attitude, quality, safety, would_rehire, comments, submitted_by, submitted_at)
        VALUES (:assignment_id, :overall, :punctuality, :work_ethic, :attitude, :quality, :safety, :would_rehire, :comments, :submitted_by, :submitted_at)
        ON CONFLICT (assignment_id) DO NOTHING`
	result, err := r.db.NamedExecContext(ctx, query, rating)
	if err != nil {
		return fmt.Errorf("create customer rating: %w", err)
	}
	return insertedOrDuplicate(result.RowsAffected())
}

// ListStaffByAssignments returns the staff ratings of the given assignments.
func (r *RatingRepository) ListStaffByAssignments(ctx context.Context, assignmentIDs []string) ([]models.StaffRating, error) {
	ratings := make([]models.StaffRating, 0)
	if len(assignmentIDs) == 0 {
		return ratings, nil
	}
	query := "SELECT " + staffRatingColumns + " FROM staff_ratings WHERE assignment_id = ANY($1)"
	if err := r.db.SelectContext(ctx, &ratings, query, pq.Array(assignmentIDs)); err != nil {
		return nil, fmt.Errorf("list staff ratings: %w", err)
	}
	return ratings, nil
}

// ListCustomerByAssignments returns the customer ratings of the given assignments.
func (r *RatingRepository) ListCustomerByAssignments(ctx context.Context, assignmentIDs []string) ([]models.CustomerRating, error) {
	ratings := make([]models.CustomerRating, 0)
	if len(assignmentIDs) == 0 {
		return ratings, nil
	}
	query := "SELECT " + customerRatingColumns + " FROM customer_ratings WHERE assignment_id = ANY($1)"
	if err := r.db.SelectContext(ctx, &ratings, query, pq.Array(assignmentIDs)); err != nil {
		return nil, fmt.Errorf("list customer ratings: %w", err)
	}
	return ratings, nil
}

func insertedOrDuplicate(affected int64, err error) error {
	if err != nil {
		return fmt.Errorf("rating rows affected: %w", err)
	}
	if affected == 0 {
		return ErrDuplicate
	}
	return nil
}

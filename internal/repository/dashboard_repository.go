package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/crewpulse/crewpulse-api/internal/models"
	"github.com/crewpulse/crewpulse-api/internal/scoring"
)

// DashboardRepository runs the aggregate queries behind the staff dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// WorkerCounts counts workers overall, active and under review.
func (r *DashboardRepository) WorkerCounts(ctx context.Context) (models.WorkerCounts, error) {
	const query = `SELECT COUNT(*) AS total,
        COUNT(*) FILTER (WHERE status = $1) AS active,
        COUNT(*) FILTER (WHERE $2 = ANY(flags)) AS needs_review
        FROM workers`
	var counts models.WorkerCounts
	if err := r.db.GetContext(ctx, &counts, query, models.WorkerStatusActive, string(scoring.FlagNeedsReview)); err != nil {
		return counts, fmt.Errorf("count workers: %w", err)
	}
	return counts, nil
}

// EventCounts counts attendance events by type.
func (r *DashboardRepository) EventCounts(ctx context.Context) (models.EventCounts, error) {
	const query = `SELECT COUNT(*) FILTER (WHERE event_type = 'completed') AS completed,
        COUNT(*) FILTER (WHERE event_type = 'late') AS late,
        COUNT(*) FILTER (WHERE event_type = 'sent_home') AS sent_home,
        COUNT(*) FILTER (WHERE event_type = 'ncns') AS ncns
        FROM attendance_events`
	var counts models.EventCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return counts, fmt.Errorf("count events: %w", err)
	}
	return counts, nil
}

// RatingCounts counts staff and customer ratings.
func (r *DashboardRepository) RatingCounts(ctx context.Context) (models.RatingCounts, error) {
	const query = `SELECT (SELECT COUNT(*) FROM staff_ratings) AS staff,
        (SELECT COUNT(*) FROM customer_ratings) AS customer`
	var counts models.RatingCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return counts, fmt.Errorf("count ratings: %w", err)
	}
	return counts, nil
}

// FlagCounts counts workers per flag and workers carrying any flag.
func (r *DashboardRepository) FlagCounts(ctx context.Context) (models.FlagCounts, error) {
	const query = `SELECT COUNT(*) FILTER (WHERE $1 = ANY(flags)) AS needs_review,
        COUNT(*) FILTER (WHERE $2 = ANY(flags)) AS terminate_recommended,
        COUNT(*) FILTER (WHERE cardinality(flags) > 0) AS flagged
        FROM workers`
	var counts models.FlagCounts
	if err := r.db.GetContext(ctx, &counts, query, string(scoring.FlagNeedsReview), string(scoring.FlagTerminateRecommended)); err != nil {
		return counts, fmt.Errorf("count flags: %w", err)
	}
	return counts, nil
}

// Averages returns the mean combined rating over rated assignments, the mean
// reliability over workers and the assignment count.
func (r *DashboardRepository) Averages(ctx context.Context) (models.DashboardAverages, error) {
	const query = `SELECT
        COALESCE((SELECT AVG(CASE
                WHEN s.overall IS NOT NULL AND c.overall IS NOT NULL THEN $1 * c.overall + $2 * s.overall
                ELSE COALESCE(c.overall, s.overall) END)
            FROM assignments a
            LEFT JOIN staff_ratings s ON s.assignment_id = a.id
            LEFT JOIN customer_ratings c ON c.assignment_id = a.id
            WHERE s.assignment_id IS NOT NULL OR c.assignment_id IS NOT NULL), 0) AS avg_rating,
        COALESCE((SELECT AVG(reliability_score) FROM workers), 0) AS avg_reliability,
        (SELECT COUNT(*) FROM assignments) AS assignments`
	var averages models.DashboardAverages
	if err := r.db.GetContext(ctx, &averages, query, scoring.CustomerRatingWeight, scoring.StaffRatingWeight); err != nil {
		return averages, fmt.Errorf("dashboard averages: %w", err)
	}
	return averages, nil
}

package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewpulse/crewpulse-api/internal/models"
	"github.com/crewpulse/crewpulse-api/internal/scoring"
)

func TestDashboardRepositoryCounts(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewDashboardRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE status = $1) AS active")).
		WithArgs("ACTIVE", "needs-review").
		WillReturnRows(sqlmock.NewRows([]string{"total", "active", "needs_review"}).AddRow(3, 3, 2))
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance_events")).
		WillReturnRows(sqlmock.NewRows([]string{"completed", "late", "sent_home", "ncns"}).AddRow(1, 1, 0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("(SELECT COUNT(*) FROM staff_ratings) AS staff")).
		WillReturnRows(sqlmock.NewRows([]string{"staff", "customer"}).AddRow(3, 3))
	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE cardinality(flags) > 0) AS flagged")).
		WithArgs("needs-review", "terminate-recommended").
		WillReturnRows(sqlmock.NewRows([]string{"needs_review", "terminate_recommended", "flagged"}).AddRow(2, 1, 2))

	workers, err := repo.WorkerCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.WorkerCounts{Total: 3, Active: 3, NeedsReview: 2}, workers)

	events, err := repo.EventCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.EventCounts{Completed: 1, Late: 1, NCNS: 1}, events)

	ratings, err := repo.RatingCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RatingCounts{Staff: 3, Customer: 3}, ratings)

	flags, err := repo.FlagCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.FlagCounts{NeedsReview: 2, TerminateRecommended: 1, Flagged: 2}, flags)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRepositoryAverages(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewDashboardRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("AS avg_rating")).
		WithArgs(scoring.CustomerRatingWeight, scoring.StaffRatingWeight).
		WillReturnRows(sqlmock.NewRows([]string{"avg_rating", "avg_reliability", "assignments"}).AddRow(3.9, 4.2, 12))

	averages, err := repo.Averages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DashboardAverages{AvgRating: 3.9, AvgReliability: 4.2, Assignments: 12}, averages)
	require.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewpulse/crewpulse-api/internal/models"
)

func TestRatingRepositoryCreateStaff(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO staff_ratings")).
		WithArgs("a-1", 4, sqlmock.AnyArg(), nil, "staff-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rating := &models.StaffRating{AssignmentID: "a-1", Overall: 4, SubmittedBy: "staff-1"}
	require.NoError(t, repo.CreateStaff(context.Background(), rating))
	assert.False(t, rating.SubmittedAt.IsZero())
	assert.Equal(t, pq.StringArray{}, rating.Tags)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepositoryDuplicates(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (assignment_id) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (assignment_id) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.CreateStaff(context.Background(), &models.StaffRating{AssignmentID: "a-1", Overall: 3, SubmittedBy: "staff-1"})
	assert.ErrorIs(t, err, ErrDuplicate)
	err = repo.CreateCustomer(context.Background(), &models.CustomerRating{AssignmentID: "a-1", Overall: 3, SubmittedBy: "client-1"})
	assert.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepositoryListByAssignments(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM staff_ratings WHERE assignment_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"assignment_id", "overall", "tags", "internal_notes", "submitted_by", "submitted_at"}).
			AddRow("a-1", 5, "{reliable,fast}", nil, "staff-1", now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM customer_ratings WHERE assignment_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"assignment_id", "overall", "punctuality", "work_ethic", "attitude", "quality", "safety", "would_rehire", "comments", "submitted_by", "submitted_at"}).
			AddRow("a-1", 4, 5, nil, nil, nil, nil, true, nil, "client-1", now))

	staff, err := repo.ListStaffByAssignments(context.Background(), []string{"a-1"})
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, pq.StringArray{"reliable", "fast"}, staff[0].Tags)

	customer, err := repo.ListCustomerByAssignments(context.Background(), []string{"a-1"})
	require.NoError(t, err)
	require.Len(t, customer, 1)
	require.NotNil(t, customer[0].Punctuality)
	assert.Equal(t, 5, *customer[0].Punctuality)
	require.NotNil(t, customer[0].WouldRehire)
	assert.True(t, *customer[0].WouldRehire)

	none, err := repo.ListCustomerByAssignments(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
	require.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewpulse/crewpulse-api/internal/models"
)

func TestAssignmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	start := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assignments")).
		WithArgs(sqlmock.AnyArg(), "w-1", "warehouse", start, nil, "staff-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assignment := &models.Assignment{WorkerID: "w-1", Category: models.JobCategoryWarehouse, ScheduledStart: start, CreatedBy: "staff-1"}
	require.NoError(t, repo.Create(context.Background(), assignment))
	assert.NotEmpty(t, assignment.ID)
	assert.False(t, assignment.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryListByWorker(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	day1 := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	rows := sqlmock.NewRows([]string{"id", "worker_id", "category", "scheduled_start", "scheduled_end", "created_by", "created_at"}).
		AddRow("a-1", "w-1", "cleanup", day1, nil, "staff-1", day1).
		AddRow("a-2", "w-1", "events", day2, day2.Add(4*time.Hour), "staff-1", day2)
	mock.ExpectQuery(regexp.QuoteMeta("FROM assignments WHERE worker_id = $1 ORDER BY scheduled_start ASC")).
		WithArgs("w-1").
		WillReturnRows(rows)

	assignments, err := repo.ListByWorker(context.Background(), "w-1")
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, models.JobCategoryEvents, assignments[1].Category)
	require.NotNil(t, assignments[1].ScheduledEnd)
	assert.Nil(t, assignments[0].ScheduledEnd)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCreateEvent(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	notes := "arrived 40 minutes late"
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO attendance_events")).
		WithArgs(sqlmock.AnyArg(), "a-1", "late", sqlmock.AnyArg(), "staff-2", notes).
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.AttendanceEvent{AssignmentID: "a-1", EventType: models.EventLate, RecordedBy: "staff-2", Notes: &notes}
	require.NoError(t, repo.CreateEvent(context.Background(), event))
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.OccurredAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryListEventsByAssignments(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	empty, err := repo.ListEventsByAssignments(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "assignment_id", "event_type", "occurred_at", "recorded_by", "notes"}).
		AddRow("e-1", "a-1", "completed", now, "staff-1", nil).
		AddRow("e-2", "a-2", "ncns", now, "staff-1", nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance_events WHERE assignment_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	events, err := repo.ListEventsByAssignments(context.Background(), []string{"a-1", "a-2"})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventNCNS, events[1].EventType)
	require.NoError(t, mock.ExpectationsWereMet())
}

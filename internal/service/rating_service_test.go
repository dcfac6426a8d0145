package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewpulse/crewpulse-api/internal/dto"
	"github.com/crewpulse/crewpulse-api/internal/models"
	appErrors "github.com/crewpulse/crewpulse-api/pkg/errors"
)

func newRatingServiceForTest() (*RatingService, *assignmentRepoStub, *fakeRecalc) {
	repo := newAssignmentRepoStub()
	repo.seed(models.Assignment{ID: "a-1", WorkerID: "w-1", ScheduledStart: daysAgo(1)})
	recalc := &fakeRecalc{}
	svc := NewRatingService(repo, repo, recalc, nil, nil)
	svc.now = func() time.Time { return recalcNow }
	return svc, repo, recalc
}

func TestRatingServiceSubmitStaff(t *testing.T) {
	svc, repo, recalc := newRatingServiceForTest()

	resp, err := svc.SubmitStaff(context.Background(), "a-1", dto.StaffRatingRequest{Overall: 4, Tags: []string{"reliable"}}, "lead-1")
	require.NoError(t, err)
	rating, ok := resp.Record.(*models.StaffRating)
	require.True(t, ok)
	assert.Equal(t, recalcNow, rating.SubmittedAt)
	assert.Equal(t, "lead-1", rating.SubmittedBy)
	assert.Len(t, repo.staff, 1)
	assert.Equal(t, []Trigger{TriggerStaffRating}, recalc.triggers)
}

func TestRatingServiceDuplicateStaffRating(t *testing.T) {
	svc, repo, recalc := newRatingServiceForTest()
	_, err := svc.SubmitStaff(context.Background(), "a-1", dto.StaffRatingRequest{Overall: 4}, "lead-1")
	require.NoError(t, err)

	_, err = svc.SubmitStaff(context.Background(), "a-1", dto.StaffRatingRequest{Overall: 2}, "lead-2")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateRating.Code, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Len(t, repo.staff, 1)
	assert.Len(t, recalc.triggers, 1)
}

func TestRatingServiceSubmitCustomer(t *testing.T) {
	svc, repo, recalc := newRatingServiceForTest()
	safety := 5
	rehire := true

	resp, err := svc.SubmitCustomer(context.Background(), "a-1", dto.CustomerRatingRequest{Overall: 5, Safety: &safety, WouldRehire: &rehire}, "client-9")
	require.NoError(t, err)
	rating, ok := resp.Record.(*models.CustomerRating)
	require.True(t, ok)
	assert.Equal(t, &safety, rating.Safety)
	assert.Len(t, repo.customer, 1)
	assert.Equal(t, []Trigger{TriggerCustomerRating}, recalc.triggers)

	_, err = svc.SubmitCustomer(context.Background(), "a-1", dto.CustomerRatingRequest{Overall: 3}, "client-9")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateRating.Code, appErrors.FromError(err).Code)
}

func TestRatingServiceOutOfRange(t *testing.T) {
	svc, repo, recalc := newRatingServiceForTest()

	_, err := svc.SubmitCustomer(context.Background(), "a-1", dto.CustomerRatingRequest{Overall: 9}, "client-9")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
	assert.Empty(t, repo.customer)
	assert.Empty(t, recalc.triggers)
}

func TestRatingServiceUnknownAssignment(t *testing.T) {
	svc, _, _ := newRatingServiceForTest()

	_, err := svc.SubmitStaff(context.Background(), "nope", dto.StaffRatingRequest{Overall: 3}, "lead-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewpulse/crewpulse-api/internal/models"
	"github.com/crewpulse/crewpulse-api/internal/scoring"
	appErrors "github.com/crewpulse/crewpulse-api/pkg/errors"
)

var recalcNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type stubWorkerStore struct {
	workers   map[string]*models.Worker
	snapshots []models.WorkerSnapshot
	getErr    error
	updateErr error
}

func newStubWorkerStore(ids ...string) *stubWorkerStore {
	store := &stubWorkerStore{workers: map[string]*models.Worker{}}
	for _, id := range ids {
		store.workers[id] = &models.Worker{ID: id, Status: models.WorkerStatusActive, WorkerSnapshot: models.DefaultSnapshot(id)}
	}
	return store
}

func (s *stubWorkerStore) GetByID(_ context.Context, id string) (*models.Worker, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	worker, ok := s.workers[id]
	if !ok {
		return nil, fmt.Errorf("get worker: %w", sql.ErrNoRows)
	}
	copyWorker := *worker
	return &copyWorker, nil
}

func (s *stubWorkerStore) UpdateSnapshot(_ context.Context, snapshot models.WorkerSnapshot) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.snapshots = append(s.snapshots, snapshot)
	if worker, ok := s.workers[snapshot.WorkerID]; ok {
		worker.WorkerSnapshot = snapshot
	}
	return nil
}

func (s *stubWorkerStore) ListIDs(context.Context) ([]string, error) {
	ids := make([]string, 0, len(s.workers))
	for id := range s.workers {
		ids = append(ids, id)
	}
	return ids, nil
}

type stubHistory struct {
	assignments map[string][]models.Assignment
	events      []models.AttendanceEvent
	staff       []models.StaffRating
	customer    []models.CustomerRating
	listErr     error
}

func newStubHistory() *stubHistory {
	return &stubHistory{assignments: map[string][]models.Assignment{}}
}

func (h *stubHistory) addJob(workerID, assignmentID string, start time.Time) {
	h.assignments[workerID] = append(h.assignments[workerID], models.Assignment{
		ID: assignmentID, WorkerID: workerID, Category: models.JobCategoryWarehouse, ScheduledStart: start,
	})
}

func (h *stubHistory) addEvent(assignmentID string, eventType models.EventType, at time.Time) {
	h.events = append(h.events, models.AttendanceEvent{
		ID: fmt.Sprintf("e-%d", len(h.events)+1), AssignmentID: assignmentID, EventType: eventType, OccurredAt: at,
	})
}

func (h *stubHistory) ListByWorker(_ context.Context, workerID string) ([]models.Assignment, error) {
	if h.listErr != nil {
		return nil, h.listErr
	}
	return h.assignments[workerID], nil
}

func (h *stubHistory) ListEventsByAssignments(_ context.Context, ids []string) ([]models.AttendanceEvent, error) {
	set := toSet(ids)
	out := make([]models.AttendanceEvent, 0)
	for _, e := range h.events {
		if _, ok := set[e.AssignmentID]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (h *stubHistory) ListStaffByAssignments(_ context.Context, ids []string) ([]models.StaffRating, error) {
	set := toSet(ids)
	out := make([]models.StaffRating, 0)
	for _, r := range h.staff {
		if _, ok := set[r.AssignmentID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (h *stubHistory) ListCustomerByAssignments(_ context.Context, ids []string) ([]models.CustomerRating, error) {
	set := toSet(ids)
	out := make([]models.CustomerRating, 0)
	for _, r := range h.customer {
		if _, ok := set[r.AssignmentID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func newTestRecalculator(workers *stubWorkerStore, history *stubHistory, cache cacheInvalidator) *Recalculator {
	r := NewRecalculator(workers, history, history, cache, NewMetricsService(), nil, RecalculatorConfig{})
	r.now = func() time.Time { return recalcNow }
	return r
}

func daysAgo(n int) time.Time {
	return recalcNow.AddDate(0, 0, -n)
}

func TestRecalculateUnknownWorkerWritesNothing(t *testing.T) {
	workers := newStubWorkerStore()
	r := newTestRecalculator(workers, newStubHistory(), nil)

	_, err := r.Recalculate(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownWorker.Code, appErrors.FromError(err).Code)
	assert.Empty(t, workers.snapshots)
}

func TestRecalculateWorkerWithoutHistory(t *testing.T) {
	workers := newStubWorkerStore("w-1")
	r := newTestRecalculator(workers, newStubHistory(), nil)

	snapshot, err := r.Recalculate(context.Background(), "w-1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, snapshot.PerformanceScore)
	assert.Equal(t, 5.0, snapshot.ReliabilityScore)
	assert.Equal(t, 0.0, snapshot.LateRate)
	assert.Equal(t, 0.0, snapshot.NCNSRate)
	assert.Equal(t, scoring.TierCritical, snapshot.Tier)
	assert.Equal(t, models.FlagList{scoring.FlagNeedsReview}, snapshot.Flags)
	assert.Equal(t, 0, snapshot.TotalJobs)
	require.NotNil(t, snapshot.ScoredAt)
	assert.Equal(t, recalcNow, *snapshot.ScoredAt)
	require.Len(t, workers.snapshots, 1)
}

func TestRecalculateFiveLateJobs(t *testing.T) {
	workers := newStubWorkerStore("w-1")
	history := newStubHistory()
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("a-%d", i)
		history.addJob("w-1", id, daysAgo(60-i))
		history.addEvent(id, models.EventLate, daysAgo(60-i))
	}
	r := newTestRecalculator(workers, history, nil)

	snapshot, err := r.Recalculate(context.Background(), "w-1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, snapshot.LateRate)
	assert.Equal(t, 4.7, snapshot.ReliabilityScore)
	assert.Equal(t, 0.0, snapshot.PerformanceScore)
	assert.Equal(t, 5, snapshot.TotalJobs)
}

func TestRecalculateSingleNCNSJob(t *testing.T) {
	workers := newStubWorkerStore("w-1")
	history := newStubHistory()
	history.addJob("w-1", "a-1", daysAgo(2))
	history.addEvent("a-1", models.EventNCNS, daysAgo(2))
	history.staff = []models.StaffRating{{AssignmentID: "a-1", Overall: 2}}
	history.customer = []models.CustomerRating{{AssignmentID: "a-1", Overall: 2}}
	r := newTestRecalculator(workers, history, nil)

	snapshot, err := r.Recalculate(context.Background(), "w-1")
	require.NoError(t, err)
	assert.Equal(t, 2.0, snapshot.PerformanceScore)
	assert.Equal(t, 3.5, snapshot.ReliabilityScore)
	assert.Equal(t, 1.0, snapshot.NCNSRate)
	assert.Equal(t, models.FlagList{scoring.FlagNeedsReview, scoring.FlagTerminateRecommended}, snapshot.Flags)
	assert.Equal(t, scoring.StatusTerminate, snapshot.DisplayStatus())
}

func TestRecalculateIsIdempotent(t *testing.T) {
	workers := newStubWorkerStore("w-1")
	history := newStubHistory()
	history.addJob("w-1", "a-1", daysAgo(10))
	history.addJob("w-1", "a-2", daysAgo(5))
	history.addEvent("a-2", models.EventSentHome, daysAgo(5))
	history.staff = []models.StaffRating{{AssignmentID: "a-1", Overall: 5}, {AssignmentID: "a-2", Overall: 3}}
	history.customer = []models.CustomerRating{{AssignmentID: "a-1", Overall: 4}}
	r := newTestRecalculator(workers, history, nil)

	first, err := r.Recalculate(context.Background(), "w-1")
	require.NoError(t, err)
	second, err := r.Recalculate(context.Background(), "w-1")
	require.NoError(t, err)
	assert.Equal(t, *first, *second)
}

func TestRecalculateNCNSLowersReliability(t *testing.T) {
	workers := newStubWorkerStore("w-1")
	history := newStubHistory()
	for i := 0; i < 4; i++ {
		id := fmt.Sprintf("a-%d", i)
		history.addJob("w-1", id, daysAgo(40-i))
		history.addEvent(id, models.EventCompleted, daysAgo(40-i))
	}
	r := newTestRecalculator(workers, history, nil)

	before, err := r.Recalculate(context.Background(), "w-1")
	require.NoError(t, err)
	history.addEvent("a-3", models.EventNCNS, daysAgo(37))
	after, err := r.Recalculate(context.Background(), "w-1")
	require.NoError(t, err)

	assert.Less(t, after.ReliabilityScore, before.ReliabilityScore)
	assert.Greater(t, after.NCNSRate, before.NCNSRate)
}

func TestRecalculateSevereIncidentFlagsTermination(t *testing.T) {
	workers := newStubWorkerStore("w-1")
	workers.workers["w-1"].SevereIncident = true
	history := newStubHistory()
	history.addJob("w-1", "a-1", daysAgo(3))
	history.staff = []models.StaffRating{{AssignmentID: "a-1", Overall: 5}}
	history.customer = []models.CustomerRating{{AssignmentID: "a-1", Overall: 5}}
	r := newTestRecalculator(workers, history, nil)

	snapshot, err := r.Recalculate(context.Background(), "w-1")
	require.NoError(t, err)
	assert.Equal(t, scoring.TierElite, snapshot.Tier)
	assert.Equal(t, models.FlagList{scoring.FlagTerminateRecommended}, snapshot.Flags)
}

func TestRecalculateMalformedHistory(t *testing.T) {
	workers := newStubWorkerStore("w-1")
	history := newStubHistory()
	history.addJob("w-1", "a-1", daysAgo(3))
	history.staff = []models.StaffRating{{AssignmentID: "a-1", Overall: 7}}
	r := newTestRecalculator(workers, history, nil)

	_, err := r.Recalculate(context.Background(), "w-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMalformedHistory.Code, appErrors.FromError(err).Code)
	assert.Empty(t, workers.snapshots)
}

func TestRecalculateInvalidatesCache(t *testing.T) {
	workers := newStubWorkerStore("w-1")
	cache := newMemoryCache()
	r := newTestRecalculator(workers, newStubHistory(), cache)

	_, err := r.Recalculate(context.Background(), "w-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{workerCacheKey("w-1"), dashboardCacheKey()}, cache.deleted)
}

func TestWriteAndRecalculate(t *testing.T) {
	workers := newStubWorkerStore("w-1")
	history := newStubHistory()
	r := newTestRecalculator(workers, history, nil)

	snapshot, err := r.WriteAndRecalculate(context.Background(), "w-1", TriggerAssignmentCreated, func(context.Context) error {
		history.addJob("w-1", "a-1", daysAgo(1))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.TotalJobs)
}

func TestWriteAndRecalculateWriteFailureSkipsRecompute(t *testing.T) {
	workers := newStubWorkerStore("w-1")
	r := newTestRecalculator(workers, newStubHistory(), nil)

	writeErr := errors.New("insert failed")
	_, err := r.WriteAndRecalculate(context.Background(), "w-1", TriggerStaffRating, func(context.Context) error { return writeErr })
	assert.ErrorIs(t, err, writeErr)
	assert.Empty(t, workers.snapshots)
}

func TestWriteAndRecalculateRecomputeFailure(t *testing.T) {
	workers := newStubWorkerStore("w-1")
	workers.updateErr = errors.New("deadlock detected")
	r := newTestRecalculator(workers, newStubHistory(), nil)

	written := false
	_, err := r.WriteAndRecalculate(context.Background(), "w-1", TriggerAttendanceEvent, func(context.Context) error {
		written = true
		return nil
	})
	require.Error(t, err)
	assert.True(t, written)
	assert.Equal(t, appErrors.ErrRecompute.Code, appErrors.FromError(err).Code)
}

func TestRecalculateAllCollectsFailures(t *testing.T) {
	workers := newStubWorkerStore("w-1", "w-2")
	history := newStubHistory()
	history.addJob("w-2", "a-1", daysAgo(1))
	history.staff = []models.StaffRating{{AssignmentID: "a-1", Overall: 0}}
	r := newTestRecalculator(workers, history, nil)

	result, err := r.RecalculateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Succeeded)
	assert.Contains(t, result.Failed, "w-2")
}

func TestDeriveScoringInput(t *testing.T) {
	history := workerHistory{}
	for i := 0; i < 7; i++ {
		history.Assignments = append(history.Assignments, models.Assignment{ID: fmt.Sprintf("a-%d", i), ScheduledStart: daysAgo(70 - i*10)})
	}
	// a-0 is the oldest, a-6 the most recent.
	history.Events = []models.AttendanceEvent{
		{AssignmentID: "a-0", EventType: models.EventNCNS, OccurredAt: daysAgo(70)},
		{AssignmentID: "a-5", EventType: models.EventNCNS, OccurredAt: daysAgo(20)},
		{AssignmentID: "a-6", EventType: models.EventLate, OccurredAt: daysAgo(10)},
		{AssignmentID: "a-6", EventType: models.EventCompleted, OccurredAt: daysAgo(10)},
		{AssignmentID: "a-4", EventType: models.EventSentHome, OccurredAt: daysAgo(31)},
	}
	five, four, three := 5, 4, 3
	history.StaffRatings = []models.StaffRating{{AssignmentID: "a-6", Overall: three}, {AssignmentID: "a-3", Overall: five}}
	history.CustomerRatings = []models.CustomerRating{{AssignmentID: "a-6", Overall: four}, {AssignmentID: "a-1", Overall: four}}

	input, err := deriveScoringInput(history, false, recalcNow, DefaultIncidentWindow)
	require.NoError(t, err)

	assert.Equal(t, scoring.ReliabilityInput{TotalJobs: 7, Late: 1, SentHome: 1, NCNS: 2}, input.Attendance)
	assert.Equal(t, 2, input.IncidentsLast30Days)
	assert.Equal(t, 1, input.NCNSInLastFive)
	require.Len(t, input.RecentRatings, 3)
	assert.InDelta(t, 0.65*4+0.35*3, input.RecentRatings[0], 1e-9)
	assert.Equal(t, 5.0, input.RecentRatings[1])
	assert.Equal(t, 4.0, input.RecentRatings[2])
	assert.Len(t, input.Jobs, 7)
}

func TestDeriveScoringInputRejectsUnknownEvent(t *testing.T) {
	history := workerHistory{
		Assignments: []models.Assignment{{ID: "a-1", ScheduledStart: daysAgo(1)}},
		Events:      []models.AttendanceEvent{{AssignmentID: "a-1", EventType: "teleported", OccurredAt: daysAgo(1)}},
	}
	_, err := deriveScoringInput(history, false, recalcNow, DefaultIncidentWindow)
	assert.ErrorIs(t, err, scoring.ErrMalformedInput)
}

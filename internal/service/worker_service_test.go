package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewpulse/crewpulse-api/internal/dto"
	"github.com/crewpulse/crewpulse-api/internal/models"
	"github.com/crewpulse/crewpulse-api/internal/repository"
	"github.com/crewpulse/crewpulse-api/internal/scoring"
	appErrors "github.com/crewpulse/crewpulse-api/pkg/errors"
)

// fakeRecalc runs the write and hands back a fixed snapshot.
type fakeRecalc struct {
	snapshot  models.WorkerSnapshot
	err       error
	workerIDs []string
	triggers  []Trigger
}

func (f *fakeRecalc) Recalculate(_ context.Context, workerID string) (*models.WorkerSnapshot, error) {
	return f.record(workerID, TriggerManual)
}

func (f *fakeRecalc) WriteAndRecalculate(ctx context.Context, workerID string, trigger Trigger, write func(context.Context) error) (*models.WorkerSnapshot, error) {
	if err := write(ctx); err != nil {
		return nil, err
	}
	return f.record(workerID, trigger)
}

func (f *fakeRecalc) record(workerID string, trigger Trigger) (*models.WorkerSnapshot, error) {
	f.workerIDs = append(f.workerIDs, workerID)
	f.triggers = append(f.triggers, trigger)
	if f.err != nil {
		return nil, f.err
	}
	snapshot := f.snapshot
	snapshot.WorkerID = workerID
	return &snapshot, nil
}

type workerRepoStub struct {
	workers   map[string]*models.Worker
	created   []*models.Worker
	createErr error
	listed    models.WorkerFilter
	gets      int
}

func newWorkerRepoStub(workers ...models.Worker) *workerRepoStub {
	stub := &workerRepoStub{workers: map[string]*models.Worker{}}
	for i := range workers {
		w := workers[i]
		stub.workers[w.ID] = &w
	}
	return stub
}

func (s *workerRepoStub) GetByID(_ context.Context, id string) (*models.Worker, error) {
	s.gets++
	w, ok := s.workers[id]
	if !ok {
		return nil, fmt.Errorf("get worker: %w", sql.ErrNoRows)
	}
	copyWorker := *w
	return &copyWorker, nil
}

func (s *workerRepoStub) List(_ context.Context, filter models.WorkerFilter) ([]models.Worker, int, error) {
	s.listed = filter
	out := make([]models.Worker, 0, len(s.workers))
	for _, w := range s.workers {
		out = append(out, *w)
	}
	return out, len(out), nil
}

func (s *workerRepoStub) Create(_ context.Context, worker *models.Worker) error {
	if s.createErr != nil {
		return s.createErr
	}
	worker.ID = fmt.Sprintf("w-%d", len(s.created)+1)
	worker.WorkerSnapshot = models.DefaultSnapshot(worker.ID)
	s.created = append(s.created, worker)
	s.workers[worker.ID] = worker
	return nil
}

func (s *workerRepoStub) SetSevereIncident(_ context.Context, id string, severe bool) error {
	w, ok := s.workers[id]
	if !ok {
		return fmt.Errorf("set severe incident: %w", sql.ErrNoRows)
	}
	w.SevereIncident = severe
	return nil
}

func (s *workerRepoStub) Exists(_ context.Context, id string) (bool, error) {
	_, ok := s.workers[id]
	return ok, nil
}

func sampleWorker(id string) models.Worker {
	return models.Worker{
		ID:             id,
		EmployeeCode:   "EMP-" + id,
		FirstName:      "Ana",
		LastName:       "Lopez",
		Status:         models.WorkerStatusActive,
		WorkerSnapshot: models.DefaultSnapshot(id),
		CreatedAt:      time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		UpdatedAt:      time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestWorkerServiceCreate(t *testing.T) {
	repo := newWorkerRepoStub()
	cache := newMemoryCache()
	svc := NewWorkerService(repo, &fakeRecalc{}, NewCacheService(cache, nil, time.Minute, nil), nil, nil)

	resp, err := svc.Create(context.Background(), dto.CreateWorkerRequest{EmployeeCode: "E-1", FirstName: "Ana", LastName: "Lopez"})
	require.NoError(t, err)
	assert.Equal(t, "w-1", resp.ID)
	assert.Equal(t, models.WorkerStatusActive, resp.Status)
	assert.Equal(t, 5.0, resp.Scores.ReliabilityScore)
	assert.Equal(t, scoring.TierCritical, resp.Scores.Tier)
	assert.Contains(t, cache.deleted, dashboardCacheKey())
}

func TestWorkerServiceCreateValidation(t *testing.T) {
	svc := NewWorkerService(newWorkerRepoStub(), &fakeRecalc{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateWorkerRequest{FirstName: "Ana", LastName: "Lopez"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "employee_code is required", appErr.Message)
}

func TestWorkerServiceCreateDuplicateCode(t *testing.T) {
	repo := newWorkerRepoStub()
	repo.createErr = fmt.Errorf("create worker: %w", repository.ErrDuplicate)
	svc := NewWorkerService(repo, &fakeRecalc{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateWorkerRequest{EmployeeCode: "E-1", FirstName: "Ana", LastName: "Lopez"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestWorkerServiceGetUsesCache(t *testing.T) {
	repo := newWorkerRepoStub(sampleWorker("w-1"))
	svc := NewWorkerService(repo, &fakeRecalc{}, NewCacheService(newMemoryCache(), NewMetricsService(), time.Minute, nil), nil, nil)

	first, hit, err := svc.Get(context.Background(), "w-1")
	require.NoError(t, err)
	assert.False(t, hit)
	second, hit, err := svc.Get(context.Background(), "w-1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Scores.DisplayStatus, second.Scores.DisplayStatus)
	assert.Equal(t, 1, repo.gets)
}

func TestWorkerServiceGetUnknown(t *testing.T) {
	svc := NewWorkerService(newWorkerRepoStub(), &fakeRecalc{}, nil, nil, nil)

	_, _, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownWorker.Code, appErrors.FromError(err).Code)
}

func TestWorkerServiceListValidatesAndPaginates(t *testing.T) {
	repo := newWorkerRepoStub(sampleWorker("w-1"), sampleWorker("w-2"))
	svc := NewWorkerService(repo, &fakeRecalc{}, nil, nil, nil)

	items, pagination, err := svc.List(context.Background(), dto.WorkerListQuery{Tier: "Critical", PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, &models.Pagination{Page: 1, PageSize: 10, TotalCount: 2}, pagination)
	require.NotNil(t, repo.listed.Tier)
	assert.Equal(t, scoring.TierCritical, *repo.listed.Tier)

	_, _, err = svc.List(context.Background(), dto.WorkerListQuery{Flag: "vip"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestWorkerServiceSetSevereIncidentRecomputes(t *testing.T) {
	repo := newWorkerRepoStub(sampleWorker("w-1"))
	recalc := &fakeRecalc{}
	svc := NewWorkerService(repo, recalc, nil, nil, nil)

	severe := true
	resp, err := svc.SetSevereIncident(context.Background(), "w-1", dto.SevereIncidentRequest{SevereIncident: &severe})
	require.NoError(t, err)
	assert.True(t, resp.SevereIncident)
	assert.Equal(t, []Trigger{TriggerSevereIncident}, recalc.triggers)
}

func TestWorkerServiceSetSevereIncidentUnknownWorker(t *testing.T) {
	recalc := &fakeRecalc{}
	svc := NewWorkerService(newWorkerRepoStub(), recalc, nil, nil, nil)

	severe := false
	_, err := svc.SetSevereIncident(context.Background(), "ghost", dto.SevereIncidentRequest{SevereIncident: &severe})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownWorker.Code, appErrors.FromError(err).Code)
	assert.Empty(t, recalc.triggers)
}

func TestWorkerServiceRecalculate(t *testing.T) {
	recalc := &fakeRecalc{snapshot: models.WorkerSnapshot{PerformanceScore: 4.6, ReliabilityScore: 5, Tier: scoring.TierElite, Flags: models.FlagList{}}}
	svc := NewWorkerService(newWorkerRepoStub(sampleWorker("w-1")), recalc, nil, nil, nil)

	resp, err := svc.Recalculate(context.Background(), "w-1")
	require.NoError(t, err)
	assert.Equal(t, scoring.TierElite, resp.Tier)
	assert.Equal(t, scoring.StatusStrong, resp.DisplayStatus)
	assert.Equal(t, []string{"w-1"}, recalc.workerIDs)
}

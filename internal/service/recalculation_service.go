package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/crewpulse/crewpulse-api/internal/models"
	"github.com/crewpulse/crewpulse-api/internal/scoring"
	appErrors "github.com/crewpulse/crewpulse-api/pkg/errors"
)

// Trigger names the write that caused a recompute.
type Trigger string

const (
	TriggerAssignmentCreated Trigger = "assignment_created"
	TriggerAttendanceEvent   Trigger = "attendance_event"
	TriggerStaffRating       Trigger = "staff_rating"
	TriggerCustomerRating    Trigger = "customer_rating"
	TriggerSevereIncident    Trigger = "severe_incident"
	TriggerManual            Trigger = "manual"
	TriggerBackfill          Trigger = "backfill"
)

// DefaultIncidentWindow is the trailing window for counting recent incidents.
const DefaultIncidentWindow = 30 * 24 * time.Hour

type snapshotWorkerRepository interface {
	GetByID(ctx context.Context, id string) (*models.Worker, error)
	UpdateSnapshot(ctx context.Context, snapshot models.WorkerSnapshot) error
	ListIDs(ctx context.Context) ([]string, error)
}

type historyAssignmentRepository interface {
	ListByWorker(ctx context.Context, workerID string) ([]models.Assignment, error)
	ListEventsByAssignments(ctx context.Context, assignmentIDs []string) ([]models.AttendanceEvent, error)
}

type historyRatingRepository interface {
	ListStaffByAssignments(ctx context.Context, assignmentIDs []string) ([]models.StaffRating, error)
	ListCustomerByAssignments(ctx context.Context, assignmentIDs []string) ([]models.CustomerRating, error)
}

type cacheInvalidator interface {
	Delete(ctx context.Context, keys ...string) error
}

// RecalculatorConfig tunes the recompute pipeline.
type RecalculatorConfig struct {
	IncidentWindow time.Duration
}

// BackfillResult summarises a RecalculateAll run.
type BackfillResult struct {
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    map[string]string `json:"failed,omitempty"`
}

// Recalculator rebuilds a worker's snapshot from the complete history. It
// owns the per-worker lock that keeps a write and its recompute together.
type Recalculator struct {
	workers     snapshotWorkerRepository
	assignments historyAssignmentRepository
	ratings     historyRatingRepository
	cache       cacheInvalidator
	metrics     *MetricsService
	locks       *WorkerLocks
	logger      *zap.Logger
	cfg         RecalculatorConfig
	now         func() time.Time
}

// NewRecalculator constructs the orchestrator. cache and metrics may be nil.
func NewRecalculator(workers snapshotWorkerRepository, assignments historyAssignmentRepository, ratings historyRatingRepository, cache cacheInvalidator, metrics *MetricsService, logger *zap.Logger, cfg RecalculatorConfig) *Recalculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.IncidentWindow <= 0 {
		cfg.IncidentWindow = DefaultIncidentWindow
	}
	return &Recalculator{
		workers:     workers,
		assignments: assignments,
		ratings:     ratings,
		cache:       cache,
		metrics:     metrics,
		locks:       NewWorkerLocks(),
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Recalculate recomputes one worker on demand.
func (r *Recalculator) Recalculate(ctx context.Context, workerID string) (*models.WorkerSnapshot, error) {
	release := r.locks.Lock(workerID)
	defer release()
	return r.recalculate(ctx, workerID, TriggerManual)
}

// WriteAndRecalculate runs write and then the recompute of the affected
// worker under that worker's lock. A failed write skips the recompute. A
// failed recompute after a successful write is reported as ErrRecompute; the
// write is kept.
func (r *Recalculator) WriteAndRecalculate(ctx context.Context, workerID string, trigger Trigger, write func(context.Context) error) (*models.WorkerSnapshot, error) {
	release := r.locks.Lock(workerID)
	defer release()

	if err := write(ctx); err != nil {
		return nil, err
	}
	snapshot, err := r.recalculate(ctx, workerID, trigger)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrUnknownWorker.Code {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrRecompute.Code, appErrors.ErrRecompute.Status, appErrors.ErrRecompute.Message)
	}
	return snapshot, nil
}

// RecalculateAll recomputes every worker one at a time. Individual failures
// are collected and do not stop the run.
func (r *Recalculator) RecalculateAll(ctx context.Context) (*BackfillResult, error) {
	ids, err := r.workers.ListIDs(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list workers")
	}
	result := &BackfillResult{Total: len(ids), Failed: map[string]string{}}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		release := r.locks.Lock(id)
		_, err := r.recalculate(ctx, id, TriggerBackfill)
		release()
		if err != nil {
			result.Failed[id] = err.Error()
			continue
		}
		result.Succeeded++
	}
	return result, nil
}

func (r *Recalculator) recalculate(ctx context.Context, workerID string, trigger Trigger) (*models.WorkerSnapshot, error) {
	start := time.Now()
	snapshot, err := r.compute(ctx, workerID)
	duration := time.Since(start)

	fields := []zap.Field{zap.String("worker_id", workerID), zap.String("trigger", string(trigger)), zap.Duration("duration", duration)}
	if err != nil {
		r.metrics.RecordRecompute(string(trigger), RecomputeFailure, duration)
		r.logger.Error("worker recompute failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	r.metrics.RecordRecompute(string(trigger), RecomputeSuccess, duration)
	r.logger.Info("worker recomputed", append(fields,
		zap.Float64("performance_score", snapshot.PerformanceScore),
		zap.Float64("reliability_score", snapshot.ReliabilityScore),
		zap.String("tier", string(snapshot.Tier)),
		zap.Strings("flags", snapshot.Flags.Strings()),
	)...)

	if r.cache != nil {
		if err := r.cache.Delete(ctx, workerCacheKey(workerID), dashboardCacheKey()); err != nil {
			r.logger.Warn("cache invalidation after recompute failed", zap.String("worker_id", workerID), zap.Error(err))
		}
	}
	return snapshot, nil
}

func (r *Recalculator) compute(ctx context.Context, workerID string) (*models.WorkerSnapshot, error) {
	worker, err := r.workers.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnknownWorker, "worker "+workerID+" not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load worker")
	}

	history, err := r.loadHistory(ctx, workerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load worker history")
	}

	now := r.now().UTC()
	input, err := deriveScoringInput(history, worker.SevereIncident, now, r.cfg.IncidentWindow)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedHistory.Code, appErrors.ErrMalformedHistory.Status, appErrors.ErrMalformedHistory.Message)
	}
	result, err := scoring.Evaluate(input)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedHistory.Code, appErrors.ErrMalformedHistory.Status, appErrors.ErrMalformedHistory.Message)
	}

	snapshot := models.WorkerSnapshot{
		WorkerID:         workerID,
		PerformanceScore: result.PerformanceScore,
		ReliabilityScore: result.ReliabilityScore,
		LateRate:         result.LateRate,
		NCNSRate:         result.NCNSRate,
		Tier:             result.Tier,
		Flags:            models.FlagList(result.Flags),
		TotalJobs:        input.Attendance.TotalJobs,
		ScoredAt:         &now,
	}
	if err := r.workers.UpdateSnapshot(ctx, snapshot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnknownWorker, "worker "+workerID+" not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store worker snapshot")
	}
	return &snapshot, nil
}

// workerHistory is everything recorded for one worker.
type workerHistory struct {
	Assignments     []models.Assignment
	Events          []models.AttendanceEvent
	StaffRatings    []models.StaffRating
	CustomerRatings []models.CustomerRating
}

func (r *Recalculator) loadHistory(ctx context.Context, workerID string) (workerHistory, error) {
	var history workerHistory
	assignments, err := r.assignments.ListByWorker(ctx, workerID)
	if err != nil {
		return history, err
	}
	history.Assignments = assignments
	if len(assignments) == 0 {
		return history, nil
	}

	ids := make([]string, len(assignments))
	for i, a := range assignments {
		ids[i] = a.ID
	}
	if history.Events, err = r.assignments.ListEventsByAssignments(ctx, ids); err != nil {
		return history, err
	}
	if history.StaffRatings, err = r.ratings.ListStaffByAssignments(ctx, ids); err != nil {
		return history, err
	}
	if history.CustomerRatings, err = r.ratings.ListCustomerByAssignments(ctx, ids); err != nil {
		return history, err
	}
	return history, nil
}

// deriveScoringInput turns raw history into the engine's input. Events of an
// unknown type make the history malformed.
func deriveScoringInput(history workerHistory, severeIncident bool, now time.Time, window time.Duration) (scoring.Input, error) {
	staff := make(map[string]*int, len(history.StaffRatings))
	for i := range history.StaffRatings {
		staff[history.StaffRatings[i].AssignmentID] = &history.StaffRatings[i].Overall
	}
	customer := make(map[string]*int, len(history.CustomerRatings))
	for i := range history.CustomerRatings {
		customer[history.CustomerRatings[i].AssignmentID] = &history.CustomerRatings[i].Overall
	}

	assignments := make([]models.Assignment, len(history.Assignments))
	copy(assignments, history.Assignments)
	sort.SliceStable(assignments, func(i, j int) bool {
		return assignments[i].ScheduledStart.Before(assignments[j].ScheduledStart)
	})

	input := scoring.Input{
		Jobs:           make([]scoring.RatedJob, 0, len(assignments)),
		Attendance:     scoring.ReliabilityInput{TotalJobs: len(assignments)},
		SevereIncident: severeIncident,
	}
	for _, a := range assignments {
		input.Jobs = append(input.Jobs, scoring.RatedJob{
			StaffRating:    staff[a.ID],
			CustomerRating: customer[a.ID],
			ScheduledStart: a.ScheduledStart,
		})
	}

	recentFive := make(map[string]struct{}, scoring.TrendWindow)
	for i := len(assignments) - 1; i >= 0 && len(recentFive) < scoring.TrendWindow; i-- {
		recentFive[assignments[i].ID] = struct{}{}
	}

	windowStart := now.Add(-window)
	for _, event := range history.Events {
		if !event.EventType.Valid() {
			return scoring.Input{}, scoring.ErrMalformedInput
		}
		switch event.EventType {
		case models.EventLate:
			input.Attendance.Late++
		case models.EventSentHome:
			input.Attendance.SentHome++
		case models.EventNCNS:
			input.Attendance.NCNS++
			if _, ok := recentFive[event.AssignmentID]; ok {
				input.NCNSInLastFive++
			}
		}
		if event.EventType.IsIncident() && !event.OccurredAt.Before(windowStart) && !event.OccurredAt.After(now) {
			input.IncidentsLast30Days++
		}
	}

	for i := len(input.Jobs) - 1; i >= 0 && len(input.RecentRatings) < scoring.TrendWindow; i-- {
		if combined, ok := scoring.CombinedRating(input.Jobs[i].StaffRating, input.Jobs[i].CustomerRating); ok {
			input.RecentRatings = append(input.RecentRatings, combined)
		}
	}
	return input, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/crewpulse/crewpulse-api/internal/models"
)

// ErrDuplicate is returned when an insert hits a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

const uniqueViolation = pq.ErrorCode("23505")

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

const workerColumns = `id, employee_code, first_name, last_name, phone, email, status, severe_incident,
        performance_score, reliability_score, late_rate, ncns_rate, tier, flags, total_jobs, scored_at,
        created_at, updated_at`

// WorkerRepository persists workers and their score snapshot.
type WorkerRepository struct {
	db *sqlx.DB
}

// NewWorkerRepository constructs a WorkerRepository.
func NewWorkerRepository(db *sqlx.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

// GetByID returns the worker with its current snapshot. Missing rows surface as sql.ErrNoRows.
func (r *WorkerRepository) GetByID(ctx context.Context, id string) (*models.Worker, error) {
	query := "SELECT " + workerColumns + " FROM workers WHERE id = $1"
	var worker models.Worker
	if err := r.db.GetContext(ctx, &worker, query, id); err != nil {
		return nil, fmt.Errorf("get worker: %w", err)
	}
	worker.WorkerID = worker.ID
	return &worker, nil
}

// Exists reports whether a worker row exists.
func (r *WorkerRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM workers WHERE id = $1)", id); err != nil {
		return false, fmt.Errorf("check worker: %w", err)
	}
	return exists, nil
}

// List returns workers matching the filter, most at-risk first.
func (r *WorkerRepository) List(ctx context.Context, filter models.WorkerFilter) ([]models.Worker, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Tier != nil {
		args = append(args, *filter.Tier)
		conditions = append(conditions, fmt.Sprintf("tier = $%d", len(args)))
	}
	if filter.Flag != nil {
		args = append(args, string(*filter.Flag))
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(flags)", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(LOWER(first_name || ' ' || last_name) LIKE $%d OR LOWER(employee_code) LIKE $%d)", len(args), len(args)))
	}
	where := "WHERE " + strings.Join(conditions, " AND ")

	page, size := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf("SELECT %s FROM workers %s ORDER BY performance_score ASC, last_name ASC, id ASC LIMIT %d OFFSET %d",
		workerColumns, where, size, (page-1)*size)

	var workers []models.Worker
	if err := r.db.SelectContext(ctx, &workers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list workers: %w", err)
	}
	for i := range workers {
		workers[i].WorkerID = workers[i].ID
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM workers "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count workers: %w", err)
	}
	return workers, total, nil
}

// ListAll returns every worker ordered by employee code, optionally only flagged ones.
func (r *WorkerRepository) ListAll(ctx context.Context, flaggedOnly bool) ([]models.Worker, error) {
	query := "SELECT " + workerColumns + " FROM workers"
	if flaggedOnly {
		query += " WHERE cardinality(flags) > 0"
	}
	query += " ORDER BY employee_code ASC"

	var workers []models.Worker
	if err := r.db.SelectContext(ctx, &workers, query); err != nil {
		return nil, fmt.Errorf("list all workers: %w", err)
	}
	for i := range workers {
		workers[i].WorkerID = workers[i].ID
	}
	return workers, nil
}

// ListIDs returns every worker id in a stable order.
func (r *WorkerRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, "SELECT id FROM workers ORDER BY created_at ASC, id ASC"); err != nil {
		return nil, fmt.Errorf("list worker ids: %w", err)
	}
	return ids, nil
}

// Create inserts a worker carrying the default snapshot.
func (r *WorkerRepository) Create(ctx context.Context, worker *models.Worker) error {
	if worker.ID == "" {
		worker.ID = uuid.NewString()
	}
	if worker.Status == "" {
		worker.Status = models.WorkerStatusActive
	}
	now := time.Now().UTC()
	worker.CreatedAt = now
	worker.UpdatedAt = now
	worker.WorkerSnapshot = models.DefaultSnapshot(worker.ID)

	const query = `INSERT INTO workers (id, employee_code, first_name, last_name, phone, email, status, severe_incident,
        performance_score, reliability_score, late_rate, ncns_rate, tier, flags, total_jobs, scored_at, created_at, updated_at)
        VALUES (:id, :employee_code, :first_name, :last_name, :phone, :email, :status, :severe_incident,
        :performance_score, :reliability_score, :late_rate, :ncns_rate, :tier, :flags, :total_jobs, :scored_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, worker); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create worker: %w", ErrDuplicate)
		}
		return fmt.Errorf("create worker: %w", err)
	}
	return nil
}

// UpdateSnapshot overwrites every snapshot column of one worker in a single statement.
func (r *WorkerRepository) UpdateSnapshot(ctx context.Context, snapshot models.WorkerSnapshot) error {
	const query = `UPDATE workers SET performance_score = $1, reliability_score = $2, late_rate = $3, ncns_rate = $4,
        tier = $5, flags = $6, total_jobs = $7, scored_at = $8, updated_at = $8 WHERE id = $9`
	result, err := r.db.ExecContext(ctx, query,
		snapshot.PerformanceScore,
		snapshot.ReliabilityScore,
		snapshot.LateRate,
		snapshot.NCNSRate,
		snapshot.Tier,
		snapshot.Flags,
		snapshot.TotalJobs,
		snapshot.ScoredAt,
		snapshot.WorkerID,
	)
	if err != nil {
		return fmt.Errorf("update worker snapshot: %w", err)
	}
	return expectOneRow(result, "update worker snapshot")
}

// SetSevereIncident stores the external severe-incident classification.
func (r *WorkerRepository) SetSevereIncident(ctx context.Context, id string, severe bool) error {
	result, err := r.db.ExecContext(ctx, "UPDATE workers SET severe_incident = $1, updated_at = $2 WHERE id = $3", severe, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set severe incident: %w", err)
	}
	return expectOneRow(result, "set severe incident")
}

func expectOneRow(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, sql.ErrNoRows)
	}
	return nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}

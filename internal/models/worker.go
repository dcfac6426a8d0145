package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/crewpulse/crewpulse-api/internal/scoring"
)

// WorkerStatus is the employment state staff assign to a worker.
type WorkerStatus string

const (
	WorkerStatusActive   WorkerStatus = "ACTIVE"
	WorkerStatusInactive WorkerStatus = "INACTIVE"
	WorkerStatusHold     WorkerStatus = "HOLD"
)

// FlagList persists scoring flags as a Postgres text[] column.
type FlagList []scoring.Flag

// Value implements driver.Valuer.
func (f FlagList) Value() (driver.Value, error) {
	values := make(pq.StringArray, len(f))
	for i, flag := range f {
		values[i] = string(flag)
	}
	return values.Value()
}

// Scan implements sql.Scanner.
func (f *FlagList) Scan(src interface{}) error {
	var values pq.StringArray
	if err := values.Scan(src); err != nil {
		return fmt.Errorf("scan worker flags: %w", err)
	}
	list := make(FlagList, len(values))
	for i, v := range values {
		list[i] = scoring.Flag(v)
	}
	*f = list
	return nil
}

// Strings returns the flags as plain labels.
func (f FlagList) Strings() []string {
	out := make([]string, len(f))
	for i, flag := range f {
		out[i] = string(flag)
	}
	return out
}

// WorkerSnapshot is the derived scoring record of a worker. It is overwritten
// as a whole on every recompute.
type WorkerSnapshot struct {
	WorkerID         string       `db:"-" json:"worker_id"`
	PerformanceScore float64      `db:"performance_score" json:"performance_score"`
	ReliabilityScore float64      `db:"reliability_score" json:"reliability_score"`
	LateRate         float64      `db:"late_rate" json:"late_rate"`
	NCNSRate         float64      `db:"ncns_rate" json:"ncns_rate"`
	Tier             scoring.Tier `db:"tier" json:"tier"`
	Flags            FlagList     `db:"flags" json:"flags"`
	TotalJobs        int          `db:"total_jobs" json:"total_jobs"`
	ScoredAt         *time.Time   `db:"scored_at" json:"scored_at,omitempty"`
}

// DefaultSnapshot is the snapshot of a worker nothing has been recorded for yet.
func DefaultSnapshot(workerID string) WorkerSnapshot {
	return WorkerSnapshot{
		WorkerID:         workerID,
		ReliabilityScore: scoring.MaxScore,
		Tier:             scoring.MapTier(0),
		Flags:            FlagList{},
	}
}

// DisplayStatus derives the dashboard status for the snapshot.
func (s WorkerSnapshot) DisplayStatus() scoring.Status {
	return scoring.DeriveStatus(scoring.StatusInput{
		PerformanceScore: s.PerformanceScore,
		ReliabilityScore: s.ReliabilityScore,
		LateRate:         s.LateRate,
		NCNSRate:         s.NCNSRate,
		Flags:            s.Flags,
	})
}

// Worker is a temporary-staffing worker together with the current snapshot.
type Worker struct {
	ID             string       `db:"id" json:"id"`
	EmployeeCode   string       `db:"employee_code" json:"employee_code"`
	FirstName      string       `db:"first_name" json:"first_name"`
	LastName       string       `db:"last_name" json:"last_name"`
	Phone          *string      `db:"phone" json:"phone,omitempty"`
	Email          *string      `db:"email" json:"email,omitempty"`
	Status         WorkerStatus `db:"status" json:"status"`
	SevereIncident bool         `db:"severe_incident" json:"severe_incident"`
	WorkerSnapshot
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FullName joins the first and last name.
func (w Worker) FullName() string {
	return w.FirstName + " " + w.LastName
}

// WorkerFilter narrows worker listings.
type WorkerFilter struct {
	Status   *WorkerStatus
	Tier     *scoring.Tier
	Flag     *scoring.Flag
	Search   string
	Page     int
	PageSize int
}

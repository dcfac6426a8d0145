package dto

import (
	"time"

	"github.com/crewpulse/crewpulse-api/internal/models"
	"github.com/crewpulse/crewpulse-api/internal/scoring"
)

// CreateWorkerRequest is the body of POST /workers.
type CreateWorkerRequest struct {
	EmployeeCode string  `json:"employee_code" validate:"required,max=32"`
	FirstName    string  `json:"first_name" validate:"required,max=100"`
	LastName     string  `json:"last_name" validate:"required,max=100"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
}

// WorkerListQuery is the query string of GET /workers.
type WorkerListQuery struct {
	Status   string `form:"status" validate:"omitempty,oneof=ACTIVE INACTIVE HOLD"`
	Tier     string `form:"tier" validate:"omitempty,oneof=Elite Strong Solid 'At Risk' Critical"`
	Flag     string `form:"flag" validate:"omitempty,oneof=needs-review terminate-recommended"`
	Search   string `form:"search" validate:"omitempty,max=100"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// Filter converts the query into a repository filter.
func (q WorkerListQuery) Filter() models.WorkerFilter {
	filter := models.WorkerFilter{Search: q.Search, Page: q.Page, PageSize: q.PageSize}
	if q.Status != "" {
		status := models.WorkerStatus(q.Status)
		filter.Status = &status
	}
	if q.Tier != "" {
		tier := scoring.Tier(q.Tier)
		filter.Tier = &tier
	}
	if q.Flag != "" {
		flag := scoring.Flag(q.Flag)
		filter.Flag = &flag
	}
	return filter
}

// SevereIncidentRequest is the body of PUT /workers/:id/severe-incident.
type SevereIncidentRequest struct {
	SevereIncident *bool `json:"severe_incident" validate:"required"`
}

// WorkerResponse is a worker profile with its snapshot and display status.
type WorkerResponse struct {
	ID             string              `json:"id"`
	EmployeeCode   string              `json:"employee_code"`
	FirstName      string              `json:"first_name"`
	LastName       string              `json:"last_name"`
	Phone          *string             `json:"phone,omitempty"`
	Email          *string             `json:"email,omitempty"`
	Status         models.WorkerStatus `json:"status"`
	SevereIncident bool                `json:"severe_incident"`
	Scores         SnapshotResponse    `json:"scores"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// SnapshotResponse renders a score snapshot for clients.
type SnapshotResponse struct {
	PerformanceScore float64        `json:"performance_score"`
	ReliabilityScore float64        `json:"reliability_score"`
	LateRate         float64        `json:"late_rate"`
	NCNSRate         float64        `json:"ncns_rate"`
	Tier             scoring.Tier   `json:"tier"`
	Flags            []scoring.Flag `json:"flags"`
	TotalJobs        int            `json:"total_jobs"`
	DisplayStatus    scoring.Status `json:"display_status"`
	DisplayLabel     string         `json:"display_label"`
	ScoredAt         *time.Time     `json:"scored_at,omitempty"`
}

// NewSnapshotResponse derives the display status for a snapshot.
func NewSnapshotResponse(s models.WorkerSnapshot) SnapshotResponse {
	status := s.DisplayStatus()
	flags := []scoring.Flag(s.Flags)
	if flags == nil {
		flags = []scoring.Flag{}
	}
	return SnapshotResponse{
		PerformanceScore: s.PerformanceScore,
		ReliabilityScore: s.ReliabilityScore,
		LateRate:         s.LateRate,
		NCNSRate:         s.NCNSRate,
		Tier:             s.Tier,
		Flags:            flags,
		TotalJobs:        s.TotalJobs,
		DisplayStatus:    status,
		DisplayLabel:     status.Label(),
		ScoredAt:         s.ScoredAt,
	}
}

// NewWorkerResponse maps a stored worker.
func NewWorkerResponse(w models.Worker) WorkerResponse {
	return WorkerResponse{
		ID:             w.ID,
		EmployeeCode:   w.EmployeeCode,
		FirstName:      w.FirstName,
		LastName:       w.LastName,
		Phone:          w.Phone,
		Email:          w.Email,
		Status:         w.Status,
		SevereIncident: w.SevereIncident,
		Scores:         NewSnapshotResponse(w.WorkerSnapshot),
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
}

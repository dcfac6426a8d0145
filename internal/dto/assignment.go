package dto

import (
	"time"

	"github.com/crewpulse/crewpulse-api/internal/models"
)

// CreateAssignmentRequest is the body of POST /assignments.
type CreateAssignmentRequest struct {
	WorkerID       string     `json:"worker_id" validate:"required"`
	Category       string     `json:"category" validate:"required,job_category"`
	ScheduledStart time.Time  `json:"scheduled_start" validate:"required"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty" validate:"omitempty,gtfield=ScheduledStart"`
}

// RecordEventRequest is the body of POST /assignments/:id/events.
type RecordEventRequest struct {
	EventType  string     `json:"event_type" validate:"required,event_type"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
	Notes      *string    `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// StaffRatingRequest is the body of POST /assignments/:id/staff-rating.
type StaffRatingRequest struct {
	Overall       int      `json:"overall" validate:"required,min=1,max=5"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,max=40"`
	InternalNotes *string  `json:"internal_notes,omitempty" validate:"omitempty,max=2000"`
}

// CustomerRatingRequest is the body of POST /assignments/:id/customer-rating.
type CustomerRatingRequest struct {
	Overall     int     `json:"overall" validate:"required,min=1,max=5"`
	Punctuality *int    `json:"punctuality,omitempty" validate:"omitempty,min=1,max=5"`
	WorkEthic   *int    `json:"work_ethic,omitempty" validate:"omitempty,min=1,max=5"`
	Attitude    *int    `json:"attitude,omitempty" validate:"omitempty,min=1,max=5"`
	Quality     *int    `json:"quality,omitempty" validate:"omitempty,min=1,max=5"`
	Safety      *int    `json:"safety,omitempty" validate:"omitempty,min=1,max=5"`
	WouldRehire *bool   `json:"would_rehire,omitempty"`
	Comments    *string `json:"comments,omitempty" validate:"omitempty,max=2000"`
}

// WriteResponse pairs a stored record with the snapshot it produced.
type WriteResponse struct {
	Record   interface{}      `json:"record"`
	Snapshot SnapshotResponse `json:"snapshot"`
}

// NewWriteResponse builds the response of a scored write.
func NewWriteResponse(record interface{}, snapshot *models.WorkerSnapshot) WriteResponse {
	resp := WriteResponse{Record: record}
	if snapshot != nil {
		resp.Snapshot = NewSnapshotResponse(*snapshot)
	}
	return resp
}

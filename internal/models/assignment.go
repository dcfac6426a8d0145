package models

import "time"

// JobCategory classifies the kind of work an assignment covers.
type JobCategory string

const (
	JobCategoryWarehouse    JobCategory = "warehouse"
	JobCategoryCleanup      JobCategory = "cleanup"
	JobCategoryJanitorial   JobCategory = "janitorial"
	JobCategoryEvents       JobCategory = "events"
	JobCategoryMoving       JobCategory = "moving"
	JobCategoryGeneralLabor JobCategory = "general_labor"
)

// JobCategories lists every accepted category.
var JobCategories = []JobCategory{
	JobCategoryWarehouse,
	JobCategoryCleanup,
	JobCategoryJanitorial,
	JobCategoryEvents,
	JobCategoryMoving,
	JobCategoryGeneralLabor,
}

// Assignment is an engagement of a worker on a job. Assignments are never edited.
type Assignment struct {
	ID             string      `db:"id" json:"id"`
	WorkerID       string      `db:"worker_id" json:"worker_id"`
	Category       JobCategory `db:"category" json:"category"`
	ScheduledStart time.Time   `db:"scheduled_start" json:"scheduled_start"`
	ScheduledEnd   *time.Time  `db:"scheduled_end" json:"scheduled_end,omitempty"`
	CreatedBy      string      `db:"created_by" json:"created_by"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
}

// EventType is the attendance outcome recorded for an assignment.
type EventType string

const (
	EventCompleted EventType = "completed"
	EventLate      EventType = "late"
	EventSentHome  EventType = "sent_home"
	EventNCNS      EventType = "ncns"
)

// IsIncident reports whether the event counts against reliability.
func (t EventType) IsIncident() bool {
	return t == EventLate || t == EventSentHome || t == EventNCNS
}

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	return t == EventCompleted || t.IsIncident()
}

// AttendanceEvent is one append-only outcome record for an assignment.
type AttendanceEvent struct {
	ID           string    `db:"id" json:"id"`
	AssignmentID string    `db:"assignment_id" json:"assignment_id"`
	EventType    EventType `db:"event_type" json:"event_type"`
	OccurredAt   time.Time `db:"occurred_at" json:"occurred_at"`
	RecordedBy   string    `db:"recorded_by" json:"recorded_by"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
}

// AssignmentDetail bundles an assignment with its events and ratings.
type AssignmentDetail struct {
	Assignment
	Events         []AttendanceEvent `json:"events"`
	StaffRating    *StaffRating      `json:"staff_rating,omitempty"`
	CustomerRating *CustomerRating   `json:"customer_rating,omitempty"`
}

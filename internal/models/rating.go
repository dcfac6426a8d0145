package models

import (
	"time"

	"github.com/lib/pq"
)

// StaffRating is the internal 1-5 rating of an assignment. One per assignment.
type StaffRating struct {
	AssignmentID  string         `db:"assignment_id" json:"assignment_id"`
	Overall       int            `db:"overall" json:"overall"`
	Tags          pq.StringArray `db:"tags" json:"tags"`
	InternalNotes *string        `db:"internal_notes" json:"internal_notes,omitempty"`
	SubmittedBy   string         `db:"submitted_by" json:"submitted_by"`
	SubmittedAt   time.Time      `db:"submitted_at" json:"submitted_at"`
}

// CustomerRating is the client's 1-5 rating of an assignment. One per assignment.
type CustomerRating struct {
	AssignmentID string    `db:"assignment_id" json:"assignment_id"`
	Overall      int       `db:"overall" json:"overall"`
	Punctuality  *int      `db:"punctuality" json:"punctuality,omitempty"`
	WorkEthic    *int      `db:"work_ethic" json:"work_ethic,omitempty"`
	Attitude     *int      `db:"attitude" json:"attitude,omitempty"`
	Quality      *int      `db:"quality" json:"quality,omitempty"`
	Safety       *int      `db:"safety" json:"safety,omitempty"`
	WouldRehire  *bool     `db:"would_rehire" json:"would_rehire,omitempty"`
	Comments     *string   `db:"comments" json:"comments,omitempty"`
	SubmittedBy  string    `db:"submitted_by" json:"submitted_by"`
	SubmittedAt  time.Time `db:"submitted_at" json:"submitted_at"`
}

package models

// WorkerCounts summarises the worker directory.
type WorkerCounts struct {
	Total       int `db:"total" json:"total"`
	Active      int `db:"active" json:"active"`
	NeedsReview int `db:"needs_review" json:"needs_review"`
}

// EventCounts counts attendance events by type.
type EventCounts struct {
	Completed int `db:"completed" json:"completed"`
	Late      int `db:"late" json:"late"`
	SentHome  int `db:"sent_home" json:"sent_home"`
	NCNS      int `db:"ncns" json:"ncns"`
}

// RatingCounts counts submitted ratings by source.
type RatingCounts struct {
	Staff    int `db:"staff" json:"staff"`
	Customer int `db:"customer" json:"customer"`
}

// FlagCounts counts workers currently carrying each flag.
type FlagCounts struct {
	NeedsReview          int `db:"needs_review" json:"needs_review"`
	TerminateRecommended int `db:"terminate_recommended" json:"terminate_recommended"`
	Flagged              int `db:"flagged" json:"flagged"`
}

// DashboardCounts groups the raw counters of the staff dashboard.
type DashboardCounts struct {
	Workers WorkerCounts `json:"workers"`
	Events  EventCounts  `json:"events"`
	Ratings RatingCounts `json:"ratings"`
	Flags   FlagCounts   `json:"flags"`
}

// DashboardAverages are the fleet-wide means behind the key cards.
type DashboardAverages struct {
	AvgRating      float64 `db:"avg_rating"`
	AvgReliability float64 `db:"avg_reliability"`
	Assignments    int     `db:"assignments"`
}

// KeyCard is one headline metric on the dashboard.
type KeyCard struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// DashboardSummary is the payload of GET /dashboard/summary.
type DashboardSummary struct {
	Counts   DashboardCounts `json:"counts"`
	KeyCards []KeyCard       `json:"key_cards"`
}

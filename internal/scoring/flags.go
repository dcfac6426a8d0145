package scoring

// Flag is a risk marker raised by the flag policy.
type Flag string

const (
	FlagNeedsReview          Flag = "needs-review"
	FlagTerminateRecommended Flag = "terminate-recommended"
)

// TrendWindow is the number of consecutive jobs the downward-trend detector inspects.
const TrendWindow = 5

// Needs-review thresholds.
const (
	ReviewScoreThreshold    = 3.5
	ReviewNCNSRateThreshold = 0.15
	ReviewIncidentThreshold = 3
)

// Terminate-recommended thresholds.
const (
	TerminateNCNSRateThreshold   = 0.25
	TerminateRecentNCNSThreshold = 2
	TerminateScoreThreshold      = 3.0
	TerminateMinJobs             = 10
)

// NeedsReviewInput feeds the needs-review predicate.
type NeedsReviewInput struct {
	PerformanceScore    float64
	NCNSRate            float64
	IncidentsLast30Days int
	// RecentRatings holds combined ratings, most recent first.
	RecentRatings []float64
}

// TerminateInput feeds the terminate-recommended predicate.
type TerminateInput struct {
	PerformanceScore float64
	TotalJobs        int
	NCNSRate         float64
	NCNSInLastFive   int
	SevereIncident   bool
}

// HasDownwardTrend reports whether the first five ratings of a
// most-recent-first series strictly decrease from one entry to the next.
// Shorter series never count as a trend.
func HasDownwardTrend(recentFirst []float64) bool {
	if len(recentFirst) < TrendWindow {
		return false
	}
	window := recentFirst[:TrendWindow]
	for i := 1; i < len(window); i++ {
		if window[i] >= window[i-1] {
			return false
		}
	}
	return true
}

// NeedsReview is true when any review trigger fires.
func NeedsReview(in NeedsReviewInput) bool {
	return in.PerformanceScore < ReviewScoreThreshold ||
		in.NCNSRate > ReviewNCNSRateThreshold ||
		in.IncidentsLast30Days >= ReviewIncidentThreshold ||
		HasDownwardTrend(in.RecentRatings)
}

// TerminateRecommended is true when any termination trigger fires.
func TerminateRecommended(in TerminateInput) bool {
	return in.NCNSRate > TerminateNCNSRateThreshold ||
		in.NCNSInLastFive >= TerminateRecentNCNSThreshold ||
		(in.PerformanceScore < TerminateScoreThreshold && in.TotalJobs >= TerminateMinJobs) ||
		in.SevereIncident
}

// EvaluateFlags returns the active flags in a fixed order. The result is never nil.
func EvaluateFlags(review NeedsReviewInput, terminate TerminateInput) []Flag {
	flags := make([]Flag, 0, 2)
	if NeedsReview(review) {
		flags = append(flags, FlagNeedsReview)
	}
	if TerminateRecommended(terminate) {
		flags = append(flags, FlagTerminateRecommended)
	}
	return flags
}

// HasFlag reports whether flag is present in flags.
func HasFlag(flags []Flag, flag Flag) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}

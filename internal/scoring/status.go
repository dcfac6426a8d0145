package scoring

// Status is the coarse label staff dashboards show for a worker.
type Status string

const (
	StatusStrong      Status = "strong"
	StatusNeedsReview Status = "needs_review"
	StatusHighRisk    Status = "high_risk"
	StatusTerminate   Status = "terminate"
)

// StatusInput is the subset of a snapshot the display status reads.
type StatusInput struct {
	PerformanceScore float64
	ReliabilityScore float64
	LateRate         float64
	NCNSRate         float64
	Flags            []Flag
}

// DeriveStatus maps a snapshot to its display status, most severe first.
func DeriveStatus(in StatusInput) Status {
	if HasFlag(in.Flags, FlagTerminateRecommended) {
		return StatusTerminate
	}
	if in.NCNSRate >= 0.15 || in.LateRate >= 0.2 || in.ReliabilityScore < 3.8 || in.PerformanceScore < 3.5 {
		return StatusHighRisk
	}
	if HasFlag(in.Flags, FlagNeedsReview) || in.PerformanceScore < 4.2 {
		return StatusNeedsReview
	}
	return StatusStrong
}

// Label is the human readable form of the status.
func (s Status) Label() string {
	switch s {
	case StatusTerminate:
		return "Terminate recommended"
	case StatusHighRisk:
		return "High risk / hold"
	case StatusNeedsReview:
		return "Needs review"
	default:
		return "Strong"
	}
}

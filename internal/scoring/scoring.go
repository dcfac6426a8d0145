// Package scoring converts a worker's job history into performance and
// reliability scores, a tier and risk flags. Every function is pure.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// Rating blend weights for a job rated by both sources.
const (
	CustomerRatingWeight = 0.65
	StaffRatingWeight    = 0.35
)

// Per-incident penalties applied to the reliability baseline.
const (
	LatePenalty     = -0.3
	SentHomePenalty = -0.7
	NCNSPenalty     = -1.5
)

const (
	MinRating = 1
	MaxRating = 5

	// MaxScore is both the ceiling and the no-history default of the reliability score.
	MaxScore = 5.0
)

// ErrMalformedInput marks history that upstream validation should have rejected.
var ErrMalformedInput = errors.New("malformed scoring input")

// Tier is the reputation bucket derived from the performance score.
type Tier string

const (
	TierElite    Tier = "Elite"
	TierStrong   Tier = "Strong"
	TierSolid    Tier = "Solid"
	TierAtRisk   Tier = "At Risk"
	TierCritical Tier = "Critical"
)

// RatedJob is one assignment as seen by the performance score.
type RatedJob struct {
	StaffRating    *int
	CustomerRating *int
	ScheduledStart time.Time
}

// ReliabilityInput carries the attendance counts for a worker.
type ReliabilityInput struct {
	TotalJobs int
	Late      int
	SentHome  int
	NCNS      int
}

// Validate rejects negative counts.
func (in ReliabilityInput) Validate() error {
	if in.TotalJobs < 0 || in.Late < 0 || in.SentHome < 0 || in.NCNS < 0 {
		return fmt.Errorf("%w: negative attendance count %+v", ErrMalformedInput, in)
	}
	return nil
}

// ValidateRating rejects ratings outside 1-5.
func ValidateRating(value int) error {
	if value < MinRating || value > MaxRating {
		return fmt.Errorf("%w: rating %d outside %d-%d", ErrMalformedInput, value, MinRating, MaxRating)
	}
	return nil
}

// Validate checks every rating present on the job.
func (j RatedJob) Validate() error {
	if j.StaffRating != nil {
		if err := ValidateRating(*j.StaffRating); err != nil {
			return err
		}
	}
	if j.CustomerRating != nil {
		if err := ValidateRating(*j.CustomerRating); err != nil {
			return err
		}
	}
	return nil
}

// CombinedRating blends the staff and customer ratings of a job. The boolean
// is false when the job carries neither rating.
func CombinedRating(staff, customer *int) (float64, bool) {
	switch {
	case staff != nil && customer != nil:
		return float64(*customer)*CustomerRatingWeight + float64(*staff)*StaffRatingWeight, true
	case customer != nil:
		return float64(*customer), true
	case staff != nil:
		return float64(*staff), true
	default:
		return 0, false
	}
}

// PerformanceScore is the recency-weighted mean of combined ratings. The
// earliest rated job weighs 1 and the latest weighs N.
func PerformanceScore(jobs []RatedJob) float64 {
	sorted := make([]RatedJob, len(jobs))
	copy(sorted, jobs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ScheduledStart.Before(sorted[j].ScheduledStart)
	})

	var weighted, totalWeight float64
	rank := 0
	for _, job := range sorted {
		rating, ok := CombinedRating(job.StaffRating, job.CustomerRating)
		if !ok {
			continue
		}
		rank++
		weighted += rating * float64(rank)
		totalWeight += float64(rank)
	}
	if totalWeight == 0 {
		return 0
	}
	return Round(weighted/totalWeight, 2)
}

// ReliabilityScore subtracts the per-job incident penalty from a perfect 5.
func ReliabilityScore(in ReliabilityInput) float64 {
	if in.TotalJobs == 0 {
		return MaxScore
	}
	penalty := float64(in.Late)*LatePenalty + float64(in.SentHome)*SentHomePenalty + float64(in.NCNS)*NCNSPenalty
	normalized := penalty / float64(in.TotalJobs)
	return Round(clamp(MaxScore+normalized, 0, MaxScore), 2)
}

// LateRate is late events per job.
func LateRate(late, totalJobs int) float64 {
	return rate(late, totalJobs)
}

// NCNSRate is no-call-no-show events per job.
func NCNSRate(ncns, totalJobs int) float64 {
	return rate(ncns, totalJobs)
}

func rate(count, totalJobs int) float64 {
	if totalJobs == 0 {
		return 0
	}
	return Round(float64(count)/float64(totalJobs), 4)
}

// MapTier buckets a performance score. Bounds are inclusive lower bounds.
func MapTier(score float64) Tier {
	switch {
	case score >= 4.5:
		return TierElite
	case score >= 4.0:
		return TierStrong
	case score >= 3.5:
		return TierSolid
	case score >= 3.0:
		return TierAtRisk
	default:
		return TierCritical
	}
}

// Round rounds half away from zero at the given number of decimals.
func Round(value float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(value*pow) / pow
}

func clamp(value, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, value))
}
